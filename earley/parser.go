package earley

import (
	"fmt"

	"github.com/npillmayer/grift"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/scanner"
)

// Parser is an Earley-parser. Create one with NewParser, providing a grammar
// analysis. Parsers are not thread-safe, but may be re-used for parsing
// multiple inputs sequentially.
type Parser struct {
	ga     *grammar.Analysis
	states []*StateSet   // chart: one state set per input position
	tokens []grift.Token // input tokens, starting at index 1
	sc     uint64        // state counter: highest chart position
}

// NewParser creates an Earley-parser for a (previously analyzed) grammar.
func NewParser(ga *grammar.Analysis) *Parser {
	return &Parser{ga: ga}
}

// Parse reads tokens from a tokenizer until EOF and runs the Earley
// recognition algorithm on them. It returns true if the input is a sentence
// of the parser's grammar. A syntax error is reported at the furthest input
// position the recognizer was able to reach.
//
// After a successful parse, the chart is retained for derivation walks; see
// WalkDerivation, Tree and Forest.
func (p *Parser) Parse(tokenizer scanner.Tokenizer) (bool, error) {
	if tokenizer == nil {
		return false, fmt.Errorf("no tokenizer given")
	}
	p.reset()
	startItem, _ := grammar.StartItem(p.ga.Grammar().Rule(0))
	p.states[0].Add(startItem)
	var eof grift.Token
	for {
		p.closure(p.sc)
		dumpState(p.states, p.sc)
		tok := tokenizer.NextToken()
		if tok == nil {
			break
		}
		if tok.TokType() == scanner.EOF {
			eof = tok
			break
		}
		tracer().Debugf("Scanning token %q|%d at position %d", tok.Lexeme(), tok.TokType(), p.sc)
		next := p.scan(p.sc, tok)
		if next.Size() == 0 {
			return false, fmt.Errorf("syntax error at token %d: unexpected %q", p.sc+1, tok.Lexeme())
		}
		p.tokens = append(p.tokens, tok)
		p.states = append(p.states, next)
		p.sc++
	}
	// Grammars may reference end-of-input explicitly. If any item awaits EOF,
	// scan it like an ordinary terminal.
	if eof != nil {
		if next := p.scan(p.sc, eof); next.Size() > 0 {
			p.tokens = append(p.tokens, eof)
			p.states = append(p.states, next)
			p.sc++
			p.closure(p.sc)
			dumpState(p.states, p.sc)
		}
	}
	accept := p.accepts()
	tracer().Infof("accept=%v, %d tokens in %d states", accept, len(p.tokens)-1, p.sc+1)
	return accept, nil
}

func (p *Parser) reset() {
	p.states = []*StateSet{newStateSet()}
	p.tokens = []grift.Token{nil} // tokens start at index 1
	p.sc = 0
}

// closure applies prediction and completion to state i until no more items
// can be added. Items awaiting a terminal are left for the scan step.
func (p *Parser) closure(i uint64) {
	S := p.states[i]
	for j := 0; j < S.Size(); j++ {
		item := S.At(j)
		if item.Completed() {
			p.complete(i, item)
		} else if B := item.PeekSymbol(); !B.IsTerminal() {
			p.predict(i, item, B)
		}
	}
}

// predict adds start items for every rule of non-terminal B. For
// epsilon-derivable B the predicting item is advanced over B immediately
// (the nullable-completion fix of Aycock & Horspool).
func (p *Parser) predict(i uint64, item grammar.Item, B *grammar.Symbol) {
	for _, r := range p.ga.Grammar().FindNonTermRules(B) {
		predicted, _ := grammar.StartItem(r)
		predicted.Origin = i
		p.states[i].Add(predicted)
	}
	if p.ga.DerivesEpsilon(B) {
		p.states[i].Add(item.Advance())
	}
}

// complete advances every item of the origin state which awaits the LHS of a
// completed item.
func (p *Parser) complete(i uint64, completed grammar.Item) {
	B := completed.Rule().LHS
	p.states[completed.Origin].Each(func(item grammar.Item) {
		if item.PeekSymbol() == B {
			p.states[i].Add(item.Advance())
		}
	})
}

// scan builds the successor state of state i by advancing all items which
// await a terminal matching the token's type.
func (p *Parser) scan(i uint64, tok grift.Token) *StateSet {
	next := newStateSet()
	p.states[i].Each(func(item grammar.Item) {
		if B := item.PeekSymbol(); B != nil && B.IsTerminal() && B.TokenType() == tok.TokType() {
			next.Add(item.Advance())
		}
	})
	return next
}

// accepts checks for a completed start item with origin 0 in the final state.
func (p *Parser) accepts() bool {
	accept := false
	p.states[p.sc].Each(func(item grammar.Item) {
		if item.Completed() && item.Origin == 0 && item.Rule().Serial == 0 {
			accept = true
		}
	})
	return accept
}

// TokenAt returns the input token following chart position pos, or nil.
func (p *Parser) TokenAt(pos uint64) grift.Token {
	if pos+1 < uint64(len(p.tokens)) {
		return p.tokens[pos+1] // tokens start at index 1
	}
	return nil
}

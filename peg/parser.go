package peg

import (
	"fmt"

	"github.com/npillmayer/grift"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/scanner"
	"github.com/npillmayer/grift/tree"
)

// Parser is a greedy packrat-parser. Create one with NewParser, providing a
// grammar analysis. Parsers are not thread-safe, but may be re-used for
// parsing multiple inputs sequentially.
type Parser struct {
	ga         *grammar.Analysis
	tokens     []grift.Token
	memo       map[memoKey]memoEntry
	inProgress map[memoKey]bool
	deriv      *tree.Node
	furthest   uint64          // furthest input position a match failed at
	expected   *grammar.Symbol // terminal expected at the furthest position
}

type memoKey struct {
	sym *grammar.Symbol
	pos uint64
}

type memoEntry struct {
	node *tree.Node
	next uint64
	ok   bool
}

// NewParser creates a packrat-parser for a (previously analyzed) grammar.
func NewParser(ga *grammar.Analysis) *Parser {
	return &Parser{ga: ga}
}

// Parse reads tokens from a tokenizer until EOF and greedily matches them
// against the parser's grammar. It returns true if the grammar, interpreted
// with first-alternative-wins semantics, derives the complete input.
//
// On rejection the returned error points at the furthest input position
// recognition reached.
func (p *Parser) Parse(tokenizer scanner.Tokenizer) (bool, error) {
	if tokenizer == nil {
		return false, fmt.Errorf("no tokenizer given")
	}
	p.reset()
	for {
		tok := tokenizer.NextToken()
		if tok == nil || tok.TokType() == scanner.EOF {
			break
		}
		p.tokens = append(p.tokens, tok)
	}
	start := p.ga.Grammar().Rule(0).LHS
	node, next, ok := p.parseSymbol(start, 0)
	if ok && next == uint64(len(p.tokens)) {
		p.deriv = node
		tracer().Infof("accept=true, %d tokens consumed", len(p.tokens))
		return true, nil
	}
	if ok { // matched a prefix only
		tracer().Infof("accept=false, matched %d of %d tokens", next, len(p.tokens))
		if next > p.furthest {
			p.furthest = next
			p.expected = nil
		}
	}
	return false, p.syntaxError()
}

func (p *Parser) reset() {
	p.tokens = p.tokens[:0]
	p.memo = make(map[memoKey]memoEntry)
	p.inProgress = make(map[memoKey]bool)
	p.deriv = nil
	p.furthest = 0
	p.expected = nil
}

// Tree returns the derivation tree of a successful parse, or nil.
// Greedy recognition is deterministic, so there is always exactly one tree.
func (p *Parser) Tree() *tree.Node {
	return p.deriv
}

// parseSymbol matches symbol sym at input position pos. It returns the
// derivation subtree, the position after the match, and a success flag.
func (p *Parser) parseSymbol(sym *grammar.Symbol, pos uint64) (*tree.Node, uint64, bool) {
	if sym.IsTerminal() {
		return p.parseTerminal(sym, pos)
	}
	key := memoKey{sym: sym, pos: pos}
	if entry, ok := p.memo[key]; ok {
		return entry.node, entry.next, entry.ok
	}
	if p.inProgress[key] {
		// left recursion: fail this alternative instead of looping
		tracer().Debugf("blocking left-recursive re-entry of %s at %d", sym, pos)
		return nil, pos, false
	}
	p.inProgress[key] = true
	node, next, ok := p.parseAlternatives(sym, pos)
	delete(p.inProgress, key)
	p.memo[key] = memoEntry{node: node, next: next, ok: ok}
	return node, next, ok
}

// parseAlternatives tries the rules for non-terminal sym in serial order and
// commits to the first one which matches.
func (p *Parser) parseAlternatives(sym *grammar.Symbol, pos uint64) (*tree.Node, uint64, bool) {
	rules := p.ga.Grammar().FindNonTermRules(sym)
	if sym == p.ga.Grammar().Rule(0).LHS {
		rules = []*grammar.Rule{p.ga.Grammar().Rule(0)}
	}
	for _, r := range rules {
		children, next, ok := p.parseSequence(r.RHS(), pos)
		if !ok {
			continue
		}
		tracer().Debugf("matched %v over (%d…%d)", r, pos, next)
		node := tree.NewInner(sym.Name, r.Serial, grift.Span{pos, next}, children...)
		return node, next, true
	}
	return nil, pos, false
}

func (p *Parser) parseSequence(rhs []*grammar.Symbol, pos uint64) ([]*tree.Node, uint64, bool) {
	var children []*tree.Node
	for _, sym := range rhs {
		node, next, ok := p.parseSymbol(sym, pos)
		if !ok {
			return nil, pos, false
		}
		children = append(children, node)
		pos = next
	}
	return children, pos, true
}

func (p *Parser) parseTerminal(sym *grammar.Symbol, pos uint64) (*tree.Node, uint64, bool) {
	if sym.TokenType() == scanner.EOF {
		// #eof matches the end of input; it consumes no token
		if pos == uint64(len(p.tokens)) {
			leaf := tree.NewLeaf(sym.Name, int(sym.TokenType()), "", grift.Span{pos, pos})
			return leaf, pos, true
		}
		if pos > p.furthest || (pos == p.furthest && p.expected == nil) {
			p.furthest = pos
			p.expected = sym
		}
		return nil, pos, false
	}
	if pos >= uint64(len(p.tokens)) || p.tokens[pos].TokType() != sym.TokenType() {
		if pos > p.furthest || (pos == p.furthest && p.expected == nil) {
			p.furthest = pos
			p.expected = sym
		}
		return nil, pos, false
	}
	tok := p.tokens[pos]
	leaf := tree.NewLeaf(sym.Name, int(tok.TokType()), tok.Lexeme(), grift.Span{pos, pos + 1})
	return leaf, pos + 1, true
}

func (p *Parser) syntaxError() error {
	if p.furthest >= uint64(len(p.tokens)) {
		if p.expected != nil {
			return fmt.Errorf("syntax error at end of input: expected %s", p.expected)
		}
		return fmt.Errorf("syntax error at end of input")
	}
	tok := p.tokens[p.furthest]
	if p.expected != nil {
		return fmt.Errorf("syntax error at token %d: unexpected %q, expected %s",
			p.furthest+1, tok.Lexeme(), p.expected)
	}
	return fmt.Errorf("syntax error at token %d: unexpected %q", p.furthest+1, tok.Lexeme())
}

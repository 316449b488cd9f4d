package earley

import (
	"fmt"

	"github.com/npillmayer/schuko/gconf"

	"github.com/npillmayer/grift"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/tree"
)

// --- Derivation listener ---------------------------------------------------

// Listener is a type for walking a derivation.
type Listener interface {
	Reduce(sym *grammar.Symbol, rule int, rhs []*RuleNode, extent grift.Span, level int) interface{}
	Terminal(token grift.Token, extent grift.Span, level int) interface{}
}

// RuleNode represents a node occuring during a derivation walk.
type RuleNode struct {
	sym    *grammar.Symbol
	Extent grift.Span  // span of input tokens this rule reduced
	Value  interface{} // user defined value
}

// Symbol returns the grammar symbol a RuleNode refers to.
// It is either a terminal or the LHS of a reduced rule.
func (rnode *RuleNode) Symbol() *grammar.Symbol {
	return rnode.sym
}

// --- Tree Walker -----------------------------------------------------------

// WalkDerivation walks the grammar items which occured during the parse.
// It uses a listener, which gets called for every terminal and for every
// non-terminal reduction. Ambiguities are resolved by a fixed policy:
// leftmost origin first, then lowest rule serial.
func (p *Parser) WalkDerivation(listener Listener) *RuleNode {
	tracer().Debugf("=== Walk ===============================")
	var root *RuleNode
	p.states[p.sc].Each(func(item grammar.Item) {
		if root == nil && item.Completed() && item.Origin == 0 && item.Rule().Serial == 0 {
			root = p.walk(item, p.sc, ruleset{}, listener, 0)
		}
	})
	tracer().Debugf("========================================")
	return root
}

// Walk backwards over the items of Earley states.
//
// A good overview of how to construct a parse tree from Earley-items may be
// found in "Parsing Techniques" by Dick Grune and Ceriel J.H. Jacobs
// (https://dickgrune.com/Books/PTAPG_2nd_Edition/), Section 7.2.1.2, and in
// a tutorial by Loup Vaillant
// (http://loup-vaillant.fr/tutorials/earley-parsing/parser).
//
// The key observation: a completed item [Foo ::= a b c •, i] in state j can
// only exist if the last symbol of its RHS has been recognized ending at j.
// Searching the states right-to-left for completions of the RHS symbols
// recovers the children of the rule application.
func (p *Parser) walk(item grammar.Item, pos uint64, trys ruleset,
	listener Listener, level int) *RuleNode {
	//
	rhs := reverse(item.Rule().RHS()) // we iterate backwards over RHS symbols of item
	tracer().Debugf("Walk from item=%s (%d…%d)", item, item.Origin, pos)
	extent := grift.Span{item.Origin, pos}
	l := len(rhs)
	ruleNodes := make([]*RuleNode, l) // we will collect |RHS| children nodes
	end := pos
	leftmost := false
	for n, B := range rhs {
		if n+1 == l { // this is the leftmost symbol in RHS ⇒ must match at item.Origin
			leftmost = true
		}
		tracer().Debugf("Next symbol in rev(RHS) is %s", B)
		if B.IsTerminal() { // collect a terminal node
			tok := p.tokens[pos]
			value := listener.Terminal(tok, grift.Span{pos - 1, pos}, level+1)
			ruleNodes[l-n-1] = &RuleNode{
				sym:    B,
				Extent: grift.Span{pos - 1, pos},
				Value:  value,
			}
			pos--
			continue
		}
		// for each symbol B, find an item [B ::= …•, k] which has completed it
		R := p.states[pos].Completions(B)
		tracer().Debugf("R=%s", itemSetString(R))
		switch len(R) {
		case 0: // cannot happen
			if stuck(fmt.Sprintf("predecessor for item missing, parse is stuck: %v", item)) {
				return nil
			}
		case 1: // non-ambiguous
			child := R[0]
			if leftmost && child.Origin != item.Origin {
				if stuck(fmt.Sprintf("leftmost symbol of RHS(%v) does not reach left side of span", child)) {
					return nil
				}
			}
			ruleNodes[l-n-1] = p.walk(child, pos, try(pos, end, trys), listener, level+1)
			pos = child.Origin // k
		default: // ambiguous: resolve by leftmost origin, then by lower rule number
			var longest grammar.Item
			for _, completion := range R {
				// avoid looping with ancestor-rule = current rule
				if trys.contains(completion.Rule()) { // tried somewhere up in the derivation walk
					continue // skip this rule
				}
				if item.Origin <= completion.Origin {
					if longest.Rule() == nil {
						longest = completion
					} else if completion.Origin < longest.Origin {
						longest = completion
					} else if completion.Origin == longest.Origin &&
						completion.Rule().Serial < longest.Rule().Serial {
						longest = completion
					}
				}
			}
			if longest.Rule() == nil {
				if stuck(fmt.Sprintf("no completed item available to satisfy %v", item)) {
					return nil
				}
			}
			trys = trys.add(longest.Rule()) // remember we tried this rule for this span
			if leftmost && longest.Origin != item.Origin {
				if stuck(fmt.Sprintf("leftmost symbol of RHS(%v) does not reach left side of span", longest)) {
					return nil
				}
			}
			tracer().Debugf("Selected completion %s", longest)
			ruleNodes[l-n-1] = p.walk(longest, pos, try(pos, end, trys), listener, level+1)
			pos = longest.Origin // k
		}
	}
	if pos > item.Origin {
		if stuck("did not reach start of rule derivation, parser is stuck") {
			return nil
		}
	}
	value := listener.Reduce(item.Rule().LHS, item.Rule().Serial, ruleNodes, extent, level)
	node := &RuleNode{
		sym:    item.Rule().LHS,
		Extent: extent,
		Value:  value,
	}
	tracer().Debugf("Tree node    %d|-----%s-----|%d", extent.From(), item.Rule().LHS.Name, extent.To())
	return node
}

func try(pos, end uint64, trys ruleset) ruleset {
	if pos == end {
		return trys
	}
	return ruleset{}
}

func stuck(msg string) bool {
	tracer().Errorf(msg)
	if gconf.GetBool("panic-on-parser-stuck") {
		panic(`Earley-parser is stuck.

Configuration flag panic-on-parser-stuck is set to true. It is aimed at helping
to debug a parser and do a post-mortem of why it got stuck. However, if this is
a production environment and you did not expect this to panic, please unset
panic-on-parser-stuck to its default (false).

` + msg)
	}
	return true
}

// --- Tree building listener -------------------------------------------

// TreeBuilder is a Listener which creates a derivation tree from the
// Earley-states. Users may create one and call it themselves, but the more
// common usage pattern is through parser method Tree.
type TreeBuilder struct {
	grammar *grammar.Grammar
}

// NewTreeBuilder creates a TreeBuilder given an input grammar. This should
// obviously be the same grammar as the one used for parsing, but this is not
// enforced.
//
// The TreeBuilder uses the grammar to resolve terminal token types to symbol
// names.
func NewTreeBuilder(g *grammar.Grammar) *TreeBuilder {
	return &TreeBuilder{grammar: g}
}

// Reduce is a listener method, called for Earley-completions.
func (tb *TreeBuilder) Reduce(sym *grammar.Symbol, rule int, rhs []*RuleNode, extent grift.Span,
	level int) interface{} {
	//
	children := make([]*tree.Node, len(rhs))
	for i, r := range rhs {
		children[i] = r.Value.(*tree.Node)
	}
	return tree.NewInner(sym.Name, rule, extent, children...)
}

// Terminal is a listener method, called when matching input tokens.
func (tb *TreeBuilder) Terminal(token grift.Token, extent grift.Span, level int) interface{} {
	name := token.Lexeme()
	if sym := tb.grammar.Terminal(int(token.TokType())); sym != nil {
		name = sym.Name
	}
	return tree.NewLeaf(name, int(token.TokType()), token.Lexeme(), extent)
}

var _ Listener = &TreeBuilder{}

// Tree returns the derivation tree of a successful parse, with ambiguities
// resolved by the walker's default policy. Returns nil if the previous parse
// did not accept its input.
func (p *Parser) Tree() *tree.Node {
	root := p.WalkDerivation(NewTreeBuilder(p.ga.Grammar()))
	if root == nil {
		return nil
	}
	return root.Value.(*tree.Node)
}

// --- Helpers ----------------------------------------------------------

// Reverse the symbols of a RHS of a rule (i.e., a handle)
// Creates a new slice.
func reverse(syms []*grammar.Symbol) []*grammar.Symbol {
	r := append([]*grammar.Symbol(nil), syms...) // make copy first
	for i := len(syms)/2 - 1; i >= 0; i-- {
		opp := len(syms) - 1 - i
		r[i], r[opp] = r[opp], r[i]
	}
	return r
}

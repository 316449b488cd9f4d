package earley

import (
	"github.com/npillmayer/grift"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/tree"
)

// Forest materializes the complete packed parse forest of the previous
// parse, containing every derivation of the input, not just the one selected
// by the walker's ambiguity policy. Returns nil if the previous parse did not
// accept its input.
//
// Forest construction searches the chart exhaustively: for every completed
// item it enumerates all segmentations of the item's RHS over the item's
// extent. Nodes are shared per (symbol, extent), which keeps the forest
// polynomial even for exponentially ambiguous grammars.
func (p *Parser) Forest() *tree.Forest {
	if p == nil || len(p.states) == 0 || !p.accepts() {
		return nil
	}
	fb := &forestBuilder{
		p:    p,
		memo: make(map[forestKey]*tree.PackedNode),
	}
	root := fb.node(p.ga.Grammar().Rule(0).LHS, 0, p.sc)
	return tree.NewForest(root)
}

type forestKey struct {
	sym  *grammar.Symbol
	from uint64
	to   uint64
}

type forestBuilder struct {
	p    *Parser
	memo map[forestKey]*tree.PackedNode
}

// node returns the packed forest node for non-terminal B over [from, to).
// The node is entered into the memo before its families are computed, so
// cyclic derivations (B deriving itself over the same extent) fold back onto
// the same node instead of recursing forever.
func (fb *forestBuilder) node(B *grammar.Symbol, from, to uint64) *tree.PackedNode {
	key := forestKey{sym: B, from: from, to: to}
	if pn, ok := fb.memo[key]; ok {
		return pn
	}
	pn := tree.NewPackedNode(B.Name, grift.Span{from, to})
	fb.memo[key] = pn
	for _, item := range fb.p.states[to].Completions(B) {
		if item.Origin != from {
			continue
		}
		rhs := item.Rule().RHS()
		for _, children := range fb.segments(rhs, from, to) {
			pn.AddFamily(item.Rule().Serial, children)
		}
	}
	if pn.FamilyCount() == 0 {
		tracer().Debugf("no derivation of %s over (%d…%d)", B, from, to)
	}
	return pn
}

// segments enumerates all ways the symbols of rhs can cover the chart
// positions from…to, given the completions recorded in the chart. Each
// result is one child sequence for a family.
func (fb *forestBuilder) segments(rhs []*grammar.Symbol, from, to uint64) [][]*tree.PackedNode {
	if len(rhs) == 0 {
		if from == to {
			return [][]*tree.PackedNode{nil} // the empty segmentation
		}
		return nil
	}
	last := rhs[len(rhs)-1]
	var segs [][]*tree.PackedNode
	if last.IsTerminal() {
		if to == from {
			return nil
		}
		tok := fb.p.tokens[to]
		if tok == nil || tok.TokType() != last.TokenType() {
			return nil
		}
		leaf := tree.NewPackedLeaf(last.Name, int(tok.TokType()), tok.Lexeme(), grift.Span{to - 1, to})
		for _, head := range fb.segments(rhs[:len(rhs)-1], from, to-1) {
			segs = append(segs, appendChild(head, leaf))
		}
		return segs
	}
	// non-terminal: every completion [last ::= …•, k] in state 'to' splits
	// the extent at k
	seen := map[uint64]bool{}
	for _, item := range fb.p.states[to].Completions(last) {
		k := item.Origin
		if k < from || seen[k] {
			continue
		}
		seen[k] = true
		heads := fb.segments(rhs[:len(rhs)-1], from, k)
		if len(heads) == 0 {
			continue
		}
		child := fb.node(last, k, to)
		for _, head := range heads {
			segs = append(segs, appendChild(head, child))
		}
	}
	return segs
}

func appendChild(head []*tree.PackedNode, child *tree.PackedNode) []*tree.PackedNode {
	row := make([]*tree.PackedNode, len(head), len(head)+1)
	copy(row, head)
	return append(row, child)
}

package tree

import (
	"github.com/npillmayer/grift"
)

// PackedNode is a node of a packed parse forest. It represents a grammar
// symbol over an extent of input positions. Non-terminal nodes may carry
// more than one family of children, one per alternative derivation of the
// same substring. Sharing a PackedNode between families keeps the forest
// small even for heavily ambiguous parses.
type PackedNode struct {
	Symbol   string
	Extent   grift.Span
	TokType  int    // terminal nodes only
	Lexeme   string // terminal nodes only
	terminal bool
	families []family
}

// family is one alternative derivation of a packed node: an application of
// rule to an ordered child sequence.
type family struct {
	rule     int
	children []*PackedNode
}

// NewPackedLeaf creates a terminal forest node.
func NewPackedLeaf(symname string, toktype int, lexeme string, extent grift.Span) *PackedNode {
	return &PackedNode{
		Symbol:   symname,
		Extent:   extent,
		TokType:  toktype,
		Lexeme:   lexeme,
		terminal: true,
	}
}

// NewPackedNode creates a non-terminal forest node without families.
func NewPackedNode(symname string, extent grift.Span) *PackedNode {
	return &PackedNode{
		Symbol: symname,
		Extent: extent,
	}
}

// AddFamily adds an alternative derivation to a packed node. Duplicate
// families (same rule, same children) are ignored.
func (pn *PackedNode) AddFamily(rule int, children []*PackedNode) {
	for _, f := range pn.families {
		if f.rule == rule && eqChildren(f.children, children) {
			return
		}
	}
	pn.families = append(pn.families, family{rule: rule, children: children})
}

func eqChildren(a, b []*PackedNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsLeaf returns true for terminal forest nodes.
func (pn *PackedNode) IsLeaf() bool {
	return pn.terminal
}

// FamilyCount returns the number of alternative derivations of this node.
func (pn *PackedNode) FamilyCount() int {
	return len(pn.families)
}

// --- Forest -----------------------------------------------------------

// Forest is a packed parse forest: all derivation trees for one parsed
// input, sharing common nodes. Create one around a root node produced by a
// parser.
type Forest struct {
	root *PackedNode
}

// NewForest creates a forest with the given root node.
func NewForest(root *PackedNode) *Forest {
	return &Forest{root: root}
}

// Root returns the root node of the forest, or nil for an empty forest.
func (f *Forest) Root() *PackedNode {
	if f == nil {
		return nil
	}
	return f.root
}

// Ambiguous returns true if the forest contains more than one derivation
// tree, i.e. if any reachable node has more than one family.
func (f *Forest) Ambiguous() bool {
	if f == nil || f.root == nil {
		return false
	}
	seen := map[*PackedNode]bool{}
	return ambiguous(f.root, seen)
}

func ambiguous(pn *PackedNode, seen map[*PackedNode]bool) bool {
	if seen[pn] {
		return false
	}
	seen[pn] = true
	if len(pn.families) > 1 {
		return true
	}
	for _, fam := range pn.families {
		for _, ch := range fam.children {
			if ambiguous(ch, seen) {
				return true
			}
		}
	}
	return false
}

// DerivationCount counts the derivation trees represented by the forest,
// saturating at cap. Cyclic forests (from grammars where a non-terminal
// derives itself without consuming input) saturate as well.
func (f *Forest) DerivationCount(cap int) int {
	if f == nil || f.root == nil {
		return 0
	}
	onPath := map[*PackedNode]bool{}
	return countDerivations(f.root, cap, onPath)
}

func countDerivations(pn *PackedNode, cap int, onPath map[*PackedNode]bool) int {
	if pn.terminal {
		return 1
	}
	if onPath[pn] { // cycle: infinitely many derivations
		return cap
	}
	onPath[pn] = true
	defer delete(onPath, pn)
	total := 0
	for _, fam := range pn.families {
		n := 1
		for _, ch := range fam.children {
			n *= countDerivations(ch, cap, onPath)
			if n >= cap {
				n = cap
				break
			}
		}
		total += n
		if total >= cap {
			return cap
		}
	}
	return total
}

// First returns the first derivation tree of the forest, choosing the first
// family of every ambiguous node.
func (f *Forest) First() *Node {
	trees := f.Derivations(1)
	if len(trees) == 0 {
		return nil
	}
	return trees[0]
}

// Derivations enumerates up to max distinct derivation trees of the forest.
// Enumeration is deterministic: families are expanded in insertion order.
func (f *Forest) Derivations(max int) []*Node {
	if f == nil || f.root == nil || max <= 0 {
		return nil
	}
	onPath := map[*PackedNode]bool{}
	trees := unpack(f.root, max, onPath)
	if len(trees) == max {
		tracer().Infof("derivation enumeration capped at %d trees", max)
	}
	return trees
}

func unpack(pn *PackedNode, max int, onPath map[*PackedNode]bool) []*Node {
	if pn.terminal {
		return []*Node{NewLeaf(pn.Symbol, pn.TokType, pn.Lexeme, pn.Extent)}
	}
	if onPath[pn] {
		return nil // break derivation cycles
	}
	onPath[pn] = true
	defer delete(onPath, pn)
	var trees []*Node
	for _, fam := range pn.families {
		// cartesian product over the children of this family
		combos := [][]*Node{{}}
		for _, ch := range fam.children {
			subtrees := unpack(ch, max, onPath)
			var next [][]*Node
			for _, combo := range combos {
				for _, sub := range subtrees {
					row := make([]*Node, len(combo), len(combo)+1)
					copy(row, combo)
					next = append(next, append(row, sub))
					if len(next) >= max {
						break
					}
				}
				if len(next) >= max {
					break
				}
			}
			combos = next
			if len(combos) == 0 {
				break
			}
		}
		for _, combo := range combos {
			trees = append(trees, NewInner(pn.Symbol, fam.rule, pn.Extent, combo...))
			if len(trees) >= max {
				return trees
			}
		}
	}
	return trees
}

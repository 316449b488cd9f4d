package tree

import (
	"testing"

	"github.com/npillmayer/grift"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// An ambiguous forest for "1+2+3" with the classic expression ambiguity:
// E over [0,5) derives either (E[0,3) + digit) or (digit + E[2,5)).
func makeAmbiguousForest() *Forest {
	d1 := NewPackedLeaf("digit", '1', "1", grift.Span{0, 1})
	p1 := NewPackedLeaf("+", '+', "+", grift.Span{1, 2})
	d2 := NewPackedLeaf("digit", '2', "2", grift.Span{2, 3})
	p2 := NewPackedLeaf("+", '+', "+", grift.Span{3, 4})
	d3 := NewPackedLeaf("digit", '3', "3", grift.Span{4, 5})
	//
	eLeft := NewPackedNode("E", grift.Span{0, 3}) // 1+2
	eLeft.AddFamily(1, []*PackedNode{d1, p1, d2})
	eRight := NewPackedNode("E", grift.Span{2, 5}) // 2+3
	eRight.AddFamily(1, []*PackedNode{d2, p2, d3})
	//
	root := NewPackedNode("E", grift.Span{0, 5})
	root.AddFamily(1, []*PackedNode{eLeft, p2, d3})
	root.AddFamily(1, []*PackedNode{d1, p1, eRight})
	return NewForest(root)
}

func TestForestAmbiguous(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	f := makeAmbiguousForest()
	if !f.Ambiguous() {
		t.Errorf("Expected forest to be ambiguous")
	}
	if n := f.DerivationCount(100); n != 2 {
		t.Errorf("Expected 2 derivations, got %d", n)
	}
}

func TestForestAddFamilyDedup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	d := NewPackedLeaf("digit", '1', "1", grift.Span{0, 1})
	e := NewPackedNode("E", grift.Span{0, 1})
	e.AddFamily(2, []*PackedNode{d})
	e.AddFamily(2, []*PackedNode{d})
	if e.FamilyCount() != 1 {
		t.Errorf("Expected duplicate family to be dropped, have %d families", e.FamilyCount())
	}
}

func TestForestDerivations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	f := makeAmbiguousForest()
	trees := f.Derivations(10)
	if len(trees) != 2 {
		t.Fatalf("Expected 2 derivation trees, got %d", len(trees))
	}
	for i, tr := range trees {
		if tr.Text() != "1+2+3" {
			t.Errorf("Expected tree #%d to read back \"1+2+3\", got %q", i, tr.Text())
		}
	}
	if trees[0].Fingerprint() == trees[1].Fingerprint() {
		t.Errorf("Expected the two derivations to differ structurally")
	}
}

func TestForestFirstDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	f := makeAmbiguousForest()
	t1, t2 := f.First(), f.First()
	if t1 == nil || t2 == nil {
		t.Fatalf("Expected forest to yield a first derivation")
	}
	if t1.Fingerprint() != t2.Fingerprint() {
		t.Errorf("Expected First() to be deterministic")
	}
	// first family of the root is the left-leaning derivation
	if t1.Children[0].Symbol != "E" {
		t.Errorf("Expected first derivation to start with nested E, got %s", t1.Children[0].Symbol)
	}
}

func TestForestCycleSafety(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	// A ::= A | a   over a single token; the forest contains a cycle
	a := NewPackedLeaf("a", 'a', "a", grift.Span{0, 1})
	node := NewPackedNode("A", grift.Span{0, 1})
	node.AddFamily(1, []*PackedNode{node}) // A -> A
	node.AddFamily(2, []*PackedNode{a})    // A -> a
	f := NewForest(node)
	//
	if n := f.DerivationCount(50); n != 50 {
		t.Errorf("Expected count to saturate at cap 50, got %d", n)
	}
	trees := f.Derivations(5)
	if len(trees) == 0 {
		t.Fatalf("Expected at least one finite derivation from cyclic forest")
	}
	for _, tr := range trees {
		if tr.Text() != "a" {
			t.Errorf("Expected every derivation to read back \"a\", got %q", tr.Text())
		}
	}
}

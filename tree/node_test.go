package tree

import (
	"testing"

	"github.com/npillmayer/grift"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// A small derivation of "1+2":
//
//    Sum ──┬─ Sum ─── Product ─── "1"
//          ├─ "+"
//          └─ Product ─── "2"
//
func makeSumTree() *Node {
	one := NewLeaf("digit", '1', "1", grift.Span{0, 1})
	plus := NewLeaf("+", '+', "+", grift.Span{1, 2})
	two := NewLeaf("digit", '2', "2", grift.Span{2, 3})
	p1 := NewInner("Product", 4, grift.Span{0, 1}, one)
	p2 := NewInner("Product", 4, grift.Span{2, 3}, two)
	inner := NewInner("Sum", 2, grift.Span{0, 1}, p1)
	return NewInner("Sum", 1, grift.Span{0, 3}, inner, plus, p2)
}

func TestNodeText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	root := makeSumTree()
	if root.Text() != "1+2" {
		t.Errorf("Expected leaves to concatenate to \"1+2\", got %q", root.Text())
	}
	if leaves := root.Leaves(nil); len(leaves) != 3 {
		t.Errorf("Expected 3 leaves, got %d", len(leaves))
	}
}

func TestNodeSizeDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	root := makeSumTree()
	if root.Size() != 7 {
		t.Errorf("Expected size 7, got %d", root.Size())
	}
	if root.Depth() != 4 {
		t.Errorf("Expected depth 4, got %d", root.Depth())
	}
}

func TestNodeClone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	root := makeSumTree()
	clone := root.Clone()
	if clone.Fingerprint() != root.Fingerprint() {
		t.Errorf("Expected clone to have identical fingerprint")
	}
	clone.Children[1].Lexeme = "-"
	if clone.Fingerprint() == root.Fingerprint() {
		t.Errorf("Expected mutated clone to differ in fingerprint")
	}
	if root.Text() != "1+2" {
		t.Errorf("Expected original tree to be unaffected by clone mutation")
	}
}

func TestNodeBySymbol(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	root := makeSumTree()
	sums := root.BySymbol("Sum")
	if len(sums) != 2 {
		t.Errorf("Expected 2 'Sum' nodes, got %d", len(sums))
	}
	products := root.BySymbol("Product")
	if len(products) != 2 {
		t.Errorf("Expected 2 'Product' nodes, got %d", len(products))
	}
}

func TestNodeWalkPrune(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.tree")
	defer teardown()
	//
	root := makeSumTree()
	count := 0
	root.Walk(func(n *Node, level int) bool {
		count++
		return level < 1 // do not descend below the root's children
	})
	if count != 4 {
		t.Errorf("Expected pruned walk to visit 4 nodes, got %d", count)
	}
}

package tree

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"

	"github.com/npillmayer/grift"
)

// Node is a node of a derivation tree. Terminal nodes carry the literal text
// they represent and have no children. Inner nodes record the serial number
// of the grammar rule which produced them.
//
// Nodes reference grammar symbols by name, making trees self-contained: a
// tree survives serialization without a grammar instance at hand. Clients
// needing the symbol resolve it through the grammar.
type Node struct {
	Symbol   string     `msgpack:"sym"`
	Rule     int        `msgpack:"rule"`           // rule serial, < 0 for terminal nodes
	TokType  int        `msgpack:"tok,omitempty"`  // token type, terminal nodes only
	Lexeme   string     `msgpack:"lex,omitempty"`  // literal text, terminal nodes only
	Extent   grift.Span `msgpack:"span"`           // input positions this node covers
	Children []*Node    `msgpack:"kids,omitempty"` // ordered, empty for terminal nodes
}

// NewLeaf creates a terminal node.
func NewLeaf(symname string, toktype int, lexeme string, extent grift.Span) *Node {
	return &Node{
		Symbol:  symname,
		Rule:    -1,
		TokType: toktype,
		Lexeme:  lexeme,
		Extent:  extent,
	}
}

// NewInner creates a non-terminal node for a rule application.
func NewInner(symname string, rule int, extent grift.Span, children ...*Node) *Node {
	return &Node{
		Symbol:   symname,
		Rule:     rule,
		Extent:   extent,
		Children: children,
	}
}

// IsLeaf returns true for terminal nodes.
func (n *Node) IsLeaf() bool {
	return n.Rule < 0
}

// Leaves appends all terminal nodes of the subtree, left to right.
func (n *Node) Leaves(leaves []*Node) []*Node {
	if n.IsLeaf() {
		return append(leaves, n)
	}
	for _, ch := range n.Children {
		leaves = ch.Leaves(leaves)
	}
	return leaves
}

// Text returns the concatenation of the lexemes of all terminal leaves,
// left to right. For a tree resulting from a parse this reproduces the
// parsed input string exactly.
func (n *Node) Text() string {
	var b strings.Builder
	for _, leaf := range n.Leaves(nil) {
		b.WriteString(leaf.Lexeme)
	}
	return b.String()
}

// Size returns the number of nodes in the subtree, including n.
func (n *Node) Size() int {
	size := 1
	for _, ch := range n.Children {
		size += ch.Size()
	}
	return size
}

// Depth returns the height of the subtree. A single leaf has depth 1.
func (n *Node) Depth() int {
	max := 0
	for _, ch := range n.Children {
		if d := ch.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Walk traverses the subtree top-down (pre-order), calling visit for every
// node. If visit returns false, the children of the node are skipped.
func (n *Node) Walk(visit func(node *Node, level int) bool) {
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(node *Node, level int) bool, level int) {
	if !visit(n, level) {
		return
	}
	for _, ch := range n.Children {
		ch.walk(visit, level+1)
	}
}

// Renumber assigns consecutive token positions to the leaves of the subtree
// and recomputes the extents of inner nodes bottom-up. Generated or mutated
// trees use it to restore consistent extents.
func (n *Node) Renumber() {
	n.renumber(0)
}

func (n *Node) renumber(pos uint64) uint64 {
	if n.IsLeaf() {
		n.Extent = grift.Span{pos, pos + 1}
		return pos + 1
	}
	from := pos
	for _, ch := range n.Children {
		pos = ch.renumber(pos)
	}
	n.Extent = grift.Span{from, pos}
	return pos
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	nn := &Node{
		Symbol:  n.Symbol,
		Rule:    n.Rule,
		TokType: n.TokType,
		Lexeme:  n.Lexeme,
		Extent:  n.Extent,
	}
	if n.Children != nil {
		nn.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			nn.Children[i] = ch.Clone()
		}
	}
	return nn
}

// BySymbol collects all nodes of the subtree carrying the given symbol,
// including n itself.
func (n *Node) BySymbol(symname string) []*Node {
	var nodes []*Node
	n.Walk(func(node *Node, level int) bool {
		if node.Symbol == symname {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

// shadow structure for structhash: input extents do not participate, so
// trees which derive the same string the same way are considered equal.
type nodeFP struct {
	Symbol   string
	Rule     int
	TokType  int
	Lexeme   string
	Children []nodeFP
}

func (n *Node) fp() nodeFP {
	fp := nodeFP{
		Symbol:  n.Symbol,
		Rule:    n.Rule,
		TokType: n.TokType,
		Lexeme:  n.Lexeme,
	}
	for _, ch := range n.Children {
		fp.Children = append(fp.Children, ch.fp())
	}
	return fp
}

// Fingerprint returns a stable hash over the structure of the subtree.
// Corpora use fingerprints to deduplicate trees.
func (n *Node) Fingerprint() string {
	return fmt.Sprintf("%x", structhash.Md5(n.fp(), 1))
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("%s=%q", n.Symbol, n.Lexeme)
	}
	return fmt.Sprintf("%s.%d|%d|", n.Symbol, n.Rule, len(n.Children))
}

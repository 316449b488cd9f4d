package tree

import (
	"fmt"

	"github.com/pterm/pterm"
)

// We use pterm for moderately fancy output of derivation trees in CLIs.

// Render returns a textual representation of the subtree, one branch per
// line, suitable for terminal output.
func (n *Node) Render() string {
	ll := leveledNode(n, pterm.LeveledList{}, 0)
	root := pterm.NewTreeFromLeveledList(ll)
	out, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		tracer().Errorf("cannot render tree: %v", err)
		return n.String()
	}
	return out
}

func leveledNode(n *Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	label := n.Symbol
	if n.IsLeaf() {
		label = fmt.Sprintf("%s %q", n.Symbol, n.Lexeme)
	} else if len(n.Children) == 0 {
		label = n.Symbol + " ε"
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: label})
	for _, ch := range n.Children {
		ll = leveledNode(ch, ll, level+1)
	}
	return ll
}

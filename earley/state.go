package earley

import (
	"github.com/npillmayer/grift/grammar"
)

// StateSet is an ordered set of Earley items at one input position (a row of
// the parser's chart). Items are deduplicated, and iteration is stable in
// insertion order. The parser appends items while iterating, which is safe
// with index-based access.
type StateSet struct {
	items []grammar.Item
	index map[grammar.Item]bool
}

func newStateSet() *StateSet {
	return &StateSet{index: make(map[grammar.Item]bool)}
}

// Add adds an item to the set. Returns true if the set changed.
func (S *StateSet) Add(item grammar.Item) bool {
	if S.index[item] {
		return false
	}
	S.index[item] = true
	S.items = append(S.items, item)
	return true
}

// Size returns the number of items in the set.
func (S *StateSet) Size() int {
	return len(S.items)
}

// At returns the item at position i, in insertion order.
func (S *StateSet) At(i int) grammar.Item {
	return S.items[i]
}

// Each calls f for every item of the set, including items added during the
// iteration.
func (S *StateSet) Each(f func(item grammar.Item)) {
	for i := 0; i < len(S.items); i++ {
		f(S.items[i])
	}
}

// Completions returns all completed items of the set with the given LHS, i.e.
// all items [B ::= … •, k] for symbol B.
func (S *StateSet) Completions(B *grammar.Symbol) []grammar.Item {
	var R []grammar.Item
	for _, item := range S.items {
		if item.Completed() && item.Rule().LHS == B {
			R = append(R, item)
		}
	}
	return R
}

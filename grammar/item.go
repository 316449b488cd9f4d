package grammar

import (
	"fmt"
	"strings"
)

// Item is an "Earley item": a grammar rule with a dot position within its
// right-hand side, together with the input position where recognition of the
// rule started (its origin).
//
//    Sum ::= Sum • + Product   (2)
//
// Items are value types and may be used as map keys.
type Item struct {
	rule   *Rule
	dot    int
	Origin uint64 // start position in the input
}

// StartItem returns an item with the dot at the beginning of the rule's RHS,
// together with the symbol after the dot (nil for epsilon rules).
func StartItem(r *Rule) (Item, *Symbol) {
	i := Item{rule: r}
	return i, i.PeekSymbol()
}

// NullItem is the zero item; its Rule() is nil.
var NullItem = Item{}

// Rule returns the rule this item tracks.
func (i Item) Rule() *Rule {
	return i.rule
}

// PeekSymbol returns the symbol after the dot, or nil if the dot is behind
// the complete RHS, i.e. if the item is completed.
func (i Item) PeekSymbol() *Symbol {
	if i.rule == nil || i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Completed returns true if the dot is behind the complete RHS.
func (i Item) Completed() bool {
	return i.rule != nil && i.dot >= len(i.rule.rhs)
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() []*Symbol {
	if i.rule == nil {
		return nil
	}
	return i.rule.rhs[:i.dot]
}

// Advance advances the dot over the next symbol. Advancing a completed item
// returns NullItem.
func (i Item) Advance() Item {
	if i.rule == nil || i.dot >= len(i.rule.rhs) {
		return NullItem
	}
	return Item{rule: i.rule, dot: i.dot + 1, Origin: i.Origin}
}

func (i Item) String() string {
	if i.rule == nil {
		return "[<null> ::= •]"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s ::=", i.rule.LHS.Name))
	for n, sym := range i.rule.rhs {
		if n == i.dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(sym.Name)
	}
	if i.dot == len(i.rule.rhs) {
		b.WriteString(" •")
	}
	b.WriteString(fmt.Sprintf(", %d]", i.Origin))
	return b.String()
}

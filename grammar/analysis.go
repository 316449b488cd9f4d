package grammar

import (
	"fmt"
	"math"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// --- Symbol sets ------------------------------------------------------

// SymbolSet is an ordered set of token values, used for FIRST- and
// FOLLOW-sets. EpsilonType is used as a marker for epsilon-derivability.
type SymbolSet struct {
	set *treeset.Set
}

func newSymbolSet() *SymbolSet {
	return &SymbolSet{set: treeset.NewWith(utils.IntComparator)}
}

// Add adds a token value to the set. Returns true if the set changed.
func (ss *SymbolSet) Add(tokval int) bool {
	if ss.set.Contains(tokval) {
		return false
	}
	ss.set.Add(tokval)
	return true
}

// Contains checks set membership of a token value.
func (ss *SymbolSet) Contains(tokval int) bool {
	return ss.set.Contains(tokval)
}

// Size returns the cardinality of the set.
func (ss *SymbolSet) Size() int {
	return ss.set.Size()
}

// AppendTo appends all token values of the set to a slice.
func (ss *SymbolSet) AppendTo(tokvals []int) []int {
	it := ss.set.Iterator()
	for it.Next() {
		tokvals = append(tokvals, it.Value().(int))
	}
	return tokvals
}

// union adds all members of other, except eps if withEps is unset.
// Returns true if the set changed.
func (ss *SymbolSet) union(other *SymbolSet, withEps bool) bool {
	changed := false
	it := other.set.Iterator()
	for it.Next() {
		tokval := it.Value().(int)
		if tokval == EpsilonType && !withEps {
			continue
		}
		if ss.Add(tokval) {
			changed = true
		}
	}
	return changed
}

func (ss *SymbolSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, tokval := range ss.AppendTo(nil) {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(fmt.Sprintf("%d", tokval))
	}
	b.WriteString("}")
	return b.String()
}

// --- Grammar analysis -------------------------------------------------

const infCost = math.MaxInt32 // expansion cost of unproductive symbols

// Analysis is the result of static analysis of a grammar: epsilon-derivable
// symbols, FIRST- and FOLLOW-sets, and minimum expansion costs. An Analysis
// is read-only with respect to the grammar.
type Analysis struct {
	g        *Grammar
	eps      map[*Symbol]bool
	first    map[*Symbol]*SymbolSet
	follow   map[*Symbol]*SymbolSet
	cost     map[*Symbol]int
	cheapest map[*Symbol]*Rule
}

// Analyze performs static analysis on a grammar.
func Analyze(g *Grammar) *Analysis {
	ga := &Analysis{
		g:        g,
		eps:      make(map[*Symbol]bool),
		first:    make(map[*Symbol]*SymbolSet),
		follow:   make(map[*Symbol]*SymbolSet),
		cost:     make(map[*Symbol]int),
		cheapest: make(map[*Symbol]*Rule),
	}
	ga.analyzeEps()
	ga.analyzeFirst()
	ga.analyzeFollow()
	ga.analyzeCost()
	return ga
}

// Grammar returns the grammar this analysis is for.
func (ga *Analysis) Grammar() *Grammar {
	return ga.g
}

// DerivesEpsilon returns true if a symbol is epsilon-derivable, i.e. if
// it may produce the empty string.
func (ga *Analysis) DerivesEpsilon(sym *Symbol) bool {
	if sym.IsTerminal() {
		return false
	}
	return ga.eps[sym]
}

// First returns FIRST(sym): the set of terminal token values which may begin
// a string derived from sym. For epsilon-derivable symbols the set contains
// EpsilonType.
func (ga *Analysis) First(sym *Symbol) *SymbolSet {
	if sym.IsTerminal() {
		ss := newSymbolSet()
		ss.Add(sym.Value)
		return ss
	}
	return ga.first[sym]
}

// Follow returns FOLLOW(sym): the set of terminal token values which may
// follow sym in a derivation from the start symbol.
func (ga *Analysis) Follow(sym *Symbol) *SymbolSet {
	return ga.follow[sym]
}

// Cost returns the minimum expansion cost of a symbol: the number of
// derivation steps needed to produce a terminal-only yield. Terminals have
// cost 0. Unproductive symbols have infinite cost; see Productive.
func (ga *Analysis) Cost(sym *Symbol) int {
	if sym.IsTerminal() {
		return 0
	}
	if c, ok := ga.cost[sym]; ok {
		return c
	}
	return infCost
}

// Productive returns true if some terminal-only string is derivable from the
// symbol at all. A grammar with an unproductive start symbol cannot be used
// for generation.
func (ga *Analysis) Productive(sym *Symbol) bool {
	return ga.Cost(sym) < infCost
}

// CheapestRule returns the rule for a non-terminal with the lowest expansion
// cost. The generator uses it to close open derivation trees without
// unbounded growth. Returns nil for terminals and unproductive symbols.
func (ga *Analysis) CheapestRule(sym *Symbol) *Rule {
	return ga.cheapest[sym]
}

func (ga *Analysis) analyzeEps() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			if ga.eps[r.LHS] {
				continue
			}
			allEps := true
			for _, sym := range r.rhs {
				if sym.IsTerminal() || !ga.eps[sym] {
					allEps = false
					break
				}
			}
			if allEps {
				ga.eps[r.LHS] = true
				changed = true
			}
		}
	}
	for sym, isEps := range ga.eps {
		if isEps {
			tracer().Debugf("%s is epsilon-derivable", sym)
		}
	}
}

func (ga *Analysis) analyzeFirst() {
	ga.g.EachNonTerminal(func(sym *Symbol) interface{} {
		ga.first[sym] = newSymbolSet()
		return nil
	})
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			F := ga.first[r.LHS]
			allEps := true
			for _, sym := range r.rhs {
				if F.union(ga.First(sym), false) {
					changed = true
				}
				if !ga.DerivesEpsilon(sym) {
					allEps = false
					break
				}
			}
			if allEps && F.Add(EpsilonType) {
				changed = true
			}
		}
	}
}

func (ga *Analysis) analyzeFollow() {
	ga.g.EachNonTerminal(func(sym *Symbol) interface{} {
		ga.follow[sym] = newSymbolSet()
		return nil
	})
	ga.follow[ga.g.rules[0].LHS].Add(EOFType)
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			for i, sym := range r.rhs {
				if sym.IsTerminal() {
					continue
				}
				F := ga.follow[sym]
				tailEps := true
				for _, succ := range r.rhs[i+1:] {
					if F.union(ga.First(succ), false) {
						changed = true
					}
					if !ga.DerivesEpsilon(succ) {
						tailEps = false
						break
					}
				}
				if tailEps && F.union(ga.follow[r.LHS], true) {
					changed = true
				}
			}
		}
	}
}

func (ga *Analysis) analyzeCost() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			rulecost := 1
			for _, sym := range r.rhs {
				c := ga.Cost(sym)
				if c == infCost {
					rulecost = infCost
					break
				}
				if c+1 > rulecost {
					rulecost = c + 1
				}
			}
			if rulecost == infCost {
				continue
			}
			if old, ok := ga.cost[r.LHS]; !ok || rulecost < old {
				ga.cost[r.LHS] = rulecost
				ga.cheapest[r.LHS] = r
				changed = true
			}
		}
	}
	ga.g.EachNonTerminal(func(sym *Symbol) interface{} {
		if !ga.Productive(sym) {
			tracer().Infof("non-terminal %s is unproductive", sym)
		}
		return nil
	})
}

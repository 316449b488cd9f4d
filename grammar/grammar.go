package grammar

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/npillmayer/grift"
)

// Symbol values with special meaning.
const (
	EpsilonType = 0           // epsilon, the empty yield
	EOFType     = scanner.EOF // end of input, identical to text/scanner.EOF
	NonTermType = -100        // first value for non-terminal symbols, decreasing
	LiteralType = 0x200000    // first value for multi-rune literal terminals, increasing
)

// A Symbol represents a terminal or non-terminal symbol of a grammar.
// Symbols are interned per grammar: two occurences of a symbol within rules of
// the same grammar share one Symbol instance.
type Symbol struct {
	Name  string // visual representation of the symbol
	Value int    // token type for terminals, internal value for non-terminals
}

// IsTerminal returns true if the symbol represents a terminal.
func (sym *Symbol) IsTerminal() bool {
	return sym.Value > NonTermType
}

// TokenType returns the token type of a terminal, i.e. its symbol value.
func (sym *Symbol) TokenType() grift.TokType {
	return grift.TokType(sym.Value)
}

func (sym *Symbol) String() string {
	return sym.Name
}

// A Rule is a grammar production
//
//    LHS ::= X1 … Xn    (with Xi being terminals or non-terminals)
//
// An empty right-hand side represents an epsilon production.
type Rule struct {
	Serial int     // order number of this rule within a grammar
	LHS    *Symbol // left-hand side of the rule, a non-terminal
	rhs    []*Symbol
}

// RHS returns the right-hand side of the rule as a slice of symbols.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// IsEps returns true if the rule is an epsilon production.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d: [%s] ::= [", r.Serial, r.LHS.Name))
	for i, sym := range r.rhs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sym.Name)
	}
	b.WriteString("]")
	return b.String()
}

// eq compares two right-hand sides for symbol equality.
func (r *Rule) eqRHS(handle []*Symbol) bool {
	if len(r.rhs) != len(handle) {
		return false
	}
	for i, sym := range r.rhs {
		if sym != handle[i] {
			return false
		}
	}
	return true
}

// Grammar is a type for a context-free grammar. Grammars are constructed
// using a GrammarBuilder, which augments the rule set with a start rule
//
//    S' ::= S
//
// at serial number 0.
type Grammar struct {
	Name     string // a grammar has a name, for documentation purposes
	rules    []*Rule
	symbols  map[string]*Symbol
	ordered  *arraylist.List   // symbols in definition order
	literals map[string]int    // lexeme ⟼ token type, for literal terminals
	external map[string]int    // declared terminal-like symbols
	patterns map[string]string // terminal name ⟼ regex, for pattern terminals
}

func newGrammar(name string) *Grammar {
	return &Grammar{
		Name:     name,
		symbols:  make(map[string]*Symbol),
		ordered:  arraylist.New(),
		literals: make(map[string]int),
		external: make(map[string]int),
		patterns: make(map[string]string),
	}
}

// Size returns the number of rules in the grammar, including the augmented
// start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns a grammar rule by its serial number, or nil if out of range.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// SymbolByName returns the symbol with the given name, or nil.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.symbols[name]
}

// Terminal returns the terminal symbol with the given token type, or nil.
func (g *Grammar) Terminal(tokval int) *Symbol {
	var found *Symbol
	g.EachSymbol(func(sym *Symbol) interface{} {
		if sym.IsTerminal() && sym.Value == tokval {
			found = sym
		}
		return nil
	})
	return found
}

// EachSymbol iterates over all symbols of the grammar, in definition order.
// The mapper function may return a non-nil value to collect results.
func (g *Grammar) EachSymbol(mapper func(sym *Symbol) interface{}) []interface{} {
	var values []interface{}
	it := g.ordered.Iterator()
	for it.Next() {
		if v := mapper(it.Value().(*Symbol)); v != nil {
			values = append(values, v)
		}
	}
	return values
}

// EachNonTerminal iterates over all non-terminal symbols of the grammar.
func (g *Grammar) EachNonTerminal(mapper func(sym *Symbol) interface{}) []interface{} {
	return g.EachSymbol(func(sym *Symbol) interface{} {
		if sym.IsTerminal() {
			return nil
		}
		return mapper(sym)
	})
}

// EachTerminal iterates over all terminal symbols of the grammar.
func (g *Grammar) EachTerminal(mapper func(sym *Symbol) interface{}) []interface{} {
	return g.EachSymbol(func(sym *Symbol) interface{} {
		if !sym.IsTerminal() {
			return nil
		}
		return mapper(sym)
	})
}

// FindNonTermRules returns all rules with a given non-terminal on the
// left-hand side. The augmented start rule is excluded.
func (g *Grammar) FindNonTermRules(sym *Symbol) []*Rule {
	var rules []*Rule
	for _, r := range g.rules {
		if r.Serial > 0 && r.LHS == sym {
			rules = append(rules, r)
		}
	}
	return rules
}

// matchesRHS finds the rule with a given LHS and right-hand side, if any.
// Returns the rule and its serial number, or (nil, -1).
func (g *Grammar) matchesRHS(lhs *Symbol, handle []*Symbol) (*Rule, int) {
	for _, r := range g.rules {
		if r.LHS == lhs && r.eqRHS(handle) {
			return r, r.Serial
		}
	}
	return nil, -1
}

// Literals returns the lexemes of all literal terminals together with their
// token types. Literal terminals are created with the builder's L() method
// (and by the TOML grammar reader). The scanner package uses this table to
// construct a string-level tokenizer for a grammar.
func (g *Grammar) Literals() map[string]int {
	lits := make(map[string]int, len(g.literals))
	for lexeme, tokval := range g.literals {
		lits[lexeme] = tokval
	}
	return lits
}

// IsExternal returns true if name has been declared as an external,
// terminal-like symbol, i.e. one which is intentionally left undefined.
func (g *Grammar) IsExternal(name string) bool {
	_, ok := g.external[name]
	return ok
}

// Patterns returns the regex patterns of all pattern terminals, keyed by
// terminal name. Pattern terminals are created with the builder's Pattern()
// method (and by the TOML grammar reader). Package scanner/lexmach uses this
// table to construct a DFA-backed tokenizer for a grammar.
func (g *Grammar) Patterns() map[string]string {
	pats := make(map[string]string, len(g.patterns))
	for name, regex := range g.patterns {
		pats[name] = regex
	}
	return pats
}

// Dump prints out a grammar via the tracer. This is a debugging helper.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%v", r)
	}
	tracer().Debugf("-------------------------------------")
}

// --- Fingerprinting ---------------------------------------------------

// shadow structure for structhash: rules flattened to symbol names.
type grammarFP struct {
	Name  string
	Rules []string
}

// Fingerprint returns a stable hash over the rule set of the grammar.
// Corpora of derivation trees record this fingerprint and refuse to load
// against a different grammar.
func (g *Grammar) Fingerprint() string {
	fp := grammarFP{Name: g.Name, Rules: make([]string, len(g.rules))}
	for i, r := range g.rules {
		fp.Rules[i] = r.String()
	}
	return fmt.Sprintf("%x", structhash.Md5(fp, 1))
}

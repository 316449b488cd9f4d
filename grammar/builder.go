package grammar

import (
	"fmt"
	"sort"
)

// GrammarBuilder is a builder type to construct a Grammar rule by rule.
// Create one with NewGrammarBuilder.
type GrammarBuilder struct {
	g           *Grammar
	nextNT      int // next value for a non-terminal symbol, decreasing
	nextLiteral int // next value for a multi-rune literal, increasing
	errors      []error
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar
// to build.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		g:           newGrammar(name),
		nextNT:      NonTermType,
		nextLiteral: LiteralType,
	}
}

func (gb *GrammarBuilder) newRuleBuilder(lhs string) *RuleBuilder {
	return &RuleBuilder{
		gb:  gb,
		lhs: gb.nonterminal(lhs),
	}
}

func (gb *GrammarBuilder) appendRule(lhs *Symbol, rhs []*Symbol) *Rule {
	r := &Rule{
		Serial: len(gb.g.rules) + 1, // slot 0 is reserved for the start rule
		LHS:    lhs,
		rhs:    rhs,
	}
	gb.g.rules = append(gb.g.rules, r)
	return r
}

// LHS starts a rule given the left-hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	return gb.newRuleBuilder(name)
}

// External declares a symbol as terminal-like: it may be referenced in
// right-hand sides without being defined by a rule. tokval is the token type
// a scanner will use for it.
func (gb *GrammarBuilder) External(name string, tokval int) *GrammarBuilder {
	gb.g.external[name] = tokval
	gb.terminal(name, tokval)
	return gb
}

// Pattern declares a terminal which matches a regular expression, e.g.
//
//    gb.Pattern("number", `[0-9]+`)
//
// The token type is synthesized. Pattern terminals require a regex-capable
// tokenizer; see package scanner/lexmach.
func (gb *GrammarBuilder) Pattern(name string, regex string) *GrammarBuilder {
	if _, ok := gb.g.patterns[name]; ok {
		gb.errors = append(gb.errors,
			fmt.Errorf("pattern terminal %q declared twice", name))
		return gb
	}
	tokval := gb.nextLiteral
	gb.nextLiteral++
	gb.g.patterns[name] = regex
	return gb.External(name, tokval)
}

func (gb *GrammarBuilder) nonterminal(name string) *Symbol {
	if sym, ok := gb.g.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name, Value: gb.nextNT}
	gb.nextNT--
	gb.g.symbols[name] = sym
	gb.g.ordered.Add(sym)
	return sym
}

func (gb *GrammarBuilder) terminal(name string, tokval int) *Symbol {
	if sym, ok := gb.g.symbols[name]; ok {
		if sym.Value != tokval {
			gb.errors = append(gb.errors,
				fmt.Errorf("terminal %q given conflicting token values %d and %d",
					name, sym.Value, tokval))
		}
		return sym
	}
	sym := &Symbol{Name: name, Value: tokval}
	gb.g.symbols[name] = sym
	gb.g.ordered.Add(sym)
	return sym
}

// literal interns a literal terminal. Single-rune literals carry their code
// point as token type, longer literals get a synthesized token type.
func (gb *GrammarBuilder) literal(lexeme string) *Symbol {
	if tokval, ok := gb.g.literals[lexeme]; ok {
		return gb.terminal(lexeme, tokval)
	}
	runes := []rune(lexeme)
	var tokval int
	if len(runes) == 1 {
		tokval = int(runes[0])
	} else {
		tokval = gb.nextLiteral
		gb.nextLiteral++
	}
	gb.g.literals[lexeme] = tokval
	return gb.terminal(lexeme, tokval)
}

// Grammar returns the (augmented) grammar, provided it is complete and
// consistent. The start rule S' ::= S is created from the LHS of the first
// rule given. Closure property: every non-terminal referenced in a
// right-hand side must either be defined by a rule or be declared External.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.errors) > 0 {
		return nil, gb.errors[0]
	}
	if len(gb.g.rules) == 0 {
		return nil, fmt.Errorf("grammar %q contains no rules", gb.g.Name)
	}
	if err := gb.checkClosure(); err != nil {
		return nil, err
	}
	start := &Symbol{Name: gb.g.rules[0].LHS.Name + "'", Value: gb.nextNT}
	gb.nextNT--
	gb.g.symbols[start.Name] = start
	gb.g.ordered.Add(start)
	r0 := &Rule{
		Serial: 0,
		LHS:    start,
		rhs:    []*Symbol{gb.g.rules[0].LHS},
	}
	gb.g.rules = append([]*Rule{r0}, gb.g.rules...)
	tracer().Infof("grammar %q built with %d rules", gb.g.Name, len(gb.g.rules))
	return gb.g, nil
}

func (gb *GrammarBuilder) checkClosure() error {
	defined := map[*Symbol]bool{}
	for _, r := range gb.g.rules {
		defined[r.LHS] = true
	}
	var undefined []string
	seen := map[*Symbol]bool{}
	for _, r := range gb.g.rules {
		for _, sym := range r.rhs {
			if sym.IsTerminal() || defined[sym] || seen[sym] {
				continue
			}
			seen[sym] = true
			undefined = append(undefined, sym.Name)
		}
	}
	if len(undefined) > 0 {
		sort.Strings(undefined)
		return fmt.Errorf("non-terminals referenced but never defined: %v", undefined)
	}
	return nil
}

// RuleBuilder is a builder type for a single grammar rule.
// RuleBuilders are cheap and must not be re-used after End(), Epsilon()
// or EOF().
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs *Symbol
	rhs []*Symbol
}

// N appends a non-terminal to the right-hand side of the rule under
// construction.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.nonterminal(name))
	return rb
}

// T appends a terminal to the right-hand side of the rule under construction.
// The terminal carries a token type, which a scanner will use to match input.
func (rb *RuleBuilder) T(name string, tokval int) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.terminal(name, tokval))
	return rb
}

// L appends a literal terminal to the right-hand side of the rule under
// construction. The terminal matches the lexeme exactly; its token type is
// the code point for single-rune literals and synthesized otherwise.
func (rb *RuleBuilder) L(lexeme string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.literal(lexeme))
	return rb
}

// EOF appends the end-of-input pseudo terminal and closes the rule.
func (rb *RuleBuilder) EOF() *Rule {
	rb.rhs = append(rb.rhs, rb.gb.terminal("#eof", EOFType))
	return rb.End()
}

// End closes a rule and appends it to the grammar under construction.
func (rb *RuleBuilder) End() *Rule {
	r := rb.gb.appendRule(rb.lhs, rb.rhs)
	tracer().Debugf("appended rule %v", r)
	return r
}

// Epsilon closes the rule as an epsilon production, i.e. one with an empty
// right-hand side.
func (rb *RuleBuilder) Epsilon() *Rule {
	if len(rb.rhs) > 0 {
		tracer().Errorf("epsilon rule for %s discards %d RHS symbols", rb.lhs, len(rb.rhs))
		rb.rhs = nil
	}
	return rb.End()
}

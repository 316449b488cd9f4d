package mutate

import (
	"fmt"
	"math/rand"

	"github.com/npillmayer/grift"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/scanner"
	"github.com/npillmayer/grift/tree"
)

// GenOptions configure a Generator.
type GenOptions struct {
	// MaxDepth is the depth budget for random expansion. Below the budget
	// rules are chosen at random; once it is exhausted, remaining
	// non-terminals are closed along cheapest rules.
	MaxDepth int
	// Lexemes, if set, synthesizes the lexeme for a terminal symbol.
	// Returning "" falls back to the generator's defaults.
	Lexemes func(sym *grammar.Symbol) string
}

// DefaultGenOptions are the options used by Generate.
var DefaultGenOptions = GenOptions{
	MaxDepth: 12,
}

// Generator produces random derivation trees for a grammar. Create one with
// NewGenerator. Generators are not thread-safe.
type Generator struct {
	ga      *grammar.Analysis
	rnd     *rand.Rand
	lexemes map[int]string // token type ⟼ lexeme, for literal terminals
}

// NewGenerator creates a Generator for a (previously analyzed) grammar,
// drawing randomness from rs.
func NewGenerator(ga *grammar.Analysis, rs rand.Source) *Generator {
	lexemes := make(map[int]string)
	for lexeme, tokval := range ga.Grammar().Literals() {
		lexemes[tokval] = lexeme
	}
	return &Generator{
		ga:      ga,
		rnd:     rand.New(rs),
		lexemes: lexemes,
	}
}

// Generate produces one random derivation tree, rooted at the augmented
// start symbol, using DefaultGenOptions.
func (gen *Generator) Generate() (*tree.Node, error) {
	return gen.GenerateWithOpts(DefaultGenOptions)
}

// GenerateWithOpts produces one random derivation tree with the given
// options. Generation fails only for grammars with an unproductive start
// symbol.
func (gen *Generator) GenerateWithOpts(opts GenOptions) (*tree.Node, error) {
	start := gen.ga.Grammar().Rule(0)
	root, err := gen.applyRule(start, opts, opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	root.Renumber()
	tracer().Debugf("generated tree with %d nodes: %q", root.Size(), root.Text())
	return root, nil
}

// Expand produces a random derivation subtree for a single non-terminal.
// The Mutator uses it for the regenerate-operator.
func (gen *Generator) Expand(sym *grammar.Symbol, opts GenOptions) (*tree.Node, error) {
	return gen.expand(sym, opts, opts.MaxDepth)
}

func (gen *Generator) expand(sym *grammar.Symbol, opts GenOptions, depth int) (*tree.Node, error) {
	if sym.IsTerminal() {
		return tree.NewLeaf(sym.Name, sym.Value, gen.lexemeFor(sym, opts), grift.Span{}), nil
	}
	if !gen.ga.Productive(sym) {
		return nil, fmt.Errorf("cannot generate from unproductive symbol %s", sym)
	}
	var r *grammar.Rule
	if depth <= 0 || gen.ga.Cost(sym) > depth {
		r = gen.ga.CheapestRule(sym) // close the tree without further growth
	} else {
		rules := gen.ga.Grammar().FindNonTermRules(sym)
		r = rules[gen.rnd.Intn(len(rules))]
		if !gen.rhsProductive(r) {
			r = gen.ga.CheapestRule(sym)
		}
	}
	return gen.applyRule(r, opts, depth-1)
}

func (gen *Generator) applyRule(r *grammar.Rule, opts GenOptions, depth int) (*tree.Node, error) {
	children := make([]*tree.Node, 0, len(r.RHS()))
	for _, sym := range r.RHS() {
		child, err := gen.expand(sym, opts, depth)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return tree.NewInner(r.LHS.Name, r.Serial, grift.Span{}, children...), nil
}

func (gen *Generator) rhsProductive(r *grammar.Rule) bool {
	for _, sym := range r.RHS() {
		if !gen.ga.Productive(sym) {
			return false
		}
	}
	return true
}

// lexemeFor synthesizes a lexeme for a terminal symbol. Literal terminals
// reproduce their lexeme; token classes of the default tokenizer get a random
// representative.
func (gen *Generator) lexemeFor(sym *grammar.Symbol, opts GenOptions) string {
	if opts.Lexemes != nil {
		if s := opts.Lexemes(sym); s != "" {
			return s
		}
	}
	if lexeme, ok := gen.lexemes[sym.Value]; ok {
		return lexeme
	}
	switch sym.Value {
	case scanner.EOF:
		return "" // end-of-input pseudo-terminal never yields text
	case scanner.Int:
		return gen.randDigits(1 + gen.rnd.Intn(4))
	case scanner.Float:
		return gen.randDigits(1+gen.rnd.Intn(3)) + "." + gen.randDigits(1+gen.rnd.Intn(3))
	case scanner.Ident:
		return gen.randIdent(1 + gen.rnd.Intn(8))
	case scanner.String:
		return `"` + gen.randIdent(gen.rnd.Intn(6)) + `"`
	case scanner.Char:
		return "'" + string(rune('a'+gen.rnd.Intn(26))) + "'"
	}
	if sym.Value > 0 && sym.Value < grammar.LiteralType {
		return string(rune(sym.Value)) // single-rune literal
	}
	return sym.Name
}

func (gen *Generator) randDigits(n int) string {
	b := make([]byte, n)
	b[0] = byte('1' + gen.rnd.Intn(9))
	for i := 1; i < n; i++ {
		b[i] = byte('0' + gen.rnd.Intn(10))
	}
	return string(b)
}

func (gen *Generator) randIdent(n int) string {
	b := make([]byte, n+1)
	b[0] = byte('a' + gen.rnd.Intn(26))
	for i := 1; i <= n; i++ {
		b[i] = byte('a' + gen.rnd.Intn(26))
	}
	return string(b)
}

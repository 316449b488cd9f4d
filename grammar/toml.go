package grammar

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Grammars may be kept in TOML files. Non-terminals are written in angle
// brackets, every other string is a literal terminal. An empty alternative
// is an epsilon production.
//
//    name  = "expr"
//    start = "Sum"
//
//    [rules]
//    Sum     = [["<Sum>", "+", "<Product>"], ["<Product>"]]
//    Product = [["<Product>", "*", "<Factor>"], ["<Factor>"]]
//    Factor  = [["(", "<Sum>", ")"], ["<digit>"]]
//    digit   = [["0"], ["1"], ["2"], ["3"], ["4"], ["5"], ["6"], ["7"], ["8"], ["9"]]
//
// Non-terminals referenced but not defined under [rules] violate the closure
// property, except when they are declared under [externals], mapping them to
// a scanner token type:
//
//    [externals]
//    number = -3       # text/scanner.Int
//
// or under [patterns], mapping them to a regular expression. Grammars with
// patterns are tokenized by a DFA-backed scanner (package scanner/lexmach):
//
//    [patterns]
//    number = "[0-9]+"

type tomlGrammar struct {
	Name      string                `toml:"name"`
	Start     string                `toml:"start"`
	Rules     map[string][][]string `toml:"rules"`
	Externals map[string]int        `toml:"externals"`
	Patterns  map[string]string     `toml:"patterns"`
}

// LoadTOML reads a grammar in TOML format.
func LoadTOML(r io.Reader) (*Grammar, error) {
	var tg tomlGrammar
	if _, err := toml.NewDecoder(r).Decode(&tg); err != nil {
		return nil, fmt.Errorf("grammar: cannot decode TOML (%w)", err)
	}
	return tg.build()
}

// LoadTOMLFile reads a grammar in TOML format, given a filename.
func LoadTOMLFile(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: cannot open %q (%w)", path, err)
	}
	defer f.Close()
	return LoadTOML(f)
}

func (tg *tomlGrammar) build() (*Grammar, error) {
	if len(tg.Rules) == 0 {
		return nil, fmt.Errorf("grammar %q contains no rules", tg.Name)
	}
	if tg.Start == "" {
		return nil, fmt.Errorf("grammar %q does not name a start symbol", tg.Name)
	}
	if _, ok := tg.Rules[tg.Start]; !ok {
		return nil, fmt.Errorf("start symbol %q has no rule", tg.Start)
	}
	name := tg.Name
	if name == "" {
		name = tg.Start
	}
	gb := NewGrammarBuilder(name)
	for _, ext := range sortedKeys(tg.Externals) {
		gb.External(ext, tg.Externals[ext])
	}
	for _, pat := range sortedKeys(tg.Patterns) {
		gb.Pattern(pat, tg.Patterns[pat])
	}
	// TOML tables are unordered; rule serials are made deterministic by
	// putting the start symbol first and sorting the rest.
	names := []string{tg.Start}
	for _, lhs := range sortedKeys(tg.Rules) {
		if lhs != tg.Start {
			names = append(names, lhs)
		}
	}
	for _, lhs := range names {
		for _, alt := range tg.Rules[lhs] {
			rb := gb.LHS(lhs)
			for _, symstr := range alt {
				nt, isNT := nonTermName(symstr)
				switch {
				case isNT && gb.g.IsExternal(nt): // [externals] and [patterns]
					rb.T(nt, gb.g.external[nt])
				case isNT:
					rb.N(nt)
				default:
					rb.L(symstr)
				}
			}
			rb.End()
		}
	}
	return gb.Grammar()
}

// nonTermName strips angle brackets, returning true for non-terminal names.
func nonTermName(s string) (string, bool) {
	if len(s) > 2 && strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return s[1 : len(s)-1], true
	}
	return s, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

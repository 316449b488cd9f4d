package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/npillmayer/grift/grammar"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Check a grammar file and print its rules",
	Long: `grammar loads a TOML grammar file, checks it and prints its rules.
Grammar files look like this:

    name  = "expr"
    start = "Sum"

    [rules]
    Sum     = [["<Sum>", "+", "<Product>"], ["<Product>"]]
    Product = [["<Product>", "*", "<Factor>"], ["<Factor>"]]
    Factor  = [["(", "<Sum>", ")"], ["<digit>"]]
    digit   = [["0"], ["1"], ["2"], ["3"], ["4"], ["5"], ["6"], ["7"], ["8"], ["9"]]

Non-terminals are written in angle brackets, every other string is a literal
terminal. An empty alternative is an epsilon production. Terminals matched by
the scanner (numbers, identifiers, strings) are declared under [externals]
with their token type:

    [externals]
    number = -3       # text/scanner.Int

or under [patterns] with a regular expression, in which case input is
tokenized by a DFA-backed scanner:

    [patterns]
    number = "[0-9]+"`,
	RunE: runGrammarInfo,
}

func runGrammarInfo(cmd *cobra.Command, args []string) error {
	ga, err := loadGrammar(cmd)
	if err != nil {
		return err
	}
	g := ga.Grammar()
	fmt.Printf("grammar %s with %d rules, fingerprint %s\n", g.Name, g.Size(), g.Fingerprint())
	for i := 0; i < g.Size(); i++ {
		fmt.Println(g.Rule(i).String())
	}
	//
	var nullable, unproductive []string
	g.EachNonTerminal(func(sym *grammar.Symbol) interface{} {
		if ga.DerivesEpsilon(sym) {
			nullable = append(nullable, sym.Name)
		}
		if !ga.Productive(sym) {
			unproductive = append(unproductive, sym.Name)
		}
		return nil
	})
	if len(nullable) > 0 {
		fmt.Printf("nullable: %v\n", nullable)
	}
	if len(unproductive) > 0 {
		return fmt.Errorf("unproductive non-terminals: %v", unproductive)
	}
	return nil
}

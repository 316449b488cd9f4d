package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/npillmayer/grift/earley"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/peg"
)

var parseCmd = &cobra.Command{
	Use:   "parse [input]",
	Short: "Parse an input string against a grammar",
	Long: `parse checks whether an input string is a sentence of the grammar. The
input is given as an argument, or read from stdin if no argument is present.
The exhaustive parser (default) reports ambiguity; the greedy parser commits
to the first alternative of every rule.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringP("parser", "p", "earley", "parser to use [earley|peg]")
	parseCmd.Flags().BoolP("tree", "t", false, "print the derivation tree")
	parseCmd.Flags().Int("derivations", 0, "print up to n derivations of an ambiguous input")
}

func runParse(cmd *cobra.Command, args []string) error {
	ga, err := loadGrammar(cmd)
	if err != nil {
		return err
	}
	input, err := inputString(args)
	if err != nil {
		return err
	}
	which, _ := cmd.Flags().GetString("parser")
	switch which {
	case "earley":
		return parseExhaustive(cmd, ga, input)
	case "peg":
		return parseGreedy(cmd, ga, input)
	}
	return fmt.Errorf("unknown parser %q, use earley or peg", which)
}

func parseExhaustive(cmd *cobra.Command, ga *grammar.Analysis, input string) error {
	tokenizer, err := tokenizerFor(ga.Grammar(), input)
	if err != nil {
		return err
	}
	parser := earley.NewParser(ga)
	accept, err := parser.Parse(tokenizer)
	if err != nil {
		return err
	}
	if !accept {
		return fmt.Errorf("input is not a sentence of grammar %s", ga.Grammar().Name)
	}
	fmt.Println("accepted")
	n, _ := cmd.Flags().GetInt("derivations")
	if n > 0 {
		forest := parser.Forest()
		derivations := forest.Derivations(n)
		fmt.Printf("input has %d derivation(s), showing %d\n",
			forest.DerivationCount(1000), len(derivations))
		for _, d := range derivations {
			fmt.Print(d.Render())
		}
		return nil
	}
	if showTree, _ := cmd.Flags().GetBool("tree"); showTree {
		fmt.Print(parser.Tree().Render())
	}
	return nil
}

func parseGreedy(cmd *cobra.Command, ga *grammar.Analysis, input string) error {
	tokenizer, err := tokenizerFor(ga.Grammar(), input)
	if err != nil {
		return err
	}
	parser := peg.NewParser(ga)
	accept, err := parser.Parse(tokenizer)
	if err != nil {
		return err
	}
	if !accept {
		return fmt.Errorf("input is not a sentence of grammar %s", ga.Grammar().Name)
	}
	fmt.Println("accepted")
	if showTree, _ := cmd.Flags().GetBool("tree"); showTree {
		fmt.Print(parser.Tree().Render())
	}
	return nil
}

// inputString joins the command line arguments, or reads stdin when there are
// none.
func inputString(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if isTerminal(os.Stdin) {
		return "", fmt.Errorf("no input given")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

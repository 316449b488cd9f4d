package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/scanner"
	"github.com/npillmayer/grift/scanner/lexmach"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// traceKeys are the tracing keys of all packages of this module.
var traceKeys = []string{
	"grift.grammar", "grift.scanner", "grift.earley", "grift.peg",
	"grift.tree", "grift.mutate", "grift.fuzz", "grift.cli",
}

func tracer() tracing.Trace {
	return tracing.Select("grift.cli")
}

var rootCmd = &cobra.Command{
	Use:   "grift",
	Short: "Grammar-based fuzzing toolkit",
	Long: `grift parses, generates and mutates strings of a context-free grammar,
and drives fuzzing campaigns against programs consuming such strings.
Grammars are provided as TOML files; see command 'grammar' for the format.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupTracing(cmd)
	},
}

func main() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().StringP("grammar", "g", "", "TOML grammar file")
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fuzzCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(grammarCmd)
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupTracing routes all tracing output through the Go standard logger.
func setupTracing(cmd *cobra.Command) {
	gtrace.SyntaxTracer = gologadapter.New()
	level, _ := cmd.Flags().GetString("trace")
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(traceLevel(level))
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}

// loadGrammar reads the grammar given with the --grammar flag and analyzes it.
func loadGrammar(cmd *cobra.Command) (*grammar.Analysis, error) {
	path, _ := cmd.Flags().GetString("grammar")
	if path == "" {
		return nil, fmt.Errorf("no grammar given, use --grammar")
	}
	g, err := grammar.LoadTOMLFile(path)
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded grammar %s with %d rules", g.Name, g.Size())
	return grammar.Analyze(g), nil
}

// tokenizerFor creates a tokenizer for an input string. Grammars with
// pattern terminals get a DFA-backed scanner, all others the string-level
// tokenizer over their literal terminals.
func tokenizerFor(g *grammar.Grammar, input string) (scanner.Tokenizer, error) {
	if len(g.Patterns()) > 0 {
		adapter, err := lexmach.NewGrammarAdapter(g)
		if err != nil {
			return nil, err
		}
		return adapter.Scanner(input)
	}
	return scanner.ForGrammar(g, input), nil
}

// isTerminal tells if f is connected to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

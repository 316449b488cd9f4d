package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/npillmayer/grift/mutate"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate random sentences of a grammar",
	Long: `generate derives random sentences from a grammar, one per line. Deep
recursion is bounded: beyond the depth limit only the cheapest rule of a
non-terminal is applied.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntP("count", "n", 10, "number of sentences to generate")
	generateCmd.Flags().Int64("seed", 0, "random seed, 0 derives one from the clock")
	generateCmd.Flags().Int("depth", mutate.DefaultGenOptions.MaxDepth, "depth limit for derivations")
	generateCmd.Flags().BoolP("tree", "t", false, "print derivation trees instead of sentences")
	generateCmd.Flags().String("save-corpus", "", "save the generated trees as a corpus file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ga, err := loadGrammar(cmd)
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt("count")
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
		tracer().Infof("seeding generator with %d", seed)
	}
	opts := mutate.DefaultGenOptions
	opts.MaxDepth, _ = cmd.Flags().GetInt("depth")
	showTree, _ := cmd.Flags().GetBool("tree")
	corpusPath, _ := cmd.Flags().GetString("save-corpus")
	//
	gen := mutate.NewGenerator(ga, rand.NewSource(seed))
	corpus := mutate.NewCorpus(ga.Grammar())
	for i := 0; i < count; i++ {
		t, err := gen.GenerateWithOpts(opts)
		if err != nil {
			return err
		}
		if showTree {
			fmt.Print(t.Render())
		} else {
			fmt.Println(t.Text())
		}
		corpus.Add(t)
	}
	if corpusPath != "" {
		return corpus.SaveFile(corpusPath)
	}
	return nil
}

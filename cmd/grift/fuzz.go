package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/npillmayer/grift/fuzz"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/mutate"
)

var fuzzCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Run a fuzzing campaign against a target program",
	Long: `fuzz derives candidate sentences from a grammar by generation and
tree-mutation and feeds them to a target program's stdin. Non-pass outcomes
(rejections, crashes, hangs) are collected as findings. Without a target
program the campaign runs the two parsers of this module against each other
and reports inputs on which they disagree.

Campaigns are configured with flags or with a TOML file (see --config);
flags override the file.`,
	RunE: runFuzz,
}

func init() {
	fuzzCmd.Flags().StringP("config", "c", "", "campaign TOML file")
	fuzzCmd.Flags().IntP("iterations", "n", 0, "number of candidates to execute")
	fuzzCmd.Flags().Int("workers", 0, "number of parallel target executions")
	fuzzCmd.Flags().Int64("seed", 0, "random seed, 0 derives one from the clock")
	fuzzCmd.Flags().String("target", "", "target program, fed candidates on stdin")
	fuzzCmd.Flags().Duration("timeout", 0, "per-execution time budget for the target")
	fuzzCmd.Flags().Int("max-findings", 0, "stop after this many findings")
	fuzzCmd.Flags().String("corpus", "", "corpus file to load seed trees from")
	fuzzCmd.Flags().String("save-corpus", "", "corpus file to save the grown corpus to")
}

func runFuzz(cmd *cobra.Command, args []string) error {
	ga, err := loadGrammar(cmd)
	if err != nil {
		return err
	}
	cfg := &campaignConfig{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if cfg, err = loadCampaign(path); err != nil {
			return err
		}
	}
	opts := fuzzOptions(cmd, cfg)
	target, err := fuzzTarget(cmd, cfg, ga)
	if err != nil {
		return err
	}
	corpus, err := fuzzCorpus(cmd, cfg, ga)
	if err != nil {
		return err
	}
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runner := fuzz.NewRunner(ga, target, corpus, opts)
	start := time.Now()
	findings, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	reportCampaign(runner, findings, time.Since(start))
	if path := savePath(cmd, cfg); path != "" {
		return corpus.SaveFile(path)
	}
	return nil
}

// fuzzOptions merges the config file options with the command line flags;
// flags win.
func fuzzOptions(cmd *cobra.Command, cfg *campaignConfig) fuzz.Options {
	opts := cfg.options()
	if n, _ := cmd.Flags().GetInt("iterations"); n > 0 {
		opts.Iterations = n
	}
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		opts.Workers = n
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		opts.Seed = seed
	}
	if n, _ := cmd.Flags().GetInt("max-findings"); n > 0 {
		opts.MaxFindings = n
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
		tracer().Infof("seeding campaign with %d", opts.Seed)
	}
	return opts
}

func fuzzTarget(cmd *cobra.Command, cfg *campaignConfig, ga *grammar.Analysis) (fuzz.Target, error) {
	if prog, _ := cmd.Flags().GetString("target"); prog != "" {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		return &fuzz.ExecTarget{Cmd: prog, Timeout: timeout}, nil
	}
	target, err := cfg.execTarget()
	if err != nil {
		return nil, err
	}
	if target != nil {
		return target, nil
	}
	tracer().Infof("no target program given, running differential parser target")
	return fuzz.DiffTarget(ga), nil
}

func fuzzCorpus(cmd *cobra.Command, cfg *campaignConfig, ga *grammar.Analysis) (*mutate.Corpus, error) {
	path, _ := cmd.Flags().GetString("corpus")
	if path == "" {
		path = cfg.Corpus.Load
	}
	if path == "" {
		return mutate.NewCorpus(ga.Grammar()), nil
	}
	return mutate.LoadCorpusFile(path, ga.Grammar())
}

func savePath(cmd *cobra.Command, cfg *campaignConfig) string {
	if path, _ := cmd.Flags().GetString("save-corpus"); path != "" {
		return path
	}
	return cfg.Corpus.Save
}

func reportCampaign(runner *fuzz.Runner, findings []fuzz.Finding, elapsed time.Duration) {
	executed, passed, failed, crashed, hung := runner.Stats().Snapshot()
	fmt.Printf("executed %d candidates in %v: %d pass, %d fail, %d crash, %d hang\n",
		executed, elapsed.Round(time.Millisecond), passed, failed, crashed, hung)
	for i, f := range findings {
		fmt.Printf("finding #%d (%s): %q\n", i+1, f.Outcome, f.Input)
		if f.Err != nil {
			fmt.Printf("    %v\n", f.Err)
		}
	}
}

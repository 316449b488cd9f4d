package fuzz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/mutate"
	"github.com/npillmayer/grift/tree"
)

// Options configure a fuzzing campaign.
type Options struct {
	// Iterations is the number of candidates to produce and execute.
	Iterations int
	// Workers is the number of goroutines executing the target.
	// Defaults to GOMAXPROCS.
	Workers int
	// Seed seeds candidate production; identical seeds reproduce identical
	// candidate sequences.
	Seed int64
	// FreshEvery generates every n-th candidate from scratch instead of
	// mutating a corpus tree. 0 generates only when the corpus is empty.
	FreshEvery int
	// MaxFindings stops the campaign early once this many findings have
	// been collected. 0 collects without limit.
	MaxFindings int
	// Mutate configures the tree mutator.
	Mutate mutate.Options
	// Generate configures the tree generator.
	Generate mutate.GenOptions
}

// DefaultOptions are sensible defaults for a short campaign.
var DefaultOptions = Options{
	Iterations: 1000,
	FreshEvery: 10,
	Mutate:     mutate.DefaultOptions,
	Generate:   mutate.DefaultGenOptions,
}

// Stats counts execution outcomes of a campaign. Counters are updated
// atomically by the workers; read them with Snapshot while a campaign runs.
type Stats struct {
	Executed atomic.Int64
	Passed   atomic.Int64
	Failed   atomic.Int64
	Crashed  atomic.Int64
	Hung     atomic.Int64
}

func (s *Stats) count(o Outcome) {
	s.Executed.Add(1)
	switch o {
	case Pass:
		s.Passed.Add(1)
	case Fail:
		s.Failed.Add(1)
	case Crash:
		s.Crashed.Add(1)
	case Hang:
		s.Hung.Add(1)
	}
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() (executed, passed, failed, crashed, hung int64) {
	return s.Executed.Load(), s.Passed.Load(), s.Failed.Load(), s.Crashed.Load(), s.Hung.Load()
}

// Finding is a candidate with a non-pass outcome.
type Finding struct {
	Input   string
	Outcome Outcome
	Err     error
}

// Runner drives a fuzzing campaign: a producer goroutine derives candidates
// from the corpus by mutation (or generation), and a pool of workers
// executes the target on them.
type Runner struct {
	ga     *grammar.Analysis
	target Target
	corpus *mutate.Corpus
	opts   Options
	stats  Stats
}

// NewRunner creates a fuzzing campaign runner. The corpus provides seed
// trees and splice donors; it may be empty, in which case all candidates
// are generated. The runner mutates the corpus reference only from its
// producer goroutine, so the (thread-unsafe) corpus needs no locking.
func NewRunner(ga *grammar.Analysis, target Target, corpus *mutate.Corpus, opts Options) *Runner {
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultOptions.Iterations
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Mutate.Weight() == 0 {
		opts.Mutate = mutate.DefaultOptions
	}
	if opts.Generate.MaxDepth == 0 {
		opts.Generate = mutate.DefaultGenOptions
	}
	if corpus == nil {
		corpus = mutate.NewCorpus(ga.Grammar())
	}
	return &Runner{
		ga:     ga,
		target: target,
		corpus: corpus,
		opts:   opts,
	}
}

// Stats returns the runner's outcome counters.
func (r *Runner) Stats() *Stats {
	return &r.stats
}

// Run executes the campaign and returns all findings. It stops after the
// configured number of iterations, when MaxFindings is reached, or when the
// context is cancelled, whichever comes first.
func (r *Runner) Run(ctx context.Context) ([]Finding, error) {
	g, ctx := errgroup.WithContext(ctx)
	candidates := make(chan string, r.opts.Workers)
	g.Go(func() error {
		defer close(candidates)
		return r.produce(ctx, candidates)
	})
	var mx sync.Mutex
	var findings []Finding
	for i := 0; i < r.opts.Workers; i++ {
		g.Go(func() error {
			for {
				var input string
				var ok bool
				select {
				case <-ctx.Done(): // do not drain candidates after cancellation
					return ctx.Err()
				case input, ok = <-candidates:
					if !ok {
						return nil
					}
				}
				outcome, err := r.target.Run(ctx, input)
				if outcome == Skipped {
					continue // cancelled mid-run, no verdict to record
				}
				r.stats.count(outcome)
				if outcome == Pass {
					continue
				}
				tracer().Infof("finding (%s): %q", outcome, input)
				mx.Lock()
				findings = append(findings, Finding{Input: input, Outcome: outcome, Err: err})
				full := r.opts.MaxFindings > 0 && len(findings) >= r.opts.MaxFindings
				mx.Unlock()
				if full {
					return errFindingsFull
				}
			}
		})
	}
	err := g.Wait()
	if errors.Is(err, errFindingsFull) || (errors.Is(err, context.Canceled) && full(&mx, findings, r.opts)) {
		err = nil // early stop on finding limit is not an error
	}
	return findings, err
}

func full(mx *sync.Mutex, findings []Finding, opts Options) bool {
	mx.Lock()
	defer mx.Unlock()
	return opts.MaxFindings > 0 && len(findings) >= opts.MaxFindings
}

var errFindingsFull = fmt.Errorf("finding limit reached")

// produce derives candidate strings and sends them to the workers. It is
// deterministic for a fixed seed and corpus.
func (r *Runner) produce(ctx context.Context, candidates chan<- string) error {
	rnd := rand.New(rand.NewSource(r.opts.Seed))
	mutator := mutate.NewMutator(r.ga, rand.NewSource(r.opts.Seed+1))
	generator := mutate.NewGenerator(r.ga, rand.NewSource(r.opts.Seed+2))
	for i := 0; i < r.opts.Iterations; i++ {
		candidate, err := r.nextCandidate(i, rnd, mutator, generator)
		if err != nil {
			return err
		}
		select {
		case candidates <- candidate.Text():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (r *Runner) nextCandidate(i int, rnd *rand.Rand, mutator *mutate.Mutator,
	generator *mutate.Generator) (*tree.Node, error) {
	//
	fresh := r.corpus.Len() == 0 ||
		(r.opts.FreshEvery > 0 && i%r.opts.FreshEvery == 0)
	if fresh {
		candidate, err := generator.GenerateWithOpts(r.opts.Generate)
		if err != nil {
			return nil, fmt.Errorf("cannot generate candidate: %w", err)
		}
		r.corpus.Add(candidate.Clone())
		return candidate, nil
	}
	candidate := r.corpus.Random(rnd).Clone()
	mutator.MutateWithOpts(candidate, r.corpus, r.opts.Mutate)
	return candidate, nil
}

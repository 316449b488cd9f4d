package fuzz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/grift/earley"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/mutate"
	"github.com/npillmayer/grift/scanner"
)

//     Expr ::= Expr '+' Term  |  Term
//     Term ::= '(' Expr ')'   |  'x'
//
func makeTestGrammar(t *testing.T) *grammar.Analysis {
	b := grammar.NewGrammarBuilder("Fuzz-G")
	b.LHS("Expr").N("Expr").T("+", '+').N("Term").End()
	b.LHS("Expr").N("Term").End()
	b.LHS("Term").T("(", '(').N("Expr").T(")", ')').End()
	b.LHS("Term").T("x", 'x').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return grammar.Analyze(g)
}

func makeTestCorpus(t *testing.T, ga *grammar.Analysis) *mutate.Corpus {
	corpus := mutate.NewCorpus(ga.Grammar())
	for _, input := range []string{"x", "x+x", "(x)", "x+(x+x)"} {
		parser := earley.NewParser(ga)
		accept, err := parser.Parse(scanner.StringsTokenizer(input, nil))
		if err != nil || !accept {
			t.Fatalf("Corpus input not accepted: %q", input)
		}
		corpus.Add(parser.Tree())
	}
	return corpus
}

func TestRunnerStats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	corpus := makeTestCorpus(t, ga)
	target := TargetFunc(func(ctx context.Context, input string) (Outcome, error) {
		return Pass, nil
	})
	runner := NewRunner(ga, target, corpus, Options{Iterations: 50, Workers: 4, Seed: 1})
	findings, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Errorf("Expected no findings from an always-passing target, got %d", len(findings))
	}
	executed, passed, _, _, _ := runner.Stats().Snapshot()
	if executed != 50 || passed != 50 {
		t.Errorf("Expected 50 executions and 50 passes, got %d and %d", executed, passed)
	}
}

func TestRunnerFindings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	corpus := makeTestCorpus(t, ga)
	target := TargetFunc(func(ctx context.Context, input string) (Outcome, error) {
		if strings.Contains(input, "(") {
			return Crash, nil
		}
		return Pass, nil
	})
	runner := NewRunner(ga, target, corpus, Options{Iterations: 100, Workers: 2, Seed: 2})
	findings, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) == 0 {
		t.Fatalf("Expected findings for inputs containing '('")
	}
	for _, f := range findings {
		if !strings.Contains(f.Input, "(") {
			t.Errorf("Unexpected finding %q", f.Input)
		}
		if f.Outcome != Crash {
			t.Errorf("Expected crash outcome, got %s", f.Outcome)
		}
	}
	executed, _, _, crashed, _ := runner.Stats().Snapshot()
	if executed != 100 {
		t.Errorf("Expected 100 executions, got %d", executed)
	}
	if crashed != int64(len(findings)) {
		t.Errorf("Expected %d crashes counted, got %d", len(findings), crashed)
	}
}

func TestRunnerFindingLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	target := TargetFunc(func(ctx context.Context, input string) (Outcome, error) {
		return Fail, nil
	})
	runner := NewRunner(ga, target, nil, Options{Iterations: 1000, Workers: 1, Seed: 3, MaxFindings: 5})
	findings, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 5 {
		t.Errorf("Expected campaign to stop at 5 findings, got %d", len(findings))
	}
}

func TestRunnerEmptyCorpus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	target := TargetFunc(func(ctx context.Context, input string) (Outcome, error) {
		return Pass, nil
	})
	runner := NewRunner(ga, target, nil, Options{Iterations: 20, Workers: 2, Seed: 4})
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	executed, _, _, _, _ := runner.Stats().Snapshot()
	if executed != 20 {
		t.Errorf("Expected 20 executions from generated candidates, got %d", executed)
	}
}

// --- Targets ----------------------------------------------------------

func TestExecTarget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	ctx := context.Background()
	pass := &ExecTarget{Cmd: "/bin/sh", Args: []string{"-c", "cat >/dev/null"}}
	if outcome, err := pass.Run(ctx, "hello"); outcome != Pass {
		t.Errorf("Expected pass from exit status 0, got %s (%v)", outcome, err)
	}
	fail := &ExecTarget{Cmd: "/bin/sh", Args: []string{"-c", "exit 1"}}
	if outcome, _ := fail.Run(ctx, "hello"); outcome != Fail {
		t.Errorf("Expected fail from exit status 1, got %s", outcome)
	}
	hang := &ExecTarget{Cmd: "/bin/sh", Args: []string{"-c", "sleep 5"}, Timeout: 50 * time.Millisecond}
	if outcome, _ := hang.Run(ctx, "hello"); outcome != Hang {
		t.Errorf("Expected hang from sleeping target, got %s", outcome)
	}
}

// Cancelling the campaign context (Ctrl-C, finding limit on another worker)
// kills an in-flight run. That is not a verdict about the input and must not
// be classified as a crash.
func TestExecTargetCancelled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	target := &ExecTarget{Cmd: "/bin/sh", Args: []string{"-c", "exit 0"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if outcome, _ := target.Run(ctx, "hello"); outcome != Skipped {
		t.Errorf("Expected skipped from a cancelled context, got %s", outcome)
	}
	//
	sleep := &ExecTarget{Cmd: "/bin/sh", Args: []string{"-c", "sleep 5"}}
	ctx, cancel = context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	if outcome, _ := sleep.Run(ctx, "hello"); outcome != Skipped {
		t.Errorf("Expected skipped from cancellation mid-run, got %s", outcome)
	}
}

func TestRunnerCancelled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	target := TargetFunc(func(ctx context.Context, input string) (Outcome, error) {
		if ctx.Err() != nil {
			return Skipped, ctx.Err()
		}
		return Crash, nil
	})
	runner := NewRunner(ga, target, makeTestCorpus(t, ga), Options{Iterations: 50, Workers: 2, Seed: 5})
	findings, err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled from a cancelled campaign, got %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("Expected no findings from a cancelled campaign, got %d", len(findings))
	}
	executed, _, _, crashed, _ := runner.Stats().Snapshot()
	if executed != 0 || crashed != 0 {
		t.Errorf("Expected no executions counted after cancellation, got %d executed, %d crashed",
			executed, crashed)
	}
}

// Under greedy interpretation A commits to its first alternative, so "abc"
// is rejected even though the grammar derives it. The differential target
// must flag exactly such inputs.
func TestDiffTarget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	b := grammar.NewGrammarBuilder("Diff-G")
	b.LHS("S").N("A").T("c", 'c').End()
	b.LHS("A").T("a", 'a').End()
	b.LHS("A").T("a", 'a').T("b", 'b').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := grammar.Analyze(g)
	target := DiffTarget(ga)
	ctx := context.Background()
	//
	if outcome, _ := target.Run(ctx, "ac"); outcome != Pass {
		t.Errorf("Expected parsers to agree on 'ac', got %s", outcome)
	}
	if outcome, _ := target.Run(ctx, "zz"); outcome != Pass {
		t.Errorf("Expected parsers to agree on rejecting 'zz', got %s", outcome)
	}
	outcome, err := target.Run(ctx, "abc")
	if outcome != Fail {
		t.Fatalf("Expected parsers to disagree on 'abc', got %s", outcome)
	}
	var disagreement *DisagreementError
	if !errors.As(err, &disagreement) {
		t.Fatalf("Expected a DisagreementError, got %v", err)
	}
	if !disagreement.Exhaustive || disagreement.Greedy {
		t.Errorf("Expected exhaustive=true, greedy=false, got %+v", disagreement)
	}
}

func TestDeterministicCandidates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.fuzz")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	collect := func() []string {
		var mx []string
		target := TargetFunc(func(ctx context.Context, input string) (Outcome, error) {
			return Fail, nil // every candidate becomes a finding
		})
		runner := NewRunner(ga, target, makeTestCorpus(t, ga), Options{Iterations: 30, Workers: 1, Seed: 42})
		findings, err := runner.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range findings {
			mx = append(mx, f.Input)
		}
		return mx
	}
	run1, run2 := collect(), collect()
	if len(run1) != len(run2) {
		t.Fatalf("Expected identical candidate counts, got %d and %d", len(run1), len(run2))
	}
	for i := range run1 {
		if run1[i] != run2[i] {
			t.Errorf("Candidate #%d differs between identically seeded runs", i)
		}
	}
}

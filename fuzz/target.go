package fuzz

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/npillmayer/grift/earley"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/peg"
	"github.com/npillmayer/grift/scanner"
)

// Outcome classifies one execution of a target.
type Outcome int

const (
	Pass    Outcome = iota // target consumed the input without complaint
	Fail                   // target rejected the input
	Crash                  // target terminated abnormally
	Hang                   // target exceeded its time budget
	Skipped                // run aborted by cancellation, no verdict
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Crash:
		return "crash"
	case Hang:
		return "hang"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Target is something a fuzzing campaign exercises with candidate strings.
// Run classifies a single input; the error carries detail for non-pass
// outcomes. Run must be safe for concurrent use.
type Target interface {
	Run(ctx context.Context, input string) (Outcome, error)
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(ctx context.Context, input string) (Outcome, error)

// Run calls f.
func (f TargetFunc) Run(ctx context.Context, input string) (Outcome, error) {
	return f(ctx, input)
}

// --- External program targets -----------------------------------------

// ExecTarget runs an external program for every candidate, feeding the
// candidate to its stdin. Exit status 0 is a pass, a non-zero exit status a
// fail, an abnormal termination a crash, and exceeding Timeout a hang.
// A run aborted by cancellation of the surrounding context is skipped.
type ExecTarget struct {
	Cmd     string        // program to run
	Args    []string      // program arguments
	Timeout time.Duration // per-run budget, 0 for no limit
}

// Run is part of the Target interface.
func (t *ExecTarget) Run(ctx context.Context, input string) (Outcome, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, t.Cmd, t.Args...)
	cmd.Stdin = strings.NewReader(input)
	err := cmd.Run()
	if errors.Is(ctx.Err(), context.Canceled) {
		// campaign was cancelled, the run carries no verdict
		return Skipped, ctx.Err()
	}
	if err == nil {
		return Pass, nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return Hang, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() < 0 { // killed by a signal
			return Crash, err
		}
		return Fail, err
	}
	return Crash, err
}

// --- Differential parser target ---------------------------------------

// DiffTarget runs the exhaustive Earley-parser and the greedy
// packrat-parser over the same grammar and input. The outcome is a pass if
// both parsers agree on acceptance, and a fail if they disagree, i.e. if
// greedy interpretation loses a sentence the grammar derives.
//
// The returned target is safe for concurrent use; each Run creates its own
// parser pair.
func DiffTarget(ga *grammar.Analysis) Target {
	return TargetFunc(func(ctx context.Context, input string) (Outcome, error) {
		exhaustive := earley.NewParser(ga)
		accept1, err1 := exhaustive.Parse(scanner.ForGrammar(ga.Grammar(), input))
		if err1 != nil {
			accept1 = false
		}
		greedy := peg.NewParser(ga)
		accept2, _ := greedy.Parse(scanner.ForGrammar(ga.Grammar(), input))
		if accept1 == accept2 {
			return Pass, nil
		}
		tracer().Infof("parsers disagree on %q: exhaustive=%v, greedy=%v", input, accept1, accept2)
		return Fail, &DisagreementError{Input: input, Exhaustive: accept1, Greedy: accept2}
	})
}

// DisagreementError reports an input on which the exhaustive and the greedy
// parser disagree.
type DisagreementError struct {
	Input      string
	Exhaustive bool
	Greedy     bool
}

func (e *DisagreementError) Error() string {
	return "parsers disagree on \"" + e.Input + "\""
}

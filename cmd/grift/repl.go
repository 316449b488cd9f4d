package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/npillmayer/grift/earley"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/mutate"
	"github.com/npillmayer/grift/peg"
	"github.com/npillmayer/grift/tree"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Explore a grammar interactively",
	Long: `repl starts an interactive session for a grammar: parse inputs, inspect
derivation trees, generate and mutate sentences. Intended as a sandbox while
developing a grammar for a fuzzing campaign.`,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().Int64("seed", 0, "random seed for gen/mutate, 0 derives one from the clock")
}

func runRepl(cmd *cobra.Command, args []string) error {
	initDisplay()
	ga, err := loadGrammar(cmd)
	if err != nil {
		return err
	}
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	pterm.Info.Println("Welcome to GRIFT") // colored welcome message
	repl, err := readline.New("grift> ")
	if err != nil {
		return err
	}
	intp := &Intp{
		ga:      ga,
		repl:    repl,
		gen:     mutate.NewGenerator(ga, rand.NewSource(seed)),
		mutator: mutate.NewMutator(ga, rand.NewSource(seed+1)),
		corpus:  mutate.NewCorpus(ga.Grammar()),
		rnd:     rand.New(rand.NewSource(seed + 2)),
	}
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object. Every accepted input and every generated
// sentence is added to the session corpus, which feeds the mutate command.
type Intp struct {
	ga      *grammar.Analysis
	repl    *readline.Instance
	gen     *mutate.Generator
	mutator *mutate.Mutator
	corpus  *mutate.Corpus
	rnd     *rand.Rand
	last    *tree.Node
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, arg := line, ""
		if i := strings.IndexByte(line, ' '); i >= 0 {
			cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
		}
		quit, err := intp.Execute(cmd, arg)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

func (intp *Intp) Execute(cmd string, arg string) (bool, error) {
	switch cmd {
	case "quit", "bye":
		return true, nil
	case "help":
		intp.help()
	case "parse":
		return false, intp.parse(arg)
	case "peg":
		return false, intp.parseGreedy(arg)
	case "tree":
		if intp.last == nil {
			return false, fmt.Errorf("no tree yet, parse or generate first")
		}
		pterm.Print(intp.last.Render())
	case "gen":
		return false, intp.generate()
	case "mutate":
		return false, intp.mutate()
	case "corpus":
		pterm.Info.Printfln("corpus holds %d trees", intp.corpus.Len())
	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd)
	}
	return false, nil
}

func (intp *Intp) help() {
	pterm.Println(`parse <input>   parse input with the exhaustive parser
peg <input>     parse input with the greedy parser
tree            show the last derivation tree
gen             generate a random sentence
mutate          mutate a random corpus tree
corpus          show the session corpus size
quit            leave (or <ctrl>D)`)
}

func (intp *Intp) parse(input string) error {
	tokenizer, err := tokenizerFor(intp.ga.Grammar(), input)
	if err != nil {
		return err
	}
	parser := earley.NewParser(intp.ga)
	accept, err := parser.Parse(tokenizer)
	if err != nil {
		return err
	}
	if !accept {
		return fmt.Errorf("not a sentence: %q", input)
	}
	forest := parser.Forest()
	if forest.Ambiguous() {
		pterm.Info.Printfln("accepted, ambiguous (%d derivations)", forest.DerivationCount(1000))
	} else {
		pterm.Info.Println("accepted")
	}
	intp.remember(parser.Tree())
	return nil
}

func (intp *Intp) parseGreedy(input string) error {
	tokenizer, err := tokenizerFor(intp.ga.Grammar(), input)
	if err != nil {
		return err
	}
	parser := peg.NewParser(intp.ga)
	accept, err := parser.Parse(tokenizer)
	if err != nil {
		return err
	}
	if !accept {
		return fmt.Errorf("not a sentence: %q", input)
	}
	pterm.Info.Println("accepted")
	intp.remember(parser.Tree())
	return nil
}

func (intp *Intp) generate() error {
	t, err := intp.gen.Generate()
	if err != nil {
		return err
	}
	pterm.Info.Println(t.Text())
	intp.remember(t)
	return nil
}

func (intp *Intp) mutate() error {
	if intp.corpus.Len() == 0 {
		return fmt.Errorf("corpus is empty, parse or generate first")
	}
	candidate := intp.corpus.Random(intp.rnd).Clone()
	op := intp.mutator.Mutate(candidate, intp.corpus)
	if op == "" {
		return fmt.Errorf("no mutation operator applicable")
	}
	pterm.Info.Printfln("%s: %s", op, candidate.Text())
	intp.remember(candidate)
	return nil
}

// remember keeps t as the last tree and feeds a copy to the session corpus.
func (intp *Intp) remember(t *tree.Node) {
	intp.last = t
	intp.corpus.Add(t.Clone())
}

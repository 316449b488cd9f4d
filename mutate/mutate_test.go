package mutate

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/grift/earley"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/scanner"
	"github.com/npillmayer/grift/tree"
)

func parseTree(t *testing.T, ga *grammar.Analysis, input string) *tree.Node {
	parser := earley.NewParser(ga)
	accept, err := parser.Parse(scanner.StringsTokenizer(input, nil))
	if err != nil || !accept {
		t.Fatalf("Corpus input not accepted: %q", input)
	}
	return parser.Tree()
}

func makeTestCorpus(t *testing.T, ga *grammar.Analysis) *Corpus {
	corpus := NewCorpus(ga.Grammar())
	for _, input := range []string{"x", "x+x", "(x)", "x+(x+x)", "((x))+x"} {
		corpus.Add(parseTree(t, ga, input))
	}
	return corpus
}

func TestMutatePreservesValidity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	corpus := makeTestCorpus(t, ga)
	m := NewMutator(ga, rand.NewSource(11))
	for i := 0; i < 25; i++ {
		victim := corpus.At(i % corpus.Len()).Clone()
		op := m.Mutate(victim, corpus)
		if op == "" {
			continue // tree had no mutable inner node
		}
		if !accepts(t, ga, victim.Text()) {
			t.Errorf("Mutated string #%d (op %s) no longer parses: %q", i, op, victim.Text())
		}
	}
}

func TestMutateHoistShrinks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	m := NewMutator(ga, rand.NewSource(12))
	opts := Options{
		ExpectedIterations: 1,
		HoistWeight:        1,
	}
	victim := parseTree(t, ga, "x+(x+x)")
	before := victim.Size()
	op := m.MutateWithOpts(victim, nil, opts)
	if op != "hoist" {
		t.Fatalf("Expected hoist to apply, got %q", op)
	}
	if victim.Size() >= before {
		t.Errorf("Expected hoist to shrink the tree, had %d nodes, have %d", before, victim.Size())
	}
	if !accepts(t, ga, victim.Text()) {
		t.Errorf("Hoisted string no longer parses: %q", victim.Text())
	}
}

func TestMutateRegenerate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	m := NewMutator(ga, rand.NewSource(13))
	opts := Options{
		ExpectedIterations: 1,
		MaxSize:            200,
		RegenerateWeight:   1,
		Generate:           GenOptions{MaxDepth: 4},
	}
	victim := parseTree(t, ga, "x+x")
	op := m.MutateWithOpts(victim, nil, opts)
	if op != "regenerate" {
		t.Fatalf("Expected regenerate to apply, got %q", op)
	}
	if !accepts(t, ga, victim.Text()) {
		t.Errorf("Regenerated string no longer parses: %q", victim.Text())
	}
}

func TestMutateRenumbersExtents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	corpus := makeTestCorpus(t, ga)
	m := NewMutator(ga, rand.NewSource(14))
	victim := corpus.At(1).Clone()
	m.Mutate(victim, corpus)
	leaves := victim.Leaves(nil)
	for i, leaf := range leaves {
		if leaf.Extent.From() != uint64(i) || leaf.Extent.To() != uint64(i+1) {
			t.Errorf("Expected leaf #%d to span (%d…%d), got %v", i, i, i+1, leaf.Extent)
		}
	}
	if victim.Extent.To() != uint64(len(leaves)) {
		t.Errorf("Expected root extent to cover all %d leaves, got %v", len(leaves), victim.Extent)
	}
}

// --- Corpus -----------------------------------------------------------

func TestCorpusDedupe(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	corpus := NewCorpus(ga.Grammar())
	if !corpus.Add(parseTree(t, ga, "x+x")) {
		t.Errorf("Expected first Add to succeed")
	}
	if corpus.Add(parseTree(t, ga, "x+x")) {
		t.Errorf("Expected structural duplicate to be dropped")
	}
	if corpus.Len() != 1 {
		t.Errorf("Expected corpus size 1, got %d", corpus.Len())
	}
}

func TestCorpusRandomSubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	corpus := makeTestCorpus(t, ga)
	rnd := rand.New(rand.NewSource(15))
	sub := corpus.RandomSubtree("Term", rnd)
	if sub == nil {
		t.Fatalf("Expected a Term subtree from the corpus")
	}
	if sub.Symbol != "Term" {
		t.Errorf("Expected subtree symbol Term, got %s", sub.Symbol)
	}
	if corpus.RandomSubtree("NoSuchSymbol", rnd) != nil {
		t.Errorf("Expected no subtree for an unknown symbol")
	}
}

func TestCorpusSaveLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	corpus := makeTestCorpus(t, ga)
	var buf bytes.Buffer
	if err := corpus.Save(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadCorpus(&buf, ga.Grammar())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != corpus.Len() {
		t.Fatalf("Expected %d trees after load, got %d", corpus.Len(), loaded.Len())
	}
	for i := 0; i < corpus.Len(); i++ {
		if loaded.At(i).Fingerprint() != corpus.At(i).Fingerprint() {
			t.Errorf("Tree #%d changed identity over save/load", i)
		}
		if loaded.At(i).Text() != corpus.At(i).Text() {
			t.Errorf("Tree #%d changed yield over save/load", i)
		}
	}
}

func TestCorpusGrammarMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	corpus := makeTestCorpus(t, ga)
	var buf bytes.Buffer
	if err := corpus.Save(&buf); err != nil {
		t.Fatal(err)
	}
	b := grammar.NewGrammarBuilder("Other-G")
	b.LHS("S").T("y", 'y').End()
	other, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCorpus(&buf, other); err == nil {
		t.Errorf("Expected corpus load against a different grammar to fail")
	}
}

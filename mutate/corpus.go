package mutate

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/tree"
)

// corpusSchemaVersion guards persisted corpora against format changes.
// Bump on any incompatible change to corpusFile or tree.Node encoding.
const corpusSchemaVersion = 1

// Corpus is a deduplicated collection of derivation trees for one grammar.
// Trees are keyed by their structural fingerprint, and all inner nodes are
// indexed by symbol, so the splice-operator can look up donor subtrees for
// any non-terminal. A Corpus is not thread-safe.
type Corpus struct {
	grammarFP string
	trees     []*tree.Node
	index     map[string]bool         // tree fingerprints
	bySym     map[string][]*tree.Node // symbol name ⟼ subtrees of corpus trees
}

// NewCorpus creates an empty corpus bound to a grammar. The grammar's
// fingerprint is persisted with the corpus; loading against a different
// grammar fails.
func NewCorpus(g *grammar.Grammar) *Corpus {
	return &Corpus{
		grammarFP: g.Fingerprint(),
		index:     make(map[string]bool),
		bySym:     make(map[string][]*tree.Node),
	}
}

// Add inserts a tree into the corpus. Structural duplicates are dropped.
// Returns true if the corpus changed. The corpus takes ownership of the
// tree; callers must not mutate it afterwards.
func (c *Corpus) Add(t *tree.Node) bool {
	fp := t.Fingerprint()
	if c.index[fp] {
		return false
	}
	c.index[fp] = true
	c.trees = append(c.trees, t)
	t.Walk(func(n *tree.Node, level int) bool {
		if !n.IsLeaf() {
			c.bySym[n.Symbol] = append(c.bySym[n.Symbol], n)
		}
		return true
	})
	return true
}

// Len returns the number of trees in the corpus.
func (c *Corpus) Len() int {
	return len(c.trees)
}

// At returns the i-th tree of the corpus, in insertion order.
func (c *Corpus) At(i int) *tree.Node {
	return c.trees[i]
}

// Random returns a random corpus tree, or nil for an empty corpus.
func (c *Corpus) Random(rnd *rand.Rand) *tree.Node {
	if len(c.trees) == 0 {
		return nil
	}
	return c.trees[rnd.Intn(len(c.trees))]
}

// RandomSubtree returns a clone of a random corpus subtree deriving from the
// given symbol, or nil if the corpus holds none.
func (c *Corpus) RandomSubtree(symname string, rnd *rand.Rand) *tree.Node {
	subtrees := c.bySym[symname]
	if len(subtrees) == 0 {
		return nil
	}
	return subtrees[rnd.Intn(len(subtrees))].Clone()
}

// --- Persistence ------------------------------------------------------

type corpusFile struct {
	Version   int          `msgpack:"version"`
	GrammarFP string       `msgpack:"grammar"`
	Trees     []*tree.Node `msgpack:"trees"`
}

// Save writes the corpus in msgpack format.
func (c *Corpus) Save(w io.Writer) error {
	file := corpusFile{
		Version:   corpusSchemaVersion,
		GrammarFP: c.grammarFP,
		Trees:     c.trees,
	}
	if err := msgpack.NewEncoder(w).Encode(&file); err != nil {
		return fmt.Errorf("cannot save corpus: %w", err)
	}
	tracer().Infof("saved corpus with %d trees", len(c.trees))
	return nil
}

// SaveFile writes the corpus to a file, creating or truncating it.
func (c *Corpus) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot save corpus: %w", err)
	}
	defer f.Close()
	return c.Save(f)
}

// LoadCorpus reads a corpus in msgpack format. The corpus must have been
// saved for the same grammar (by fingerprint), and with the current schema
// version.
func LoadCorpus(r io.Reader, g *grammar.Grammar) (*Corpus, error) {
	var file corpusFile
	if err := msgpack.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("cannot load corpus: %w", err)
	}
	if file.Version != corpusSchemaVersion {
		return nil, fmt.Errorf("corpus has schema version %d, expected %d",
			file.Version, corpusSchemaVersion)
	}
	c := NewCorpus(g)
	if file.GrammarFP != c.grammarFP {
		return nil, fmt.Errorf("corpus was saved for a different grammar")
	}
	for _, t := range file.Trees {
		c.Add(t)
	}
	tracer().Infof("loaded corpus with %d trees", c.Len())
	return c, nil
}

// LoadCorpusFile reads a corpus from a file. See LoadCorpus.
func LoadCorpusFile(path string, g *grammar.Grammar) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load corpus: %w", err)
	}
	defer f.Close()
	return LoadCorpus(f, g)
}

package mutate

import (
	"math/rand"
	"sort"

	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/tree"
)

// Options configure a mutation run. Weights select between the mutation
// operators; an operator with weight 0 is never applied.
type Options struct {
	// ExpectedIterations is the expected number of successful operator
	// applications per Mutate call.
	ExpectedIterations int
	// MaxSize is a soft cap on the node count of the mutated tree. Growing
	// operators (splice, regenerate) respect it, shrinking ones ignore it.
	MaxSize int

	SpliceWeight     int // replace a subtree by a same-symbol subtree from the corpus
	RegenerateWeight int // replace a subtree by a freshly generated one
	HoistWeight      int // replace a subtree by one of its same-symbol descendants
	SwapWeight       int // exchange two disjoint same-symbol subtrees

	Generate GenOptions // options for the regenerate-operator
}

// DefaultOptions are the options used by Mutate.
var DefaultOptions = Options{
	ExpectedIterations: 3,
	MaxSize:            400,
	SpliceWeight:       200,
	RegenerateWeight:   100,
	HoistWeight:        50,
	SwapWeight:         50,
	Generate:           GenOptions{MaxDepth: 6},
}

// Weight returns the summed operator weights. Zero means no operator will
// ever be applied.
func (o Options) Weight() int {
	return o.SpliceWeight + o.RegenerateWeight + o.HoistWeight + o.SwapWeight
}

// Mutator mutates derivation trees. All operators preserve grammar validity:
// a subtree is only ever replaced by a subtree deriving from the same
// grammar symbol. Create a Mutator with NewMutator; it is not thread-safe.
type Mutator struct {
	ga  *grammar.Analysis
	gen *Generator
	rnd *rand.Rand
}

// NewMutator creates a Mutator for a (previously analyzed) grammar, drawing
// randomness from rs.
func NewMutator(ga *grammar.Analysis, rs rand.Source) *Mutator {
	return &Mutator{
		ga:  ga,
		gen: NewGenerator(ga, rs),
		rnd: rand.New(rs),
	}
}

// Mutate mutates a tree in place with DefaultOptions. See MutateWithOpts.
func (m *Mutator) Mutate(root *tree.Node, corpus *Corpus) string {
	return m.MutateWithOpts(root, corpus, DefaultOptions)
}

// MutateWithOpts mutates a tree in place: operators are drawn by weight until
// the expected number of them succeeded. The corpus provides donor subtrees
// for the splice-operator and may be nil. Returns the name of the last
// operator applied, or "" if no operator was applicable.
func (m *Mutator) MutateWithOpts(root *tree.Node, corpus *Corpus, opts Options) string {
	totalWeight := opts.Weight()
	if totalWeight == 0 {
		return ""
	}
	var lastOp string
	attempts := 0
	for stop, ok := false, false; !stop; stop = ok && m.oneOf(opts.ExpectedIterations) {
		if attempts++; attempts > 100 { // no operator applicable to this tree
			break
		}
		val := m.rnd.Intn(totalWeight)
		val -= opts.SpliceWeight
		if val < 0 {
			ok = m.splice(root, corpus, opts)
			if ok {
				lastOp = "splice"
			}
			continue
		}
		val -= opts.RegenerateWeight
		if val < 0 {
			ok = m.regenerate(root, opts)
			if ok {
				lastOp = "regenerate"
			}
			continue
		}
		val -= opts.HoistWeight
		if val < 0 {
			ok = m.hoist(root)
			if ok {
				lastOp = "hoist"
			}
			continue
		}
		ok = m.swap(root)
		if ok {
			lastOp = "swap"
		}
	}
	root.Renumber()
	tracer().Debugf("mutated tree has %d nodes: %q", root.Size(), root.Text())
	return lastOp
}

// splice replaces a random subtree by a corpus subtree deriving from the same
// symbol.
func (m *Mutator) splice(root *tree.Node, corpus *Corpus, opts Options) bool {
	if corpus == nil || corpus.Len() == 0 {
		return false
	}
	target := m.pickInner(root)
	if target == nil {
		return false
	}
	donor := corpus.RandomSubtree(target.Symbol, m.rnd)
	if donor == nil || donor.Fingerprint() == target.Fingerprint() {
		return false
	}
	if opts.MaxSize > 0 && root.Size()-target.Size()+donor.Size() > opts.MaxSize {
		return false
	}
	*target = *donor
	return true
}

// regenerate replaces a random subtree by a freshly generated derivation of
// its symbol.
func (m *Mutator) regenerate(root *tree.Node, opts Options) bool {
	target := m.pickInner(root)
	if target == nil {
		return false
	}
	sym := m.ga.Grammar().SymbolByName(target.Symbol)
	if sym == nil {
		return false
	}
	fresh, err := m.gen.Expand(sym, opts.Generate)
	if err != nil {
		return false
	}
	if opts.MaxSize > 0 && root.Size()-target.Size()+fresh.Size() > opts.MaxSize {
		return false
	}
	*target = *fresh
	return true
}

// hoist replaces a subtree by one of its proper same-symbol descendants,
// shrinking the tree. This is the inverse of recursive growth and tends to
// produce minimal variants.
func (m *Mutator) hoist(root *tree.Node) bool {
	target := m.pickInner(root)
	if target == nil {
		return false
	}
	var descendants []*tree.Node
	for _, d := range target.BySymbol(target.Symbol) {
		if d != target {
			descendants = append(descendants, d)
		}
	}
	if len(descendants) == 0 {
		return false
	}
	repl := descendants[m.rnd.Intn(len(descendants))].Clone()
	*target = *repl
	return true
}

// swap exchanges two disjoint subtrees deriving from the same symbol.
func (m *Mutator) swap(root *tree.Node) bool {
	bySym := make(map[string][]*tree.Node)
	root.Walk(func(n *tree.Node, level int) bool {
		if !n.IsLeaf() && n != root {
			bySym[n.Symbol] = append(bySym[n.Symbol], n)
		}
		return true
	})
	var candidates []string
	for sym, nodes := range bySym {
		if len(nodes) > 1 {
			candidates = append(candidates, sym)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	sort.Strings(candidates) // map order must not leak into the random choice
	nodes := bySym[candidates[m.rnd.Intn(len(candidates))]]
	a := nodes[m.rnd.Intn(len(nodes))]
	b := nodes[m.rnd.Intn(len(nodes))]
	if a == b || isDescendant(a, b) || isDescendant(b, a) {
		return false
	}
	*a, *b = *b, *a
	return true
}

// pickInner selects a random non-root inner node, uniformly.
func (m *Mutator) pickInner(root *tree.Node) *tree.Node {
	var inner []*tree.Node
	root.Walk(func(n *tree.Node, level int) bool {
		if !n.IsLeaf() && n != root {
			inner = append(inner, n)
		}
		return true
	})
	if len(inner) == 0 {
		return nil
	}
	return inner[m.rnd.Intn(len(inner))]
}

func (m *Mutator) oneOf(n int) bool {
	if n <= 1 {
		return true
	}
	return m.rnd.Intn(n) == 0
}

func isDescendant(ancestor, node *tree.Node) bool {
	found := false
	ancestor.Walk(func(n *tree.Node, level int) bool {
		if n == node && n != ancestor {
			found = true
		}
		return !found
	})
	return found
}

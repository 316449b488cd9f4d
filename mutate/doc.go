/*
Package mutate generates and mutates derivation trees.

Working on derivation trees instead of flat strings keeps every candidate
syntactically valid: subtrees are only ever replaced by subtrees deriving
from the same grammar symbol. A Generator expands non-terminals at random
within a depth budget and then closes the tree along cheapest rules, so
generation always terminates. A Mutator applies tree-level operators
(splice, regenerate, hoist, swap) with configurable weights, and a Corpus
holds deduplicated trees, indexed by symbol for splicing, with msgpack
persistence.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package mutate

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'grift.mutate'.
func tracer() tracing.Trace {
	return tracing.Select("grift.mutate")
}

/*
Package earley provides an exhaustive Earley-parser.

Earley-parsing handles the full class of context-free grammars, including
ambiguous ones, without any grammar transformation. This makes it a good fit
for grammar experimentation and for grammar-based fuzzing, where grammars are
written for readability rather than for a particular parsing technology.
Clients provide a grammar analysis and a tokenizer:

	ga := grammar.Analyze(g)
	parser := earley.NewParser(ga)
	accept, err := parser.Parse(scanner.ForGrammar(g, input))

After a successful parse, clients either walk the single derivation selected
by the default ambiguity policy (WalkDerivation, Tree), or materialize the
complete packed parse forest of all derivations (Forest).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package earley

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'grift.earley'.
func tracer() tracing.Trace {
	return tracing.Select("grift.earley")
}

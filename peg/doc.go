/*
Package peg provides a greedy packrat-parser.

The parser interprets a context-free grammar with PEG semantics: alternatives
of a non-terminal are tried in rule order, and the first alternative to match
wins. There is no backtracking into a non-terminal once it succeeded at a
position, which makes recognition deterministic and, with memoization, linear
in the input length.

This is a different trade-off than package earley: the Earley-parser finds
every derivation a context-free grammar permits, while the packrat-parser
commits to one greedy derivation, possibly rejecting strings the grammar
derives. Running both parsers over the same grammar exposes exactly those
discrepancies, which is what the fuzz package does.

Directly left-recursive rules would not terminate under greedy interpretation;
the parser guards against re-entering a non-terminal at the same input
position and fails the offending alternative instead.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package peg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'grift.peg'.
func tracer() tracing.Trace {
	return tracing.Select("grift.peg")
}

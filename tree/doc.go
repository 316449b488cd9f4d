/*
Package tree implements derivation trees and packed parse forests.

A derivation tree records how a grammar derives an input string: its leaves
are terminals, which concatenate (left to right) to the input string exactly,
and its inner nodes record which grammar rule produced each substring.

A packed parse forest re-uses existing derivation tree nodes between
different parse trees. For a conventional non-ambiguous parse, a parse forest
degrades to a single tree. Ambiguous grammars, on the other hand, may result
in parse runs where more than one derivation tree is created. To save space
these trees will share common nodes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'grift.tree'.
func tracer() tracing.Trace {
	return tracing.Select("grift.tree")
}

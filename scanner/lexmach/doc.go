/*
Package lexmach provides an adapter to use the lexmachine scanner generator
with the parsers of this module. It is intended for grammars with external
terminals defined by regular expressions, e.g. numbers or identifiers.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'grift.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("grift.scanner")
}

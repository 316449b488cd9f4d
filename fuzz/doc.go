/*
Package fuzz drives grammar-based fuzzing campaigns.

A campaign feeds candidate strings, derived from a corpus of derivation
trees by tree-level mutation, into a target and classifies the outcomes
(pass, fail, crash, hang). Targets are external programs run per candidate,
or in-process functions. A differential target runs the exhaustive and the
greedy parser of this module against each other, flagging inputs on which
the two disagree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fuzz

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'grift.fuzz'.
func tracer() tracing.Trace {
	return tracing.Select("grift.fuzz")
}

/*
Package grift is a grammar-based parsing and fuzzing toolbox.

GRIFT strives to be a smart and lightweight tool for grammar-directed
generation of test inputs.
It focusses on parsing of ambiguous grammars and on recombining derivation
trees. Package structure is as follows:

■ grammar: Package grammar implements the grammar model, a fluent grammar
builder and static grammar analysis.

■ scanner: Package scanner defines the tokenizer interface used by the parsers,
together with default implementations.

■ earley: Package earley implements an exhaustive chart parser which preserves
ambiguity in a parse forest.

■ peg: Package peg implements a greedy recognizer with ordered choice, where
the first successful alternative wins.

■ tree: Package tree implements derivation trees and packed parse forests.

■ mutate: Package mutate implements grammar-directed generation and mutation
of derivation trees.

■ fuzz: Package fuzz implements a campaign runner which feeds candidate
strings to a target program.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grift

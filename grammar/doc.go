/*
Package grammar implements a model for context-free grammars, together with
a fluent grammar builder and static grammar analysis.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
carry a token value of type int. Grammars may contain epsilon-productions.

Example:

    b := grammar.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a", 1).End()  // S  ->  A a
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b", 2).End()         // B  ->  b
    b.LHS("B").Epsilon()               // B  ->
    b.LHS("D").T("d", 3).End()         // D  ->  d
    b.LHS("D").Epsilon()               // D  ->

This results in the following trivial grammar:

   b.Grammar().Dump()

   0: [S'] ::= [S]
   1: [S] ::= [A a]
   2: [A] ::= [B D]
   3: [B] ::= [b]
   4: [B] ::= []
   5: [D] ::= [d]
   6: [D] ::= []

Every non-terminal which is referenced in a right-hand side must either be
defined by a rule of its own, or be declared as an external symbol. Otherwise
the builder will refuse to construct the grammar (closure property).

Static Grammar Analysis

After the grammar is complete, it may be analysed. For this end, the
grammar is subjected to an Analysis object, which computes FIRST and
FOLLOW sets for the grammar, determines all epsilon-derivable rules, and
derives the minimum expansion cost for every symbol. The parsers in
packages earley and peg, as well as the generator in package mutate,
operate on the analysed grammar.

    ga := grammar.Analyze(g)
    ga.Grammar().EachNonTerminal(
        func(N *grammar.Symbol) interface{} {
            fmt.Printf("FIRST(%s) = %v", N.Name, ga.First(N))
            return nil
        })

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'grift.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("grift.grammar")
}

package scanner

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/grift"
	"github.com/npillmayer/grift/grammar"
)

// StringTokenizer is a tokenizer for string-level grammars, i.e. grammars
// where every terminal is a literal. It matches the literal table of a
// grammar against the input, longest lexeme first, and falls back to
// single-rune tokens carrying their code point as token type.
//
// Fuzzing grammars usually operate on this level: the concatenation of the
// scanned lexemes always reproduces the input string exactly.
type StringTokenizer struct {
	input    string
	pos      uint64 // byte position within input
	literals []literal
	Error    func(error)
}

type literal struct {
	lexeme string
	tokval int
}

var _ Tokenizer = (*StringTokenizer)(nil)

// StringsTokenizer creates a tokenizer over input, matching the given
// lexeme ⟼ token type table.
func StringsTokenizer(input string, literals map[string]int) *StringTokenizer {
	t := &StringTokenizer{
		input: input,
		Error: logError,
	}
	for lexeme, tokval := range literals {
		if utf8.RuneCountInString(lexeme) < 2 {
			continue // single runes are matched by the fallback
		}
		t.literals = append(t.literals, literal{lexeme, tokval})
	}
	// longest match wins; ties resolved lexicographically for determinism
	sort.Slice(t.literals, func(i, j int) bool {
		if len(t.literals[i].lexeme) != len(t.literals[j].lexeme) {
			return len(t.literals[i].lexeme) > len(t.literals[j].lexeme)
		}
		return t.literals[i].lexeme < t.literals[j].lexeme
	})
	return t
}

// ForGrammar creates a StringTokenizer over input, using the literal
// terminals of grammar g.
func ForGrammar(g *grammar.Grammar, input string) *StringTokenizer {
	return StringsTokenizer(input, g.Literals())
}

// SetErrorHandler sets an error handler for the scanner.
func (t *StringTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *StringTokenizer) NextToken() grift.Token {
	if t.pos >= uint64(len(t.input)) {
		return DefaultToken{kind: EOF, span: grift.Span{t.pos, t.pos}}
	}
	rest := t.input[t.pos:]
	for _, lit := range t.literals {
		if strings.HasPrefix(rest, lit.lexeme) {
			span := grift.Span{t.pos, t.pos + uint64(len(lit.lexeme))}
			t.pos = span.To()
			return DefaultToken{
				kind:   grift.TokType(lit.tokval),
				lexeme: lit.lexeme,
				span:   span,
			}
		}
	}
	r, size := utf8.DecodeRuneInString(rest)
	span := grift.Span{t.pos, t.pos + uint64(size)}
	t.pos = span.To()
	return DefaultToken{
		kind:   grift.TokType(r),
		lexeme: rest[:size],
		span:   span,
	}
}

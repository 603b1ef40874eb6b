// Package tokenizer splits free-text descriptions into lower-cased word
// tokens. Tokens are separated by runs of Unicode punctuation or whitespace;
// every other rune (letters, digits, symbols such as '$' or '+') is part of a
// token. There is no stemming and no stop-word removal, so matching against
// the output is exact.
package tokenizer

import (
	"strings"
	"unicode"
)

// Token is a single normalised term and its ordinal position in the text.
type Token struct {
	Term     string
	Position int
}

// IsSeparator reports whether r splits two tokens.
func IsSeparator(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r)
}

// Tokenize breaks text into lower-cased Tokens in order of appearance.
func Tokenize(text string) []Token {
	words := strings.FieldsFunc(strings.ToLower(text), IsSeparator)
	tokens := make([]Token, 0, len(words))
	for pos, word := range words {
		tokens = append(tokens, Token{
			Term:     word,
			Position: pos,
		})
	}
	return tokens
}

// Terms returns the distinct terms of text as a set.
func Terms(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok.Term] = struct{}{}
	}
	return set
}

// Normalize lower-cases and trims a search keyword so it compares equal to
// the terms produced by Tokenize.
func Normalize(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

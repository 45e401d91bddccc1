// Package tokenizer splits raw text into words, single symbol characters and
// line breaks.
package tokenizer

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a Token.
type Kind uint8

const (
	// Word is a maximal run of alphabetic and numeric characters.
	Word Kind = iota
	// Symbol is a single character that is neither alphanumeric nor a line break.
	Symbol
	// Newline marks a line break in the source text.
	Newline
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Symbol:
		return "symbol"
	case Newline:
		return "newline"
	default:
		return "unknown"
	}
}

// Token is one unit of tokenized text. Text always holds the literal source
// characters, including "\n" for Newline tokens.
type Token struct {
	Kind Kind
	Text string
}

func (t Token) String() string {
	return t.Text
}

// Tokenize returns a lazy sequence of tokens for text. The sequence can be
// ranged over any number of times and always yields the same tokens.
//
// Concatenating the Text of every token reproduces text byte for byte. Bytes
// that are not valid UTF-8 are emitted as one Symbol each.
func Tokenize(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		start := -1
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if isAlnum(r) {
				if start < 0 {
					start = i
				}
				i += size
				continue
			}
			if start >= 0 {
				if !yield(Token{Kind: Word, Text: text[start:i]}) {
					return
				}
				start = -1
			}
			tok := Token{Kind: Symbol, Text: text[i : i+size]}
			if r == '\n' {
				tok.Kind = Newline
			}
			if !yield(tok) {
				return
			}
			i += size
		}
		if start >= 0 {
			yield(Token{Kind: Word, Text: text[start:]})
		}
	}
}

// Collect tokenizes text eagerly.
func Collect(text string) []Token {
	var out []Token
	for tok := range Tokenize(text) {
		out = append(out, tok)
	}
	return out
}

// IsWord reports whether s contains at least one alphabetic or numeric
// character.
func IsWord(s string) bool {
	for _, r := range s {
		if isAlnum(r) {
			return true
		}
	}
	return false
}

// isAlnum matches the Unicode Alphabetic and Numeric properties. Alphabetic
// adds Other_Alphabetic to the letter categories, which keeps dependent vowel
// signs and harakat inside their word.
func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r)
}

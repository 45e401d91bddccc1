package inference

import (
	"strings"

	"github.com/samcharles93/babble/internal/tokenizer"
)

// Formatter joins generated tokens into readable text. Tokens containing a
// letter or digit are preceded by a space, except the first one written;
// punctuation attaches to whatever precedes it. The chat bot this replaces
// also spaced the first word, so its replies started with a blank.
type Formatter struct {
	b       strings.Builder
	started bool
}

// Piece returns the text tok contributes and appends it to the buffer.
func (f *Formatter) Piece(tok string) string {
	piece := tok
	if f.started && tokenizer.IsWord(tok) {
		piece = " " + tok
	}
	f.started = true
	f.b.WriteString(piece)
	return piece
}

func (f *Formatter) String() string {
	return f.b.String()
}

// Render formats a complete token sequence.
func Render(tokens []string) string {
	var f Formatter
	for _, tok := range tokens {
		f.Piece(tok)
	}
	return f.String()
}

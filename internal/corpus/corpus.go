// Package corpus loads training text and adapts its tokens for modelling.
package corpus

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samcharles93/babble/internal/tokenizer"
)

// Ext is the file extension of corpus files discovered in a directory.
const Ext = ".txt"

var (
	// ErrTooLarge is returned when a corpus exceeds LoadOptions.MaxBytes.
	ErrTooLarge = errors.New("corpus too large")
	// ErrNoCorpus is returned when a directory holds no corpus files.
	ErrNoCorpus = errors.New("no corpus files found")
)

// Words drops line breaks from tokens and yields every remaining token as an
// independent string that does not share memory with the source text.
func Words(tokens iter.Seq[tokenizer.Token]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for tok := range tokens {
			if tok.Kind == tokenizer.Newline {
				continue
			}
			if !yield(strings.Clone(tok.Text)) {
				return
			}
		}
	}
}

// Tokens tokenizes text and adapts the result with Words.
func Tokens(text string) iter.Seq[string] {
	return Words(tokenizer.Tokenize(text))
}

type LoadOptions struct {
	// MaxBytes caps the total size read. Zero means unlimited.
	MaxBytes int64
}

// Text is a loaded training corpus.
type Text struct {
	Content string
	Sources []string
	Bytes   int64
}

// Load reads the training text at path. A directory is read as the
// concatenation of its corpus files in name order, separated by a line break.
func Load(path string, opts LoadOptions) (*Text, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("corpus path is required")
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	sources := []string{filepath.Clean(path)}
	if st.IsDir() {
		sources, err = Discover(path)
		if err != nil {
			return nil, err
		}
		if len(sources) == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoCorpus, path)
		}
	}

	var (
		b     strings.Builder
		total int64
	)
	for i, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read corpus %s: %w", src, err)
		}
		total += int64(len(data))
		if opts.MaxBytes > 0 && total > opts.MaxBytes {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, path, opts.MaxBytes)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.Write(data)
	}

	return &Text{
		Content: strings.ToValidUTF8(b.String(), "�"),
		Sources: sources,
		Bytes:   total,
	}, nil
}

// Discover lists the corpus files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("corpora directory is empty")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("corpora path is not a directory: %s", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), Ext) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Name returns the display name of a corpus file: its base name without the
// corpus extension.
func Name(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(base), Ext) {
		base = base[:len(base)-len(Ext)]
	}
	return base
}

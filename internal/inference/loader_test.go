package inference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/babble/internal/corpus"
)

func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tiny.txt")
	if err := os.WriteFile(path, []byte("a b a c\na b"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	steps := 3
	res, err := Loader{Order: 2, Defaults: GenDefaults{Steps: &steps}}.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Model.Order() != 2 {
		t.Fatalf("expected order 2, got %d", res.Model.Order())
	}
	// newline tokens are dropped, spaces are kept
	if got := res.Model.Stats().Tokens; got != 10 {
		t.Fatalf("expected 10 tokens, got %d", got)
	}
	if res.Engine.Model() != res.Model {
		t.Fatal("engine should wrap the loaded model")
	}
	if res.GenerationDefaults.Steps == nil || *res.GenerationDefaults.Steps != 3 {
		t.Fatal("generation defaults should be carried over")
	}
	if res.Bytes != 11 {
		t.Fatalf("expected 11 bytes, got %d", res.Bytes)
	}
}

func TestLoaderErrors(t *testing.T) {
	t.Parallel()

	if _, err := (Loader{}).Load(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}

	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, []byte("too many bytes"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	_, err := Loader{MaxBytes: 3}.Load(context.Background(), path)
	if !errors.Is(err, corpus.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
)

func TestTokensDropsNewlines(t *testing.T) {
	t.Parallel()

	got := slices.Collect(Tokens("Hello, world.\nBye"))
	want := []string{"Hello", ",", " ", "world", ".", "Bye"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokens() = %q, want %q", got, want)
	}
}

func TestTokensEmpty(t *testing.T) {
	t.Parallel()

	if got := slices.Collect(Tokens("")); len(got) != 0 {
		t.Fatalf("expected no tokens, got %q", got)
	}
	if got := slices.Collect(Tokens("\n\n")); len(got) != 0 {
		t.Fatalf("expected no tokens for only newlines, got %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "story.txt")
	mustWriteFile(t, path, "once upon a time")

	text, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text.Content != "once upon a time" {
		t.Fatalf("unexpected content %q", text.Content)
	}
	if text.Bytes != 16 {
		t.Fatalf("expected 16 bytes, got %d", text.Bytes)
	}
	if len(text.Sources) != 1 || text.Sources[0] != path {
		t.Fatalf("unexpected sources %v", text.Sources)
	}
}

func TestLoadDirectoryConcatenatesInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "b.txt"), "second")
	mustWriteFile(t, filepath.Join(dir, "a.txt"), "first")
	mustWriteFile(t, filepath.Join(dir, "notes.md"), "ignored")

	text, err := Load(dir, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text.Content != "first\nsecond" {
		t.Fatalf("unexpected content %q", text.Content)
	}
	if len(text.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", text.Sources)
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir(), LoadOptions{})
	if !errors.Is(err, ErrNoCorpus) {
		t.Fatalf("expected ErrNoCorpus, got %v", err)
	}
}

func TestLoadTooLarge(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "big.txt")
	mustWriteFile(t, path, "0123456789")

	_, err := Load(path, LoadOptions{MaxBytes: 4})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestLoadRepairsInvalidUTF8(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.txt")
	mustWriteFile(t, path, "ok\xffok")

	text, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text.Content != "ok�ok" {
		t.Fatalf("unexpected content %q", text.Content)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt"), LoadOptions{}); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load("  ", LoadOptions{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDiscoverSorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.txt", "A.TXT", "c.csv"} {
		mustWriteFile(t, filepath.Join(dir, name), "x")
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{filepath.Join(dir, "A.TXT"), filepath.Join(dir, "b.txt")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Discover() = %v, want %v", got, want)
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"/data/shakespeare.txt", "shakespeare"},
		{"poems.TXT", "poems"},
		{"/data/dir", "dir"},
	}
	for _, tc := range tests {
		if got := Name(tc.input); got != tc.expected {
			t.Errorf("Name(%q): expected %q, got %q", tc.input, tc.expected, got)
		}
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

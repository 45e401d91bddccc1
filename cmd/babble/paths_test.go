package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCorpus(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write corpus %s: %v", name, err)
	}
	return path
}

func setTTY(t *testing.T, tty bool) {
	t.Helper()
	prev := stdinIsTTY
	stdinIsTTY = func() bool { return tty }
	t.Cleanup(func() { stdinIsTTY = prev })
}

func TestResolveCorpusPath(t *testing.T) {
	t.Run("corpus flag bypasses env", func(t *testing.T) {
		t.Setenv(envCorporaDir, "")
		got, err := resolveCorpusPath("/tmp/./books.txt", "", bytes.NewBuffer(nil), io.Discard)
		if err != nil {
			t.Fatalf("resolveCorpusPath returned error: %v", err)
		}
		if got != filepath.Clean("/tmp/books.txt") {
			t.Fatalf("unexpected corpus path: got %q", got)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv(envCorporaDir, "")
		_, err := resolveCorpusPath("", "", bytes.NewBuffer(nil), io.Discard)
		if err == nil || !strings.Contains(err.Error(), envCorporaDir) {
			t.Fatalf("expected an error naming %s, got %v", envCorporaDir, err)
		}
	})

	t.Run("single corpus selects automatically", func(t *testing.T) {
		dir := t.TempDir()
		only := writeCorpus(t, dir, "only.txt", "x")
		writeCorpus(t, dir, "notes.md", "x")
		t.Setenv(envCorporaDir, dir)
		setTTY(t, false)

		got, err := resolveCorpusPath("", "", bytes.NewBuffer(nil), io.Discard)
		if err != nil {
			t.Fatalf("resolveCorpusPath returned error: %v", err)
		}
		if got != only {
			t.Fatalf("unexpected corpus path: got %q want %q", got, only)
		}
	})

	t.Run("flag directory overrides env", func(t *testing.T) {
		envDir, flagDir := t.TempDir(), t.TempDir()
		writeCorpus(t, envDir, "env.txt", "x")
		want := writeCorpus(t, flagDir, "flag.txt", "x")
		t.Setenv(envCorporaDir, envDir)
		setTTY(t, false)

		got, err := resolveCorpusPath("", flagDir, bytes.NewBuffer(nil), io.Discard)
		if err != nil || got != want {
			t.Fatalf("got %q, %v; want %q", got, err, want)
		}
	})

	t.Run("multiple corpora requires tty", func(t *testing.T) {
		dir := t.TempDir()
		writeCorpus(t, dir, "a.txt", "x")
		writeCorpus(t, dir, "b.txt", "x")
		t.Setenv(envCorporaDir, dir)
		setTTY(t, false)

		if _, err := resolveCorpusPath("", "", bytes.NewBuffer(nil), io.Discard); err == nil {
			t.Fatalf("expected error when multiple corpora and stdin is not a tty")
		}
	})

	t.Run("interactive selection chooses sorted index", func(t *testing.T) {
		dir := t.TempDir()
		b := writeCorpus(t, dir, "b.txt", "x")
		writeCorpus(t, dir, "a.txt", "x")
		t.Setenv(envCorporaDir, dir)
		setTTY(t, true)

		var prompt bytes.Buffer
		got, err := resolveCorpusPath("", "", bytes.NewBufferString("9\n2\n"), &prompt)
		if err != nil {
			t.Fatalf("resolveCorpusPath returned error: %v", err)
		}
		if got != b {
			t.Fatalf("unexpected corpus selection: got %q want %q", got, b)
		}
		if !strings.Contains(prompt.String(), `invalid selection "9"`) {
			t.Fatalf("expected the bad selection to be reported, got %q", prompt.String())
		}
	})

	t.Run("interactive selection at eof", func(t *testing.T) {
		dir := t.TempDir()
		writeCorpus(t, dir, "a.txt", "x")
		writeCorpus(t, dir, "b.txt", "x")
		t.Setenv(envCorporaDir, dir)
		setTTY(t, true)

		if _, err := resolveCorpusPath("", "", bytes.NewBuffer(nil), io.Discard); err == nil {
			t.Fatal("expected an error when stdin ends without a selection")
		}
	})
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		12:              "12 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
		3 << 30:         "3.0 GB",
	}
	for in, want := range tests {
		if got := formatSize(in); got != want {
			t.Errorf("formatSize(%d) = %q, want %q", in, got, want)
		}
	}
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samcharles93/babble/internal/corpus"
)

const envCorporaDir = "BABBLE_CORPORA_DIR"

// stdinIsTTY is a small seam for tests.
var stdinIsTTY = isTTY

func corporaDir(flag string) string {
	if dir := strings.TrimSpace(flag); dir != "" {
		return dir
	}
	return strings.TrimSpace(os.Getenv(envCorporaDir))
}

// resolveCorpusPath picks the corpus for commands that work on a single one:
// an explicit --corpus wins, otherwise the corpora directory is searched and
// the user is asked to choose when it holds more than one.
func resolveCorpusPath(corpusFlag, corporaFlag string, stdin io.Reader, stderr io.Writer) (string, error) {
	if p := strings.TrimSpace(corpusFlag); p != "" {
		return filepath.Clean(p), nil
	}

	dir := corporaDir(corporaFlag)
	if dir == "" {
		return "", fmt.Errorf("--corpus or --corpora-path is required unless %s is set", envCorporaDir)
	}

	files, err := corpus.Discover(dir)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no %s corpora found in %s", corpus.Ext, dir)
	case 1:
		_, _ = fmt.Fprintf(stderr, "using corpus %s\n", files[0])
		return files[0], nil
	default:
		if !stdinIsTTY() {
			return "", fmt.Errorf("multiple corpora found in %s but stdin is not interactive; set --corpus", dir)
		}
		return selectCorpusInteractively(dir, files, stdin, stderr)
	}
}

func selectCorpusInteractively(dir string, files []string, stdin io.Reader, stderr io.Writer) (string, error) {
	_, _ = fmt.Fprintf(stderr, "select a corpus from %s\n", dir)
	for i, f := range files {
		_, _ = fmt.Fprintf(stderr, "%d. %s\n", i+1, corpus.Name(f))
	}

	reader := bufio.NewReader(stdin)
	for {
		_, _ = fmt.Fprintf(stderr, "enter selection [1-%d]: ", len(files))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		eof := errors.Is(err, io.EOF)
		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				return "", errors.New("no selection provided on stdin; set --corpus")
			}
			continue
		}

		idx, convErr := strconv.Atoi(line)
		if convErr != nil || idx < 1 || idx > len(files) {
			_, _ = fmt.Fprintf(stderr, "invalid selection %q\n", line)
			if eof {
				return "", errors.New("invalid selection provided on stdin; set --corpus")
			}
			continue
		}
		return files[idx-1], nil
	}
}

func isTTY() bool {
	st, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (st.Mode() & os.ModeCharDevice) != 0
}

func formatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

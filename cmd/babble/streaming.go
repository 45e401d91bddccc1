package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

type StreamMode string

const (
	StreamInstant    StreamMode = "instant"
	StreamSmooth     StreamMode = "smooth"
	StreamTypewriter StreamMode = "typewriter"
	StreamQuiet      StreamMode = "quiet"
)

func parseStreamMode(s string) (StreamMode, error) {
	switch m := StreamMode(strings.ToLower(strings.TrimSpace(s))); m {
	case StreamInstant, StreamSmooth, StreamTypewriter, StreamQuiet:
		return m, nil
	case "":
		return StreamInstant, nil
	default:
		return "", fmt.Errorf("unknown stream mode %q (instant, smooth, typewriter, quiet)", s)
	}
}

// StreamWriter prints reply pieces as they are generated. It is used for a
// single reply; Flush ends it and returns the full text.
type StreamWriter struct {
	mode StreamMode
	out  *bufio.Writer
	raw  bool

	// typewriter pacing per rune
	delay time.Duration

	mu            sync.Mutex
	batch         strings.Builder
	batchPieces   int
	batchSize     int
	lastFlush     time.Time
	flushInterval time.Duration
	accumulator   strings.Builder
	done          chan struct{}
}

func NewStreamWriter(w io.Writer, mode StreamMode, raw bool) *StreamWriter {
	sw := &StreamWriter{
		mode:          mode,
		out:           bufio.NewWriterSize(w, 4096),
		raw:           raw,
		delay:         15 * time.Millisecond,
		batchSize:     5,
		lastFlush:     time.Now(),
		flushInterval: 50 * time.Millisecond,
	}
	if mode == StreamSmooth {
		sw.done = make(chan struct{})
		go sw.backgroundFlusher(sw.done)
	}
	return sw
}

// Write handles one formatted piece of the reply.
func (w *StreamWriter) Write(piece string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.accumulator.WriteString(piece)
	switch w.mode {
	case StreamInstant:
		w.emit(piece)
	case StreamSmooth:
		w.batch.WriteString(piece)
		w.batchPieces++
		if w.batchPieces >= w.batchSize || time.Since(w.lastFlush) >= w.flushInterval {
			w.flushBatch()
		}
	case StreamTypewriter:
		for _, r := range piece {
			w.emit(string(r))
			if w.delay > 0 {
				time.Sleep(w.delay)
			}
		}
	case StreamQuiet:
	}
}

// Flush writes anything still buffered and returns the reply text.
func (w *StreamWriter) Flush() string {
	if w.done != nil {
		close(w.done)
		w.done = nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.mode {
	case StreamQuiet:
		w.emit(w.accumulator.String())
	case StreamSmooth:
		w.flushBatch()
	}
	_ = w.out.Flush()
	return w.accumulator.String()
}

// emit writes s and flushes it to the terminal. Callers hold mu.
func (w *StreamWriter) emit(s string) {
	if w.raw {
		s = escapeRawOutput(s)
	}
	_, _ = w.out.WriteString(s)
	_ = w.out.Flush()
}

func (w *StreamWriter) flushBatch() {
	if w.batch.Len() == 0 {
		return
	}
	w.emit(w.batch.String())
	w.batch.Reset()
	w.batchPieces = 0
	w.lastFlush = time.Now()
}

func (w *StreamWriter) backgroundFlusher(done <-chan struct{}) {
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.mu.Lock()
			if time.Since(w.lastFlush) >= w.flushInterval {
				w.flushBatch()
			}
			w.mu.Unlock()
		}
	}
}

// escapeRawOutput makes control characters visible.
func escapeRawOutput(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(escapeRawOutputRune(r))
	}
	return b.String()
}

func escapeRawOutputRune(r rune) string {
	switch r {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\\':
		return `\\`
	default:
		if strconv.IsPrint(r) {
			return string(r)
		}
		return fmt.Sprintf(`\u%04x`, r)
	}
}

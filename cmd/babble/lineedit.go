package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// lineHistory holds the lines entered in an interactive session.
type lineHistory struct {
	entries []string
}

func (h *lineHistory) add(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == s {
		return
	}
	h.entries = append(h.entries, s)
}

// lineEditor is the terminal-independent half of interactive line editing:
// it consumes raw key bytes and redraws the line on out.
type lineEditor struct {
	prompt string
	out    io.Writer
	hist   *lineHistory

	line   []byte
	cursor int

	escState int
	escBuf   strings.Builder

	histPos      int
	histBrowsing bool
	histDraft    string
}

func newLineEditor(prompt string, out io.Writer, hist *lineHistory) *lineEditor {
	return &lineEditor{
		prompt:  prompt,
		out:     out,
		hist:    hist,
		line:    make([]byte, 0, 256),
		histPos: len(hist.entries),
	}
}

// feed processes one key byte. It reports done once the line is submitted,
// and returns io.EOF when the user interrupts or ends input.
func (e *lineEditor) feed(b byte) (done bool, err error) {
	switch e.escState {
	case 1:
		e.escState = 0
		switch b {
		case '[':
			e.escState = 2
			e.escBuf.Reset()
		case 'b', 'B':
			e.moveWordLeft()
		case 'f', 'F':
			e.moveWordRight()
		case 127:
			e.deleteWordBack()
		}
		return false, nil
	case 2:
		e.escBuf.WriteByte(b)
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			e.handleCSI(e.escBuf.String())
			e.escState = 0
		}
		return false, nil
	}

	switch b {
	case 27: // ESC
		e.escState = 1
	case '\r', '\n':
		fmt.Fprint(e.out, "\r\n")
		e.hist.add(string(e.line))
		return true, nil
	case 3: // Ctrl+C
		fmt.Fprint(e.out, "^C\r\n")
		return false, io.EOF
	case 4: // Ctrl+D
		if len(e.line) == 0 {
			fmt.Fprint(e.out, "\r\n")
			return false, io.EOF
		}
	case 127, 8: // backspace
		if e.cursor > 0 {
			e.line = append(e.line[:e.cursor-1], e.line[e.cursor:]...)
			e.cursor--
			e.redraw()
		}
	case 1: // Ctrl+A
		e.cursor = 0
		e.redraw()
	case 5: // Ctrl+E
		e.cursor = len(e.line)
		e.redraw()
	case 21: // Ctrl+U
		e.line = append(e.line[:0], e.line[e.cursor:]...)
		e.cursor = 0
		e.redraw()
	case 23: // Ctrl+W
		e.deleteWordBack()
	default:
		if b >= 32 {
			e.line = append(e.line, 0)
			copy(e.line[e.cursor+1:], e.line[e.cursor:])
			e.line[e.cursor] = b
			e.cursor++
			e.redraw()
		}
	}
	return false, nil
}

func (e *lineEditor) String() string {
	return string(e.line)
}

func (e *lineEditor) handleCSI(seq string) {
	switch seq {
	case "A":
		e.historyUp()
	case "B":
		e.historyDown()
	case "D":
		if e.cursor > 0 {
			e.cursor--
			e.redraw()
		}
	case "C":
		if e.cursor < len(e.line) {
			e.cursor++
			e.redraw()
		}
	case "H":
		e.cursor = 0
		e.redraw()
	case "F":
		e.cursor = len(e.line)
		e.redraw()
	case "3~":
		if e.cursor < len(e.line) {
			e.line = append(e.line[:e.cursor], e.line[e.cursor+1:]...)
			e.redraw()
		}
	case "1;5D", "5D":
		e.moveWordLeft()
	case "1;5C", "5C":
		e.moveWordRight()
	case "3;5~":
		e.deleteWordForward()
	}
}

func (e *lineEditor) historyUp() {
	entries := e.hist.entries
	if len(entries) == 0 {
		return
	}
	if !e.histBrowsing {
		e.histDraft = string(e.line)
		e.histBrowsing = true
		e.histPos = len(entries)
	}
	if e.histPos > 0 {
		e.histPos--
		e.setLine(entries[e.histPos])
	}
}

func (e *lineEditor) historyDown() {
	if !e.histBrowsing {
		return
	}
	entries := e.hist.entries
	if e.histPos < len(entries)-1 {
		e.histPos++
		e.setLine(entries[e.histPos])
		return
	}
	e.histPos = len(entries)
	e.histBrowsing = false
	e.setLine(e.histDraft)
}

func (e *lineEditor) setLine(s string) {
	e.line = append(e.line[:0], s...)
	e.cursor = len(e.line)
	e.redraw()
}

func (e *lineEditor) moveWordLeft() {
	for e.cursor > 0 && isBlank(e.line[e.cursor-1]) {
		e.cursor--
	}
	for e.cursor > 0 && !isBlank(e.line[e.cursor-1]) {
		e.cursor--
	}
	e.redraw()
}

func (e *lineEditor) moveWordRight() {
	for e.cursor < len(e.line) && isBlank(e.line[e.cursor]) {
		e.cursor++
	}
	for e.cursor < len(e.line) && !isBlank(e.line[e.cursor]) {
		e.cursor++
	}
	e.redraw()
}

func (e *lineEditor) deleteWordBack() {
	start := e.cursor
	for start > 0 && isBlank(e.line[start-1]) {
		start--
	}
	for start > 0 && !isBlank(e.line[start-1]) {
		start--
	}
	e.line = append(e.line[:start], e.line[e.cursor:]...)
	e.cursor = start
	e.redraw()
}

func (e *lineEditor) deleteWordForward() {
	end := e.cursor
	for end < len(e.line) && isBlank(e.line[end]) {
		end++
	}
	for end < len(e.line) && !isBlank(e.line[end]) {
		end++
	}
	e.line = append(e.line[:e.cursor], e.line[end:]...)
	e.redraw()
}

func (e *lineEditor) redraw() {
	fmt.Fprintf(e.out, "\r%s%s\x1b[K", e.prompt, e.line)
	if e.cursor < len(e.line) {
		fmt.Fprintf(e.out, "\r%s%s", e.prompt, e.line[:e.cursor])
	}
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

func trimTrailingNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// readPlainLine reads a line without terminal handling. A final line without
// a trailing newline is still returned.
func readPlainLine(stdin *bufio.Reader) (string, error) {
	s, err := stdin.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	return trimTrailingNewline(s), nil
}

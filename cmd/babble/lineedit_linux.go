//go:build linux

package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// readInteractiveLine reads one line from stdin. On a terminal it switches to
// raw mode for cursor movement and history; otherwise it reads plainly.
func readInteractiveLine(prompt string, hist *lineHistory, stdin *bufio.Reader) (string, error) {
	if !stdinIsTTY() {
		return readPlainLine(stdin)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return "", err
	}
	raw := *oldState
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, unix.TCSETS, oldState)
	}()

	fmt.Print(prompt)
	ed := newLineEditor(prompt, os.Stdout, hist)
	var buf [16]byte
	for {
		n, err := os.Stdin.Read(buf[:])
		if err != nil {
			return "", err
		}
		for _, b := range buf[:n] {
			done, err := ed.feed(b)
			if err != nil {
				return "", err
			}
			if done {
				return ed.String(), nil
			}
		}
	}
}

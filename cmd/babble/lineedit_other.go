//go:build !linux

package main

import (
	"bufio"
	"fmt"
)

func readInteractiveLine(prompt string, _ *lineHistory, stdin *bufio.Reader) (string, error) {
	if stdinIsTTY() {
		fmt.Print(prompt)
	}
	return readPlainLine(stdin)
}

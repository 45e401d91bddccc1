//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

var (
	reloadSignal    os.Signal = unix.SIGHUP
	terminateSignal os.Signal = unix.SIGTERM
)

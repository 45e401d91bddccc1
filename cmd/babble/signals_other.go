//go:build !unix

package main

import "os"

var (
	reloadSignal    os.Signal
	terminateSignal os.Signal = os.Kill
)

//go:build !windows

package main

import (
	"os"
	"syscall"
)

var triggerSignals = []os.Signal{syscall.SIGUSR1}

//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// isatty reports whether f is a terminal, so ANSI colors are safe to use.
func isatty(f *os.File) bool {
	_, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

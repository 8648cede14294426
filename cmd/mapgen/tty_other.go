//go:build !unix

package main

import "os"

func isatty(*os.File) bool { return false }

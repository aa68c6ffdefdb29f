// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output helpers for the ProofStack CLI:
// status lines with severity markers and a spinner for long-running
// remote prover calls. ANSI color is suppressed when the stream is not
// a terminal, so output stays clean in pipes and CI logs.
package ux

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiCyan   = "\033[36m"
)

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func colorize(color, s string) string {
	if !stdoutIsTerminal() {
		return s
	}
	return color + s + ansiReset
}

// Successf prints a success status line to stdout.
func Successf(format string, args ...any) {
	fmt.Printf("%s %s\n", colorize(ansiGreen, "✓"), fmt.Sprintf(format, args...))
}

// Infof prints an informational status line to stdout.
func Infof(format string, args ...any) {
	fmt.Printf("%s %s\n", colorize(ansiCyan, "•"), fmt.Sprintf(format, args...))
}

// Warnf prints a warning status line to stdout.
func Warnf(format string, args ...any) {
	fmt.Printf("%s %s\n", colorize(ansiYellow, "!"), fmt.Sprintf(format, args...))
}

// Errorf prints an error status line to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", colorize(ansiRed, "✗"), fmt.Sprintf(format, args...))
}

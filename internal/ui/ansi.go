package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray    = "\033[90m"
	fgGreen   = "\033[32m"
	fgYellow  = "\033[33m"
	fgBlue    = "\033[34m"
	fgMagenta = "\033[35m"
	fgRed     = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// Dim is the faint style used for indexes and hints.
var Dim = dim

// ColorMode says when C emits escape codes.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // only when the output is a terminal and NO_COLOR is unset
	ColorAlways                  // always
	ColorNever                   // never
)

var (
	colorMode           = ColorAuto
	out       io.Writer = os.Stdout
)

// SetColorMode overrides terminal detection.
func SetColorMode(m ColorMode) { colorMode = m }

// Setup selects the theme and the writer whose terminal-ness decides
// automatic coloring. The CLI calls it once per invocation.
func Setup(w io.Writer, theme string) {
	out = w
	SetTheme(theme)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func colorOn() bool {
	switch colorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return os.Getenv("NO_COLOR") == "" && isTerminal(out)
}

// C wraps s in color. Plain themes, empty colors and non-terminal output
// pass s through untouched.
func C(color, s string) string {
	if color == "" || current.Plain || !colorOn() {
		return s
	}
	return color + s + reset
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(current.Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(current.Error, symCross+" "+msg)) }

package cli

import (
	"io"

	"github.com/fatih/color"
)

// printer writes user-facing lines. Colour follows fatih/color's own
// terminal and NO_COLOR detection.
type printer struct {
	out io.Writer
	err io.Writer
}

var (
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen, color.Bold)
	hintColor    = color.New(color.Faint)
)

func (p printer) Error(msg string) {
	_, _ = errorColor.Fprintln(p.err, msg)
}

func (p printer) Success(msg string) {
	_, _ = successColor.Fprintln(p.out, msg)
}

func (p printer) Hint(msg string) {
	_, _ = hintColor.Fprintln(p.out, msg)
}

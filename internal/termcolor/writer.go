package termcolor

import (
	"io"
	"os"
)

// Writer wraps an io.Writer and conditionally applies ANSI color codes
// based on whether color output is enabled.
type Writer struct {
	io.Writer
	enabled bool
}

// NewWriter creates a Writer that resolves the given ColorMode against the
// file's terminal status. In ColorAuto mode, color is enabled only when f
// is a terminal and NO_COLOR is not set.
func NewWriter(f *os.File, mode ColorMode) *Writer {
	var enabled bool
	switch mode {
	case ColorAlways:
		enabled = true
	case ColorNever:
		enabled = false
	default:
		enabled = ShouldColorize(f)
	}
	return &Writer{Writer: f, enabled: enabled}
}

// Enabled reports whether color output is active.
func (w *Writer) Enabled() bool {
	return w.enabled
}

// wrap returns s surrounded by the given code, or s unchanged if color is
// disabled.
func (w *Writer) wrap(code, s string) string {
	if !w.enabled {
		return s
	}
	return code + s + reset
}

// Red returns s in red; the renderer uses it for runes absent from the query.
func (w *Writer) Red(s string) string { return w.wrap(red, s) }

// Green returns s in green; the renderer uses it for runes shared with the query.
func (w *Writer) Green(s string) string { return w.wrap(green, s) }

// Yellow returns s in yellow.
func (w *Writer) Yellow(s string) string { return w.wrap(yellow, s) }

// Magenta returns s in magenta.
func (w *Writer) Magenta(s string) string { return w.wrap(magenta, s) }

// Cyan returns s in cyan.
func (w *Writer) Cyan(s string) string { return w.wrap(cyan, s) }

// Bold returns s in bold.
func (w *Writer) Bold(s string) string { return w.wrap(bold, s) }

// Dim returns s dimmed; the renderer uses it for scores and resolved paths.
func (w *Writer) Dim(s string) string { return w.wrap(dim, s) }

// BoldCyan returns s in bold cyan.
func (w *Writer) BoldCyan(s string) string { return w.wrap(boldCyan, s) }

// Package debug holds helpers for producing readable dumps of tree shaped
// structures in debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// indentStep is prepended to a line once per depth level.
const indentStep = "  "

// TreeWriter accumulates an indented text rendering of a tree, one node per
// line. It is write-only, call String when the dump is complete.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

// Line writes one formatted node line at the given depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes a labeled text value, quoted so that embedded newlines
// and control characters stay on one line of the dump.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString(indentStep)
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

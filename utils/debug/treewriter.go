// Package debug renders indented text dumps used by inspection commands.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

// TreeWriter accumulates indented lines.
type TreeWriter struct {
	w strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.prefix(depth)
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label and quoted value, empty value is written as is.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.prefix(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Span writes label with half open [start:end) offsets and quoted text of
// the span in src. Out of range spans are written without text.
func (tw *TreeWriter) Span(depth int, label, src string, start, end int) {
	tw.prefix(depth)
	fmt.Fprintf(&tw.w, "%s [%d:%d]", label, start, end)
	if 0 <= start && start <= end && end <= len(src) && start != end {
		tw.w.WriteByte(' ')
		tw.w.WriteString(strconv.Quote(src[start:end]))
	}
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) prefix(depth int) {
	for range depth {
		tw.w.WriteString(indent)
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

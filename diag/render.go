package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// lineCol converts a byte offset into 1-based line/column numbers, plus
// the full text of the line it falls on.
func lineCol(src string, offset int) (line, col int, lineText string) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = offset - lineStart + 1

	end := strings.IndexByte(src[lineStart:], '\n')
	if end == -1 {
		lineText = src[lineStart:]
	} else {
		lineText = src[lineStart : lineStart+end]
	}
	return
}

// Render prints one labeled source excerpt per diagnostic to w: a
// "file:line:col: kind: message" header followed by the offending
// source line and a caret under the span. Color is used only when
// useColor is true; callers typically gate that on isatty.IsTerminal
// against the destination file descriptor.
func Render(w io.Writer, filename, src string, errs []*Error, useColor bool) {
	label := color.New(color.FgRed, color.Bold)
	label.EnableColor()
	if !useColor {
		label.DisableColor()
	}

	for _, e := range errs {
		if sp, ok := e.Span(); ok {
			line, col, lineText := lineCol(src, sp.Start)
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", filename, line, col, label.Sprint(e.Kind), e.Message)
			fmt.Fprintf(w, "  %s\n", lineText)
			width := sp.Len()
			if width < 1 {
				width = 1
			}
			if col-1 > len(lineText) {
				width = 1
			}
			fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", col-1), label.Sprint(strings.Repeat("^", width)))
		} else {
			fmt.Fprintf(w, "%s: %s: %s\n", filename, label.Sprint(e.Kind), e.Message)
		}
	}
}

// ColorEnabled reports whether fd supports ANSI color, used to decide
// whether Render should colorize its output.
func ColorEnabled(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

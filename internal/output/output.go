package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const defaultWidth = 80

// PrintRight rewrites the current line of w with text aligned to the right
// edge of the terminal.
func PrintRight(w io.Writer, text string) {
	// Get terminal width.
	width := defaultWidth
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = tw
		}
	}

	// Set padding.
	padding := width - len(text)
	if padding < 0 {
		padding = 0
	}

	fmt.Fprintf(w, "\r%s%s", spaces(padding), text)
}

func spaces(n int) string {
	return fmt.Sprintf("%*s", n, "")
}

func ProgressBar(percent int, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := (percent * width) / 100
	return fmt.Sprintf("%s%s",
		strings.Repeat("█", filled),
		strings.Repeat(" ", width-filled),
	)
}

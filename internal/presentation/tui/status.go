package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Status prints a one-line outcome, green on success and red on failure.
// Colours are dropped when w does not support them.
func Status(w io.Writer, ok bool, format string, args ...any) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	mark, color := "✔", "#22c55e"
	if !ok {
		mark, color = "✘", "#ef4444"
	}
	s := out.String(mark + " " + fmt.Sprintf(format, args...)).Foreground(p.Color(color))
	fmt.Fprintln(w, s)
}

package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// symbols gives each entity kind a glyph for previews.
var symbols = map[domain.Route]string{
	domain.RoutePolyanets: "🪐",
	domain.RouteComeths:   "☄️",
	domain.RouteSoloons:   "🌙",
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// GridMarkdown renders the grid as a markdown table, one column per grid column.
func GridMarkdown(grid domain.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Goal %dx%d\n\n", grid.Rows(), grid.Columns())

	b.WriteString("|   |")
	for c := 0; c < grid.Columns(); c++ {
		fmt.Fprintf(&b, " %d |", c)
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", grid.Columns()))
	b.WriteString("\n")

	for r, row := range grid {
		fmt.Fprintf(&b, "| %d |", r)
		for _, token := range row {
			fmt.Fprintf(&b, " %s |", glyph(token))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// GridText renders the grid as plain aligned tokens.
func GridText(grid domain.Grid) string {
	width := 0
	for _, row := range grid {
		for _, token := range row {
			width = max(width, len(token))
		}
	}
	var b strings.Builder
	for _, row := range grid {
		for c, token := range row {
			if c > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%-*s", width, token)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// PrintGrid writes a preview of grid: styled markdown on a terminal, plain text elsewhere.
func PrintGrid(w io.Writer, grid domain.Grid) error {
	if !IsTerminal(w) {
		_, err := io.WriteString(w, GridText(grid))
		return err
	}
	out, err := NewRenderer()(GridMarkdown(grid))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// PrintReport writes a one-line summary of a synchronization pass.
func PrintReport(w io.Writer, r domain.Report) {
	fmt.Fprintf(w, "run %s: %d cells, delivered=%d failed=%d empty=%d unrecognized=%d in %s\n",
		r.RunID, r.Cells(), r.Delivered, r.Failed, r.Empty, r.Unrecognized, r.Duration.Round(time.Millisecond))
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  failed: %s\n", f)
	}
}

func glyph(token string) string {
	intent, err := domain.ParseToken(token)
	if err != nil {
		return "?"
	}
	switch v := intent.(type) {
	case domain.SimpleEntity:
		return symbols[v.Route]
	case domain.AttributedEntity:
		return symbols[v.Route] + " " + v.Value
	default:
		return "·"
	}
}

package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the megaverse banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _ __ ___   ___  __ _  __ ___   _____ _ __ ___  ___ ", "#818cf8"},
		{" | '_ ` _ \\ / _ \\/ _` |/ _` \\ \\ / / _ \\ '__/ __|/ _ \\", "#a78bfa"},
		{" | | | | | |  __/ (_| | (_| |\\ V /  __/ |  \\__ \\  __/", "#c084fc"},
		{" |_| |_| |_|\\___|\\__, |\\__,_| \\_/ \\___|_|  |___/\\___|", "#e879f9"},
		{"                 |___/                               ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  "+version).Faint())
	fmt.Fprintln(w)
}

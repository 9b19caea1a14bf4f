// Package cli provides terminal rendering of bead patterns.
package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/jmylchreest/beadgrid/internal/palette"
	"github.com/jmylchreest/beadgrid/internal/pipeline"
)

// renderTerminalPreview draws the bead grid as coloured blocks using 24-bit
// ANSI escapes. Each cell is two spaces wide to approximate a square bead.
// Grids wider than the terminal are cropped rather than wrapped.
func renderTerminalPreview(w io.Writer, result *pipeline.Result, store *palette.Store) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	maxCells := result.Width
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols/2 < maxCells {
		maxCells = cols / 2
	}
	if maxCells < 1 {
		return
	}

	for _, row := range result.Grid {
		for x, id := range row {
			if x >= maxCells {
				break
			}
			idx, ok := store.Index(id)
			if !ok {
				fmt.Fprint(w, "  ")
				continue
			}
			rgb := store.Entry(idx).Colour()
			fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm  \x1b[0m", rgb.R, rgb.G, rgb.B)
		}
		fmt.Fprintln(w)
	}
}

// renderSwatch draws a single colour block followed by a label.
func renderSwatch(w io.Writer, rgb [3]uint8, label string) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm    \x1b[0m %s\n", rgb[0], rgb[1], rgb[2], label)
		return
	}
	fmt.Fprintf(w, "%s\n", label)
}

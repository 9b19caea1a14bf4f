// Beadgrid - convert images into fixed-palette bead patterns
//
// Beadgrid downsamples raster images onto a bead grid and maps every cell
// onto a closed palette of physically available bead colours.
package main

import (
	"os"

	"github.com/jmylchreest/beadgrid/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

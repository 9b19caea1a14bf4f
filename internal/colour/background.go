// Package colour provides background colour estimation and masking.
package colour

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultBackgroundTolerance is the Lab-space Delta E below which a cell is
// classified as background in the default conversion path.
const DefaultBackgroundTolerance = 25.0

// Mask is a boolean grid with the same dimensions as the image under
// analysis. True marks a background cell.
type Mask struct {
	Width  int
	Height int
	Bits   []bool // row-major, len = Width*Height
}

// At reports whether the cell at (x, y) is background.
func (m *Mask) At(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// ForegroundCount returns the number of cells not classified as background.
func (m *Mask) ForegroundCount() int {
	count := 0
	for _, bg := range m.Bits {
		if !bg {
			count++
		}
	}
	return count
}

// DetectBackground estimates the background colour of an image by sampling a
// border band from all four edges and taking the per-channel median of the
// sampled pixels.
//
// The band width is max(2, min(width, height)/20). The median, rather than
// the mean, keeps the estimate robust against foreground content bleeding
// into the border. Corner pixels are sampled by more than one edge, matching
// the border-concatenation behaviour the mask tolerance was tuned against.
//
// A perfectly uniform image is its own border, so it classifies entirely as
// background. That is an intended consequence of border sampling.
func DetectBackground(img *image.NRGBA) RGB {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	band := min(w, h) / 20
	if band < 2 {
		band = 2
	}
	// Degenerate 1- or 2-cell grids: the band covers the whole image.
	band = min(band, w, h)
	if band > w {
		band = w
	}
	if band > h {
		band = h
	}

	var rs, gs, bs []float64
	sample := func(x, y int) {
		i := y*img.Stride + x*4
		rs = append(rs, float64(img.Pix[i]))
		gs = append(gs, float64(img.Pix[i+1]))
		bs = append(bs, float64(img.Pix[i+2]))
	}

	// Top and bottom bands span the full width; left and right bands span the
	// full height. Overlapping corners are counted once per band.
	for y := 0; y < band; y++ {
		for x := 0; x < w; x++ {
			sample(x, y)
		}
	}
	for y := max(h-band, 0); y < h; y++ {
		for x := 0; x < w; x++ {
			sample(x, y)
		}
	}
	for x := 0; x < band; x++ {
		for y := 0; y < h; y++ {
			sample(x, y)
		}
	}
	for x := max(w-band, 0); x < w; x++ {
		for y := 0; y < h; y++ {
			sample(x, y)
		}
	}

	return RGB{
		R: channelMedian(rs),
		G: channelMedian(gs),
		B: channelMedian(bs),
	}
}

// channelMedian computes the median of one channel's border samples.
func channelMedian(values []float64) uint8 {
	sort.Float64s(values)
	m := stat.Quantile(0.5, stat.LinInterp, values, nil)
	if m < 0 {
		m = 0
	}
	if m > 255 {
		m = 255
	}
	return uint8(m + 0.5)
}

// BackgroundMask classifies every cell of an image against a background
// estimate. A cell is background when its Lab distance to the estimate is
// below tolerance.
func BackgroundMask(img *image.NRGBA, background RGB, tolerance float64) *Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	bgLab := RGBToLab(background)
	pixels := ImageToLab(img)

	bits := make([]bool, len(pixels))
	for i, p := range pixels {
		bits[i] = p.Distance(bgLab) < tolerance
	}

	return &Mask{Width: w, Height: h, Bits: bits}
}

// Package pipeline sequences colour-space conversion, background detection,
// colour reduction and palette mapping into the full image-to-grid
// conversion.
package pipeline

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"math"
	"math/rand"
	"runtime/debug"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/beadgrid/internal/colour"
	beadimage "github.com/jmylchreest/beadgrid/internal/image"
	"github.com/jmylchreest/beadgrid/internal/palette"
	"github.com/jmylchreest/beadgrid/internal/seed"
)

const (
	// DefaultGridSize is the default target grid width in cells.
	DefaultGridSize = 64

	// DefaultMaxColors is the default bead colour budget, background
	// included.
	DefaultMaxColors = 15

	// maxGridDimension caps both target dimensions.
	maxGridDimension = 256

	// previewTarget is the upper bound the larger preview dimension
	// approaches when upscaling with nearest-neighbour interpolation.
	previewTarget = 512

	// alphaOpaqueThreshold is the alpha value below which a pixel counts as
	// meaningfully transparent, triggering compositing onto white.
	alphaOpaqueThreshold = 250
)

// Options control a single conversion.
type Options struct {
	// GridSize is the target grid width in cells (>= 1).
	GridSize int

	// MaxColors is the maximum number of distinct bead colours in the
	// result, background included (>= 2).
	MaxColors int

	// Seed pins the random seed used for subsampling and clustering. When
	// nil, a seed is derived from the image content, so identical inputs
	// still produce bit-identical grids.
	Seed *int64
}

// DefaultOptions returns the default conversion options.
func DefaultOptions() Options {
	return Options{
		GridSize:  DefaultGridSize,
		MaxColors: DefaultMaxColors,
	}
}

func (o Options) validate() error {
	if o.GridSize < 1 {
		return inputErrorf("grid size must be at least 1, got %d", o.GridSize)
	}
	if o.MaxColors < 2 {
		return inputErrorf("max colours must be at least 2, got %d", o.MaxColors)
	}
	return nil
}

// Result is the output bundle of a conversion.
type Result struct {
	// Grid is the height x width matrix of palette ids, row-major. Every
	// cell references a valid id in the palette store.
	Grid [][]string `json:"grid_data"`

	// UsedPalette lists the distinct palette entries referenced anywhere in
	// Grid, ordered by their position in the palette store.
	UsedPalette []palette.Entry `json:"used_palette"`

	// Preview is the quantized pattern rendered with palette colours,
	// upscaled for visual confirmation.
	Preview image.Image `json:"-"`

	// Width and Height are the grid dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Converter runs conversions against a fixed palette store. A Converter is
// stateless across invocations and safe for concurrent use; the store is the
// only shared resource and is read-only.
type Converter struct {
	store   *palette.Store
	mapper  *colour.Mapper
	reducer *colour.Reducer
	logger  hclog.Logger
}

// New creates a Converter over the given palette store.
func New(store *palette.Store, logger hclog.Logger) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Converter{
		store:   store,
		mapper:  colour.NewMapper(store.Colours()),
		reducer: colour.NewReducer(),
		logger:  logger.Named("pipeline"),
	}
}

// Store returns the palette store the Converter maps onto.
func (c *Converter) Store() *palette.Store {
	return c.store
}

// ConvertBytes decodes an image byte stream and converts it. Empty or
// undecodable data is an InputError, reported before pipeline execution.
func (c *Converter) ConvertBytes(data []byte, opts Options) (*Result, error) {
	img, err := beadimage.DecodeBytes(data)
	if err != nil {
		return nil, &InputError{Err: err}
	}
	return c.Convert(img, opts)
}

// Convert runs the full conversion pipeline on a decoded image.
//
// The call is synchronous and CPU-bound; it runs to either a result or an
// error with no internal suspension points. Cancellation and timeouts are a
// caller concern.
func (c *Converter) Convert(img image.Image, opts Options) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("conversion aborted by unexpected failure",
				"panic", r,
				"stack", string(debug.Stack()))
			result = nil
			err = &ProcessingError{Stage: "pipeline", Err: fmt.Errorf("unexpected failure: %v", r)}
		}
	}()

	if err := opts.validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, inputErrorf("image cannot be nil")
	}

	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, inputErrorf("invalid image dimensions: %dx%d", srcW, srcH)
	}

	rng, seedValue, err := c.newRNG(img, opts)
	if err != nil {
		return nil, &ProcessingError{Stage: "seed derivation", Err: err}
	}

	c.logger.Debug("starting conversion",
		"source_width", srcW,
		"source_height", srcH,
		"grid_size", opts.GridSize,
		"max_colours", opts.MaxColors,
		"seed", seedValue)

	// Resolve transparency before any colour analysis.
	flattened := resolveAlpha(img)

	targetW, targetH := targetSize(srcW, srcH, opts.GridSize)

	// Box filtering averages every source pixel into its destination cell.
	// Point sampling or ringing kernels would inject noise that corrupts the
	// clustering step.
	small := imaging.Resize(flattened, targetW, targetH, imaging.Box)

	background := colour.DetectBackground(small)
	mask := colour.BackgroundMask(small, background, colour.DefaultBackgroundTolerance)
	bgIndex := c.mapper.Nearest(background)

	c.logger.Debug("background detected",
		"estimate", background.Hex(),
		"palette_id", c.store.Entry(bgIndex).ID,
		"foreground_cells", mask.ForegroundCount())

	indices := c.assignCells(small, mask, bgIndex, opts.MaxColors, rng)

	return c.assemble(indices, targetW, targetH), nil
}

// newRNG derives the conversion's random source. A caller-pinned seed wins;
// otherwise the seed is derived from image content.
func (c *Converter) newRNG(img image.Image, opts Options) (*rand.Rand, int64, error) {
	cfg := seed.Config{Mode: seed.ModeContent}
	if opts.Seed != nil {
		cfg = seed.Config{Mode: seed.ModeManual, Value: opts.Seed}
	}
	value, err := seed.Calculate(img, cfg)
	if err != nil {
		return nil, 0, err
	}
	// #nosec G404 -- reproducible clustering, not security
	return rand.New(rand.NewSource(value)), value, nil
}

// targetSize computes the downsample target: width is the requested grid
// size, height preserves the source aspect ratio, both clamped to
// [1, maxGridDimension].
func targetSize(srcW, srcH, gridSize int) (int, int) {
	targetW := clampDimension(gridSize)
	targetH := clampDimension(int(math.Round(float64(gridSize) * float64(srcH) / float64(srcW))))
	return targetW, targetH
}

func clampDimension(v int) int {
	if v < 1 {
		return 1
	}
	if v > maxGridDimension {
		return maxGridDimension
	}
	return v
}

// resolveAlpha normalizes the image to opaque NRGBA. Images with any
// meaningfully transparent pixel are composited onto an opaque white canvas;
// otherwise the alpha channel is dropped outright.
func resolveAlpha(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)

	transparent := false
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] < alphaOpaqueThreshold {
			transparent = true
			break
		}
	}

	if !transparent {
		for i := 3; i < len(out.Pix); i += 4 {
			out.Pix[i] = 255
		}
		return out
	}

	for i := 0; i < len(out.Pix); i += 4 {
		a := uint32(out.Pix[i+3])
		out.Pix[i] = uint8((uint32(out.Pix[i])*a + 255*(255-a) + 127) / 255)
		out.Pix[i+1] = uint8((uint32(out.Pix[i+1])*a + 255*(255-a) + 127) / 255)
		out.Pix[i+2] = uint8((uint32(out.Pix[i+2])*a + 255*(255-a) + 127) / 255)
		out.Pix[i+3] = 255
	}
	return out
}

// assignCells produces the per-cell palette index grid, row-major.
func (c *Converter) assignCells(small *image.NRGBA, mask *colour.Mask, bgIndex, maxColors int, rng *rand.Rand) []int {
	w, h := mask.Width, mask.Height
	indices := make([]int, w*h)

	foreground := make([]colour.RGB, 0, mask.ForegroundCount())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.At(x, y) {
				continue
			}
			i := y*small.Stride + x*4
			foreground = append(foreground, colour.RGB{
				R: small.Pix[i],
				G: small.Pix[i+1],
				B: small.Pix[i+2],
			})
		}
	}

	if len(foreground) == 0 {
		for i := range indices {
			indices[i] = bgIndex
		}
		return indices
	}

	// One colour slot is always reserved for the background, so the
	// foreground budget is maxColors-1.
	reps := c.reducer.Reduce(foreground, max(2, maxColors-1), rng)
	repToPalette := c.mapper.NearestAll(reps)
	repLab := colour.ToLabSlice(reps)

	c.logger.Debug("foreground reduced",
		"pixels", len(foreground),
		"representatives", len(reps))

	// K-means only clustered a (sub)sample; every foreground cell is
	// reassigned to its nearest representative so the full population maps
	// consistently.
	cellLab := colour.ImageToLab(small)
	for i := range indices {
		if mask.Bits[i] {
			indices[i] = bgIndex
			continue
		}
		indices[i] = repToPalette[colour.NearestLab(cellLab[i], repLab)]
	}
	return indices
}

// assemble builds the output bundle: the id grid, the preview raster and the
// used-palette subset.
func (c *Converter) assemble(indices []int, width, height int) *Result {
	grid := make([][]string, height)
	for y := 0; y < height; y++ {
		row := make([]string, width)
		for x := 0; x < width; x++ {
			row[x] = c.store.Entry(indices[y*width+x]).ID
		}
		grid[y] = row
	}

	preview := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rgb := c.store.Entry(indices[y*width+x]).Colour()
			preview.SetNRGBA(x, y, stdcolor.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255})
		}
	}

	var previewImg image.Image = preview
	if scale := previewTarget / max(width, height); scale > 1 {
		previewImg = imaging.Resize(preview, width*scale, height*scale, imaging.NearestNeighbor)
	}

	return &Result{
		Grid:        grid,
		UsedPalette: c.store.Used(indices),
		Preview:     previewImg,
		Width:       width,
		Height:      height,
	}
}

package colour

import (
	"image"
	"testing"
)

// fillNRGBA creates a w x h image filled with a single colour.
func fillNRGBA(w, h int, c RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
	}
	return img
}

// setRect paints a rectangle onto an image.
func setRect(img *image.NRGBA, x0, y0, x1, y1 int, c RGB) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := y*img.Stride + x*4
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 255
		}
	}
}

func TestDetectBackgroundUniform(t *testing.T) {
	grey := RGB{R: 51, G: 102, B: 153}
	img := fillNRGBA(20, 20, grey)

	if got := DetectBackground(img); got != grey {
		t.Errorf("DetectBackground(uniform) = %v, want %v", got, grey)
	}
}

func TestDetectBackgroundIgnoresCentre(t *testing.T) {
	blue := RGB{R: 30, G: 60, B: 200}
	red := RGB{R: 220, G: 30, B: 30}

	// Blue canvas with a red centre blob well inside the border band.
	img := fillNRGBA(40, 40, blue)
	setRect(img, 10, 10, 30, 30, red)

	if got := DetectBackground(img); got != blue {
		t.Errorf("DetectBackground = %v, want border colour %v", got, blue)
	}
}

func TestDetectBackgroundMedianRobustness(t *testing.T) {
	white := RGB{R: 255, G: 255, B: 255}
	black := RGB{R: 0, G: 0, B: 0}

	// A thin foreground streak crossing the border must not drag the
	// estimate away from the dominant border colour. A mean would land
	// mid-grey; the median stays white.
	img := fillNRGBA(40, 40, white)
	setRect(img, 18, 0, 22, 40, black)

	if got := DetectBackground(img); got != white {
		t.Errorf("DetectBackground = %v, want %v", got, white)
	}
}

func TestDetectBackgroundTinyImage(t *testing.T) {
	// The band width is clamped to the image, so degenerate inputs are
	// still sampled without panicking.
	c := RGB{R: 10, G: 20, B: 30}
	for _, size := range []struct{ w, h int }{{1, 1}, {2, 1}, {1, 3}, {3, 3}} {
		img := fillNRGBA(size.w, size.h, c)
		if got := DetectBackground(img); got != c {
			t.Errorf("DetectBackground(%dx%d) = %v, want %v", size.w, size.h, got, c)
		}
	}
}

func TestBackgroundMask(t *testing.T) {
	blue := RGB{R: 30, G: 60, B: 200}
	red := RGB{R: 220, G: 30, B: 30}

	img := fillNRGBA(10, 8, blue)
	setRect(img, 4, 4, 6, 6, red)

	mask := BackgroundMask(img, blue, DefaultBackgroundTolerance)

	if mask.Width != 10 || mask.Height != 8 {
		t.Fatalf("mask dimensions = %dx%d, want 10x8", mask.Width, mask.Height)
	}
	if len(mask.Bits) != 80 {
		t.Fatalf("len(Bits) = %d, want 80", len(mask.Bits))
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			inBlob := x >= 4 && x < 6 && y >= 4 && y < 6
			if got := mask.At(x, y); got == inBlob {
				t.Errorf("mask.At(%d, %d) = %v, want %v", x, y, got, !inBlob)
			}
		}
	}

	if got := mask.ForegroundCount(); got != 4 {
		t.Errorf("ForegroundCount() = %d, want 4", got)
	}
}

func TestBackgroundMaskUniformImageIsAllBackground(t *testing.T) {
	c := RGB{R: 51, G: 102, B: 153}
	img := fillNRGBA(6, 6, c)

	mask := BackgroundMask(img, DetectBackground(img), DefaultBackgroundTolerance)
	if got := mask.ForegroundCount(); got != 0 {
		t.Errorf("ForegroundCount() = %d, want 0 for a uniform image", got)
	}
}

func TestBackgroundMaskToleranceBoundary(t *testing.T) {
	bg := RGB{R: 100, G: 100, B: 100}
	near := RGB{R: 110, G: 110, B: 110} // small Delta E, inside 25.0
	far := RGB{R: 250, G: 250, B: 250}  // large Delta E, outside 25.0

	img := fillNRGBA(4, 1, bg)
	setRect(img, 1, 0, 2, 1, near)
	setRect(img, 2, 0, 3, 1, far)

	mask := BackgroundMask(img, bg, DefaultBackgroundTolerance)
	if !mask.At(0, 0) {
		t.Error("exact background colour classified as foreground")
	}
	if !mask.At(1, 0) {
		t.Error("colour within tolerance classified as foreground")
	}
	if mask.At(2, 0) {
		t.Error("colour beyond tolerance classified as background")
	}
}

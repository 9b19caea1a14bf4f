// Package colour provides perceptual colour space conversion.
package colour

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab represents a colour in the CIE L*a*b* colour space (D65 illuminant).
// L is in [0, 100]; a and b are roughly in [-128, 127].
//
// Lab is the sole metric space for every "is this the closest colour"
// decision in the converter. Euclidean distance between two Lab values is a
// simplified Delta E and tracks perceived similarity far better than raw RGB
// distance does.
type Lab struct {
	L float64
	A float64
	B float64
}

// RGBToLab converts an 8-bit RGB colour to CIE Lab.
//
// go-colorful implements the standard sRGB gamma curve, the linear-RGB to XYZ
// matrix for the D65 white point and the CIE cube-root nonlinearity, but
// reports L (and a/b) at 1/100 scale. The result is rescaled here to the
// conventional L in [0, 100].
func RGBToLab(rgb RGB) Lab {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	l, a, b := c.Lab()
	return Lab{L: l * 100.0, A: a * 100.0, B: b * 100.0}
}

// Distance returns the Euclidean distance between two Lab colours.
// This approximates the CIE76 Delta E perceptual colour difference.
func (l Lab) Distance(other Lab) float64 {
	dl := l.L - other.L
	da := l.A - other.A
	db := l.B - other.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// ToLabSlice converts a slice of RGB colours to Lab.
func ToLabSlice(colours []RGB) []Lab {
	out := make([]Lab, len(colours))
	for i, c := range colours {
		out[i] = RGBToLab(c)
	}
	return out
}

// ImageToLab converts every pixel of an NRGBA image to Lab, row-major.
// Alpha is ignored; callers resolve transparency before conversion.
func ImageToLab(img *image.NRGBA) []Lab {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]Lab, 0, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			out = append(out, RGBToLab(RGB{
				R: row[x*4],
				G: row[x*4+1],
				B: row[x*4+2],
			}))
		}
	}
	return out
}

// NearestLab returns the index of the entry in table closest to target,
// by Lab Euclidean distance. Ties resolve to the first encountered index, so
// results are stable for a fixed table ordering. Returns -1 for an empty
// table.
func NearestLab(target Lab, table []Lab) int {
	nearest := -1
	minDist := math.MaxFloat64
	for i, entry := range table {
		if d := target.Distance(entry); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

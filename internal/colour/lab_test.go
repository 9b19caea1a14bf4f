package colour

import (
	"image"
	"math"
	"testing"
)

func labClose(a, b Lab, tolerance float64) bool {
	return math.Abs(a.L-b.L) <= tolerance &&
		math.Abs(a.A-b.A) <= tolerance &&
		math.Abs(a.B-b.B) <= tolerance
}

func TestRGBToLab(t *testing.T) {
	// Reference values from the standard sRGB -> D65 XYZ -> CIE Lab
	// conversion.
	tests := []struct {
		name string
		rgb  RGB
		want Lab
	}{
		{
			name: "white",
			rgb:  RGB{R: 255, G: 255, B: 255},
			want: Lab{L: 100, A: 0, B: 0},
		},
		{
			name: "black",
			rgb:  RGB{R: 0, G: 0, B: 0},
			want: Lab{L: 0, A: 0, B: 0},
		},
		{
			name: "red",
			rgb:  RGB{R: 255, G: 0, B: 0},
			want: Lab{L: 53.24, A: 80.09, B: 67.20},
		},
		{
			name: "green",
			rgb:  RGB{R: 0, G: 255, B: 0},
			want: Lab{L: 87.73, A: -86.18, B: 83.18},
		},
		{
			name: "blue",
			rgb:  RGB{R: 0, G: 0, B: 255},
			want: Lab{L: 32.30, A: 79.19, B: -107.86},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToLab(tt.rgb)
			if !labClose(got, tt.want, 0.5) {
				t.Errorf("RGBToLab(%v) = %+v, want %+v", tt.rgb, got, tt.want)
			}
		})
	}
}

func TestLabDistance(t *testing.T) {
	white := RGBToLab(RGB{R: 255, G: 255, B: 255})
	black := RGBToLab(RGB{R: 0, G: 0, B: 0})

	if d := white.Distance(white); d != 0 {
		t.Errorf("Distance to self = %f, want 0", d)
	}

	d := white.Distance(black)
	if math.Abs(d-100) > 0.5 {
		t.Errorf("Distance(white, black) = %f, want ~100", d)
	}

	if white.Distance(black) != black.Distance(white) {
		t.Error("Distance is not symmetric")
	}
}

func TestLabTracksPerceptualSimilarity(t *testing.T) {
	// Navy is perceptually closer to blue than to red, even though the RGB
	// distances are comparable.
	navy := RGBToLab(RGB{R: 0, G: 0, B: 128})
	blue := RGBToLab(RGB{R: 0, G: 0, B: 255})
	red := RGBToLab(RGB{R: 255, G: 0, B: 0})

	if navy.Distance(blue) >= navy.Distance(red) {
		t.Errorf("Distance(navy, blue) = %f should be less than Distance(navy, red) = %f",
			navy.Distance(blue), navy.Distance(red))
	}
}

func TestImageToLab(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	colours := []RGB{
		{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255},
		{R: 255, G: 255, B: 255}, {R: 0, G: 0, B: 0}, {R: 128, G: 128, B: 128},
	}
	for i, c := range colours {
		x, y := i%3, i/3
		img.Pix[y*img.Stride+x*4] = c.R
		img.Pix[y*img.Stride+x*4+1] = c.G
		img.Pix[y*img.Stride+x*4+2] = c.B
		img.Pix[y*img.Stride+x*4+3] = 255
	}

	got := ImageToLab(img)
	if len(got) != len(colours) {
		t.Fatalf("ImageToLab returned %d values, want %d", len(got), len(colours))
	}
	for i, c := range colours {
		if want := RGBToLab(c); !labClose(got[i], want, 1e-9) {
			t.Errorf("pixel %d: got %+v, want %+v", i, got[i], want)
		}
	}
}

func TestNearestLab(t *testing.T) {
	table := ToLabSlice([]RGB{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 255, G: 0, B: 0},
	})

	tests := []struct {
		name  string
		query RGB
		want  int
	}{
		{name: "near black", query: RGB{R: 10, G: 10, B: 10}, want: 0},
		{name: "near white", query: RGB{R: 250, G: 250, B: 250}, want: 1},
		{name: "near red", query: RGB{R: 230, G: 20, B: 20}, want: 2},
		{name: "exact match", query: RGB{R: 255, G: 0, B: 0}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestLab(RGBToLab(tt.query), table); got != tt.want {
				t.Errorf("NearestLab(%v) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}

	t.Run("empty table", func(t *testing.T) {
		if got := NearestLab(Lab{}, nil); got != -1 {
			t.Errorf("NearestLab on empty table = %d, want -1", got)
		}
	})

	t.Run("tie breaks to first index", func(t *testing.T) {
		duplicated := ToLabSlice([]RGB{
			{R: 100, G: 100, B: 100},
			{R: 100, G: 100, B: 100},
		})
		if got := NearestLab(RGBToLab(RGB{R: 100, G: 100, B: 100}), duplicated); got != 0 {
			t.Errorf("NearestLab with duplicate entries = %d, want 0", got)
		}
	})
}

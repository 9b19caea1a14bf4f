package colour

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func newTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestReduceEmptyInput(t *testing.T) {
	got := NewReducer().Reduce(nil, 5, newTestRNG(1))
	want := []RGB{{R: 255, G: 255, B: 255}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reduce(empty) = %v, want %v", got, want)
	}
}

func TestReduceSingleColour(t *testing.T) {
	c := RGB{R: 51, G: 102, B: 153}
	pixels := make([]RGB, 500)
	for i := range pixels {
		pixels[i] = c
	}

	got := NewReducer().Reduce(pixels, 8, newTestRNG(1))
	if len(got) != 1 {
		t.Fatalf("Reduce returned %d representatives, want 1", len(got))
	}
	if got[0] != c {
		t.Errorf("Reduce(single colour) = %v, want %v", got[0], c)
	}
}

func TestReduceFewerDistinctThanRequested(t *testing.T) {
	a := RGB{R: 10, G: 10, B: 10}
	b := RGB{R: 240, G: 240, B: 240}
	pixels := []RGB{a, b, a, b, a}

	got := NewReducer().Reduce(pixels, 8, newTestRNG(1))
	if len(got) != 2 {
		t.Fatalf("Reduce returned %d representatives, want 2", len(got))
	}
	// Distinct colours come back in first-encountered order.
	if got[0] != a || got[1] != b {
		t.Errorf("Reduce = %v, want [%v %v]", got, a, b)
	}
}

func TestReduceCollapseToMean(t *testing.T) {
	a := RGB{R: 100, G: 0, B: 0}
	b := RGB{R: 200, G: 0, B: 0}
	pixels := []RGB{a, b}

	got := NewReducer().Reduce(pixels, 1, newTestRNG(1))
	want := []RGB{{R: 150, G: 0, B: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reduce(k=1) = %v, want %v", got, want)
	}
}

func TestReduceSeparatesClusters(t *testing.T) {
	rng := newTestRNG(7)

	// Two tight clouds far apart in RGB space.
	var pixels []RGB
	jitter := func(base uint8) uint8 {
		return base + uint8(rng.Intn(5))
	}
	for i := 0; i < 300; i++ {
		pixels = append(pixels, RGB{R: jitter(10), G: jitter(10), B: jitter(10)})
		pixels = append(pixels, RGB{R: jitter(230), G: jitter(230), B: jitter(230)})
	}

	got := NewReducer().Reduce(pixels, 2, newTestRNG(42))
	if len(got) != 2 {
		t.Fatalf("Reduce returned %d representatives, want 2", len(got))
	}

	nearCloud := func(c RGB, base float64) bool {
		return math.Abs(float64(c.R)-base) < 10 &&
			math.Abs(float64(c.G)-base) < 10 &&
			math.Abs(float64(c.B)-base) < 10
	}

	foundDark, foundLight := false, false
	for _, c := range got {
		if nearCloud(c, 12) {
			foundDark = true
		}
		if nearCloud(c, 232) {
			foundLight = true
		}
	}
	if !foundDark || !foundLight {
		t.Errorf("Reduce = %v, want one centroid near each cloud", got)
	}
}

func TestReduceDeterministicForSeed(t *testing.T) {
	rng := newTestRNG(3)
	pixels := make([]RGB, 2000)
	for i := range pixels {
		pixels[i] = RGB{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
		}
	}

	first := NewReducer().Reduce(pixels, 6, newTestRNG(42))
	second := NewReducer().Reduce(pixels, 6, newTestRNG(42))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Reduce with identical seed differs:\n%v\n%v", first, second)
	}
}

func TestReduceSubsamplesLargeInputDeterministically(t *testing.T) {
	rng := newTestRNG(5)
	pixels := make([]RGB, 15000) // above the 10000 sample cap
	for i := range pixels {
		pixels[i] = RGB{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
		}
	}

	first := NewReducer().Reduce(pixels, 5, newTestRNG(99))
	second := NewReducer().Reduce(pixels, 5, newTestRNG(99))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("subsampled Reduce with identical seed differs:\n%v\n%v", first, second)
	}
	if len(first) == 0 || len(first) > 5 {
		t.Errorf("Reduce returned %d representatives, want 1..5", len(first))
	}
}

func TestReduceBoundsRepresentativeCount(t *testing.T) {
	rng := newTestRNG(11)
	pixels := make([]RGB, 4000)
	for i := range pixels {
		pixels[i] = RGB{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
		}
	}

	for _, k := range []int{2, 5, 14} {
		got := NewReducer().Reduce(pixels, k, newTestRNG(1))
		if len(got) > k {
			t.Errorf("Reduce(k=%d) returned %d representatives", k, len(got))
		}
	}
}

func TestSubsampleWithoutReplacement(t *testing.T) {
	pixels := make([]RGB, 100)
	for i := range pixels {
		pixels[i] = RGB{R: uint8(i), G: uint8(i), B: uint8(i)}
	}

	got := subsample(pixels, 40, newTestRNG(1))
	if len(got) != 40 {
		t.Fatalf("subsample returned %d elements, want 40", len(got))
	}

	seen := make(map[RGB]int)
	for _, c := range got {
		seen[c]++
		if seen[c] > 1 {
			t.Fatalf("colour %v drawn more than once", c)
		}
	}
}

func TestMeanRGB(t *testing.T) {
	tests := []struct {
		name    string
		colours []RGB
		want    RGB
	}{
		{
			name:    "empty defaults to white",
			colours: nil,
			want:    RGB{R: 255, G: 255, B: 255},
		},
		{
			name:    "single colour",
			colours: []RGB{{R: 9, G: 18, B: 27}},
			want:    RGB{R: 9, G: 18, B: 27},
		},
		{
			name:    "average with rounding",
			colours: []RGB{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}},
			want:    RGB{R: 128, G: 128, B: 128},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeanRGB(tt.colours); got != tt.want {
				t.Errorf("MeanRGB() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Package colour provides bounded colour reduction using k-means clustering.
package colour

import (
	"math"
	"math/rand"
)

// Reducer clusters foreground pixel colours into a bounded number of
// representative colours using Lloyd's algorithm in RGB space.
//
// Clustering deliberately operates in RGB rather than Lab: perceptual
// nearest-neighbour search happens later, at the palette-mapping and
// per-pixel reassignment stages. The asymmetry matches the behaviour the
// mask tolerance and palette were tuned against.
//
// All randomness (subsampling and centroid initialisation) comes from an
// explicit *rand.Rand so a single seed makes the whole pipeline
// reproducible.
type Reducer struct {
	maxIterations int // per restart
	restarts      int // independent runs, best inertia wins
	sampleCap     int // pixel count above which a uniform subsample is drawn
}

// NewReducer creates a Reducer with default settings.
func NewReducer() *Reducer {
	return &Reducer{
		maxIterations: 100,
		restarts:      10,
		sampleCap:     10000,
	}
}

// Reduce clusters pixels into at most k representative colours.
//
// An empty input yields a single solid-white representative. When the pixel
// count exceeds the sample cap, a uniform subsample without replacement is
// clustered instead of the full set. The effective cluster count is
// min(k, distinct colours in the sample); if that is one or fewer, the
// single mean colour of the full pixel set is returned. Centroids are
// rounded to 8-bit channel depth.
func (r *Reducer) Reduce(pixels []RGB, k int, rng *rand.Rand) []RGB {
	if len(pixels) == 0 {
		return []RGB{{R: 255, G: 255, B: 255}}
	}

	sample := pixels
	if len(pixels) > r.sampleCap {
		sample = subsample(pixels, r.sampleCap, rng)
	}

	distinct := distinctColours(sample)
	if k >= len(distinct) {
		// Fewer distinct colours than requested clusters: each distinct
		// colour is its own representative.
		if len(distinct) <= 1 {
			return []RGB{MeanRGB(pixels)}
		}
		return distinct
	}
	if k <= 1 {
		return []RGB{MeanRGB(pixels)}
	}

	points := make([]point3D, len(sample))
	for i, c := range sample {
		points[i] = point3D{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
	}

	best := []point3D(nil)
	bestInertia := math.MaxFloat64
	for restart := 0; restart < r.restarts; restart++ {
		centroids, inertia := r.run(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			best = centroids
		}
	}

	out := make([]RGB, len(best))
	for i, c := range best {
		out[i] = RGB{
			R: clampChannel(c.R),
			G: clampChannel(c.G),
			B: clampChannel(c.B),
		}
	}
	return out
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// run performs one full Lloyd's iteration cycle and returns the centroids
// together with their inertia (sum of squared distances to assigned
// centroids).
func (r *Reducer) run(points []point3D, k int, rng *rand.Rand) ([]point3D, float64) {
	centroids := initialiseCentroids(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < r.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := nearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}
		if changed == 0 && iter > 0 {
			break
		}
		centroids = recalculateCentroids(points, assignments, k, rng)
	}

	inertia := 0.0
	for i, point := range points {
		d := point.distance(centroids[assignments[i]])
		inertia += d * d
	}
	return centroids, inertia
}

// initialiseCentroids seeds centroids using the k-means++ scheme: the first
// centroid is drawn uniformly, each subsequent one with probability
// proportional to its squared distance from the nearest existing centroid.
func initialiseCentroids(points []point3D, k int, rng *rand.Rand) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	distances := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				if d := point.distance(centroid); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist * minDist
			total += distances[i]
		}

		if total == 0 {
			// Every remaining point coincides with a centroid. Duplicate the
			// last centroid; the empty cluster is re-seeded during iteration.
			centroids = append(centroids, centroids[len(centroids)-1])
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(points) - 1
		for i, dist := range distances {
			cumulative += dist
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}

	return centroids
}

// nearestCentroid finds the index of the nearest centroid to a point.
func nearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, centroid := range centroids {
		if d := point.distance(centroid); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids recalculates centroid positions from assigned points.
// Empty clusters are re-seeded from a random point.
func recalculateCentroids(points []point3D, assignments []int, k int, rng *rand.Rand) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)
	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			centroids[i] = point3D{
				R: sums[i].R / float64(counts[i]),
				G: sums[i].G / float64(counts[i]),
				B: sums[i].B / float64(counts[i]),
			}
		} else {
			centroids[i] = points[rng.Intn(len(points))]
		}
	}
	return centroids
}

// subsample draws n elements uniformly without replacement.
func subsample(pixels []RGB, n int, rng *rand.Rand) []RGB {
	// Partial Fisher-Yates over a copy: only the first n positions are
	// shuffled.
	working := make([]RGB, len(pixels))
	copy(working, pixels)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(working)-i)
		working[i], working[j] = working[j], working[i]
	}
	return working[:n]
}

// distinctColours returns the unique colours in first-encountered order.
func distinctColours(pixels []RGB) []RGB {
	seen := make(map[RGB]struct{}, len(pixels))
	out := make([]RGB, 0, 64)
	for _, c := range pixels {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// clampChannel rounds a centroid channel to 8-bit depth.
func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

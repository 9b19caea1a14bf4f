// Package colour provides nearest-neighbour lookup against a fixed colour set.
package colour

// Mapper resolves arbitrary colours to their nearest entry in a fixed,
// ordered colour set, by Lab distance. The Lab table is precomputed once;
// lookups are brute-force linear scans, which is exact and entirely adequate
// at bead-palette sizes (tens to low hundreds of entries).
//
// A Mapper is immutable after construction and safe for concurrent use.
type Mapper struct {
	lab []Lab
}

// NewMapper builds a Mapper over the given ordered colour set.
func NewMapper(colours []RGB) *Mapper {
	return &Mapper{lab: ToLabSlice(colours)}
}

// Len returns the number of entries in the mapped colour set.
func (m *Mapper) Len() int {
	return len(m.lab)
}

// Nearest returns the index of the entry closest to the query colour.
// Ties resolve to the lowest index, so results are deterministic for a fixed
// entry ordering. Returns -1 if the Mapper is empty.
func (m *Mapper) Nearest(query RGB) int {
	return NearestLab(RGBToLab(query), m.lab)
}

// NearestAll maps every query colour to its nearest entry index.
func (m *Mapper) NearestAll(queries []RGB) []int {
	out := make([]int, len(queries))
	for i, q := range queries {
		out[i] = m.Nearest(q)
	}
	return out
}

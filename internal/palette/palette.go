// Package palette holds the closed, ordered set of physically available bead
// colours. A Store is loaded once at process startup and is read-only for the
// process lifetime; it is safe for any number of concurrent readers.
package palette

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	_ "embed"

	"github.com/jmylchreest/beadgrid/internal/colour"
)

//go:embed beads.json
var defaultPaletteJSON []byte

// Entry is a single bead colour: a stable opaque identifier plus its 8-bit
// RGB value. The JSON form matches the palette source format:
// {"id": "...", "rgb": [r, g, b]}.
type Entry struct {
	ID  string   `json:"id"`
	RGB [3]uint8 `json:"rgb"`
}

// Colour returns the entry's colour as a colour.RGB value.
func (e Entry) Colour() colour.RGB {
	return colour.RGB{R: e.RGB[0], G: e.RGB[1], B: e.RGB[2]}
}

// ConfigurationError indicates a missing or malformed palette source. It is
// raised at startup, never during a conversion request.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("palette configuration error (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Store is the immutable, ordered bead palette.
type Store struct {
	entries []Entry
	byID    map[string]int
}

// New builds a Store from an ordered list of entries. The list must be
// non-empty and ids must be non-empty and unique.
func New(entries []Entry) (*Store, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("palette must contain at least one entry")
	}
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("palette entry %d has an empty id", i)
		}
		if prev, ok := byID[e.ID]; ok {
			return nil, fmt.Errorf("duplicate palette id %q (entries %d and %d)", e.ID, prev, i)
		}
		byID[e.ID] = i
	}
	stored := make([]Entry, len(entries))
	copy(stored, entries)
	return &Store{entries: stored, byID: byID}, nil
}

// Parse builds a Store from JSON palette data.
func Parse(data []byte) (*Store, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse palette JSON: %w", err)
	}
	return New(entries)
}

// Load reads a palette from a JSON file. Any failure is a
// ConfigurationError: palette problems are fatal at startup, not surfaced
// per request.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path) // #nosec G304 - operator-specified palette path
	if err != nil {
		return nil, &ConfigurationError{Source: path, Err: err}
	}
	store, err := Parse(data)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Err: err}
	}
	return store, nil
}

var loadDefault = sync.OnceValue(func() *Store {
	store, err := Parse(defaultPaletteJSON)
	if err != nil {
		// The embedded palette ships with the binary; failing to parse it is
		// a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded bead palette is invalid: %v", err))
	}
	return store
})

// Default returns the Store built from the embedded bead palette.
func Default() *Store {
	return loadDefault()
}

// Len returns the number of entries in the palette.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entry returns the entry at the given palette index.
func (s *Store) Entry(i int) Entry {
	return s.entries[i]
}

// Entries returns all entries in palette order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Colours returns all entry colours in palette order.
func (s *Store) Colours() []colour.RGB {
	out := make([]colour.RGB, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Colour()
	}
	return out
}

// Index returns the palette index for an id.
func (s *Store) Index(id string) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// Used returns the distinct entries for the given palette indices, ordered
// by their position in the Store, without duplicates. Indices outside the
// palette are ignored.
func (s *Store) Used(indices []int) []Entry {
	seen := make(map[int]struct{}, len(indices))
	distinct := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(s.entries) {
			continue
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		distinct = append(distinct, i)
	}
	sort.Ints(distinct)

	out := make([]Entry, len(distinct))
	for j, i := range distinct {
		out[j] = s.entries[i]
	}
	return out
}

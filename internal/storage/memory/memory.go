// internal/storage/memory/memory.go
package memory

import (
	"cmp"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/seamarks/poisync/internal/config"
	"github.com/seamarks/poisync/pkg/core"
)

// Sync domains recorded per tile
const (
	DomainMarkers = "markers"
	DomainReviews = "reviews"
)

// TileSync records when a tile's batch was last applied
type TileSync struct {
	Tile      core.TileCoordinate `json:"tile"`
	Domain    string              `json:"domain"`
	AppliedAt time.Time           `json:"appliedAt"`
	Records   int                 `json:"records"`
}

type tileKey struct {
	tile   core.TileCoordinate
	domain string
}

// Backend stores markers and reviews in memory and exports them to JSON
type Backend struct {
	cfg config.MemoryConfig

	markers map[uint64]core.MarkerRecordCollection // keyed by marker ID
	reviews map[uint64]core.ReviewRecordCollection // keyed by review ID
	tiles   map[tileKey]TileSync

	now            func() time.Time
	create         func(path string) (io.WriteCloser, error)
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:     cfg,
		markers: make(map[uint64]core.MarkerRecordCollection),
		reviews: make(map[uint64]core.ReviewRecordCollection),
		tiles:   make(map[tileKey]TileSync),
		now:     time.Now,
		create:  createFile,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// ApplyMarkerUpdates stores live markers and removes tombstoned ones
func (b *Backend) ApplyMarkerUpdates(markers []core.MarkerRecordCollection, tile *core.TileCoordinate) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, m := range markers {
		if m.Marker.Deleted {
			delete(b.markers, m.Marker.ID)
			continue
		}
		b.markers[m.Marker.ID] = m
	}
	b.recordTile(tile, DomainMarkers, len(markers))
	return nil
}

// ApplyReviewUpdates stores live reviews and removes tombstoned ones
func (b *Backend) ApplyReviewUpdates(reviews []core.ReviewRecordCollection, tile *core.TileCoordinate) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range reviews {
		if r.Review.Deleted {
			delete(b.reviews, r.Review.ID)
			continue
		}
		b.reviews[r.Review.ID] = r
	}
	b.recordTile(tile, DomainReviews, len(reviews))
	return nil
}

func (b *Backend) recordTile(tile *core.TileCoordinate, domain string, records int) {
	if tile == nil {
		return
	}
	b.tiles[tileKey{*tile, domain}] = TileSync{
		Tile:      *tile,
		Domain:    domain,
		AppliedAt: b.now(),
		Records:   records,
	}
}

// Marker returns a stored marker by ID
func (b *Backend) Marker(id uint64) (core.MarkerRecordCollection, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.markers[id]
	return m, ok
}

// Review returns a stored review by ID
func (b *Backend) Review(id uint64) (core.ReviewRecordCollection, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.reviews[id]
	return r, ok
}

// Snapshot is a point-in-time copy of the stored data, ordered by ID and tile
type Snapshot struct {
	Markers   []core.MarkerRecordCollection `json:"markers"`
	Reviews   []core.ReviewRecordCollection `json:"reviews"`
	TileSyncs []TileSync                    `json:"tileSyncs"`
}

// Snapshot returns the current contents
func (b *Backend) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Snapshot{
		Markers:   make([]core.MarkerRecordCollection, 0, len(b.markers)),
		Reviews:   make([]core.ReviewRecordCollection, 0, len(b.reviews)),
		TileSyncs: make([]TileSync, 0, len(b.tiles)),
	}
	for _, m := range b.markers {
		s.Markers = append(s.Markers, m)
	}
	for _, r := range b.reviews {
		s.Reviews = append(s.Reviews, r)
	}
	for _, ts := range b.tiles {
		s.TileSyncs = append(s.TileSyncs, ts)
	}

	slices.SortFunc(s.Markers, func(a, b core.MarkerRecordCollection) int {
		return cmp.Compare(a.Marker.ID, b.Marker.ID)
	})
	slices.SortFunc(s.Reviews, func(a, b core.ReviewRecordCollection) int {
		return cmp.Compare(a.Review.ID, b.Review.ID)
	})
	slices.SortFunc(s.TileSyncs, func(a, b TileSync) int {
		if c := a.Tile.Compare(b.Tile); c != 0 {
			return c
		}
		return cmp.Compare(a.Domain, b.Domain)
	})
	return s
}

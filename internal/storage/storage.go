// internal/storage/storage.go
package storage

import "github.com/seamarks/poisync/pkg/core"

// Backend is the interface all storage implementations must satisfy.
//
// A tombstoned record deletes the stored record and everything it owns.
// A live record replaces the stored one, including all owned sections and lists.
// When tile is non-nil the backend records when that tile was last applied.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	ApplyMarkerUpdates(markers []core.MarkerRecordCollection, tile *core.TileCoordinate) error
	ApplyReviewUpdates(reviews []core.ReviewRecordCollection, tile *core.TileCoordinate) error
}

// Exportable is an optional interface for backends that can write a snapshot file.
type Exportable interface {
	Export() (string, error)
}

// pkg/core/tile.go
package core

import (
	"cmp"
	"fmt"
	"slices"
)

// TileCoordinate addresses one cell of the sync grid.
type TileCoordinate struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func (t TileCoordinate) String() string {
	return fmt.Sprintf("%d,%d", t.X, t.Y)
}

// Compare orders tiles lexicographically on (X, Y).
func (t TileCoordinate) Compare(o TileCoordinate) int {
	if c := cmp.Compare(t.X, o.X); c != 0 {
		return c
	}
	return cmp.Compare(t.Y, o.Y)
}

// Less reports whether t sorts before o.
func (t TileCoordinate) Less(o TileCoordinate) bool {
	return t.Compare(o) < 0
}

// TileSet is a set of tiles.
type TileSet map[TileCoordinate]struct{}

func (s TileSet) Add(t TileCoordinate) {
	s[t] = struct{}{}
}

func (s TileSet) Has(t TileCoordinate) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the members in (X, Y) order.
func (s TileSet) Sorted() []TileCoordinate {
	out := make([]TileCoordinate, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.SortFunc(out, TileCoordinate.Compare)
	return out
}

// UpdateType is the action required to bring a tile's data current.
type UpdateType uint8

const (
	UpdateNone UpdateType = iota
	UpdateDownload
	UpdateSync
	UpdateDelete
)

func (u UpdateType) String() string {
	switch u {
	case UpdateDownload:
		return "Download"
	case UpdateSync:
		return "Sync"
	case UpdateDelete:
		return "Delete"
	default:
		return "None"
	}
}

// TileUpdateOperation pairs the marker and review actions for one tile.
type TileUpdateOperation struct {
	Markers UpdateType `json:"markers"`
	Reviews UpdateType `json:"reviews"`
}

// ExportFileDescriptor describes one compressed tile export.
type ExportFileDescriptor struct {
	Tile TileCoordinate `json:"tile"`
	MD5  string         `json:"md5"`
	Size uint64         `json:"size"`
	URL  string         `json:"url"`
}

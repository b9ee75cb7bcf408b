package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileCoordinate_Compare(t *testing.T) {
	tests := []struct {
		a, b TileCoordinate
		want int
	}{
		{TileCoordinate{1, 2}, TileCoordinate{1, 2}, 0},
		{TileCoordinate{1, 2}, TileCoordinate{1, 3}, -1},
		{TileCoordinate{2, 0}, TileCoordinate{1, 9}, 1},
		{TileCoordinate{-5, 100}, TileCoordinate{0, -100}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"/"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, tt.want < 0, tt.a.Less(tt.b))
		})
	}
}

func TestTileSet(t *testing.T) {
	s := TileSet{}
	s.Add(TileCoordinate{5, 9})
	s.Add(TileCoordinate{0, 1})
	s.Add(TileCoordinate{5, 9})
	s.Add(TileCoordinate{0, -1})

	assert.Len(t, s, 3)
	assert.True(t, s.Has(TileCoordinate{0, 1}))
	assert.False(t, s.Has(TileCoordinate{9, 5}))
	assert.Equal(t, []TileCoordinate{{0, -1}, {0, 1}, {5, 9}}, s.Sorted())
	assert.Empty(t, TileSet{}.Sorted())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "3,-4", TileCoordinate{3, -4}.String())
	assert.Equal(t, "Download", UpdateDownload.String())
	assert.Equal(t, "None", UpdateType(42).String())
	assert.Equal(t, "Marina", MarkerTypeMarina.String())
	assert.Equal(t, "Unknown", MarkerType(200).String())
	assert.Equal(t, "ReviewUpdate", WebViewReviewUpdate.String())
}

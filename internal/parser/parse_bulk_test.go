package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

func exportEntry(x, y int32, md5 string, size any) map[string]any {
	return map[string]any{
		"tileX": x,
		"tileY": y,
		exportFormatKey: map[string]any{
			"md5Hash":  md5,
			"fileSize": size,
			"url":      "https://exports.example/" + md5,
		},
	}
}

func TestParseExportList(t *testing.T) {
	p := newTestParser()

	t.Run("valid manifest", func(t *testing.T) {
		data := toJSON(t, []any{
			exportEntry(1, 2, "aa11", 1024),
			exportEntry(3, 4, "bb22", "2048"),
		})
		exports, err := p.ParseExportList(data)
		require.NoError(t, err)
		assert.Equal(t, []core.ExportFileDescriptor{
			{Tile: core.TileCoordinate{X: 1, Y: 2}, MD5: "aa11", Size: 1024, URL: "https://exports.example/aa11"},
			{Tile: core.TileCoordinate{X: 3, Y: 4}, MD5: "bb22", Size: 2048, URL: "https://exports.example/bb22"},
		}, exports)
	})

	t.Run("missing file object", func(t *testing.T) {
		entry := exportEntry(1, 2, "aa11", 1024)
		delete(entry, exportFormatKey)
		exports, err := p.ParseExportList(toJSON(t, []any{entry}))
		assert.ErrorIs(t, err, jsonfield.ErrMissing)
		assert.Nil(t, exports)
	})

	t.Run("negative size", func(t *testing.T) {
		_, err := p.ParseExportList(toJSON(t, []any{exportEntry(1, 2, "aa11", -1)}))
		assert.ErrorIs(t, err, jsonfield.ErrWrongType)
	})

	t.Run("empty manifest", func(t *testing.T) {
		exports, err := p.ParseExportList([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, exports)
	})
}

func TestParseSyncStatus(t *testing.T) {
	p := newTestParser()

	status := func(x, y int32, markers, reviews any) map[string]any {
		return map[string]any{"tileX": x, "tileY": y, "poiUpdateType": markers, "reviewUpdateType": reviews}
	}

	t.Run("valid", func(t *testing.T) {
		data := toJSON(t, []any{
			status(1, 1, "None", "Sync"),
			status(1, 2, "Export", "Export"),
			status(2, 1, "Delete", "None"),
		})
		ops, err := p.ParseSyncStatus(data)
		require.NoError(t, err)
		assert.Equal(t, map[core.TileCoordinate]core.TileUpdateOperation{
			{X: 1, Y: 1}: {Markers: core.UpdateNone, Reviews: core.UpdateSync},
			{X: 1, Y: 2}: {Markers: core.UpdateDownload, Reviews: core.UpdateDownload},
			{X: 2, Y: 1}: {Markers: core.UpdateDelete, Reviews: core.UpdateNone},
		}, ops)
	})

	t.Run("later entry replaces earlier", func(t *testing.T) {
		data := toJSON(t, []any{
			status(5, 9, "None", "None"),
			status(5, 9, "Sync", "Delete"),
		})
		ops, err := p.ParseSyncStatus(data)
		require.NoError(t, err)
		require.Len(t, ops, 1)
		assert.Equal(t, core.TileUpdateOperation{Markers: core.UpdateSync, Reviews: core.UpdateDelete}, ops[core.TileCoordinate{X: 5, Y: 9}])
	})

	t.Run("one unknown update type fails the whole response", func(t *testing.T) {
		data := toJSON(t, []any{
			status(1, 1, "None", "Sync"),
			status(1, 2, "Sync", "Later"),
			status(2, 1, "Delete", "None"),
		})
		ops, err := p.ParseSyncStatus(data)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownValue)
		assert.Nil(t, ops)
	})

	t.Run("both fields reported", func(t *testing.T) {
		data := toJSON(t, []any{status(1, 1, 3, "Later")})
		_, err := p.ParseSyncStatus(data)
		require.Error(t, err)
		assert.ErrorIs(t, err, jsonfield.ErrWrongType)
		assert.ErrorIs(t, err, ErrUnknownValue)
	})

	t.Run("missing tile", func(t *testing.T) {
		_, err := p.ParseSyncStatus([]byte(`[{"tileX":1,"poiUpdateType":"None","reviewUpdateType":"None"}]`))
		assert.ErrorIs(t, err, jsonfield.ErrMissing)
	})
}

func TestParseTileList(t *testing.T) {
	p := newTestParser()

	t.Run("duplicates collapse", func(t *testing.T) {
		set, err := p.ParseTileList([]byte(`[{"tileX":5,"tileY":9},{"tileX":-1,"tileY":0},{"tileX":5,"tileY":9}]`))
		require.NoError(t, err)
		assert.Len(t, set, 2)
		assert.True(t, set.Has(core.TileCoordinate{X: 5, Y: 9}))
		assert.Equal(t, []core.TileCoordinate{{X: -1, Y: 0}, {X: 5, Y: 9}}, set.Sorted())
	})

	t.Run("bad element fails", func(t *testing.T) {
		set, err := p.ParseTileList([]byte(`[{"tileX":5,"tileY":9},{"tileX":"5","tileY":9}]`))
		assert.ErrorIs(t, err, jsonfield.ErrWrongType)
		assert.Nil(t, set)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := p.ParseTileList([]byte(`[{"tileX":2147483648,"tileY":0}]`))
		assert.ErrorIs(t, err, jsonfield.ErrWrongType)
	})
}

package parser

import (
	"errors"
	"fmt"

	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

// ParseExportList parses an export manifest. Every entry is required.
func (p *Parser) ParseExportList(data []byte) ([]core.ExportFileDescriptor, error) {
	elems, err := jsonfield.ParseArray(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing export list: %w", err)
	}
	exports, err := decodeList(p, "exports", elems, AllOrNothing, decodeExport)
	if err != nil {
		return nil, fmt.Errorf("error parsing export list: %w", err)
	}
	return exports, nil
}

// ParseSyncStatus parses per-tile update operations. A later entry for the
// same tile replaces an earlier one. The map is nil on error.
func (p *Parser) ParseSyncStatus(data []byte) (map[core.TileCoordinate]core.TileUpdateOperation, error) {
	elems, err := jsonfield.ParseArray(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing sync status: %w", err)
	}
	statuses, err := decodeList(p, "syncStatus", elems, AllOrNothing, p.decodeTileStatus)
	if err != nil {
		return nil, fmt.Errorf("error parsing sync status: %w", err)
	}
	ops := make(map[core.TileCoordinate]core.TileUpdateOperation, len(statuses))
	for _, s := range statuses {
		ops[s.tile] = s.op
	}
	return ops, nil
}

// ParseTileList parses a bounding-box tile list into a set.
func (p *Parser) ParseTileList(data []byte) (core.TileSet, error) {
	elems, err := jsonfield.ParseArray(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing tile list: %w", err)
	}
	tiles, err := decodeList(p, "tiles", elems, AllOrNothing, decodeTile)
	if err != nil {
		return nil, fmt.Errorf("error parsing tile list: %w", err)
	}
	set := make(core.TileSet, len(tiles))
	for _, t := range tiles {
		set.Add(t)
	}
	return set, nil
}

func decodeTile(obj jsonfield.Object) (core.TileCoordinate, error) {
	x, err := obj.Int32("tileX")
	if err != nil {
		return core.TileCoordinate{}, err
	}
	y, err := obj.Int32("tileY")
	if err != nil {
		return core.TileCoordinate{}, err
	}
	return core.TileCoordinate{X: x, Y: y}, nil
}

func decodeExport(obj jsonfield.Object) (core.ExportFileDescriptor, error) {
	var export core.ExportFileDescriptor
	tile, err := decodeTile(obj)
	if err != nil {
		return export, err
	}
	export.Tile = tile

	file, err := obj.Object(exportFormatKey)
	if err != nil {
		return export, err
	}
	if export.MD5, err = file.String("md5Hash"); err != nil {
		return export, err
	}
	if export.Size, err = file.Uint64("fileSize"); err != nil {
		return export, err
	}
	if export.URL, err = file.String("url"); err != nil {
		return export, err
	}
	return export, nil
}

type tileStatus struct {
	tile core.TileCoordinate
	op   core.TileUpdateOperation
}

// decodeTileStatus maps both update fields independently so a bad review
// field is reported even when the marker field is also bad.
func (p *Parser) decodeTileStatus(obj jsonfield.Object) (tileStatus, error) {
	var s tileStatus
	tile, err := decodeTile(obj)
	if err != nil {
		return s, err
	}
	s.tile = tile

	markers := lookupField(obj, "poiUpdateType", updateTypes)
	reviews := lookupField(obj, "reviewUpdateType", updateTypes)
	s.op = core.TileUpdateOperation{Markers: markers.Value, Reviews: reviews.Value}

	if markers.Match == MatchUnknown || reviews.Match == MatchUnknown {
		p.logger.Warn("Unknown tile update type", "tile", tile.String(),
			"poiUpdateType", markers.Raw, "reviewUpdateType", reviews.Raw)
	}
	return s, errors.Join(markers.Err(), reviews.Err())
}

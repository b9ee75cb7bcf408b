package worker

import (
	"fmt"

	"github.com/seamarks/poisync/pkg/core"
)

// Operation names. They double as dispatcher command names.
const (
	OpCreateMarker = "create-marker"
	OpMoveMarker   = "move-marker"
	OpSyncMarkers  = "sync-markers"
	OpSyncReviews  = "sync-reviews"
	OpVoteReview   = "vote-review"
	OpWebView      = "webview"
	OpExport       = "export"
	OpSyncStatus   = "sync-status"
	OpTiles        = "tiles"
)

// applyMarker zeroes the marker's last-updated time so the next full sync
// refreshes it, then stores it without a tile.
func (m *Manager) applyMarker(mc core.MarkerRecordCollection) (core.MarkerRecordCollection, error) {
	mc.Marker.LastUpdated = 0
	if err := m.deps.Storage.ApplyMarkerUpdates([]core.MarkerRecordCollection{mc}, nil); err != nil {
		return mc, fmt.Errorf("error storing marker %d: %w", mc.Marker.ID, err)
	}
	return mc, nil
}

func (m *Manager) applyReview(rc core.ReviewRecordCollection) (core.ReviewRecordCollection, error) {
	rc.Review.LastUpdated = 0
	if err := m.deps.Storage.ApplyReviewUpdates([]core.ReviewRecordCollection{rc}, nil); err != nil {
		return rc, fmt.Errorf("error storing review %d: %w", rc.Review.ID, err)
	}
	return rc, nil
}

func (m *Manager) processSingleMarker(op string, data []byte) (core.MarkerRecordCollection, error) {
	mc, err := m.deps.ParserService.ParseMarker(data)
	if err == nil {
		mc, err = m.applyMarker(mc)
	}
	m.observe(op, nil, 1, 0, err)
	return mc, err
}

// ProcessCreateMarkerResponse decodes and stores the marker returned by a create call.
func (m *Manager) ProcessCreateMarkerResponse(data []byte) (core.MarkerRecordCollection, error) {
	return m.processSingleMarker(OpCreateMarker, data)
}

// ProcessMoveMarkerResponse decodes and stores the marker returned by a move call.
func (m *Manager) ProcessMoveMarkerResponse(data []byte) (core.MarkerRecordCollection, error) {
	return m.processSingleMarker(OpMoveMarker, data)
}

// ProcessSyncMarkersResponse stores a tile's marker batch as decoded and
// returns the number of markers. An empty batch is not stored.
func (m *Manager) ProcessSyncMarkersResponse(data []byte, tile core.TileCoordinate) (int, error) {
	markers, err := m.deps.ParserService.ParseMarkerSync(data)
	if err == nil && len(markers) > 0 {
		if err = m.deps.Storage.ApplyMarkerUpdates(markers, &tile); err != nil {
			err = fmt.Errorf("error storing markers for tile %s: %w", tile, err)
		}
	}
	m.observe(OpSyncMarkers, &tile, len(markers), 0, err)
	if err != nil {
		return 0, err
	}
	return len(markers), nil
}

// ProcessSyncReviewsResponse stores a tile's review batch as decoded and
// returns the number of reviews. An empty batch is not stored.
func (m *Manager) ProcessSyncReviewsResponse(data []byte, tile core.TileCoordinate) (int, error) {
	reviews, err := m.deps.ParserService.ParseReviewSync(data)
	if err == nil && len(reviews) > 0 {
		if err = m.deps.Storage.ApplyReviewUpdates(reviews, &tile); err != nil {
			err = fmt.Errorf("error storing reviews for tile %s: %w", tile, err)
		}
	}
	m.observe(OpSyncReviews, &tile, 0, len(reviews), err)
	if err != nil {
		return 0, err
	}
	return len(reviews), nil
}

// ProcessVoteForReviewResponse decodes and stores the review returned by a vote call.
func (m *Manager) ProcessVoteForReviewResponse(data []byte) (core.ReviewRecordCollection, error) {
	rc, err := m.deps.ParserService.ParseReview(data)
	if err == nil {
		rc, err = m.applyReview(rc)
	}
	m.observe(OpVoteReview, nil, 0, 1, err)
	return rc, err
}

// ProcessWebViewResponse classifies a webview result and stores the marker or
// review it carried. Error and Unknown results are returned with their error.
func (m *Manager) ProcessWebViewResponse(data []byte) (core.WebViewResultType, error) {
	result, err := m.deps.ParserService.ParseWebViewResult(data)
	var markers, reviews int
	if err == nil {
		switch result.Type {
		case core.WebViewMarkerUpdate:
			markers = 1
			_, err = m.applyMarker(result.Marker)
		case core.WebViewReviewUpdate:
			reviews = 1
			_, err = m.applyReview(result.Review)
		}
	}
	m.observe(OpWebView, nil, markers, reviews, err)
	return result.Type, err
}

// ProcessExportResponse decodes an export manifest. Nothing is stored.
func (m *Manager) ProcessExportResponse(data []byte) ([]core.ExportFileDescriptor, error) {
	files, err := m.deps.ParserService.ParseExportList(data)
	m.observe(OpExport, nil, 0, 0, err)
	return files, err
}

// ProcessSyncStatusResponse decodes per-tile update actions. Nothing is stored.
func (m *Manager) ProcessSyncStatusResponse(data []byte) (map[core.TileCoordinate]core.TileUpdateOperation, error) {
	status, err := m.deps.ParserService.ParseSyncStatus(data)
	m.observe(OpSyncStatus, nil, 0, 0, err)
	return status, err
}

// ProcessBoundingBoxResponse decodes the tiles covering a bounding box. Nothing is stored.
func (m *Manager) ProcessBoundingBoxResponse(data []byte) (core.TileSet, error) {
	tiles, err := m.deps.ParserService.ParseTileList(data)
	m.observe(OpTiles, nil, 0, 0, err)
	return tiles, err
}

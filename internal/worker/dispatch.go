package worker

import (
	"fmt"

	"github.com/seamarks/poisync/internal/dispatcher"
)

// RegisterHandlers registers one handler per operation with the dispatcher.
// Handlers run synchronously so callers receive the decoded result.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(OpCreateMarker, m.handleCreateMarker, dispatcher.Logged())
	d.Register(OpMoveMarker, m.handleMoveMarker, dispatcher.Logged())
	d.Register(OpVoteReview, m.handleVoteReview, dispatcher.Logged())
	d.Register(OpWebView, m.handleWebView, dispatcher.Logged())

	// Tile-scoped batches
	d.Register(OpSyncMarkers, m.handleSyncMarkers, dispatcher.Logged())
	d.Register(OpSyncReviews, m.handleSyncReviews, dispatcher.Logged())

	// Decode only
	d.Register(OpExport, m.handleExport, dispatcher.Logged())
	d.Register(OpSyncStatus, m.handleSyncStatus, dispatcher.Logged())
	d.Register(OpTiles, m.handleTiles, dispatcher.Logged())
}

func (m *Manager) handleCreateMarker(e dispatcher.Event) (any, error) {
	mc, err := m.ProcessCreateMarkerResponse(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to apply created marker: %w", err)
	}
	return mc, nil
}

func (m *Manager) handleMoveMarker(e dispatcher.Event) (any, error) {
	mc, err := m.ProcessMoveMarkerResponse(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to apply moved marker: %w", err)
	}
	return mc, nil
}

func (m *Manager) handleVoteReview(e dispatcher.Event) (any, error) {
	rc, err := m.ProcessVoteForReviewResponse(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to apply voted review: %w", err)
	}
	return rc, nil
}

func (m *Manager) handleWebView(e dispatcher.Event) (any, error) {
	rt, err := m.ProcessWebViewResponse(e.Payload)
	if err != nil {
		return rt, fmt.Errorf("failed to apply webview result: %w", err)
	}
	return rt, nil
}

func (m *Manager) handleSyncMarkers(e dispatcher.Event) (any, error) {
	if e.Tile == nil {
		return nil, fmt.Errorf("failed to sync markers: %w", ErrMissingTile)
	}
	n, err := m.ProcessSyncMarkersResponse(e.Payload, *e.Tile)
	if err != nil {
		return nil, fmt.Errorf("failed to sync markers: %w", err)
	}
	return n, nil
}

func (m *Manager) handleSyncReviews(e dispatcher.Event) (any, error) {
	if e.Tile == nil {
		return nil, fmt.Errorf("failed to sync reviews: %w", ErrMissingTile)
	}
	n, err := m.ProcessSyncReviewsResponse(e.Payload, *e.Tile)
	if err != nil {
		return nil, fmt.Errorf("failed to sync reviews: %w", err)
	}
	return n, nil
}

func (m *Manager) handleExport(e dispatcher.Event) (any, error) {
	files, err := m.ProcessExportResponse(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode export list: %w", err)
	}
	return files, nil
}

func (m *Manager) handleSyncStatus(e dispatcher.Event) (any, error) {
	status, err := m.ProcessSyncStatusResponse(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sync status: %w", err)
	}
	return status, nil
}

func (m *Manager) handleTiles(e dispatcher.Event) (any, error) {
	tiles, err := m.ProcessBoundingBoxResponse(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile list: %w", err)
	}
	return tiles, nil
}

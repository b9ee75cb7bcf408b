package parser

import (
	"fmt"

	"github.com/seamarks/poisync/internal/geo"
	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

// ParseMarker parses a single marker object (create/move responses).
// On error the returned collection holds whatever was decoded before the failure.
func (p *Parser) ParseMarker(data []byte) (core.MarkerRecordCollection, error) {
	obj, err := jsonfield.ParseObject(data)
	if err != nil {
		return core.NewMarkerRecordCollection(), fmt.Errorf("error parsing marker: %w", err)
	}
	return p.decodeMarker(obj)
}

// ParseMarkerSync parses a marker sync response, a JSON array of marker objects.
// One bad element fails the whole batch and nothing is returned.
func (p *Parser) ParseMarkerSync(data []byte) ([]core.MarkerRecordCollection, error) {
	elems, err := jsonfield.ParseArray(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing marker sync: %w", err)
	}
	markers, err := decodeList(p, "markers", elems, AllOrNothing, p.decodeMarker)
	if err != nil {
		return nil, fmt.Errorf("error parsing marker sync: %w", err)
	}
	return markers, nil
}

// ParseMarkerWebView parses a marker webview envelope.
// SUCCESS carries a full marker, DELETE only its id.
func (p *Parser) ParseMarkerWebView(data []byte) (core.MarkerRecordCollection, error) {
	env, err := jsonfield.ParseObject(data)
	if err != nil {
		return core.NewMarkerRecordCollection(), fmt.Errorf("error parsing marker webview: %w", err)
	}
	return p.decodeMarkerWebView(env, resultType(env))
}

func (p *Parser) decodeMarkerWebView(env jsonfield.Object, rt string) (core.MarkerRecordCollection, error) {
	switch rt {
	case "SUCCESS":
		data, err := env.Object("data")
		if err != nil {
			return core.NewMarkerRecordCollection(), fmt.Errorf("error parsing marker webview: %w", err)
		}
		return p.decodeMarker(data)
	case "DELETE":
		return decodeTombstone(env)
	case "ERROR":
		return core.NewMarkerRecordCollection(), ErrResultError
	default:
		p.logger.Warn("Unknown marker webview result type", "resultType", rt)
		return core.NewMarkerRecordCollection(), fmt.Errorf("%w %q", ErrUnknownResultType, rt)
	}
}

func decodeTombstone(env jsonfield.Object) (core.MarkerRecordCollection, error) {
	mc := core.NewMarkerRecordCollection()
	data, err := env.Object("data")
	if err != nil {
		return mc, fmt.Errorf("error parsing marker delete: %w", err)
	}
	id, err := data.Uint64("id")
	if err != nil {
		return mc, fmt.Errorf("error parsing marker delete: %w", err)
	}
	mc.Marker.ID = id
	mc.Marker.Deleted = true
	return mc, nil
}

// decodeMarker runs the marker decode steps in order, stopping early on a
// tombstone or on any failure of the identity, location or point-of-interest fields.
func (p *Parser) decodeMarker(obj jsonfield.Object) (core.MarkerRecordCollection, error) {
	mc := core.NewMarkerRecordCollection()
	m := &mc.Marker

	// identity: every step runs so an unknown type is visible next to other failures
	poiType := lookupField(obj, "poiType", markerTypes)
	m.Type = poiType.Value
	ident, err := decodeIdentity(obj, StatusRequired, poiType.Err())
	m.ID, m.LastUpdated, m.Deleted = ident.id, ident.lastUpdated, ident.deleted
	if poiType.Match == MatchUnknown {
		p.logger.Warn("Unknown marker type", "poiType", poiType.Raw, "id", m.ID)
	}
	if err != nil {
		return mc, fmt.Errorf("error parsing marker: %w", err)
	}
	if m.Deleted {
		return mc, nil
	}

	// location
	if err := decodeLocation(obj, m); err != nil {
		return mc, fmt.Errorf("error parsing marker %d location: %w", m.ID, err)
	}

	// point of interest
	if err := decodePointOfInterest(obj, &mc); err != nil {
		return mc, fmt.Errorf("error parsing marker %d point of interest: %w", m.ID, err)
	}

	// searchFilters is optional
	if filters, err := obj.Int32("searchFilters"); err == nil {
		m.SearchFilters = filters
	}

	p.decodeSections(obj, &mc)

	return mc, nil
}

func decodeLocation(obj jsonfield.Object, m *core.Marker) error {
	loc, err := obj.Object("mapLocation")
	if err != nil {
		return err
	}
	lat, err := loc.Float64("latitude")
	if err != nil {
		return err
	}
	lon, err := loc.Float64("longitude")
	if err != nil {
		return err
	}
	pos, err := geo.PositionFromDegrees(lat, lon)
	if err != nil {
		return err
	}
	m.Position = pos
	m.Geohash = geo.Geohash(lat, lon)
	return nil
}

func decodePointOfInterest(obj jsonfield.Object, mc *core.MarkerRecordCollection) error {
	poi, err := obj.Object("pointOfInterest")
	if err != nil {
		return err
	}
	title, err := poi.Int32("sectionTitle")
	if err != nil {
		return err
	}
	name, err := poi.String("name")
	if err != nil {
		return err
	}
	mc.Meta.SectionTitle = title
	mc.Marker.Name = name
	if notes, err := poi.String("notes"); err == nil {
		mc.Meta.SectionNote = core.Some(notes)
	}
	return nil
}

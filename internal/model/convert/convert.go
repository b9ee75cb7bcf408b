// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	"gorm.io/datatypes"

	"github.com/seamarks/poisync/internal/geo"
	"github.com/seamarks/poisync/internal/model"
	"github.com/seamarks/poisync/pkg/core"
)

// Section kinds stored in model.MarkerSection.Kind. They match the wire keys.
const (
	SectionAddress         = "address"
	SectionAmenities       = "amenities"
	SectionBusiness        = "business"
	SectionBusinessProgram = "businessProgram"
	SectionContact         = "contact"
	SectionDockage         = "dockage"
	SectionFuel            = "fuel"
	SectionMoorings        = "moorings"
	SectionNavigation      = "navigation"
	SectionRetail          = "retail"
	SectionServices        = "services"
)

// MarkerRows is a marker collection split into its table rows.
type MarkerRows struct {
	Marker         model.Marker
	Sections       []model.MarkerSection
	BusinessPhotos []model.BusinessPhoto
	Competitors    []model.Competitor
}

// ReviewRows is a review collection split into its table rows.
type ReviewRows struct {
	Review model.Review
	Photos []model.ReviewPhoto
}

// IDToColumn stores an unsigned 64-bit id in a signed column, keeping its bits.
func IDToColumn(id uint64) int64 {
	return int64(id)
}

// IDFromColumn is the inverse of IDToColumn.
func IDFromColumn(v int64) uint64 {
	return uint64(v)
}

func nullString(o core.Optional[string]) sql.NullString {
	v, ok := o.Get()
	return sql.NullString{String: v, Valid: ok}
}

func optionalString(s sql.NullString) core.Optional[string] {
	if !s.Valid {
		return core.None[string]()
	}
	return core.Some(s.String)
}

func appendSection[T any](rows *MarkerRows, kind string, o core.Optional[T]) error {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s section: %w", kind, err)
	}
	rows.Sections = append(rows.Sections, model.MarkerSection{
		MarkerID: rows.Marker.ID,
		Kind:     kind,
		Data:     datatypes.JSON(data),
	})
	return nil
}

func decodeSection[T any](s model.MarkerSection, dst *core.Optional[T]) error {
	var v T
	if err := json.Unmarshal(s.Data, &v); err != nil {
		return fmt.Errorf("error decoding %s section of marker %d: %w", s.Kind, IDFromColumn(s.MarkerID), err)
	}
	*dst = core.Some(v)
	return nil
}

// CoreToMarkerRows converts a live marker collection to GORM rows.
// The marker type is stored by name.
func CoreToMarkerRows(mc core.MarkerRecordCollection) (MarkerRows, error) {
	m := mc.Marker
	location, err := geo.PointFromPosition(m.Position)
	if err != nil {
		return MarkerRows{}, fmt.Errorf("error converting marker %d location: %w", m.ID, err)
	}

	rows := MarkerRows{
		Marker: model.Marker{
			ID:            IDToColumn(m.ID),
			LastUpdated:   m.LastUpdated,
			MarkerType:    m.Type.String(),
			Name:          m.Name,
			Latitude:      m.Position.Latitude,
			Longitude:     m.Position.Longitude,
			Geohash:       IDToColumn(m.Geohash),
			Location:      location,
			SearchFilters: m.SearchFilters,
			SectionTitle:  mc.Meta.SectionTitle,
			SectionNote:   nullString(mc.Meta.SectionNote),
		},
		Sections:       []model.MarkerSection{},
		BusinessPhotos: make([]model.BusinessPhoto, 0, len(mc.BusinessPhotos)),
		Competitors:    make([]model.Competitor, 0, len(mc.Competitors)),
	}

	for _, err := range []error{
		appendSection(&rows, SectionAddress, mc.Address),
		appendSection(&rows, SectionAmenities, mc.Amenities),
		appendSection(&rows, SectionBusiness, mc.Business),
		appendSection(&rows, SectionBusinessProgram, mc.BusinessProgram),
		appendSection(&rows, SectionContact, mc.Contact),
		appendSection(&rows, SectionDockage, mc.Dockage),
		appendSection(&rows, SectionFuel, mc.Fuel),
		appendSection(&rows, SectionMoorings, mc.Moorings),
		appendSection(&rows, SectionNavigation, mc.Navigation),
		appendSection(&rows, SectionRetail, mc.Retail),
		appendSection(&rows, SectionServices, mc.Services),
	} {
		if err != nil {
			return MarkerRows{}, err
		}
	}

	for _, p := range mc.BusinessPhotos {
		rows.BusinessPhotos = append(rows.BusinessPhotos, model.BusinessPhoto{
			MarkerID:    rows.Marker.ID,
			Ordinal:     p.Ordinal,
			DownloadURL: p.DownloadURL,
		})
	}
	for _, c := range mc.Competitors {
		rows.Competitors = append(rows.Competitors, model.Competitor{
			MarkerID:     rows.Marker.ID,
			Ordinal:      c.Ordinal,
			CompetitorID: IDToColumn(c.CompetitorID),
		})
	}
	return rows, nil
}

// MarkerRowsToCore converts GORM rows back to a marker collection.
// Unknown section kinds are an error.
func MarkerRowsToCore(rows MarkerRows) (core.MarkerRecordCollection, error) {
	mc := core.NewMarkerRecordCollection()
	m := rows.Marker
	mc.Marker = core.Marker{
		ID:            IDFromColumn(m.ID),
		LastUpdated:   m.LastUpdated,
		Type:          MarkerTypeFromName(m.MarkerType),
		Position:      core.Position{Latitude: m.Latitude, Longitude: m.Longitude},
		Geohash:       IDFromColumn(m.Geohash),
		SearchFilters: m.SearchFilters,
		Name:          m.Name,
	}
	mc.Meta = core.MarkerMeta{
		SectionTitle: m.SectionTitle,
		SectionNote:  optionalString(m.SectionNote),
	}

	for _, s := range rows.Sections {
		var err error
		switch s.Kind {
		case SectionAddress:
			err = decodeSection(s, &mc.Address)
		case SectionAmenities:
			err = decodeSection(s, &mc.Amenities)
		case SectionBusiness:
			err = decodeSection(s, &mc.Business)
		case SectionBusinessProgram:
			err = decodeSection(s, &mc.BusinessProgram)
		case SectionContact:
			err = decodeSection(s, &mc.Contact)
		case SectionDockage:
			err = decodeSection(s, &mc.Dockage)
		case SectionFuel:
			err = decodeSection(s, &mc.Fuel)
		case SectionMoorings:
			err = decodeSection(s, &mc.Moorings)
		case SectionNavigation:
			err = decodeSection(s, &mc.Navigation)
		case SectionRetail:
			err = decodeSection(s, &mc.Retail)
		case SectionServices:
			err = decodeSection(s, &mc.Services)
		default:
			err = fmt.Errorf("unknown section kind %q on marker %d", s.Kind, mc.Marker.ID)
		}
		if err != nil {
			return mc, err
		}
	}

	for _, p := range rows.BusinessPhotos {
		mc.BusinessPhotos = append(mc.BusinessPhotos, core.BusinessPhoto{Ordinal: p.Ordinal, DownloadURL: p.DownloadURL})
	}
	for _, c := range rows.Competitors {
		mc.Competitors = append(mc.Competitors, core.Competitor{Ordinal: c.Ordinal, CompetitorID: IDFromColumn(c.CompetitorID)})
	}
	return mc, nil
}

// MarkerTypeFromName maps a stored marker type name back to its value.
func MarkerTypeFromName(name string) core.MarkerType {
	for t := core.MarkerTypeUnknown; t <= core.MarkerTypeFerry; t++ {
		if t.String() == name {
			return t
		}
	}
	return core.MarkerTypeUnknown
}

// CoreToReviewRows converts a live review collection to GORM rows.
func CoreToReviewRows(rc core.ReviewRecordCollection) ReviewRows {
	r := rc.Review
	rows := ReviewRows{
		Review: model.Review{
			ID:          IDToColumn(r.ID),
			MarkerID:    IDToColumn(r.MarkerID),
			LastUpdated: r.LastUpdated,
			Rating:      r.Rating,
			Title:       r.Title,
			Text:        r.Text,
			Response:    nullString(r.Response),
			VisitDate:   r.VisitDate,
			CaptainName: r.CaptainName,
			Votes:       r.Votes,
		},
		Photos: make([]model.ReviewPhoto, 0, len(rc.Photos)),
	}
	for _, p := range rc.Photos {
		rows.Photos = append(rows.Photos, model.ReviewPhoto{
			ReviewID:    rows.Review.ID,
			Ordinal:     p.Ordinal,
			DownloadURL: p.DownloadURL,
		})
	}
	return rows
}

// ReviewRowsToCore converts GORM rows back to a review collection.
func ReviewRowsToCore(rows ReviewRows) core.ReviewRecordCollection {
	rc := core.NewReviewRecordCollection()
	r := rows.Review
	rc.Review = core.Review{
		ID:          IDFromColumn(r.ID),
		MarkerID:    IDFromColumn(r.MarkerID),
		Rating:      r.Rating,
		Title:       r.Title,
		Text:        r.Text,
		Response:    optionalString(r.Response),
		VisitDate:   r.VisitDate,
		CaptainName: r.CaptainName,
		Votes:       r.Votes,
		LastUpdated: r.LastUpdated,
	}
	for _, p := range rows.Photos {
		rc.Photos = append(rc.Photos, core.ReviewPhoto{Ordinal: p.Ordinal, DownloadURL: p.DownloadURL})
	}
	return rc
}

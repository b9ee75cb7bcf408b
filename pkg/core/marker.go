// pkg/core/marker.go
package core

// MarkerType is the category of a point of interest.
type MarkerType uint8

const (
	MarkerTypeUnknown MarkerType = iota
	MarkerTypeAnchorage
	MarkerTypeHazard
	MarkerTypeMarina
	MarkerTypeBoatRamp
	MarkerTypeBusiness
	MarkerTypeInlet
	MarkerTypeBridge
	MarkerTypeLock
	MarkerTypeDam
	MarkerTypeFerry
)

var markerTypeNames = [...]string{
	MarkerTypeUnknown:   "Unknown",
	MarkerTypeAnchorage: "Anchorage",
	MarkerTypeHazard:    "Hazard",
	MarkerTypeMarina:    "Marina",
	MarkerTypeBoatRamp:  "BoatRamp",
	MarkerTypeBusiness:  "Business",
	MarkerTypeInlet:     "Inlet",
	MarkerTypeBridge:    "Bridge",
	MarkerTypeLock:      "Lock",
	MarkerTypeDam:       "Dam",
	MarkerTypeFerry:     "Ferry",
}

func (t MarkerType) String() string {
	if int(t) < len(markerTypeNames) {
		return markerTypeNames[t]
	}
	return "Unknown"
}

// Position is a latitude/longitude pair in semicircle units (180 degrees = 2^31).
type Position struct {
	Latitude  int32 `json:"latitude"`
	Longitude int32 `json:"longitude"`
}

// Marker is the scalar part of a point of interest.
// When Deleted is set only ID, LastUpdated and Type carry meaning.
type Marker struct {
	ID            uint64     `json:"id"`
	LastUpdated   int64      `json:"lastUpdated"` // unix seconds
	Type          MarkerType `json:"type"`
	Position      Position   `json:"position"`
	Geohash       uint64     `json:"geohash"`
	SearchFilters int32      `json:"searchFilters"`
	Name          string     `json:"name"`
	Deleted       bool       `json:"deleted"`
}

// MarkerMeta holds the point-of-interest section header.
type MarkerMeta struct {
	SectionTitle int32            `json:"sectionTitle"`
	SectionNote  Optional[string] `json:"sectionNote"`
}

// MarkerRecordCollection is a decoded marker with all of its sections.
// Optional sections are set only when their key was present in the source.
// BusinessPhotos and Competitors are empty, never nil, when absent.
type MarkerRecordCollection struct {
	Marker Marker     `json:"marker"`
	Meta   MarkerMeta `json:"meta"`

	Address         Optional[Address]         `json:"address"`
	Amenities       Optional[Amenities]       `json:"amenities"`
	Business        Optional[Business]        `json:"business"`
	BusinessProgram Optional[BusinessProgram] `json:"businessProgram"`
	Contact         Optional[Contact]         `json:"contact"`
	Dockage         Optional[Dockage]         `json:"dockage"`
	Fuel            Optional[Fuel]            `json:"fuel"`
	Moorings        Optional[Moorings]        `json:"moorings"`
	Navigation      Optional[Navigation]      `json:"navigation"`
	Retail          Optional[Retail]          `json:"retail"`
	Services        Optional[Services]        `json:"services"`

	BusinessPhotos []BusinessPhoto `json:"businessPhotos"`
	Competitors    []Competitor    `json:"competitors"`
}

// NewMarkerRecordCollection returns a collection with initialized owned lists.
func NewMarkerRecordCollection() MarkerRecordCollection {
	return MarkerRecordCollection{
		BusinessPhotos: []BusinessPhoto{},
		Competitors:    []Competitor{},
	}
}

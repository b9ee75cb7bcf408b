// pkg/core/sections.go
package core

// UnitType is a unit of measure used by fuel, dockage and navigation sections.
type UnitType uint8

const (
	UnitUnknown UnitType = iota
	UnitFeet
	UnitMeter
	UnitGallon
	UnitLiter
)

func (u UnitType) String() string {
	switch u {
	case UnitFeet:
		return "Feet"
	case UnitMeter:
		return "Meter"
	case UnitGallon:
		return "Gallon"
	case UnitLiter:
		return "Liter"
	default:
		return "Unknown"
	}
}

// Fields named *Fields hold the attribute bag re-serialized as compact JSON text.
// Their shape is owned by the presentation layer.

type Address struct {
	SectionTitle    int32  `json:"sectionTitle"`
	AttributeFields string `json:"attributeFields"`
	StringFields    string `json:"stringFields"`
}

type Amenities struct {
	SectionTitle             int32  `json:"sectionTitle"`
	YesNoUnknownNearbyFields string `json:"yesNoUnknownNearbyFields"`
	SectionNote              string `json:"sectionNote"`
}

type Business struct {
	SectionTitle              int32  `json:"sectionTitle"`
	AttributeMultiValueFields string `json:"attributeMultiValueFields"`
	BusinessPromotions        string `json:"businessPromotions"`
	CallToAction              string `json:"callToAction"`
}

type BusinessPhoto struct {
	Ordinal     int32  `json:"ordinal"`
	DownloadURL string `json:"downloadUrl"`
}

type BusinessProgram struct {
	SectionTitle int32  `json:"sectionTitle"`
	ProgramTier  int32  `json:"programTier"`
	CompetitorAd string `json:"competitorAd"`
}

type Competitor struct {
	Ordinal      int32  `json:"ordinal"`
	CompetitorID uint64 `json:"competitorId"`
}

// Contact carries the phone number and VHF channel pulled out of AttributeFields.
type Contact struct {
	SectionTitle    int32  `json:"sectionTitle"`
	AttributeFields string `json:"attributeFields"`
	Phone           string `json:"phone"`
	VHFChannel      string `json:"vhfChannel"`
}

type Dockage struct {
	SectionTitle              int32    `json:"sectionTitle"`
	AttributeFields           string   `json:"attributeFields"`
	AttributeMultiValueFields string   `json:"attributeMultiValueFields"`
	YesNoPriceFields          string   `json:"yesNoPriceFields"`
	SectionNote               string   `json:"sectionNote"`
	Currency                  string   `json:"currency"`
	DistanceUnit              UnitType `json:"distanceUnit"`
}

type Fuel struct {
	SectionTitle     int32    `json:"sectionTitle"`
	AttributeFields  string   `json:"attributeFields"`
	YesNoPriceFields string   `json:"yesNoPriceFields"`
	DieselPrice      float64  `json:"dieselPrice"`
	GasPrice         float64  `json:"gasPrice"`
	Currency         string   `json:"currency"`
	VolumeUnit       UnitType `json:"volumeUnit"`
	DistanceUnit     UnitType `json:"distanceUnit"`
	SectionNote      string   `json:"sectionNote"`
}

type Moorings struct {
	SectionTitle     int32  `json:"sectionTitle"`
	AttributeFields  string `json:"attributeFields"`
	YesNoPriceFields string `json:"yesNoPriceFields"`
	SectionNote      string `json:"sectionNote"`
	Currency         string `json:"currency"`
}

type Navigation struct {
	SectionTitle    int32    `json:"sectionTitle"`
	AttributeFields string   `json:"attributeFields"`
	SectionNote     string   `json:"sectionNote"`
	DistanceUnit    UnitType `json:"distanceUnit"`
}

type Retail struct {
	SectionTitle          int32  `json:"sectionTitle"`
	YesNoMultiValueFields string `json:"yesNoMultiValueFields"`
	SectionNote           string `json:"sectionNote"`
}

type Services struct {
	SectionTitle             int32  `json:"sectionTitle"`
	YesNoUnknownNearbyFields string `json:"yesNoUnknownNearbyFields"`
	YesNoMultiValueFields    string `json:"yesNoMultiValueFields"`
	SectionNote              string `json:"sectionNote"`
}

package parser

import (
	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

// decodeSections attaches every optional section whose key is present.
// Section fields are best-effort: a missing or malformed field keeps its zero value.
func (p *Parser) decodeSections(obj jsonfield.Object, mc *core.MarkerRecordCollection) {
	if s, ok := p.section(obj, "address"); ok {
		mc.Address = core.Some(decodeAddress(s))
	}
	if s, ok := p.section(obj, "amenities"); ok {
		mc.Amenities = core.Some(decodeAmenities(s))
	}
	if s, ok := p.section(obj, "business"); ok {
		mc.Business = core.Some(decodeBusiness(s))
	}
	if s, ok := p.section(obj, "businessProgram"); ok {
		mc.BusinessProgram = core.Some(decodeBusinessProgram(s))
	}
	if s, ok := p.section(obj, "contact"); ok {
		mc.Contact = core.Some(p.decodeContact(s))
	}
	if s, ok := p.section(obj, "dockage"); ok {
		mc.Dockage = core.Some(p.decodeDockage(s))
	}
	if s, ok := p.section(obj, "fuel"); ok {
		mc.Fuel = core.Some(p.decodeFuel(s))
	}
	if s, ok := p.section(obj, "moorings"); ok {
		mc.Moorings = core.Some(decodeMoorings(s))
	}
	if s, ok := p.section(obj, "navigation"); ok {
		mc.Navigation = core.Some(p.decodeNavigation(s))
	}
	if s, ok := p.section(obj, "retail"); ok {
		mc.Retail = core.Some(decodeRetail(s))
	}
	if s, ok := p.section(obj, "services"); ok {
		mc.Services = core.Some(decodeServices(s))
	}

	mc.BusinessPhotos = sectionList(p, obj, "businessPhotos", decodeBusinessPhoto)
	mc.Competitors = sectionList(p, obj, "competitors", decodeCompetitor)
}

// section returns the section object for key and whether the key was present.
// A present key whose value is not an object yields an empty section.
func (p *Parser) section(obj jsonfield.Object, key string) (jsonfield.Object, bool) {
	if !obj.Has(key) {
		return nil, false
	}
	s, err := obj.Object(key)
	if err != nil {
		p.logger.Debug("Section is not an object", "section", key, "error", err)
		return jsonfield.Object{}, true
	}
	return s, true
}

// sectionList decodes a best-effort list section. The result is never nil.
func sectionList[T any](p *Parser, obj jsonfield.Object, key string, fn func(jsonfield.Object) (T, error)) []T {
	if !obj.Has(key) {
		return []T{}
	}
	elems, err := obj.Array(key)
	if err != nil {
		p.logger.Debug("Section list is not an array", "section", key, "error", err)
		return []T{}
	}
	out, _ := decodeList(p, key, elems, SkipInvalid, fn)
	return out
}

// lookupUnit maps an optional unit field; unknown values fall back to UnitUnknown.
func (p *Parser) lookupUnit(obj jsonfield.Object, key string) core.UnitType {
	l := lookupField(obj, key, unitTypes)
	if l.Match == MatchUnknown {
		p.logger.Warn("Unknown unit type", "field", key, "value", l.Raw)
	}
	return l.Value
}

func decodeAddress(s jsonfield.Object) core.Address {
	return core.Address{
		SectionTitle:    optInt32(s, "sectionTitle"),
		AttributeFields: optRaw(s, "attributeFields"),
		StringFields:    optRaw(s, "stringFields"),
	}
}

func decodeAmenities(s jsonfield.Object) core.Amenities {
	return core.Amenities{
		SectionTitle:             optInt32(s, "sectionTitle"),
		YesNoUnknownNearbyFields: optRaw(s, "yesNoUnknownNearbyFields"),
		SectionNote:              optString(s, "sectionNote"),
	}
}

func decodeBusiness(s jsonfield.Object) core.Business {
	return core.Business{
		SectionTitle:              optInt32(s, "sectionTitle"),
		AttributeMultiValueFields: optRaw(s, "attributeMultiValueFields"),
		BusinessPromotions:        optRaw(s, "businessPromotions"),
		CallToAction:              optRaw(s, "callToAction"),
	}
}

func decodeBusinessPhoto(s jsonfield.Object) (core.BusinessPhoto, error) {
	ordinal, err := s.Int32("ordinal")
	if err != nil {
		return core.BusinessPhoto{}, err
	}
	url, err := s.String("downloadUrl")
	if err != nil {
		return core.BusinessPhoto{}, err
	}
	return core.BusinessPhoto{Ordinal: ordinal, DownloadURL: url}, nil
}

func decodeBusinessProgram(s jsonfield.Object) core.BusinessProgram {
	return core.BusinessProgram{
		SectionTitle: optInt32(s, "sectionTitle"),
		ProgramTier:  optInt32(s, "programTier"),
		CompetitorAd: optRaw(s, "competitorAd"),
	}
}

func decodeCompetitor(s jsonfield.Object) (core.Competitor, error) {
	ordinal, err := s.Int32("ordinal")
	if err != nil {
		return core.Competitor{}, err
	}
	id, err := s.Uint64("poiId")
	if err != nil {
		return core.Competitor{}, err
	}
	return core.Competitor{Ordinal: ordinal, CompetitorID: id}, nil
}

func (p *Parser) decodeDockage(s jsonfield.Object) core.Dockage {
	return core.Dockage{
		SectionTitle:              optInt32(s, "sectionTitle"),
		AttributeFields:           optRaw(s, "attributeFields"),
		AttributeMultiValueFields: optRaw(s, "attributeMultiValueFields"),
		YesNoPriceFields:          optRaw(s, "yesNoPriceFields"),
		SectionNote:               optString(s, "sectionNote"),
		Currency:                  optString(s, "currency"),
		DistanceUnit:              p.lookupUnit(s, "distanceUnit"),
	}
}

func (p *Parser) decodeFuel(s jsonfield.Object) core.Fuel {
	return core.Fuel{
		SectionTitle:     optInt32(s, "sectionTitle"),
		AttributeFields:  optRaw(s, "attributeFields"),
		YesNoPriceFields: optRaw(s, "yesNoPriceFields"),
		DieselPrice:      optFloat64(s, "dieselPrice"),
		GasPrice:         optFloat64(s, "gasPrice"),
		Currency:         optString(s, "currency"),
		VolumeUnit:       p.lookupUnit(s, "volumeUnit"),
		DistanceUnit:     p.lookupUnit(s, "distanceUnit"),
		SectionNote:      optString(s, "sectionNote"),
	}
}

func decodeMoorings(s jsonfield.Object) core.Moorings {
	return core.Moorings{
		SectionTitle:     optInt32(s, "sectionTitle"),
		AttributeFields:  optRaw(s, "attributeFields"),
		YesNoPriceFields: optRaw(s, "yesNoPriceFields"),
		SectionNote:      optString(s, "sectionNote"),
		Currency:         optString(s, "currency"),
	}
}

func (p *Parser) decodeNavigation(s jsonfield.Object) core.Navigation {
	return core.Navigation{
		SectionTitle:    optInt32(s, "sectionTitle"),
		AttributeFields: optRaw(s, "attributeFields"),
		SectionNote:     optString(s, "sectionNote"),
		DistanceUnit:    p.lookupUnit(s, "distanceUnit"),
	}
}

func decodeRetail(s jsonfield.Object) core.Retail {
	return core.Retail{
		SectionTitle:          optInt32(s, "sectionTitle"),
		YesNoMultiValueFields: optRaw(s, "yesNoMultiValueFields"),
		SectionNote:           optString(s, "sectionNote"),
	}
}

func decodeServices(s jsonfield.Object) core.Services {
	return core.Services{
		SectionTitle:             optInt32(s, "sectionTitle"),
		YesNoUnknownNearbyFields: optRaw(s, "yesNoUnknownNearbyFields"),
		YesNoMultiValueFields:    optRaw(s, "yesNoMultiValueFields"),
		SectionNote:              optString(s, "sectionNote"),
	}
}

package parser

import (
	"fmt"

	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

// Label handles of the contact attribute fields copied into dedicated Contact fields.
const (
	PhoneNumberLabelHandle int32 = 1240
	VHFChannelLabelHandle  int32 = 1241
)

// ContactDetails holds the values pulled out of a contact attribute bag.
type ContactDetails struct {
	Phone      string
	VHFChannel string
}

// ExtractContactDetails re-parses contact attribute fields, a JSON array of
// {"labelHandle": n, "value": "..."}, and returns the phone and VHF values.
// Elements without a recognized handle or a string value are ignored.
func ExtractContactDetails(attributeFields string) (ContactDetails, error) {
	var details ContactDetails
	elems, err := jsonfield.ParseArray([]byte(attributeFields))
	if err != nil {
		return details, fmt.Errorf("error parsing contact attribute fields: %w", err)
	}
	for _, raw := range elems {
		field, err := jsonfield.ParseObject(raw)
		if err != nil {
			continue
		}
		handle, err := field.Int32("labelHandle")
		if err != nil {
			continue
		}
		value, err := field.String("value")
		if err != nil {
			continue
		}
		switch handle {
		case PhoneNumberLabelHandle:
			details.Phone = value
		case VHFChannelLabelHandle:
			details.VHFChannel = value
		}
	}
	return details, nil
}

func (p *Parser) decodeContact(s jsonfield.Object) core.Contact {
	contact := core.Contact{
		SectionTitle:    optInt32(s, "sectionTitle"),
		AttributeFields: optRaw(s, "attributeFields"),
	}
	if contact.AttributeFields == "" {
		return contact
	}
	details, err := ExtractContactDetails(contact.AttributeFields)
	if err != nil {
		p.logger.Debug("Contact attribute fields not decoded", "error", err)
		return contact
	}
	contact.Phone = details.Phone
	contact.VHFChannel = details.VHFChannel
	return contact
}

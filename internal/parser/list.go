package parser

import (
	json "github.com/goccy/go-json"

	"github.com/seamarks/poisync/internal/jsonfield"
)

// ListPolicy decides what a bad list element does to the rest of the list.
type ListPolicy uint8

const (
	// AllOrNothing fails the whole list on the first bad element.
	AllOrNothing ListPolicy = iota
	// SkipInvalid drops bad elements and keeps the rest.
	SkipInvalid
)

func (p ListPolicy) String() string {
	if p == SkipInvalid {
		return "skip-invalid"
	}
	return "all-or-nothing"
}

// decodeList decodes every element of elems with fn. An element is bad when it
// is not a JSON object or fn rejects it. Under AllOrNothing the result is nil on error.
func decodeList[T any](p *Parser, list string, elems []json.RawMessage, policy ListPolicy, fn func(jsonfield.Object) (T, error)) ([]T, error) {
	out := make([]T, 0, len(elems))
	for i, raw := range elems {
		v, err := decodeElement(raw, fn)
		if err != nil {
			if policy == AllOrNothing {
				return nil, &ElementError{List: list, Index: i, Err: err}
			}
			p.logger.Debug("Skipping invalid list element", "list", list, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeElement[T any](raw json.RawMessage, fn func(jsonfield.Object) (T, error)) (T, error) {
	obj, err := jsonfield.ParseObject(raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(obj)
}

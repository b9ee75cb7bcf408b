package parser

import (
	"errors"
	"fmt"

	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

var (
	// ErrNotObject is returned when a document or element is not a JSON object.
	ErrNotObject = jsonfield.ErrNotObject
	// ErrNotArray is returned when a document is not a JSON array.
	ErrNotArray = jsonfield.ErrNotArray
	// ErrUnknownValue is returned when an enumeration value is not in its table.
	ErrUnknownValue = errors.New("unknown value")
	// ErrResultError is returned for a webview envelope whose resultType is ERROR.
	ErrResultError = errors.New("service returned an error result")
	// ErrUnknownResultType is returned for an unrecognized webview resultType.
	ErrUnknownResultType = errors.New("unknown result type")
)

// ElementError reports the list element that failed an all-or-nothing decode.
type ElementError struct {
	List  string
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.List, e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// StatusPolicy decides whether failing to read a record's status stops decoding.
type StatusPolicy uint8

const (
	// StatusRequired treats an unreadable status like a missing id: decoding stops.
	StatusRequired StatusPolicy = iota
	// StatusDeferred keeps decoding but still reports the record as failed.
	StatusDeferred
)

const deletedStatus = "Deleted"

// readDeleted reads the status field. Only the exact string "Deleted" marks a tombstone.
func readDeleted(obj jsonfield.Object) (bool, error) {
	status, err := obj.String("status")
	if err != nil {
		return false, err
	}
	return status == deletedStatus, nil
}

// identity holds the fields every record reads before anything else.
type identity struct {
	id          uint64
	lastUpdated int64
	deleted     bool
	// statusErr is a status read failure held back under StatusDeferred.
	statusErr error
}

// decodeIdentity reads id, lastUpdated and status. The returned error joins
// every identity failure plus also; when it is non-nil decoding stops.
func decodeIdentity(obj jsonfield.Object, policy StatusPolicy, also ...error) (identity, error) {
	var (
		ident identity
		errs  []error
		err   error
	)
	ident.id, err = obj.Uint64("id")
	errs = append(errs, err)
	ident.lastUpdated, err = obj.Epoch("lastUpdated")
	errs = append(errs, err)
	errs = append(errs, also...)

	ident.deleted, err = readDeleted(obj)
	if policy == StatusDeferred {
		ident.statusErr = err
	} else {
		errs = append(errs, err)
	}
	return ident, errors.Join(errs...)
}

// Match is the outcome of an enumeration lookup.
type Match uint8

const (
	MatchKnown Match = iota
	MatchUnknown
	MatchMalformed
)

func (m Match) String() string {
	switch m {
	case MatchKnown:
		return "known"
	case MatchUnknown:
		return "unknown"
	default:
		return "malformed"
	}
}

// Lookup is the tagged result of mapping a textual enumeration.
// Value is the table fallback unless Match is MatchKnown.
// Whether a miss is fatal is decided by the caller.
type Lookup[T any] struct {
	Value T
	Match Match
	Raw   string

	field string
	err   error
}

// Err describes a miss, or returns nil for a known value.
func (l Lookup[T]) Err() error {
	switch l.Match {
	case MatchKnown:
		return nil
	case MatchUnknown:
		return &jsonfield.FieldError{Field: l.field, Err: fmt.Errorf("%w %q", ErrUnknownValue, l.Raw)}
	default:
		return l.err
	}
}

type enumTable[T any] struct {
	values   map[string]T
	fallback T
}

// lookup maps a wire string. Matching is exact.
func (e enumTable[T]) lookup(s string) Lookup[T] {
	if v, ok := e.values[s]; ok {
		return Lookup[T]{Value: v, Match: MatchKnown, Raw: s}
	}
	return Lookup[T]{Value: e.fallback, Match: MatchUnknown, Raw: s}
}

// lookupField reads key as a string and maps it through table.
func lookupField[T any](obj jsonfield.Object, key string, table enumTable[T]) Lookup[T] {
	s, err := obj.String(key)
	if err != nil {
		return Lookup[T]{Value: table.fallback, Match: MatchMalformed, field: key, err: err}
	}
	l := table.lookup(s)
	l.field = key
	return l
}

var markerTypes = enumTable[core.MarkerType]{
	values: map[string]core.MarkerType{
		"Unknown":   core.MarkerTypeUnknown,
		"Anchorage": core.MarkerTypeAnchorage,
		"Hazard":    core.MarkerTypeHazard,
		"Marina":    core.MarkerTypeMarina,
		"BoatRamp":  core.MarkerTypeBoatRamp,
		"Business":  core.MarkerTypeBusiness,
		"Inlet":     core.MarkerTypeInlet,
		"Bridge":    core.MarkerTypeBridge,
		"Lock":      core.MarkerTypeLock,
		"Dam":       core.MarkerTypeDam,
		"Ferry":     core.MarkerTypeFerry,
		// deprecated
		"Airport": core.MarkerTypeUnknown,
	},
	fallback: core.MarkerTypeUnknown,
}

var unitTypes = enumTable[core.UnitType]{
	values: map[string]core.UnitType{
		"Unknown": core.UnitUnknown,
		"Feet":    core.UnitFeet,
		"Meter":   core.UnitMeter,
		"Gallon":  core.UnitGallon,
		"Liter":   core.UnitLiter,
	},
	fallback: core.UnitUnknown,
}

var updateTypes = enumTable[core.UpdateType]{
	values: map[string]core.UpdateType{
		"None":   core.UpdateNone,
		"Export": core.UpdateDownload,
		"Sync":   core.UpdateSync,
		"Delete": core.UpdateDelete,
	},
	fallback: core.UpdateNone,
}

// LookupMarkerType maps a wire poiType string.
func LookupMarkerType(s string) Lookup[core.MarkerType] {
	return markerTypes.lookup(s)
}

// LookupUnitType maps a wire unit string.
func LookupUnitType(s string) Lookup[core.UnitType] {
	return unitTypes.lookup(s)
}

// LookupUpdateType maps a wire tile update type string.
func LookupUpdateType(s string) Lookup[core.UpdateType] {
	return updateTypes.lookup(s)
}

// Package jsonfield provides typed access to the fields of a decoded JSON object.
//
// Each accessor either returns the value or a *FieldError wrapping ErrMissing,
// ErrWrongType or ErrFormat. The returned value is the zero value on error.
package jsonfield

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// EpochLayout is the wire format of timestamp fields.
const EpochLayout = "20060102T150405Z"

var (
	// ErrMissing is returned when the key is absent.
	ErrMissing = errors.New("missing")
	// ErrWrongType is returned when the value has the wrong JSON type.
	ErrWrongType = errors.New("wrong type")
	// ErrFormat is returned when the value has the right type but cannot be converted.
	ErrFormat = errors.New("malformed")
	// ErrNotObject is returned when a document or element is not a JSON object.
	ErrNotObject = errors.New("not a JSON object")
	// ErrNotArray is returned when a document or element is not a JSON array.
	ErrNotArray = errors.New("not a JSON array")
)

// FieldError names the field an accessor failed on.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// Kind is the JSON type of a raw value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// KindOf classifies a raw value by its first significant byte.
func KindOf(raw []byte) Kind {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return KindInvalid
	}
	switch c := raw[0]; {
	case c == '{':
		return KindObject
	case c == '[':
		return KindArray
	case c == '"':
		return KindString
	case c == 't' || c == 'f':
		return KindBool
	case c == 'n':
		return KindNull
	case c == '-' || (c >= '0' && c <= '9'):
		return KindNumber
	default:
		return KindInvalid
	}
}

// Object is a JSON object whose member values are kept undecoded.
// Duplicate keys resolve to the last occurrence.
type Object map[string]json.RawMessage

// ParseObject decodes data, which must be a JSON object.
func ParseObject(data []byte) (Object, error) {
	if KindOf(data) != KindObject {
		return nil, ErrNotObject
	}
	var o Object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	return o, nil
}

// ParseArray decodes data, which must be a JSON array, into its raw elements.
func ParseArray(data []byte) ([]json.RawMessage, error) {
	if KindOf(data) != KindArray {
		return nil, ErrNotArray
	}
	var a []json.RawMessage
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	return a, nil
}

// Has reports whether key is present, whatever its value.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

func (o Object) lookup(key string, want Kind) ([]byte, error) {
	raw, ok := o[key]
	if !ok {
		return nil, fieldErr(key, ErrMissing)
	}
	raw = bytes.TrimSpace(raw)
	if want != KindInvalid && KindOf(raw) != want {
		return nil, fieldErr(key, ErrWrongType)
	}
	return raw, nil
}

// String returns a string field.
func (o Object) String(key string) (string, error) {
	raw, err := o.lookup(key, KindString)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fieldErr(key, ErrFormat)
	}
	return s, nil
}

// RawString returns any present value re-serialized as compact JSON text.
func (o Object) RawString(key string) (string, error) {
	raw, err := o.lookup(key, KindInvalid)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", fieldErr(key, ErrFormat)
	}
	return buf.String(), nil
}

// Float64 returns a numeric field.
func (o Object) Float64(key string) (float64, error) {
	raw, err := o.lookup(key, KindNumber)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, fieldErr(key, ErrFormat)
	}
	return f, nil
}

// Int32 returns an integral numeric field that fits in 32 signed bits.
func (o Object) Int32(key string) (int32, error) {
	raw, err := o.lookup(key, KindNumber)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(string(raw), 10, 32)
	if err != nil {
		return 0, fieldErr(key, ErrWrongType)
	}
	return int32(v), nil
}

// Uint64 returns an unsigned 64-bit field encoded either as a JSON number
// or as a non-empty string of decimal digits.
func (o Object) Uint64(key string) (uint64, error) {
	raw, err := o.lookup(key, KindInvalid)
	if err != nil {
		return 0, err
	}
	switch KindOf(raw) {
	case KindNumber:
		v, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return 0, fieldErr(key, ErrWrongType)
		}
		return v, nil
	case KindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return 0, fieldErr(key, ErrFormat)
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fieldErr(key, ErrFormat)
		}
		return v, nil
	default:
		return 0, fieldErr(key, ErrWrongType)
	}
}

// Epoch returns a timestamp field in EpochLayout as unix seconds.
func (o Object) Epoch(key string) (int64, error) {
	s, err := o.String(key)
	if err != nil {
		return 0, err
	}
	t, err := time.Parse(EpochLayout, s)
	if err != nil {
		return 0, fieldErr(key, ErrFormat)
	}
	return t.Unix(), nil
}

// Object returns a nested object field.
func (o Object) Object(key string) (Object, error) {
	raw, err := o.lookup(key, KindObject)
	if err != nil {
		return nil, err
	}
	var sub Object
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fieldErr(key, ErrFormat)
	}
	return sub, nil
}

// Array returns the raw elements of an array field.
func (o Object) Array(key string) ([]json.RawMessage, error) {
	raw, err := o.lookup(key, KindArray)
	if err != nil {
		return nil, err
	}
	var a []json.RawMessage
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fieldErr(key, ErrFormat)
	}
	return a, nil
}

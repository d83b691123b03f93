// Package validation checks inbound field sets against per-entity schemas.
// It never touches the store: every function here is a pure function of its
// input and a Schema.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Type is the expected JSON type of a field.
type Type int

const (
	TypeString Type = iota
	TypeNumber
	TypeInteger
	TypeTimestamp
)

// Mode selects how required fields are treated.
type Mode int

const (
	// ModeCreate requires every Required field to be present.
	ModeCreate Mode = iota
	// ModePartial checks only the fields that were supplied.
	ModePartial
)

// Field messages, worded after the API's historical responses.
const (
	MsgMissing       = "Missing data for required field."
	MsgNull          = "Field may not be null."
	MsgUnknown       = "Unknown field."
	MsgNotString     = "Not a valid string."
	MsgNotNumber     = "Not a valid number."
	MsgNotInteger    = "Not a valid integer."
	MsgNotTimestamp  = "Not a valid datetime."
	MsgNotEmail      = "Not a valid email address."
	MsgBlank         = "Shorter than minimum length 1."
	MsgNegative      = "Must be greater than or equal to 0."
	MsgTooLarge      = "Must be less than 10000000000."
	MsgNotPositive   = "Must be greater than or equal to 1."
	MsgInvalidObject = "Invalid input type."
)

// FormatFunc checks an already type-converted value and returns a message
// when it is rejected, or "" when it is accepted.
type FormatFunc func(value any) string

// Field describes one entry of a Schema.
type Field struct {
	Name     string
	Type     Type
	Required bool
	Format   FormatFunc
}

// Schema is the ordered field list of one entity type.
type Schema struct {
	Entity string
	Fields []Field
}

// Error carries per-field messages for a rejected input.
type Error struct {
	Entity string
	Fields map[string][]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], " ")))
	}
	prefix := "validation failed"
	if e.Entity != "" {
		prefix = "invalid " + e.Entity
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

func (e *Error) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Fields is a normalized field set. Values are string, float64, int64 or
// time.Time according to the schema's field types.
type Fields map[string]any

// Has reports whether the field was supplied.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// String returns a string field.
func (f Fields) String(name string) (string, bool) {
	v, ok := f[name].(string)
	return v, ok
}

// Float returns a number field.
func (f Fields) Float(name string) (float64, bool) {
	v, ok := f[name].(float64)
	return v, ok
}

// Int returns an integer field.
func (f Fields) Int(name string) (int64, bool) {
	v, ok := f[name].(int64)
	return v, ok
}

// Time returns a timestamp field.
func (f Fields) Time(name string) (time.Time, bool) {
	v, ok := f[name].(time.Time)
	return v, ok
}

// Validate checks input against the schema and returns the normalized
// fields. On failure the error is a *Error.
func (s Schema) Validate(input map[string]any, mode Mode) (Fields, error) {
	verr := &Error{Entity: s.Entity}
	out := make(Fields, len(s.Fields))

	known := make(map[string]struct{}, len(s.Fields))
	for _, field := range s.Fields {
		known[field.Name] = struct{}{}

		raw, present := input[field.Name]
		if !present {
			if field.Required && mode == ModeCreate {
				verr.add(field.Name, MsgMissing)
			}
			continue
		}
		if raw == nil {
			verr.add(field.Name, MsgNull)
			continue
		}

		value, msg := convert(field.Type, raw)
		if msg != "" {
			verr.add(field.Name, msg)
			continue
		}
		if field.Format != nil {
			if msg := field.Format(value); msg != "" {
				verr.add(field.Name, msg)
				continue
			}
		}
		out[field.Name] = value
	}

	for name := range input {
		if _, ok := known[name]; !ok {
			verr.add(name, MsgUnknown)
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}

func convert(t Type, raw any) (any, string) {
	switch t {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, MsgNotString
		}
		return s, ""
	case TypeNumber:
		f, ok := toFloat(raw)
		if !ok {
			return nil, MsgNotNumber
		}
		return f, ""
	case TypeInteger:
		i, ok := toInt(raw)
		if !ok {
			return nil, MsgNotInteger
		}
		return i, ""
	case TypeTimestamp:
		s, ok := raw.(string)
		if !ok {
			return nil, MsgNotTimestamp
		}
		ts, err := ParseTimestamp(s)
		if err != nil {
			return nil, MsgNotTimestamp
		}
		return ts, ""
	default:
		return nil, MsgInvalidObject
	}
}

func toFloat(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return integral(v)
	default:
		return 0, false
	}
}

// integral accepts whole floats such as 3.0 within the int64 range. The
// upper bound is 2^63 itself: float64(math.MaxInt64) rounds up to it.
func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= 0x1p63 {
		return 0, false
	}
	return int64(f), true
}

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an RFC 3339 timestamp, also accepting the zone-less
// ISO form, and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

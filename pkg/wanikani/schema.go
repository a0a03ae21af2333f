package wanikani

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// listDelimiter separates values inside the API's comma-joined string fields.
const listDelimiter = ", "

type fieldFunc func(raw json.RawMessage) error

type field struct {
	name string
	set  fieldFunc
}

// schema is the ordered list of fields a record reads from a raw object.
type schema []field

// schemer is implemented by every record type; the returned schema writes
// into the receiver's own fields.
type schemer interface {
	schema() schema
}

// apply maps a raw JSON object onto the schema. Keys the schema does not
// declare are ignored, and declared keys that are missing or null leave the
// field unset. A null object leaves every field unset.
func (s schema) apply(raw json.RawMessage) error {
	if isNull(raw) {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	for _, f := range s {
		v, ok := obj[f.name]
		if !ok || isNull(v) {
			continue
		}
		if err := f.set(v); err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}
	return nil
}

// decodeRecord builds a fresh record of type T from raw.
func decodeRecord[T any, PT interface {
	*T
	schemer
}](raw json.RawMessage) (*T, error) {
	rec := PT(new(T))
	if err := rec.schema().apply(raw); err != nil {
		return nil, err
	}
	return (*T)(rec), nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// identity copies the value as decoded.
func identity[T any](dst **T) fieldFunc {
	return func(raw json.RawMessage) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

// identityList copies a JSON array of strings as decoded.
func identityList(dst *[]string) fieldFunc {
	return func(raw json.RawMessage) error {
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// epoch converts seconds since the Unix epoch to a UTC time. Zero is a real
// instant, not an absent value.
func epoch(dst **time.Time) fieldFunc {
	return func(raw json.RawMessage) error {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}
		secs, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return fmt.Errorf("parse epoch seconds %q: %w", n, err)
			}
			secs = int64(f)
		}
		ts := time.Unix(secs, 0).UTC()
		*dst = &ts
		return nil
	}
}

// split turns "a, b, c" into ["a", "b", "c"].
func split(dst *[]string) fieldFunc {
	return func(raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*dst = strings.Split(s, listDelimiter)
		return nil
	}
}

// nested maps a child object with its own schema.
func nested[T any, PT interface {
	*T
	schemer
}](dst **T) fieldFunc {
	return func(raw json.RawMessage) error {
		rec, err := decodeRecord[T, PT](raw)
		if err != nil {
			return err
		}
		*dst = rec
		return nil
	}
}

package core

import "math"

const (
	IDField       = "id"
	LegacyIDField = "_id"
)

// Record is one persisted domain object: a student, a fee receipt, a work order...
// It is opaque beyond its identifier.
type Record map[string]interface{}

// ID returns the record identifier, read from `id` or, failing that, `_id`.
func (r Record) ID() string {
	for _, key := range []string{IDField, LegacyIDField} {
		if v, ok := r[key]; ok && v != nil {
			if s := FormatValue(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// IDKey returns the key holding the identifier, defaulting to IDField.
func (r Record) IDKey() string {
	if _, ok := r[IDField]; !ok {
		if _, ok := r[LegacyIDField]; ok {
			return LegacyIDField
		}
	}
	return IDField
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Merge returns a copy of r with patch applied on top.
func (r Record) Merge(patch Record) Record {
	m := r.Clone()
	if m == nil {
		m = make(Record, len(patch))
	}
	for k, v := range patch {
		m[k] = v
	}
	return m
}

func (r Record) String(key string) string {
	return FormatValue(r[key])
}

// Float reads a numeric field, accepting numeric strings.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := ParseNumber(CleanString(v))
		return f, err == nil
	}
	return 0, false
}

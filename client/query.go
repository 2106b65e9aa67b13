package client

import (
	"net/url"
	"strings"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

// AllValue is the filter sentinel meaning "no constraint".
const AllValue = "all"

// FilterState maps a filter key to its value. "", nil and "all" mean no constraint.
type FilterState map[string]interface{}

// Clone returns a shallow copy.
func (fs FilterState) Clone() FilterState {
	if fs == nil {
		return nil
	}
	c := make(FilterState, len(fs))
	for k, v := range fs {
		c[k] = v
	}
	return c
}

// BuildQuery translates a filter state into query parameters, dropping unconstrained keys.
func BuildQuery(filters FilterState) map[string]string {
	q := make(map[string]string, len(filters))
	for key, val := range filters {
		if key = core.CleanString(key); key == "" {
			continue
		}
		s := core.CleanString(core.FormatValue(val))
		if isUnconstrained(s) {
			continue
		}
		q[key] = s
	}
	return q
}

func isUnconstrained(s string) bool {
	return s == "" || strings.EqualFold(s, AllValue)
}

// EncodeQuery renders query parameters sorted by key.
func EncodeQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	v := make(url.Values, len(query))
	for key, val := range query {
		v.Set(key, val)
	}
	return v.Encode()
}

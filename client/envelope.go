package client

import (
	"bytes"
	"encoding/json"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

// Envelope is the JSON shape a backend wraps around the actual payload.
type Envelope int

const (
	EnvelopeUnknown Envelope = iota
	EnvelopeArray            // [...]
	EnvelopeData             // {"data": ...}
	EnvelopeSuccess          // {"success": true, "data": ...}
	EnvelopeObject           // a bare record
)

func (e Envelope) String() string {
	switch e {
	case EnvelopeArray:
		return "array"
	case EnvelopeData:
		return "data"
	case EnvelopeSuccess:
		return "success"
	case EnvelopeObject:
		return "object"
	default:
		return "unknown"
	}
}

// NormalizeList extracts a sequence of records from a list response body.
//
//	[...]                         -> EnvelopeArray
//	{"success": true, "data": [...]} -> EnvelopeSuccess ({"success": false} always fails)
//	{"data": [...]}               -> EnvelopeData
func NormalizeList(body []byte) ([]core.Record, Envelope, error) {
	raw, err := decode(body)
	if err != nil {
		return nil, EnvelopeUnknown, err
	}

	switch val := raw.(type) {
	case []interface{}:
		recs, err := toRecords(val)
		return recs, EnvelopeArray, err
	case map[string]interface{}:
		env, err := unwrap(val)
		if err != nil {
			return nil, EnvelopeUnknown, err
		}
		if env == EnvelopeUnknown {
			return nil, EnvelopeUnknown, &core.ParseError{Message: "expected a list or a data envelope"}
		}
		data, ok := val["data"].([]interface{})
		if !ok {
			return nil, EnvelopeUnknown, &core.ParseError{Message: "envelope data is not a list"}
		}
		recs, err := toRecords(data)
		return recs, env, err
	default:
		return nil, EnvelopeUnknown, &core.ParseError{Message: "expected a list or a data envelope"}
	}
}

// NormalizeOne extracts a single record from a create/update response body.
// A bare object is taken as the record itself.
func NormalizeOne(body []byte) (core.Record, Envelope, error) {
	raw, err := decode(body)
	if err != nil {
		return nil, EnvelopeUnknown, err
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, EnvelopeUnknown, &core.ParseError{Message: "expected an object"}
	}

	env, err := unwrap(obj)
	if err != nil {
		return nil, EnvelopeUnknown, err
	}
	switch env {
	case EnvelopeUnknown:
		return core.Record(obj), EnvelopeObject, nil
	case EnvelopeSuccess:
		if obj["data"] == nil {
			// {"success": true} on action endpoints
			return core.Record{}, env, nil
		}
	}
	data, ok := obj["data"].(map[string]interface{})
	if !ok {
		return nil, EnvelopeUnknown, &core.ParseError{Message: "envelope data is not an object"}
	}
	return core.Record(data), env, nil
}

func decode(body []byte) (interface{}, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &core.ParseError{Message: "empty body"}
	}
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &core.ParseError{Message: "invalid json", Err: err}
	}
	return raw, nil
}

// unwrap classifies an object body. EnvelopeUnknown means the object carries neither
// a `success` flag nor a `data` payload.
func unwrap(obj map[string]interface{}) (Envelope, error) {
	if s, ok := obj["success"]; ok {
		success, isBool := s.(bool)
		if !isBool {
			return EnvelopeUnknown, &core.ParseError{Message: "envelope success is not a boolean"}
		}
		if !success {
			msg := serverMessage(obj)
			if msg == "" {
				msg = "request was not successful"
			}
			return EnvelopeUnknown, &core.ParseError{Message: msg}
		}
		return EnvelopeSuccess, nil
	}
	switch obj["data"].(type) {
	case []interface{}, map[string]interface{}:
		return EnvelopeData, nil
	}
	return EnvelopeUnknown, nil
}

func toRecords(items []interface{}) ([]core.Record, error) {
	recs := make([]core.Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, &core.ParseError{Message: "list item is not an object"}
		}
		recs = append(recs, core.Record(obj))
	}
	return recs, nil
}

// serverMessage reads the human message of an error body: {"error": ...} or {"message": ...}.
func serverMessage(obj map[string]interface{}) string {
	for _, key := range []string{"error", "message"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

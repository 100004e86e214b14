// Package delta builds the per-turn response sent to the client.
//
// A Payload maps a key to the list of values added under it. The presence
// of a key is meaningful to the client; empty values are never added.
package delta

import "reflect"

// Payload is a keyed response block. Combat and monster results use the
// same shape nested inside the turn payload.
type Payload map[string][]any

// Add appends data under key. Empty keys and empty data are skipped.
func (p Payload) Add(key string, data any) {
	if key == "" || isEmpty(data) {
		return
	}
	p[key] = append(p[key], data)
}

// Has reports whether key is present.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Keys returns the present keys in no particular order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

func isEmpty(data any) bool {
	switch v := data.(type) {
	case nil:
		return true
	case string:
		return v == "" || v == "0"
	case bool:
		return !v
	case int:
		return v == 0
	case Payload:
		return len(v) == 0
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

package envelope

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Fields is a JSON object that preserves field insertion order. Setting an
// existing field updates it in place without changing its position.
type Fields struct {
	values map[string]any
	keys   []string
}

// NewFields creates an empty ordered field map.
func NewFields() *Fields {
	return &Fields{values: make(map[string]any)}
}

// Set stores value under name, appending the key on first use.
func (f *Fields) Set(name string, value any) {
	if _, ok := f.values[name]; !ok {
		f.keys = append(f.keys, name)
	}
	f.values[name] = value
}

// Get returns the value stored under name.
func (f *Fields) Get(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Keys returns the field names in insertion order.
func (f *Fields) Keys() []string {
	return append([]string{}, f.keys...)
}

// Map returns a plain map copy of the fields. Nested Fields values are
// converted recursively.
func (f *Fields) Map() map[string]any {
	out := make(map[string]any, len(f.keys))
	for k, v := range f.values {
		if nested, ok := v.(*Fields); ok {
			out[k] = nested.Map()
			continue
		}
		out[k] = v
	}
	return out
}

// MarshalJSON writes the fields as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

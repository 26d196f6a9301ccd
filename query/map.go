package query

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
)

// Map is an insertion-ordered mapping of query keys to values.
//
// Values are nil, strings, booleans, integer and float kinds, [fmt.Stringer]
// implementations or nested *Map. A nil *Map is a valid empty map.
type Map struct {
	keys []string
	vals map[string]any
	next int
}

// NewMap returns a map holding the given key/value pairs in order.
// It panics if kvs has an odd length or a key is not a string.
func NewMap(kvs ...any) *Map {
	if len(kvs)%2 != 0 {
		panic(fmt.Sprintf("query.NewMap: odd number of arguments: %d", len(kvs)))
	}
	m := &Map{}
	for i := 0; i < len(kvs); i += 2 {
		k, ok := kvs[i].(string)
		if !ok {
			panic(fmt.Sprintf("query.NewMap: key %v is %T, not string", kvs[i], kvs[i]))
		}
		m.set(k, kvs[i+1])
	}
	return m
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Get returns the value stored for key and whether the key is present.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// All iterates over the key/value pairs in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// With returns a copy of the map with key set to v.
// An existing key keeps its position, a new key is appended.
func (m *Map) With(key string, v any) *Map {
	m2 := m.clone()
	m2.set(key, v)
	return m2
}

// Append returns a copy of the map with v stored under the next integer key,
// that is one more than the greatest integer key so far, or 0.
func (m *Map) Append(v any) *Map {
	m2 := m.clone()
	m2.push(v)
	return m2
}

// Without returns a copy of the map with key removed.
func (m *Map) Without(key string) *Map {
	if !m.Has(key) {
		return m
	}
	m2 := m.clone()
	delete(m2.vals, key)
	m2.keys = slices.DeleteFunc(m2.keys, func(k string) bool { return k == key })
	return m2
}

// String returns the encoded query string, see [Build].
func (m *Map) String() string { return Build(m) }

// Equal reports whether val is a map that encodes to the same query string.
func (m *Map) Equal(val any) bool {
	var other *Map
	switch v := val.(type) {
	case Map:
		other = &v
	case *Map:
		other = v
	default:
		return false
	}
	if m == other {
		return true
	}
	return Build(m) == Build(other)
}

// MarshalText implements [encoding.TextMarshaler].
func (m *Map) MarshalText() ([]byte, error) {
	return []byte(Build(m)), nil
}

// Clone returns a deep copy of the map, nested maps included.
func (m *Map) Clone() *Map {
	m2 := m.clone()
	for k, v := range m2.vals {
		if nested, ok := v.(*Map); ok {
			m2.vals[k] = nested.Clone()
		}
	}
	return m2
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// It replaces the content of m in place and is meant for decoding into a fresh map.
// Maps held by other values must be copied with [Map.Clone] first.
func (m *Map) UnmarshalText(text []byte) error {
	*m = *Parse(string(text))
	return nil
}

func (m *Map) clone() *Map {
	m2 := &Map{}
	if m == nil {
		return m2
	}
	m2.keys = slices.Clone(m.keys)
	m2.vals = make(map[string]any, len(m.vals))
	for k, v := range m.vals {
		m2.vals[k] = v
	}
	m2.next = m.next
	return m2
}

// set stores v in place. Only used on maps that are not yet shared.
func (m *Map) set(key string, v any) {
	if m.vals == nil {
		m.vals = make(map[string]any)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
	if n, err := strconv.Atoi(key); err == nil && n >= m.next && strconv.Itoa(n) == key {
		m.next = n + 1
	}
}

func (m *Map) push(v any) {
	m.set(strconv.Itoa(m.next), v)
}

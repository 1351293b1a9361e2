package structures

import (
	"slices"
	"strings"
)

// BytesMap maps byte slice keys to values.
type BytesMap[V any] struct {
	data map[string]V
}

func NewBytesMap[V any]() *BytesMap[V] {
	return &BytesMap[V]{
		data: make(map[string]V),
	}
}

func (m *BytesMap[V]) Put(key []byte, value V) {
	m.data[string(key)] = value
}

func (m *BytesMap[V]) Get(key []byte) (V, bool) {
	val, exists := m.data[string(key)]
	return val, exists
}

// SortedValues returns the values ordered by key, bytewise.
func (m *BytesMap[V]) SortedValues() []V {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)

	values := make([]V, 0, len(keys))
	for _, k := range keys {
		values = append(values, m.data[k])
	}
	return values
}

func (m *BytesMap[V]) Length() int {
	return len(m.data)
}

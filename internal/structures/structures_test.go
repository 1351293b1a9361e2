package structures_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/structures"
)

func TestBytesMapSortedValues(t *testing.T) {
	m := structures.NewBytesMap[string]()
	m.Put([]byte{0x02}, "b")
	m.Put([]byte{0x01, 0xFF}, "a")
	m.Put([]byte{0xF0}, "c")
	m.Put([]byte{0x02}, "b2")

	require.Equal(t, 3, m.Length())
	require.Equal(t, []string{"a", "b2", "c"}, m.SortedValues())

	value, exists := m.Get([]byte{0x02})
	require.True(t, exists)
	require.Equal(t, "b2", value)

	_, exists = m.Get([]byte{0x03})
	require.False(t, exists)
}

func TestBytesSet(t *testing.T) {
	set := structures.NewBytesSet()
	set.Add([]byte("election"))

	require.True(t, set.Contains([]byte("election")))
	require.False(t, set.Contains([]byte("result")))
}

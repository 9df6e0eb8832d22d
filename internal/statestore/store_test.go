package statestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRoundTrip(t *testing.T) {
	cases := []struct {
		value     int
		timestamp int64
	}{
		{0, 0},
		{4, 1700000000},
		{255, 1},
		{-1, 9999999999},
	}

	for _, tc := range cases {
		raw := EncodeSample(tc.value, tc.timestamp)
		value, timestamp, ok := ParseSample(raw)
		require.True(t, ok, "encoded sample %q must parse", raw)
		assert.Equal(t, tc.value, value)
		assert.Equal(t, tc.timestamp, timestamp)
	}
}

func TestParseSampleMalformed(t *testing.T) {
	cases := []string{
		"",
		"5",
		"5:6:7",
		"abc:123",
		":",
		"5:",
	}
	for _, raw := range cases {
		_, _, ok := ParseSample(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestParseSampleBadTimestampKeepsValue(t *testing.T) {
	// The value field still parses; only the timestamp is unusable.
	value, timestamp, ok := ParseSample("5:xyz")
	assert.False(t, ok)
	assert.Equal(t, 5, value)
	assert.Equal(t, int64(0), timestamp)
}

func TestGroupNaming(t *testing.T) {
	assert.Equal(t, "croptrack.alice", UserGroup("croptrack", "alice"))
	assert.Equal(t, "croptrack.alice.12851", RegionGroup("croptrack", "alice", 12851))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer func() { _ = store.Close() }()

	_, ok := store.Get("g", "k")
	assert.False(t, ok)

	require.NoError(t, store.Set("g", "k", "1:2"))
	v, ok := store.Get("g", "k")
	require.True(t, ok)
	assert.Equal(t, "1:2", v)

	// Overwrite replaces, groups are isolated.
	require.NoError(t, store.Set("g", "k", "3:4"))
	v, _ = store.Get("g", "k")
	assert.Equal(t, "3:4", v)
	_, ok = store.Get("other", "k")
	assert.False(t, ok)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, ok := store.Get("croptrack.alice.1", "4771")
	assert.False(t, ok)

	require.NoError(t, store.Set("croptrack.alice.1", "4771", EncodeSample(4, 1700000000)))
	v, ok := store.Get("croptrack.alice.1", "4771")
	require.True(t, ok)
	assert.Equal(t, "4:1700000000", v)

	require.NoError(t, store.Set("croptrack.alice.1", "4771", EncodeSample(5, 1700000300)))
	v, _ = store.Get("croptrack.alice.1", "4771")
	assert.Equal(t, "5:1700000300", v)
}

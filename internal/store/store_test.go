package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGet_MissingKey(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(KeyToken, "eyJhbGciOi.fake.token"))

	got, ok, err := s.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "eyJhbGciOi.fake.token", got)
}

func TestSet_Overwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(KeyLandingSeen, "1"))
	require.NoError(t, s.Set(KeyLandingSeen, "0"))

	got, ok, err := s.Get(KeyLandingSeen)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0", got)
}

func TestDelete_MultipleKeysAndMissing(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(KeyToken, "tok"))
	require.NoError(t, s.Set(KeyLandingSeen, "1"))

	// Deleting both plus a key that never existed must succeed.
	require.NoError(t, s.Delete(KeyToken, KeyLandingSeen, "never-written"))

	_, ok, err := s.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.Get(KeyLandingSeen)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyToken, "survives"))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, ok, err := s2.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "survives", got)
}

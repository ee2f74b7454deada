package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windowrun/windowrun/internal/cache"
)

func TestSQLite_EmptySlotReadsAsEmptyString(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	value, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestSQLite_WriteOverwritesSlot(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write(`{"v":1}`))
	require.NoError(t, c.Write(`{"v":2}`))

	value, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, value)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	first, err := cache.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(`{"business":null}`))
	require.NoError(t, first.Close())

	second, err := cache.Open(path)
	require.NoError(t, err)
	defer second.Close()

	value, err := second.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"business":null}`, value)
}

func TestSQLite_Clear(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write(`{"v":1}`))
	require.NoError(t, c.Clear())

	value, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peripheryapp/periphery-sub003/internal/indexstore"
)

func TestUnitCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "units.db")
	c, err := Open(path)
	require.NoError(t, err)

	info := indexstore.UnitInfo{Name: "main.json", ModTime: time.Unix(100, 0)}
	key := Key("/index", info)
	unit := &indexstore.Unit{Module: "App", File: "main.swift"}

	_, ok := c.Get(key)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, unit))
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, unit.File, got.File)
	assert.Equal(t, 1, c.Len())
	require.NoError(t, c.Close())

	// Entries survive reopening
	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()
	_, ok = c.Get(key)
	assert.True(t, ok)
}

func TestKeyChangesWithModTime(t *testing.T) {
	a := Key("/index", indexstore.UnitInfo{Name: "u.json", ModTime: time.Unix(1, 0)})
	b := Key("/index", indexstore.UnitInfo{Name: "u.json", ModTime: time.Unix(2, 0)})
	c := Key("/other", indexstore.UnitInfo{Name: "u.json", ModTime: time.Unix(1, 0)})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

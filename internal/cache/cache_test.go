package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHash([]byte("hello"))
	c := ContentHash([]byte("world"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCache_LoadMissReturnsNotOK(t *testing.T) {
	c := newTestCache(t)
	_, ok, err := c.Load("never-stored.py")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_StoreThenLoadRoundTrip(t *testing.T) {
	c := newTestCache(t)
	fs := FileState{
		Path:        "a.py",
		Language:    "python",
		ContentHash: ContentHash([]byte("import os")),
	}
	require.NoError(t, c.Store(fs))

	got, ok, err := c.Load("a.py")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fs.Language, got.Language)
	assert.Equal(t, fs.ContentHash, got.ContentHash)
}

func TestCache_StoreOverwritesPreviousContentHash(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Store(FileState{Path: "a.py", Language: "python", ContentHash: "h1"}))
	require.NoError(t, c.Store(FileState{Path: "a.py", Language: "python", ContentHash: "h2"}))

	got, ok, err := c.Load("a.py")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "h2", got.ContentHash)
}

func TestCache_FindingsRoundTrip(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Store(FileState{Path: "a.py", Language: "python", ContentHash: "h1"}))

	findings := []CachedFinding{
		{RuleID: "imports.unused", Message: "import \"os\" is unused", Start: 7, End: 9, Severity: "info"},
	}
	require.NoError(t, c.StoreFindings("a.py", findings))

	got, err := c.Findings("a.py")
	require.NoError(t, err)
	assert.Equal(t, findings, got)
}

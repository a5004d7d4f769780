package prototype

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFlat(className string) Flat {
	return Flat{
		SchemaVersion:  SchemaVersion,
		ClassName:      className,
		IsInstantiable: true,
		Properties: []FlatProperty{
			{Name: "Name", TypeName: "string", OwningClass: className},
		},
	}
}

func TestDiskCacheStoreAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "protos")
	c := NewDiskCache(dir)

	require.NoError(t, c.Store("widget", sampleFlat("widget")))

	got, ok := c.Load("widget")
	require.True(t, ok)
	assert.Equal(t, "widget", got.ClassName)
	assert.True(t, got.IsInstantiable)
	assert.Len(t, got.Properties, 1)
}

func TestDiskCacheLoadMissingReportsMiss(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "protos"))

	_, ok := c.Load("ghost")
	assert.False(t, ok)
}

func TestDiskCacheSchemaVersionMismatchDiscardsEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "protos")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	c := NewDiskCache(dir)

	// Store always re-stamps the current SchemaVersion, so a genuine
	// mismatch must be written directly, bypassing Store, as if left
	// behind by an older build of this package.
	stale := sampleFlat("widget")
	stale.SchemaVersion = SchemaVersion + 1
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.json"), data, 0o644))

	_, ok := c.Load("widget")
	assert.False(t, ok, "a schema version mismatch must be treated as a cache miss, not a stale read")
}

func TestDiskCacheDeleteRemovesEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "protos")
	c := NewDiskCache(dir)

	require.NoError(t, c.Store("widget", sampleFlat("widget")))
	require.NoError(t, c.Delete("widget"))

	_, ok := c.Load("widget")
	assert.False(t, ok)
}

func TestDiskCacheDeleteMissingIsNoop(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "protos"))
	assert.NoError(t, c.Delete("ghost"))
}

func TestDiskCacheClearRemovesAllEntries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "protos")
	c := NewDiskCache(dir)

	require.NoError(t, c.Store("widget", sampleFlat("widget")))
	require.NoError(t, c.Store("gadget", sampleFlat("gadget")))

	require.NoError(t, c.Clear())

	_, ok := c.Load("widget")
	assert.False(t, ok)
	_, ok = c.Load("gadget")
	assert.False(t, ok)
}

func TestDiskCacheClearOnMissingDirIsNoop(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "never-created"))
	assert.NoError(t, c.Clear())
}

package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storeTSV = "term_id\tname\tnamespace\n" +
	"GO:0008150\tbiological_process\tbiological_process\n" +
	"GO:0016301\tkinase activity\tmolecular_function\n" +
	"PO:0000001\tembryo proper\tplant_anatomy\n" +
	"obsolete\tno prefix\tnone\n"

func writeStoreTSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store_terms.tsv")
	require.NoError(t, os.WriteFile(path, []byte(storeTSV), 0644))
	return path
}

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LoadAndLookup(t *testing.T) {
	store := openStore(t, "")
	assert.False(t, store.Loaded(), "should be empty before load")

	require.NoError(t, store.Load(writeStoreTSV(t)))
	assert.True(t, store.Loaded())

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	name, ok := store.Lookup("GO", "GO:0016301")
	assert.True(t, ok)
	assert.Equal(t, "kinase activity", name)

	_, ok = store.Lookup("PO", "GO:0016301")
	assert.False(t, ok, "source must match")

	_, ok = store.Lookup("GO", "GO:9999999")
	assert.False(t, ok)
}

func TestStore_LoadReplaces(t *testing.T) {
	store := openStore(t, "")
	path := writeStoreTSV(t)
	require.NoError(t, store.Load(path))
	require.NoError(t, store.Load(path))

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStore_PreloadToMemory(t *testing.T) {
	store := openStore(t, "")
	require.NoError(t, store.Load(writeStoreTSV(t)))
	assert.Zero(t, store.MemCacheSize())

	require.NoError(t, store.PreloadToMemory())
	assert.Equal(t, 3, store.MemCacheSize())

	name, ok := store.Lookup("PO", "PO:0000001")
	assert.True(t, ok)
	assert.Equal(t, "embryo proper", name)
}

func TestStore_Persistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "terms.duckdb")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Load(writeStoreTSV(t)))
	require.NoError(t, store.Close())

	reopened := openStore(t, path)
	assert.True(t, reopened.Loaded())
	name, ok := reopened.Lookup("GO", "GO:0008150")
	assert.True(t, ok)
	assert.Equal(t, "biological_process", name)
}

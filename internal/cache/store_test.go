package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func kvImplementations(t *testing.T) map[string]KV {
	t.Helper()
	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { bolt.Close() })
	return map[string]KV{
		"memory": NewMemoryKV(),
		"bolt":   bolt,
	}
}

func TestKV_PutGetDelete(t *testing.T) {
	for name, kv := range kvImplementations(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Put("k", []byte("v1")))
			got, ok, err := kv.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte("v1"), got)

			keys, err := kv.Keys()
			require.NoError(t, err)
			assert.Contains(t, keys, "k")

			require.NoError(t, kv.Delete("k"))
			_, ok, err = kv.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestOpenBolt_EmptyPath(t *testing.T) {
	_, err := OpenBolt("")
	assert.Error(t, err)
}

func TestBoltKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	kv, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, kv.Put(KeyProducts, []byte(`[]`)))
	require.NoError(t, kv.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, ok, err := reopened.Get(KeyProducts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), got)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(NewMemoryKV())
	require.NoError(t, err)

	var empty []item
	ok, err := store.Load(KeyCategories, &empty)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(KeyCategories, []item{{ID: "1", Name: "Brooms"}}))

	var loaded []item
	ok, err = store.Load(KeyCategories, &loaded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []item{{ID: "1", Name: "Brooms"}}, loaded)
}

func TestStore_LoadCorruptEntry(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(KeyProducts, []byte("{not json")))
	store, err := NewStore(kv)
	require.NoError(t, err)

	var out []item
	_, err = store.Load(KeyProducts, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestStore_Remove(t *testing.T) {
	store, err := NewStore(NewMemoryKV())
	require.NoError(t, err)
	require.NoError(t, store.Save(KeyBlogs, []item{}))
	require.NoError(t, store.Remove(KeyBlogs))

	var out []item
	ok, err := store.Load(KeyBlogs, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_DirtyFlags(t *testing.T) {
	store, err := NewStore(NewMemoryKV())
	require.NoError(t, err)

	assert.False(t, store.IsDirty(KeyProducts))
	assert.Empty(t, store.DirtyKeys())

	store.MarkDirty(KeyProducts)
	store.MarkDirty(KeyBlogs)
	store.MarkDirty(KeyProducts)
	assert.True(t, store.IsDirty(KeyProducts))
	assert.Equal(t, []string{KeyBlogs, KeyProducts}, store.DirtyKeys())

	store.ClearDirty(KeyProducts)
	assert.False(t, store.IsDirty(KeyProducts))
	assert.Equal(t, []string{KeyBlogs}, store.DirtyKeys())
}

func TestStore_DirtyFlagsSurviveRestart(t *testing.T) {
	kv := NewMemoryKV()
	store, err := NewStore(kv)
	require.NoError(t, err)
	store.MarkDirty(KeySettings)

	restored, err := NewStore(kv)
	require.NoError(t, err)
	assert.True(t, restored.IsDirty(KeySettings))
}

func TestNewStore_CorruptDirtySet(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(keyDirty, []byte("nope")))
	_, err := NewStore(kv)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStore_PendingIDs(t *testing.T) {
	kv := NewMemoryKV()
	store, err := NewStore(kv)
	require.NoError(t, err)

	store.MarkPending(KeyProducts, "prod_2")
	store.MarkPending(KeyProducts, "prod_1")
	store.MarkPending(KeyProducts, "prod_2")
	assert.True(t, store.IsDirty(KeyProducts))
	assert.Equal(t, []string{"prod_1", "prod_2"}, store.PendingIDs(KeyProducts))
	assert.Empty(t, store.PendingIDs(KeyBlogs))

	restored, err := NewStore(kv)
	require.NoError(t, err)
	assert.True(t, restored.IsDirty(KeyProducts))
	assert.Equal(t, []string{"prod_1", "prod_2"}, restored.PendingIDs(KeyProducts))

	restored.ClearDirty(KeyProducts)
	assert.False(t, restored.IsDirty(KeyProducts))
	assert.Empty(t, restored.PendingIDs(KeyProducts))

	again, err := NewStore(kv)
	require.NoError(t, err)
	assert.Empty(t, again.PendingIDs(KeyProducts))
}

func TestNewStore_CorruptPendingSet(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(keyPending, []byte("[")))
	_, err := NewStore(kv)
	assert.ErrorIs(t, err, ErrCorrupt)
}

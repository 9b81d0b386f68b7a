package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Cache {
	t.Helper()
	pb, err := OpenPebble(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = pb.Close() })
	return map[string]Cache{
		"pebble": pb,
		"memory": NewMemory(),
	}
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte(`[{"role":"assistant","content":"hi"}]`)
			require.NoError(t, c.Save(KeyChatHistory, payload))

			got, err := c.Load(KeyChatHistory)
			require.NoError(t, err)
			require.Equal(t, payload, got)
		})
	}
}

func TestCache_LoadMissingKey(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := c.Load("no-such-key")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestCache_ClearRemovesValue(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Save(KeyProperties, []byte("[]")))
			require.NoError(t, c.Clear(KeyProperties))

			_, err := c.Load(KeyProperties)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestCache_ClearMissingKeyIsNoOp(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Clear("never-saved"))
		})
	}
}

func TestCache_SaveOverwrites(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Save(KeyFavorites, []byte("old")))
			require.NoError(t, c.Save(KeyFavorites, []byte("new")))

			got, err := c.Load(KeyFavorites)
			require.NoError(t, err)
			require.Equal(t, []byte("new"), got)
		})
	}
}

func TestMemoryCache_CopiesValueOnSave(t *testing.T) {
	m := NewMemory()
	buf := []byte("original")
	require.NoError(t, m.Save("k", buf))
	buf[0] = 'X'

	got, err := m.Load("k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got)
}

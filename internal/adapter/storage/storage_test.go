package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/niksmo/galeria/internal/adapter/storage"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStorage(t *testing.T) (*storage.RedisStorage, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return storage.NewRedisStorage(client, "galeria:"), mr
}

func drivers(t *testing.T) map[string]port.KeyValueStorage {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	rs, _ := newRedisStorage(t)
	return map[string]port.KeyValueStorage{
		"Memory": storage.NewMemoryStorage(),
		"File":   fs,
		"Redis":  rs,
	}
}

func TestKeyValueStorage(t *testing.T) {
	for name, kv := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			_, err := kv.Get(ctx, "cart-storage")
			assert.ErrorIs(t, err, storage.ErrNotFound)

			require.NoError(t, kv.Set(ctx, "cart-storage", []byte(`{"a":1}`)))
			got, err := kv.Get(ctx, "cart-storage")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, string(got))

			require.NoError(t, kv.Set(ctx, "cart-storage", []byte(`{"a":2}`)))
			got, err = kv.Get(ctx, "cart-storage")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":2}`, string(got))

			require.NoError(t, kv.Delete(ctx, "cart-storage"))
			_, err = kv.Get(ctx, "cart-storage")
			assert.ErrorIs(t, err, storage.ErrNotFound)

			assert.NoError(t, kv.Delete(ctx, "missing"), "deleting a missing key is not an error")
		})
	}
}

func TestInvalidKeys(t *testing.T) {
	for name, kv := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "../etc", `a\b`} {
				err := kv.Set(t.Context(), key, []byte("x"))
				assert.ErrorIs(t, err, storage.ErrInvalidKey, key)
			}
		})
	}
}

func TestFileStorage_LayoutOnDisk(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Set(t.Context(), "adminUser", []byte(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "adminUser.json", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, "adminUser.json"))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestRedisStorage_UsesPrefixWithoutTTL(t *testing.T) {
	rs, mr := newRedisStorage(t)

	require.NoError(t, rs.Set(t.Context(), "cart-storage", []byte("v")))

	assert.True(t, mr.Exists("galeria:cart-storage"))
	assert.Zero(t, mr.TTL("galeria:cart-storage"))
}

func TestSessionStore(t *testing.T) {
	kv := storage.NewMemoryStorage()
	sessions := storage.NewSessionStore(kv)
	ctx := t.Context()

	t.Run("NoSession", func(t *testing.T) {
		_, ok, err := sessions.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		token, err := sessions.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("SaveLoadClear", func(t *testing.T) {
		s := domain.Session{
			Token: "tkn",
			User:  domain.SessionUser{ID: "1", Name: "Admin", Email: "admin@example.com", Role: "admin"},
		}
		require.NoError(t, sessions.Save(ctx, s))

		got, ok, err := sessions.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, s, got)

		token, err := sessions.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tkn", token)

		require.NoError(t, sessions.Clear(ctx))
		_, ok, err = sessions.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Corrupted", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, storage.SessionKey, []byte("{")))
		_, _, err := sessions.Load(ctx)
		assert.Error(t, err)
	})
}

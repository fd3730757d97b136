package kvstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stockalert/pkg/kvstore"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
)

func stores(t *testing.T) map[string]notifications.KeyValueStore {
	t.Helper()

	sq, err := kvstore.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]notifications.KeyValueStore{
		"memory": kvstore.NewMemory(),
		"sqlite": sq,
	}
}

func TestStores_Contract(t *testing.T) {
	t.Parallel()

	for name, kv := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			got, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.Nil(t, got)

			require.NoError(t, kv.Set(ctx, "k", []byte(`[{"id":"a"}]`)))
			got, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[{"id":"a"}]`), got)

			require.NoError(t, kv.Set(ctx, "k", []byte(`[]`)))
			got, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[]`), got)

			require.NoError(t, kv.Delete(ctx, "k"))
			got, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Nil(t, got)

			require.NoError(t, kv.Delete(ctx, "never-set"))

			_, err = kv.Get(ctx, "")
			assert.ErrorIs(t, err, kvstore.ErrEmptyKey)
			assert.ErrorIs(t, kv.Set(ctx, "", nil), kvstore.ErrEmptyKey)
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemory()
	value := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'z'

	got, _ := kv.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
	got[1] = 'z'

	again, _ := kv.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stockalert.db")

	first, err := kvstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, notifications.PreferencesKey, []byte(`{"low_stock":false}`)))
	require.NoError(t, first.Healthcheck(ctx))
	require.NoError(t, first.Close())

	second, err := kvstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Get(ctx, notifications.PreferencesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"low_stock":false}`, string(got))
}

func TestSQLite_BacksNotificationStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv, err := kvstore.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	store := notifications.NewStore(kv)
	n := store.Add(ctx, notifications.Input{Type: notifications.TypeLowStock, Title: "Low Stock Alert"})

	reloaded := notifications.NewStore(kv)
	require.NoError(t, reloaded.Load(ctx))
	list := reloaded.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)
}

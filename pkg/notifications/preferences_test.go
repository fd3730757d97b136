package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences_Defaults(t *testing.T) {
	t.Parallel()

	p := DefaultPreferences()
	for _, typ := range Types {
		assert.True(t, p.Enabled(typ), typ)
	}
	assert.True(t, p.SoundEnabled)
	assert.True(t, p.VibrationEnabled)
	assert.Equal(t, 15*time.Minute, p.CheckInterval())
	assert.NoError(t, p.Validate())
}

func TestPreferences_Validate(t *testing.T) {
	t.Parallel()

	for _, minutes := range []int{0, -5} {
		p := DefaultPreferences()
		p.CheckIntervalMinutes = minutes
		assert.ErrorIs(t, p.Validate(), ErrInvalidPreferences)
	}
}

func TestPreferences_Enabled(t *testing.T) {
	t.Parallel()

	p := DefaultPreferences()
	p.LowStock = false
	p.StockAdjustment = false

	assert.False(t, p.Enabled(TypeLowStock))
	assert.False(t, p.Enabled(TypeStockAdjustment))
	assert.True(t, p.Enabled(TypeOutOfStock))
	assert.True(t, p.Enabled(Type("new_type")))
}

func TestPreferencesStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newMemKV()
	store := NewPreferencesStore(kv)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), got)

	p := DefaultPreferences()
	p.CheckIntervalMinutes = 5
	p.BackInStock = false
	require.NoError(t, store.Save(ctx, p))

	fresh, err := NewPreferencesStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, fresh)

	p.CheckIntervalMinutes = 0
	assert.ErrorIs(t, store.Save(ctx, p), ErrInvalidPreferences)
}

func TestPreferencesStore_PartialDocumentKeepsDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newMemKV()
	require.NoError(t, kv.Set(ctx, PreferencesKey, []byte(`{"low_stock":false}`)))

	got, err := NewPreferencesStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.LowStock)
	assert.True(t, got.OutOfStock)
	assert.Equal(t, DefaultCheckIntervalMinutes, got.CheckIntervalMinutes)
}

func TestPreferencesStore_KVFailure(t *testing.T) {
	t.Parallel()

	kv := newMemKV()
	kv.err = errKVDown

	got, err := NewPreferencesStore(kv).Load(context.Background())
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.Equal(t, DefaultPreferences(), got)
}

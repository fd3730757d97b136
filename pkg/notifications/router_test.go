package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stockalert/pkg/logger"
)

type staticPrefs struct {
	prefs Preferences
	err   error
}

func (s staticPrefs) Load(context.Context) (Preferences, error) {
	return s.prefs, s.err
}

func lowStockInput() Input {
	return Input{
		Type:    TypeLowStock,
		Title:   "Low Stock Alert",
		Message: "Widget is running low at Main (2 left, minimum 10)",
		Metadata: &Metadata{
			ItemID:        "item-1",
			ItemName:      "Widget",
			LocationID:    "wh-1",
			LocationName:  "Main",
			CurrentStock:  2,
			MinStockLevel: 10,
			StockRatio:    0.2,
		},
	}
}

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.On("Deliver", mock.Anything, mock.AnythingOfType("notifications.Package")).Return(nil).Once()
	backend := &MockBackend{}
	backend.On("Create", mock.Anything, mock.AnythingOfType("notifications.Notification")).Return(nil).Once()

	store := newTestStore(newMemKV())
	r := NewRouter(store, ch, WithRouterBackend(backend), WithRouterLogger(logger.Discard()))

	n, err := r.Dispatch(context.Background(), lowStockInput())
	require.NoError(t, err)
	r.Wait()

	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, PriorityHigh, n.Priority)
	assert.Equal(t, CategoryInventory, n.Category)
	assert.Equal(t, []string{"n1"}, ids(store.Notifications()))

	pkg := ch.Calls[0].Arguments.Get(1).(Package)
	assert.Equal(t, ChannelStockAlerts, pkg.ChannelID)
	assert.Equal(t, "Low Stock Alert", pkg.Title)
	assert.Equal(t, "#FF9800", pkg.Color)
	assert.Equal(t, "ic_warning", pkg.Icon)
	assert.Equal(t, "Low Stock", pkg.SubText)
	assert.Equal(t, "low_stock", pkg.Group)
	assert.True(t, pkg.Sound)
	assert.True(t, pkg.Vibrate)
	assert.Len(t, pkg.Actions, 2)
	assert.Equal(t, "n1", pkg.UserInfo.NotificationID)
	assert.Equal(t, "item-1", pkg.UserInfo.Metadata.ItemID)

	created := backend.Calls[0].Arguments.Get(1).(Notification)
	assert.Equal(t, n.ID, created.ID)
	ch.AssertExpectations(t)
	backend.AssertExpectations(t)
}

func TestRouter_DispatchDeliveryFailure(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("push gateway down"))

	store := newTestStore(nil)
	r := NewRouter(store, ch, WithRouterLogger(logger.Discard()))

	n, err := r.Dispatch(context.Background(), lowStockInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeliveryFailure)
	assert.Equal(t, "n1", n.ID)
	assert.Len(t, store.Notifications(), 1)
	ch.AssertNumberOfCalls(t, "Deliver", 1)
}

func TestRouter_BackendFailureIsNotReturned(t *testing.T) {
	t.Parallel()

	backend := &MockBackend{}
	backend.On("Create", mock.Anything, mock.Anything).Return(errors.New("backend down"))

	r := NewRouter(newTestStore(nil), nil, WithRouterBackend(backend), WithRouterLogger(logger.Discard()))
	_, err := r.Dispatch(context.Background(), lowStockInput())
	r.Wait()

	assert.NoError(t, err)
	backend.AssertNumberOfCalls(t, "Create", 1)
}

func TestRouter_PreferencesGateSoundAndVibration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		loader      PreferenceLoader
		wantSound   bool
		wantVibrate bool
	}{
		{
			name: "both disabled",
			loader: staticPrefs{prefs: func() Preferences {
				p := DefaultPreferences()
				p.SoundEnabled = false
				p.VibrationEnabled = false
				return p
			}()},
		},
		{
			name: "vibration disabled",
			loader: staticPrefs{prefs: func() Preferences {
				p := DefaultPreferences()
				p.VibrationEnabled = false
				return p
			}()},
			wantSound: true,
		},
		{
			name:        "load error uses defaults",
			loader:      staticPrefs{err: errors.New("kv down")},
			wantSound:   true,
			wantVibrate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got Package
			ch := ChannelFunc(func(_ context.Context, pkg Package) error {
				got = pkg
				return nil
			})
			r := NewRouter(newTestStore(nil), ch, WithRouterPreferences(tt.loader), WithRouterLogger(logger.Discard()))

			_, err := r.Dispatch(context.Background(), lowStockInput())
			require.NoError(t, err)
			assert.Equal(t, tt.wantSound, got.Sound)
			assert.Equal(t, tt.wantVibrate, got.Vibrate)
		})
	}
}

func TestRouter_SilentTypeStaysSilent(t *testing.T) {
	t.Parallel()

	var got Package
	ch := ChannelFunc(func(_ context.Context, pkg Package) error {
		got = pkg
		return nil
	})
	r := NewRouter(newTestStore(nil), ch, WithRouterPreferences(staticPrefs{prefs: DefaultPreferences()}), WithRouterLogger(logger.Discard()))

	n, err := r.Dispatch(context.Background(), Input{Type: TypeStockAdjustment, Title: "Adjusted"})
	require.NoError(t, err)
	assert.Equal(t, PriorityLow, n.Priority)
	assert.False(t, got.Sound)
	assert.False(t, got.Vibrate)
	assert.Equal(t, ChannelInventoryUpdates, got.ChannelID)
}

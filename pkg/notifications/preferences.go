package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultCheckIntervalMinutes is used when no interval has been configured.
const DefaultCheckIntervalMinutes = 15

// Preferences is the per-installation alert configuration.
type Preferences struct {
	LowStock             bool `json:"low_stock"`
	OutOfStock           bool `json:"out_of_stock"`
	BackInStock          bool `json:"back_in_stock"`
	TransferCompleted    bool `json:"transfer_completed"`
	PurchaseOrder        bool `json:"purchase_order"`
	StockAdjustment      bool `json:"stock_adjustment"`
	CheckIntervalMinutes int  `json:"check_interval_minutes"`
	SoundEnabled         bool `json:"sound_enabled"`
	VibrationEnabled     bool `json:"vibration_enabled"`
}

// DefaultPreferences enables every type, sound and vibration.
func DefaultPreferences() Preferences {
	return Preferences{
		LowStock:             true,
		OutOfStock:           true,
		BackInStock:          true,
		TransferCompleted:    true,
		PurchaseOrder:        true,
		StockAdjustment:      true,
		CheckIntervalMinutes: DefaultCheckIntervalMinutes,
		SoundEnabled:         true,
		VibrationEnabled:     true,
	}
}

// Validate checks the preferences.
func (p Preferences) Validate() error {
	if p.CheckIntervalMinutes <= 0 {
		return fmt.Errorf("%w: check interval must be positive, got %d", ErrInvalidPreferences, p.CheckIntervalMinutes)
	}
	return nil
}

// Enabled reports whether alerts of type t should be raised. Unknown types are enabled.
func (p Preferences) Enabled(t Type) bool {
	switch t {
	case TypeLowStock:
		return p.LowStock
	case TypeOutOfStock:
		return p.OutOfStock
	case TypeBackInStock:
		return p.BackInStock
	case TypeTransferCompleted:
		return p.TransferCompleted
	case TypePurchaseOrder:
		return p.PurchaseOrder
	case TypeStockAdjustment:
		return p.StockAdjustment
	default:
		return true
	}
}

// CheckInterval returns the configured interval as a duration.
func (p Preferences) CheckInterval() time.Duration {
	if p.CheckIntervalMinutes <= 0 {
		return DefaultCheckIntervalMinutes * time.Minute
	}
	return time.Duration(p.CheckIntervalMinutes) * time.Minute
}

// PreferencesStore keeps preferences under PreferencesKey.
type PreferencesStore struct {
	kv KeyValueStore

	mu     sync.RWMutex
	cached *Preferences
}

// NewPreferencesStore creates a preferences store backed by kv.
func NewPreferencesStore(kv KeyValueStore) *PreferencesStore {
	return &PreferencesStore{kv: kv}
}

// Load returns the stored preferences, or the defaults when none were saved.
func (s *PreferencesStore) Load(ctx context.Context) (Preferences, error) {
	s.mu.RLock()
	if s.cached != nil {
		p := *s.cached
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	raw, err := s.kv.Get(ctx, PreferencesKey)
	if err != nil {
		return DefaultPreferences(), errors.Join(ErrPersistenceFailure, err)
	}
	if raw == nil {
		return DefaultPreferences(), nil
	}

	p := DefaultPreferences()
	if err := json.Unmarshal(raw, &p); err != nil {
		return DefaultPreferences(), errors.Join(ErrPersistenceFailure, err)
	}

	s.mu.Lock()
	s.cached = &p
	s.mu.Unlock()
	return p, nil
}

// Save validates and stores p.
func (s *PreferencesStore) Save(ctx context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}
	if err := s.kv.Set(ctx, PreferencesKey, raw); err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}

	s.mu.Lock()
	s.cached = &p
	s.mu.Unlock()
	return nil
}

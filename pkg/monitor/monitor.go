package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/stockalert/pkg/dedup"
	"github.com/dmitrymomot/stockalert/pkg/inventory"
	"github.com/dmitrymomot/stockalert/pkg/logger"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
)

// Dispatcher records and delivers an alert.
type Dispatcher interface {
	Dispatch(ctx context.Context, in notifications.Input) (notifications.Notification, error)
}

// Deduplicator suppresses repeated alerts.
type Deduplicator interface {
	ShouldSuppress(ctx context.Context, key string) (bool, error)
	Arm(ctx context.Context, key string, ttl time.Duration) error
}

// purger is implemented by dedup caches that drop expired keys on demand.
type purger interface {
	Purge() int
}

// PassResult summarizes one sampling pass.
type PassResult struct {
	Skipped          bool // another pass was in progress
	Err              error
	Items            int
	Dispatched       int
	DeliveryFailures int
	Suppressed       int
	Disabled         int
	Duration         time.Duration
}

// Monitor samples inventory levels and dispatches alerts for items at or
// below their threshold.
type Monitor struct {
	source     inventory.Source
	dispatcher Dispatcher
	dedup      Deduplicator
	prefs      notifications.PreferenceLoader
	logger     *slog.Logger
	now        func() time.Time
	ttl        time.Duration
	interval   time.Duration
	onPass     func(PassResult)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	active    atomic.Bool
	lastCheck atomic.Int64
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger for the Monitor.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = l
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// WithInterval fixes the interval Run starts with. Zero defers to the
// preferences' check interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		m.interval = d
	}
}

// WithDedupTTL sets how long a fired alert key stays suppressed.
func WithDedupTTL(ttl time.Duration) Option {
	return func(m *Monitor) {
		m.ttl = ttl
	}
}

// WithOnPass registers a hook called after every completed or skipped pass.
func WithOnPass(fn func(PassResult)) Option {
	return func(m *Monitor) {
		m.onPass = fn
	}
}

// New creates a stopped monitor. A nil dedup uses an in-memory cache; nil
// prefs means every alert type is enabled.
func New(source inventory.Source, dispatcher Dispatcher, dd Deduplicator, prefs notifications.PreferenceLoader, opts ...Option) *Monitor {
	if dd == nil {
		dd = dedup.NewMemory()
	}

	m := &Monitor{
		source:     source,
		dispatcher: dispatcher,
		dedup:      dd,
		prefs:      prefs,
		logger:     slog.Default(),
		now:        time.Now,
		ttl:        dedup.DefaultTTL,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(logger.Component("monitor"))
	return m
}

// Start runs a pass immediately and then every interval until Stop is called
// or ctx is done. It is a no-op while the monitor is already running. A
// non-positive interval uses the preferences' check interval.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return
	}
	if interval <= 0 {
		interval = m.loadPreferences(ctx).CheckInterval()
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel, m.done = cancel, done

	m.logger.LogAttrs(ctx, slog.LevelInfo, "monitor started", slog.Duration("interval", interval))

	go func() {
		defer func() {
			// The parent ctx may end the loop without Stop.
			cancel()
			m.mu.Lock()
			if m.done == done {
				m.cancel, m.done = nil, nil
			}
			m.mu.Unlock()
			close(done)
		}()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.tick(ctx)
			}
		}
	}()
}

// Stop cancels the timer and waits for the loop to exit. A pass already in
// progress runs to completion; no new pass starts afterwards.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	m.logger.LogAttrs(context.Background(), slog.LevelInfo, "monitor stopped")
}

// Run starts the monitor, blocks until ctx is done and stops it. Suitable
// for errgroup.
func (m *Monitor) Run(ctx context.Context) func() error {
	return func() error {
		m.Start(ctx, m.interval)
		<-ctx.Done()
		m.Stop()
		return nil
	}
}

// Running reports whether the periodic loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// LastCheck returns when the last successful pass started, or the zero time.
func (m *Monitor) LastCheck() time.Time {
	ns := m.lastCheck.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// CheckNow runs one pass and waits for it. If a pass is already running it
// returns immediately with Skipped set.
func (m *Monitor) CheckNow(ctx context.Context) PassResult {
	if !m.active.CompareAndSwap(false, true) {
		m.logger.LogAttrs(ctx, slog.LevelDebug, "pass already in progress, skipping")
		res := PassResult{Skipped: true}
		m.report(res)
		return res
	}
	defer m.active.Store(false)

	ctx = logger.WithPassID(ctx, uuid.NewString())
	start := m.now()
	res := m.pass(ctx)
	res.Duration = m.now().Sub(start)

	if res.Err == nil {
		m.lastCheck.Store(start.UnixNano())
		m.logger.LogAttrs(ctx, slog.LevelInfo, "inventory check completed",
			logger.Group("result",
				logger.Count("items", res.Items),
				logger.Count("dispatched", res.Dispatched),
				logger.Count("suppressed", res.Suppressed),
				logger.Count("disabled", res.Disabled),
				logger.Count("delivery_failures", res.DeliveryFailures),
			),
			logger.Duration(res.Duration),
		)
	}
	if p, ok := m.dedup.(purger); ok {
		if n := p.Purge(); n > 0 {
			m.logger.LogAttrs(ctx, slog.LevelDebug, "expired dedup keys dropped", logger.Count("purged", n))
		}
	}

	m.report(res)
	return res
}

func (m *Monitor) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// The pass is not cancelled by Stop.
	m.CheckNow(context.WithoutCancel(ctx))
}

func (m *Monitor) pass(ctx context.Context) PassResult {
	var res PassResult

	items, err := m.source.LowStockItems(ctx)
	if err != nil {
		res.Err = errors.Join(notifications.ErrSourceUnavailable, err)
		m.logger.LogAttrs(ctx, slog.LevelError, "inventory check failed", logger.Error(res.Err))
		return res
	}
	res.Items = len(items)

	prefs := m.loadPreferences(ctx)
	for _, item := range items {
		m.evaluate(ctx, item, prefs, &res)
	}
	return res
}

func (m *Monitor) evaluate(ctx context.Context, item inventory.Item, prefs notifications.Preferences, res *PassResult) {
	alert, ok := notifications.EvaluateStock(item.Quantity, item.MinStockLevel)
	if !ok {
		return
	}
	if !prefs.Enabled(alert.Type) {
		res.Disabled++
		return
	}

	key := notifications.AlertKey(alert.Type, item.ProductID, item.WarehouseID)
	suppressed, err := m.dedup.ShouldSuppress(ctx, key)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "dedup lookup failed, skipping item",
			logger.AlertKey(key),
			logger.ItemID(item.ProductID),
			logger.LocationID(item.WarehouseID),
			logger.Error(err),
		)
		return
	}
	if suppressed {
		res.Suppressed++
		return
	}

	title, message := notifications.AlertText(alert.Type, item.ProductName, item.WarehouseName, item.Quantity, item.MinStockLevel)
	_, err = m.dispatcher.Dispatch(ctx, notifications.Input{
		Type:    alert.Type,
		Title:   title,
		Message: message,
		Metadata: &notifications.Metadata{
			ItemID:        item.ProductID,
			ItemName:      item.ProductName,
			LocationID:    item.WarehouseID,
			LocationName:  item.WarehouseName,
			CurrentStock:  item.Quantity,
			MinStockLevel: item.MinStockLevel,
			StockRatio:    alert.Ratio,
		},
	})
	res.Dispatched++
	if err != nil {
		// The record is stored even when delivery failed, so the key is armed anyway.
		res.DeliveryFailures++
		m.logger.LogAttrs(ctx, slog.LevelWarn, "alert delivery failed",
			logger.NotificationType(string(alert.Type)),
			logger.ItemID(item.ProductID),
			logger.LocationID(item.WarehouseID),
			logger.Error(err),
		)
	}

	if err := m.dedup.Arm(ctx, key, m.ttl); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "failed to arm dedup key",
			logger.AlertKey(key),
			logger.ItemID(item.ProductID),
			logger.LocationID(item.WarehouseID),
			logger.Error(err),
		)
	}
}

func (m *Monitor) loadPreferences(ctx context.Context) notifications.Preferences {
	if m.prefs == nil {
		return notifications.DefaultPreferences()
	}
	p, err := m.prefs.Load(ctx)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load preferences, using defaults", logger.Error(err))
		return notifications.DefaultPreferences()
	}
	return p
}

func (m *Monitor) report(res PassResult) {
	if m.onPass != nil {
		m.onPass(res)
	}
}

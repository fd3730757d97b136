package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/stockalert/pkg/logger"
)

const defaultBackendTimeout = 10 * time.Second

// Store is the local notification ledger. Every mutation goes through Reduce
// and is followed by a single save to the key-value store.
type Store struct {
	kv             KeyValueStore
	backend        Backend
	logger         *slog.Logger
	now            func() time.Time
	newID          func() string
	backendTimeout time.Duration

	mu    sync.Mutex
	state State

	wg sync.WaitGroup
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger for the Store.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// WithBackend sets the remote notification service used by Sync and read-state updates.
func WithBackend(b Backend) StoreOption {
	return func(s *Store) {
		s.backend = b
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides how new notification ids are generated.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithBackendTimeout bounds background backend calls.
func WithBackendTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.backendTimeout = d
	}
}

// NewStore creates an empty ledger persisted to kv. A nil kv keeps the
// ledger in memory only.
func NewStore(kv KeyValueStore, opts ...StoreOption) *Store {
	s := &Store{
		kv:             kv,
		logger:         slog.Default(),
		now:            time.Now,
		newID:          uuid.NewString,
		backendTimeout: defaultBackendTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load rehydrates the ledger from the key-value store. A missing key leaves
// the ledger empty.
func (s *Store) Load(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}

	raw, err := s.kv.Get(ctx, NotificationsKey)
	if err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}
	if raw == nil {
		return nil
	}

	var list []Notification
	if err := json.Unmarshal(raw, &list); err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}

	s.mu.Lock()
	s.state = Reduce(s.state, SyncReplaceAction{Notifications: list, At: s.state.LastSync})
	count := len(s.state.Notifications)
	s.mu.Unlock()

	s.logger.LogAttrs(ctx, slog.LevelDebug, "notification ledger loaded",
		logger.Count("notification_count", count),
	)
	return nil
}

// Add stores a new notification at the head of the ledger.
func (s *Store) Add(ctx context.Context, in Input) Notification {
	n := Notification{
		ID:        s.newID(),
		Type:      in.Type,
		Category:  in.Category,
		Priority:  PriorityFor(in.Type, ratioOf(in.Metadata)),
		Title:     in.Title,
		Message:   in.Message,
		Timestamp: s.now(),
		Read:      in.Read,
		Metadata:  cloneMetadata(in.Metadata),
	}
	if n.Category == "" {
		n.Category = CategoryFor(n.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, AddAction{Notification: n})
	s.save(ctx)

	return copyNotification(n)
}

// Update applies p to the notification with the given id.
func (s *Store) Update(ctx context.Context, id string, p Patch) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.state.Notifications, id) < 0 {
		return Notification{}, ErrNotificationNotFound
	}
	s.state = Reduce(s.state, UpdateAction{ID: id, Patch: p})
	s.save(ctx)

	return copyNotification(s.state.Notifications[indexOf(s.state.Notifications, id)]), nil
}

// Remove deletes the notification with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.state.Notifications, id) < 0 {
		return ErrNotificationNotFound
	}
	s.state = Reduce(s.state, RemoveAction{ID: id})
	s.save(ctx)
	return nil
}

// MarkAsRead marks one notification as read and informs the backend in the
// background. Local state wins if the backend call fails.
func (s *Store) MarkAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	i := indexOf(s.state.Notifications, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotificationNotFound
	}
	s.state = Reduce(s.state, MarkReadAction{ID: id})
	s.save(ctx)
	s.mu.Unlock()

	s.markRemote(ctx, id)
	return nil
}

// MarkAllAsRead marks every notification as read. It returns how many entries changed.
func (s *Store) MarkAllAsRead(ctx context.Context) int {
	s.mu.Lock()
	var ids []string
	for _, n := range s.state.Notifications {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	s.state = Reduce(s.state, MarkAllReadAction{})
	s.save(ctx)
	s.mu.Unlock()

	for _, id := range ids {
		s.markRemote(ctx, id)
	}
	return len(ids)
}

// ClearAll empties the ledger.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, ClearAction{})
	s.save(ctx)
}

// Sync replaces the ledger with the backend's full list. On failure the
// ledger is untouched and the error is kept in the snapshot.
func (s *Store) Sync(ctx context.Context) error {
	if s.backend == nil {
		err := errors.Join(ErrSyncFailure, ErrNoBackend)
		s.mu.Lock()
		s.state = Reduce(s.state, SyncFailAction{Err: err})
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.state = Reduce(s.state, SyncStartAction{})
	s.mu.Unlock()

	start := s.now()
	list, err := s.backend.List(ctx, true)
	if err != nil {
		err = errors.Join(ErrSyncFailure, err)
		s.mu.Lock()
		s.state = Reduce(s.state, SyncFailAction{Err: err})
		s.mu.Unlock()

		s.logger.LogAttrs(ctx, slog.LevelError, "notification sync failed",
			logger.Error(err),
		)
		return err
	}

	s.mu.Lock()
	s.state = Reduce(s.state, SyncReplaceAction{Notifications: list, At: s.now()})
	s.save(ctx)
	count := len(s.state.Notifications)
	s.mu.Unlock()

	s.logger.LogAttrs(ctx, slog.LevelDebug, "notifications synced",
		logger.Count("notification_count", count),
		logger.Duration(s.now().Sub(start)),
	)
	return nil
}

// RunSync calls Sync every interval until ctx is done. Failures are logged
// and the loop keeps going.
func (s *Store) RunSync(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = s.Sync(ctx)
		}
	}
}

// Wait blocks until background backend calls have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Notifications returns the whole ledger, newest first.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyList(s.state.Notifications, nil)
}

// ByCategory returns the entries in category c.
func (s *Store) ByCategory(c Category) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyList(s.state.Notifications, func(n Notification) bool { return n.Category == c })
}

// UnreadOnly returns the unread entries.
func (s *Store) UnreadOnly() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyList(s.state.Notifications, func(n Notification) bool { return !n.Read })
}

// HasUnread reports whether any entry is unread.
func (s *Store) HasUnread() bool {
	return s.UnreadCount() > 0
}

// UnreadCount returns the number of unread entries.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UnreadCount
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Notifications = copyList(s.state.Notifications, nil)
	return st
}

// save writes the ledger. Callers hold s.mu, so writes reach the KV store in
// mutation order and a slow KV write also blocks readers until it returns.
func (s *Store) save(ctx context.Context) {
	if s.kv == nil {
		return
	}

	list := s.state.Notifications
	if list == nil {
		list = []Notification{}
	}
	raw, err := json.Marshal(list)
	if err == nil {
		err = s.kv.Set(ctx, NotificationsKey, raw)
	}
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to persist notification ledger",
			logger.Error(errors.Join(ErrPersistenceFailure, err)),
		)
	}
}

func (s *Store) markRemote(ctx context.Context, id string) {
	if s.backend == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.backendTimeout)
		defer cancel()

		if err := s.backend.MarkRead(bctx, id, true); err != nil {
			s.logger.LogAttrs(bctx, slog.LevelWarn, "failed to mark notification read on backend",
				logger.NotificationID(id),
				logger.Error(err),
			)
		}
	}()
}

func ratioOf(m *Metadata) float64 {
	if m == nil {
		return 1
	}
	if m.MinStockLevel <= 0 {
		return float64(m.CurrentStock)
	}
	return StockRatio(m.CurrentStock, m.MinStockLevel)
}

func copyNotification(n Notification) Notification {
	n.Metadata = cloneMetadata(n.Metadata)
	return n
}

func copyList(list []Notification, keep func(Notification) bool) []Notification {
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		if keep != nil && !keep(n) {
			continue
		}
		out = append(out, copyNotification(n))
	}
	return out
}

package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/stockalert/pkg/logger"
)

// PreferenceLoader provides the current preferences.
type PreferenceLoader interface {
	Load(ctx context.Context) (Preferences, error)
}

// Router turns alerts into ledger entries and delivered packages.
type Router struct {
	store          *Store
	channel        Channel
	backend        Backend
	prefs          PreferenceLoader
	logger         *slog.Logger
	backendTimeout time.Duration

	wg sync.WaitGroup
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger for the Router.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = l
	}
}

// WithRouterBackend makes the router create every dispatched record in the backend.
func WithRouterBackend(b Backend) RouterOption {
	return func(r *Router) {
		r.backend = b
	}
}

// WithRouterPreferences gates sound and vibration on the loaded preferences.
func WithRouterPreferences(p PreferenceLoader) RouterOption {
	return func(r *Router) {
		r.prefs = p
	}
}

// WithRouterBackendTimeout bounds the background backend create call.
func WithRouterBackendTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		r.backendTimeout = d
	}
}

// NewRouter creates a router that records into store and delivers through channel.
// A nil channel discards packages.
func NewRouter(store *Store, channel Channel, opts ...RouterOption) *Router {
	if channel == nil {
		channel = NoOpChannel{}
	}

	r := &Router{
		store:          store,
		channel:        channel,
		logger:         slog.Default(),
		backendTimeout: defaultBackendTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Dispatch stores the alert, delivers it and creates it in the backend in the
// background. The stored notification is returned even when delivery fails;
// in that case the error wraps ErrDeliveryFailure. Nothing is retried.
func (r *Router) Dispatch(ctx context.Context, in Input) (Notification, error) {
	styling := Classify(in.Type)
	n := r.store.Add(ctx, in)

	pkg := r.render(ctx, n, styling)
	if err := r.channel.Deliver(ctx, pkg); err != nil {
		err = errors.Join(ErrDeliveryFailure, err)
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to deliver notification",
			logger.NotificationID(n.ID),
			logger.NotificationType(string(n.Type)),
			logger.Channel(pkg.ChannelID),
			logger.Error(err),
		)
		r.createRemote(ctx, n)
		return n, err
	}

	r.logger.LogAttrs(ctx, slog.LevelInfo, "notification delivered",
		logger.NotificationID(n.ID),
		logger.NotificationType(string(n.Type)),
		logger.Channel(pkg.ChannelID),
	)
	r.createRemote(ctx, n)
	return n, nil
}

// Wait blocks until background backend writes have finished.
func (r *Router) Wait() {
	r.wg.Wait()
}

func (r *Router) render(ctx context.Context, n Notification, st Styling) Package {
	sound, vibrate := st.Sound, st.Vibration
	if r.prefs != nil {
		prefs, err := r.prefs.Load(ctx)
		if err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load preferences, using defaults",
				logger.Error(err),
			)
			prefs = DefaultPreferences()
		}
		sound = sound && prefs.SoundEnabled
		vibrate = vibrate && prefs.VibrationEnabled
	}

	return Package{
		ChannelID: st.ChannelID,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		Icon:      st.Icon,
		Color:     st.Color,
		Sound:     sound,
		Vibrate:   vibrate,
		SubText:   st.SubText,
		Group:     string(n.Type),
		Actions:   st.Actions,
		UserInfo: UserInfo{
			NotificationID: n.ID,
			Type:           n.Type,
			Metadata:       cloneMetadata(n.Metadata),
		},
	}
}

func (r *Router) createRemote(ctx context.Context, n Notification) {
	if r.backend == nil {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.backendTimeout)
		defer cancel()

		if err := r.backend.Create(bctx, n); err != nil {
			r.logger.LogAttrs(bctx, slog.LevelWarn, "failed to create notification on backend",
				logger.NotificationID(n.ID),
				logger.Error(err),
			)
		}
	}()
}

package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/stockalert/pkg/httpserver"
	"github.com/dmitrymomot/stockalert/pkg/monitor"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
	"github.com/dmitrymomot/stockalert/pkg/push"
	"github.com/dmitrymomot/stockalert/pkg/requestid"
)

// Ledger is the part of the notification store the API exposes.
type Ledger interface {
	Notifications() []notifications.Notification
	ByCategory(c notifications.Category) []notifications.Notification
	UnreadOnly() []notifications.Notification
	UnreadCount() int
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) int
	Remove(ctx context.Context, id string) error
	ClearAll(ctx context.Context)
	Sync(ctx context.Context) error
}

// Checker triggers an out-of-band monitor pass.
type Checker interface {
	CheckNow(ctx context.Context) monitor.PassResult
}

// PreferencesStore loads and saves alert preferences.
type PreferencesStore interface {
	Load(ctx context.Context) (notifications.Preferences, error)
	Save(ctx context.Context, p notifications.Preferences) error
}

// Subscriptions manages web push endpoints.
type Subscriptions interface {
	Add(ctx context.Context, sub push.Subscription) error
	Remove(ctx context.Context, endpoint string) error
}

// Handler serves the control API.
type Handler struct {
	ledger  Ledger
	checker Checker
	prefs   PreferencesStore
	subs    Subscriptions
	vapid   string
	checks  map[string]httpserver.CheckFunc
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithChecker mounts POST /check.
func WithChecker(c Checker) Option {
	return func(h *Handler) { h.checker = c }
}

// WithPreferences mounts GET and PUT /preferences.
func WithPreferences(p PreferencesStore) Option {
	return func(h *Handler) { h.prefs = p }
}

// WithSubscriptions mounts the /push routes. publicKey is served to browsers
// that need it for PushManager.subscribe.
func WithSubscriptions(s Subscriptions, publicKey string) Option {
	return func(h *Handler) {
		h.subs = s
		h.vapid = publicKey
	}
}

// WithHealthCheck adds a named readiness probe to GET /healthz.
func WithHealthCheck(name string, fn httpserver.CheckFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.checks[name] = fn
		}
	}
}

// WithRequestTimeout bounds each request; zero disables the limit.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// WithLogger sets the logger for the Handler.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New builds the handler. Routes whose dependency was not supplied are not mounted.
func New(ledger Ledger, opts ...Option) *Handler {
	h := &Handler{
		ledger:  ledger,
		checks:  map[string]httpserver.CheckFunc{},
		timeout: 30 * time.Second,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Router returns the chi router with every mounted route.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	if h.timeout > 0 {
		r.Use(middleware.Timeout(h.timeout))
	}

	r.Get("/healthz", httpserver.HealthCheckHandler(h.logger, 5*time.Second, h.checks))

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.listNotifications)
		r.Delete("/", h.clearNotifications)
		r.Get("/unread-count", h.unreadCount)
		r.Post("/read-all", h.markAllRead)
		r.Post("/{id}/read", h.markRead)
		r.Delete("/{id}", h.removeNotification)
	})
	r.Post("/sync", h.sync)

	if h.checker != nil {
		r.Post("/check", h.check)
	}
	if h.prefs != nil {
		r.Get("/preferences", h.getPreferences)
		r.Put("/preferences", h.putPreferences)
	}
	if h.subs != nil {
		r.Get("/push/vapid-public-key", h.vapidKey)
		r.Post("/push/subscriptions", h.subscribe)
		r.Delete("/push/subscriptions", h.unsubscribe)
	}

	return r
}

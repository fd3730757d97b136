package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/dmitrymomot/stockalert/pkg/logger"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
)

var (
	// ErrExpired is returned when a push subscription is no longer valid (404/410).
	ErrExpired = errors.New("push subscription expired")

	// ErrInvalidSubscription is returned for subscriptions missing an endpoint or keys.
	ErrInvalidSubscription = errors.New("invalid push subscription")

	// ErrMissingVAPIDKeys is returned when the service is built without a key pair.
	ErrMissingVAPIDKeys = errors.New("missing VAPID keys")
)

// Config holds VAPID configuration.
type Config struct {
	VAPIDPublicKey  string        `env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string        `env:"VAPID_PRIVATE_KEY"`
	Subscriber      string        `env:"VAPID_SUBSCRIBER" envDefault:"mailto:alerts@stockalert.local"`
	TTL             time.Duration `env:"PUSH_TTL" envDefault:"24h"`
}

// Enabled reports whether both VAPID keys are set.
func (c Config) Enabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// Service delivers notification packages as Web Push messages to every
// stored subscription.
type Service struct {
	cfg    Config
	subs   *SubscriptionStore
	client webpush.HTTPClient
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the client used to reach push services.
func WithHTTPClient(c webpush.HTTPClient) Option {
	return func(s *Service) {
		s.client = c
	}
}

// WithLogger sets the logger for the Service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a push service with VAPID keys from cfg.
func NewService(cfg Config, subs *SubscriptionStore, opts ...Option) (*Service, error) {
	if !cfg.Enabled() {
		return nil, ErrMissingVAPIDKeys
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	s := &Service{
		cfg:    cfg,
		subs:   subs,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// VAPIDPublicKey returns the key clients need to subscribe.
func (s *Service) VAPIDPublicKey() string {
	return s.cfg.VAPIDPublicKey
}

// Send pushes payload to one subscription.
func (s *Service) Send(ctx context.Context, sub Subscription, payload []byte, urgency webpush.Urgency) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.Subscriber,
		TTL:             int(s.cfg.TTL / time.Second),
		Urgency:         urgency,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return ErrExpired
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}

// Deliver implements notifications.Channel. Expired subscriptions are
// removed. It fails only when every subscription failed.
func (s *Service) Deliver(ctx context.Context, pkg notifications.Package) error {
	subs, err := s.subs.List(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "no push subscriptions, skipping delivery",
			logger.NotificationID(pkg.UserInfo.NotificationID),
		)
		return nil
	}

	payload, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	urgency := UrgencyFor(pkg.Priority)
	var errs []error
	for _, sub := range subs {
		err := s.Send(ctx, sub, payload, urgency)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrExpired) {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "removing expired push subscription",
				slog.String("endpoint", sub.Endpoint),
			)
			if rmErr := s.subs.Remove(ctx, sub.Endpoint); rmErr != nil {
				s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to remove push subscription", logger.Error(rmErr))
			}
		} else {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "push delivery failed",
				slog.String("endpoint", sub.Endpoint),
				logger.Error(err),
			)
		}
		errs = append(errs, err)
	}

	if len(errs) == len(subs) {
		return errors.Join(errs...)
	}
	return nil
}

// UrgencyFor maps a priority to the Web Push Urgency header.
func UrgencyFor(p notifications.Priority) webpush.Urgency {
	switch p {
	case notifications.PriorityCritical, notifications.PriorityHigh:
		return webpush.UrgencyHigh
	case notifications.PriorityMedium:
		return webpush.UrgencyNormal
	default:
		return webpush.UrgencyLow
	}
}

// GenerateVAPIDKeys returns a new base64url-encoded P-256 key pair.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", fmt.Errorf("generate VAPID keys: %w", err)
	}
	return publicKey, privateKey, nil
}

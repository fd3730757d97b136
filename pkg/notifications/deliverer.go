package notifications

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/stockalert/pkg/logger"
)

// Package is the rendered payload handed to a delivery channel.
type Package struct {
	ChannelID string   `json:"channelId"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Priority  Priority `json:"priority"`
	Icon      string   `json:"icon,omitempty"`
	Color     string   `json:"color,omitempty"`
	Sound     bool     `json:"sound"`
	Vibrate   bool     `json:"vibrate"`
	SubText   string   `json:"subText,omitempty"`
	Group     string   `json:"group"`
	Actions   []string `json:"actions,omitempty"`
	UserInfo  UserInfo `json:"userInfo"`
}

// UserInfo is the opaque data attached to a delivered package.
type UserInfo struct {
	NotificationID string    `json:"notificationId"`
	Type           Type      `json:"type"`
	Metadata       *Metadata `json:"metadata,omitempty"`
}

// Channel delivers a rendered package to the user.
type Channel interface {
	Deliver(ctx context.Context, pkg Package) error
}

// ChannelFunc adapts a function to Channel.
type ChannelFunc func(ctx context.Context, pkg Package) error

// Deliver calls f.
func (f ChannelFunc) Deliver(ctx context.Context, pkg Package) error {
	return f(ctx, pkg)
}

// MultiChannel fans a package out to several channels.
type MultiChannel struct {
	channels []Channel
	logger   *slog.Logger
}

// MultiChannelOption configures a MultiChannel.
type MultiChannelOption func(*MultiChannel)

// WithMultiChannelLogger sets the logger for the MultiChannel.
func WithMultiChannelLogger(l *slog.Logger) MultiChannelOption {
	return func(m *MultiChannel) {
		m.logger = l
	}
}

// NewMultiChannel creates a channel that delivers through every given channel.
func NewMultiChannel(channels []Channel, opts ...MultiChannelOption) *MultiChannel {
	m := &MultiChannel{
		channels: channels,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Deliver sends pkg through all channels. It fails only when every channel
// failed; partial failures are logged.
func (m *MultiChannel) Deliver(ctx context.Context, pkg Package) error {
	var errs []error
	for i, ch := range m.channels {
		if err := ch.Deliver(ctx, pkg); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelWarn, "channel failed to deliver notification",
				logger.NotificationID(pkg.UserInfo.NotificationID),
				slog.Int("channel_index", i),
				logger.Error(err),
			)
			errs = append(errs, err)
		}
	}
	if len(m.channels) > 0 && len(errs) == len(m.channels) {
		return errors.Join(errs...)
	}
	return nil
}

// NoOpChannel discards every package.
type NoOpChannel struct{}

// Deliver does nothing and returns nil.
func (NoOpChannel) Deliver(context.Context, Package) error {
	return nil
}

package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/dmitrymomot/stockalert/pkg/notifications"
)

// Keys are the client's encryption keys from PushSubscription.toJSON().
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription is a browser push endpoint.
type Subscription struct {
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}

// Validate checks that the subscription can be delivered to.
func (s Subscription) Validate() error {
	if s.Endpoint == "" || s.Keys.P256dh == "" || s.Keys.Auth == "" {
		return ErrInvalidSubscription
	}
	u, err := url.Parse(s.Endpoint)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("%w: bad endpoint", ErrInvalidSubscription)
	}
	return nil
}

// SubscriptionStore keeps subscriptions as a JSON array under
// notifications.PushSubscriptionsKey.
type SubscriptionStore struct {
	kv notifications.KeyValueStore
	mu sync.Mutex
}

// NewSubscriptionStore creates a store backed by kv.
func NewSubscriptionStore(kv notifications.KeyValueStore) *SubscriptionStore {
	return &SubscriptionStore{kv: kv}
}

// List returns every stored subscription.
func (s *SubscriptionStore) List(ctx context.Context) ([]Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add stores sub, replacing the keys of an existing subscription with the same endpoint.
func (s *SubscriptionStore) Add(ctx context.Context, sub Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range subs {
		if subs[i].Endpoint == sub.Endpoint {
			subs[i] = sub
			replaced = true
		}
	}
	if !replaced {
		subs = append(subs, sub)
	}
	return s.save(ctx, subs)
}

// Remove deletes the subscription for endpoint. Unknown endpoints are ignored.
func (s *SubscriptionStore) Remove(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := subs[:0]
	for _, sub := range subs {
		if sub.Endpoint != endpoint {
			kept = append(kept, sub)
		}
	}
	if len(kept) == len(subs) {
		return nil
	}
	return s.save(ctx, kept)
}

func (s *SubscriptionStore) load(ctx context.Context) ([]Subscription, error) {
	raw, err := s.kv.Get(ctx, notifications.PushSubscriptionsKey)
	if err != nil {
		return nil, fmt.Errorf("load push subscriptions: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var subs []Subscription
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, fmt.Errorf("decode push subscriptions: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionStore) save(ctx context.Context, subs []Subscription) error {
	if subs == nil {
		subs = []Subscription{}
	}
	raw, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("encode push subscriptions: %w", err)
	}
	if err := s.kv.Set(ctx, notifications.PushSubscriptionsKey, raw); err != nil {
		return fmt.Errorf("save push subscriptions: %w", err)
	}
	return nil
}

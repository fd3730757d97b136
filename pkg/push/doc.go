// Package push delivers notification packages over the Web Push protocol.
//
// Subscriptions registered by clients are kept in the key-value store under
// notifications.PushSubscriptionsKey. Service implements notifications.Channel:
// each package is JSON-encoded, encrypted per subscription and signed with the
// VAPID key pair. Subscriptions the push service reports as gone are dropped.
package push

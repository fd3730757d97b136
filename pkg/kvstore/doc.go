// Package kvstore provides the local key-value stores the notification ledger
// and preferences are cached in.
//
// Memory keeps values for the lifetime of the process. SQLite keeps them in a
// single-table database managed by goose migrations and survives restarts.
// Both return (nil, nil) from Get for a missing key.
package kvstore

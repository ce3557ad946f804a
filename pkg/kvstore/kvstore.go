// Package kvstore persists keyed metadata items. Items are Go structs
// marshaled by the backend: dynamodbav tags for DynamoDB, json tags for
// Postgres.
package kvstore

import (
	"context"
	"errors"

	"github.com/JaimeStill/intake/pkg/lifecycle"
)

// ErrNotFound indicates no item exists for the requested key.
var ErrNotFound = errors.New("item not found")

// System reads and writes items keyed by a single string attribute.
type System interface {
	// Start registers a startup hook that verifies the table is reachable.
	Start(lc *lifecycle.Coordinator) error
	// Put writes item under key, replacing any existing item.
	Put(ctx context.Context, key string, item any) error
	// Get reads the item stored under key into out.
	// Returns ErrNotFound if no item exists.
	Get(ctx context.Context, key string, out any) error
	// Ping reports whether the table is reachable.
	Ping(ctx context.Context) error
}

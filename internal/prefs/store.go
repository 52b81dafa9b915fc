// Package prefs holds the key/value stores that persist visitor UI
// preferences between page loads.
package prefs

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("prefs: key not found")

// Store is a synchronous key/value slot scoped to one visitor.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Backend hands out visitor-scoped stores for server-side persistence.
type Backend interface {
	ForVisitor(visitorID string) Store
}

// Pruner is implemented by backends that keep preferences until told to drop
// them. Prune deletes values last written before the cutoff and reports how
// many it removed.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

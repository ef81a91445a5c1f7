// Package kvstore provides the flat key-value persistence contract backing
// accounts, the expense ledger, and settings. Values are stored as strings;
// typed accessors handle the bool, float and string-list encodings.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformedValue reports a stored value that cannot be decoded as the
// requested type. Callers surface it as a data-format failure rather than
// silently repairing the record.
var ErrMalformedValue = errors.New("malformed stored value")

// Store is a durable key-value string store with one flat namespace.
// There are no transactions; only one session writes at a time.
type Store interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error

	GetBool(ctx context.Context, key string) (bool, bool, error)
	SetBool(ctx context.Context, key string, value bool) error

	GetFloat(ctx context.Context, key string) (float64, bool, error)
	SetFloat(ctx context.Context, key string, value float64) error

	GetStringList(ctx context.Context, key string) ([]string, bool, error)
	SetStringList(ctx context.Context, key string, values []string) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	Close() error
}

func malformed(key string, cause error) error {
	return fmt.Errorf("key %s: %w: %v", key, ErrMalformedValue, cause)
}

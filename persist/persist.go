// Package persist stores editor state behind a small key-value port. The
// element list is saved as JSON under ElementsKey after every change and
// loaded back when an editor starts.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ElementsKey is the key the element list is stored under.
const ElementsKey = "elements"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("persist: store is closed")

// Port is a key-value store for project state.
type Port interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}

// Load decodes the JSON value stored under key.
func Load[T any](ctx context.Context, p Port, key string) (T, bool, error) {
	var v T
	data, ok, err := p.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("persist: decode %s: %w", key, err)
	}
	return v, true, nil
}

// Save stores v under key as JSON.
func Save[T any](ctx context.Context, p Port, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("persist: encode %s: %w", key, err)
	}
	return p.Put(ctx, key, data)
}

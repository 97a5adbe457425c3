package database

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Handle is a process-wide store connection that is established at most once.
//
// Concurrent first calls to Get share a single dial and all observe its
// result. A failed dial is not remembered: the next Get dials again.
type Handle[T any] struct {
	dial  func(ctx context.Context) (T, error)
	close func(T) error

	group singleflight.Group

	mu    sync.RWMutex
	conn  T
	ready bool
}

// NewHandle returns a Handle that connects with dial on first use and releases
// the connection with closer (which may be nil).
func NewHandle[T any](dial func(ctx context.Context) (T, error), closer func(T) error) *Handle[T] {
	return &Handle[T]{dial: dial, close: closer}
}

// Get returns the shared connection, dialing it if no caller has yet.
// Dial failures wrap ErrConnection.
func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	if conn, ok := h.cached(); ok {
		return conn, nil
	}

	v, err, _ := h.group.Do("dial", func() (any, error) {
		if conn, ok := h.cached(); ok {
			return conn, nil
		}
		// One caller dials on behalf of every waiter.
		conn, err := h.dial(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		h.conn, h.ready = conn, true
		h.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return v.(T), nil
}

func (h *Handle[T]) cached() (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conn, h.ready
}

// Close releases the connection if one was established. A later Get dials anew.
func (h *Handle[T]) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.ready {
		return nil
	}
	conn := h.conn
	var zero T
	h.conn, h.ready = zero, false
	if h.close == nil {
		return nil
	}
	return h.close(conn)
}

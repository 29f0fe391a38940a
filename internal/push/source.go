// Package push delivers overlay events that the backend publishes
// asynchronously. A Source hands out exactly one typed event channel; the
// dashboard bridge owns the subscription for the lifetime of the program.
package push

import (
	"context"
	"sync"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
)

// DefaultTopic is the push channel the backend publishes overlay updates on.
const DefaultTopic = "netsentinel/overlay_update"

// eventBuffer bounds how many undelivered events a source holds. When full,
// the oldest event is dropped: the overlay only ever shows the latest one.
const eventBuffer = 8

// Source is a push channel of overlay events.
type Source interface {
	// Subscribe registers the single listener and returns its channel. The
	// channel is closed by Close. Subscribing twice is an error.
	Subscribe(ctx context.Context) (<-chan backend.OverlayEvent, error)
	// Close unregisters the listener and releases the transport. Calling it
	// more than once is a no-op.
	Close() error
}

// ErrAlreadySubscribed is returned by a second Subscribe call.
var ErrAlreadySubscribed = errors.New(errors.ErrPush,
	"Push source already has a listener",
	"Create one source per dashboard")

// ErrClosed is returned by Subscribe after Close.
var ErrClosed = errors.New(errors.ErrPush, "Push source is closed", "")

// relay is the single-listener channel shared by every Source implementation.
type relay struct {
	mu         sync.Mutex
	ch         chan backend.OverlayEvent
	subscribed bool
	closed     bool
	dropped    int
}

func newRelay() *relay {
	return &relay{ch: make(chan backend.OverlayEvent, eventBuffer)}
}

func (r *relay) subscribe() (<-chan backend.OverlayEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if r.subscribed {
		return nil, ErrAlreadySubscribed
	}
	r.subscribed = true
	return r.ch, nil
}

// deliver queues ev without blocking the transport, evicting the oldest
// queued event when the buffer is full. Returns false after close.
func (r *relay) deliver(ev backend.OverlayEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	for {
		select {
		case r.ch <- ev:
			return true
		default:
		}
		select {
		case <-r.ch:
			r.dropped++
		default:
		}
	}
}

// close reports whether this call performed the close.
func (r *relay) close() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.closed = true
	close(r.ch)
	return true
}

func (r *relay) droppedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

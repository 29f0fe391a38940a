package dashboard

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/logger"
	"github.com/netsentinel/netsentinel/internal/push"
)

// Sender delivers a message into a running program. *tea.Program
// satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards push events into the Bubble Tea program via Send. It
// holds at most one subscription for its lifetime: Attach succeeds once,
// and Detach tears the subscription down once no matter how often it is
// called.
type Bridge struct {
	source push.Source
	log    logger.Logger

	mu       sync.Mutex
	attached bool
	cancel   context.CancelFunc
	done     chan struct{}

	detachOnce sync.Once
	detachErr  error
}

// NewBridge creates a bridge reading from source.
func NewBridge(source push.Source, log logger.Logger) *Bridge {
	if log == nil {
		log = logger.Noop()
	}
	return &Bridge{source: source, log: log}
}

// Attach subscribes to the source and starts relaying events to sender.
// A second call returns an error without subscribing again.
func (b *Bridge) Attach(ctx context.Context, sender Sender) error {
	b.mu.Lock()
	if b.attached {
		b.mu.Unlock()
		return errors.New(errors.ErrPush,
			"Push bridge is already attached",
			"Create one bridge per dashboard")
	}
	b.attached = true
	b.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	events, err := b.source.Subscribe(ctx)
	if err != nil {
		cancel()
		return errors.WrapWithCode(err, errors.ErrPush,
			"Couldn't subscribe to overlay updates",
			"The overlay will follow your settings only")
	}

	done := make(chan struct{})
	b.mu.Lock()
	b.cancel = cancel
	b.done = done
	b.mu.Unlock()

	go b.relay(ctx, events, sender, done)
	b.log.Debug("push: bridge attached")
	return nil
}

func (b *Bridge) relay(ctx context.Context, events <-chan backend.OverlayEvent, sender Sender, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				b.log.Warn("push: source closed")
				sender.Send(PushClosedMsg{})
				return
			}
			sender.Send(OverlayEventMsg{Event: ev})
		}
	}
}

// Detach stops relaying and closes the source. Only the first call has an
// effect; later calls return the first call's result.
func (b *Bridge) Detach() error {
	b.detachOnce.Do(func() {
		b.mu.Lock()
		cancel, done := b.cancel, b.done
		b.mu.Unlock()

		if cancel != nil {
			cancel()
			<-done
		}
		b.detachErr = b.source.Close()
		b.log.Debug("push: bridge detached")
	})
	return b.detachErr
}

package push

import (
	"context"

	"github.com/netsentinel/netsentinel/internal/backend"
)

// ChanSource is an in-process Source. Events are injected with Publish. It
// backs the dashboard when no broker is configured (nothing is ever
// published) and stands in for the broker in tests.
type ChanSource struct {
	r *relay
}

// NewChanSource creates an open in-process source.
func NewChanSource() *ChanSource {
	return &ChanSource{r: newRelay()}
}

// Subscribe implements Source.
func (s *ChanSource) Subscribe(ctx context.Context) (<-chan backend.OverlayEvent, error) {
	return s.r.subscribe()
}

// Publish queues an event. It reports false once the source is closed.
func (s *ChanSource) Publish(ev backend.OverlayEvent) bool {
	return s.r.deliver(ev)
}

// PublishJSON decodes a raw payload and publishes it.
func (s *ChanSource) PublishJSON(payload []byte) error {
	ev, err := backend.DecodeOverlayEvent(payload)
	if err != nil {
		return err
	}
	s.Publish(ev)
	return nil
}

// Dropped returns how many queued events were evicted unread.
func (s *ChanSource) Dropped() int {
	return s.r.droppedCount()
}

// Close implements Source.
func (s *ChanSource) Close() error {
	s.r.close()
	return nil
}

var _ Source = (*ChanSource)(nil)

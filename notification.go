package messageboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coregx/messageboard/model"
)

// Hub delivers board state-change events to zero or more subscribers.
//
// Contract:
//   - Publish is fire-and-forget and never blocks the mutating caller.
//   - Each subscriber receives events in publish order (FIFO per
//     subscriber); no cross-subscriber ordering is guaranteed.
//   - A slow subscriber drops events once its buffer fills. Delivery is
//     best-effort and a failed delivery never rolls back the mutation
//     that produced the event.
type Hub struct {
	logger Logger

	mu   sync.RWMutex
	subs map[uint64]chan model.Event
	seq  atomic.Uint64

	dropped atomic.Uint64
}

// NewHub creates a notification hub. A nil logger falls back to NoopLogger.
func NewHub(logger Logger) *Hub {
	if logger == nil {
		logger = &NoopLogger{}
	}
	return &Hub{
		logger: logger,
		subs:   map[uint64]chan model.Event{},
	}
}

// Publish delivers ev to all current subscribers without blocking.
// Events to a full subscriber buffer are dropped and counted.
func (h *Hub) Publish(ev model.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	// Snapshot subscribers so Publish doesn't hold the lock while sending.
	h.mu.RLock()
	chs := make([]chan model.Event, 0, len(h.subs))
	for _, ch := range h.subs {
		chs = append(chs, ch)
	}
	h.mu.RUnlock()

	for _, ch := range chs {
		// Non-blocking delivery. A subscriber may unsubscribe (and close
		// its channel) concurrently; recover from the send panic.
		func() {
			defer func() { _ = recover() }()
			select {
			case ch <- ev:
			default:
				h.dropped.Add(1)
				h.logger.Warnf("Dropped %s event for slow subscriber (uuid=%s)", ev.Kind, ev.UUID)
			}
		}()
	}
}

// Subscribe registers a new subscriber with the given channel buffer.
// Buffers <= 0 default to 16. The returned cancel function removes the
// subscriber and closes its channel; it is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan model.Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan model.Event, buffer)
	id := h.seq.Add(1)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			// Closing is safe because Publish recovers from send panics.
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns the total number of events dropped on full buffers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// RunLoggingSubscriber consumes hub events and logs them until ctx is
// canceled. It stands in for an external UI collaborator mirroring
// messageboard.message.update notifications.
func RunLoggingSubscriber(ctx context.Context, hub *Hub, logger Logger) {
	if logger == nil {
		logger = &NoopLogger{}
	}
	events, cancel := hub.Subscribe(64)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case model.EventMessageActivated, model.EventMessageDeactivated:
				logger.Infof("%s: %s uuid=%s lastupdate=%d", model.EventName, ev.Kind, ev.UUID, ev.LastUpdate)
			case model.EventConfigChanged:
				logger.Infof("%s: duration=%.1f speed=%g", ev.Kind, ev.Config.Duration, ev.Config.Speed)
			case model.EventBoardStatus:
				logger.Infof("%s: off=%v", ev.Kind, ev.Config.Off)
			default:
				logger.Debugf("unhandled event kind: %s", ev.Kind)
			}
		}
	}
}

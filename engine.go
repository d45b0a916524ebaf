package messageboard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/coregx/messageboard/model"
)

// maxTickInterval caps the activation tick period. Shorter rotation slots
// tick at duration/10 instead.
const maxTickInterval = time.Second

// ComputeActive derives the currently-displayable message set.
//
// It is a pure function of its inputs: a message is included iff the board
// is enabled and start <= now < end (half-open window, end exclusive). The
// result is ordered by start ascending, with uuid ascending as the
// deterministic tie-break. A disabled board yields an empty set.
func ComputeActive(messages []model.Message, enabled bool, now time.Time) []model.Message {
	if !enabled {
		return []model.Message{}
	}

	active := make([]model.Message, 0, len(messages))
	for i := range messages {
		if messages[i].ActiveAt(now) {
			active = append(active, messages[i])
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].Start != active[j].Start {
			return active[i].Start < active[j].Start
		}
		return active[i].UUID < active[j].UUID
	})
	return active
}

// Engine maintains the invariant linking message windows, the board on/off
// switch, and the current time to the derived active message set.
//
// The active set is recomputed on every mutation (via Recompute) and on a
// periodic tick (via Run) so messages transition in and out of activity
// purely by elapsed time. Each recomputation diffs against the previous
// set and emits exactly one activation or deactivation event per message
// transition, so ticks where nothing changed publish nothing.
//
// Thread safety: safe for concurrent use. Recompute is idempotent, so
// concurrent ticks and command-driven recomputations cannot double-emit.
type Engine struct {
	store  *MessageStore
	config *ConfigService
	hub    *Hub
	clock  Clock
	logger Logger

	interval time.Duration // 0 means derive from config at Run

	mu     sync.Mutex
	active []model.Message
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// NewEngine creates an activation engine with the provided options.
//
// Required options:
//   - WithEngineStore: message store to scan
//   - WithEngineConfig: board configuration service
//   - WithEngineLogger: logger instance
//
// Optional options:
//   - WithEngineHub: hub for activation events (default: none)
//   - WithEngineClock: time source (default: SystemClock)
//   - WithEngineTickInterval: fixed tick period (default: min(1s, duration/10))
func NewEngine(opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		clock:  SystemClock{},
		active: []model.Message{},
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, NewErrorWithCause(ErrCodeConfiguration, "failed to apply engine option", err)
		}
	}

	if e.store == nil {
		return nil, NewError(ErrCodeConfiguration, "MessageStore is required (use WithEngineStore)")
	}
	if e.config == nil {
		return nil, NewError(ErrCodeConfiguration, "ConfigService is required (use WithEngineConfig)")
	}
	if e.logger == nil {
		return nil, NewError(ErrCodeConfiguration, "Logger is required (use WithEngineLogger)")
	}

	return e, nil
}

// WithEngineStore sets the message store. Required.
func WithEngineStore(store *MessageStore) EngineOption {
	return func(e *Engine) error {
		if store == nil {
			return fmt.Errorf("store cannot be nil")
		}
		e.store = store
		return nil
	}
}

// WithEngineConfig sets the configuration service. Required.
func WithEngineConfig(config *ConfigService) EngineOption {
	return func(e *Engine) error {
		if config == nil {
			return fmt.Errorf("config cannot be nil")
		}
		e.config = config
		return nil
	}
}

// WithEngineLogger sets the logger instance. Required.
func WithEngineLogger(logger Logger) EngineOption {
	return func(e *Engine) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		e.logger = logger
		return nil
	}
}

// WithEngineHub sets the notification hub for activation events.
func WithEngineHub(hub *Hub) EngineOption {
	return func(e *Engine) error {
		if hub == nil {
			return fmt.Errorf("hub cannot be nil")
		}
		e.hub = hub
		return nil
	}
}

// WithEngineClock sets the time source.
func WithEngineClock(clock Clock) EngineOption {
	return func(e *Engine) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		e.clock = clock
		return nil
	}
}

// WithEngineTickInterval fixes the tick period instead of deriving it from
// the configured rotation duration. Must be > 0.
func WithEngineTickInterval(interval time.Duration) EngineOption {
	return func(e *Engine) error {
		if interval <= 0 {
			return fmt.Errorf("tick interval must be > 0, got %v", interval)
		}
		e.interval = interval
		return nil
	}
}

// Active returns a copy of the current active message set.
func (e *Engine) Active() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Message, len(e.active))
	copy(out, e.active)
	return out
}

// Recompute rescans the store, rebuilds the active set, and emits one
// event per message entering or leaving it. Returns the new active set.
func (e *Engine) Recompute() []model.Message {
	// Scan, diff, and commit under one lock. A tick that scanned before a
	// mutation must not commit its stale set after it, or the next
	// recomputation would re-emit transitions that never happened.
	e.mu.Lock()
	now := e.clock.Now()
	next := ComputeActive(e.store.List(), e.config.IsOn(), now)
	prev := e.active
	e.active = next
	events := diffActive(prev, next, now)
	e.mu.Unlock()

	for _, ev := range events {
		e.logger.Debugf("%s %s", ev.Kind, ev.UUID)
		if e.hub != nil {
			e.hub.Publish(ev)
		}
	}

	out := make([]model.Message, len(next))
	copy(out, next)
	return out
}

// diffActive computes the activation transitions between two active sets.
func diffActive(prev, next []model.Message, now time.Time) []model.Event {
	prevSet := make(map[string]struct{}, len(prev))
	for i := range prev {
		prevSet[prev[i].UUID] = struct{}{}
	}
	nextSet := make(map[string]struct{}, len(next))
	for i := range next {
		nextSet[next[i].UUID] = struct{}{}
	}

	var events []model.Event
	for i := range next {
		if _, ok := prevSet[next[i].UUID]; !ok {
			events = append(events, model.NewMessageEvent(model.EventMessageActivated, next[i], now))
		}
	}
	for i := range prev {
		if _, ok := nextSet[prev[i].UUID]; !ok {
			events = append(events, model.NewMessageEvent(model.EventMessageDeactivated, prev[i], now))
		}
	}
	return events
}

// TickInterval returns the effective tick period: the configured fixed
// interval when set, otherwise min(1s, duration/10).
func (e *Engine) TickInterval() time.Duration {
	if e.interval > 0 {
		return e.interval
	}
	derived := time.Duration(e.config.Current().Duration/10*float64(time.Second))
	if derived <= 0 || derived > maxTickInterval {
		return maxTickInterval
	}
	return derived
}

// Run drives periodic recomputation until ctx is canceled, so messages
// expire and activate purely by time. Each tick fully completes its
// scan-diff-notify cycle; there are no partial-tick side effects, and the
// next tick covers anything a failed one missed.
//
// This method blocks and should typically be run in a goroutine.
func (e *Engine) Run(ctx context.Context) {
	interval := e.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Infof("Activation engine started (tick=%v)", interval)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Activation engine stopped")
			return
		case <-ticker.C:
			e.Recompute()
		}
	}
}

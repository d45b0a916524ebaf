package messageboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/coregx/messageboard/model"
)

// Board is the single logical owner of the message store, the board
// configuration, and the derived active set.
//
// All mutations serialize through one mutex, so concurrent commands are
// applied in receipt order and a recomputation never observes a partially
// applied mutation. Reads go straight to the underlying services, which
// hand out consistent snapshots. Notification delivery happens outside the
// mutex via the hub's non-blocking publish.
type Board struct {
	store  *MessageStore
	config *ConfigService
	engine *Engine
	logger Logger

	mu sync.Mutex
}

// BoardOption configures a Board.
type BoardOption func(*Board) error

// NewBoard creates a Board facade over the provided services.
//
// Required options:
//   - WithBoardStore, WithBoardConfig, WithBoardEngine, WithBoardLogger
func NewBoard(opts ...BoardOption) (*Board, error) {
	b := &Board{}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, NewErrorWithCause(ErrCodeConfiguration, "failed to apply board option", err)
		}
	}

	if b.store == nil {
		return nil, NewError(ErrCodeConfiguration, "MessageStore is required (use WithBoardStore)")
	}
	if b.config == nil {
		return nil, NewError(ErrCodeConfiguration, "ConfigService is required (use WithBoardConfig)")
	}
	if b.engine == nil {
		return nil, NewError(ErrCodeConfiguration, "Engine is required (use WithBoardEngine)")
	}
	if b.logger == nil {
		return nil, NewError(ErrCodeConfiguration, "Logger is required (use WithBoardLogger)")
	}

	return b, nil
}

// WithBoardStore sets the message store. Required.
func WithBoardStore(store *MessageStore) BoardOption {
	return func(b *Board) error {
		if store == nil {
			return fmt.Errorf("store cannot be nil")
		}
		b.store = store
		return nil
	}
}

// WithBoardConfig sets the configuration service. Required.
func WithBoardConfig(config *ConfigService) BoardOption {
	return func(b *Board) error {
		if config == nil {
			return fmt.Errorf("config cannot be nil")
		}
		b.config = config
		return nil
	}
}

// WithBoardEngine sets the activation engine. Required.
func WithBoardEngine(engine *Engine) BoardOption {
	return func(b *Board) error {
		if engine == nil {
			return fmt.Errorf("engine cannot be nil")
		}
		b.engine = engine
		return nil
	}
}

// WithBoardLogger sets the logger instance. Required.
func WithBoardLogger(logger Logger) BoardOption {
	return func(b *Board) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		b.logger = logger
		return nil
	}
}

// Start loads persisted state and seeds the active set.
// Call once before serving commands or running the engine tick.
func (b *Board) Start(ctx context.Context) error {
	if err := b.config.Load(ctx); err != nil {
		return err
	}
	if err := b.store.Load(ctx); err != nil {
		return err
	}
	b.engine.Recompute()
	return nil
}

// AddMessage stores a new scheduled message and recomputes the active set.
// If the message is immediately active, a message.activated event fires.
func (b *Board) AddMessage(ctx context.Context, text string, start, end int64) (model.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	msg, err := b.store.Add(ctx, text, start, end)
	if err != nil {
		return model.Message{}, err
	}
	b.engine.Recompute()
	return msg, nil
}

// DeleteMessage removes a message and recomputes the active set.
// If the removed message was active, a message.deactivated event fires.
func (b *Board) DeleteMessage(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.store.Delete(ctx, id); err != nil {
		return err
	}
	b.engine.Recompute()
	return nil
}

// ReplaceMessage replaces (or adds) a cycling message under the given uuid
// with a fresh one-week window, then recomputes the active set.
func (b *Board) ReplaceMessage(ctx context.Context, id, text string) (model.Message, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	msg, replaced, err := b.store.Replace(ctx, id, text)
	if err != nil {
		return model.Message{}, false, err
	}
	b.engine.Recompute()
	return msg, replaced, nil
}

// GetMessage retrieves a stored message by uuid.
func (b *Board) GetMessage(id string) (model.Message, error) {
	return b.store.Get(id)
}

// Messages returns all stored messages in insertion order.
func (b *Board) Messages() []model.Message {
	return b.store.List()
}

// Active returns the currently-displayable message set.
func (b *Board) Active() []model.Message {
	return b.engine.Active()
}

// SaveConfiguration persists new rotation duration and speed values.
// The active set is unaffected; subscribers get a config.changed event.
func (b *Board) SaveConfiguration(ctx context.Context, duration, speed float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.config.Save(ctx, duration, speed)
}

// TurnOn enables the board and repopulates the active set from the current
// time. Idempotent: enabling an on board changes nothing.
func (b *Board) TurnOn(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed, err := b.config.TurnOn(ctx)
	if err != nil {
		return err
	}
	if changed {
		b.engine.Recompute()
	}
	return nil
}

// TurnOff disables the board, immediately emptying the active set.
// Idempotent like TurnOn.
func (b *Board) TurnOff(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed, err := b.config.TurnOff(ctx)
	if err != nil {
		return err
	}
	if changed {
		b.engine.Recompute()
	}
	return nil
}

// IsOn reports whether the board is globally enabled.
func (b *Board) IsOn() bool {
	return b.config.IsOn()
}

// Configuration returns a copy of the effective board configuration.
func (b *Board) Configuration() model.BoardConfig {
	return b.config.Current()
}

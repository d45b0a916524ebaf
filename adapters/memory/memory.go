// Package memory provides in-memory repository implementations.
//
// Nothing survives a restart; intended for tests and for embedding the
// engine without durable storage.
package memory

import (
	"context"
	"sync"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/model"
)

// MessageRepository implements messageboard.MessageRepository in memory.
type MessageRepository struct {
	mu       sync.Mutex
	messages []model.Message
	seq      int64

	// FailNext forces the next mutation to fail with the given error.
	// Lets tests assert that in-memory state stays untouched when
	// persistence fails.
	FailNext error
}

// NewMessageRepository creates an empty in-memory message repository.
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) takeFailure() error {
	err := r.FailNext
	r.FailNext = nil
	return err
}

// List retrieves all messages in insertion order.
func (r *MessageRepository) List(_ context.Context) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Message, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

// FindByUUID retrieves a message by its public identifier.
func (r *MessageRepository) FindByUUID(_ context.Context, id string) (model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].UUID == id {
			return r.messages[i], nil
		}
	}
	return model.Message{}, messageboard.ErrNoData
}

// Save creates or updates a message.
func (r *MessageRepository) Save(_ context.Context, m model.Message) (model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return m, err
	}

	if m.ID == 0 {
		r.seq++
		m.ID = r.seq
		r.messages = append(r.messages, m)
		return m, nil
	}

	for i := range r.messages {
		if r.messages[i].ID == m.ID {
			r.messages[i] = m
			return m, nil
		}
	}
	return m, messageboard.ErrNoData
}

// Delete removes a message.
func (r *MessageRepository) Delete(_ context.Context, m model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return err
	}

	for i := range r.messages {
		if r.messages[i].UUID == m.UUID {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return messageboard.ErrNoData
}

// ConfigRepository implements messageboard.ConfigRepository in memory.
type ConfigRepository struct {
	mu    sync.Mutex
	cfg   model.BoardConfig
	saved bool

	// FailNext forces the next Save to fail with the given error.
	FailNext error
}

// NewConfigRepository creates an empty in-memory config repository.
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// Load retrieves the saved configuration, or ErrNoData before any save.
func (r *ConfigRepository) Load(_ context.Context) (model.BoardConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.saved {
		return model.BoardConfig{}, messageboard.ErrNoData
	}
	return r.cfg, nil
}

// Save stores the configuration.
func (r *ConfigRepository) Save(_ context.Context, cfg model.BoardConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FailNext; err != nil {
		r.FailNext = nil
		return err
	}

	r.cfg = cfg
	r.saved = true
	return nil
}

package messageboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/coregx/messageboard/model"
)

// replaceWindowSeconds is the window applied by Replace when re-adding a
// message: one week, matching the board's cycling-message convention.
const replaceWindowSeconds = 604800

// MessageStore owns the durable collection of scheduled messages.
//
// It validates and persists mutations through a MessageRepository and keeps
// an in-memory snapshot in insertion order for lock-free reads by the
// activation engine. The snapshot is only updated after the repository
// write succeeds, so durable and in-memory truth cannot diverge.
//
// Thread safety: safe for concurrent use.
type MessageStore struct {
	repo   MessageRepository
	clock  Clock
	logger Logger

	mu       sync.RWMutex
	messages []model.Message
}

// StoreOption configures a MessageStore.
type StoreOption func(*MessageStore) error

// NewMessageStore creates a MessageStore with the provided options.
//
// Required options:
//   - WithStoreRepository: message persistence
//   - WithStoreLogger: logger instance
//
// Optional options:
//   - WithStoreClock: clock used for Replace windows (default: SystemClock)
func NewMessageStore(opts ...StoreOption) (*MessageStore, error) {
	s := &MessageStore{
		clock: SystemClock{},
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, NewErrorWithCause(ErrCodeConfiguration, "failed to apply store option", err)
		}
	}

	if s.repo == nil {
		return nil, NewError(ErrCodeConfiguration, "MessageRepository is required (use WithStoreRepository)")
	}
	if s.logger == nil {
		return nil, NewError(ErrCodeConfiguration, "Logger is required (use WithStoreLogger)")
	}

	return s, nil
}

// WithStoreRepository sets the message repository. Required.
func WithStoreRepository(repo MessageRepository) StoreOption {
	return func(s *MessageStore) error {
		if repo == nil {
			return fmt.Errorf("repo cannot be nil")
		}
		s.repo = repo
		return nil
	}
}

// WithStoreLogger sets the logger instance. Required.
func WithStoreLogger(logger Logger) StoreOption {
	return func(s *MessageStore) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithStoreClock sets the clock used for Replace windows.
func WithStoreClock(clock Clock) StoreOption {
	return func(s *MessageStore) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		s.clock = clock
		return nil
	}
}

// Load warms the in-memory snapshot from the repository.
// Call once at startup before serving commands.
func (s *MessageStore) Load(ctx context.Context) error {
	messages, err := s.repo.List(ctx)
	if err != nil && !IsNoData(err) {
		return NewErrorWithCause(ErrCodePersistence, "failed to load messages", err)
	}

	s.mu.Lock()
	s.messages = messages
	s.mu.Unlock()

	s.logger.Infof("Loaded %d stored messages", len(messages))
	return nil
}

// Add validates and stores a new message, assigning it a fresh uuid.
//
// Fails with a VALIDATION_ERROR when text is empty or start >= end, and
// with a PERSISTENCE_ERROR when the repository write fails; in both cases
// the store is unchanged.
func (s *MessageStore) Add(ctx context.Context, text string, start, end int64) (model.Message, error) {
	msg := model.NewMessage(text, start, end)
	if err := msg.Validate(); err != nil {
		return model.Message{}, NewErrorWithCause(ErrCodeValidation, "invalid message", err)
	}

	saved, err := s.repo.Save(ctx, msg)
	if err != nil {
		return model.Message{}, NewErrorWithCause(ErrCodePersistence, "failed to save message", err)
	}

	s.mu.Lock()
	s.messages = append(s.messages, saved)
	s.mu.Unlock()

	s.logger.Debugf("Added message: %s", saved)
	return saved, nil
}

// Delete removes the message with the given uuid.
// Fails with a NOT_FOUND error when the uuid is unknown; the store is
// unchanged. Returns the removed message so callers can diff active state.
func (s *MessageStore) Delete(ctx context.Context, id string) (model.Message, error) {
	msg, err := s.Get(id)
	if err != nil {
		return model.Message{}, err
	}

	if err := s.repo.Delete(ctx, msg); err != nil {
		return model.Message{}, NewErrorWithCause(ErrCodePersistence, "failed to delete message", err)
	}

	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].UUID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.logger.Debugf("Deleted message %s", id)
	return msg, nil
}

// Replace swaps the text of the message with the given uuid, resetting its
// window to now → now+1week. The uuid survives the replacement; to a
// reader the message is a fresh one under the same identifier. When the
// uuid is unknown the message is added instead; the returned bool reports
// whether an existing message was replaced.
//
// The replacement is a single repository write reusing the existing
// surrogate key, so a failed write leaves the original message in place.
func (s *MessageStore) Replace(ctx context.Context, id, text string) (model.Message, bool, error) {
	now := s.clock.Now().Unix()

	msg := model.NewMessage(text, now, now+replaceWindowSeconds)
	if id != "" {
		msg.UUID = id
	}
	if err := msg.Validate(); err != nil {
		return model.Message{}, false, NewErrorWithCause(ErrCodeValidation, "invalid message", err)
	}

	existing, err := s.Get(msg.UUID)
	replaced := err == nil
	if replaced {
		msg.ID = existing.ID
	}

	saved, err := s.repo.Save(ctx, msg)
	if err != nil {
		return model.Message{}, false, NewErrorWithCause(ErrCodePersistence, "failed to save message", err)
	}

	s.mu.Lock()
	if replaced {
		for i := range s.messages {
			if s.messages[i].UUID == saved.UUID {
				s.messages[i] = saved
				break
			}
		}
	} else {
		s.messages = append(s.messages, saved)
	}
	s.mu.Unlock()

	if replaced {
		s.logger.Debugf("Replaced message %s with %q", saved.UUID, text)
	} else {
		s.logger.Debugf("Message %s added instead of replaced", saved.UUID)
	}
	return saved, replaced, nil
}

// Get retrieves a message from the snapshot by uuid.
// Fails with a NOT_FOUND error when the uuid is unknown.
func (s *MessageStore) Get(id string) (model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.messages {
		if s.messages[i].UUID == id {
			return s.messages[i], nil
		}
	}
	return model.Message{}, NewError(ErrCodeNotFound, fmt.Sprintf("message not found: %s", id))
}

// List returns a copy of all stored messages in insertion order.
func (s *MessageStore) List() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of stored messages.
func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

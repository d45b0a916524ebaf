package messageboard

import (
	"context"

	"github.com/coregx/messageboard/model"
)

// MessageRepository defines the persistence interface for scheduled messages.
//
// Implementations must be safe for concurrent use. The bounded scale of a
// single board (tens of messages) means List carries no pagination.
type MessageRepository interface {
	// List retrieves all stored messages in insertion order.
	// Returns an empty slice when the board is empty.
	List(ctx context.Context) ([]model.Message, error)

	// FindByUUID retrieves a message by its public identifier.
	// Returns ErrNoData if not found.
	FindByUUID(ctx context.Context, id string) (model.Message, error)

	// Save creates a new message (if ID=0) or updates an existing one.
	// Returns the saved message with populated ID.
	Save(ctx context.Context, m model.Message) (model.Message, error)

	// Delete permanently removes a message from storage.
	Delete(ctx context.Context, m model.Message) error
}

// ConfigRepository defines the persistence interface for the board
// configuration singleton.
type ConfigRepository interface {
	// Load retrieves the persisted configuration.
	// Returns ErrNoData when nothing has been saved yet; callers fall back
	// to model.DefaultBoardConfig.
	Load(ctx context.Context) (model.BoardConfig, error)

	// Save persists the configuration, replacing any previous value.
	Save(ctx context.Context, cfg model.BoardConfig) error
}

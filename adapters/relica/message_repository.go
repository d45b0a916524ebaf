package relica

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coregx/relica"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/model"
)

// MessageRepository implements messageboard.MessageRepository using Relica.
type MessageRepository struct {
	db        *relica.DB
	tableName string
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(sqlDB *sql.DB, driverName string) *MessageRepository {
	return &MessageRepository{
		db:        relica.WrapDB(sqlDB, driverName),
		tableName: model.Message{}.TableName(),
	}
}

// List retrieves all messages in insertion order.
func (r *MessageRepository) List(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message

	err := r.db.WithContext(ctx).Select("*").
		From(r.tableName).
		OrderBy("id ASC").
		All(&messages)

	if err != nil {
		return nil, messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to list messages", err)
	}

	if len(messages) == 0 {
		return []model.Message{}, nil
	}
	return messages, nil
}

// FindByUUID retrieves a message by its public identifier.
func (r *MessageRepository) FindByUUID(ctx context.Context, id string) (model.Message, error) {
	var msg model.Message

	err := r.db.WithContext(ctx).Select("*").
		From(r.tableName).
		Where("uuid = ?", id).
		One(&msg)

	if errors.Is(err, sql.ErrNoRows) {
		return msg, messageboard.ErrNoData
	}
	if err != nil {
		return msg, messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to find message by uuid", err)
	}

	return msg, nil
}

// Save creates or updates a message.
func (r *MessageRepository) Save(ctx context.Context, m model.Message) (model.Message, error) {
	if m.ID == 0 {
		// Insert using Model() API - auto-populates m.ID
		err := r.db.WithContext(ctx).Model(&m).Table(r.tableName).Insert()
		if err != nil {
			return m, messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to insert message", err)
		}
		return m, nil
	}

	// Update using Model() API - auto WHERE id = ?
	err := r.db.WithContext(ctx).Model(&m).Table(r.tableName).Update()
	if err != nil {
		return m, messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to update message", err)
	}

	return m, nil
}

// Delete removes a message.
func (r *MessageRepository) Delete(ctx context.Context, m model.Message) error {
	if m.ID == 0 {
		// Resolve the surrogate key so Model().Delete() has a WHERE id.
		loaded, err := r.FindByUUID(ctx, m.UUID)
		if err != nil {
			return err
		}
		m = loaded
	}

	err := r.db.WithContext(ctx).Model(&m).Table(r.tableName).Delete()
	if err != nil {
		return messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to delete message", err)
	}

	return nil
}

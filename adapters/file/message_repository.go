package file

import (
	"context"
	"fmt"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/model"
)

// messageRepository implements messageboard.MessageRepository over the
// shared board document.
type messageRepository struct {
	store *store
}

func (r *messageRepository) List(_ context.Context) ([]model.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]model.Message, 0, len(r.store.doc.Messages))
	for i, d := range r.store.doc.Messages {
		out = append(out, toMessage(d, int64(i+1)))
	}
	return out, nil
}

func (r *messageRepository) FindByUUID(_ context.Context, id string) (model.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, d := range r.store.doc.Messages {
		if d.UUID == id {
			return toMessage(d, int64(i+1)), nil
		}
	}
	return model.Message{}, messageboard.ErrNoData
}

func (r *messageRepository) Save(_ context.Context, m model.Message) (model.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entry := docMessage{UUID: m.UUID, Message: m.Text, Start: m.Start, End: m.End}

	appended := false
	var prev docMessage
	prevIdx := -1

	if m.ID == 0 {
		r.store.doc.Messages = append(r.store.doc.Messages, entry)
		r.store.seq++
		m.ID = r.store.seq
		appended = true
	} else {
		for i := range r.store.doc.Messages {
			if r.store.doc.Messages[i].UUID == m.UUID {
				prev = r.store.doc.Messages[i]
				prevIdx = i
				r.store.doc.Messages[i] = entry
				break
			}
		}
		if prevIdx < 0 {
			return m, messageboard.NewError(messageboard.ErrCodePersistence,
				fmt.Sprintf("message %s not in document", m.UUID))
		}
	}

	if err := r.store.flushLocked(); err != nil {
		// Roll the in-memory document back so it keeps matching the file.
		if appended {
			r.store.doc.Messages = r.store.doc.Messages[:len(r.store.doc.Messages)-1]
			r.store.seq--
		} else {
			r.store.doc.Messages[prevIdx] = prev
		}
		return m, messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to write document", err)
	}
	return m, nil
}

func (r *messageRepository) Delete(_ context.Context, m model.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	idx := -1
	for i := range r.store.doc.Messages {
		if r.store.doc.Messages[i].UUID == m.UUID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return messageboard.ErrNoData
	}

	removed := r.store.doc.Messages[idx]
	r.store.doc.Messages = append(r.store.doc.Messages[:idx], r.store.doc.Messages[idx+1:]...)

	if err := r.store.flushLocked(); err != nil {
		// Restore on failed write.
		r.store.doc.Messages = append(r.store.doc.Messages[:idx],
			append([]docMessage{removed}, r.store.doc.Messages[idx:]...)...)
		return messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to write document", err)
	}
	return nil
}

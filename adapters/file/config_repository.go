package file

import (
	"context"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/model"
)

// configRepository implements messageboard.ConfigRepository over the
// shared board document.
type configRepository struct {
	store *store
}

func (r *configRepository) Load(_ context.Context) (model.BoardConfig, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.haveSaved {
		return model.BoardConfig{}, messageboard.ErrNoData
	}
	return model.BoardConfig{
		Duration: r.store.doc.Duration,
		Speed:    r.store.doc.Speed,
		Off:      r.store.doc.Status.Off,
	}, nil
}

func (r *configRepository) Save(_ context.Context, cfg model.BoardConfig) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	prevDuration, prevSpeed, prevOff := r.store.doc.Duration, r.store.doc.Speed, r.store.doc.Status.Off
	r.store.doc.Duration = cfg.Duration
	r.store.doc.Speed = cfg.Speed
	r.store.doc.Status.Off = cfg.Off

	if err := r.store.flushLocked(); err != nil {
		r.store.doc.Duration = prevDuration
		r.store.doc.Speed = prevSpeed
		r.store.doc.Status.Off = prevOff
		return messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to write document", err)
	}
	return nil
}

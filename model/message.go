// Package model contains the messageboard domain models.
//
// Models are rich: they carry the window arithmetic and validation rules
// used by the scheduling engine, following Domain-Driven Design.
package model

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Message is a scheduled board message with a display time window.
//
// A message is eligible for display during the half-open interval
// [Start, End): it activates the instant Start is reached and expires the
// instant End is reached. Messages are immutable once created; replacing
// one means deleting it and adding a new one. Expired messages remain
// stored until explicitly deleted.
type Message struct {
	ID        int64     `json:"-" db:"id"`                 // storage surrogate key
	UUID      string    `json:"uuid" db:"uuid"`            // opaque public identifier
	Text      string    `json:"message" db:"message"`      // displayed text
	Start     int64     `json:"start" db:"start_at"`       // window start, epoch seconds
	End       int64     `json:"end" db:"end_at"`           // window end, epoch seconds (exclusive)
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // insertion timestamp
}

// NewMessage creates a message with a freshly assigned uuid.
// It does not validate; call Validate before persisting.
func NewMessage(text string, start, end int64) Message {
	return Message{
		ID:        0,
		UUID:      uuid.NewString(),
		Text:      text,
		Start:     start,
		End:       end,
		CreatedAt: time.Now(),
	}
}

// TableName returns the database table name for Message.
func (m Message) TableName() string {
	return tablePrefix + "message"
}

// Validate checks the message invariants: non-empty text and Start < End.
func (m Message) Validate() error {
	if err := validation.ValidateStruct(&m,
		validation.Field(&m.UUID, validation.Required),
		validation.Field(&m.Text, validation.Required),
	); err != nil {
		return err
	}
	if m.Start >= m.End {
		return fmt.Errorf("start (%d) must be before end (%d)", m.Start, m.End)
	}
	return nil
}

// ActiveAt reports whether now falls inside the message window [Start, End).
// Board on/off state is not the message's concern; the engine combines both.
func (m Message) ActiveAt(now time.Time) bool {
	ts := now.Unix()
	return m.Start <= ts && ts < m.End
}

// Expired reports whether the window has fully elapsed at now.
// End is exclusive, so a message whose End equals now is already expired.
func (m Message) Expired(now time.Time) bool {
	return now.Unix() >= m.End
}

// Window returns the message window duration.
func (m Message) Window() time.Duration {
	return time.Duration(m.End-m.Start) * time.Second
}

func (m Message) String() string {
	return fmt.Sprintf("Message %q [%d:%d] %s", m.Text, m.Start, m.End, m.UUID)
}

package model

import "time"

// EventName is the qualified event name consumed by external UI layers.
// It is carried on every message activation state change so transports can
// route the event without inspecting the kind.
const EventName = "messageboard.message.update"

// EventKind categorizes a board state change.
type EventKind string

const (
	// EventMessageActivated fires when a message enters the active set.
	EventMessageActivated EventKind = "message.activated"

	// EventMessageDeactivated fires when a message leaves the active set,
	// whether by expiry, deletion, or the board turning off.
	EventMessageDeactivated EventKind = "message.deactivated"

	// EventConfigChanged fires when duration or speed are saved.
	EventConfigChanged EventKind = "config.changed"

	// EventBoardStatus fires when the board is switched on or off.
	EventBoardStatus EventKind = "board.status"
)

// Event is a board state-change notification.
//
// Events are fire-and-forget snapshots: the fields relevant to the kind are
// copied at publish time, so subscribers never observe later mutations.
type Event struct {
	Kind EventKind `json:"kind"`

	// UUID identifies the affected message for message.* kinds.
	UUID string `json:"uuid,omitempty"`

	// Message is a snapshot of the affected message for message.* kinds.
	Message *Message `json:"message,omitempty"`

	// LastUpdate is the epoch second at which the transition was observed.
	LastUpdate int64 `json:"lastupdate,omitempty"`

	// Config is a snapshot of the configuration for config.changed and
	// board.status kinds.
	Config *BoardConfig `json:"config,omitempty"`

	// At is the publish timestamp.
	At time.Time `json:"at"`
}

// NewMessageEvent builds a message.* event with a snapshot of msg.
func NewMessageEvent(kind EventKind, msg Message, now time.Time) Event {
	snapshot := msg
	return Event{
		Kind:       kind,
		UUID:       msg.UUID,
		Message:    &snapshot,
		LastUpdate: now.Unix(),
		At:         now,
	}
}

// NewConfigEvent builds a config.changed or board.status event with a
// snapshot of cfg.
func NewConfigEvent(kind EventKind, cfg BoardConfig, now time.Time) Event {
	snapshot := cfg
	return Event{
		Kind:       kind,
		Config:     &snapshot,
		LastUpdate: now.Unix(),
		At:         now,
	}
}

package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// tablePrefix is prepended to every table name so the board can share a
// database with its host application.
const tablePrefix = "board_"

// Named scroll speed factors carried over from the hardware defaults.
// Speed is opaque to the scheduling logic; any positive float is accepted.
const (
	SpeedSlow   = 0.0025
	SpeedNormal = 0.005
	SpeedFast   = 0.0075
)

// Default configuration applied when nothing has been persisted yet.
const (
	DefaultDuration = 60.0
	DefaultSpeed    = SpeedNormal
)

// BoardConfig is the board-wide singleton configuration.
//
// It persists across restarts and is mutated only through an explicit
// save. Off is stored rather than "enabled" to match the persisted
// layout's status block.
type BoardConfig struct {
	Duration float64 `json:"duration" db:"duration"` // seconds a message is shown per rotation slot
	Speed    float64 `json:"speed" db:"speed"`       // scroll speed factor
	Off      bool    `json:"off" db:"off"`           // global on/off switch (true = board disabled)
}

// TableName returns the database table name for BoardConfig.
func (c BoardConfig) TableName() string {
	return tablePrefix + "config"
}

// DefaultBoardConfig returns the configuration used before any save:
// 60 second rotation slots at normal speed, board enabled.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Duration: DefaultDuration,
		Speed:    DefaultSpeed,
		Off:      false,
	}
}

// Validate checks that duration and speed are strictly positive.
func (c BoardConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Duration, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.Speed, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// Enabled reports whether the board is globally on.
func (c BoardConfig) Enabled() bool { return !c.Off }

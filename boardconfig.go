package messageboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/coregx/messageboard/model"
)

// ConfigService owns the board configuration singleton.
//
// Configuration follows an explicit load-at-start / save-on-change
// lifecycle: Load seeds the in-memory copy (falling back to defaults when
// nothing was ever saved) and every mutation persists before the in-memory
// copy is updated. A failed persistence write therefore leaves the
// effective configuration untouched.
//
// Thread safety: safe for concurrent use.
type ConfigService struct {
	repo   ConfigRepository
	hub    *Hub
	clock  Clock
	logger Logger

	mu  sync.RWMutex
	cfg model.BoardConfig
}

// ConfigOption configures a ConfigService.
type ConfigOption func(*ConfigService) error

// NewConfigService creates a ConfigService with the provided options.
//
// Required options:
//   - WithConfigRepository: configuration persistence
//   - WithConfigLogger: logger instance
//
// Optional options:
//   - WithConfigHub: hub for config.changed / board.status events
//   - WithConfigClock: clock for event timestamps (default: SystemClock)
func NewConfigService(opts ...ConfigOption) (*ConfigService, error) {
	s := &ConfigService{
		clock: SystemClock{},
		cfg:   model.DefaultBoardConfig(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, NewErrorWithCause(ErrCodeConfiguration, "failed to apply config option", err)
		}
	}

	if s.repo == nil {
		return nil, NewError(ErrCodeConfiguration, "ConfigRepository is required (use WithConfigRepository)")
	}
	if s.logger == nil {
		return nil, NewError(ErrCodeConfiguration, "Logger is required (use WithConfigLogger)")
	}

	return s, nil
}

// WithConfigRepository sets the configuration repository. Required.
func WithConfigRepository(repo ConfigRepository) ConfigOption {
	return func(s *ConfigService) error {
		if repo == nil {
			return fmt.Errorf("repo cannot be nil")
		}
		s.repo = repo
		return nil
	}
}

// WithConfigLogger sets the logger instance. Required.
func WithConfigLogger(logger Logger) ConfigOption {
	return func(s *ConfigService) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithConfigHub sets the notification hub for configuration events.
func WithConfigHub(hub *Hub) ConfigOption {
	return func(s *ConfigService) error {
		if hub == nil {
			return fmt.Errorf("hub cannot be nil")
		}
		s.hub = hub
		return nil
	}
}

// WithConfigClock sets the clock used for event timestamps.
func WithConfigClock(clock Clock) ConfigOption {
	return func(s *ConfigService) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		s.clock = clock
		return nil
	}
}

// Load reads the persisted configuration into memory.
// A missing configuration is not an error; defaults apply until the first
// save. Call once at startup.
func (s *ConfigService) Load(ctx context.Context) error {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		if IsNoData(err) {
			s.logger.Info("No persisted configuration, using defaults")
			return nil
		}
		return NewErrorWithCause(ErrCodePersistence, "failed to load configuration", err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.logger.Infof("Configuration loaded: duration=%.1f speed=%g off=%v", cfg.Duration, cfg.Speed, cfg.Off)
	return nil
}

// Save validates and persists new duration and speed values, keeping the
// current on/off state. Fails with a VALIDATION_ERROR when either value is
// not strictly positive; the prior configuration is retained on any error.
func (s *ConfigService) Save(ctx context.Context, duration, speed float64) error {
	s.mu.RLock()
	candidate := s.cfg
	s.mu.RUnlock()

	candidate.Duration = duration
	candidate.Speed = speed
	if err := candidate.Validate(); err != nil {
		return NewErrorWithCause(ErrCodeValidation, "invalid configuration", err)
	}

	if err := s.repo.Save(ctx, candidate); err != nil {
		return NewErrorWithCause(ErrCodePersistence, "failed to save configuration", err)
	}

	s.mu.Lock()
	s.cfg = candidate
	s.mu.Unlock()

	s.logger.Infof("Configuration saved: duration=%.1f speed=%g", duration, speed)
	s.publish(model.EventConfigChanged, candidate)
	return nil
}

// TurnOn enables the board. Idempotent: enabling an already-on board is a
// successful no-op that emits no event. Returns whether state changed.
func (s *ConfigService) TurnOn(ctx context.Context) (bool, error) {
	return s.setOff(ctx, false)
}

// TurnOff disables the board. Idempotent like TurnOn.
func (s *ConfigService) TurnOff(ctx context.Context) (bool, error) {
	return s.setOff(ctx, true)
}

func (s *ConfigService) setOff(ctx context.Context, off bool) (bool, error) {
	s.mu.RLock()
	candidate := s.cfg
	s.mu.RUnlock()

	if candidate.Off == off {
		return false, nil
	}
	candidate.Off = off

	if err := s.repo.Save(ctx, candidate); err != nil {
		return false, NewErrorWithCause(ErrCodePersistence, "failed to save board status", err)
	}

	s.mu.Lock()
	s.cfg = candidate
	s.mu.Unlock()

	if off {
		s.logger.Info("Board turned off")
	} else {
		s.logger.Info("Board turned on")
	}
	s.publish(model.EventBoardStatus, candidate)
	return true, nil
}

// IsOn reports whether the board is globally enabled.
func (s *ConfigService) IsOn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Enabled()
}

// Current returns a copy of the effective configuration.
func (s *ConfigService) Current() model.BoardConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *ConfigService) publish(kind model.EventKind, cfg model.BoardConfig) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(model.NewConfigEvent(kind, cfg, s.clock.Now()))
}

package messageboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/adapters/memory"
	"github.com/coregx/messageboard/model"
)

func newTestConfigService(t *testing.T) (*messageboard.ConfigService, *memory.ConfigRepository, *messageboard.Hub) {
	t.Helper()

	repo := memory.NewConfigRepository()
	hub := messageboard.NewHub(&messageboard.NoopLogger{})

	svc, err := messageboard.NewConfigService(
		messageboard.WithConfigRepository(repo),
		messageboard.WithConfigLogger(&messageboard.NoopLogger{}),
		messageboard.WithConfigHub(hub),
		messageboard.WithConfigClock(&messageboard.FixedClock{Time: time.Unix(1000, 0)}),
	)
	require.NoError(t, err)
	return svc, repo, hub
}

// drainEvents collects everything currently buffered on ch.
func drainEvents(ch <-chan model.Event) []model.Event {
	var out []model.Event
	for {
		select {
		case evt := <-ch:
			out = append(out, evt)
		default:
			return out
		}
	}
}

func TestNewConfigService_RequiredOptions(t *testing.T) {
	_, err := messageboard.NewConfigService(messageboard.WithConfigLogger(&messageboard.NoopLogger{}))
	assert.Equal(t, messageboard.ErrCodeConfiguration, messageboard.ErrorCode(err))

	_, err = messageboard.NewConfigService(messageboard.WithConfigRepository(memory.NewConfigRepository()))
	assert.Equal(t, messageboard.ErrCodeConfiguration, messageboard.ErrorCode(err))
}

func TestConfigService_Load_DefaultsWhenNothingPersisted(t *testing.T) {
	svc, _, _ := newTestConfigService(t)

	require.NoError(t, svc.Load(context.Background()))

	cfg := svc.Current()
	assert.Equal(t, model.DefaultDuration, cfg.Duration)
	assert.Equal(t, model.DefaultSpeed, cfg.Speed)
	assert.True(t, svc.IsOn())
}

func TestConfigService_Load_ReadsPersistedConfig(t *testing.T) {
	svc, repo, _ := newTestConfigService(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.BoardConfig{Duration: 30, Speed: model.SpeedFast, Off: true}))
	require.NoError(t, svc.Load(ctx))

	cfg := svc.Current()
	assert.Equal(t, 30.0, cfg.Duration)
	assert.Equal(t, model.SpeedFast, cfg.Speed)
	assert.False(t, svc.IsOn())
}

func TestConfigService_Save(t *testing.T) {
	svc, repo, hub := newTestConfigService(t)
	ctx := context.Background()

	events, cancel := hub.Subscribe(8)
	defer cancel()

	require.NoError(t, svc.Save(ctx, 30, model.SpeedSlow))

	cfg := svc.Current()
	assert.Equal(t, 30.0, cfg.Duration)
	assert.Equal(t, model.SpeedSlow, cfg.Speed)

	persisted, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, persisted)

	got := drainEvents(events)
	require.Len(t, got, 1)
	assert.Equal(t, model.EventConfigChanged, got[0].Kind)
	require.NotNil(t, got[0].Config)
	assert.Equal(t, 30.0, got[0].Config.Duration)
}

func TestConfigService_Save_ValidationFailureRetainsConfig(t *testing.T) {
	svc, _, hub := newTestConfigService(t)
	ctx := context.Background()

	events, cancel := hub.Subscribe(8)
	defer cancel()

	tests := []struct {
		name     string
		duration float64
		speed    float64
	}{
		{"zero duration", 0, model.SpeedNormal},
		{"negative duration", -10, model.SpeedNormal},
		{"zero speed", 60, 0},
		{"negative speed", 60, -0.005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Save(ctx, tt.duration, tt.speed)
			assert.Equal(t, messageboard.ErrCodeValidation, messageboard.ErrorCode(err))

			cfg := svc.Current()
			assert.Equal(t, model.DefaultDuration, cfg.Duration)
			assert.Equal(t, model.DefaultSpeed, cfg.Speed)
		})
	}

	assert.Empty(t, drainEvents(events))
}

func TestConfigService_Save_PersistenceFailureRetainsConfig(t *testing.T) {
	svc, repo, _ := newTestConfigService(t)

	repo.FailNext = errors.New("disk full")

	err := svc.Save(context.Background(), 30, model.SpeedFast)
	assert.Equal(t, messageboard.ErrCodePersistence, messageboard.ErrorCode(err))

	cfg := svc.Current()
	assert.Equal(t, model.DefaultDuration, cfg.Duration)
	assert.Equal(t, model.DefaultSpeed, cfg.Speed)
}

func TestConfigService_TurnOnOff(t *testing.T) {
	svc, _, hub := newTestConfigService(t)
	ctx := context.Background()

	events, cancel := hub.Subscribe(8)
	defer cancel()

	// Board starts enabled; turning it on again is a confirmed no-op.
	changed, err := svc.TurnOn(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, svc.IsOn())
	assert.Empty(t, drainEvents(events))

	changed, err = svc.TurnOff(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, svc.IsOn())

	got := drainEvents(events)
	require.Len(t, got, 1)
	assert.Equal(t, model.EventBoardStatus, got[0].Kind)
	require.NotNil(t, got[0].Config)
	assert.True(t, got[0].Config.Off)

	// Turning off twice emits nothing the second time.
	changed, err = svc.TurnOff(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, drainEvents(events))

	changed, err = svc.TurnOn(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, svc.IsOn())
	require.Len(t, drainEvents(events), 1)
}

func TestConfigService_TurnOff_PersistenceFailureRetainsState(t *testing.T) {
	svc, repo, _ := newTestConfigService(t)

	repo.FailNext = errors.New("disk full")

	changed, err := svc.TurnOff(context.Background())
	assert.Equal(t, messageboard.ErrCodePersistence, messageboard.ErrorCode(err))
	assert.False(t, changed)
	assert.True(t, svc.IsOn())
}

func TestConfigService_ToggleSurvivesReload(t *testing.T) {
	svc, repo, _ := newTestConfigService(t)
	ctx := context.Background()

	_, err := svc.TurnOff(ctx)
	require.NoError(t, err)

	fresh, err := messageboard.NewConfigService(
		messageboard.WithConfigRepository(repo),
		messageboard.WithConfigLogger(&messageboard.NoopLogger{}),
	)
	require.NoError(t, err)
	require.NoError(t, fresh.Load(ctx))
	assert.False(t, fresh.IsOn())
}

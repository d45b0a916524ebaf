package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/model"
)

func newTestRepositories(t *testing.T) (*Repositories, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "messageboard.conf")
	repos, err := NewRepositories(path)
	require.NoError(t, err)
	return repos, path
}

func TestNewRepositories_PathRequired(t *testing.T) {
	_, err := NewRepositories("")
	assert.Error(t, err)

	_, err = NewRepositories("   ")
	assert.Error(t, err)
}

func TestNewRepositories_MissingFileIsFresh(t *testing.T) {
	repos, path := newTestRepositories(t)
	ctx := context.Background()

	// No document yet until the first save.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	msgs, err := repos.Message.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = repos.Config.Load(ctx)
	assert.ErrorIs(t, err, messageboard.ErrNoData)
}

func TestMessageRepository_SaveAndList(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	saved, err := repos.Message.Save(ctx, model.NewMessage("first", 100, 200))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	_, err = repos.Message.Save(ctx, model.NewMessage("second", 300, 400))
	require.NoError(t, err)

	msgs, err := repos.Message.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
}

func TestMessageRepository_FindByUUID(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	saved, err := repos.Message.Save(ctx, model.NewMessage("hello", 100, 200))
	require.NoError(t, err)

	got, err := repos.Message.FindByUUID(ctx, saved.UUID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)

	_, err = repos.Message.FindByUUID(ctx, "no-such-uuid")
	assert.ErrorIs(t, err, messageboard.ErrNoData)
}

func TestMessageRepository_Delete(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	saved, err := repos.Message.Save(ctx, model.NewMessage("doomed", 100, 200))
	require.NoError(t, err)

	require.NoError(t, repos.Message.Delete(ctx, saved))

	msgs, err := repos.Message.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	err = repos.Message.Delete(ctx, saved)
	assert.ErrorIs(t, err, messageboard.ErrNoData)
}

func TestConfigRepository_RoundTrip(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	cfg := model.BoardConfig{Duration: 30, Speed: model.SpeedFast, Off: true}
	require.NoError(t, repos.Config.Save(ctx, cfg))

	got, err := repos.Config.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDocument_PersistedLayout(t *testing.T) {
	repos, path := newTestRepositories(t)
	ctx := context.Background()

	saved, err := repos.Message.Save(ctx, model.NewMessage("hello", 100, 200))
	require.NoError(t, err)
	require.NoError(t, repos.Config.Save(ctx, model.BoardConfig{Duration: 30, Speed: model.SpeedSlow, Off: false}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, 30.0, doc["duration"])
	assert.Equal(t, model.SpeedSlow, doc["speed"])

	status, ok := doc["status"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, status["off"])

	msgs, ok := doc["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 1)
	entry := msgs[0].(map[string]interface{})
	assert.Equal(t, saved.UUID, entry["uuid"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, 100.0, entry["start"])
	assert.Equal(t, 200.0, entry["end"])
}

func TestDocument_SurvivesReopen(t *testing.T) {
	repos, path := newTestRepositories(t)
	ctx := context.Background()

	saved, err := repos.Message.Save(ctx, model.NewMessage("persisted", 100, 200))
	require.NoError(t, err)
	require.NoError(t, repos.Config.Save(ctx, model.BoardConfig{Duration: 45, Speed: model.SpeedNormal, Off: true}))

	reopened, err := NewRepositories(path)
	require.NoError(t, err)

	msgs, err := reopened.Message.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, saved.UUID, msgs[0].UUID)
	assert.Equal(t, "persisted", msgs[0].Text)

	cfg, err := reopened.Config.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 45.0, cfg.Duration)
	assert.True(t, cfg.Off)
}

func TestDocument_NoTempFileLeftBehind(t *testing.T) {
	repos, path := newTestRepositories(t)
	ctx := context.Background()

	_, err := repos.Message.Save(ctx, model.NewMessage("hello", 100, 200))
	require.NoError(t, err)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

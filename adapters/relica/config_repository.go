package relica

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coregx/relica"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/model"
)

// configRow maps the singleton configuration onto its table row.
type configRow struct {
	ID       int64   `db:"id"`
	Duration float64 `db:"duration"`
	Speed    float64 `db:"speed"`
	Off      bool    `db:"off"`
}

// ConfigRepository implements messageboard.ConfigRepository using Relica.
// The configuration is a single row; Save replaces it in place.
type ConfigRepository struct {
	db        *relica.DB
	tableName string
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(sqlDB *sql.DB, driverName string) *ConfigRepository {
	return &ConfigRepository{
		db:        relica.WrapDB(sqlDB, driverName),
		tableName: model.BoardConfig{}.TableName(),
	}
}

// Load retrieves the persisted configuration.
func (r *ConfigRepository) Load(ctx context.Context) (model.BoardConfig, error) {
	row, err := r.loadRow(ctx)
	if err != nil {
		return model.BoardConfig{}, err
	}
	return model.BoardConfig{
		Duration: row.Duration,
		Speed:    row.Speed,
		Off:      row.Off,
	}, nil
}

// Save persists the configuration, replacing any previous value.
func (r *ConfigRepository) Save(ctx context.Context, cfg model.BoardConfig) error {
	row, err := r.loadRow(ctx)
	if err != nil && !messageboard.IsNoData(err) {
		return err
	}

	if messageboard.IsNoData(err) {
		insert := configRow{Duration: cfg.Duration, Speed: cfg.Speed, Off: cfg.Off}
		if err := r.db.WithContext(ctx).Model(&insert).Table(r.tableName).Insert(); err != nil {
			return messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to insert configuration", err)
		}
		return nil
	}

	row.Duration = cfg.Duration
	row.Speed = cfg.Speed
	row.Off = cfg.Off
	if err := r.db.WithContext(ctx).Model(&row).Table(r.tableName).Update(); err != nil {
		return messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to update configuration", err)
	}
	return nil
}

func (r *ConfigRepository) loadRow(ctx context.Context) (configRow, error) {
	var row configRow

	err := r.db.WithContext(ctx).Select("*").
		From(r.tableName).
		OrderBy("id ASC").
		One(&row)

	if errors.Is(err, sql.ErrNoRows) {
		return row, messageboard.ErrNoData
	}
	if err != nil {
		return row, messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "failed to load configuration", err)
	}
	return row, nil
}

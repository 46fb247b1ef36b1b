package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/kvn3toj/bolt/internal/models"
)

// SettingsRepository handles persisted key/value flags (onboarding state)
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetValue retrieves a setting value by key. Returns ("", nil) for an
// unset key so callers can treat absence as a zero value.
func (r *SettingsRepository) GetValue(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	result := r.db.WithContext(ctx).Where("key = ?", key).First(&setting)
	if result.Error != nil {
		if errors.Is(MapGormError(result.Error), ErrNotFound) {
			return "", nil
		}
		return "", MapGormError(result.Error)
	}
	return setting.Value, nil
}

// SetValue upserts a setting value by key
func (r *SettingsRepository) SetValue(ctx context.Context, key, value string) error {
	setting := models.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting)
	if result.Error != nil {
		return fmt.Errorf("failed to set %q: %w", key, MapGormError(result.Error))
	}
	return nil
}

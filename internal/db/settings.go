package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unityguilds/hub/internal/models"
)

// SettingsRepository provides site settings database operations
type SettingsRepository struct {
	*Repository
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(repo *Repository) *SettingsRepository {
	return &SettingsRepository{Repository: repo}
}

// Get retrieves a guild's settings, or nil when none are stored
func (r *SettingsRepository) Get(ctx context.Context, guild string) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	if err := r.db.WithContext(ctx).Where("guild = ?", guild).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Upsert inserts settings or overwrites only the named columns of an existing row
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.SiteSettings, columns []string) error {
	settings.UpdatedAt = time.Now().UTC()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = settings.UpdatedAt
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(settings).Error
}

// Delete removes a guild's settings
func (r *SettingsRepository) Delete(ctx context.Context, guild string) error {
	return r.db.WithContext(ctx).Where("guild = ?", guild).Delete(&models.SiteSettings{}).Error
}

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unityguilds/hub/internal/models"
)

// UserRepository provides user database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by Discord id, or nil when absent
func (r *UserRepository) GetByID(ctx context.Context, discordID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("discord_id = ?", discordID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpsertLogin records a login. Profile columns are refreshed; a stored role is never overwritten.
func (r *UserRepository) UpsertLogin(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Role == "" {
		user.Role = models.RoleMember
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "discord_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "display_name", "avatar_url", "guild", "discord_roles", "updated_at",
		}),
	}).Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	stored, err := r.GetByID(ctx, user.DiscordID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("user %s missing after upsert", user.DiscordID)
	}
	return stored, nil
}

// SetRole assigns role to an existing user
func (r *UserRepository) SetRole(ctx context.Context, discordID string, role models.Role) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("discord_id = ?", discordID).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s not found", discordID)
	}
	return nil
}

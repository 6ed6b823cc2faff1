package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unityguilds/hub/internal/models"
)

// GamesRepository provides Guildie Games database operations
type GamesRepository struct {
	*Repository
}

// NewGamesRepository creates a new games repository
func NewGamesRepository(repo *Repository) *GamesRepository {
	return &GamesRepository{Repository: repo}
}

// Months returns every month ordered by number
func (r *GamesRepository) Months(ctx context.Context) ([]*models.GamesMonth, error) {
	months := []*models.GamesMonth{}
	if err := r.db.WithContext(ctx).Order("month_number ASC").Find(&months).Error; err != nil {
		return nil, err
	}
	return months, nil
}

// MonthByID retrieves a month, or nil when absent
func (r *GamesRepository) MonthByID(ctx context.Context, id int64) (*models.GamesMonth, error) {
	var month models.GamesMonth
	if err := r.db.WithContext(ctx).First(&month, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &month, nil
}

// MonthByNumber retrieves a month by its number, or nil when absent
func (r *GamesRepository) MonthByNumber(ctx context.Context, number int) (*models.GamesMonth, error) {
	var month models.GamesMonth
	if err := r.db.WithContext(ctx).Where("month_number = ?", number).First(&month).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &month, nil
}

// CreateMonth inserts a month
func (r *GamesRepository) CreateMonth(ctx context.Context, month *models.GamesMonth) error {
	return r.db.WithContext(ctx).Create(month).Error
}

// UpdateMonth writes the named columns of month
func (r *GamesRepository) UpdateMonth(ctx context.Context, month *models.GamesMonth, columns []string) error {
	month.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Model(month).Select(append(columns, "updated_at")).Updates(month).Error
}

// Scores returns every score ordered by score, highest first
func (r *GamesRepository) Scores(ctx context.Context) ([]*models.GamesScore, error) {
	scores := []*models.GamesScore{}
	if err := r.db.WithContext(ctx).Order("score DESC").Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

// ScoresForMonth returns one month's scores in insertion order
func (r *GamesRepository) ScoresForMonth(ctx context.Context, monthID int64) ([]*models.GamesScore, error) {
	scores := []*models.GamesScore{}
	if err := r.db.WithContext(ctx).Where("month_id = ?", monthID).Order("id ASC").Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

// UpsertScore inserts a score or overwrites the existing (month, guild) row
func (r *GamesRepository) UpsertScore(ctx context.Context, score *models.GamesScore) error {
	now := time.Now().UTC()
	score.CreatedAt, score.UpdatedAt = now, now
	if score.ScoreUnit == "" {
		score.ScoreUnit = "points"
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month_id"}, {Name: "guild"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "score_unit", "updated_at"}),
	}).Create(score).Error
}

// DeleteAll removes every month and score
func (r *GamesRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.GamesScore{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.GamesMonth{}).Error
	})
}

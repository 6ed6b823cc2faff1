package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unityguilds/hub/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OrderBy is one ORDER BY term
type OrderBy struct {
	Column string
	Desc   bool
}

// ListOptions narrows a guild-scoped listing. Column names must already be validated.
type ListOptions struct {
	Order   []OrderBy
	Filters map[string]interface{}
	Limit   int
}

// SearchOptions describes a case-insensitive substring match across text columns
type SearchOptions struct {
	Columns []string
	Term    string
	Filters map[string]interface{}
	Limit   int
}

// Record constrains PT to a pointer to a content record type
type Record[T any] interface {
	*T
	models.Content
}

// ContentRepository provides guild-scoped CRUD for one content collection
type ContentRepository[T any, PT Record[T]] struct {
	*Repository
	// beforeWrite runs inside the write transaction, before the row is stored
	beforeWrite func(tx *gorm.DB, row PT) error
}

// NewContentRepository creates a content repository
func NewContentRepository[T any, PT Record[T]](repo *Repository) *ContentRepository[T, PT] {
	return &ContentRepository[T, PT]{Repository: repo}
}

// NewSpotlightRepository creates the spotlight repository, which keeps one current row per guild
func NewSpotlightRepository(repo *Repository) *ContentRepository[models.Spotlight, *models.Spotlight] {
	r := NewContentRepository[models.Spotlight](repo)
	r.beforeWrite = clearOtherCurrent
	return r
}

// List returns guild's rows
func (r *ContentRepository[T, PT]) List(ctx context.Context, guild string, opts ListOptions) ([]PT, error) {
	q := r.db.WithContext(ctx).Where("guild = ?", guild)
	if len(opts.Filters) > 0 {
		q = q.Where(opts.Filters)
	}
	q = applyOrder(q, opts.Order)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	rows := []PT{}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID retrieves a row by id, or nil when absent
func (r *ContentRepository[T, PT]) GetByID(ctx context.Context, id string) (PT, error) {
	row := PT(new(T))
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// Create inserts row, assigning id and timestamps
func (r *ContentRepository[T, PT]) Create(ctx context.Context, row PT) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.beforeWrite != nil {
			if err := r.beforeWrite(tx, row); err != nil {
				return err
			}
		}
		return tx.Create(row).Error
	})
}

// Update writes the named columns of row
func (r *ContentRepository[T, PT]) Update(ctx context.Context, row PT, columns []string) error {
	row.Base().UpdatedAt = time.Now().UTC()
	columns = append(columns, "updated_at")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.beforeWrite != nil {
			if err := r.beforeWrite(tx, row); err != nil {
				return err
			}
		}
		return tx.Model(row).Select(columns).Updates(row).Error
	})
}

// Delete removes the row with id
func (r *ContentRepository[T, PT]) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(PT(new(T))).Error
}

// DeleteGuild removes every row owned by guild
func (r *ContentRepository[T, PT]) DeleteGuild(ctx context.Context, guild string) error {
	return r.db.WithContext(ctx).Where("guild = ?", guild).Delete(PT(new(T))).Error
}

// Search returns guild's rows whose columns contain opts.Term, ignoring case
func (r *ContentRepository[T, PT]) Search(ctx context.Context, guild string, opts SearchOptions) ([]PT, error) {
	pattern := "%" + escapeLike(strings.ToLower(opts.Term)) + "%"

	conds := make([]string, 0, len(opts.Columns))
	args := make([]interface{}, 0, len(opts.Columns))
	for _, col := range opts.Columns {
		conds = append(conds, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col))
		args = append(args, pattern)
	}

	q := r.db.WithContext(ctx).Where("guild = ?", guild)
	if len(opts.Filters) > 0 {
		q = q.Where(opts.Filters)
	}
	if len(conds) > 0 {
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	rows := []PT{}
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// clearOtherCurrent unsets is_current on the guild's other spotlight rows when row becomes current
func clearOtherCurrent(tx *gorm.DB, row *models.Spotlight) error {
	if !row.IsCurrent {
		return nil
	}

	// lock the guild's rows so concurrent writers queue behind this one
	var locked []models.Spotlight
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").Where("guild = ?", row.Guild).Find(&locked).Error; err != nil {
		return err
	}

	q := tx.Model(&models.Spotlight{}).Where("guild = ? AND is_current = ?", row.Guild, true)
	if row.ID != "" {
		q = q.Where("id <> ?", row.ID)
	}
	return q.Update("is_current", false).Error
}

func applyOrder(q *gorm.DB, order []OrderBy) *gorm.DB {
	for _, o := range order {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

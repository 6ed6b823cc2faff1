package models

import (
	"time"
)

// MonthStatus is the lifecycle state of a Guildie Games month
type MonthStatus string

// Month statuses
const (
	MonthUpcoming  MonthStatus = "upcoming"
	MonthActive    MonthStatus = "active"
	MonthCompleted MonthStatus = "completed"
)

// Valid reports whether s is a known status.
func (s MonthStatus) Valid() bool {
	switch s {
	case MonthUpcoming, MonthActive, MonthCompleted:
		return true
	}
	return false
}

// GamesMonth is one cycle of the cross-guild competition
type GamesMonth struct {
	ID            int64       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	MonthNumber   int         `gorm:"not null;uniqueIndex:guildie_games_months_ux1;column:month_number" json:"month_number"`
	ChallengeName string      `gorm:"type:varchar(255);not null;default:'';column:challenge_name" json:"challenge_name"`
	Status        MonthStatus `gorm:"type:varchar(16);not null;default:'upcoming';column:status" json:"status"`
	StartDate     *string     `gorm:"type:varchar(10);column:start_date" json:"start_date"`
	EndDate       *string     `gorm:"type:varchar(10);column:end_date" json:"end_date"`
	WinnerGuild   *string     `gorm:"type:varchar(32);column:winner_guild" json:"winner_guild"`
	CreatedAt     time.Time   `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GamesMonth
func (GamesMonth) TableName() string {
	return "guildie_games_months"
}

// GamesScore is one guild's score for a month. Unique per (month, guild).
type GamesScore struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	MonthID   int64     `gorm:"not null;uniqueIndex:guildie_games_scores_ux1;column:month_id" json:"month_id"`
	Guild     string    `gorm:"type:varchar(32);not null;uniqueIndex:guildie_games_scores_ux1;column:guild" json:"guild"`
	Score     float64   `gorm:"not null;default:0;column:score" json:"score"`
	ScoreUnit string    `gorm:"type:varchar(32);not null;default:'points';column:score_unit" json:"score_unit"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`

	// Relationships
	Month *GamesMonth `gorm:"foreignKey:MonthID;references:ID" json:"-"`
}

// TableName specifies the table name for GamesScore
func (GamesScore) TableName() string {
	return "guildie_games_scores"
}

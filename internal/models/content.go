package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Item holds the columns every guild-scoped content row shares.
// Guild is set on create and never changes afterwards.
type Item struct {
	ID        string    `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	Guild     string    `gorm:"type:varchar(32);not null;index;column:guild" json:"guild" binding:"required"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// BeforeCreate assigns a fresh id to rows created without one
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Base exposes the shared columns to generic code.
func (i *Item) Base() *Item {
	return i
}

// Content is implemented by every content record type.
type Content interface {
	Base() *Item
	TableName() string
}

// Newsletter is one issue of a guild newsletter
type Newsletter struct {
	Item
	Title       string     `gorm:"type:varchar(255);not null;column:title" json:"title" binding:"required"`
	Content     string     `gorm:"type:text;not null;default:'';column:content" json:"content"`
	Excerpt     *string    `gorm:"type:text;column:excerpt" json:"excerpt"`
	IssueNumber int        `gorm:"not null;default:1;index;column:issue_number" json:"issue_number"`
	Published   bool       `gorm:"not null;default:false;column:published" json:"published"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at"`
}

// TableName specifies the table name for Newsletter
func (Newsletter) TableName() string {
	return "newsletters"
}

// Event is a scheduled guild activity. EventDate is an ISO date (YYYY-MM-DD).
type Event struct {
	Item
	Title       string  `gorm:"type:varchar(255);not null;column:title" json:"title" binding:"required"`
	Description *string `gorm:"type:text;column:description" json:"description"`
	EventDate   string  `gorm:"type:varchar(10);not null;index;column:event_date" json:"event_date" binding:"required,datetime=2006-01-02"`
	EventTime   *string `gorm:"type:varchar(32);column:event_time" json:"event_time"`
	Location    *string `gorm:"type:varchar(255);column:location" json:"location"`
}

// TableName specifies the table name for Event
func (Event) TableName() string {
	return "events"
}

// Announcement is a short notice shown on the guild page
type Announcement struct {
	Item
	Title   string  `gorm:"type:varchar(255);not null;column:title" json:"title" binding:"required"`
	Content *string `gorm:"type:text;column:content" json:"content"`
	Icon    *string `gorm:"type:varchar(16);column:icon" json:"icon"`
	Pinned  bool    `gorm:"not null;default:false;column:pinned" json:"pinned"`
}

// TableName specifies the table name for Announcement
func (Announcement) TableName() string {
	return "announcements"
}

// Spotlight features a guild member. At most one row per guild has IsCurrent set.
type Spotlight struct {
	Item
	MemberName   string  `gorm:"type:varchar(128);not null;column:member_name" json:"member_name" binding:"required"`
	MemberHandle *string `gorm:"type:varchar(128);column:member_handle" json:"member_handle"`
	MemberAvatar *string `gorm:"type:varchar(1024);column:member_avatar" json:"member_avatar"`
	Bio          *string `gorm:"type:text;column:bio" json:"bio"`
	TwitchURL    *string `gorm:"type:varchar(1024);column:twitch_url" json:"twitch_url"`
	Achievement  *string `gorm:"type:varchar(255);column:achievement" json:"achievement"`
	FeaturedWeek *string `gorm:"type:varchar(64);column:featured_week" json:"featured_week"`
	IsCurrent    bool    `gorm:"not null;default:false;column:is_current" json:"is_current"`
}

// TableName specifies the table name for Spotlight
func (Spotlight) TableName() string {
	return "spotlight"
}

// Recap summarises a Guild Hall meeting
type Recap struct {
	Item
	Title       string                     `gorm:"type:varchar(255);not null;column:title" json:"title" binding:"required"`
	Content     *string                    `gorm:"type:text;column:content" json:"content"`
	Summary     *string                    `gorm:"type:text;column:summary" json:"summary"`
	MeetingDate *string                    `gorm:"type:varchar(10);index;column:meeting_date" json:"meeting_date" binding:"omitempty,datetime=2006-01-02"`
	Topics      datatypes.JSONSlice[string] `gorm:"column:topics" json:"topics"`
}

// TableName specifies the table name for Recap
func (Recap) TableName() string {
	return "guild_hall_recaps"
}

// Highlight records a memorable guild moment
type Highlight struct {
	Item
	Title       string  `gorm:"type:varchar(255);not null;column:title" json:"title" binding:"required"`
	Description *string `gorm:"type:text;column:description" json:"description"`
	EventType   *string `gorm:"type:varchar(64);column:event_type" json:"event_type"`
	ImageURL    *string `gorm:"type:varchar(1024);column:image_url" json:"image_url"`
	EventDate   *string `gorm:"type:varchar(10);column:event_date" json:"event_date" binding:"omitempty,datetime=2006-01-02"`
}

// TableName specifies the table name for Highlight
func (Highlight) TableName() string {
	return "highlights"
}

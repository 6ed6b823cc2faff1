package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSettings holds per-guild page customisation. One row per guild.
type SiteSettings struct {
	Guild             string                              `gorm:"primaryKey;type:varchar(32);column:guild" json:"guild"`
	ThemeColors       datatypes.JSONMap                   `gorm:"column:theme_colors" json:"theme_colors"`
	SectionOrder      datatypes.JSONSlice[string]         `gorm:"column:section_order" json:"section_order"`
	SectionVisibility datatypes.JSONType[map[string]bool] `gorm:"column:section_visibility" json:"section_visibility"`
	HeadingFont       *string                             `gorm:"type:varchar(128);column:heading_font" json:"heading_font"`
	BodyFont          *string                             `gorm:"type:varchar(128);column:body_font" json:"body_font"`
	CustomCSS         *string                             `gorm:"type:text;column:custom_css" json:"custom_css"`
	TwitchChannels    datatypes.JSONSlice[string]         `gorm:"column:twitch_channels" json:"twitch_channels"`
	CreatedAt         time.Time                           `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt         time.Time                           `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for SiteSettings
func (SiteSettings) TableName() string {
	return "site_settings"
}

// Visibility returns the stored visibility map, never nil.
func (s *SiteSettings) Visibility() map[string]bool {
	v := s.SectionVisibility.Data()
	if v == nil {
		return map[string]bool{}
	}
	return v
}

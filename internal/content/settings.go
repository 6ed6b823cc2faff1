package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/cache"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/models"
	"github.com/unityguilds/hub/internal/sections"
	"github.com/unityguilds/hub/pkg/logging"
	"github.com/unityguilds/hub/pkg/telemetry"
)

const settingsTTL = 10 * time.Minute

var (
	settingsUpdatable = map[string]bool{
		"theme_colors": true, "section_order": true, "section_visibility": true,
		"custom_css": true, "heading_font": true, "body_font": true, "twitch_channels": true,
	}
	settingsNullable = map[string]bool{"custom_css": true, "heading_font": true, "body_font": true}
)

// Settings is a guild's page customisation with catalog defaults filled in
type Settings struct {
	Guild             string                 `json:"guild"`
	ThemeColors       map[string]interface{} `json:"theme_colors"`
	SectionOrder      []string               `json:"section_order"`
	SectionVisibility map[string]bool        `json:"section_visibility"`
	Sections          []sections.Section     `json:"sections"`
	HeadingFont       *string                `json:"heading_font"`
	BodyFont          *string                `json:"body_font"`
	CustomCSS         *string                `json:"custom_css"`
	TwitchChannels    []string               `json:"twitch_channels"`
	Stored            bool                   `json:"stored"`
	UpdatedAt         *time.Time             `json:"updated_at"`
}

// SettingsService reads and partially updates per-guild settings
type SettingsService struct {
	repo   *db.SettingsRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewSettingsService creates a settings service
func NewSettingsService(repo *db.SettingsRepository, c *cache.Cache) *SettingsService {
	return &SettingsService{
		repo:   repo,
		cache:  c,
		logger: logging.WithComponent("settings"),
	}
}

// Get returns guild's settings, or the catalog defaults when none are stored
func (s *SettingsService) Get(ctx context.Context, guild string) (*Settings, error) {
	if guild == "" {
		return nil, apperr.Validation("guild parameter is required")
	}
	g, ok := guilds.Get(guild)
	if !ok {
		return nil, apperr.Validation("unknown guild %q", guild)
	}

	var cached Settings
	if err := s.cache.GetJSON(ctx, settingsKey(guild), &cached); err == nil {
		return &cached, nil
	}

	row, err := s.repo.Get(ctx, guild)
	if err != nil {
		return nil, apperr.Upstream("failed to load settings", err)
	}
	view := settingsView(g, row)

	if err := s.cache.SetJSON(ctx, settingsKey(guild), view, settingsTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		s.logger.Debug("settings cache write failed", zap.Error(err))
	}
	return view, nil
}

// Put merges the settings fields present in body into the guild named by body
func (s *SettingsService) Put(ctx context.Context, sess *auth.Session, body []byte) (*Settings, error) {
	ctx, span := telemetry.StartSpan(ctx, "settings.Put")
	defer span.End()

	if sess == nil {
		return nil, apperr.Authentication("Not authenticated")
	}
	var head struct {
		Guild string `json:"guild"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, apperr.Validation("invalid JSON body: %v", err)
	}
	if head.Guild == "" {
		return nil, apperr.Validation("guild is required")
	}
	g, ok := guilds.Get(head.Guild)
	if !ok {
		return nil, apperr.Validation("unknown guild %q", head.Guild)
	}
	if !auth.IsGuildStaff(sess, head.Guild) {
		return nil, apperr.Forbidden("No access to this guild")
	}

	row, err := s.repo.Get(ctx, head.Guild)
	if err != nil {
		return nil, apperr.Upstream("failed to load settings", err)
	}
	if row == nil {
		row = &models.SiteSettings{Guild: head.Guild}
	}

	columns, err := ApplyPatch(row, body, settingsUpdatable, settingsNullable, nil)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return settingsView(g, row), nil
	}
	row.TwitchChannels = cleanChannels(row.TwitchChannels)

	if err := s.repo.Upsert(ctx, row, columns); err != nil {
		return nil, apperr.Upstream("failed to save settings", err)
	}
	if err := s.cache.Delete(ctx, settingsKey(head.Guild)); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		s.logger.Warn("settings cache invalidation failed", zap.String("guild", head.Guild), zap.Error(err))
	}

	telemetry.RecordContentWrite(ctx, "settings", "update")
	s.logger.Info("settings updated",
		zap.String("guild", head.Guild),
		zap.Strings("columns", columns),
		zap.String("by", sess.DiscordID))
	return settingsView(g, row), nil
}

func settingsView(g guilds.Guild, row *models.SiteSettings) *Settings {
	view := &Settings{
		Guild:          g.Slug,
		ThemeColors:    defaultColors(g),
		TwitchChannels: []string{},
	}

	var order []string
	visibility := map[string]bool{}
	if row != nil {
		view.Stored = !row.CreatedAt.IsZero()
		if len(row.ThemeColors) > 0 {
			view.ThemeColors = map[string]interface{}(row.ThemeColors)
		}
		order = row.SectionOrder
		visibility = row.Visibility()
		view.HeadingFont, view.BodyFont, view.CustomCSS = row.HeadingFont, row.BodyFont, row.CustomCSS
		if row.TwitchChannels != nil {
			view.TwitchChannels = row.TwitchChannels
		}
		if view.Stored {
			updated := row.UpdatedAt
			view.UpdatedAt = &updated
		}
	}

	view.Sections = sections.Load(order, visibility)
	view.SectionOrder, view.SectionVisibility = sections.Persisted(view.Sections)
	return view
}

func defaultColors(g guilds.Guild) map[string]interface{} {
	out := map[string]interface{}{}
	raw, err := json.Marshal(g.Colors)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

// cleanChannels trims channel names, drops blanks and repeats
func cleanChannels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, ch := range in {
		ch = strings.TrimPrefix(strings.TrimSpace(ch), "@")
		key := strings.ToLower(ch)
		if ch == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ch)
	}
	return out
}

func settingsKey(guild string) string {
	return "settings:" + guild
}

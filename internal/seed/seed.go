package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/content"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/models"
	"github.com/unityguilds/hub/pkg/logging"
)

// Counts is the number of rows written per collection for one guild
type Counts map[string]int

// Seeder fills guilds with placeholder content
type Seeder struct {
	repos    *content.Repositories
	games    *db.GamesRepository
	users    *db.UserRepository
	settings *db.SettingsRepository
	logger   *zap.Logger
}

// New creates a seeder over the given repositories
func New(repos *content.Repositories, games *db.GamesRepository, users *db.UserRepository, settings *db.SettingsRepository) *Seeder {
	return &Seeder{
		repos:    repos,
		games:    games,
		users:    users,
		settings: settings,
		logger:   logging.WithComponent("seed"),
	}
}

// Guilds replaces the content of every named guild with placeholder rows.
// Running it twice leaves the same rows.
func (s *Seeder) Guilds(ctx context.Context, slugs []string) (map[string]Counts, error) {
	results := make(map[string]Counts, len(slugs))
	for _, slug := range slugs {
		g, ok := guilds.Get(slug)
		if !ok {
			return results, fmt.Errorf("unknown guild %q", slug)
		}
		counts, err := s.guild(ctx, g)
		if err != nil {
			return results, fmt.Errorf("failed to seed %s: %w", slug, err)
		}
		results[slug] = counts
		s.logger.Info("Seeded guild", zap.String("guild", slug), zap.Any("counts", counts))
	}
	return results, nil
}

func (s *Seeder) guild(ctx context.Context, g guilds.Guild) (Counts, error) {
	if err := s.clear(ctx, g.Slug); err != nil {
		return nil, err
	}

	counts := Counts{}
	for _, n := range newsletters(g) {
		if err := s.repos.Newsletters.Create(ctx, n); err != nil {
			return nil, err
		}
		counts[content.Newsletters]++
	}
	for _, ev := range events(g) {
		if err := s.repos.Events.Create(ctx, ev); err != nil {
			return nil, err
		}
		counts[content.Events]++
	}
	for _, a := range announcements(g) {
		if err := s.repos.Announcements.Create(ctx, a); err != nil {
			return nil, err
		}
		counts[content.Announcements]++
	}
	for _, sp := range spotlights(g) {
		if err := s.repos.Spotlights.Create(ctx, sp); err != nil {
			return nil, err
		}
		counts[content.Spotlights]++
	}
	for _, r := range recaps(g) {
		if err := s.repos.Recaps.Create(ctx, r); err != nil {
			return nil, err
		}
		counts[content.Recaps]++
	}
	for _, h := range highlights(g) {
		if err := s.repos.Highlights.Create(ctx, h); err != nil {
			return nil, err
		}
		counts[content.Highlights]++
	}
	return counts, nil
}

func (s *Seeder) clear(ctx context.Context, guild string) error {
	deletes := []func(context.Context, string) error{
		s.repos.Newsletters.DeleteGuild,
		s.repos.Events.DeleteGuild,
		s.repos.Announcements.DeleteGuild,
		s.repos.Spotlights.DeleteGuild,
		s.repos.Recaps.DeleteGuild,
		s.repos.Highlights.DeleteGuild,
	}
	for _, del := range deletes {
		if err := del(ctx, guild); err != nil {
			return fmt.Errorf("failed to clear %s: %w", guild, err)
		}
	}
	return nil
}

// Games creates any missing month 1..12 and a zero score for every
// competing guild that has none. Existing months and scores are kept.
func (s *Seeder) Games(ctx context.Context) (int, error) {
	created := 0
	for number := 1; number <= 12; number++ {
		month, err := s.games.MonthByNumber(ctx, number)
		if err != nil {
			return created, err
		}
		if month == nil {
			month = &models.GamesMonth{
				MonthNumber:   number,
				ChallengeName: fmt.Sprintf("%s Challenge", time.Month(number)),
				Status:        models.MonthUpcoming,
			}
			if err := s.games.CreateMonth(ctx, month); err != nil {
				return created, fmt.Errorf("failed to create month %d: %w", number, err)
			}
			created++
		}

		scores, err := s.games.ScoresForMonth(ctx, month.ID)
		if err != nil {
			return created, err
		}
		have := make(map[string]bool, len(scores))
		for _, sc := range scores {
			have[sc.Guild] = true
		}
		for _, guild := range guilds.GameGuilds() {
			if have[guild] {
				continue
			}
			if err := s.games.UpsertScore(ctx, &models.GamesScore{MonthID: month.ID, Guild: guild}); err != nil {
				return created, fmt.Errorf("failed to seed score %s/%d: %w", guild, number, err)
			}
		}
	}
	return created, nil
}

// ResetGames removes every month and score so that Games starts over
func (s *Seeder) ResetGames(ctx context.Context) error {
	if err := s.games.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset games: %w", err)
	}
	s.logger.Info("Reset games")
	return nil
}

// ResetSettings drops stored settings so the guilds fall back to catalog defaults
func (s *Seeder) ResetSettings(ctx context.Context, slugs []string) error {
	for _, slug := range slugs {
		if !guilds.Valid(slug) {
			return fmt.Errorf("unknown guild %q", slug)
		}
		if err := s.settings.Delete(ctx, slug); err != nil {
			return fmt.Errorf("failed to reset settings for %s: %w", slug, err)
		}
	}
	return nil
}

// Promote grants super_admin to a user who has logged in at least once
func (s *Seeder) Promote(ctx context.Context, discordID string) error {
	if err := s.users.SetRole(ctx, discordID, models.RoleSuperAdmin); err != nil {
		return err
	}
	s.logger.Info("Promoted user", zap.String("discord_id", discordID))
	return nil
}

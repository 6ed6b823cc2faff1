// Package search fans a text query out across a guild's content collections.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/cache"
	"github.com/unityguilds/hub/internal/content"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/models"
	"github.com/unityguilds/hub/pkg/logging"
	"github.com/unityguilds/hub/pkg/telemetry"
)

const (
	// MinQueryLength is the shortest query accepted
	MinQueryLength = 2
	// PerCollection caps each bucket
	PerCollection = 5

	resultTTL = time.Minute
)

// ResultBag holds one bucket per collection, in display order
type ResultBag struct {
	Newsletters   []*models.Newsletter   `json:"newsletters"`
	Events        []*models.Event        `json:"events"`
	Announcements []*models.Announcement `json:"announcements"`
	Spotlights    []*models.Spotlight    `json:"spotlights"`
	Recaps        []*models.Recap        `json:"recaps"`
	Highlights    []*models.Highlight    `json:"highlights"`
}

// Total is the number of rows across every bucket
func (b *ResultBag) Total() int {
	return len(b.Newsletters) + len(b.Events) + len(b.Announcements) +
		len(b.Spotlights) + len(b.Recaps) + len(b.Highlights)
}

// Response is the search result returned to callers
type Response struct {
	Results      ResultBag `json:"results"`
	TotalResults int       `json:"totalResults"`
	Query        string    `json:"query"`
}

// Service runs guild-scoped searches
type Service struct {
	repos  *content.Repositories
	cache  *cache.Cache
	logger *zap.Logger
}

// NewService creates a search service
func NewService(repos *content.Repositories, c *cache.Cache) *Service {
	return &Service{
		repos:  repos,
		cache:  c,
		logger: logging.WithComponent("search"),
	}
}

// Search matches query against every collection of guild in parallel.
// A collection that fails to respond yields an empty bucket; the search fails
// only when every collection fails.
func (s *Service) Search(ctx context.Context, query, guild string) (*Response, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, apperr.Validation("Search query must be at least %d characters", MinQueryLength)
	}
	if guild == "" {
		return nil, apperr.Validation("guild parameter is required")
	}
	if !guilds.Valid(guild) {
		return nil, apperr.Validation("unknown guild %q", guild)
	}

	ctx, span := telemetry.StartSpan(ctx, "search.Search")
	defer span.End()
	telemetry.RecordSearch(ctx)

	key := s.resultKey(ctx, guild, query)
	if key != "" {
		var cached Response
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	bag := ResultBag{}
	var failed atomic.Int32
	p := pool.New().WithContext(ctx)
	run := func(f func(context.Context) error) {
		p.Go(func(ctx context.Context) error {
			if err := f(ctx); err != nil {
				failed.Add(1)
				return err
			}
			return nil
		})
	}
	run(bucket(s.repos.Newsletters, content.Newsletters, guild, query, &bag.Newsletters))
	run(bucket(s.repos.Events, content.Events, guild, query, &bag.Events))
	run(bucket(s.repos.Announcements, content.Announcements, guild, query, &bag.Announcements))
	run(bucket(s.repos.Spotlights, content.Spotlights, guild, query, &bag.Spotlights))
	run(bucket(s.repos.Recaps, content.Recaps, guild, query, &bag.Recaps))
	run(bucket(s.repos.Highlights, content.Highlights, guild, query, &bag.Highlights))
	if err := p.Wait(); err != nil {
		if int(failed.Load()) == len(content.Names) {
			return nil, apperr.Upstream("search failed", err)
		}
		s.logger.Warn("partial search failure", zap.String("guild", guild), zap.Error(err))
	}

	resp := &Response{Results: bag, TotalResults: bag.Total(), Query: query}
	if key != "" {
		if err := s.cache.SetJSON(ctx, key, resp, resultTTL); err != nil {
			s.logger.Debug("search cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// bucket searches one collection into dest, leaving it empty on failure
func bucket[T any, PT db.Record[T]](repo *db.ContentRepository[T, PT], name, guild, query string, dest *[]PT) func(context.Context) error {
	return func(ctx context.Context) error {
		*dest = []PT{}
		coll, _ := content.Lookup(name)
		rows, err := repo.Search(ctx, guild, db.SearchOptions{
			Columns: coll.SearchColumns,
			Term:    query,
			Filters: coll.SearchFilters,
			Limit:   PerCollection,
		})
		if err != nil {
			return fmt.Errorf("search %s: %w", name, err)
		}
		*dest = rows
		return nil
	}
}

// resultKey scopes cached results to the guild's content generation
func (s *Service) resultKey(ctx context.Context, guild, query string) string {
	gen, err := s.cache.Generation(ctx, guild)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("search:%s:%d:%s", guild, gen, cache.HashKey(strings.ToLower(query)))
}

package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/cache"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/pkg/logging"
	"github.com/unityguilds/hub/pkg/telemetry"
)

const listTTL = 5 * time.Minute

// Hooks adjust rows before they are written
type Hooks[PT any] struct {
	// BeforeCreate runs after validation, before insert.
	BeforeCreate func(row PT)
	// BeforeUpdate runs after the patch is applied and may add columns.
	BeforeUpdate func(row PT, columns []string) []string
}

// Service is the guild-scoped CRUD contract of one collection.
// Writes look up the stored row and authorize against its guild.
type Service[T any, PT db.Record[T]] struct {
	coll   Collection
	repo   *db.ContentRepository[T, PT]
	cache  *cache.Cache
	hooks  Hooks[PT]
	logger *zap.Logger
}

// NewService creates a service for the named collection
func NewService[T any, PT db.Record[T]](name string, repo *db.ContentRepository[T, PT], c *cache.Cache, hooks Hooks[PT]) *Service[T, PT] {
	coll, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("content: unknown collection %q", name))
	}
	return &Service[T, PT]{
		coll:   coll,
		repo:   repo,
		cache:  c,
		hooks:  hooks,
		logger: logging.WithComponent("content").With(zap.String("collection", name)),
	}
}

// Collection returns the collection rules
func (s *Service[T, PT]) Collection() Collection {
	return s.coll
}

// List returns guild's rows. guild is required.
func (s *Service[T, PT]) List(ctx context.Context, guild string, q ListQuery) ([]PT, error) {
	if guild == "" {
		return nil, apperr.Validation("guild parameter is required")
	}
	if !guilds.Valid(guild) {
		return nil, apperr.Validation("unknown guild %q", guild)
	}
	opts, err := s.coll.Resolve(q)
	if err != nil {
		return nil, err
	}

	key := s.listKey(ctx, guild, q)
	if key != "" {
		var cached []PT
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	rows, err := s.repo.List(ctx, guild, opts)
	if err != nil {
		return nil, apperr.Upstream(fmt.Sprintf("failed to list %s", s.coll.Name), err)
	}

	if key != "" {
		if err := s.cache.SetJSON(ctx, key, rows, listTTL); err != nil {
			s.logger.Debug("list cache write failed", zap.Error(err))
		}
	}
	return rows, nil
}

// Get returns one row by id
func (s *Service[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Upstream(fmt.Sprintf("failed to load %s", s.coll.Name), err)
	}
	if row == nil {
		return nil, apperr.NotFound("%s %s not found", s.coll.Name, id)
	}
	return row, nil
}

// Create stores a new row decoded from body for the guild named in it
func (s *Service[T, PT]) Create(ctx context.Context, sess *auth.Session, body []byte) (PT, error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	if sess == nil {
		return nil, apperr.Authentication("Not authenticated")
	}

	row := PT(new(T))
	if err := json.Unmarshal(body, row); err != nil {
		return nil, apperr.Validation("invalid JSON body: %v", err)
	}
	base := row.Base()
	base.ID = ""
	base.CreatedAt, base.UpdatedAt = time.Time{}, time.Time{}

	if base.Guild == "" {
		return nil, apperr.Validation("guild is required")
	}
	if !guilds.Valid(base.Guild) {
		return nil, apperr.Validation("unknown guild %q", base.Guild)
	}
	if !auth.IsGuildStaff(sess, base.Guild) {
		return nil, apperr.Forbidden("No access to this guild")
	}
	if err := binding.Validator.ValidateStruct(row); err != nil {
		return nil, apperr.Validation("%v", err)
	}

	if s.hooks.BeforeCreate != nil {
		s.hooks.BeforeCreate(row)
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, apperr.Upstream(fmt.Sprintf("failed to create %s", s.coll.Name), err)
	}

	s.written(ctx, base.Guild, "create", base.ID, sess)
	return row, nil
}

// Update applies the fields present in body to the row with id
func (s *Service[T, PT]) Update(ctx context.Context, sess *auth.Session, id string, body []byte) (PT, error) {
	ctx, span := s.startSpan(ctx, "Update")
	defer span.End()

	row, err := s.authorized(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	columns, err := ApplyPatch(row, body, s.coll.Updatable, s.coll.Nullable, s.coll.DateColumns)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return row, nil
	}
	if s.hooks.BeforeUpdate != nil {
		columns = s.hooks.BeforeUpdate(row, columns)
	}

	if err := s.repo.Update(ctx, row, columns); err != nil {
		return nil, apperr.Upstream(fmt.Sprintf("failed to update %s", s.coll.Name), err)
	}

	s.written(ctx, row.Base().Guild, "update", id, sess)
	return row, nil
}

// Remove deletes the row with id
func (s *Service[T, PT]) Remove(ctx context.Context, sess *auth.Session, id string) error {
	ctx, span := s.startSpan(ctx, "Remove")
	defer span.End()

	row, err := s.authorized(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Upstream(fmt.Sprintf("failed to delete %s", s.coll.Name), err)
	}

	s.written(ctx, row.Base().Guild, "delete", id, sess)
	return nil
}

// authorized loads the stored row and checks sess against its guild
func (s *Service[T, PT]) authorized(ctx context.Context, sess *auth.Session, id string) (PT, error) {
	if sess == nil {
		return nil, apperr.Authentication("Not authenticated")
	}
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.IsGuildStaff(sess, row.Base().Guild) {
		return nil, apperr.Forbidden("No access to this guild")
	}
	return row, nil
}

func (s *Service[T, PT]) written(ctx context.Context, guild, op, id string, sess *auth.Session) {
	if err := s.cache.Bump(ctx, guild); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		s.logger.Warn("cache invalidation failed", zap.String("guild", guild), zap.Error(err))
	}
	telemetry.RecordContentWrite(ctx, s.coll.Name, op)
	s.logger.Info("content "+op,
		zap.String("id", id),
		zap.String("guild", guild),
		zap.String("by", sess.DiscordID))
}

func (s *Service[T, PT]) listKey(ctx context.Context, guild string, q ListQuery) string {
	gen, err := s.cache.Generation(ctx, guild)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("list:%s:%s:%d:%s", s.coll.Name, guild, gen, cache.HashKey(q.cacheKey()))
}

func (s *Service[T, PT]) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return telemetry.StartSpan(ctx, "content."+op,
		trace.WithAttributes(attribute.String("collection", s.coll.Name)))
}

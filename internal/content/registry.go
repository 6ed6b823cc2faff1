package content

import (
	"context"

	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/cache"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/models"
)

// Store is the collection-agnostic view of a Service used by the HTTP layer
type Store interface {
	Collection() Collection
	ListAny(ctx context.Context, guild string, q ListQuery) (interface{}, error)
	GetAny(ctx context.Context, id string) (interface{}, error)
	CreateAny(ctx context.Context, sess *auth.Session, body []byte) (interface{}, error)
	UpdateAny(ctx context.Context, sess *auth.Session, id string, body []byte) (interface{}, error)
	Remove(ctx context.Context, sess *auth.Session, id string) error
}

// ListAny is List with the row type erased
func (s *Service[T, PT]) ListAny(ctx context.Context, guild string, q ListQuery) (interface{}, error) {
	return s.List(ctx, guild, q)
}

// GetAny is Get with the row type erased
func (s *Service[T, PT]) GetAny(ctx context.Context, id string) (interface{}, error) {
	return s.Get(ctx, id)
}

// CreateAny is Create with the row type erased
func (s *Service[T, PT]) CreateAny(ctx context.Context, sess *auth.Session, body []byte) (interface{}, error) {
	return s.Create(ctx, sess, body)
}

// UpdateAny is Update with the row type erased
func (s *Service[T, PT]) UpdateAny(ctx context.Context, sess *auth.Session, id string, body []byte) (interface{}, error) {
	return s.Update(ctx, sess, id, body)
}

// Repositories holds one repository per collection
type Repositories struct {
	Newsletters   *db.ContentRepository[models.Newsletter, *models.Newsletter]
	Events        *db.ContentRepository[models.Event, *models.Event]
	Announcements *db.ContentRepository[models.Announcement, *models.Announcement]
	Spotlights    *db.ContentRepository[models.Spotlight, *models.Spotlight]
	Recaps        *db.ContentRepository[models.Recap, *models.Recap]
	Highlights    *db.ContentRepository[models.Highlight, *models.Highlight]
}

// NewRepositories creates every content repository
func NewRepositories(repo *db.Repository) *Repositories {
	return &Repositories{
		Newsletters:   db.NewContentRepository[models.Newsletter](repo),
		Events:        db.NewContentRepository[models.Event](repo),
		Announcements: db.NewContentRepository[models.Announcement](repo),
		Spotlights:    db.NewSpotlightRepository(repo),
		Recaps:        db.NewContentRepository[models.Recap](repo),
		Highlights:    db.NewContentRepository[models.Highlight](repo),
	}
}

// Services holds one service per collection
type Services struct {
	Newsletters   *Service[models.Newsletter, *models.Newsletter]
	Events        *Service[models.Event, *models.Event]
	Announcements *Service[models.Announcement, *models.Announcement]
	Spotlights    *Service[models.Spotlight, *models.Spotlight]
	Recaps        *Service[models.Recap, *models.Recap]
	Highlights    *Service[models.Highlight, *models.Highlight]
}

// NewServices creates every content service
func NewServices(repos *Repositories, c *cache.Cache) *Services {
	return &Services{
		Newsletters:   NewService(Newsletters, repos.Newsletters, c, NewsletterHooks()),
		Events:        NewService(Events, repos.Events, c, Hooks[*models.Event]{}),
		Announcements: NewService(Announcements, repos.Announcements, c, Hooks[*models.Announcement]{}),
		Spotlights:    NewService(Spotlights, repos.Spotlights, c, Hooks[*models.Spotlight]{}),
		Recaps:        NewService(Recaps, repos.Recaps, c, Hooks[*models.Recap]{}),
		Highlights:    NewService(Highlights, repos.Highlights, c, Hooks[*models.Highlight]{}),
	}
}

// Stores returns the services keyed by collection name
func (s *Services) Stores() map[string]Store {
	return map[string]Store{
		Newsletters:   s.Newsletters,
		Events:        s.Events,
		Announcements: s.Announcements,
		Spotlights:    s.Spotlights,
		Recaps:        s.Recaps,
		Highlights:    s.Highlights,
	}
}

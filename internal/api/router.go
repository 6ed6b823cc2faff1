package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/cache"
	"github.com/unityguilds/hub/internal/content"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/leaderboard"
	"github.com/unityguilds/hub/internal/search"
	"github.com/unityguilds/hub/pkg/logging"
)

// Authorizer builds the identity provider's authorize URL
type Authorizer interface {
	AuthCodeURL(state string) string
}

// Authenticator turns an OAuth code into a session
type Authenticator interface {
	Authenticate(ctx context.Context, code, guildHint string) (*auth.Session, error)
}

// Options are the services the router dispatches to
type Options struct {
	Database *db.DB
	Cache    *cache.Cache
	Sessions *auth.SessionCodec
	Login    Authorizer
	Resolver Authenticator
	Content  *content.Services
	Settings *content.SettingsService
	Games    *leaderboard.Service
	Search   *search.Service
	SiteURL  string
	Location *time.Location
}

// Router sets up API routes
type Router struct {
	opts   Options
	stores map[string]content.Store
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(opts Options) *Router {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Router{
		opts:   opts,
		stores: opts.Content.Stores(),
		logger: logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	api := engine.Group("/api")
	api.Use(r.opts.Sessions.Middleware())

	api.GET("/guilds", r.handle(http.StatusOK, r.listGuilds))
	api.GET("/guilds/:slug", r.handle(http.StatusOK, r.getGuild))

	authGroup := api.Group("/auth")
	authGroup.GET("/login", r.login)
	authGroup.GET("/callback", r.callback)
	authGroup.GET("/session", r.session)
	authGroup.POST("/logout", r.handle(http.StatusOK, r.logout))

	for _, name := range content.Names {
		r.registerCollection(api.Group("/"+name), r.stores[name])
	}
	events := api.Group("/" + content.Events)
	events.GET("/:id/calendar", r.handle(http.StatusOK, r.eventCalendar))
	events.GET("/:id/calendar.ics", r.eventICS)

	api.GET("/settings", r.handle(http.StatusOK, r.getSettings))
	api.PUT("/settings", r.handle(http.StatusOK, r.putSettings))

	api.GET("/games", r.handle(http.StatusOK, r.getGames))
	api.PUT("/games", r.handle(http.StatusOK, r.putGames))
	api.GET("/games/leaderboard", r.handle(http.StatusOK, r.getLeaderboard))

	api.GET("/search", r.handle(http.StatusOK, r.search))
}

// healthHandler reports database and cache health
func (r *Router) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "OK", http.StatusOK
	checks := gin.H{}
	if r.opts.Database != nil {
		if err := r.opts.Database.Health(ctx); err != nil {
			r.logger.Warn("database health check failed", zap.Error(err))
			checks["database"] = err.Error()
			status, code = "DEGRADED", http.StatusServiceUnavailable
		} else {
			checks["database"] = "OK"
		}
	}
	if r.opts.Cache != nil {
		if err := r.opts.Cache.Health(ctx); err != nil {
			r.logger.Warn("cache health check failed", zap.Error(err))
			checks["cache"] = err.Error()
		} else {
			checks["cache"] = "OK"
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "unity-guilds-api",
		"checks":  checks,
	})
}

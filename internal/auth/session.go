package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/pkg/config"
	"github.com/unityguilds/hub/pkg/logging"
)

// CookieName is the name of the session cookie
const CookieName = "unity-session"

const contextKey = "unity.session"

// ErrNoSession is returned when the request carries no valid session cookie
var ErrNoSession = errors.New("no session")

// SessionCodec signs and reads the session cookie
type SessionCodec struct {
	cookie *securecookie.SecureCookie
	maxAge int
	secure bool
}

// NewSessionCodec creates a codec from the session keys.
// An empty hash key outside production gets a random one, so sessions do not survive restarts.
func NewSessionCodec(cfg config.SessionConfig, production bool) (*SessionCodec, error) {
	hashKey := []byte(cfg.HashKey)
	if len(hashKey) == 0 {
		if production {
			return nil, fmt.Errorf("session hash key is required in production")
		}
		logging.GetLogger().Warn("No session hash key configured, using an ephemeral key")
		hashKey = securecookie.GenerateRandomKey(32)
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey = []byte(cfg.BlockKey)
	}

	maxAge := int(cfg.MaxAge.Seconds())
	cookie := securecookie.New(hashKey, blockKey)
	cookie.SetSerializer(securecookie.JSONEncoder{})
	cookie.MaxAge(maxAge)

	return &SessionCodec{
		cookie: cookie,
		maxAge: maxAge,
		secure: production,
	}, nil
}

// Write sets the session cookie on w
func (c *SessionCodec) Write(w http.ResponseWriter, s *Session) error {
	value, err := c.cookie.Encode(CookieName, s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	http.SetCookie(w, c.newCookie(value, c.maxAge))
	return nil
}

// Read returns the session carried by r, or ErrNoSession
func (c *SessionCodec) Read(r *http.Request) (*Session, error) {
	raw, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	var s Session
	if err := c.cookie.Decode(CookieName, raw.Value, &s); err != nil {
		return nil, ErrNoSession
	}
	if s.DiscordID == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Clear expires the session cookie
func (c *SessionCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.newCookie("", -1))
}

func (c *SessionCodec) newCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware attaches the caller's session, if any, to the gin context
func (c *SessionCodec) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		s, err := c.Read(ctx.Request)
		if err == nil {
			ctx.Set(contextKey, s)
			logging.GetLogger().Debug("session attached",
				zap.String("discord_id", s.DiscordID),
				zap.String("guild", s.Guild))
		}
		ctx.Next()
	}
}

// FromContext returns the session attached by Middleware, or nil
func FromContext(ctx *gin.Context) *Session {
	v, ok := ctx.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

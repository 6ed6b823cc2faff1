package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/pkg/telemetry"
)

// gamesState routes a login back to the games page
const gamesState = "games"

// login redirects to the identity provider. state names the page to return to.
func (r *Router) login(c *gin.Context) {
	c.Redirect(http.StatusFound, r.opts.Login.AuthCodeURL(returnState(c.Query("state"))))
}

// callback completes the OAuth flow, sets the session cookie and redirects
func (r *Router) callback(c *gin.Context) {
	code := c.Query("code")
	state := returnState(c.Query("state"))
	if code == "" {
		r.loginFailed(c, "no_code", nil)
		return
	}

	hint := ""
	if state != gamesState {
		hint = state
	}
	sess, err := r.opts.Resolver.Authenticate(c.Request.Context(), code, hint)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExchange):
			r.loginFailed(c, "token_failed", err)
		case errors.Is(err, auth.ErrProfileFetch):
			r.loginFailed(c, "user_fetch_failed", err)
		case errors.Is(err, auth.ErrNotAMember):
			r.loginFailed(c, "not_member", err)
		default:
			r.loginFailed(c, "auth_failed", err)
		}
		return
	}

	if err := r.opts.Sessions.Write(c.Writer, sess); err != nil {
		r.loginFailed(c, "auth_failed", err)
		return
	}
	telemetry.RecordLogin(c.Request.Context(), "success")

	target := "/" + sess.Guild
	switch {
	case state == gamesState:
		target = "/guildie-games"
	case state != "":
		target = "/" + state
	}
	c.Redirect(http.StatusFound, r.opts.SiteURL+target)
}

func (r *Router) loginFailed(c *gin.Context, code string, err error) {
	telemetry.RecordLogin(c.Request.Context(), code)
	if err != nil {
		r.logger.Warn("login failed", zap.String("code", code), zap.Error(err))
	}
	c.Redirect(http.StatusFound, r.opts.SiteURL+"/?error="+url.QueryEscape(code))
}

// session returns the caller's session, or null with 401
func (r *Router) session(c *gin.Context) {
	sess := auth.FromContext(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, nil)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (r *Router) logout(c *gin.Context) (interface{}, error) {
	r.opts.Sessions.Clear(c.Writer)
	return gin.H{"success": true}, nil
}

// returnState keeps only states that name a page on this site
func returnState(state string) string {
	if state == gamesState || guilds.Valid(state) {
		return state
	}
	return ""
}

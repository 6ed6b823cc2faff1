package api

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/leaderboard"
)

func (r *Router) listGuilds(c *gin.Context) (interface{}, error) {
	return guilds.All(), nil
}

func (r *Router) getGuild(c *gin.Context) (interface{}, error) {
	g, ok := guilds.Get(c.Param("slug"))
	if !ok {
		return nil, apperr.NotFound("guild %s not found", c.Param("slug"))
	}
	return g, nil
}

func (r *Router) getSettings(c *gin.Context) (interface{}, error) {
	return r.opts.Settings.Get(c.Request.Context(), c.Query("guild"))
}

func (r *Router) putSettings(c *gin.Context) (interface{}, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, apperr.Validation("failed to read body")
	}
	return r.opts.Settings.Put(c.Request.Context(), auth.FromContext(c), body)
}

func (r *Router) getGames(c *gin.Context) (interface{}, error) {
	return r.opts.Games.Board(c.Request.Context())
}

func (r *Router) putGames(c *gin.Context) (interface{}, error) {
	sess := auth.FromContext(c)
	var req leaderboard.SaveRequest
	if sess != nil && auth.IsSuperAdmin(sess) {
		body, err := c.GetRawData()
		if err != nil {
			return nil, apperr.Validation("failed to read body")
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, apperr.Validation("invalid JSON body: %v", err)
		}
	}
	if err := r.opts.Games.Save(c.Request.Context(), sess, &req); err != nil {
		return nil, err
	}
	return gin.H{"success": true}, nil
}

func (r *Router) getLeaderboard(c *gin.Context) (interface{}, error) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return nil, apperr.Validation("month must be a number between 1 and 12")
	}
	return r.opts.Games.MonthBoard(c.Request.Context(), month)
}

func (r *Router) search(c *gin.Context) (interface{}, error) {
	return r.opts.Search.Search(c.Request.Context(), c.Query("q"), c.Query("guild"))
}

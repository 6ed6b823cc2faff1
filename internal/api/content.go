package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/calendar"
	"github.com/unityguilds/hub/internal/content"
	"github.com/unityguilds/hub/internal/models"
)

// reserved query parameters that are never column filters
var reservedParams = map[string]bool{"guild": true, "order": true, "limit": true, "format": true}

func (r *Router) registerCollection(group *gin.RouterGroup, store content.Store) {
	group.GET("", r.handle(http.StatusOK, listContent(store)))
	group.POST("", r.handle(http.StatusCreated, createContent(store)))
	group.GET("/:id", r.handle(http.StatusOK, getContent(store)))
	group.PUT("/:id", r.handle(http.StatusOK, updateContent(store)))
	group.DELETE("/:id", r.handle(http.StatusOK, deleteContent(store)))
}

func listContent(store content.Store) HandlerFunc {
	return func(c *gin.Context) (interface{}, error) {
		return store.ListAny(c.Request.Context(), c.Query("guild"), listQuery(c))
	}
}

func getContent(store content.Store) HandlerFunc {
	return func(c *gin.Context) (interface{}, error) {
		row, err := store.GetAny(c.Request.Context(), c.Param("id"))
		if err != nil {
			return nil, err
		}
		if n, ok := row.(*models.Newsletter); ok && c.Query("format") == "html" {
			rendered, err := content.Render(n)
			if err != nil {
				return nil, apperr.Upstream("failed to render newsletter", err)
			}
			return rendered, nil
		}
		return row, nil
	}
}

func createContent(store content.Store) HandlerFunc {
	return func(c *gin.Context) (interface{}, error) {
		body, err := c.GetRawData()
		if err != nil {
			return nil, apperr.Validation("failed to read body")
		}
		return store.CreateAny(c.Request.Context(), auth.FromContext(c), body)
	}
}

func updateContent(store content.Store) HandlerFunc {
	return func(c *gin.Context) (interface{}, error) {
		body, err := c.GetRawData()
		if err != nil {
			return nil, apperr.Validation("failed to read body")
		}
		return store.UpdateAny(c.Request.Context(), auth.FromContext(c), c.Param("id"), body)
	}
}

func deleteContent(store content.Store) HandlerFunc {
	return func(c *gin.Context) (interface{}, error) {
		if err := store.Remove(c.Request.Context(), auth.FromContext(c), c.Param("id")); err != nil {
			return nil, err
		}
		return gin.H{"success": true}, nil
	}
}

// listQuery reads order, limit and equality filters from the query string
func listQuery(c *gin.Context) content.ListQuery {
	q := content.ListQuery{
		Order:   c.Query("order"),
		Limit:   c.Query("limit"),
		Filters: map[string]string{},
	}
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		q.Filters[key] = values[0]
	}
	return q
}

func (r *Router) eventCalendar(c *gin.Context) (interface{}, error) {
	ev, err := r.opts.Content.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	icsURL := fmt.Sprintf("%s/api/events/%s/calendar.ics", r.opts.SiteURL, ev.ID)
	return calendar.For(ev, r.opts.Location, icsURL)
}

func (r *Router) eventICS(c *gin.Context) {
	ev, err := r.opts.Content.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.sendError(c, err)
		return
	}
	doc, err := calendar.ICS(ev, r.opts.Location, time.Now())
	if err != nil {
		r.sendError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, calendar.FileName(ev.Title)))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/pkg/logging"
)

// ErrorResponse is the body of every failed API request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandlerFunc handles a request and returns the value to encode
type HandlerFunc func(c *gin.Context) (interface{}, error)

// handle encodes the handler's result with status, or its error as an ErrorResponse
func (r *Router) handle(status int, h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h(c)
		if err != nil {
			r.sendError(c, err)
			return
		}
		c.JSON(status, result)
	}
}

// sendError maps err to its status code. Unclassified errors never leak their text.
func (r *Router) sendError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	message := "Internal server error"
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	}
	logger := logging.ForContext(c.Request.Context(), r.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Debug("request rejected", fields...)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

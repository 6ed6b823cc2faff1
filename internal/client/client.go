package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/content"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/leaderboard"
	"github.com/unityguilds/hub/internal/search"
	"github.com/unityguilds/hub/pkg/logging"
	"github.com/unityguilds/hub/pkg/telemetry"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the hub API.
// Its text is the server's error message so it can be shown to the user as is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client talks to the hub API on behalf of one signed-in user
type Client struct {
	baseURL string
	http    *http.Client
	session string
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithSessionCookie sends value as the session cookie on every request
func WithSessionCookie(value string) Option {
	return func(c *Client) {
		c.session = value
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logging.WithComponent("api-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do sends one request. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	ctx, span := telemetry.StartSpan(ctx, "client."+strings.ToLower(method))
	defer span.End()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: c.session})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		c.logger.Debug("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", apiErr.Message))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Session returns the signed-in user, or nil when there is none
func (c *Client) Session(ctx context.Context) (*auth.Session, error) {
	var sess auth.Session
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, nil, &sess); err != nil {
		if StatusOf(err) == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

// Logout clears the session on the server
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

// Guilds lists the guild catalog
func (c *Client) Guilds(ctx context.Context) ([]guilds.Guild, error) {
	var out []guilds.Guild
	if err := c.do(ctx, http.MethodGet, "/api/guilds", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Settings loads a guild's settings, defaults included
func (c *Client) Settings(ctx context.Context, guild string) (*content.Settings, error) {
	var out content.Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", url.Values{"guild": {guild}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutSettings merges fields into the guild's stored settings
func (c *Client) PutSettings(ctx context.Context, guild string, fields map[string]interface{}) (*content.Settings, error) {
	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["guild"] = guild

	var out content.Settings
	if err := c.do(ctx, http.MethodPut, "/api/settings", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveSections writes order and visibility in one settings update
func (c *Client) SaveSections(ctx context.Context, guild string, order []string, visibility map[string]bool) error {
	_, err := c.PutSettings(ctx, guild, map[string]interface{}{
		"section_order":      order,
		"section_visibility": visibility,
	})
	return err
}

// Games returns every month and score
func (c *Client) Games(ctx context.Context) (*leaderboard.Board, error) {
	var out leaderboard.Board
	if err := c.do(ctx, http.MethodGet, "/api/games", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveGames upserts months and scores. Super admins only.
func (c *Client) SaveGames(ctx context.Context, req *leaderboard.SaveRequest) error {
	return c.do(ctx, http.MethodPut, "/api/games", nil, req, nil)
}

// Leaderboard returns the ranked rows for one month
func (c *Client) Leaderboard(ctx context.Context, month int) (*leaderboard.MonthBoard, error) {
	var out leaderboard.MonthBoard
	query := url.Values{"month": {strconv.Itoa(month)}}
	if err := c.do(ctx, http.MethodGet, "/api/games/leaderboard", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search runs a cross-collection search within a guild
func (c *Client) Search(ctx context.Context, query, guild string) (*search.Response, error) {
	var out search.Response
	if err := c.do(ctx, http.MethodGet, "/api/search", url.Values{"q": {query}, "guild": {guild}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

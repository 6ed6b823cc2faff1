package admin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/client"
	"github.com/unityguilds/hub/pkg/logging"
)

// Backend is the CRUD surface of one content collection
type Backend[T any] interface {
	List(ctx context.Context, guild string) ([]*T, error)
	Create(ctx context.Context, guild string, fields map[string]interface{}) (*T, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*T, error)
	Delete(ctx context.Context, id string) error
}

// MessageKind tells a success toast from an error toast
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a dismissible toast
type Message struct {
	Kind MessageKind `json:"type"`
	Text string      `json:"text"`
}

// State is a copy of the controller's state for rendering
type State[T any] struct {
	Guild   string   `json:"guild"`
	Items   []*T     `json:"items"`
	Loading bool     `json:"loading"`
	Error   string   `json:"error,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// Controller drives one admin page: a guild's rows of one collection.
// Every successful mutation is followed by a full refresh.
type Controller[T any] struct {
	mu      sync.Mutex
	backend Backend[T]
	guild   string
	items   []*T
	loading bool
	err     string
	message *Message

	// gen increments on every refresh so a slow list for a previous guild is discarded
	gen    uint64
	logger *zap.Logger
}

// New creates a controller for guild. Call Refresh to load the first page.
func New[T any](backend Backend[T], guild string) *Controller[T] {
	return &Controller[T]{
		backend: backend,
		guild:   guild,
		items:   []*T{},
		logger:  logging.WithComponent("admin"),
	}
}

// Refresh reloads the selected guild's rows. On failure the list is emptied.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	guild := c.guild
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	items, err := c.backend.List(ctx, guild)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return err
	}
	c.loading = false
	if err != nil {
		c.logger.Warn("failed to load items", zap.String("guild", guild), zap.Error(err))
		c.err = err.Error()
		c.items = []*T{}
		return err
	}
	if items == nil {
		items = []*T{}
	}
	c.items = items
	return nil
}

// SelectGuild switches the page to guild and reloads it
func (c *Controller[T]) SelectGuild(ctx context.Context, guild string) error {
	c.mu.Lock()
	changed := c.guild != guild
	c.guild = guild
	c.mu.Unlock()

	if !changed {
		return nil
	}
	return c.Refresh(ctx)
}

// Create adds a row to the selected guild
func (c *Controller[T]) Create(ctx context.Context, fields map[string]interface{}) (*T, error) {
	guild := c.begin()
	item, err := c.backend.Create(ctx, guild, fields)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	c.succeed(ctx, "Created successfully!")
	return item, nil
}

// Update applies a partial update to one row
func (c *Controller[T]) Update(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	c.begin()
	item, err := c.backend.Update(ctx, id, fields)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	c.succeed(ctx, "Updated successfully!")
	return item, nil
}

// Remove deletes one row
func (c *Controller[T]) Remove(ctx context.Context, id string) error {
	c.begin()
	if err := c.backend.Delete(ctx, id); err != nil {
		c.fail(err)
		return err
	}
	c.succeed(ctx, "Deleted successfully!")
	return nil
}

// ClearMessage dismisses the toast
func (c *Controller[T]) ClearMessage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = nil
}

// Snapshot returns a copy of the current state
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]*T, len(c.items))
	copy(items, c.items)
	var msg *Message
	if c.message != nil {
		m := *c.message
		msg = &m
	}
	return State[T]{
		Guild:   c.guild,
		Items:   items,
		Loading: c.loading,
		Error:   c.err,
		Message: msg,
	}
}

// begin clears the toast and returns the selected guild
func (c *Controller[T]) begin() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = nil
	return c.guild
}

func (c *Controller[T]) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = &Message{Kind: MessageError, Text: err.Error()}
}

// succeed sets the toast and refetches. A failed refetch shows in State.Error.
func (c *Controller[T]) succeed(ctx context.Context, text string) {
	c.mu.Lock()
	c.message = &Message{Kind: MessageSuccess, Text: text}
	c.mu.Unlock()
	_ = c.Refresh(ctx)
}

// ErrNoAdminAccess is returned when the signed-in user holds no staff role
var ErrNoAdminAccess = apperr.Forbidden("Admin access requires a staff role")

// ForCollection creates a controller backed by the API's named collection.
// The client's session must be allowed into the admin dashboard.
func ForCollection[T any](ctx context.Context, c *client.Client, name, guild string) (*Controller[T], error) {
	col, err := client.CollectionOf[T](c, name)
	if err != nil {
		return nil, err
	}
	sess, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccessAdmin(sess) {
		return nil, ErrNoAdminAccess
	}
	return New[T](col, guild), nil
}

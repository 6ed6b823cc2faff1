package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/unityguilds/hub/internal/content"
)

// Collection is the typed CRUD surface of one content collection
type Collection[T any] struct {
	client *Client
	name   string
}

// CollectionOf binds a content collection to its record type.
// The name must be one of content.Names.
func CollectionOf[T any](c *Client, name string) (*Collection[T], error) {
	if _, ok := content.Lookup(name); !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	return &Collection[T]{client: c, name: name}, nil
}

// Name returns the collection name used in API paths
func (col *Collection[T]) Name() string {
	return col.name
}

func (col *Collection[T]) path(id string) string {
	if id == "" {
		return "/api/" + col.name
	}
	return "/api/" + col.name + "/" + url.PathEscape(id)
}

// List returns a guild's rows in the collection's default order
func (col *Collection[T]) List(ctx context.Context, guild string) ([]*T, error) {
	var out []*T
	if err := col.client.do(ctx, http.MethodGet, col.path(""), url.Values{"guild": {guild}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one row by id
func (col *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := col.client.do(ctx, http.MethodGet, col.path(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds a row to guild. The guild argument wins over any guild in fields.
func (col *Collection[T]) Create(ctx context.Context, guild string, fields map[string]interface{}) (*T, error) {
	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["guild"] = guild

	var out T
	if err := col.client.do(ctx, http.MethodPost, col.path(""), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial update to one row
func (col *Collection[T]) Update(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	var out T
	if err := col.client.do(ctx, http.MethodPut, col.path(id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes one row
func (col *Collection[T]) Delete(ctx context.Context, id string) error {
	return col.client.do(ctx, http.MethodDelete, col.path(id), nil, nil, nil)
}

package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Resource is the CRUD contract of one entity collection at a base path R:
// GET R, POST R, PUT R/{id}, DELETE R/{id}.
type Resource[T any] struct {
	c    *Client
	path string
}

func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: "/" + strings.Trim(path, "/")}
}

func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) item(id int) string { return r.path + "/" + strconv.Itoa(id) }

// List fetches the whole collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &out, ""); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Create posts a validated draft.
func (r *Resource[T]) Create(ctx context.Context, draft T) error {
	return r.c.do(ctx, http.MethodPost, r.path, draft, nil, "")
}

// Update replaces the record at id with the full draft.
func (r *Resource[T]) Update(ctx context.Context, id int, draft T) error {
	return r.c.do(ctx, http.MethodPut, r.item(id), draft, nil, "")
}

// Delete removes the record at id. The id is echoed in the body for servers that read it there.
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.c.do(ctx, http.MethodDelete, r.item(id), map[string]int{"id": id}, nil, "")
}

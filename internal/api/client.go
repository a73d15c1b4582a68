// Package api is the typed surface the Taskloop product calls. It stays
// thin: payloads are decoded into small structs and unknown server fields
// are ignored; all transport, retry, and error semantics live in dispatch.
package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/taskloop/taskloop-go/internal/dispatch"
	"github.com/taskloop/taskloop-go/internal/tokenstore"
)

// Client wraps the dispatcher with typed endpoint methods.
type Client struct {
	dispatcher *dispatch.Dispatcher
	store      tokenstore.Store
	logger     zerolog.Logger
}

// NewClient creates a client on top of an existing dispatcher
func NewClient(dispatcher *dispatch.Dispatcher, logger zerolog.Logger) *Client {
	return &Client{
		dispatcher: dispatcher,
		store:      dispatcher.Store(),
		logger:     logger,
	}
}

// Authenticated reports whether an access token is currently stored.
func (c *Client) Authenticated(ctx context.Context) bool {
	return c.store.GetAccess(ctx) != ""
}

// get dispatches an authenticated GET and decodes the payload into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.call(ctx, dispatch.Descriptor{
		Method:       http.MethodGet,
		Path:         path,
		RequiresAuth: true,
	}, out)
}

func (c *Client) call(ctx context.Context, desc dispatch.Descriptor, out any) error {
	env, err := c.dispatcher.Dispatch(ctx, desc)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return env.DecodeData(out)
}

// Pagination is the list metadata every collection endpoint returns.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

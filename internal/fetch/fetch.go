// Package fetch wraps the HTTP client used for inventory documents and
// cargo artifacts. Transport failures and non-2xx responses come back as
// *types.NetworkError carrying the attempted location.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"resty.dev/v3"

	"github.com/expozr/navigator/pkg/types"
)

// Client fetches documents and artifacts over HTTP.
type Client struct {
	http *resty.Client
}

// New creates a fetch client. When transport is nil the default transport
// is used; tests inject an httptest transport through it.
func New(transport http.RoundTripper) *Client {
	c := resty.New()
	if transport != nil {
		c.SetTransport(transport)
	}
	return &Client{http: c}
}

// JSON fetches url and decodes the response body into out.
func (c *Client) JSON(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// Text fetches url and returns the response body as a string. Used for
// script artifacts handed to the sandbox.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// get performs one GET, normalizing failures into *types.NetworkError.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &types.NetworkError{URL: url, Cause: err}
	}
	if res.IsError() {
		return nil, &types.NetworkError{URL: url, Status: res.StatusCode()}
	}
	return res.Bytes(), nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

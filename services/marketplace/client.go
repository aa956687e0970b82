// Package marketplace is the thin client for the upstream tutoring-marketplace
// REST API. It owns no state beyond its HTTP client: the bearer token is read
// fresh per call, responses are decoded wholesale into display DTOs, and every
// non-2xx response is normalized into an *APIError carrying the backend's own
// message verbatim. No retries, no de-duplication; callers own loading/error
// state per view.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/walimu/walimu/core"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.Backend.BaseURL, "/"),
		http: &http.Client{
			Timeout:   conf.Backend.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// NewClientForURL is used by tests to point the client at a fake backend.
func NewClientForURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// request performs one call against the backend. token is attached as a bearer
// header when non-empty; it is always passed in per call so a login or logout
// mid-session takes effect immediately.
func (c *Client) request(ctx context.Context, method, path, token string, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	//goland:noinspection GoUnhandledErrorResult
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newAPIError(res.StatusCode, path, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, path)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	return c.request(ctx, http.MethodGet, path, token, nil, out)
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	return c.request(ctx, http.MethodPost, path, token, body, out)
}

func (c *Client) patch(ctx context.Context, path, token string, body, out interface{}) error {
	return c.request(ctx, http.MethodPatch, path, token, body, out)
}

func (c *Client) delete(ctx context.Context, path, token string) error {
	return c.request(ctx, http.MethodDelete, path, token, nil, nil)
}

func idPath(format, id string) string {
	return fmt.Sprintf(format, id)
}

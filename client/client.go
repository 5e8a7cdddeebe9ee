// Package client is the gateway to the FinMind REST API. It is a thin
// wrapper over a single HTTP client: every outbound request carries the
// stored bearer credential when one is present, responses are decoded
// as-is, and failures surface the server-supplied detail message for the
// page to render. It does not retry, cache, or transform responses, and
// it does not intercept auth failures; each page handles those itself.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/finmind/finmind-go"
)

// DefaultBaseURL is the development API endpoint.
const DefaultBaseURL = "http://localhost:8000"

// TokenSource yields the current bearer credential; the empty string
// means "send the request unauthenticated and let the server decide".
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// APIError carries the HTTP status and the server's detail message for a
// failed request.
type APIError struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}

// IsUnauthorized reports whether err is an APIError with a 401 status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if goerrors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     finmind.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger overrides the client logger.
func WithLogger(logger finmind.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		tokens:     tokens,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, query url.Values, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request payload")
	}
	return c.do(ctx, http.MethodPost, path, query, "application/json", bytes.NewReader(body), out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, nil, "application/x-www-form-urlencoded", body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	return c.send(req, out)
}

// authorize attaches the stored credential as a bearer header when one is
// present. Requests proceed without it otherwise; authorization is the
// server's call.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return nil
	}

	token, err := c.tokens.Get(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read stored credential")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "http client do")
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read response body")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apiErrorFromResponse(resp.StatusCode, respBytes)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to decode response body")
	}

	return nil
}

func apiErrorFromResponse(status int, body []byte) *APIError {
	detail := struct {
		Detail string `json:"detail"`
	}{}

	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return &APIError{Status: status, Detail: detail.Detail}
	}

	return &APIError{
		Status: status,
		Detail: fmt.Sprintf("Request failed with status %d", status),
	}
}

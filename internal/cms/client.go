package cms

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

	"beam-website/pkg/logger"
)

const maxErrorBody = 64 << 10

// Envelope is the decoded top level of every CMS response.
type Envelope struct {
	Data json.RawMessage `json:"data"`
	Meta Meta            `json:"meta"`
}

type Meta struct {
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type PaginationMeta struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// APIError is the error body returned by the CMS on failures.
type APIError struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues read queries and form submissions against the CMS API. It
// never retries and never caches.
type Client struct {
	baseURL  *url.URL
	token    string
	http     *http.Client
	defaults Query
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("cms base url is required")
	}
	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid cms base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("cms base url %q must be absolute", base)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	initMetrics()

	return &Client{
		baseURL:  parsed,
		token:    strings.TrimSpace(opts.Token),
		http:     httpClient,
		defaults: defaultQuery,
	}, nil
}

// Fetch runs a GET against path with q merged over the default parameters.
func (c *Client) Fetch(ctx context.Context, path string, q Query) (*Envelope, error) {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}

	values, err := q.merge(c.defaults).Values()
	if err != nil {
		return nil, fmt.Errorf("invalid query for %s: %w", path, err)
	}
	endpoint.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	return c.do(req, path)
}

// Submit POSTs payload wrapped as {"data": payload}.
func (c *Client) Submit(ctx context.Context, path string, payload interface{}) (*Envelope, error) {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]interface{}{"data": payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path)
}

func (c *Client) endpoint(path string) (*url.URL, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrEmptyPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return &u, nil
}

func (c *Client) do(req *http.Request, path string) (*Envelope, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observeRequest(path, 0, time.Since(start))
		return nil, c.fail(req.Context(), &FetchError{Path: path, Err: err})
	}
	defer resp.Body.Close()
	observeRequest(path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(req.Context(), &FetchError{Status: resp.StatusCode, Path: path, Err: readAPIError(resp.Body)})
	}

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && !errors.Is(err, io.EOF) {
		return nil, c.fail(req.Context(), &FetchError{Status: resp.StatusCode, Path: path, Err: fmt.Errorf("invalid response body: %w", err)})
	}
	return &envelope, nil
}

func (c *Client) fail(ctx context.Context, err *FetchError) error {
	logger.FromContext(ctx).WithError(err.Err).WithFields(map[string]interface{}{
		"path":   err.Path,
		"status": err.Status,
	}).Error("CMS request failed")
	return err
}

func readAPIError(body io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var payload struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == nil {
		return nil
	}
	return payload.Error
}

func statusLabel(status int) string {
	if status == 0 {
		return "transport_error"
	}
	return strconv.Itoa(status)
}

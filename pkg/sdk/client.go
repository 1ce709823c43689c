// Package sdk is a minimal Go client for the quaero HTTP API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a quaero server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs the tiered retrieval.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.do(ctx, http.MethodPost, "/search", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchSemantic runs the aggregation scoring mode.
func (c *Client) SearchSemantic(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.do(ctx, http.MethodPost, "/search/semantic", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchMetadata returns documents matching the filter alone.
func (c *Client) SearchMetadata(ctx context.Context, req MetadataSearchRequest) (*DocumentsResponse, error) {
	var out DocumentsResponse
	if err := c.do(ctx, http.MethodPost, "/search/metadata", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Insert stores one document.
func (c *Client) Insert(ctx context.Context, req InsertRequest) (*Document, error) {
	var out Document
	if err := c.do(ctx, http.MethodPost, "/documents", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InsertBatch stores documents in one round-trip.
func (c *Client) InsertBatch(ctx context.Context, reqs []InsertRequest) (*DocumentsResponse, error) {
	var out DocumentsResponse
	if err := c.do(ctx, http.MethodPost, "/documents/batch", batchInsertRequest{Documents: reqs}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a document by ID.
func (c *Client) Get(ctx context.Context, id string) (*Document, error) {
	var out Document
	if err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns up to limit documents, most recent first. Zero means the
// server default.
func (c *Client) List(ctx context.Context, limit int) (*DocumentsResponse, error) {
	path := "/documents"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out DocumentsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a document by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil)
}

// Count returns the number of stored documents.
func (c *Client) Count(ctx context.Context) (int, error) {
	var out countResponse
	if err := c.do(ctx, http.MethodGet, "/documents/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Health fetches the service health snapshot.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: resp.Status}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}

// Package discogs is a single-attempt client for the Discogs database API.
//
// Every call issues at most one GET. Nothing is retried or throttled here:
// callers inspect the error Kind and decide, and may watch the rate-limit
// budget through Config.OnRateLimitLow.
package discogs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Config is captured by New and never mutated afterwards.
type Config struct {
	BaseURL     string
	UserAgent   string
	Credentials Credentials
	HTTPClient  *http.Client
	// Fetcher overrides the HTTP transport; HTTPClient is ignored when set.
	Fetcher        Fetcher
	LowWaterMark   int
	OnRateLimitLow RateLimitObserver
}

// Client is safe for concurrent use.
type Client struct {
	builder      *RequestBuilder
	fetcher      Fetcher
	lowWaterMark int
	onLow        RateLimitObserver
}

// SearchResponse is one page of search hits.
type SearchResponse struct {
	Results    []RawSearchHit
	Pagination Pagination
}

func New(cfg Config) (*Client, error) {
	builder, err := NewRequestBuilder(cfg.BaseURL, cfg.UserAgent, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(cfg.HTTPClient)
	}
	mark := cfg.LowWaterMark
	if mark <= 0 {
		mark = DefaultLowWaterMark
	}
	return &Client{
		builder:      builder,
		fetcher:      fetcher,
		lowWaterMark: mark,
		onLow:        cfg.OnRateLimitLow,
	}, nil
}

// Search runs a database search. An empty result set is not an error.
func (c *Client) Search(ctx context.Context, q SearchQuery) (SearchResponse, error) {
	req, err := c.builder.Search(q)
	if err != nil {
		return SearchResponse{}, err
	}
	page, err := do[SearchPage](ctx, c, "search", ShapeSearch, req, false)
	if err != nil {
		return SearchResponse{}, err
	}
	return SearchResponse{Results: page.Results, Pagination: page.Pagination}, nil
}

// SearchByBarcode returns the release hits for code, or an empty slice when
// nothing matches. NotFound means the search endpoint itself answered 404.
func (c *Client) SearchByBarcode(ctx context.Context, code string) ([]RawSearchHit, error) {
	req, err := c.builder.Barcode(code)
	if err != nil {
		return nil, err
	}
	page, err := do[SearchPage](ctx, c, "barcode search", ShapeSearch, req, true)
	if err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []RawSearchHit{}, nil
	}
	return page.Results, nil
}

// GetRelease fetches one release. HTTP 404 maps to NotFound.
func (c *Client) GetRelease(ctx context.Context, id int64) (RawRelease, error) {
	req, err := c.builder.Release(id)
	if err != nil {
		return RawRelease{}, err
	}
	return do[RawRelease](ctx, c, "get release", ShapeRelease, req, true)
}

// GetMaster fetches one master release. HTTP 404 maps to NotFound.
func (c *Client) GetMaster(ctx context.Context, id int64) (RawMaster, error) {
	req, err := c.builder.Master(id)
	if err != nil {
		return RawMaster{}, err
	}
	return do[RawMaster](ctx, c, "get master", ShapeMaster, req, true)
}

func do[T Payload](ctx context.Context, c *Client, op string, shape Shape, req Request, notFound bool) (T, error) {
	var zero T
	resp, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		return zero, &Error{Kind: KindUnavailable, Op: op, Err: err}
	}
	if err := classify(op, resp, notFound); err != nil {
		return zero, err
	}
	c.observe(op, resp.Header)

	v, err := decodeAs[T](shape, resp.Body)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Op = op
		}
		return zero, err
	}
	return v, nil
}

func classify(op string, resp Response, notFound bool) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Op: op, Status: resp.StatusCode, RetryAfter: retryAfter(resp.Header)}
	case resp.StatusCode == http.StatusNotFound && notFound:
		return &Error{Kind: KindNotFound, Op: op, Status: resp.StatusCode}
	}
	return &Error{Kind: KindUpstream, Op: op, Status: resp.StatusCode, Message: upstreamMessage(resp.Body)}
}

// upstreamMessage pulls {"message": "..."} out of an error body, truncated.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func (c *Client) observe(op string, h http.Header) {
	if c.onLow == nil {
		return
	}
	rl, ok := ReadRateLimit(h)
	if !ok || rl.Remaining >= c.lowWaterMark {
		return
	}
	rl.Op = op
	c.onLow(rl)
}

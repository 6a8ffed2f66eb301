package discogs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxBodyBytes       = 8 << 20
)

// Response is a raw upstream reply. Non-2xx statuses are returned as-is and
// classified by the client.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher executes one request. Implementations must honour ctx
// cancellation and report transport failures as errors.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// HTTPFetcher is the net/http Fetcher.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher wraps client, or a client with a 15s timeout when nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return Response{}, errors.New("response body exceeds 8 MiB")
	}
	return Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

package telemetry

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"vinylvault/internal/platform/discogs"
)

const (
	meterName = "vinylvault/catalog"

	metricCatalogRequests  = "catalog.requests"
	metricCatalogDuration  = "catalog.request.duration"
	metricCatalogRemaining = "catalog.ratelimit.remaining"
	metricCatalogLowWater  = "catalog.ratelimit.low"
)

// CatalogMetrics holds the instruments recorded around upstream catalog
// calls.
type CatalogMetrics struct {
	requests  metric.Int64Counter
	duration  metric.Float64Histogram
	remaining metric.Int64Gauge
	lowWater  metric.Int64Counter
}

func NewCatalogMetrics(meter metric.Meter) (*CatalogMetrics, error) {
	requests, err := meter.Int64Counter(metricCatalogRequests,
		metric.WithDescription("Upstream catalog requests by endpoint and outcome"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(metricCatalogDuration,
		metric.WithDescription("Upstream catalog request latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	remaining, err := meter.Int64Gauge(metricCatalogRemaining,
		metric.WithDescription("Requests left in the upstream rate-limit window"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	lowWater, err := meter.Int64Counter(metricCatalogLowWater,
		metric.WithDescription("Responses that left the rate-limit budget under the low-water mark"),
		metric.WithUnit("{event}"))
	if err != nil {
		return nil, err
	}
	return &CatalogMetrics{requests: requests, duration: duration, remaining: remaining, lowWater: lowWater}, nil
}

type instrumentedFetcher struct {
	next    discogs.Fetcher
	metrics *CatalogMetrics
}

// InstrumentFetcher wraps next so every upstream call is counted and timed.
func InstrumentFetcher(next discogs.Fetcher, m *CatalogMetrics) discogs.Fetcher {
	if m == nil {
		return next
	}
	return &instrumentedFetcher{next: next, metrics: m}
}

func (f *instrumentedFetcher) Fetch(ctx context.Context, req discogs.Request) (discogs.Response, error) {
	start := time.Now()
	resp, err := f.next.Fetch(ctx, req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	endpoint := attribute.String("endpoint", endpointOf(req))
	outcome := "transport_error"
	if err == nil {
		outcome = statusClass(resp.StatusCode)
	}
	attrs := metric.WithAttributes(endpoint, attribute.String("outcome", outcome))
	f.metrics.requests.Add(ctx, 1, attrs)
	f.metrics.duration.Record(ctx, elapsed, attrs)

	if err == nil {
		if rl, ok := discogs.ReadRateLimit(resp.Header); ok {
			f.metrics.remaining.Record(ctx, int64(rl.Remaining))
		}
	}
	return resp, err
}

// RateLimitObserver logs at WARN and counts every low-water event.
func RateLimitObserver(logger *slog.Logger, m *CatalogMetrics) discogs.RateLimitObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return func(rl discogs.RateLimit) {
		logger.Warn("catalog rate-limit budget low",
			"op", rl.Op,
			"remaining", rl.Remaining,
			"used", rl.Used,
			"limit", rl.Limit,
		)
		if m != nil {
			m.lowWater.Add(context.Background(), 1, metric.WithAttributes(attribute.String("op", rl.Op)))
		}
	}
}

func endpointOf(req discogs.Request) string {
	if req.URL == nil {
		return "unknown"
	}
	p := req.URL.Path
	switch {
	case strings.HasSuffix(p, "/database/search"):
		return "search"
	case strings.Contains(p, "/releases/"):
		return "release"
	case strings.Contains(p, "/masters/"):
		return "master"
	}
	return "other"
}

func statusClass(code int) string {
	if code == 429 {
		return "429"
	}
	return strconv.Itoa(code/100) + "xx"
}

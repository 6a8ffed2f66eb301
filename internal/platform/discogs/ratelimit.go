package discogs

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	headerRateLimit          = "X-Discogs-Ratelimit"
	headerRateLimitUsed      = "X-Discogs-Ratelimit-Used"
	headerRateLimitRemaining = "X-Discogs-Ratelimit-Remaining"

	DefaultLowWaterMark = 10
)

// RateLimit is the upstream's view of the moving request window.
type RateLimit struct {
	Op        string
	Limit     int
	Used      int
	Remaining int
}

// RateLimitObserver receives a RateLimit whenever the remaining budget drops
// under the client's low-water mark. It must not block.
type RateLimitObserver func(RateLimit)

// ReadRateLimit parses the rate-limit headers. It returns false when the
// remaining header is missing or unparsable.
func ReadRateLimit(h http.Header) (RateLimit, bool) {
	remaining, ok := headerInt(h, headerRateLimitRemaining)
	if !ok {
		return RateLimit{}, false
	}
	limit, _ := headerInt(h, headerRateLimit)
	used, _ := headerInt(h, headerRateLimitUsed)
	return RateLimit{Limit: limit, Used: used, Remaining: remaining}, true
}

func headerInt(h http.Header, key string) (int, bool) {
	raw := strings.TrimSpace(h.Get(key))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	secs, ok := headerInt(h, "Retry-After")
	if !ok || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

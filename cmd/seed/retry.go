package main

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"vinylvault/internal/enrich"
	"vinylvault/internal/platform/discogs"
)

// retryingFetcher retries catalog lookups that failed with a transient
// error (unavailable, rate limited). Anything else is returned at once.
type retryingFetcher struct {
	next       enrich.ReleaseFetcher
	maxTries   uint
	newBackOff func() backoff.BackOff
}

func newRetryingFetcher(next enrich.ReleaseFetcher, maxTries uint) *retryingFetcher {
	return &retryingFetcher{
		next:     next,
		maxTries: maxTries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
}

func (f *retryingFetcher) GetRelease(ctx context.Context, id int64) (discogs.RawRelease, error) {
	return backoff.Retry(ctx, func() (discogs.RawRelease, error) {
		rel, err := f.next.GetRelease(ctx, id)
		if err != nil && !discogs.Retryable(err) {
			return rel, backoff.Permanent(err)
		}
		return rel, err
	}, backoff.WithBackOff(f.newBackOff()), backoff.WithMaxTries(f.maxTries))
}

package catalog

import (
	"context"
	"log/slog"
	"strings"

	"vinylvault/internal/platform/discogs"
	"vinylvault/internal/vinyl"
)

type Service struct {
	client Client
	logger *slog.Logger
}

func NewService(client Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

func (s *Service) Search(ctx context.Context, p SearchParams) (Page, error) {
	resp, err := s.client.Search(ctx, p.Query)
	if err != nil {
		return Page{}, err
	}
	hits := resp.Results
	if p.VinylOnly {
		hits = vinyl.FilterVinylOnly(hits)
	}
	return Page{
		Records:    vinyl.Normalize(discogs.SearchPage{Results: hits, Pagination: resp.Pagination}, p.ImageSize),
		Pagination: resp.Pagination,
	}, nil
}

// Suggestions returns at most limit vinyl records matching text. The upstream
// page is over-fetched since non-vinyl hits are dropped afterwards.
func (s *Service) Suggestions(ctx context.Context, text string, limit int) ([]vinyl.Record, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinSuggestionQuery {
		return nil, ErrQueryTooShort
	}
	switch {
	case limit < 1:
		limit = DefaultSuggestionLimit
	case limit > MaxSuggestionLimit:
		limit = MaxSuggestionLimit
	}

	q := discogs.NewSearchQuery(text)
	q.PerPage = min(discogs.MaxPerPage, limit*4)
	resp, err := s.client.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	hits := vinyl.FilterVinylOnly(resp.Results)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return vinyl.Normalize(discogs.SearchPage{Results: hits}, vinyl.SizeThumb), nil
}

// Barcode resolves a printed barcode to one record. The first hit is
// enriched with its full release; if that fetch fails the hit alone is used.
func (s *Service) Barcode(ctx context.Context, code string) (vinyl.Record, error) {
	cleaned := discogs.CleanBarcode(code)
	hits, err := s.client.SearchByBarcode(ctx, cleaned)
	if err != nil {
		return vinyl.Record{}, err
	}
	if len(hits) == 0 {
		return vinyl.Record{}, ErrNoMatch
	}

	hit := hits[0]
	rel, err := s.client.GetRelease(ctx, hit.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "barcode release lookup failed, using search hit",
			"barcode", cleaned,
			"release_id", hit.ID,
			"kind", string(discogs.KindOf(err)),
			"error", err,
		)
		rec := vinyl.NormalizeSearchHit(hit, vinyl.SizeMedium)
		if rec.Barcode == "" {
			rec.Barcode = cleaned
		}
		return rec, nil
	}

	rec := first(rel)
	if rec.Barcode == "" {
		rec.Barcode = cleaned
	}
	return rec, nil
}

func (s *Service) Release(ctx context.Context, rawID string) (vinyl.Record, error) {
	id, err := discogs.ParseID(rawID)
	if err != nil {
		return vinyl.Record{}, err
	}
	rel, err := s.client.GetRelease(ctx, id)
	if err != nil {
		return vinyl.Record{}, err
	}
	return first(rel), nil
}

func (s *Service) Master(ctx context.Context, rawID string) (vinyl.Record, error) {
	id, err := discogs.ParseID(rawID)
	if err != nil {
		return vinyl.Record{}, err
	}
	m, err := s.client.GetMaster(ctx, id)
	if err != nil {
		return vinyl.Record{}, err
	}
	return first(m), nil
}

// first normalizes a single-record payload.
func first(p discogs.Payload) vinyl.Record {
	if recs := vinyl.Normalize(p, vinyl.SizeMedium); len(recs) > 0 {
		return recs[0]
	}
	return vinyl.WithDefaults(vinyl.Record{})
}

// Package enrich fills a user-entered vinyl record with catalog metadata.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"vinylvault/internal/platform/discogs"
	"vinylvault/internal/vinyl"
)

// ReleaseFetcher is the slice of the catalog client enrichment needs.
type ReleaseFetcher interface {
	GetRelease(ctx context.Context, id int64) (discogs.RawRelease, error)
}

// Result is the outcome of one enrichment. Warning carries the catalog
// failure when the user record was kept as-is.
type Result struct {
	Record   vinyl.Record
	Enriched bool
	Warning  error
}

type Service struct {
	releases ReleaseFetcher
	logger   *slog.Logger
}

func NewService(releases ReleaseFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{releases: releases, logger: logger}
}

// Enrich merges the release identified by catalogID over user. It never
// fails: any catalog error is logged and reported in Result.Warning while the
// user record, with defaults applied, is returned.
func (s *Service) Enrich(ctx context.Context, user vinyl.Record, catalogID string) Result {
	raw := strings.TrimSpace(catalogID)
	if raw == "" {
		return Result{Record: vinyl.WithDefaults(user)}
	}

	id, err := discogs.ParseID(raw)
	var rel discogs.RawRelease
	if err == nil {
		rel, err = s.releases.GetRelease(ctx, id)
	}
	if err != nil {
		// fail open: catalog metadata is optional for adding a record
		s.logger.WarnContext(ctx, "catalog enrichment failed, keeping user record",
			"catalog_id", raw,
			"kind", string(discogs.KindOf(err)),
			"error", err,
		)
		return Result{Record: vinyl.WithDefaults(user), Warning: err}
	}

	return Result{Record: vinyl.WithDefaults(Merge(user, vinyl.ExtractRelease(rel))), Enriched: true}
}

// Merge overlays every non-empty catalog field onto user. Condition always
// comes from the user.
func Merge(user, catalog vinyl.Record) vinyl.Record {
	out := user
	out.Title = pick(catalog.Title, user.Title)
	if a := strings.TrimSpace(catalog.Artist); a != "" {
		out.Artist = a
		out.NeedsReview = false
	}
	if catalog.Year > 0 {
		out.Year = catalog.Year
	}
	out.Format = pick(catalog.Format, user.Format)
	out.CoverImage = pick(catalog.CoverImage, user.CoverImage)
	out.CatalogURL = pick(catalog.CatalogURL, user.CatalogURL)
	out.Barcode = pick(catalog.Barcode, user.Barcode)
	out.Country = pick(catalog.Country, user.Country)
	if catalog.CatalogID > 0 {
		out.CatalogID = catalog.CatalogID
	}
	out.Genres = pickSlice(catalog.Genres, user.Genres)
	out.Styles = pickSlice(catalog.Styles, user.Styles)
	out.Labels = pickSlice(catalog.Labels, user.Labels)
	if len(catalog.Tracklist) > 0 {
		out.Tracklist = catalog.Tracklist
	}
	return out
}

func pick(catalog, user string) string {
	if c := strings.TrimSpace(catalog); c != "" {
		return c
	}
	return user
}

func pickSlice(catalog, user []string) []string {
	if len(catalog) > 0 {
		return catalog
	}
	return user
}

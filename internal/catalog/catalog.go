// Package catalog serves normalized Discogs lookups over HTTP.
package catalog

import (
	"context"
	"errors"

	"vinylvault/internal/platform/discogs"
	"vinylvault/internal/vinyl"
)

const (
	MinSuggestionQuery     = 2
	DefaultSuggestionLimit = 5
	MaxSuggestionLimit     = 20
)

var (
	// ErrNoMatch is returned by a barcode lookup with zero hits.
	ErrNoMatch       = errors.New("catalog: no match")
	ErrQueryTooShort = errors.New("catalog: query too short")
)

// Client is the part of the catalog client these handlers use.
type Client interface {
	Search(ctx context.Context, q discogs.SearchQuery) (discogs.SearchResponse, error)
	SearchByBarcode(ctx context.Context, code string) ([]discogs.RawSearchHit, error)
	GetRelease(ctx context.Context, id int64) (discogs.RawRelease, error)
	GetMaster(ctx context.Context, id int64) (discogs.RawMaster, error)
}

// Page is one page of normalized search results.
type Page struct {
	Records    []vinyl.Record
	Pagination discogs.Pagination
}

// SearchParams is a search as received from the API.
type SearchParams struct {
	Query     discogs.SearchQuery
	ImageSize vinyl.ImageSize
	VinylOnly bool
}

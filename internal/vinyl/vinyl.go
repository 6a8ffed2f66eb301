// Package vinyl defines the canonical vinyl record and the pure functions that
// build it from catalog payloads.
package vinyl

import "strings"

// Sentinels substituted for values the catalog or the user did not provide.
const (
	DefaultCoverImage = "/default-vinyl-cover.svg"
	DefaultFormat     = "LP"
	DefaultCondition  = ConditionNearMint
	UnknownArtist     = "Unknown Artist"
	UnknownTitle      = "Unknown Title"
)

// Grading scale, best to worst.
const (
	ConditionMint         = "Mint"
	ConditionNearMint     = "Near Mint"
	ConditionVeryGoodPlus = "Very Good Plus"
	ConditionVeryGood     = "Very Good"
	ConditionGoodPlus     = "Good Plus"
	ConditionGood         = "Good"
	ConditionFair         = "Fair"
	ConditionPoor         = "Poor"
)

var Conditions = []string{
	ConditionMint,
	ConditionNearMint,
	ConditionVeryGoodPlus,
	ConditionVeryGood,
	ConditionGoodPlus,
	ConditionGood,
	ConditionFair,
	ConditionPoor,
}

// ValidCondition reports whether c is on the grading scale (case-insensitive).
func ValidCondition(c string) bool {
	_, ok := CanonicalCondition(c)
	return ok
}

// CanonicalCondition returns the scale spelling of c.
func CanonicalCondition(c string) (string, bool) {
	c = strings.TrimSpace(c)
	for _, known := range Conditions {
		if strings.EqualFold(known, c) {
			return known, true
		}
	}
	return "", false
}

type Track struct {
	Position string `json:"position"`
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
}

// Record is the canonical vinyl representation handed to persistence. A
// Record is a value: every function here returns a new one.
type Record struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Year       int      `json:"year,omitempty"`
	Format     string   `json:"format"`
	Condition  string   `json:"condition,omitempty"`
	CoverImage string   `json:"cover_image"`
	CatalogID  int64    `json:"discogs_id,omitempty"`
	CatalogURL string   `json:"discogs_url,omitempty"`
	Barcode    string   `json:"barcode,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Styles     []string `json:"styles,omitempty"`
	Labels     []string `json:"labels,omitempty"`
	Country    string   `json:"country,omitempty"`
	Tracklist  []Track  `json:"tracklist,omitempty"`
	// NeedsReview marks an artist/title split that was ambiguous.
	NeedsReview bool `json:"needs_review,omitempty"`
}

// WithDefaults trims r and fills every sentinel. It is the only place the
// missing-value sentinels are applied.
func WithDefaults(r Record) Record {
	r.Title = strings.TrimSpace(r.Title)
	r.Artist = strings.TrimSpace(r.Artist)
	r.Format = strings.TrimSpace(r.Format)
	r.CoverImage = strings.TrimSpace(r.CoverImage)
	if r.Title == "" {
		r.Title = UnknownTitle
	}
	if r.Artist == "" {
		r.Artist = UnknownArtist
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	if r.CoverImage == "" {
		r.CoverImage = DefaultCoverImage
	}
	if c, ok := CanonicalCondition(r.Condition); ok {
		r.Condition = c
	} else {
		r.Condition = DefaultCondition
	}
	return r
}

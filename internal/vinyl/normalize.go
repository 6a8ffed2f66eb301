package vinyl

import (
	"strings"

	"vinylvault/internal/platform/discogs"
)

const titleSeparator = " - "

// SplitTitle separates a combined "Artist - Title" string on the first
// separator. Later separators stay in the title; ambiguous is true when more
// than one was present. artist is "" when no separator exists.
func SplitTitle(combined string) (artist, title string, ambiguous bool) {
	combined = strings.TrimSpace(combined)
	left, right, found := strings.Cut(combined, titleSeparator)
	if !found {
		return "", combined, false
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), strings.Contains(right, titleSeparator)
}

// NormalizeSearchHit builds a Record from a search hit using the image size
// tier given.
func NormalizeSearchHit(hit discogs.RawSearchHit, size ImageSize) Record {
	artist, title, ambiguous := SplitTitle(hit.Title)
	r := Record{
		Title:       title,
		Artist:      artist,
		Year:        positive(hit.Year),
		Format:      CleanFormat(hit.Formats),
		CoverImage:  SelectCoverImage(hit.CoverImage, hit.Thumb, size),
		CatalogID:   hit.ID,
		CatalogURL:  CatalogURL(hit.URI),
		Genres:      hit.Genres,
		Styles:      hit.Styles,
		Labels:      dedupe(hit.Labels),
		Country:     hit.Country,
		NeedsReview: ambiguous,
	}
	if len(hit.Barcodes) > 0 {
		r.Barcode = hit.Barcodes[0]
	}
	return WithDefaults(r)
}

// NormalizeSearchHits maps NormalizeSearchHit over hits.
func NormalizeSearchHits(hits []discogs.RawSearchHit, size ImageSize) []Record {
	out := make([]Record, 0, len(hits))
	for _, h := range hits {
		out = append(out, NormalizeSearchHit(h, size))
	}
	return out
}

// ExtractRelease projects a release without applying sentinels, so callers
// merging with other sources can tell absent values apart.
func ExtractRelease(rel discogs.RawRelease) Record {
	r := Record{
		Title:      rel.Title,
		Year:       positive(rel.Year),
		Format:     releaseFormat(rel.Formats),
		CoverImage: primaryImage(rel.Images),
		CatalogID:  rel.ID,
		CatalogURL: CatalogURL(rel.URI),
		Barcode:    barcode(rel.Identifiers),
		Genres:     rel.Genres,
		Styles:     rel.Styles,
		Country:    rel.Country,
		Tracklist:  tracklist(rel.Tracklist),
	}
	if len(rel.Artists) > 0 {
		r.Artist = rel.Artists[0].Name
	}
	for _, l := range rel.Labels {
		r.Labels = append(r.Labels, l.Name)
	}
	r.Labels = dedupe(r.Labels)
	return r
}

// NormalizeRelease builds a Record from a full release. The title is used
// as-is since releases carry the artist separately.
func NormalizeRelease(rel discogs.RawRelease) Record {
	return WithDefaults(ExtractRelease(rel))
}

// NormalizeMaster builds a Record from a master. Masters have no format,
// barcode or label of their own.
func NormalizeMaster(m discogs.RawMaster) Record {
	r := Record{
		Title:      m.Title,
		Year:       positive(m.Year),
		CoverImage: primaryImage(m.Images),
		CatalogURL: CatalogURL(m.URI),
		Genres:     m.Genres,
		Styles:     m.Styles,
		Tracklist:  tracklist(m.Tracklist),
	}
	if len(m.Artists) > 0 {
		r.Artist = m.Artists[0].Name
	}
	// the main release stands in for the master when added to a collection
	r.CatalogID = m.MainRelease
	return WithDefaults(r)
}

// Normalize dispatches on the payload shape. Search pages yield one record per
// hit.
func Normalize(p discogs.Payload, size ImageSize) []Record {
	switch v := p.(type) {
	case discogs.SearchPage:
		return NormalizeSearchHits(v.Results, size)
	case discogs.RawRelease:
		return []Record{NormalizeRelease(v)}
	case discogs.RawMaster:
		return []Record{NormalizeMaster(v)}
	}
	return nil
}

// CatalogURL makes a resource uri absolute on the public site.
func CatalogURL(uri string) string {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return ""
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return uri
	case strings.HasPrefix(uri, "/"):
		return discogs.WebBaseURL + uri
	}
	return discogs.WebBaseURL + "/" + uri
}

func barcode(ids []discogs.Identifier) string {
	for _, id := range ids {
		if id.Type == "Barcode" && strings.TrimSpace(id.Value) != "" {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

func tracklist(in []discogs.Track) []Track {
	if len(in) == 0 {
		return nil
	}
	out := make([]Track, len(in))
	for i, t := range in {
		out[i] = Track{Position: t.Position, Title: t.Title, Duration: t.Duration}
	}
	return out
}

func positive(n int) int {
	if n > 0 {
		return n
	}
	return 0
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

package vinyl

import (
	"golang.org/x/text/cases"

	"vinylvault/internal/platform/discogs"
)

var vinylFormatTokens = []string{"LP", "EP", "Single", `12"`, `7"`, `10"`, "Vinyl"}

var foldedVinylTokens = func() map[string]struct{} {
	fold := cases.Fold()
	m := make(map[string]struct{}, len(vinylFormatTokens))
	for _, t := range vinylFormatTokens {
		m[fold.String(t)] = struct{}{}
	}
	return m
}()

// IsVinylFormat reports whether any entry of formats is a vinyl token,
// compared case-insensitively.
func IsVinylFormat(formats []string) bool {
	fold := cases.Fold()
	for _, f := range formats {
		if _, ok := foldedVinylTokens[fold.String(f)]; ok {
			return true
		}
	}
	return false
}

// FilterVinylOnly keeps hits with at least one vinyl format token. Order is
// preserved and the input is not modified.
func FilterVinylOnly(hits []discogs.RawSearchHit) []discogs.RawSearchHit {
	out := make([]discogs.RawSearchHit, 0, len(hits))
	for _, h := range hits {
		if IsVinylFormat(h.Formats) {
			out = append(out, h)
		}
	}
	return out
}

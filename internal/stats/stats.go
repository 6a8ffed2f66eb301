// Package stats computes collection statistics for a user.
package stats

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopGenresLimit  = 5
	TopFormatsLimit = 5
	RecentLimit     = 6
)

// Entry is the per-vinyl projection the statistics are computed from.
type Entry struct {
	Year          int
	Format        string
	Genres        []string
	PurchasePrice *decimal.Decimal
}

type Recent struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collection_id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	CoverImage   string    `json:"cover_image"`
	AddedAt      time.Time `json:"added_at"`
}

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Overview struct {
	TotalCollections int             `json:"total_collections"`
	TotalVinyls      int             `json:"total_vinyls"`
	TotalValue       decimal.Decimal `json:"total_value"`
	OldestYear       int             `json:"oldest_year,omitempty"`
	NewestYear       int             `json:"newest_year,omitempty"`
	AverageAge       int             `json:"average_age"`
}

type Stats struct {
	Overview        Overview `json:"overview"`
	TopGenres       []Count  `json:"top_genres"`
	TopFormats      []Count  `json:"top_formats"`
	Decades         []Count  `json:"decades"`
	RecentAdditions []Recent `json:"recent_additions"`
}

type Repository interface {
	CountCollections(ctx context.Context, userID string) (int, error)
	Entries(ctx context.Context, userID string) ([]Entry, error)
	Recent(ctx context.Context, userID string, limit int) ([]Recent, error)
}

// Compute aggregates entries. Years of zero are unknown and are left out of
// every year-based figure.
func Compute(collections int, entries []Entry, now time.Time) Stats {
	st := Stats{
		Overview: Overview{
			TotalCollections: collections,
			TotalVinyls:      len(entries),
			TotalValue:       decimal.Zero,
		},
	}

	genres := map[string]int{}
	formats := map[string]int{}
	decades := map[string]int{}
	var years []int
	for _, e := range entries {
		if e.PurchasePrice != nil {
			st.Overview.TotalValue = st.Overview.TotalValue.Add(*e.PurchasePrice)
		}
		for _, g := range e.Genres {
			if g != "" {
				genres[g]++
			}
		}
		if e.Format != "" {
			formats[e.Format]++
		}
		if e.Year > 0 {
			years = append(years, e.Year)
			decades[DecadeLabel(e.Year)]++
		}
	}

	st.TopGenres = top(genres, TopGenresLimit)
	st.TopFormats = top(formats, TopFormatsLimit)
	st.Decades = byLabel(decades)

	if len(years) > 0 {
		slices.Sort(years)
		st.Overview.OldestYear = years[0]
		st.Overview.NewestYear = years[len(years)-1]
		age := 0
		for _, y := range years {
			age += now.Year() - y
		}
		st.Overview.AverageAge = int(float64(age)/float64(len(years)) + 0.5)
	}
	return st
}

// DecadeLabel returns the decade of year, e.g. 1979 -> "1970s".
func DecadeLabel(year int) string {
	return fmt.Sprintf("%ds", year/10*10)
}

// top sorts by count descending, label ascending on ties.
func top(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func byLabel(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Count) int { return cmp.Compare(a.Label, b.Label) })
	return out
}

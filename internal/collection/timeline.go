package collection

import (
	"context"
	"sort"
	"time"

	"vinylvault/internal/stats"
)

type TimelineEntry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Year       int       `json:"year,omitempty"`
	CoverImage string    `json:"cover_image"`
	CatalogID  int64     `json:"discogs_id,omitempty"`
	CatalogURL string    `json:"discogs_url,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

type YearRange struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Span int `json:"span"`
}

type TimelineStats struct {
	TotalVinyls int           `json:"total_vinyls"`
	YearRange   *YearRange    `json:"year_range"`
	Decades     []stats.Count `json:"decades"`
	AverageYear int           `json:"average_year,omitempty"`
}

// Timeline is a collection's items ordered newest release first. Items with
// no known year come last.
type Timeline struct {
	Collection Collection      `json:"collection"`
	Vinyls     []TimelineEntry `json:"vinyls"`
	Stats      TimelineStats   `json:"statistics"`
}

func (s *Service) Timeline(ctx context.Context, userID, collectionID string) (Timeline, error) {
	c, err := s.repo.GetByID(ctx, collectionID)
	if err != nil {
		return Timeline{}, err
	}
	if c.UserID != userID && !c.IsPublic {
		return Timeline{}, ErrForbidden
	}
	items, err := s.repo.TimelineItems(ctx, collectionID)
	if err != nil {
		return Timeline{}, err
	}
	return buildTimeline(c, items), nil
}

func buildTimeline(c Collection, items []Item) Timeline {
	entries := make([]TimelineEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, TimelineEntry{
			ID:         it.ID,
			Title:      it.Title,
			Artist:     it.Artist,
			Year:       it.Year,
			CoverImage: it.CoverImage,
			CatalogID:  it.CatalogID,
			CatalogURL: it.CatalogURL,
			AddedAt:    it.AddedAt,
		})
	}
	return Timeline{Collection: c, Vinyls: entries, Stats: timelineStats(entries)}
}

func timelineStats(entries []TimelineEntry) TimelineStats {
	st := TimelineStats{TotalVinyls: len(entries), Decades: []stats.Count{}}
	decades := map[string]int{}
	var sum, n int
	for _, e := range entries {
		if e.Year <= 0 {
			continue
		}
		if st.YearRange == nil {
			st.YearRange = &YearRange{Min: e.Year, Max: e.Year}
		}
		st.YearRange.Min = min(st.YearRange.Min, e.Year)
		st.YearRange.Max = max(st.YearRange.Max, e.Year)
		decades[stats.DecadeLabel(e.Year)]++
		sum += e.Year
		n++
	}
	if n == 0 {
		return st
	}
	st.YearRange.Span = st.YearRange.Max - st.YearRange.Min + 1
	st.AverageYear = (sum + n/2) / n
	for label, count := range decades {
		st.Decades = append(st.Decades, stats.Count{Label: label, Count: count})
	}
	sort.Slice(st.Decades, func(i, j int) bool { return st.Decades[i].Label < st.Decades[j].Label })
	return st
}

package vinyl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vinylvault/internal/platform/discogs"
)

func TestNormalizeSearchHitSplitsArtist(t *testing.T) {
	rec := NormalizeSearchHit(discogs.RawSearchHit{
		ID:         1,
		Title:      "Pink Floyd - The Wall",
		Year:       1979,
		Formats:    []string{"Vinyl", "LP", "Album"},
		CoverImage: "https://img/cover.jpg",
		Thumb:      "https://img/thumb.jpg",
		URI:        "/release/1",
		Barcodes:   []string{"5099902988016", "other"},
	}, SizeMedium)

	assert.Equal(t, "Pink Floyd", rec.Artist)
	assert.Equal(t, "The Wall", rec.Title)
	assert.Equal(t, 1979, rec.Year)
	assert.Equal(t, "LP", rec.Format)
	assert.Equal(t, "https://img/cover.jpg", rec.CoverImage)
	assert.Equal(t, int64(1), rec.CatalogID)
	assert.Equal(t, "https://www.discogs.com/release/1", rec.CatalogURL)
	assert.Equal(t, "5099902988016", rec.Barcode)
	assert.False(t, rec.NeedsReview)
}

func TestNormalizeSearchHitWithoutSeparator(t *testing.T) {
	rec := NormalizeSearchHit(discogs.RawSearchHit{ID: 2, Title: "  The Wall "}, SizeLarge)

	assert.Equal(t, UnknownArtist, rec.Artist)
	assert.Equal(t, "The Wall", rec.Title)
	assert.Equal(t, DefaultFormat, rec.Format)
	assert.Equal(t, DefaultCoverImage, rec.CoverImage)
}

func TestNormalizeSearchHitFlagsAmbiguousSplit(t *testing.T) {
	rec := NormalizeSearchHit(discogs.RawSearchHit{ID: 3, Title: "Run - D.M.C. - Raising Hell"}, SizeMedium)

	assert.Equal(t, "Run", rec.Artist)
	assert.Equal(t, "D.M.C. - Raising Hell", rec.Title)
	assert.True(t, rec.NeedsReview)
}

func TestNormalizeSearchHitImageFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		cover string
		thumb string
		size  ImageSize
		want  string
	}{
		{"cover preferred", "c", "t", SizeLarge, "c"},
		{"thumb fallback", "", "t", SizeMedium, "t"},
		{"thumb tier prefers thumb", "c", "t", SizeThumb, "t"},
		{"thumb tier falls back to cover", "c", "", SizeThumb, "c"},
		{"default sentinel", "", "", SizeSmall, DefaultCoverImage},
		{"blank treated as empty", "  ", "", SizeMedium, DefaultCoverImage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := NormalizeSearchHit(discogs.RawSearchHit{ID: 1, Title: "A - B", CoverImage: tc.cover, Thumb: tc.thumb}, tc.size)
			assert.Equal(t, tc.want, rec.CoverImage)
		})
	}
}

func TestCleanFormat(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"Vinyl"}, ""},
		{[]string{"Vinyl", "LP"}, "LP"},
		{[]string{"Vinyl", "12\"", "33 ⅓ RPM"}, "12\""},
		{[]string{"CD", "Album"}, "CD"},
		{[]string{"Vinyl LP"}, "LP"},
		{[]string{"LP Vinyl Reissue"}, "LP Reissue"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanFormat(tc.in), "%v", tc.in)
	}
}

func TestNormalizeRelease(t *testing.T) {
	rel := discogs.RawRelease{
		ID:      249504,
		Title:   "Never Gonna Give You Up",
		Artists: []discogs.Artist{{Name: "Rick Astley"}, {Name: "Stock Aitken Waterman"}},
		Year:    1987,
		Images: []discogs.Image{
			{Type: "secondary", URI: "https://img/2.jpg"},
			{Type: "primary", URI: "https://img/1.jpg"},
		},
		Formats:     []discogs.Format{{Name: "Vinyl", Qty: "1", Descriptions: []string{"7\"", "Single"}}},
		Labels:      []discogs.Label{{Name: "RCA", CatNo: "PB 41447"}, {Name: "RCA", CatNo: "PB 41447X"}},
		Identifiers: []discogs.Identifier{{Type: "Matrix / Runout", Value: "A-1"}, {Type: "Barcode", Value: "5012394144777"}},
		Tracklist:   []discogs.Track{{Position: "A", Title: "Never Gonna Give You Up", Duration: "3:32"}},
		URI:         "https://www.discogs.com/release/249504",
	}

	rec := NormalizeRelease(rel)

	assert.Equal(t, "Rick Astley", rec.Artist)
	assert.Equal(t, "Never Gonna Give You Up", rec.Title)
	assert.Equal(t, "5012394144777", rec.Barcode)
	assert.Equal(t, "https://img/1.jpg", rec.CoverImage)
	assert.Equal(t, "7\"", rec.Format)
	assert.Equal(t, []string{"RCA"}, rec.Labels)
	assert.Equal(t, "https://www.discogs.com/release/249504", rec.CatalogURL)
	assert.Equal(t, []Track{{Position: "A", Title: "Never Gonna Give You Up", Duration: "3:32"}}, rec.Tracklist)
	assert.Equal(t, DefaultCondition, rec.Condition)
}

func TestNormalizeReleaseTitleIsNotSplit(t *testing.T) {
	rec := NormalizeRelease(discogs.RawRelease{ID: 1, Title: "Live - At Pompeii", Artists: []discogs.Artist{{Name: "Pink Floyd"}}})
	assert.Equal(t, "Live - At Pompeii", rec.Title)
	assert.Equal(t, "Pink Floyd", rec.Artist)
	assert.False(t, rec.NeedsReview)
}

func TestNormalizeReleaseImageFallbacks(t *testing.T) {
	rec := NormalizeRelease(discogs.RawRelease{ID: 1, Title: "T", Images: []discogs.Image{{Type: "secondary", URI: "s.jpg"}}})
	assert.Equal(t, "s.jpg", rec.CoverImage)

	rec = NormalizeRelease(discogs.RawRelease{ID: 1, Title: "T"})
	assert.Equal(t, DefaultCoverImage, rec.CoverImage)
	assert.Equal(t, UnknownArtist, rec.Artist)
	assert.Equal(t, DefaultFormat, rec.Format)
	assert.Empty(t, rec.Barcode)
}

func TestExtractReleaseKeepsAbsentValuesEmpty(t *testing.T) {
	rec := ExtractRelease(discogs.RawRelease{ID: 1, Title: "T"})
	assert.Empty(t, rec.CoverImage)
	assert.Empty(t, rec.Artist)
	assert.Empty(t, rec.Format)
	assert.Empty(t, rec.Condition)
}

func TestNormalizeMaster(t *testing.T) {
	rec := NormalizeMaster(discogs.RawMaster{
		ID:          96559,
		MainRelease: 249504,
		Title:       "Never Gonna Give You Up",
		Artists:     []discogs.Artist{{Name: "Rick Astley"}},
		Year:        1987,
		URI:         "/master/96559",
	})
	assert.Equal(t, int64(249504), rec.CatalogID)
	assert.Equal(t, "https://www.discogs.com/master/96559", rec.CatalogURL)
	assert.Equal(t, DefaultFormat, rec.Format)
	assert.Equal(t, DefaultCoverImage, rec.CoverImage)
}

func TestNormalizeDispatchesOnShape(t *testing.T) {
	page := discogs.SearchPage{Results: []discogs.RawSearchHit{{ID: 1, Title: "A - B"}, {ID: 2, Title: "C - D"}}}
	assert.Len(t, Normalize(page, SizeMedium), 2)
	assert.Len(t, Normalize(discogs.RawRelease{ID: 1, Title: "T"}, SizeMedium), 1)
	assert.Len(t, Normalize(discogs.RawMaster{ID: 1, Title: "T"}, SizeMedium), 1)
}

func TestFilterVinylOnly(t *testing.T) {
	hits := []discogs.RawSearchHit{
		{ID: 1, Formats: []string{"CD"}},
		{ID: 2, Formats: []string{"LP"}},
		{ID: 3, Formats: []string{"Cassette", "Album"}},
		{ID: 4, Formats: []string{"vinyl", "Album"}},
		{ID: 5, Formats: []string{"7\"", "45 RPM"}},
		{ID: 6},
	}

	got := FilterVinylOnly(hits)

	ids := make([]int64, 0, len(got))
	for _, h := range got {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []int64{2, 4, 5}, ids)
	assert.Len(t, hits, 6)
}

func TestFilterVinylOnlyMixedPair(t *testing.T) {
	got := FilterVinylOnly([]discogs.RawSearchHit{{ID: 1, Formats: []string{"CD"}}, {ID: 2, Formats: []string{"LP"}}})
	assert.Equal(t, []discogs.RawSearchHit{{ID: 2, Formats: []string{"LP"}}}, got)
}

func TestConditions(t *testing.T) {
	c, ok := CanonicalCondition("very good plus")
	assert.True(t, ok)
	assert.Equal(t, ConditionVeryGoodPlus, c)
	assert.False(t, ValidCondition("Pristine"))

	rec := WithDefaults(Record{Title: "T", Artist: "A", Condition: "mint"})
	assert.Equal(t, ConditionMint, rec.Condition)
}

func TestParseImageSize(t *testing.T) {
	assert.Equal(t, SizeThumb, ParseImageSize("THUMB"))
	assert.Equal(t, SizeLarge, ParseImageSize("large"))
	assert.Equal(t, SizeMedium, ParseImageSize(""))
	assert.Equal(t, SizeMedium, ParseImageSize("huge"))
}

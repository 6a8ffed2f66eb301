package enrich

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vinylvault/internal/platform/discogs"
	"vinylvault/internal/vinyl"
)

type mockReleases struct {
	mock.Mock
}

func (m *mockReleases) GetRelease(ctx context.Context, id int64) (discogs.RawRelease, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(discogs.RawRelease), args.Error(1)
}

func newTestService(m *mockReleases) (*Service, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewService(m, logger), &buf
}

func TestEnrich_FailsOpenOnCatalogError(t *testing.T) {
	ctx := context.Background()
	m := new(mockReleases)
	s, logs := newTestService(m)

	unavailable := &discogs.Error{Kind: discogs.KindUnavailable, Op: "get release"}
	m.On("GetRelease", ctx, int64(1234)).Return(discogs.RawRelease{}, unavailable)

	user := vinyl.Record{Title: "X", Artist: "Y"}
	res := s.Enrich(ctx, user, "1234")

	assert.False(t, res.Enriched)
	assert.ErrorIs(t, res.Warning, discogs.ErrUnavailable)
	assert.Equal(t, "X", res.Record.Title)
	assert.Equal(t, "Y", res.Record.Artist)
	assert.Equal(t, vinyl.DefaultCoverImage, res.Record.CoverImage)
	assert.Equal(t, "Near Mint", res.Record.Condition)
	assert.Equal(t, vinyl.DefaultFormat, res.Record.Format)
	assert.Zero(t, res.Record.Year)
	assert.Contains(t, logs.String(), "catalog enrichment failed")
	m.AssertExpectations(t)
}

func TestEnrich_FailOpenKeepsEveryUserField(t *testing.T) {
	ctx := context.Background()
	m := new(mockReleases)
	s, _ := newTestService(m)
	m.On("GetRelease", ctx, int64(9)).Return(discogs.RawRelease{}, &discogs.Error{Kind: discogs.KindNotFound})

	user := vinyl.Record{Title: "X", Artist: "Y", Year: 1999, Format: "EP", Condition: "Good", Genres: []string{"Jazz"}}
	res := s.Enrich(ctx, user, "9")

	want := user
	want.CoverImage = vinyl.DefaultCoverImage
	assert.Equal(t, want, res.Record)
}

func TestEnrich_InvalidIDFailsOpenWithoutCall(t *testing.T) {
	ctx := context.Background()
	m := new(mockReleases)
	s, _ := newTestService(m)

	res := s.Enrich(ctx, vinyl.Record{Title: "X", Artist: "Y"}, "-5")

	assert.ErrorIs(t, res.Warning, discogs.ErrInvalidArgument)
	assert.Equal(t, "X", res.Record.Title)
	m.AssertNotCalled(t, "GetRelease", mock.Anything, mock.Anything)
}

func TestEnrich_CatalogWins(t *testing.T) {
	ctx := context.Background()
	m := new(mockReleases)
	s, _ := newTestService(m)

	m.On("GetRelease", ctx, int64(77)).Return(discogs.RawRelease{
		ID:    77,
		Title: "Catalog Title",
		Year:  1977,
	}, nil)

	res := s.Enrich(ctx, vinyl.Record{Title: "X"}, " 77 ")

	assert.True(t, res.Enriched)
	assert.NoError(t, res.Warning)
	assert.Equal(t, "Catalog Title", res.Record.Title)
	assert.Equal(t, 1977, res.Record.Year)
	assert.Equal(t, int64(77), res.Record.CatalogID)
	assert.Equal(t, vinyl.UnknownArtist, res.Record.Artist)
	assert.Equal(t, vinyl.DefaultCondition, res.Record.Condition)
	m.AssertExpectations(t)
}

func TestEnrich_NoCatalogIDSkipsLookup(t *testing.T) {
	m := new(mockReleases)
	s, _ := newTestService(m)

	res := s.Enrich(context.Background(), vinyl.Record{Title: "X", Artist: "Y", CoverImage: "mine.jpg"}, "  ")

	assert.False(t, res.Enriched)
	assert.NoError(t, res.Warning)
	assert.Equal(t, "mine.jpg", res.Record.CoverImage)
	m.AssertNotCalled(t, "GetRelease", mock.Anything, mock.Anything)
}

func TestMerge(t *testing.T) {
	user := vinyl.Record{
		Title:       "user title",
		Artist:      "user artist",
		Year:        2001,
		Format:      "LP",
		Condition:   "Good",
		CoverImage:  "user.jpg",
		Barcode:     "111",
		Genres:      []string{"Rock"},
		NeedsReview: true,
	}
	catalog := vinyl.Record{
		Title:     "cat title",
		Artist:    "cat artist",
		Format:    "12\"",
		Genres:    []string{"Electronic"},
		Tracklist: []vinyl.Track{{Position: "A1", Title: "Intro"}},
		CatalogID: 5,
	}

	got := Merge(user, catalog)

	assert.Equal(t, "cat title", got.Title)
	assert.Equal(t, "cat artist", got.Artist)
	assert.False(t, got.NeedsReview)
	assert.Equal(t, 2001, got.Year, "absent catalog year keeps user year")
	assert.Equal(t, "12\"", got.Format)
	assert.Equal(t, "Good", got.Condition)
	assert.Equal(t, "user.jpg", got.CoverImage, "absent catalog image keeps user image")
	assert.Equal(t, "111", got.Barcode)
	assert.Equal(t, []string{"Electronic"}, got.Genres)
	assert.Len(t, got.Tracklist, 1)
	assert.Equal(t, int64(5), got.CatalogID)

	assert.Equal(t, "user title", user.Title, "inputs are not modified")
}

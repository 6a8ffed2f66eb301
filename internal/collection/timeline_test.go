package collection

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinylvault/internal/stats"
	"vinylvault/internal/vinyl"
)

func TestTimelineStats(t *testing.T) {
	items := []Item{
		{ID: "a", Record: vinyl.Record{Title: "Random Access Memories", Year: 2013}},
		{ID: "b", Record: vinyl.Record{Title: "The Wall", Year: 1979}},
		{ID: "c", Record: vinyl.Record{Title: "Animals", Year: 1977}},
		{ID: "d", Record: vinyl.Record{Title: "Bootleg"}},
	}

	tl := buildTimeline(Collection{ID: "c1", Name: "Crate"}, items)

	require.Len(t, tl.Vinyls, 4)
	assert.Equal(t, 4, tl.Stats.TotalVinyls)
	require.NotNil(t, tl.Stats.YearRange)
	assert.Equal(t, YearRange{Min: 1977, Max: 2013, Span: 37}, *tl.Stats.YearRange)
	assert.Equal(t, []stats.Count{{Label: "1970s", Count: 2}, {Label: "2010s", Count: 1}}, tl.Stats.Decades)
	assert.Equal(t, 1990, tl.Stats.AverageYear)
}

func TestTimelineStatsWithoutYears(t *testing.T) {
	tl := buildTimeline(Collection{ID: "c1"}, []Item{{ID: "a"}})

	assert.Nil(t, tl.Stats.YearRange)
	assert.Empty(t, tl.Stats.Decades)
	assert.Zero(t, tl.Stats.AverageYear)
}

func TestHTTPHandler_Timeline(t *testing.T) {
	t.Run("public collection of another user", func(t *testing.T) {
		repo, _, h := setupHandler(t)
		repo.EXPECT().GetByID(gomock.Any(), "c1").Return(Collection{ID: "c1", UserID: "u2", IsPublic: true}, nil)
		repo.EXPECT().TimelineItems(gomock.Any(), "c1").Return([]Item{
			{ID: "v1", Record: vinyl.Record{Title: "The Wall", Artist: "Pink Floyd", Year: 1979}},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/collections/c1/timeline", nil)
		req.SetPathValue("id", "c1")
		w := httptest.NewRecorder()
		h.Timeline(w, authed(req, "u1"))

		require.Equal(t, http.StatusOK, w.Code)
		var tl Timeline
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &tl))
		require.Len(t, tl.Vinyls, 1)
		assert.Equal(t, "The Wall", tl.Vinyls[0].Title)
		assert.Equal(t, 1979, tl.Stats.AverageYear)
	})

	t.Run("private collection of another user", func(t *testing.T) {
		repo, _, h := setupHandler(t)
		repo.EXPECT().GetByID(gomock.Any(), "c1").Return(Collection{ID: "c1", UserID: "u2"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/collections/c1/timeline", nil)
		req.SetPathValue("id", "c1")
		w := httptest.NewRecorder()
		h.Timeline(w, authed(req, "u1"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing collection", func(t *testing.T) {
		repo, _, h := setupHandler(t)
		repo.EXPECT().GetByID(gomock.Any(), "nope").Return(Collection{}, ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/collections/nope/timeline", nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()
		h.Timeline(w, authed(req, "u1"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

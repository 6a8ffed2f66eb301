package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vinylvault/internal/collection"
	"vinylvault/internal/httpx"
	"vinylvault/internal/platform/logging"
	"vinylvault/internal/vinyl"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateRun(ctx context.Context, run *Run) error {
	args := m.Called(ctx, run)
	run.ID = "run-1"
	return args.Error(0)
}

func (m *mockRepo) FinishRun(ctx context.Context, run *Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRepo) ListRuns(ctx context.Context, userID string, limit int) ([]Run, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Run), args.Error(1)
}

// fakeVinyls answers AddVinyl from per-id tables.
type fakeVinyls struct {
	mu       sync.Mutex
	ownerErr error
	results  map[string]collection.AddVinylResult
	errs     map[string]error
	calls    []string
}

func (f *fakeVinyls) Owned(_ context.Context, _, id string) (collection.Collection, error) {
	return collection.Collection{ID: id}, f.ownerErr
}

func (f *fakeVinyls) AddVinyl(_ context.Context, _, _ string, cmd collection.AddVinylCommand) (collection.AddVinylResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd.CatalogID)
	f.mu.Unlock()
	if err, ok := f.errs[cmd.CatalogID]; ok {
		return collection.AddVinylResult{}, err
	}
	return f.results[cmd.CatalogID], nil
}

func newTestService(vinyls VinylAdder, repo Repository) *Service {
	s := NewService(vinyls, repo, 2, logging.NewNop())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestImportTalliesOutcomes(t *testing.T) {
	vinyls := &fakeVinyls{
		results: map[string]collection.AddVinylResult{
			"1": {Item: collection.Item{ID: "v1", Record: vinyl.Record{Title: "The Wall", Artist: "Pink Floyd", Year: 1979}}, Enriched: true},
			"2": {Item: collection.Item{ID: "v2", Record: vinyl.Record{Title: "Unknown Title"}}, Warning: "catalog data unavailable"},
		},
		errs: map[string]error{
			"3": collection.ErrDuplicate,
			"4": errors.New("db down"),
		},
	}
	repo := &mockRepo{}
	repo.On("CreateRun", mock.Anything, mock.MatchedBy(func(r *Run) bool {
		return r.Status == RunRunning && r.Requested == 4
	})).Return(nil)
	repo.On("FinishRun", mock.Anything, mock.MatchedBy(func(r *Run) bool {
		return r.Status == RunCompleted && r.Added == 1 && r.Warned == 1 && r.Skipped == 1 && r.Failed == 1 && r.FinishedAt != nil
	})).Return(nil)

	rep, err := newTestService(vinyls, repo).Import(context.Background(), "u1", "c1", []int64{4, 3, 2, 1, 4})

	require.NoError(t, err)
	repo.AssertExpectations(t)
	assert.Equal(t, "run-1", rep.Run.ID)
	assert.Equal(t, RunCompleted, rep.Run.Status)
	require.Len(t, rep.Outcomes, 4)
	assert.Equal(t, int64(1), rep.Outcomes[0].CatalogID)
	assert.Equal(t, OutcomeAdded, rep.Outcomes[0].Status)
	assert.Equal(t, "v1", rep.Outcomes[0].VinylID)
	assert.Equal(t, OutcomeWarning, rep.Outcomes[1].Status)
	assert.Equal(t, OutcomeExisting, rep.Outcomes[2].Status)
	assert.Equal(t, OutcomeFailed, rep.Outcomes[3].Status)
	assert.Len(t, vinyls.calls, 4, "duplicate ids are imported once")
}

func TestImportRejectsBadBatches(t *testing.T) {
	s := newTestService(&fakeVinyls{}, &mockRepo{})

	_, err := s.Import(context.Background(), "u1", "c1", nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	ids := make([]int64, MaxBatch+1)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	_, err = s.Import(context.Background(), "u1", "c1", ids)
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestImportForeignCollectionStartsNoRun(t *testing.T) {
	repo := &mockRepo{}
	s := newTestService(&fakeVinyls{ownerErr: collection.ErrForbidden}, repo)

	_, err := s.Import(context.Background(), "u1", "c1", []int64{1})

	assert.ErrorIs(t, err, collection.ErrForbidden)
	repo.AssertNotCalled(t, "CreateRun", mock.Anything, mock.Anything)
}

func TestImportMarksRunFailed(t *testing.T) {
	vinyls := &fakeVinyls{errs: map[string]error{"1": collection.ErrNotFound}}
	repo := &mockRepo{}
	repo.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	repo.On("FinishRun", mock.Anything, mock.MatchedBy(func(r *Run) bool {
		return r.Status == RunFailed && r.Error != ""
	})).Return(nil)

	rep, err := newTestService(vinyls, repo).Import(context.Background(), "u1", "c1", []int64{1})

	assert.ErrorIs(t, err, collection.ErrNotFound)
	assert.Equal(t, RunFailed, rep.Run.Status)
	repo.AssertExpectations(t)
}

func serveImport(h *HTTPHandler, body string, userID string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/v1/collections/c1/import", strings.NewReader(body))
	r.SetPathValue("id", "c1")
	if userID != "" {
		r = r.WithContext(httpx.ContextWithUser(r.Context(), userID, "USER"))
	}
	w := httptest.NewRecorder()
	h.Import(w, r)
	return w
}

func TestHTTPHandler_Import(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		w := serveImport(NewHTTPHandler(newTestService(&fakeVinyls{}, &mockRepo{})), `{"discogs_ids":[1]}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validation", func(t *testing.T) {
		w := serveImport(NewHTTPHandler(newTestService(&fakeVinyls{}, &mockRepo{})), `{"discogs_ids":[]}`, "u1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too many ids", func(t *testing.T) {
		ids := make([]string, MaxBatch+1)
		for i := range ids {
			ids[i] = strconv.Itoa(i + 1)
		}
		w := serveImport(NewHTTPHandler(newTestService(&fakeVinyls{}, &mockRepo{})),
			`{"discogs_ids":[`+strings.Join(ids, ",")+`]}`, "u1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("collection not found", func(t *testing.T) {
		svc := newTestService(&fakeVinyls{ownerErr: collection.ErrNotFound}, &mockRepo{})
		w := serveImport(NewHTTPHandler(svc), `{"discogs_ids":[1]}`, "u1")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		vinyls := &fakeVinyls{results: map[string]collection.AddVinylResult{
			"7": {Item: collection.Item{ID: "v7", Record: vinyl.Record{Title: "Animals"}}, Enriched: true},
		}}
		repo := &mockRepo{}
		repo.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
		repo.On("FinishRun", mock.Anything, mock.Anything).Return(nil)

		w := serveImport(NewHTTPHandler(newTestService(vinyls, repo)), `{"discogs_ids":[7]}`, "u1")

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data Report `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Data.Run.Added)
		require.Len(t, body.Data.Outcomes, 1)
		assert.Equal(t, "Animals", body.Data.Outcomes[0].Title)
	})
}

func TestHTTPHandler_Runs(t *testing.T) {
	repo := &mockRepo{}
	repo.On("ListRuns", mock.Anything, "u1", RecentRuns).Return([]Run{{ID: "r1", Status: RunCompleted}}, nil)
	h := NewHTTPHandler(newTestService(&fakeVinyls{}, repo))

	r := httptest.NewRequest(http.MethodGet, "/v1/me/imports", nil)
	r = r.WithContext(httpx.ContextWithUser(r.Context(), "u1", "USER"))
	w := httptest.NewRecorder()
	h.Runs(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"r1"`)
	repo.AssertExpectations(t)
}

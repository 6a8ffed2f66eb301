package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"vinylvault/internal/collection"
)

type Service struct {
	vinyls  VinylAdder
	repo    Repository
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(vinyls VinylAdder, repo Repository, workers int, logger *slog.Logger) *Service {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{vinyls: vinyls, repo: repo, workers: workers, logger: logger, now: time.Now}
}

// Import adds every release in ids to the collection. Duplicate ids are
// dropped. A failure on one release is reported in its Outcome; only a
// collection the user cannot write to fails the whole run.
func (s *Service) Import(ctx context.Context, userID, collectionID string, ids []int64) (rep Report, err error) {
	ids = dedupe(ids)
	switch {
	case len(ids) == 0:
		return Report{}, ErrEmptyBatch
	case len(ids) > MaxBatch:
		return Report{}, ErrBatchTooLarge
	}
	if _, err := s.vinyls.Owned(ctx, userID, collectionID); err != nil {
		return Report{}, err
	}

	run := Run{
		UserID:       userID,
		CollectionID: collectionID,
		Status:       RunRunning,
		Requested:    len(ids),
		StartedAt:    s.now(),
	}
	if err := s.repo.CreateRun(ctx, &run); err != nil {
		return Report{}, err
	}

	defer func() {
		finished := s.now()
		run.FinishedAt = &finished
		run.Status = RunCompleted
		if err != nil {
			run.Status = RunFailed
			run.Error = err.Error()
		}
		// The request context may already be cancelled.
		if ferr := s.repo.FinishRun(context.WithoutCancel(ctx), &run); ferr != nil {
			s.logger.Error("failed to finish import run", "run_id", run.ID, "error", ferr)
		}
		rep.Run = run
	}()

	var (
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(ids))
	)
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers).WithCancelOnError().WithFirstError()
	for _, id := range ids {
		p.Go(func(ctx context.Context) error {
			out, err := s.importOne(ctx, userID, collectionID, id)
			if err != nil {
				return err
			}
			mu.Lock()
			outcomes = append(outcomes, out)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Report{}, err
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].CatalogID < outcomes[j].CatalogID })
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeAdded:
			run.Added++
		case OutcomeWarning:
			run.Warned++
		case OutcomeExisting:
			run.Skipped++
		default:
			run.Failed++
		}
	}
	s.logger.Info("import finished",
		"collection_id", collectionID, "requested", run.Requested,
		"added", run.Added, "warned", run.Warned, "skipped", run.Skipped, "failed", run.Failed)
	return Report{Outcomes: outcomes}, nil
}

// importOne returns an error only for failures that apply to every release
// in the batch.
func (s *Service) importOne(ctx context.Context, userID, collectionID string, id int64) (Outcome, error) {
	out := Outcome{CatalogID: id}
	res, err := s.vinyls.AddVinyl(ctx, userID, collectionID, collection.AddVinylCommand{
		CatalogID: strconv.FormatInt(id, 10),
	})
	switch {
	case errors.Is(err, collection.ErrForbidden), errors.Is(err, collection.ErrNotFound):
		return Outcome{}, err
	case errors.Is(err, collection.ErrDuplicate):
		out.Status = OutcomeExisting
		return out, nil
	case err != nil:
		s.logger.Warn("import release failed", "catalog_id", id, "error", err)
		out.Status = OutcomeFailed
		out.Error = "could not be saved"
		return out, nil
	}

	out.VinylID = res.Item.ID
	out.Title, out.Artist, out.Year = res.Item.Title, res.Item.Artist, res.Item.Year
	out.Status = OutcomeAdded
	if !res.Enriched {
		out.Status = OutcomeWarning
		out.Error = res.Warning
	}
	return out, nil
}

func (s *Service) Runs(ctx context.Context, userID string) ([]Run, error) {
	return s.repo.ListRuns(ctx, userID, RecentRuns)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

package ingest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const query = `
	INSERT INTO import_runs (user_id, collection_id, status, requested, started_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		run.UserID, run.CollectionID, run.Status, run.Requested, run.StartedAt,
	).Scan(&run.ID)
}

func (r *PostgresRepo) FinishRun(ctx context.Context, run *Run) error {
	const query = `
	UPDATE import_runs SET
		status = $2,
		added = $3,
		warned = $4,
		skipped = $5,
		failed = $6,
		error = $7,
		finished_at = $8
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query,
		run.ID, run.Status, run.Added, run.Warned, run.Skipped, run.Failed, run.Error, run.FinishedAt,
	)
	return err
}

func (r *PostgresRepo) ListRuns(ctx context.Context, userID string, limit int) ([]Run, error) {
	const query = `
	SELECT id, user_id, COALESCE(collection_id::text, ''), status, requested, added, warned, skipped, failed, error, started_at, finished_at
	FROM import_runs
	WHERE user_id = $1
	ORDER BY started_at DESC
	LIMIT $2
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.UserID, &run.CollectionID, &run.Status, &run.Requested,
			&run.Added, &run.Warned, &run.Skipped, &run.Failed, &run.Error,
			&run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

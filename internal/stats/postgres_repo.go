package stats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
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

func (r *PostgresRepo) CountCollections(ctx context.Context, userID string) (int, error) {
	var n int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM collections WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PostgresRepo) Entries(ctx context.Context, userID string) ([]Entry, error) {
	const query = `
	SELECT COALESCE(year, 0), format, genres, purchase_price::text
	FROM vinyls
	WHERE user_id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			price *string
		)
		if err := rows.Scan(&e.Year, &e.Format, &e.Genres, &price); err != nil {
			return nil, err
		}
		if price != nil {
			d, err := decimal.NewFromString(*price)
			if err != nil {
				return nil, err
			}
			e.PurchasePrice = &d
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepo) Recent(ctx context.Context, userID string, limit int) ([]Recent, error) {
	const query = `
	SELECT id, collection_id, title, artist, cover_image, added_at
	FROM vinyls
	WHERE user_id = $1
	ORDER BY added_at DESC
	LIMIT $2
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recent
	for rows.Next() {
		var rc Recent
		if err := rows.Scan(&rc.ID, &rc.CollectionID, &rc.Title, &rc.Artist, &rc.CoverImage, &rc.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

package collection

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"vinylvault/internal/vinyl"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextFormat = "22P02"
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

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

// mapReadErr treats a missing row and a malformed uuid alike.
func mapReadErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextFormat {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]Collection, error) {
	const query = `
	SELECT c.id, c.user_id, c.name, c.description, c.is_public, COUNT(v.id), c.created_at, c.updated_at
	FROM collections c
	LEFT JOIN vinyls v ON v.collection_id = c.id
	WHERE c.user_id = $1
	GROUP BY c.id
	ORDER BY c.created_at ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Collection{}
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.IsPublic, &c.VinylCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Collection, error) {
	const query = `
	SELECT c.id, c.user_id, c.name, c.description, c.is_public,
	       (SELECT COUNT(*) FROM vinyls v WHERE v.collection_id = c.id),
	       c.created_at, c.updated_at
	FROM collections c
	WHERE c.id = $1
	`
	var c Collection
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Description, &c.IsPublic, &c.VinylCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return Collection{}, mapReadErr(err)
	}
	return c, nil
}

func (r *PostgresRepo) Create(ctx context.Context, c *Collection) error {
	const query = `
	INSERT INTO collections (id, user_id, name, description, is_public)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, c.UserID, c.Name, c.Description, c.IsPublic).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapWriteErr(err)
}

func (r *PostgresRepo) Update(ctx context.Context, c *Collection) error {
	const query = `
	UPDATE collections SET name = $2, description = $3, is_public = $4, updated_at = now()
	WHERE id = $1
	RETURNING updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, c.ID, c.Name, c.Description, c.IsPublic).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteErr(err)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted int
	err := pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		const items = `WITH d AS (DELETE FROM vinyls WHERE collection_id = $1 RETURNING 1) SELECT COUNT(*) FROM d`
		if err := tx.QueryRow(timeoutCtx, items, id).Scan(&deleted); err != nil {
			return err
		}
		tag, err := tx.Exec(timeoutCtx, `DELETE FROM collections WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

const itemColumns = `
	id, collection_id, user_id, title, artist, COALESCE(year, 0), format, condition, cover_image,
	COALESCE(discogs_id, 0), discogs_url, barcode, genres, styles, labels, country, tracklist,
	needs_review, purchase_price::text, notes, added_at
`

func scanItem(row pgx.Row) (Item, error) {
	var (
		it        Item
		tracklist []byte
		price     *string
	)
	err := row.Scan(
		&it.ID, &it.CollectionID, &it.UserID, &it.Title, &it.Artist, &it.Year, &it.Format, &it.Condition, &it.CoverImage,
		&it.CatalogID, &it.CatalogURL, &it.Barcode, &it.Genres, &it.Styles, &it.Labels, &it.Country, &tracklist,
		&it.NeedsReview, &price, &it.Notes, &it.AddedAt,
	)
	if err != nil {
		return Item{}, err
	}
	if len(tracklist) > 0 {
		if err := json.Unmarshal(tracklist, &it.Tracklist); err != nil {
			return Item{}, err
		}
	}
	if price != nil {
		d, err := decimal.NewFromString(*price)
		if err != nil {
			return Item{}, err
		}
		it.PurchasePrice = &d
	}
	return it, nil
}

func (r *PostgresRepo) ListItems(ctx context.Context, collectionID string, limit, offset int) ([]Item, int, error) {
	var total int
	countCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(countCtx, `SELECT COUNT(*) FROM vinyls WHERE collection_id = $1`, collectionID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + itemColumns + `
	FROM vinyls
	WHERE collection_id = $1
	ORDER BY added_at DESC, id
	LIMIT $2 OFFSET $3`
	timeoutCtx, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx, query, collectionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *PostgresRepo) TimelineItems(ctx context.Context, collectionID string) ([]Item, error) {
	query := `SELECT ` + itemColumns + `
	FROM vinyls
	WHERE collection_id = $1
	ORDER BY year DESC NULLS LAST, title ASC`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresRepo) AddItem(ctx context.Context, collectionID, userID string, rec vinyl.Record, extras ItemExtras) (string, error) {
	const query = `
	INSERT INTO vinyls (
		id, collection_id, user_id, title, artist, year, format, condition, cover_image,
		discogs_id, discogs_url, barcode, genres, styles, labels, country, tracklist,
		needs_review, purchase_price, notes
	)
	VALUES (
		gen_random_uuid(), $1, $2, $3, $4, NULLIF($5, 0), $6, $7, $8,
		NULLIF($9::bigint, 0), $10, $11, $12, $13, $14, $15, $16,
		$17, $18::numeric, $19
	)
	RETURNING id
	`
	tracklist, err := json.Marshal(nonNilTracks(rec.Tracklist))
	if err != nil {
		return "", err
	}
	var price *string
	if extras.PurchasePrice != nil {
		s := extras.PurchasePrice.StringFixed(2)
		price = &s
	}

	var id string
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query,
		collectionID, userID, rec.Title, rec.Artist, rec.Year, rec.Format, rec.Condition, rec.CoverImage,
		rec.CatalogID, rec.CatalogURL, rec.Barcode, nonNil(rec.Genres), nonNil(rec.Styles), nonNil(rec.Labels), rec.Country, tracklist,
		rec.NeedsReview, price, extras.Notes,
	).Scan(&id)
	if err != nil {
		return "", mapWriteErr(err)
	}
	return id, nil
}

func (r *PostgresRepo) GetItem(ctx context.Context, id string) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM vinyls WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	it, err := scanItem(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		return Item{}, mapReadErr(err)
	}
	return it, nil
}

func (r *PostgresRepo) RemoveItem(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM vinyls WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilTracks(t []vinyl.Track) []vinyl.Track {
	if t == nil {
		return []vinyl.Track{}
	}
	return t
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *CatalogRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS rate_records (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	unit TEXT NOT NULL DEFAULT '',
	rate DOUBLE PRECISION NOT NULL,
	scope_of_work TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rate_records_lower_name ON rate_records(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_rate_records_created_at ON rate_records(created_at);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *CatalogRepository) Create(ctx context.Context, rec *domain.RateRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO rate_records (id, name, unit, rate, scope_of_work, source, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, rec.ID, rec.Name, rec.Unit, rec.Rate, rec.ScopeOfWork, rec.Source, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert rate record: %w", err)
	}
	return nil
}

// List returns the whole catalog in insertion order. Builds read this once as
// their snapshot.
func (r *CatalogRepository) List(ctx context.Context) ([]domain.RateRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, unit, rate, scope_of_work, source, created_at, updated_at
FROM rate_records
ORDER BY created_at, id
`)
	if err != nil {
		return nil, fmt.Errorf("list rate records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *CatalogRepository) ListByName(ctx context.Context, name string) ([]domain.RateRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, unit, rate, scope_of_work, source, created_at, updated_at
FROM rate_records
WHERE LOWER(name) = LOWER($1)
ORDER BY created_at, id
`, name)
	if err != nil {
		return nil, fmt.Errorf("list rate records by name: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Update replaces all non-identity fields; id and created_at are preserved.
func (r *CatalogRepository) Update(ctx context.Context, rec *domain.RateRecord) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE rate_records
SET name = $2, unit = $3, rate = $4, scope_of_work = $5, source = $6, updated_at = $7
WHERE id = $1
`, rec.ID, rec.Name, rec.Unit, rec.Rate, rec.ScopeOfWork, rec.Source, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update rate record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rate record rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrRecordNotFound, "update rate record", fmt.Errorf("id %s", rec.ID))
	}
	return nil
}

// Delete is idempotent: deleting an absent id is a no-op.
func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rate_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rate record: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]domain.RateRecord, error) {
	out := make([]domain.RateRecord, 0)
	for rows.Next() {
		var rec domain.RateRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Unit, &rec.Rate, &rec.ScopeOfWork, &rec.Source, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rate record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate records: %w", err)
	}
	return out, nil
}

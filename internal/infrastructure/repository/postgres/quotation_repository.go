package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

type QuotationRepository struct {
	db *sql.DB
}

func NewQuotationRepository(db *sql.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083002)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS quotations (
	id TEXT PRIMARY KEY,
	raw_text TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	items JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quotations_status ON quotations(status);
CREATE INDEX IF NOT EXISTS idx_quotations_created_at ON quotations(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	itemsJSON, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("marshal tender items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO quotations (id, raw_text, status, error_message, items, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, q.ID, q.RawText, string(q.Status), q.Error, itemsJSON, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert quotation: %w", err)
	}
	return nil
}

func (r *QuotationRepository) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, raw_text, status, error_message, items, created_at, updated_at
FROM quotations
WHERE id = $1
`, id)

	var q domain.Quotation
	var itemsRaw []byte
	var status string

	err := row.Scan(&q.ID, &q.RawText, &status, &q.Error, &itemsRaw, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrQuotationNotFound, "get quotation", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan quotation: %w", err)
	}

	if err := json.Unmarshal(itemsRaw, &q.Items); err != nil {
		return nil, fmt.Errorf("unmarshal tender items: %w", err)
	}
	if q.Items == nil {
		q.Items = []domain.TenderItem{}
	}
	q.Status = domain.QuotationStatus(status)
	return &q, nil
}

func (r *QuotationRepository) UpdateStatus(ctx context.Context, id string, status domain.QuotationStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE quotations
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update quotation status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update quotation status rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrQuotationNotFound, "update quotation status", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *QuotationRepository) SaveItems(ctx context.Context, id string, items []domain.TenderItem) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal tender items: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE quotations
SET items = $2, updated_at = $3
WHERE id = $1
`, id, itemsJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save tender items: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save tender items rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrQuotationNotFound, "save tender items", fmt.Errorf("id %s", id))
	}
	return nil
}

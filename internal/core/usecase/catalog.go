package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
	"github.com/tnso721607-maker/tenderquote/internal/core/ports"
)

type CatalogUseCase struct {
	repo      ports.CatalogRepository
	extractor ports.TenderExtractor
}

func NewCatalogUseCase(repo ports.CatalogRepository, extractor ports.TenderExtractor) *CatalogUseCase {
	return &CatalogUseCase{
		repo:      repo,
		extractor: extractor,
	}
}

// Add creates a record from a validated draft. Duplicate names are accepted:
// the same item quoted by several sources is what benchmarking compares.
func (uc *CatalogUseCase) Add(ctx context.Context, draft domain.RateRecordDraft) (*domain.RateRecord, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	rec := newRecordFromDraft(draft)
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create rate record: %w", err)
	}
	return rec, nil
}

func (uc *CatalogUseCase) List(ctx context.Context, nameFilter string) ([]domain.RateRecord, error) {
	if strings.TrimSpace(nameFilter) != "" {
		records, err := uc.repo.ListByName(ctx, nameFilter)
		if err != nil {
			return nil, fmt.Errorf("list rate records by name: %w", err)
		}
		return records, nil
	}

	records, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rate records: %w", err)
	}
	return records, nil
}

// Update replaces all non-identity fields. Identity and creation timestamp
// are preserved by the repository.
func (uc *CatalogUseCase) Update(ctx context.Context, id string, draft domain.RateRecordDraft) (*domain.RateRecord, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	rec := &domain.RateRecord{
		ID:          id,
		Name:        draft.Name,
		Unit:        draft.Unit,
		Rate:        draft.Rate,
		ScopeOfWork: draft.ScopeOfWork,
		Source:      draft.Source,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update rate record: %w", err)
	}
	return rec, nil
}

// Remove is idempotent: removing an absent id is a no-op, not an error.
func (uc *CatalogUseCase) Remove(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete rate record: %w", err)
	}
	return nil
}

// ImportFromText bulk-creates records extracted from pasted text. Extraction
// failures degrade to zero imported records; drafts that fail validation are
// skipped rather than aborting the batch.
func (uc *CatalogUseCase) ImportFromText(ctx context.Context, text string) ([]domain.RateRecord, error) {
	if strings.TrimSpace(text) == "" {
		return []domain.RateRecord{}, nil
	}

	drafts, err := uc.extractor.ExtractCatalogItems(ctx, text)
	if err != nil {
		slog.Warn("catalog_import_extraction_failed", "error", err)
		return []domain.RateRecord{}, nil
	}

	created := make([]domain.RateRecord, 0, len(drafts))
	for _, draft := range drafts {
		if err := draft.Validate(); err != nil {
			slog.Warn("catalog_import_skip_invalid_draft", "name", draft.Name, "error", err)
			continue
		}
		rec := newRecordFromDraft(draft)
		if err := uc.repo.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("create imported rate record: %w", err)
		}
		created = append(created, *rec)
	}
	return created, nil
}

func newRecordFromDraft(draft domain.RateRecordDraft) *domain.RateRecord {
	now := time.Now().UTC()
	return &domain.RateRecord{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Unit:        draft.Unit,
		Rate:        draft.Rate,
		ScopeOfWork: draft.ScopeOfWork,
		Source:      draft.Source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

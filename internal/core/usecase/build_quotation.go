package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
	"github.com/tnso721607-maker/tenderquote/internal/core/ports"
)

const defaultMatchConcurrency = 4

// BuildQuotationUseCase drives one tender-to-catalog build: extract lines from
// the stored raw text, resolve a semantic match per line against a catalog
// snapshot, derive statuses, persist the resolved items.
//
// Oracle faults are never fatal. Extraction failure means zero items, matcher
// failure means no-match for that line, catalog load failure means an empty
// snapshot. Only persistence faults fail the build.
type BuildQuotationUseCase struct {
	quotations ports.QuotationRepository
	catalog    ports.CatalogRepository
	extractor  ports.TenderExtractor
	matcher    ports.RateMatcher

	maxConcurrency int
}

func NewBuildQuotationUseCase(
	quotations ports.QuotationRepository,
	catalog ports.CatalogRepository,
	extractor ports.TenderExtractor,
	matcher ports.RateMatcher,
	maxConcurrency int,
) *BuildQuotationUseCase {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMatchConcurrency
	}
	return &BuildQuotationUseCase{
		quotations:     quotations,
		catalog:        catalog,
		extractor:      extractor,
		matcher:        matcher,
		maxConcurrency: maxConcurrency,
	}
}

func (uc *BuildQuotationUseCase) BuildByID(ctx context.Context, quotationID string) error {
	if err := uc.markStatus(ctx, quotationID, domain.QuotationProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	q, err := uc.quotations.GetByID(ctx, quotationID)
	if err != nil {
		wrapped := fmt.Errorf("fetch quotation by id: %w", err)
		if failErr := uc.markFailed(ctx, quotationID, wrapped); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", wrapped, failErr)
		}
		return wrapped
	}

	items := uc.resolveItems(ctx, q.ID, q.RawText)

	if err := uc.quotations.SaveItems(ctx, quotationID, items); err != nil {
		wrapped := fmt.Errorf("save tender items: %w", err)
		if failErr := uc.markFailed(ctx, quotationID, wrapped); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", wrapped, failErr)
		}
		return wrapped
	}

	if err := uc.markStatus(ctx, quotationID, domain.QuotationReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

// resolveItems never errors: every failure path degrades to the documented
// safe default. The returned slice preserves extraction order.
func (uc *BuildQuotationUseCase) resolveItems(ctx context.Context, quotationID, rawText string) []domain.TenderItem {
	if strings.TrimSpace(rawText) == "" {
		return []domain.TenderItem{}
	}

	// Snapshot once at build start: catalog edits during the build do not
	// affect this build's results.
	snapshot, err := uc.catalog.List(ctx)
	if err != nil {
		slog.Warn("catalog_snapshot_failed", "quotation_id", quotationID, "error", err)
		snapshot = nil
	}

	candidates, err := uc.extractor.ExtractTenderLines(ctx, rawText)
	if err != nil {
		slog.Warn("tender_extraction_failed", "quotation_id", quotationID, "error", err)
		return []domain.TenderItem{}
	}
	if len(candidates) == 0 {
		return []domain.TenderItem{}
	}

	index := domain.BuildIndex(snapshot)

	items := make([]domain.TenderItem, len(candidates))
	sem := make(chan struct{}, uc.maxConcurrency)
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate domain.TenderLineRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			items[i] = uc.resolveOne(ctx, quotationID, candidate, snapshot, index)
		}(i, candidate)
	}
	wg.Wait()
	return items
}

func (uc *BuildQuotationUseCase) resolveOne(
	ctx context.Context,
	quotationID string,
	candidate domain.TenderLineRequest,
	snapshot []domain.RateRecord,
	index []domain.CatalogIndexEntry,
) domain.TenderItem {
	matchedID := ""
	if len(index) > 0 {
		id, err := uc.matcher.FindBestMatch(ctx, candidate.Name, candidate.RequestedScope, index)
		if err != nil {
			slog.Warn("semantic_match_failed", "quotation_id", quotationID, "line", candidate.Name, "error", err)
		} else {
			matchedID = id
		}
	}

	var matched *domain.MatchedRate
	if rec := domain.FindByID(snapshot, matchedID); rec != nil {
		matched = &domain.MatchedRate{
			RecordID:    rec.ID,
			Name:        rec.Name,
			Unit:        rec.Unit,
			Rate:        rec.Rate,
			ScopeOfWork: rec.ScopeOfWork,
		}
	}

	return domain.TenderItem{
		ID:             uuid.NewString(),
		Name:           candidate.Name,
		Quantity:       domain.NormalizeQuantity(candidate.Quantity),
		RequestedScope: candidate.RequestedScope,
		EstimatedRate:  candidate.EstimatedRate,
		Matched:        matched,
		Status:         domain.DeriveStatus(matched, candidate.Name),
	}
}

func (uc *BuildQuotationUseCase) markStatus(ctx context.Context, quotationID string, status domain.QuotationStatus, errMessage string) error {
	return uc.quotations.UpdateStatus(ctx, quotationID, status, errMessage)
}

func (uc *BuildQuotationUseCase) markFailed(ctx context.Context, quotationID string, buildErr error) error {
	if buildErr == nil {
		return nil
	}
	return uc.markStatus(ctx, quotationID, domain.QuotationFailed, buildErr.Error())
}

package ports

import (
	"context"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

// CatalogRepository persists schedule-of-rates records.
type CatalogRepository interface {
	Create(ctx context.Context, rec *domain.RateRecord) error
	List(ctx context.Context) ([]domain.RateRecord, error)
	ListByName(ctx context.Context, name string) ([]domain.RateRecord, error)
	Update(ctx context.Context, rec *domain.RateRecord) error
	Delete(ctx context.Context, id string) error
}

// QuotationRepository persists quotation state and resolved items.
type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id string) (*domain.Quotation, error)
	UpdateStatus(ctx context.Context, id string, status domain.QuotationStatus, errMessage string) error
	SaveItems(ctx context.Context, id string, items []domain.TenderItem) error
}

// MessageQueue publishes/consumes quotation build jobs.
type MessageQueue interface {
	PublishQuotationRequested(ctx context.Context, quotationID string) error
	SubscribeQuotationRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// TenderExtractor turns raw pasted text into structured line items. Output is
// unbounded and may be empty; callers treat any error as zero items.
type TenderExtractor interface {
	ExtractTenderLines(ctx context.Context, text string) ([]domain.TenderLineRequest, error)
	ExtractCatalogItems(ctx context.Context, text string) ([]domain.RateRecordDraft, error)
}

// RateMatcher judges which catalog entry best covers one requested line.
// An empty id means no match; callers treat any error the same way.
type RateMatcher interface {
	FindBestMatch(ctx context.Context, name, scope string, index []domain.CatalogIndexEntry) (string, error)
}

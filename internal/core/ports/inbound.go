package ports

import (
	"context"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

// CatalogService is the inbound contract for schedule-of-rates management.
type CatalogService interface {
	Add(ctx context.Context, draft domain.RateRecordDraft) (*domain.RateRecord, error)
	List(ctx context.Context, nameFilter string) ([]domain.RateRecord, error)
	Update(ctx context.Context, id string, draft domain.RateRecordDraft) (*domain.RateRecord, error)
	Remove(ctx context.Context, id string) error
	ImportFromText(ctx context.Context, text string) ([]domain.RateRecord, error)
}

// QuotationRequester accepts raw tender text and schedules a build.
type QuotationRequester interface {
	Request(ctx context.Context, rawText string) (*domain.Quotation, error)
}

// QuotationBuilder is the inbound contract for asynchronous quotation builds.
type QuotationBuilder interface {
	BuildByID(ctx context.Context, quotationID string) error
}

// QuotationReader is the inbound read model for built quotations.
type QuotationReader interface {
	GetByID(ctx context.Context, id string) (*domain.Quotation, error)
}

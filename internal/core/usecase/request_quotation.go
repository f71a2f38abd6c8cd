package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
	"github.com/tnso721607-maker/tenderquote/internal/core/ports"
)

type RequestQuotationUseCase struct {
	repo  ports.QuotationRepository
	queue ports.MessageQueue
}

func NewRequestQuotationUseCase(repo ports.QuotationRepository, queue ports.MessageQueue) *RequestQuotationUseCase {
	return &RequestQuotationUseCase{
		repo:  repo,
		queue: queue,
	}
}

// Request stores the raw tender text as a pending quotation and schedules the
// build. Blank text is accepted; the build short-circuits to zero items.
func (uc *RequestQuotationUseCase) Request(ctx context.Context, rawText string) (*domain.Quotation, error) {
	now := time.Now().UTC()
	q := &domain.Quotation{
		ID:        uuid.NewString(),
		RawText:   rawText,
		Status:    domain.QuotationPending,
		Items:     []domain.TenderItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	if err := uc.queue.PublishQuotationRequested(ctx, q.ID); err != nil {
		return nil, fmt.Errorf("publish quotation build event: %w", err)
	}

	return q, nil
}

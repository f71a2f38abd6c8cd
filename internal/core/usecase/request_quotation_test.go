package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishQuotationRequested(_ context.Context, quotationID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, quotationID)
	return nil
}

func (f *queueFake) SubscribeQuotationRequested(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestRequestStoresPendingAndPublishes(t *testing.T) {
	repo := newQuotationRepoFake(nil)
	queue := &queueFake{}
	uc := NewRequestQuotationUseCase(repo, queue)

	q, err := uc.Request(context.Background(), "50m of 25mm GI pipe")
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if q.ID == "" || q.Status != domain.QuotationPending {
		t.Fatalf("expected pending quotation with id, got %+v", q)
	}
	if len(queue.published) != 1 || queue.published[0] != q.ID {
		t.Fatalf("expected published id %s, got %v", q.ID, queue.published)
	}
}

func TestRequestPublishFailureSurfaces(t *testing.T) {
	repo := newQuotationRepoFake(nil)
	queue := &queueFake{publishErr: errors.New("nats down")}
	uc := NewRequestQuotationUseCase(repo, queue)

	if _, err := uc.Request(context.Background(), "text"); err == nil {
		t.Fatalf("expected error when publish fails")
	}
}

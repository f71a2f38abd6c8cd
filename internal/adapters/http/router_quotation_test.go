package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

func TestRequestQuotationReturns202WithPendingStatus(t *testing.T) {
	handler := newTestHandler(nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/quotations", bytes.NewBufferString(`{"text":"50m of 25mm GI pipe"}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	var payload map[string]string
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["id"] != "q-1" || payload["status"] != "pending" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestRequestQuotationTemporaryFailureMapsTo503(t *testing.T) {
	requester := &requesterFake{err: domain.WrapError(domain.ErrTemporary, "publish", errors.New("nats down"))}
	handler := newTestHandler(nil, requester, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/quotations", bytes.NewBufferString(`{"text":"x"}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestGetQuotationComputesTotals(t *testing.T) {
	now := time.Now().UTC()
	reader := &readerFake{quotation: &domain.Quotation{
		ID:     "q-1",
		Status: domain.QuotationReady,
		Items: []domain.TenderItem{
			{ID: "item-1", Name: "Pipe 25mm", Quantity: 50, Status: domain.MatchReview,
				Matched: &domain.MatchedRate{RecordID: "rec-1", Name: "GI Pipe 25mm", Rate: 120}},
			{ID: "item-2", Name: "Unknown thing", Quantity: 3, Status: domain.NoMatch},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}}
	handler := newTestHandler(nil, nil, reader)
	req := httptest.NewRequest(http.MethodGet, "/v1/quotations/q-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var payload struct {
		Status       string  `json:"status"`
		GrandTotal   float64 `json:"grand_total"`
		MatchedCount int     `json:"matched_count"`
		Items        []struct {
			LineAmount float64 `json:"line_amount"`
			Status     string  `json:"status"`
		} `json:"items"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.GrandTotal != 6000 || payload.MatchedCount != 1 {
		t.Fatalf("unexpected totals: %+v", payload)
	}
	if payload.Items[0].LineAmount != 6000 || payload.Items[1].LineAmount != 0 {
		t.Fatalf("unexpected line amounts: %+v", payload.Items)
	}
}

func TestGetQuotationNotFoundMapsTo404(t *testing.T) {
	reader := &readerFake{err: domain.WrapError(domain.ErrQuotationNotFound, "get quotation", errors.New("missing"))}
	handler := newTestHandler(nil, nil, reader)
	req := httptest.NewRequest(http.MethodGet, "/v1/quotations/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestQuotationsMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(nil, nil, nil)
	req := httptest.NewRequest(http.MethodDelete, "/v1/quotations", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

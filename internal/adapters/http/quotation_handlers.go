package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

type quotationRequest struct {
	Text string `json:"text"`
}

type tenderItemView struct {
	domain.TenderItem
	LineAmount float64 `json:"line_amount"`
}

type quotationView struct {
	ID           string                 `json:"id"`
	Status       domain.QuotationStatus `json:"status"`
	Error        string                 `json:"error,omitempty"`
	Items        []tenderItemView       `json:"items"`
	GrandTotal   float64                `json:"grand_total"`
	MatchedCount int                    `json:"matched_count"`
	CreatedAt    string                 `json:"created_at"`
	UpdatedAt    string                 `json:"updated_at"`
}

func (rt *Router) requestQuotation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req quotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	q, err := rt.requester.Request(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordQuotationRequest(rt.service)
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     q.ID,
		"status": string(q.Status),
	})
}

func (rt *Router) getQuotationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/quotations/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	q, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuotationView(q))
}

func newQuotationView(q *domain.Quotation) quotationView {
	items := make([]tenderItemView, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, tenderItemView{
			TenderItem: item,
			LineAmount: domain.LineAmount(item),
		})
	}
	return quotationView{
		ID:           q.ID,
		Status:       q.Status,
		Error:        q.Error,
		Items:        items,
		GrandTotal:   domain.GrandTotal(q.Items),
		MatchedCount: domain.MatchedCount(q.Items),
		CreatedAt:    q.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    q.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

package domain

import (
	"strings"
	"time"
)

type QuotationStatus string

const (
	QuotationPending    QuotationStatus = "pending"
	QuotationProcessing QuotationStatus = "processing"
	QuotationReady      QuotationStatus = "ready"
	QuotationFailed     QuotationStatus = "failed"
)

type MatchStatus string

const (
	MatchPending MatchStatus = "pending"
	Matched      MatchStatus = "matched"
	MatchReview  MatchStatus = "review"
	NoMatch      MatchStatus = "no-match"
)

// TenderLineRequest is one line extracted from raw tender text, before any
// matching has happened.
type TenderLineRequest struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	RequestedScope string  `json:"requested_scope,omitempty"`
	EstimatedRate  float64 `json:"estimated_rate,omitempty"`
}

// MatchedRate is an immutable snapshot of a catalog record taken at match
// time. Catalog edits after resolution never reach an already built item.
type MatchedRate struct {
	RecordID    string  `json:"record_id"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	ScopeOfWork string  `json:"scope_of_work,omitempty"`
}

// TenderItem is a resolved tender line: the extracted request plus the match
// outcome. Matched is nil when no catalog record was found.
type TenderItem struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Quantity       float64      `json:"quantity"`
	RequestedScope string       `json:"requested_scope,omitempty"`
	EstimatedRate  float64      `json:"estimated_rate,omitempty"`
	Matched        *MatchedRate `json:"matched,omitempty"`
	Status         MatchStatus  `json:"status"`
}

// Quotation is one tender-to-catalog build: the submitted raw text and the
// resolved items once the worker has processed it.
type Quotation struct {
	ID        string          `json:"id"`
	RawText   string          `json:"raw_text"`
	Status    QuotationStatus `json:"status"`
	Error     string          `json:"error,omitempty"`
	Items     []TenderItem    `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DeriveStatus is the trust boundary of the matcher: an exact
// case-insensitive name hit is high confidence, any other successful match is
// only a semantic equivalence and goes to human review.
func DeriveStatus(matched *MatchedRate, requestedName string) MatchStatus {
	if matched == nil {
		return NoMatch
	}
	if strings.EqualFold(matched.Name, requestedName) {
		return Matched
	}
	return MatchReview
}

// NormalizeQuantity defaults absent or non-positive quantities to 1.
func NormalizeQuantity(quantity float64) float64 {
	if quantity > 0 {
		return quantity
	}
	return 1
}

// LineAmount is quantity times the matched rate, zero for unmatched items.
// No rounding happens here; display rounding is a presentation concern.
func LineAmount(item TenderItem) float64 {
	if item.Matched == nil {
		return 0
	}
	return item.Quantity * item.Matched.Rate
}

func GrandTotal(items []TenderItem) float64 {
	var total float64
	for _, item := range items {
		total += LineAmount(item)
	}
	return total
}

func MatchedCount(items []TenderItem) int {
	count := 0
	for _, item := range items {
		if item.Matched != nil {
			count++
		}
	}
	return count
}

package domain

import (
	"errors"
	"strings"
	"time"
)

// RateRecord is one schedule-of-rates entry: a named work item with a unit
// price and the technical scope that price covers. Duplicate names are
// legitimate — several sources quoting the same item at different rates is
// what makes benchmark comparison possible.
type RateRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Rate        float64   `json:"rate"`
	ScopeOfWork string    `json:"scope_of_work,omitempty"`
	Source      string    `json:"source,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RateRecordDraft is a record as extracted from pasted text, before identity
// and timestamps are assigned.
type RateRecordDraft struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	ScopeOfWork string  `json:"scope_of_work,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// CatalogIndexEntry is the reduced (id, name) view of a record sent to the
// semantic matcher. Scope text stays on the query side only.
type CatalogIndexEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (d RateRecordDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return WrapError(ErrInvalidInput, "validate rate record", errors.New("name must not be empty"))
	}
	if d.Rate < 0 {
		return WrapError(ErrInvalidInput, "validate rate record", errors.New("rate must not be negative"))
	}
	return nil
}

// BuildIndex reduces a catalog snapshot to the (id, name) pairs the matcher
// is allowed to see.
func BuildIndex(records []RateRecord) []CatalogIndexEntry {
	index := make([]CatalogIndexEntry, 0, len(records))
	for _, rec := range records {
		index = append(index, CatalogIndexEntry{ID: rec.ID, Name: rec.Name})
	}
	return index
}

// FindByID returns the snapshot record with the given id, or nil when the id
// is empty, stale, or unknown.
func FindByID(records []RateRecord, id string) *RateRecord {
	if id == "" {
		return nil
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}

// IsLowestRate reports whether rec is a benchmark-lowest entry: at least two
// records in all share its name case-insensitively and rec.Rate equals the
// minimum among them. Every record tied at the minimum is flagged.
func IsLowestRate(rec RateRecord, all []RateRecord) bool {
	name := strings.ToLower(rec.Name)
	count := 0
	min := rec.Rate
	for _, other := range all {
		if strings.ToLower(other.Name) != name {
			continue
		}
		count++
		if other.Rate < min {
			min = other.Rate
		}
	}
	return count >= 2 && rec.Rate == min
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

type catalogStoreFake struct {
	created   []domain.RateRecord
	records   []domain.RateRecord
	byName    map[string][]domain.RateRecord
	deleted   []string
	createErr error
	updateErr error
}

func (f *catalogStoreFake) Create(_ context.Context, rec *domain.RateRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *rec)
	return nil
}

func (f *catalogStoreFake) List(context.Context) ([]domain.RateRecord, error) {
	return f.records, nil
}

func (f *catalogStoreFake) ListByName(_ context.Context, name string) ([]domain.RateRecord, error) {
	return f.byName[name], nil
}

func (f *catalogStoreFake) Update(_ context.Context, _ *domain.RateRecord) error {
	return f.updateErr
}

func (f *catalogStoreFake) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestCatalogAddAssignsIdentityAndTimestamps(t *testing.T) {
	store := &catalogStoreFake{}
	uc := NewCatalogUseCase(store, &extractorFake{})

	rec, err := uc.Add(context.Background(), domain.RateRecordDraft{Name: "Excavation", Unit: "m3", Rate: 90})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("expected assigned identity and timestamp, got %+v", rec)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.created))
	}
}

func TestCatalogAddAcceptsDuplicateNames(t *testing.T) {
	store := &catalogStoreFake{}
	uc := NewCatalogUseCase(store, &extractorFake{})

	for _, rate := range []float64{100, 80} {
		if _, err := uc.Add(context.Background(), domain.RateRecordDraft{Name: "Excavation", Rate: rate}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if len(store.created) != 2 {
		t.Fatalf("duplicate names are legitimate, expected 2 records, got %d", len(store.created))
	}
	if store.created[0].ID == store.created[1].ID {
		t.Fatalf("duplicate records must still get distinct ids")
	}
}

func TestCatalogAddRejectsInvalidDraft(t *testing.T) {
	uc := NewCatalogUseCase(&catalogStoreFake{}, &extractorFake{})

	if _, err := uc.Add(context.Background(), domain.RateRecordDraft{Name: "", Rate: 10}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.Add(context.Background(), domain.RateRecordDraft{Name: "Excavation", Rate: -5}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCatalogListUsesNameFilter(t *testing.T) {
	store := &catalogStoreFake{
		records: []domain.RateRecord{{ID: "A"}, {ID: "B"}},
		byName:  map[string][]domain.RateRecord{"Excavation": {{ID: "A"}}},
	}
	uc := NewCatalogUseCase(store, &extractorFake{})

	all, err := uc.List(context.Background(), "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected full listing, got %v, %v", all, err)
	}
	filtered, err := uc.List(context.Background(), "Excavation")
	if err != nil || len(filtered) != 1 || filtered[0].ID != "A" {
		t.Fatalf("expected filtered listing, got %v, %v", filtered, err)
	}
}

func TestCatalogUpdateSurfacesNotFound(t *testing.T) {
	store := &catalogStoreFake{updateErr: domain.WrapError(domain.ErrRecordNotFound, "update", errors.New("missing"))}
	uc := NewCatalogUseCase(store, &extractorFake{})

	_, err := uc.Update(context.Background(), "missing", domain.RateRecordDraft{Name: "Excavation", Rate: 10})
	if !domain.IsKind(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCatalogRemoveIsIdempotent(t *testing.T) {
	store := &catalogStoreFake{}
	uc := NewCatalogUseCase(store, &extractorFake{})

	if err := uc.Remove(context.Background(), "absent-id"); err != nil {
		t.Fatalf("removing an absent id is a no-op, got %v", err)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("expected delete to be attempted")
	}
}

func TestImportFromTextExtractionFailureYieldsZeroRecords(t *testing.T) {
	uc := NewCatalogUseCase(&catalogStoreFake{}, &extractorFake{draftsErr: errors.New("llm unreachable")})

	created, err := uc.ImportFromText(context.Background(), "some pasted rates")
	if err != nil {
		t.Fatalf("oracle failure must not surface, got %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected zero imported records, got %d", len(created))
	}
}

func TestImportFromTextSkipsInvalidDrafts(t *testing.T) {
	store := &catalogStoreFake{}
	uc := NewCatalogUseCase(store, &extractorFake{drafts: []domain.RateRecordDraft{
		{Name: "Excavation", Unit: "m3", Rate: 90},
		{Name: "", Rate: 10},
		{Name: "Backfilling", Rate: -1},
		{Name: "Pipe 25mm", Unit: "m", Rate: 120},
	}})

	created, err := uc.ImportFromText(context.Background(), "pasted table")
	if err != nil {
		t.Fatalf("ImportFromText() error = %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(created))
	}
	if created[0].Name != "Excavation" || created[1].Name != "Pipe 25mm" {
		t.Fatalf("unexpected import order: %+v", created)
	}
}

func TestImportFromTextBlankInputShortCircuits(t *testing.T) {
	extractor := &extractorFake{drafts: []domain.RateRecordDraft{{Name: "X", Rate: 1}}}
	uc := NewCatalogUseCase(&catalogStoreFake{}, extractor)

	created, err := uc.ImportFromText(context.Background(), "   ")
	if err != nil || len(created) != 0 {
		t.Fatalf("expected no-op for blank text, got %v, %v", created, err)
	}
}

package domain

import (
	"math/rand"
	"testing"
)

func TestDeriveStatus(t *testing.T) {
	if got := DeriveStatus(nil, "Pipe 25mm"); got != NoMatch {
		t.Fatalf("nil match: expected no-match, got %s", got)
	}
	if got := DeriveStatus(&MatchedRate{Name: "pipe 25MM"}, "Pipe 25mm"); got != Matched {
		t.Fatalf("case-insensitive equal names: expected matched, got %s", got)
	}
	if got := DeriveStatus(&MatchedRate{Name: "GI Pipe 25mm"}, "Pipe 25mm"); got != MatchReview {
		t.Fatalf("differing names: expected review, got %s", got)
	}
}

func TestNormalizeQuantity(t *testing.T) {
	if got := NormalizeQuantity(0); got != 1 {
		t.Fatalf("zero quantity defaults to 1, got %v", got)
	}
	if got := NormalizeQuantity(-3); got != 1 {
		t.Fatalf("negative quantity defaults to 1, got %v", got)
	}
	if got := NormalizeQuantity(2.5); got != 2.5 {
		t.Fatalf("positive quantity kept, got %v", got)
	}
}

func TestLineAmount(t *testing.T) {
	item := TenderItem{Quantity: 50, Matched: &MatchedRate{Rate: 120}}
	if got := LineAmount(item); got != 6000 {
		t.Fatalf("expected 6000, got %v", got)
	}
	if got := LineAmount(TenderItem{Quantity: 50}); got != 0 {
		t.Fatalf("unmatched item amounts to 0, got %v", got)
	}
}

func TestGrandTotalIsPermutationInvariant(t *testing.T) {
	items := []TenderItem{
		{Quantity: 2, Matched: &MatchedRate{Rate: 100}},
		{Quantity: 5, Matched: &MatchedRate{Rate: 12}},
		{Quantity: 3},
		{Quantity: 1, Matched: &MatchedRate{Rate: 999.5}},
	}
	want := GrandTotal(items)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]TenderItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := GrandTotal(shuffled); got != want {
			t.Fatalf("permutation changed total: got %v, want %v", got, want)
		}
	}
}

func TestMatchedCount(t *testing.T) {
	items := []TenderItem{
		{Matched: &MatchedRate{Rate: 1}},
		{},
		{Matched: &MatchedRate{Rate: 2}},
	}
	if got := MatchedCount(items); got != 2 {
		t.Fatalf("expected 2 matched, got %d", got)
	}
}

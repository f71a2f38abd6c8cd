package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

func jsonResponse(payload string) string {
	encoded, _ := json.Marshal(map[string]string{"response": payload})
	return string(encoded)
}

func TestExtractTenderLinesParsesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(jsonResponse(`{"items":[{"name":"Pipe 25mm","quantity":50,"requested_scope":"GI pipe"}]}`)))
	}))
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "gen"))
	lines, err := extractor.ExtractTenderLines(context.Background(), "50m of 25mm GI pipe")
	if err != nil {
		t.Fatalf("ExtractTenderLines() error = %v", err)
	}
	if len(lines) != 1 || lines[0].Name != "Pipe 25mm" || lines[0].Quantity != 50 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestExtractTenderLinesRecoversJSONFromProse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jsonResponse("Here you go:\n```json\n{\"items\":[{\"name\":\"Excavation\",\"quantity\":2}]}\n```")))
	}))
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "gen"))
	lines, err := extractor.ExtractTenderLines(context.Background(), "dig a trench")
	if err != nil {
		t.Fatalf("ExtractTenderLines() error = %v", err)
	}
	if len(lines) != 1 || lines[0].Name != "Excavation" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestExtractTenderLinesUnparseableOutputErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jsonResponse("I cannot help with that.")))
	}))
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "gen"))
	if _, err := extractor.ExtractTenderLines(context.Background(), "text"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestExtractCatalogItemsParsesDrafts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jsonResponse(`{"items":[{"name":"Excavation","unit":"m3","rate":90,"source":"SOR 2025"}]}`)))
	}))
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "gen"))
	drafts, err := extractor.ExtractCatalogItems(context.Background(), "Excavation m3 90")
	if err != nil {
		t.Fatalf("ExtractCatalogItems() error = %v", err)
	}
	if len(drafts) != 1 || drafts[0].Rate != 90 || drafts[0].Source != "SOR 2025" {
		t.Fatalf("unexpected drafts: %+v", drafts)
	}
}

func TestMatcherPromptListsCandidatesWithoutScope(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(jsonResponse(`{"match_id":"rec-1"}`)))
	}))
	defer server.Close()

	matcher := NewMatcher(New(server.URL, "gen"))
	index := []domain.CatalogIndexEntry{
		{ID: "rec-1", Name: "GI Pipe 25mm"},
		{ID: "rec-2", Name: "Excavation"},
	}
	id, err := matcher.FindBestMatch(context.Background(), "Pipe 25mm", "GI pipe", index)
	if err != nil {
		t.Fatalf("FindBestMatch() error = %v", err)
	}
	if id != "rec-1" {
		t.Fatalf("expected rec-1, got %q", id)
	}
	if !strings.Contains(capturedPrompt, "rec-1 | GI Pipe 25mm") || !strings.Contains(capturedPrompt, "rec-2 | Excavation") {
		t.Fatalf("prompt missing candidates: %s", capturedPrompt)
	}
	if !strings.Contains(capturedPrompt, "GI pipe") {
		t.Fatalf("prompt missing requested scope: %s", capturedPrompt)
	}
}

func TestMatcherNoMatchSignals(t *testing.T) {
	for _, payload := range []string{`{"match_id":""}`, `{"match_id":"none"}`, `{"match_id":"invented-id"}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(jsonResponse(payload)))
		}))

		matcher := NewMatcher(New(server.URL, "gen"))
		id, err := matcher.FindBestMatch(context.Background(), "Pipe 25mm", "", []domain.CatalogIndexEntry{{ID: "rec-1", Name: "Excavation"}})
		server.Close()
		if err != nil {
			t.Fatalf("payload %s: unexpected error %v", payload, err)
		}
		if id != "" {
			t.Fatalf("payload %s: expected no match, got %q", payload, id)
		}
	}
}

func TestGenerateIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "gen"))
	_, err := extractor.ExtractTenderLines(context.Background(), "text")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("retryable status must wrap as temporary, got %v", err)
	}
}

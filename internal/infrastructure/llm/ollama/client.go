package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
	"github.com/tnso721607-maker/tenderquote/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// WithExecutor enables retry and circuit breaking on generate calls.
func (c *Client) WithExecutor(executor *resilience.Executor) *Client {
	c.executor = executor
	return c
}

// Extractor turns raw pasted text into structured line items via JSON-mode
// generation. Errors are surfaced as-is; the use cases own the degradation to
// "zero items extracted".
type Extractor struct {
	client *Client
}

func NewExtractor(client *Client) *Extractor {
	return &Extractor{client: client}
}

func (e *Extractor) ExtractTenderLines(ctx context.Context, text string) ([]domain.TenderLineRequest, error) {
	respText, err := e.client.generateJSON(ctx, "extract_tender_lines", buildTenderLinesPrompt(text))
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []domain.TenderLineRequest `json:"items"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
		return nil, fmt.Errorf("parse tender lines json: %w", err)
	}
	if result.Items == nil {
		result.Items = []domain.TenderLineRequest{}
	}
	return result.Items, nil
}

func (e *Extractor) ExtractCatalogItems(ctx context.Context, text string) ([]domain.RateRecordDraft, error) {
	respText, err := e.client.generateJSON(ctx, "extract_catalog_items", buildCatalogItemsPrompt(text))
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []domain.RateRecordDraft `json:"items"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
		return nil, fmt.Errorf("parse catalog items json: %w", err)
	}
	if result.Items == nil {
		result.Items = []domain.RateRecordDraft{}
	}
	return result.Items, nil
}

// Matcher asks the model for the single best catalog entry covering one
// requested line. An empty returned id is an explicit no-match; ids the model
// invents are filtered out here so callers only ever see known ids or "".
type Matcher struct {
	client *Client
}

func NewMatcher(client *Client) *Matcher {
	return &Matcher{client: client}
}

func (m *Matcher) FindBestMatch(ctx context.Context, name, scope string, index []domain.CatalogIndexEntry) (string, error) {
	respText, err := m.client.generateJSON(ctx, "find_best_match", buildMatchPrompt(name, scope, index))
	if err != nil {
		return "", err
	}

	var result struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
		return "", fmt.Errorf("parse match json: %w", err)
	}

	matchID := strings.TrimSpace(result.MatchID)
	if matchID == "" || strings.EqualFold(matchID, "none") || strings.EqualFold(matchID, "null") {
		return "", nil
	}
	for _, entry := range index {
		if entry.ID == matchID {
			return matchID, nil
		}
	}
	return "", nil
}

func (c *Client) generateJSON(ctx context.Context, operation, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/api/generate", reqBody, &response, operation)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama."+operation, call, classifyLLMError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return strings.TrimSpace(response.Response), nil
}

// extractJSONObject recovers the JSON object from model output that wraps it
// in prose or markdown fences.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

package ollama

import (
	"fmt"
	"strings"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

const maxSnippet = 6000

func clip(text string) string {
	if len(text) > maxSnippet {
		return text[:maxSnippet]
	}
	return text
}

func buildTenderLinesPrompt(text string) string {
	return `You are a tender document parser for construction work items.
Extract every requested work line from the text below.
Return a strict JSON object: {"items": [{"name": string, "quantity": number, "requested_scope": string, "estimated_rate": number}]}.
quantity defaults to 1 when the text gives none. estimated_rate is 0 when the text gives none.
No markdown, no extra keys. Return {"items": []} when nothing can be extracted.

Text:
` + clip(text)
}

func buildCatalogItemsPrompt(text string) string {
	return `You are a schedule-of-rates parser.
Extract every priced work item from the text below.
Return a strict JSON object: {"items": [{"name": string, "unit": string, "rate": number, "scope_of_work": string, "source": string}]}.
No markdown, no extra keys. Return {"items": []} when nothing can be extracted.

Text:
` + clip(text)
}

func buildMatchPrompt(name, scope string, index []domain.CatalogIndexEntry) string {
	var candidates strings.Builder
	for _, entry := range index {
		candidates.WriteString(fmt.Sprintf("%s | %s\n", entry.ID, entry.Name))
	}

	return fmt.Sprintf(`You are a rate catalog matcher for construction work items.
Pick the one candidate whose name describes the same work as the requested item.
Return a strict JSON object: {"match_id": string}.
Use the candidate id exactly as listed. Return {"match_id": ""} when no candidate fits.

Requested item:
%s

Requested scope:
%s

Candidates (id | name):
%s`, name, clip(scope), candidates.String())
}

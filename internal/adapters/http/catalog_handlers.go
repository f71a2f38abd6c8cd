package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tnso721607-maker/tenderquote/internal/core/domain"
)

type catalogRecordView struct {
	domain.RateRecord
	LowestRate bool `json:"lowest_rate"`
}

type importRequest struct {
	Text string `json:"text"`
}

func (rt *Router) catalogRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.addCatalogRecord(w, r)
	case http.MethodGet:
		rt.listCatalogRecords(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) addCatalogRecord(w http.ResponseWriter, r *http.Request) {
	var draft domain.RateRecordDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	rec, err := rt.catalog.Add(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (rt *Router) listCatalogRecords(w http.ResponseWriter, r *http.Request) {
	records, err := rt.catalog.List(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]catalogRecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, catalogRecordView{
			RateRecord: rec,
			LowestRate: domain.IsLowestRate(rec, records),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": views})
}

func (rt *Router) catalogRecordByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/catalog/records/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	switch r.Method {
	case http.MethodPut:
		rt.updateCatalogRecord(w, r, id)
	case http.MethodDelete:
		rt.removeCatalogRecord(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) updateCatalogRecord(w http.ResponseWriter, r *http.Request, id string) {
	var draft domain.RateRecordDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	rec, err := rt.catalog.Update(r.Context(), id, draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (rt *Router) removeCatalogRecord(w http.ResponseWriter, r *http.Request, id string) {
	if err := rt.catalog.Remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) importCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	created, err := rt.catalog.ImportFromText(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordCatalogImport(rt.service, len(created))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":       created,
		"created_count": len(created),
	})
}

package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/tnso721607-maker/tenderquote/internal/core/ports"
	"github.com/tnso721607-maker/tenderquote/internal/observability/metrics"
)

type Router struct {
	service   string
	catalog   ports.CatalogService
	requester ports.QuotationRequester
	reader    ports.QuotationReader
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	service string,
	catalog ports.CatalogService,
	requester ports.QuotationRequester,
	reader ports.QuotationReader,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		service:   service,
		catalog:   catalog,
		requester: requester,
		reader:    reader,
		metrics:   serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/catalog/records", rt.catalogRecords)
	mux.HandleFunc("/v1/catalog/records/", rt.catalogRecordByID)
	mux.HandleFunc("/v1/catalog/import", rt.importCatalog)
	mux.HandleFunc("/v1/quotations", rt.requestQuotation)
	mux.HandleFunc("/v1/quotations/", rt.getQuotationByID)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

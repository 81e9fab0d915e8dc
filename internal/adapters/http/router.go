// Package httpadapter exposes the manifesto QA operations over HTTP.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
	"github.com/ballotline/manifesto-qa/internal/core/ports"
	"github.com/ballotline/manifesto-qa/internal/observability/metrics"
)

type Router struct {
	ingestUC  ports.ManifestoIngestor
	searchUC  ports.ManifestoSearcher
	answerUC  ports.QuestionAnswerer
	analyzeUC ports.ManifestoAnalyzer
	compareUC ports.ManifestoComparer
	listUC    ports.ManifestoLister

	service  string
	metrics  *metrics.HTTPServerMetrics
	validate *validator.Validate
}

func NewRouter(
	ingestUC ports.ManifestoIngestor,
	searchUC ports.ManifestoSearcher,
	answerUC ports.QuestionAnswerer,
	analyzeUC ports.ManifestoAnalyzer,
	compareUC ports.ManifestoComparer,
	listUC ports.ManifestoLister,
	service string,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		ingestUC:  ingestUC,
		searchUC:  searchUC,
		answerUC:  answerUC,
		analyzeUC: analyzeUC,
		compareUC: compareUC,
		listUC:    listUC,
		service:   service,
		metrics:   serverMetrics,
		validate:  validator.New(),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/manifestos", rt.manifestos)
	mux.HandleFunc("/v1/search", rt.search)
	mux.HandleFunc("/v1/answer", rt.answer)
	mux.HandleFunc("/v1/analyze", rt.analyze)
	mux.HandleFunc("/v1/compare", rt.compare)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) manifestos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadManifesto(w, r)
	case http.MethodGet:
		rt.listManifestos(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadManifesto(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	partyID := r.FormValue("partyId")
	partyName := r.FormValue("partyName")

	result, err := rt.ingestUC.Ingest(r.Context(), partyID, partyName, fileHeader.Filename, file)
	if rt.metrics != nil {
		rt.metrics.RecordIngest(rt.service, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (rt *Router) listManifestos(w http.ResponseWriter, r *http.Request) {
	summaries, err := rt.listUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"manifestos": summaries})
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	start := time.Now()
	result, err := rt.searchUC.Search(r.Context(), req.Query, req.TopK, domain.SearchFilter{PartyID: req.PartyID})
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSearch(rt.service, result.Mode, len(result.Chunks), time.Since(start))
	}

	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) answer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	answer, err := rt.answerUC.Answer(r.Context(), req.Question, domain.SearchFilter{PartyID: req.PartyID}, req.History)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAnswer(rt.service, answer.Degraded, len(answer.Sources), time.Since(start))
	}

	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "partyId is required"})
		return
	}

	analysis, err := rt.analyzeUC.Analyze(r.Context(), req.PartyID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) compare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least two partyIds are required"})
		return
	}

	comparison, err := rt.compareUC.Compare(r.Context(), req.PartyIDs, req.Topic)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comparison)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

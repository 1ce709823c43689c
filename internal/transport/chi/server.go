// Package chi exposes the search engine over HTTP with hand-written
// chi handlers.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quaero-io/quaero/internal/domain"
	"github.com/quaero-io/quaero/internal/domain/document"
	"github.com/quaero-io/quaero/internal/domain/search/filter"
	"github.com/quaero-io/quaero/internal/domain/search/query"
	"github.com/quaero-io/quaero/internal/domain/search/result"
	"github.com/quaero-io/quaero/internal/logger"
	"github.com/quaero-io/quaero/internal/metrics"
	documentuc "github.com/quaero-io/quaero/internal/usecase/document"
	"github.com/quaero-io/quaero/internal/usecase/health"
)

// SearchService is the search usecase surface the server consumes.
type SearchService interface {
	Search(ctx context.Context, q query.Query) ([]result.Result, error)
	SearchSemantic(ctx context.Context, q query.Query) ([]result.Result, error)
	SearchMetadata(ctx context.Context, f filter.Filter, limit int) ([]document.Document, error)
}

// DocumentService is the document usecase surface the server consumes.
type DocumentService interface {
	Insert(ctx context.Context, in documentuc.Input) (document.Document, error)
	InsertMany(ctx context.Context, ins []documentuc.Input) ([]document.Document, error)
	Get(ctx context.Context, id string) (document.Document, error)
	List(ctx context.Context, limit int) ([]document.Document, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// HealthService reports service health.
type HealthService interface {
	Check(ctx context.Context) health.Status
}

// Server handles HTTP requests.
type Server struct {
	search     SearchService
	docs       DocumentService
	health     HealthService
	snippetLen int
}

// NewServer creates an HTTP server over the usecase services.
// snippetLen caps document content in search responses, in runes.
func NewServer(search SearchService, docs DocumentService, h HealthService, snippetLen int) *Server {
	return &Server{search: search, docs: docs, health: h, snippetLen: snippetLen}
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.handleSearch)
	r.Post("/search/semantic", s.handleSearchSemantic)
	r.Post("/search/metadata", s.handleSearchMetadata)

	r.Post("/documents", s.handleInsert)
	r.Post("/documents/batch", s.handleInsertBatch)
	r.Get("/documents", s.handleList)
	r.Get("/documents/count", s.handleCount)
	r.Get("/documents/{id}", s.handleGet)
	r.Delete("/documents/{id}", s.handleDelete)

	r.Get("/healthz", s.handleHealth)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, "tiered", s.search.Search)
}

func (s *Server) handleSearchSemantic(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, "semantic", s.search.SearchSemantic)
}

func (s *Server) runSearch(
	w http.ResponseWriter, r *http.Request, mode string,
	fn func(context.Context, query.Query) ([]result.Result, error),
) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	q, err := buildQuery(req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	start := time.Now()
	results, err := fn(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	metrics.ObserveSearch(mode, time.Since(start), len(results))

	writeJSON(w, http.StatusOK, toSearchResponse(results, s.snippetLen))
}

func (s *Server) handleSearchMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	f, err := filter.New(req.Filter)
	if err != nil {
		writeDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err))
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = query.DefaultLimit
	}

	start := time.Now()
	docs, err := s.search.SearchMetadata(r.Context(), f, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	metrics.ObserveSearch("metadata", time.Since(start), len(docs))

	writeJSON(w, http.StatusOK, toDocumentsResponse(docs, s.snippetLen))
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	doc, err := s.docs.Insert(r.Context(), documentuc.Input{Content: req.Content, Metadata: req.Metadata})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc, 0))
}

func (s *Server) handleInsertBatch(w http.ResponseWriter, r *http.Request) {
	var req batchInsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	ins := make([]documentuc.Input, len(req.Documents))
	for i, d := range req.Documents {
		ins[i] = documentuc.Input{Content: d.Content, Metadata: d.Metadata}
	}

	docs, err := s.docs.InsertMany(r.Context(), ins)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentsResponse(docs, 0))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "bad_request", "limit must be an integer")
			return
		}
		limit = n
	}

	docs, err := s.docs.List(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentsResponse(docs, 0))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc, 0))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.docs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.docs.Count(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.health.Check(r.Context())
	resp := healthResponse{Status: "ok", Version: st.Version, Documents: st.Documents}
	code := http.StatusOK
	if !st.Healthy {
		resp.Status = "unavailable"
		if st.Err != nil {
			resp.Error = st.Err.Error()
		}
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// buildQuery validates the request body into a domain query.
func buildQuery(req searchRequest) (query.Query, error) {
	f, err := filter.New(req.Filter)
	if err != nil {
		return query.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}
	limit := req.Limit
	if limit == 0 {
		limit = query.DefaultLimit
	}
	return query.New(req.Query, limit, f)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, kind, msg string) {
	if code >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", zap.Int("status", code), zap.String("message", msg))
	}
	writeJSON(w, code, errorResponse{Code: kind, Message: msg})
}

// writeDomainError maps sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidFilter):
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	default:
		logger.FromContext(r.Context()).Error("internal error", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/edsapi/internal/domain"
	"github.com/kailas-cloud/edsapi/internal/domain/options"
	domquery "github.com/kailas-cloud/edsapi/internal/domain/query"
	"github.com/kailas-cloud/edsapi/internal/domain/record"
	logpkg "github.com/kailas-cloud/edsapi/internal/logger"
	"github.com/kailas-cloud/edsapi/internal/usecase/backend"
	healthuc "github.com/kailas-cloud/edsapi/internal/usecase/health"
	"github.com/kailas-cloud/edsapi/internal/usecase/request"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest      = "bad_request"
	CodeInvalidRecordID = "invalid_record_id"
	CodeUnauthorized    = "unauthorized"
	CodeBackendError    = "backend_error"
	CodeInternalError   = "internal_error"
)

// Backend is the search surface the server exposes.
type Backend interface {
	Search(ctx context.Context, q domquery.Query, offset, limit int, sp request.SearchParams) (*record.Collection, error)
	Retrieve(ctx context.Context, id string, rp backend.RetrieveParams) (*record.Collection, error)
	Info(ctx context.Context, profile string) (options.Info, error)
	Options() options.Options
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	BackendCode int    `json:"backend_code,omitempty"`
}

// RecordResponse is one record in a result list.
type RecordResponse struct {
	ID               string         `json:"id"`
	DatabaseID       string         `json:"database_id"`
	AccessionNumber  string         `json:"accession_number"`
	Title            string         `json:"title,omitempty"`
	SourceIdentifier string         `json:"source_identifier"`
	Raw              map[string]any `json:"raw,omitempty"`
}

// SearchResponse is the GET /search body.
type SearchResponse struct {
	Items            []RecordResponse `json:"items"`
	Total            int              `json:"total"`
	Offset           int              `json:"offset"`
	Limit            int              `json:"limit"`
	SourceIdentifier string           `json:"source_identifier"`
}

// OptionsResponse is the GET /options body: what a search form offers.
type OptionsResponse struct {
	DefaultLimit     int      `json:"default_limit"`
	LimitOptions     []int    `json:"limit_options,omitempty"`
	ResultLimit      int      `json:"result_limit"`
	DefaultSort      string   `json:"default_sort"`
	DefaultMode      string   `json:"default_mode"`
	View             string   `json:"view"`
	CommonLimiters   []string `json:"common_limiters,omitempty"`
	CommonExpanders  []string `json:"common_expanders,omitempty"`
	DefaultExpanders []string `json:"default_expanders,omitempty"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server serves the search backend over HTTP.
type Server struct {
	backend Backend
	health  HealthChecker
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(b Backend, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{backend: b, health: health, logger: logger}
}

// Register mounts the routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/records/{id}", s.Retrieve)
	r.Get("/info", s.Info)
	r.Get("/options", s.Options)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	text := strings.TrimSpace(q.Get("q"))
	if text == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query parameter q is required")
		return
	}

	opts := s.backend.Options()
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil || offset < 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "offset must be a non-negative integer")
		return
	}
	limit, err := intParam(q.Get("limit"), opts.DefaultLimit())
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be a positive integer")
		return
	}
	if allowed := opts.LimitOptions(); len(allowed) > 0 && !slices.Contains(allowed, limit) {
		limit = opts.DefaultLimit()
	}
	if limit > opts.ResultLimit() {
		limit = opts.ResultLimit()
	}

	filters, err := filtersFromQuery(q["filter"])
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	sp := request.SearchParams{
		Sort:      q.Get("sort"),
		Mode:      q.Get("mode"),
		Filters:   filters,
		Limiters:  q["limiter"],
		Expanders: q["expander"],
		Facets:    facetsFromQuery(q["facet"], q.Get("facet_op")),
		Profile:   q.Get("profile"),
	}

	coll, err := s.backend.Search(r.Context(), domquery.NewTerm(q.Get("field"), text), offset, limit, sp)
	if err != nil {
		s.handleBackendError(w, r, err)
		return
	}

	items := make([]RecordResponse, 0, coll.Len())
	for _, rec := range coll.Records() {
		items = append(items, recordToResponse(rec, false))
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Items:            items,
		Total:            coll.TotalHits(),
		Offset:           offset,
		Limit:            limit,
		SourceIdentifier: coll.SourceIdentifier(),
	})
}

// Retrieve handles GET /records/{id}.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rp := backend.RetrieveParams{
		Profile:        r.URL.Query().Get("profile"),
		HighlightTerms: r.URL.Query().Get("highlight"),
	}

	coll, err := s.backend.Retrieve(r.Context(), id, rp)
	if err != nil {
		s.handleBackendError(w, r, err)
		return
	}
	recs := coll.Records()
	if len(recs) == 0 {
		writeError(w, http.StatusBadGateway, CodeBackendError, "empty retrieve response")
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(recs[0], true))
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	info, err := s.backend.Info(r.Context(), r.URL.Query().Get("profile"))
	if err != nil {
		s.handleBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Options handles GET /options.
func (s *Server) Options(w http.ResponseWriter, _ *http.Request) {
	opts := s.backend.Options()
	writeJSON(w, http.StatusOK, OptionsResponse{
		DefaultLimit:     opts.DefaultLimit(),
		LimitOptions:     opts.LimitOptions(),
		ResultLimit:      opts.ResultLimit(),
		DefaultSort:      opts.DefaultSort(),
		DefaultMode:      opts.DefaultMode(),
		View:             opts.View(),
		CommonLimiters:   opts.CommonLimiters(),
		CommonExpanders:  opts.CommonExpanders(),
		DefaultExpanders: opts.DefaultExpanders(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContextOr(r.Context(), s.logger)
	if errors.Is(err, domain.ErrInvalidRecordID) {
		writeError(w, http.StatusBadRequest, CodeInvalidRecordID, domain.ErrInvalidRecordID.Error())
		return
	}

	var be *domain.BackendError
	if !errors.As(err, &be) {
		logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
		return
	}

	logger.Warn("backend error", zap.Error(err))
	resp := ErrorResponse{Code: CodeBackendError, Message: safeBackendMessage(err), BackendCode: be.Code}
	writeJSON(w, http.StatusBadGateway, resp)
}

// safeBackendMessage returns a client-facing message without transport internals.
func safeBackendMessage(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Description != "" {
		return apiErr.Description
	}
	for _, s := range []error{domain.ErrTransport, domain.ErrDecode, domain.ErrUnexpectedType} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "backend error"
}

func recordToResponse(r record.Record, withRaw bool) RecordResponse {
	resp := RecordResponse{
		ID:               r.ID(),
		DatabaseID:       r.DatabaseID(),
		AccessionNumber:  r.AccessionNumber(),
		Title:            r.Title(),
		SourceIdentifier: r.SourceIdentifier(),
	}
	if withRaw {
		resp.Raw = r.Raw()
	}
	return resp
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// filtersFromQuery parses repeated "field:value" filters.
func filtersFromQuery(raw []string) ([]request.Filter, error) {
	out := make([]request.Filter, 0, len(raw))
	for _, f := range raw {
		field, value, ok := strings.Cut(f, ":")
		if !ok || field == "" || value == "" {
			return nil, errors.New("filter must be field:value, got " + strconv.Quote(f))
		}
		out = append(out, request.Filter{Field: field, Value: value})
	}
	return out, nil
}

func facetsFromQuery(raw []string, op string) []request.Facet {
	out := make([]request.Facet, 0, len(raw))
	for _, f := range raw {
		out = append(out, request.Facet{Spec: f, Or: strings.EqualFold(op, "or")})
	}
	return out
}

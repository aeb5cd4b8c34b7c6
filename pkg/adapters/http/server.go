package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aretw0/moedit"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/outline"
	"github.com/aretw0/moedit/pkg/plan"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// APIVersion is reported by GET /info.
const APIVersion = "1.0.0"

// Editor defines the editing operations exposed over HTTP.
type Editor interface {
	ResolveText(ctx context.Context, text, path string) (domain.Span, domain.Trace, error)
	ApplyText(ctx context.Context, text string, steps []plan.Operation) (string, *plan.Report, error)
	Documents(ctx context.Context) ([]string, error)
	Document(ctx context.Context, id string) (domain.Document, error)
	Outline(ctx context.Context, id string) ([]*outline.Block, error)
	Apply(ctx context.Context, p *plan.Plan) (*moedit.Result, error)
}

// Server holds the handlers of the JSON API.
type Server struct {
	Editor  Editor
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h (typically promhttp.Handler()) on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the editor.
// Document IDs in paths are URL path-escaped, so "lib/A.mo" is sent as "lib%2FA.mo".
func NewHandler(editor Editor, opts ...Option) http.Handler {
	s := &Server{Editor: editor, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)
	r.Get("/info", s.Info)
	r.Post("/resolve", s.Resolve)
	r.Post("/apply", s.ApplyText)
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.ListDocuments)
		r.Get("/{id}", s.GetDocument)
		r.Get("/{id}/outline", s.GetOutline)
		r.Post("/{id}/apply", s.ApplyDocument)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// ResolveRequest is the body of POST /resolve.
type ResolveRequest struct {
	Text string `json:"text"`
	Path string `json:"path"`
}

// ResolveResponse is returned by POST /resolve.
type ResolveResponse struct {
	Span  domain.Span  `json:"span"`
	Trace domain.Trace `json:"trace"`
}

// ApplyRequest is the body of POST /apply and POST /documents/{id}/apply.
// Text is ignored by the document endpoint; Output names the destination
// document there and defaults to the document itself.
type ApplyRequest struct {
	Text   string           `json:"text,omitempty"`
	Output string           `json:"output,omitempty"`
	Steps  []map[string]any `json:"steps"`
}

// ApplyResponse is returned by POST /apply.
type ApplyResponse struct {
	Text   string       `json:"text"`
	Report *plan.Report `json:"report"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Target string `json:"target,omitempty"`
	Step   int    `json:"step,omitempty"` // 1-based index of the failing plan step
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "moedit-http",
		"version":     moedit.Version,
		"api_version": APIVersion,
	})
}

// Resolve handles POST /resolve.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	var body ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	span, trace, err := s.Editor.ResolveText(r.Context(), body.Text, body.Path)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{Span: span, Trace: trace})
}

// ApplyText handles POST /apply.
func (s *Server) ApplyText(w http.ResponseWriter, r *http.Request) {
	body, steps, ok := s.decodeApply(w, r)
	if !ok {
		return
	}

	text, report, err := s.Editor.ApplyText(r.Context(), body.Text, steps)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ApplyResponse{Text: text, Report: report})
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Editor.Documents(r.Context())
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"documents": ids})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.documentID(w, r)
	if !ok {
		return
	}

	doc, err := s.Editor.Document(r.Context(), id)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// GetOutline handles GET /documents/{id}/outline.
func (s *Server) GetOutline(w http.ResponseWriter, r *http.Request) {
	id, ok := s.documentID(w, r)
	if !ok {
		return
	}

	blocks, err := s.Editor.Outline(r.Context(), id)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "blocks": blocks})
}

// ApplyDocument handles POST /documents/{id}/apply.
func (s *Server) ApplyDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.documentID(w, r)
	if !ok {
		return
	}
	body, steps, ok := s.decodeApply(w, r)
	if !ok {
		return
	}

	res, err := s.Editor.Apply(r.Context(), &plan.Plan{Input: id, Output: body.Output, Steps: steps})
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// -- Helpers --

func (s *Server) decodeApply(w http.ResponseWriter, r *http.Request) (ApplyRequest, []plan.Operation, bool) {
	var body ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return body, nil, false
	}
	steps, err := plan.DecodeSteps(body.Steps)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return body, nil, false
	}
	return body, steps, true
}

func (s *Server) documentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid document id %q", chi.URLParam(r, "id")))
		return "", false
	}
	return id, true
}

// statusFor maps an edit failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAnchorNotFound), errors.Is(err, domain.ErrUnbalanced):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAmbiguous):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPath), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func kindOf(err error) string {
	for _, k := range []error{
		domain.ErrDocumentNotFound, domain.ErrNotFound, domain.ErrAnchorNotFound, domain.ErrAmbiguous,
		domain.ErrInvalidPath, domain.ErrInvalidArgument, domain.ErrUnbalanced,
	} {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return ""
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error(), Kind: kindOf(err)}
	if target, ok := domain.FailedTarget(err); ok {
		resp.Target = target
	}
	var stepErr *plan.StepError
	if errors.As(err, &stepErr) {
		resp.Step = stepErr.Index + 1
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package api exposes the recommendation service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	service "github.com/okian/skillsync/internal/app"
	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/internal/domain/normalize"
	"github.com/okian/skillsync/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Generate(ctx context.Context, userID uint64) (model.Recommendation, error)
	Latest(ctx context.Context, userID uint64) (model.Recommendation, error)
	History(ctx context.Context, userID uint64) ([]model.Recommendation, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler         *HealthHandler
	recommendationHandler *RecommendationHandler
	logger                logger.Logger
	mounts                []func(chi.Router)
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMount registers extra routes, such as API docs, on the root router.
func WithMount(mount func(chi.Router)) Option {
	return func(s *Server) {
		if mount != nil {
			s.mounts = append(s.mounts, mount)
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.recommendationHandler = NewRecommendationHandler(deps, s.logger)
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS())
	r.Use(Metrics)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", MetricsHandler())

	r.Route("/api/career/recommendations/{userId}", func(r chi.Router) {
		r.Post("/", s.recommendationHandler.HandleGenerate)
		r.Get("/latest", s.recommendationHandler.HandleLatest)
		r.Get("/all", s.recommendationHandler.HandleHistory)
	})

	for _, mount := range s.mounts {
		mount(r)
	}
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// Client-facing messages for mapped errors.
const (
	msgUserNotFound      = "User not found"
	msgProfileNotFound   = "User profile not found. Please create a profile first."
	msgNoRecommendations = "No recommendations found. Generate one first."
	msgMalformedResponse = "The recommendation could not be generated. Please try again."
	msgInternalError     = "Internal server error"
)

// Error codes.
const (
	codeNotFoundUser           = "user_not_found"
	codeNotFoundProfile        = "profile_not_found"
	codeNotFoundRecommendation = "recommendation_not_found"
	codeBadRequest             = "bad_request"
	codeMalformed              = "malformed_response"
	codeInternal               = "internal_error"
)

// writeServiceError maps service errors to status codes.
func (h *RecommendationHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *service.NotFoundError
	switch {
	case errors.As(err, &nf):
		switch nf.Entity {
		case service.EntityProfile:
			writeError(w, http.StatusNotFound, codeNotFoundProfile, msgProfileNotFound)
		case service.EntityRecommendation:
			writeError(w, http.StatusNotFound, codeNotFoundRecommendation, msgNoRecommendations)
		default:
			writeError(w, http.StatusNotFound, codeNotFoundUser, msgUserNotFound)
		}
	case errors.Is(err, normalize.ErrMalformedResponse):
		writeError(w, http.StatusInternalServerError, codeMalformed, msgMalformedResponse)
	default:
		h.logger.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, msgInternalError)
	}
}

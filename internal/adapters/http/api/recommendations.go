package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/pkg/logger"
)

// recommendationResponse is the JSON shape of a stored recommendation.
type recommendationResponse struct {
	ID                 uint64    `json:"id"`
	UserID             uint64    `json:"userId"`
	RecommendedRoles   []string  `json:"recommendedRoles"`
	MissingSkills      []string  `json:"missingSkills"`
	RecommendedCourses []string  `json:"recommendedCourses"`
	ProjectIdeas       []string  `json:"projectIdeas"`
	AIInsights         string    `json:"aiInsights"`
	ConfidenceScore    float64   `json:"confidenceScore"`
	Source             string    `json:"source"`
	CreatedAt          time.Time `json:"createdAt"`
}

func toResponse(r model.Recommendation) recommendationResponse {
	r = r.Clone()
	return recommendationResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		RecommendedRoles:   r.RecommendedRoles,
		MissingSkills:      r.MissingSkills,
		RecommendedCourses: r.RecommendedCourses,
		ProjectIdeas:       r.ProjectIdeas,
		AIInsights:         r.AIInsights,
		ConfidenceScore:    r.ConfidenceScore,
		Source:             string(r.Source),
		CreatedAt:          r.CreatedAt,
	}
}

type userPath struct {
	UserID uint64 `validate:"required,gt=0"`
}

// RecommendationHandler handles the recommendation endpoints.
type RecommendationHandler struct {
	deps     Dependencies
	logger   logger.Logger
	validate *validator.Validate
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps Dependencies, l logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		deps:     deps,
		logger:   l,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HandleGenerate handles POST /api/career/recommendations/{userId}.
func (h *RecommendationHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	rec, err := h.deps.Generate(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

// HandleLatest handles GET /api/career/recommendations/{userId}/latest.
func (h *RecommendationHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	rec, err := h.deps.Latest(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

// HandleHistory handles GET /api/career/recommendations/{userId}/all.
func (h *RecommendationHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	recs, err := h.deps.History(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RecommendationHandler) userID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "userId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err == nil {
		err = h.validate.Struct(userPath{UserID: id})
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("%s: %q", ErrInvalidUserID, raw))
		return 0, false
	}
	return id, true
}

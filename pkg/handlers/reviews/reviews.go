package reviews

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/respond"
	"github.com/chris/freelance-credit-ledger/pkg/mapping"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	reviewssvc "github.com/chris/freelance-credit-ledger/pkg/reviews"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Service is what the review handlers need.
type Service interface {
	SubmitReview(ctx context.Context, reviewerID, freelancerID string, rating int, comment string) (*models.Review, error)
	SubmitProjectReview(ctx context.Context, projectID, reviewerID string, rating int, comment string) (*models.Review, error)
	EditReview(ctx context.Context, reviewID, editorID string, rating int, comment string) (*models.Review, error)
	ListReviews(ctx context.Context, freelancerID string) ([]models.Review, error)
	AverageRating(ctx context.Context, freelancerID string) (*reviewssvc.Summary, error)
}

// ReviewsHandler holds the dependencies for review handlers.
type ReviewsHandler struct {
	Service Service
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewReviewsHandler creates a new ReviewsHandler.
func NewReviewsHandler(svc Service, m *metrics.Metrics, logger *slog.Logger) *ReviewsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewsHandler{Service: svc, Metrics: m, Logger: logger}
}

// ListFreelancerReviews returns a freelancer's reviews with their average.
func (h *ReviewsHandler) ListFreelancerReviews(w http.ResponseWriter, r *http.Request, freelancerId openapi_types.UUID) {
	list, err := h.Service.ListReviews(r.Context(), freelancerId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	summary, err := h.Service.AverageRating(r.Context(), freelancerId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	out := api.ReviewList{Reviews: make([]api.Review, len(list)), Count: summary.Count, Average: summary.Average}
	for i := range list {
		out.Reviews[i] = *mapping.ToApiReview(&list[i])
	}
	respond.JSON(w, http.StatusOK, out)
}

// SubmitReview stores a review of a freelancer.
func (h *ReviewsHandler) SubmitReview(w http.ResponseWriter, r *http.Request, freelancerId openapi_types.UUID) {
	var in api.NewReview
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	start := time.Now()
	review, err := h.Service.SubmitReview(r.Context(), in.ReviewerId, freelancerId.String(), in.Rating, comment(in.Comment))
	h.Metrics.ObserveOperation("submit_review", start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiReview(review))
}

// SubmitProjectReview stores the client's review of a completed project.
func (h *ReviewsHandler) SubmitProjectReview(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID) {
	var in api.NewReview
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	start := time.Now()
	review, err := h.Service.SubmitProjectReview(r.Context(), projectId.String(), in.ReviewerId, in.Rating, comment(in.Comment))
	h.Metrics.ObserveOperation("submit_review", start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiReview(review))
}

// EditReview changes the rating and comment of a review.
func (h *ReviewsHandler) EditReview(w http.ResponseWriter, r *http.Request, reviewId openapi_types.UUID) {
	var in api.ReviewEdit
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	review, err := h.Service.EditReview(r.Context(), reviewId.String(), in.EditorId, in.Rating, comment(in.Comment))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiReview(review))
}

func comment(c *string) string {
	if c == nil {
		return ""
	}
	return *c
}

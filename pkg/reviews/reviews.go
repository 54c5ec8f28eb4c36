// Package reviews records ratings of freelancers by clients and other
// freelancers.
package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/events"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
	"github.com/google/uuid"
)

const maxCommentLength = 2000

type Repository interface {
	storage.Reader
	storage.ReviewReader
	storage.Transactor
}

// Summary aggregates a freelancer's ratings.
type Summary struct {
	FreelancerID string  `json:"freelancer_id"`
	Count        int     `json:"count"`
	Average      float64 `json:"average"`
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func New(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitReview stores a review of freelancerID and links it from the
// freelancer's reviews. It has no effect on balances.
func (s *Service) SubmitReview(ctx context.Context, reviewerID, freelancerID string, rating int, comment string) (*models.Review, error) {
	return s.submit(ctx, "", reviewerID, freelancerID, rating, comment)
}

// SubmitProjectReview lets the client of a Completed project review the
// freelancer who delivered it. The review is linked from the project too.
func (s *Service) SubmitProjectReview(ctx context.Context, projectID, reviewerID string, rating int, comment string) (*models.Review, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ClientID != reviewerID {
		return nil, apperr.Validation("only the client of project %s may review it", projectID)
	}
	if project.Status != models.ProjectCompleted {
		return nil, &apperr.StateError{Entity: "project", ID: projectID, Current: string(project.Status), Op: "review",
			Allowed: []string{string(models.ProjectCompleted)}}
	}
	return s.submit(ctx, projectID, reviewerID, project.FreelancerID, rating, comment)
}

func (s *Service) submit(ctx context.Context, projectID, reviewerID, freelancerID string, rating int, comment string) (*models.Review, error) {
	if err := validate(rating, comment); err != nil {
		return nil, err
	}
	if reviewerID == freelancerID {
		return nil, apperr.Validation("freelancers cannot review themselves")
	}

	now := s.now()
	review := &models.Review{
		ID:           uuid.NewString(),
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
		ReviewerID:   reviewerID,
		FreelancerID: freelancerID,
		ProjectID:    projectID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	keys := []string{reviewerID, freelancerID}
	if projectID != "" {
		keys = append(keys, projectID)
	}
	err := s.repo.Transaction(ctx, keys, func(ctx context.Context, tx storage.Tx) error {
		reviewer, err := tx.GetAccount(ctx, reviewerID)
		if err != nil {
			return err
		}
		freelancer, err := tx.GetAccount(ctx, freelancerID)
		if err != nil {
			return err
		}
		if !freelancer.IsFreelancer() {
			return apperr.Validation("account %s is not a freelancer", freelancerID)
		}

		review.ReviewerKind = reviewer.Kind
		if err := tx.SaveReview(ctx, review); err != nil {
			return err
		}
		if err := tx.AppendToCollection(ctx, storage.EntityAccount, freelancerID, models.FieldReviews, review.ID); err != nil {
			return err
		}
		if projectID == "" {
			return nil
		}
		return tx.AppendToCollection(ctx, storage.EntityProject, projectID, models.FieldReviews, review.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit review of freelancer %s: %w", freelancerID, err)
	}

	events.Notify(ctx, s.logger, s.publisher,
		events.New(events.ReviewSubmitted, review.ID, now).
			WithAccount(freelancerID, 0).
			WithStatus(fmt.Sprintf("%d", rating)))
	s.logger.InfoContext(ctx, "review submitted", "review_id", review.ID, "freelancer_id", freelancerID, "rating", rating)
	return review, nil
}

// EditReview changes the rating and comment of a review. Only its author may
// edit it.
func (s *Service) EditReview(ctx context.Context, reviewID, editorID string, rating int, comment string) (*models.Review, error) {
	if err := validate(rating, comment); err != nil {
		return nil, err
	}

	var edited *models.Review
	err := s.repo.Transaction(ctx, []string{reviewID}, func(ctx context.Context, tx storage.Tx) error {
		review, err := tx.GetReview(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.ReviewerID != editorID {
			return apperr.Validation("review %s can only be edited by its author", reviewID)
		}
		review.Rating = rating
		review.Comment = strings.TrimSpace(comment)
		review.UpdatedAt = s.now()
		edited = review
		return tx.SaveReview(ctx, review)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit review %s: %w", reviewID, err)
	}
	return edited, nil
}

// ListReviews returns the reviews of a freelancer, oldest first.
func (s *Service) ListReviews(ctx context.Context, freelancerID string) ([]models.Review, error) {
	if _, err := s.repo.GetAccount(ctx, freelancerID); err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListReviewsByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for freelancer %s: %w", freelancerID, err)
	}
	return reviews, nil
}

// AverageRating summarises a freelancer's reviews. A freelancer without
// reviews averages 0.
func (s *Service) AverageRating(ctx context.Context, freelancerID string) (*Summary, error) {
	reviews, err := s.ListReviews(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	summary := &Summary{FreelancerID: freelancerID, Count: len(reviews)}
	if len(reviews) == 0 {
		return summary, nil
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	summary.Average = float64(total) / float64(len(reviews))
	return summary, nil
}

func validate(rating int, comment string) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return apperr.Validation("rating must be between %d and %d, got %d", models.MinRating, models.MaxRating, rating)
	}
	if len(comment) > maxCommentLength {
		return apperr.Validation("comment exceeds %d characters", maxCommentLength)
	}
	return nil
}

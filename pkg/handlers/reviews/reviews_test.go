package reviews_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/reviews"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/reviews/mocks"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	reviewssvc "github.com/chris/freelance-credit-ledger/pkg/reviews"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListFreelancerReviews(t *testing.T) {
	freelancerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		list := []models.Review{
			{ID: uuid.NewString(), Rating: 5, ReviewerID: "c1", ReviewerKind: models.KindClient, FreelancerID: freelancerID.String(), ProjectID: "p1", CreatedAt: time.Now()},
			{ID: uuid.NewString(), Rating: 4, ReviewerID: "c2", ReviewerKind: models.KindClient, FreelancerID: freelancerID.String(), CreatedAt: time.Now()},
		}
		mockService.On("ListReviews", mock.Anything, freelancerID.String()).Return(list, nil)
		mockService.On("AverageRating", mock.Anything, freelancerID.String()).
			Return(&reviewssvc.Summary{FreelancerID: freelancerID.String(), Count: 2, Average: 4.5}, nil)

		h := reviews.NewReviewsHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/freelancers/"+freelancerID.String()+"/reviews", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListFreelancerReviews(rr, req, freelancerID)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var returned api.ReviewList
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Len(t, returned.Reviews, 2)
		assert.Equal(t, 2, returned.Count)
		assert.Equal(t, 4.5, returned.Average)
		assert.Equal(t, "p1", *returned.Reviews[0].ProjectId)
		assert.Nil(t, returned.Reviews[1].ProjectId)
	})

	t.Run("Unknown Freelancer", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("ListReviews", mock.Anything, freelancerID.String()).
			Return(nil, apperr.NotFound("account", freelancerID.String()))

		h := reviews.NewReviewsHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/freelancers/"+freelancerID.String()+"/reviews", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListFreelancerReviews(rr, req, freelancerID)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertNotCalled(t, "AverageRating", mock.Anything, mock.Anything)
	})
}

func TestSubmitReview(t *testing.T) {
	freelancerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		created := &models.Review{
			ID: uuid.NewString(), Rating: 4, Comment: "solid work", ReviewerID: "c1",
			ReviewerKind: models.KindClient, FreelancerID: freelancerID.String(), Version: 1,
		}
		mockService.On("SubmitReview", mock.Anything, "c1", freelancerID.String(), 4, "solid work").Return(created, nil)

		h := reviews.NewReviewsHandler(mockService, nil, nil)

		body := `{"reviewer_id":"c1","rating":4,"comment":"solid work"}`
		req := httptest.NewRequest(http.MethodPost, "/freelancers/"+freelancerID.String()+"/reviews", strings.NewReader(body))
		rr := httptest.NewRecorder()

		// Act
		h.SubmitReview(rr, req, freelancerID)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var returned api.Review
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, created.ID, returned.Id)
		assert.Equal(t, api.AccountKindClient, returned.ReviewerKind)
	})

	t.Run("Rating Out Of Range", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("SubmitReview", mock.Anything, "c1", freelancerID.String(), 6, "").
			Return(nil, apperr.Validation("rating must be between 1 and 5, got %d", 6))

		h := reviews.NewReviewsHandler(mockService, nil, nil)

		body := `{"reviewer_id":"c1","rating":6}`
		req := httptest.NewRequest(http.MethodPost, "/freelancers/"+freelancerID.String()+"/reviews", strings.NewReader(body))
		rr := httptest.NewRecorder()

		// Act
		h.SubmitReview(rr, req, freelancerID)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var returned api.Error
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, "validation_error", returned.Kind)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		h := reviews.NewReviewsHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/freelancers/"+freelancerID.String()+"/reviews", strings.NewReader(`{"rating":"five"}`))
		rr := httptest.NewRecorder()

		// Act
		h.SubmitReview(rr, req, freelancerID)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSubmitProjectReview(t *testing.T) {
	projectID := uuid.New()

	t.Run("Project Not Completed", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("SubmitProjectReview", mock.Anything, projectID.String(), "c1", 5, "").
			Return(nil, &apperr.StateError{Entity: "project", ID: projectID.String(), Current: "Open", Op: "review"})

		h := reviews.NewReviewsHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/reviews", strings.NewReader(`{"reviewer_id":"c1","rating":5}`))
		rr := httptest.NewRecorder()

		// Act
		h.SubmitProjectReview(rr, req, projectID)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestEditReview(t *testing.T) {
	reviewID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		edited := &models.Review{ID: reviewID.String(), Rating: 3, Comment: "late", ReviewerID: "c1", ReviewerKind: models.KindClient, FreelancerID: "f1", Version: 2}
		mockService.On("EditReview", mock.Anything, reviewID.String(), "c1", 3, "late").Return(edited, nil)

		h := reviews.NewReviewsHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPut, "/reviews/"+reviewID.String(), strings.NewReader(`{"editor_id":"c1","rating":3,"comment":"late"}`))
		rr := httptest.NewRecorder()

		// Act
		h.EditReview(rr, req, reviewID)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var returned api.Review
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, 3, returned.Rating)
		assert.Equal(t, int64(2), returned.Version)
	})

	t.Run("Someone Else's Review", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("EditReview", mock.Anything, reviewID.String(), "c2", 1, "").
			Return(nil, apperr.Validation("only the original reviewer may edit review %s", reviewID))

		h := reviews.NewReviewsHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPut, "/reviews/"+reviewID.String(), strings.NewReader(`{"editor_id":"c2","rating":1}`))
		rr := httptest.NewRecorder()

		// Act
		h.EditReview(rr, req, reviewID)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

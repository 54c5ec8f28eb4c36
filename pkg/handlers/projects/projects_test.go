package projects_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/commands"
	"github.com/chris/freelance-credit-ledger/pkg/commands/mocks"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/projects"
	"github.com/chris/freelance-credit-ledger/pkg/lifecycle"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
	"github.com/chris/freelance-credit-ledger/pkg/storage/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newHandler(sender commands.Sender) *projects.ProjectsHandler {
	repo := memory.New(time.Second, storage.RetryPolicy{MaxAttempts: 3, MaxBackoff: time.Millisecond})
	return projects.NewProjectsHandler(lifecycle.NewEngine(repo, nil, nil, 0), sender, nil, nil)
}

func TestAssignFreelancer(t *testing.T) {
	async := true
	projectID := uuid.New()

	t.Run("Missing Freelancer", func(t *testing.T) {
		// Arrange
		sender := mocks.NewSender(t)
		h := newHandler(sender)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()

		// Act
		h.AssignFreelancer(rr, req, projectID, api.LifecycleParams{Async: &async})

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Queued", func(t *testing.T) {
		// Arrange
		sender := mocks.NewSender(t)
		sender.On("Send", mock.Anything, mock.MatchedBy(func(cmd commands.Command) bool {
			return cmd.Action == commands.ActionAssignFreelancer && cmd.ProjectID == projectID.String() && cmd.FreelancerID == "f1"
		})).Return(nil)
		h := newHandler(sender)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"freelancer_id":"f1"}`))
		rr := httptest.NewRecorder()

		// Act
		h.AssignFreelancer(rr, req, projectID, api.LifecycleParams{Async: &async})

		// Assert
		assert.Equal(t, http.StatusAccepted, rr.Code)
	})

	t.Run("Queue Failure", func(t *testing.T) {
		// Arrange
		sender := mocks.NewSender(t)
		sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))
		h := newHandler(sender)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"freelancer_id":"f1"}`))
		rr := httptest.NewRecorder()

		// Act
		h.AssignFreelancer(rr, req, projectID, api.LifecycleParams{Async: &async})

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Unknown Project", func(t *testing.T) {
		// Arrange
		h := newHandler(nil)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"freelancer_id":"f1"}`))
		rr := httptest.NewRecorder()

		// Act
		h.AssignFreelancer(rr, req, projectID, api.LifecycleParams{})

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPostProject(t *testing.T) {
	t.Run("Missing Client", func(t *testing.T) {
		h := newHandler(nil)

		req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"x","budget":10}`))
		rr := httptest.NewRecorder()

		h.PostProject(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Unknown Client", func(t *testing.T) {
		h := newHandler(nil)

		req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"client_id":"nobody","title":"x","budget":10}`))
		rr := httptest.NewRecorder()

		h.PostProject(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
	"github.com/chris/freelance-credit-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *memory.Store, accounts ...*models.Account) {
	t.Helper()
	for _, a := range accounts {
		err := repo.Transaction(context.Background(), []string{a.ID}, func(ctx context.Context, tx storage.Tx) error {
			return tx.SaveAccount(ctx, a)
		})
		require.NoError(t, err)
	}
}

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	repo := memory.New(time.Second, storage.DefaultRetryPolicy())
	seed(t, repo,
		&models.Account{ID: "client", Kind: models.KindClient, Client: &models.ClientProfile{}},
		&models.Account{ID: "dev", Kind: models.KindFreelancer, Freelancer: &models.FreelancerProfile{}},
		&models.Account{ID: "peer", Kind: models.KindFreelancer, Freelancer: &models.FreelancerProfile{}},
	)
	return New(repo, nil, nil), repo
}

func TestSubmitReview(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)

		review, err := svc.SubmitReview(ctx, "client", "dev", 5, " great work ")

		require.NoError(t, err)
		assert.Equal(t, 5, review.Rating)
		assert.Equal(t, "great work", review.Comment)
		assert.Equal(t, models.KindClient, review.ReviewerKind)
		assert.Equal(t, int64(1), review.Version)

		dev, err := repo.GetAccount(ctx, "dev")
		require.NoError(t, err)
		assert.Equal(t, []string{review.ID}, dev.Reviews)
		assert.Equal(t, int64(0), dev.Credits)
	})

	t.Run("Freelancers can review each other", func(t *testing.T) {
		svc, _ := newService(t)

		review, err := svc.SubmitReview(ctx, "peer", "dev", 4, "")

		require.NoError(t, err)
		assert.Equal(t, models.KindFreelancer, review.ReviewerKind)
	})

	t.Run("Rating out of range persists nothing", func(t *testing.T) {
		svc, repo := newService(t)

		for _, rating := range []int{0, 6, -1} {
			_, err := svc.SubmitReview(ctx, "client", "dev", rating, "meh")
			assert.ErrorIs(t, err, apperr.ErrValidation)
		}

		dev, err := repo.GetAccount(ctx, "dev")
		require.NoError(t, err)
		assert.Empty(t, dev.Reviews)
		stored, err := repo.ListReviewsByFreelancer(ctx, "dev")
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("Self review", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.SubmitReview(ctx, "dev", "dev", 5, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Only freelancers are reviewed", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.SubmitReview(ctx, "dev", "client", 3, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.SubmitReview(ctx, "ghost", "dev", 3, "")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestSubmitProjectReview(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	project := &models.Project{ID: "p1", ClientID: "client", FreelancerID: "dev", Title: "Site", Budget: 10, Status: models.ProjectInProgress}
	err := repo.Transaction(ctx, []string{project.ID}, func(ctx context.Context, tx storage.Tx) error {
		return tx.SaveProject(ctx, project)
	})
	require.NoError(t, err)

	t.Run("Project must be completed", func(t *testing.T) {
		_, err := svc.SubmitProjectReview(ctx, "p1", "client", 5, "")
		assert.ErrorIs(t, err, apperr.ErrInvalidState)
	})

	err = repo.Transaction(ctx, []string{project.ID}, func(ctx context.Context, tx storage.Tx) error {
		p, err := tx.GetProject(ctx, "p1")
		if err != nil {
			return err
		}
		p.Status = models.ProjectCompleted
		return tx.SaveProject(ctx, p)
	})
	require.NoError(t, err)

	t.Run("Only the client reviews the project", func(t *testing.T) {
		_, err := svc.SubmitProjectReview(ctx, "p1", "peer", 5, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		review, err := svc.SubmitProjectReview(ctx, "p1", "client", 4, "on time")
		require.NoError(t, err)
		assert.Equal(t, "dev", review.FreelancerID)
		assert.Equal(t, "p1", review.ProjectID)

		stored, err := repo.GetProject(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, []string{review.ID}, stored.Reviews)
	})
}

func TestEditReview(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	review, err := svc.SubmitReview(ctx, "client", "dev", 2, "late")
	require.NoError(t, err)

	t.Run("Author edits", func(t *testing.T) {
		edited, err := svc.EditReview(ctx, review.ID, "client", 4, "late but good")
		require.NoError(t, err)
		assert.Equal(t, 4, edited.Rating)
		assert.Equal(t, int64(2), edited.Version)
	})

	t.Run("Someone else edits", func(t *testing.T) {
		_, err := svc.EditReview(ctx, review.ID, "peer", 1, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Invalid rating", func(t *testing.T) {
		_, err := svc.EditReview(ctx, review.ID, "client", 9, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := svc.EditReview(ctx, "missing", "client", 3, "")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestAverageRating(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	summary, err := svc.AverageRating(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.Zero(t, summary.Average)

	_, err = svc.SubmitReview(ctx, "client", "dev", 5, "")
	require.NoError(t, err)
	_, err = svc.SubmitReview(ctx, "peer", "dev", 2, "")
	require.NoError(t, err)

	summary, err = svc.AverageRating(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 3.5, summary.Average, 0.001)

	_, err = svc.AverageRating(ctx, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

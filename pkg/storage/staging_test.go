package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	accounts map[string]models.Account
	projects map[string]models.Project
	reads    int
}

func (f *fakeReader) GetAccount(_ context.Context, id string) (*models.Account, error) {
	f.reads++
	a, ok := f.accounts[id]
	if !ok {
		return nil, apperr.NotFound("account", id)
	}
	return a.Clone(), nil
}

func (f *fakeReader) GetProject(_ context.Context, id string) (*models.Project, error) {
	f.reads++
	p, ok := f.projects[id]
	if !ok {
		return nil, apperr.NotFound("project", id)
	}
	return p.Clone(), nil
}

func (f *fakeReader) GetAgreement(_ context.Context, id string) (*models.Agreement, error) {
	return nil, apperr.NotFound("agreement", id)
}

func (f *fakeReader) GetReview(_ context.Context, id string) (*models.Review, error) {
	return nil, apperr.NotFound("review", id)
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		accounts: map[string]models.Account{
			"acc-1": {ID: "acc-1", Kind: models.KindClient, Credits: 10, Version: 3},
		},
		projects: map[string]models.Project{
			"proj-1": {ID: "proj-1", ClientID: "acc-1", Status: models.ProjectOpen, Version: 1},
		},
	}
}

func TestStaging(t *testing.T) {
	ctx := context.Background()

	t.Run("Reads return the same working copy", func(t *testing.T) {
		base := newFakeReader()
		st := NewStaging(base)

		first, err := st.GetAccount(ctx, "acc-1")
		require.NoError(t, err)
		first.Credits = 99

		second, err := st.GetAccount(ctx, "acc-1")
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, int64(99), second.Credits)
		assert.Equal(t, 1, base.reads)
		assert.Equal(t, int64(10), base.accounts["acc-1"].Credits)
	})

	t.Run("Unsaved reads are not in the changeset", func(t *testing.T) {
		st := NewStaging(newFakeReader())
		_, err := st.GetProject(ctx, "proj-1")
		require.NoError(t, err)

		assert.Equal(t, 0, st.Changeset().Len())
	})

	t.Run("Saving twice stages one write", func(t *testing.T) {
		st := NewStaging(newFakeReader())
		acc, err := st.GetAccount(ctx, "acc-1")
		require.NoError(t, err)

		require.NoError(t, st.SaveAccount(ctx, acc))
		require.NoError(t, st.SaveAccount(ctx, acc))

		cs := st.Changeset()
		require.Len(t, cs.Accounts, 1)
		assert.Equal(t, int64(3), cs.Accounts[0].Version)
	})

	t.Run("Append to collection deduplicates", func(t *testing.T) {
		st := NewStaging(newFakeReader())

		require.NoError(t, st.AppendToCollection(ctx, EntityAccount, "acc-1", models.FieldProjects, "proj-1"))
		require.NoError(t, st.AppendToCollection(ctx, EntityAccount, "acc-1", models.FieldProjects, "proj-1"))

		acc, err := st.GetAccount(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"proj-1"}, acc.Projects)
		assert.Len(t, st.Changeset().Accounts, 1)
	})

	t.Run("Append to unknown field is a validation error", func(t *testing.T) {
		st := NewStaging(newFakeReader())

		err := st.AppendToCollection(ctx, EntityAccount, "acc-1", "friends", "x")
		assert.ErrorIs(t, err, apperr.ErrValidation)

		err = st.AppendToCollection(ctx, EntityAgreement, "agr-1", models.FieldReviews, "x")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Append to missing entity is not found", func(t *testing.T) {
		st := NewStaging(newFakeReader())

		err := st.AppendToCollection(ctx, EntityProject, "nope", models.FieldReviews, "rev-1")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	policy := RetryPolicy{MaxAttempts: 3, MaxBackoff: 1}

	t.Run("Commits and bumps versions", func(t *testing.T) {
		var committed *Changeset
		var acc *models.Account

		err := Run(ctx, newFakeReader(), policy, func(ctx context.Context, tx Tx) error {
			var err error
			acc, err = tx.GetAccount(ctx, "acc-1")
			if err != nil {
				return err
			}
			acc.Credits += 5
			if err := tx.SaveAccount(ctx, acc); err != nil {
				return err
			}
			return tx.AppendTransaction(ctx, &models.Transaction{ID: "t1", AccountID: "acc-1", Amount: 5})
		}, func(_ context.Context, cs *Changeset) error {
			committed = cs
			assert.Equal(t, int64(3), cs.Accounts[0].Version)
			return nil
		})

		require.NoError(t, err)
		require.NotNil(t, committed)
		assert.Len(t, committed.Transactions, 1)
		assert.Equal(t, int64(4), acc.Version)
	})

	t.Run("Empty changeset skips commit", func(t *testing.T) {
		err := Run(ctx, newFakeReader(), policy, func(context.Context, Tx) error { return nil },
			func(context.Context, *Changeset) error {
				t.Fatal("commit should not be called")
				return nil
			})
		assert.NoError(t, err)
	})

	t.Run("Function error aborts without commit", func(t *testing.T) {
		boom := errors.New("boom")
		err := Run(ctx, newFakeReader(), policy, func(ctx context.Context, tx Tx) error {
			_ = tx.SaveAccount(ctx, &models.Account{ID: "new"})
			return boom
		}, func(context.Context, *Changeset) error {
			t.Fatal("commit should not be called")
			return nil
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Conflict re-runs on a fresh scope", func(t *testing.T) {
		runs := 0
		err := Run(ctx, newFakeReader(), policy, func(ctx context.Context, tx Tx) error {
			runs++
			acc, err := tx.GetAccount(ctx, "acc-1")
			if err != nil {
				return err
			}
			assert.Equal(t, int64(10), acc.Credits)
			acc.Credits++
			return tx.SaveAccount(ctx, acc)
		}, func(context.Context, *Changeset) error {
			if runs < 2 {
				return ErrConflict
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, runs)
	})
}

package lifecycle

import (
	"errors"
	"testing"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.ProjectStatus
		want     bool
	}{
		{models.ProjectOpen, models.ProjectInProgress, true},
		{models.ProjectOpen, models.ProjectCancelled, true},
		{models.ProjectInProgress, models.ProjectCompleted, true},
		{models.ProjectInProgress, models.ProjectCancelled, true},
		{models.ProjectOpen, models.ProjectCompleted, false},
		{models.ProjectInProgress, models.ProjectOpen, false},
		{models.ProjectCompleted, models.ProjectCancelled, false},
		{models.ProjectCancelled, models.ProjectOpen, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+" to "+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestCheckTransition(t *testing.T) {
	p := &models.Project{ID: "p1", Status: models.ProjectCompleted}

	err := checkTransition(p, models.ProjectCancelled, "cancel")

	var stateErr *apperr.StateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, "Completed", stateErr.Current)
	assert.Equal(t, []string{"Open", "In Progress"}, stateErr.Allowed)
	assert.NoError(t, checkTransition(&models.Project{Status: models.ProjectOpen}, models.ProjectCancelled, "cancel"))
}

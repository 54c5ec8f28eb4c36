package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"Nil", nil, KindOK},
		{"Not Found", NotFound("project", "p1"), KindNotFound},
		{"State Error", &StateError{Entity: "project", ID: "p1", Current: "Open", Op: "complete"}, KindInvalidState},
		{"Funds Error", &FundsError{AccountID: "a1", Balance: 5, Requested: 10}, KindInsufficientFunds},
		{"Validation", Validation("rating %d out of range", 6), KindValidation},
		{"Wrapped Contention", fmt.Errorf("failed to assign: %w", ErrContention), KindContention},
		{"Persistence", Persistence("failed to get item", errors.New("boom")), KindPersistence},
		{"Unknown", errors.New("boom"), KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Kind(tc.err))
		})
	}
}

func TestStateErrorMessage(t *testing.T) {
	err := &StateError{Entity: "project", ID: "p1", Current: "Open", Op: "complete", Allowed: []string{"In Progress"}}

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), `in state "Open"`)
	assert.Contains(t, err.Error(), "allowed from: In Progress")
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(fmt.Errorf("scope: %w", ErrContention)))
	assert.False(t, Retryable(&StateError{}))
	assert.False(t, Retryable(&FundsError{}))
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("throttled")
	err := Persistence("failed to query", cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
}

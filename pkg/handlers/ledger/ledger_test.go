package ledger_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/ledger"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/ledger/mocks"
	creditledger "github.com/chris/freelance-credit-ledger/pkg/ledger"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListAccountTransactions(t *testing.T) {
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		expected := []models.Transaction{
			{ID: uuid.NewString(), AccountID: accountID.String(), Amount: 100, Reason: models.ReasonOpeningBalance, Timestamp: time.Now()},
			{ID: uuid.NewString(), AccountID: accountID.String(), Amount: -40, Reason: models.ReasonEscrow, ProjectID: "p1", Timestamp: time.Now()},
		}
		mockService.On("History", mock.Anything, accountID.String()).Return(expected, nil)

		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/transactions", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListAccountTransactions(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var returned []api.Transaction
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Len(t, returned, 2)
		assert.Equal(t, expected[0].ID, returned[0].Id)
		assert.Nil(t, returned[0].ProjectId)
		assert.Equal(t, "p1", *returned[1].ProjectId)
	})

	t.Run("Unknown Account", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("History", mock.Anything, accountID.String()).Return(nil, apperr.NotFound("account", accountID.String()))

		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/transactions", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListAccountTransactions(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Storage Error", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("History", mock.Anything, mock.Anything).Return(nil, apperr.Persistence("failed to query", errors.New("throttled")))

		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/transactions", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListAccountTransactions(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "throttled")
	})
}

func TestDebitAccount(t *testing.T) {
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		result := &creditledger.Result{
			Transaction: models.Transaction{ID: uuid.NewString(), AccountID: accountID.String(), Amount: -25, Reason: models.ReasonDebit},
			Balance:     75,
		}
		mockService.On("Debit", mock.Anything, accountID.String(), int64(25), models.ReasonDebit).Return(result, nil)

		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":25}`))
		rr := httptest.NewRecorder()

		// Act
		h.DebitAccount(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var returned api.BalanceChange
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, int64(75), returned.Balance)
		assert.Equal(t, int64(-25), returned.Transaction.Amount)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("Debit", mock.Anything, accountID.String(), int64(500), models.ReasonDebit).
			Return(nil, &apperr.FundsError{AccountID: accountID.String(), Balance: 75, Requested: 500})

		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":500}`))
		rr := httptest.NewRecorder()

		// Act
		h.DebitAccount(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Contention", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, apperr.ErrContention)

		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":1}`))
		rr := httptest.NewRecorder()

		// Act
		h.DebitAccount(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	})

	t.Run("Foreign Reason", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":1,"reason":"project_payment"}`))
		rr := httptest.NewRecorder()

		// Act
		h.DebitAccount(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEarnReferralCredit(t *testing.T) {
	accountID := uuid.New()
	result := &creditledger.Result{
		Transaction: models.Transaction{AccountID: accountID.String(), Amount: 10, Reason: models.ReasonReferral},
		Balance:     10,
	}

	t.Run("Without Event", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("EarnReferralCredit", mock.Anything, accountID.String()).Return(result, nil)

		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rr := httptest.NewRecorder()

		// Act
		h.EarnReferralCredit(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("With Event", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewService(t)
		mockService.On("EarnReferralCreditOnce", mock.Anything, accountID.String(), "evt-1").Return(result, nil)

		h := ledger.NewLedgerHandler(mockService, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"event_id":"evt-1"}`))
		rr := httptest.NewRecorder()

		// Act
		h.EarnReferralCredit(rr, req, accountID)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestReconcileAccount(t *testing.T) {
	// Arrange
	accountID := uuid.New()
	mockService := mocks.NewService(t)
	mockService.On("Verify", mock.Anything, accountID.String()).Return(&creditledger.Reconciliation{
		AccountID: accountID.String(), Balance: 90, LedgerSum: 100, Transactions: 3, Consistent: false,
	}, nil)

	h := ledger.NewLedgerHandler(mockService, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	// Act
	h.ReconcileAccount(rr, req, accountID)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)

	var returned api.Reconciliation
	json.Unmarshal(rr.Body.Bytes(), &returned)
	assert.False(t, returned.Consistent)
	assert.Equal(t, int64(100), returned.LedgerSum)
}

package models

import "time"

// Reason classifies a ledger transaction.
type Reason string

const (
	ReasonOpeningBalance Reason = "opening_balance"
	ReasonCredit         Reason = "credit"
	ReasonDebit          Reason = "debit"
	ReasonReferral       Reason = "referral"
	ReasonPostingFee     Reason = "posting_fee"
	ReasonEscrow         Reason = "escrow"
	ReasonProjectPayment Reason = "project_payment"
	ReasonEscrowRefund   Reason = "escrow_refund"
)

// Transaction is an immutable ledger entry. Amount is signed: credits are
// positive, debits negative. An account's balance always equals the sum of
// its transaction amounts.
type Transaction struct {
	ID        string    `json:"id" dynamodbav:"id"`
	AccountID string    `json:"account_id" dynamodbav:"account_id"`
	Amount    int64     `json:"amount" dynamodbav:"amount"`
	Reason    Reason    `json:"reason" dynamodbav:"reason"`
	ProjectID string    `json:"project_id,omitempty" dynamodbav:"project_id,omitempty"`
	Timestamp time.Time `json:"timestamp" dynamodbav:"timestamp"`
}

// Package dynamodb implements storage.Repository on Amazon DynamoDB. Every
// document carries a version attribute; transactions stage their writes and
// commit them with a single TransactWriteItems call guarded by version
// conditions.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
)

const (
	transactionsByAccountIndex = "account_id-timestamp-index"
	reviewsByFreelancerIndex   = "freelancer_id-index"
	accountsByKindEmailIndex   = "kind-email-index"

	// maxTransactItems is the DynamoDB limit for one TransactWriteItems call.
	maxTransactItems = 100
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables names the table behind each document type.
type Tables struct {
	Accounts     string
	Projects     string
	Agreements   string
	Reviews      string
	Transactions string
}

// Store implements the Repository interface using AWS DynamoDB.
type Store struct {
	Client DynamoDBAPI
	Tables Tables
	Retry  storage.RetryPolicy
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables, retry storage.RetryPolicy) *Store {
	return &Store{
		Client: client,
		Tables: tables,
		Retry:  retry,
	}
}

// Make sure we conform to the interface
var _ storage.Repository = (*Store)(nil)

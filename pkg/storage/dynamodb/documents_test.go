package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
	"github.com/chris/freelance-credit-ledger/pkg/storage/dynamodb/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTables = Tables{
	Accounts:     "accounts",
	Projects:     "projects",
	Agreements:   "agreements",
	Reviews:      "reviews",
	Transactions: "transactions",
}

func newTestStore(client DynamoDBAPI) *Store {
	return New(client, testTables, storage.RetryPolicy{MaxAttempts: 2, MaxBackoff: time.Millisecond})
}

func TestGetProject(t *testing.T) {
	projectID := uuid.New().String()
	project := &models.Project{ID: projectID, ClientID: "client-1", Title: "Logo", Budget: 100, Status: models.ProjectOpen, Version: 2}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		projectAV, _ := attributevalue.MarshalMap(project)
		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			key := in.Key["id"].(*types.AttributeValueMemberS)
			return *in.TableName == "projects" && key.Value == projectID
		})).Return(&dynamodb.GetItemOutput{Item: projectAV}, nil)

		result, err := store.GetProject(context.Background(), projectID)

		assert.NoError(t, err)
		assert.Equal(t, project, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		_, err := store.GetProject(context.Background(), projectID)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("get item failed"))

		_, err := store.GetProject(context.Background(), projectID)

		assert.ErrorIs(t, err, apperr.ErrPersistence)
		assert.Contains(t, err.Error(), "failed to get project from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestGetAccount(t *testing.T) {
	account := &models.Account{
		ID:         "acc-1",
		Kind:       models.KindFreelancer,
		Email:      "dev@example.com",
		Credits:    40,
		Freelancer: &models.FreelancerProfile{Skills: []string{"go"}, Earnings: 10},
		Version:    1,
	}

	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)

	accountAV, _ := attributevalue.MarshalMap(account)
	mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)

	result, err := store.GetAccount(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Equal(t, account, result)
	assert.True(t, result.IsFreelancer())
	mockClient.AssertExpectations(t)
}

func TestListTransactions(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC)
	// Stored out of chronological order the way a string sort key can return them.
	later := models.Transaction{ID: "t2", AccountID: "acc-1", Amount: -30, Reason: models.ReasonEscrow, Timestamp: base.Add(120 * time.Millisecond)}
	earlier := models.Transaction{ID: "t1", AccountID: "acc-1", Amount: 100, Reason: models.ReasonCredit, Timestamp: base.Add(100 * time.Millisecond)}

	t.Run("Success across pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		laterAV, _ := attributevalue.MarshalMap(later)
		earlierAV, _ := attributevalue.MarshalMap(earlier)
		lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "t2"}}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == transactionsByAccountIndex && in.ExclusiveStartKey == nil
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{laterAV}, LastEvaluatedKey: lastKey}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{earlierAV}}, nil).Once()

		txns, err := store.ListTransactions(context.Background(), "acc-1")

		require.NoError(t, err)
		assert.Equal(t, []models.Transaction{earlier, later}, txns)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		_, err := store.ListTransactions(context.Background(), "acc-1")

		assert.ErrorIs(t, err, apperr.ErrPersistence)
		assert.Contains(t, err.Error(), "failed to query for transactions")
		mockClient.AssertExpectations(t)
	})
}

func TestFindAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		account := &models.Account{ID: "acc-1", Kind: models.KindClient, Email: "boss@example.com", Client: &models.ClientProfile{CompanyName: "Acme"}, Version: 1}
		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			kind := in.ExpressionAttributeValues[":kind"].(*types.AttributeValueMemberS)
			return *in.IndexName == accountsByKindEmailIndex && kind.Value == "client"
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{accountAV}}, nil)

		result, err := store.FindAccount(context.Background(), models.KindClient, "boss@example.com")

		require.NoError(t, err)
		assert.Equal(t, account, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		_, err := store.FindAccount(context.Background(), models.KindFreelancer, "ghost@example.com")

		assert.ErrorIs(t, err, apperr.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListAccounts(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)

	a1, _ := attributevalue.MarshalMap(models.Account{ID: "a1", Kind: models.KindClient})
	a2, _ := attributevalue.MarshalMap(models.Account{ID: "a2", Kind: models.KindFreelancer})
	mockClient.On("Scan", mock.Anything, mock.Anything).
		Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{a1}, LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "a1"}}}, nil).Once()
	mockClient.On("Scan", mock.Anything, mock.Anything).
		Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{a2}}, nil).Once()

	accounts, err := store.ListAccounts(context.Background())

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a1", accounts[0].ID)
	assert.Equal(t, "a2", accounts[1].ID)
	mockClient.AssertExpectations(t)
}

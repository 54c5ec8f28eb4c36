package dynamodb

import (
	"context"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
)

// getItem loads the document with the given id from table into a new T.
func getItem[T any](ctx context.Context, s *Store, table, entity, id string) (*T, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, apperr.Persistence(fmt.Sprintf("failed to get %s from DynamoDB", entity), err)
	}
	if result.Item == nil {
		return nil, apperr.NotFound(entity, id)
	}

	var doc T
	if err := attributevalue.UnmarshalMap(result.Item, &doc); err != nil {
		return nil, apperr.Persistence(fmt.Sprintf("failed to unmarshal %s", entity), err)
	}
	return &doc, nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return getItem[models.Account](ctx, s, s.Tables.Accounts, "account", id)
}

func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return getItem[models.Project](ctx, s, s.Tables.Projects, "project", id)
}

func (s *Store) GetAgreement(ctx context.Context, id string) (*models.Agreement, error) {
	return getItem[models.Agreement](ctx, s, s.Tables.Agreements, "agreement", id)
}

func (s *Store) GetReview(ctx context.Context, id string) (*models.Review, error) {
	return getItem[models.Review](ctx, s, s.Tables.Reviews, "review", id)
}

// queryAll follows LastEvaluatedKey until the query is exhausted.
func queryAll[T any](ctx context.Context, s *Store, input *dynamodb.QueryInput, what string) ([]T, error) {
	var out []T
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, apperr.Persistence("failed to query for "+what, err)
		}

		var page []T
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, apperr.Persistence("failed to unmarshal "+what, err)
		}
		out = append(out, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return out, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// ListTransactions queries the account's transactions by the timestamp index.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transactions),
		IndexName:              aws.String(transactionsByAccountIndex),
		KeyConditionExpression: aws.String("account_id = :account_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":account_id": &types.AttributeValueMemberS{Value: accountID},
		},
		ScanIndexForward: aws.Bool(true),
	}

	txns, err := queryAll[models.Transaction](ctx, s, input, "transactions")
	if err != nil {
		return nil, err
	}
	// The index sorts timestamps as strings; RFC 3339 with trimmed fractions
	// does not always sort chronologically, so settle the order here.
	slices.SortStableFunc(txns, func(a, b models.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return txns, nil
}

func (s *Store) ListReviewsByFreelancer(ctx context.Context, freelancerID string) ([]models.Review, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Reviews),
		IndexName:              aws.String(reviewsByFreelancerIndex),
		KeyConditionExpression: aws.String("freelancer_id = :freelancer_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":freelancer_id": &types.AttributeValueMemberS{Value: freelancerID},
		},
	}

	reviews, err := queryAll[models.Review](ctx, s, input, "reviews")
	if err != nil {
		return nil, err
	}
	slices.SortFunc(reviews, func(a, b models.Review) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return reviews, nil
}

// FindAccount resolves an account through the kind/email index.
func (s *Store) FindAccount(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Accounts),
		IndexName:              aws.String(accountsByKindEmailIndex),
		KeyConditionExpression: aws.String("#kind = :kind AND email = :email"),
		ExpressionAttributeNames: map[string]string{
			"#kind": "kind",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kind":  &types.AttributeValueMemberS{Value: string(kind)},
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, apperr.Persistence("failed to query for account", err)
	}
	if len(result.Items) == 0 {
		return nil, apperr.NotFound(string(kind), email)
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(result.Items[0], &account); err != nil {
		return nil, apperr.Persistence("failed to unmarshal account", err)
	}
	return &account, nil
}

// ListAccounts scans the whole accounts table.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.Tables.Accounts),
	}

	var accounts []models.Account
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, apperr.Persistence("failed to scan accounts table", err)
		}

		var page []models.Account
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, apperr.Persistence("failed to unmarshal accounts", err)
		}
		accounts = append(accounts, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return accounts, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
)

// Transaction runs fn on a staging scope and commits the staged documents in
// one TransactWriteItems call. DynamoDB has no locks to take, so keys are not
// used; concurrent writers are detected by the version conditions and fn is
// re-run under the store's retry policy.
func (s *Store) Transaction(ctx context.Context, _ []string, fn storage.TxFunc) error {
	return storage.Run(ctx, s, s.Retry, fn, s.commit)
}

func (s *Store) commit(ctx context.Context, cs *storage.Changeset) error {
	if n := cs.Len(); n > maxTransactItems {
		return apperr.Persistence("failed to build transaction",
			fmt.Errorf("%d writes exceed the limit of %d", n, maxTransactItems))
	}

	items := make([]types.TransactWriteItem, 0, cs.Len())
	add := func(table string, doc any, version int64) error {
		item, err := versionedPut(table, doc, version)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	}

	for _, a := range cs.Accounts {
		if err := add(s.Tables.Accounts, a, a.Version); err != nil {
			return err
		}
	}
	for _, p := range cs.Projects {
		if err := add(s.Tables.Projects, p, p.Version); err != nil {
			return err
		}
	}
	for _, a := range cs.Agreements {
		if err := add(s.Tables.Agreements, a, a.Version); err != nil {
			return err
		}
	}
	for _, r := range cs.Reviews {
		if err := add(s.Tables.Reviews, r, r.Version); err != nil {
			return err
		}
	}
	for _, t := range cs.Transactions {
		// Ledger entries are immutable: they are only ever created.
		txnAV, err := attributevalue.MarshalMap(t)
		if err != nil {
			return apperr.Persistence("failed to marshal transaction", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.Tables.Transactions),
				Item:                txnAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		})
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if isConflict(err) {
			return fmt.Errorf("failed to execute transaction: %w", storage.ErrConflict)
		}
		return apperr.Persistence("failed to execute transaction", err)
	}
	return nil
}

// versionedPut builds a Put that stores doc at version+1, conditioned on the
// stored document still being at version (or absent when version is 0).
func versionedPut(table string, doc any, version int64) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return types.TransactWriteItem{}, apperr.Persistence("failed to marshal document", err)
	}
	item["version"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(version+1, 10)}

	put := &types.Put{
		TableName: aws.String(table),
		Item:      item,
	}
	if version == 0 {
		put.ConditionExpression = aws.String("attribute_not_exists(id)")
	} else {
		put.ConditionExpression = aws.String("version = :version")
		put.ExpressionAttributeValues = map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(version, 10)},
		}
	}
	return types.TransactWriteItem{Put: put}, nil
}

// isConflict reports whether a write failed because another writer got there
// first, as opposed to a service or validation failure.
func isConflict(err error) bool {
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "ConditionalCheckFailed", "TransactionConflict":
				return true
			}
		}
		return false
	}
	var inProgress *types.TransactionInProgressException
	var conflict *types.TransactionConflictException
	return errors.As(err, &inProgress) || errors.As(err, &conflict)
}

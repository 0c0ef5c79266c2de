package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hotel-event-indexer/internal/domain"
)

// ItemAPI is the subset of *dynamodb.Client used by EventIDRepo.
type ItemAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// EventIDRepo records processed SNS message ids.
// PK: eventId. Records are never updated or deleted.
type EventIDRepo struct {
	client ItemAPI
}

func NewEventIDRepo(client ItemAPI) *EventIDRepo {
	return &EventIDRepo{client: client}
}

// MarkIfAbsent stores a record for messageID in table unless one exists.
// The existence check and the insert are one conditional write, so two
// concurrent deliveries of the same message cannot both record it.
func (r *EventIDRepo) MarkIfAbsent(ctx context.Context, table, messageID string) (*domain.DedupResult, error) {
	if table == "" {
		return nil, domain.ErrTableNotDefined
	}
	item, err := attributevalue.MarshalMap(domain.EventRecord{EventID: messageID})
	if err != nil {
		return nil, fmt.Errorf("marshal event record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(table),
		Item:                item,
		ConditionExpression: aws.String(notExists(attrEventID)),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return &domain.DedupResult{MessageID: messageID, Recorded: false}, nil
		}
		return nil, fmt.Errorf("put event id %s: %w", messageID, err)
	}
	return &domain.DedupResult{MessageID: messageID, Recorded: true}, nil
}

// Seen reports whether a record for messageID exists in table.
func (r *EventIDRepo) Seen(ctx context.Context, table, messageID string) (bool, error) {
	if table == "" {
		return false, domain.ErrTableNotDefined
	}
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            strKey(attrEventID, messageID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("get event id %s: %w", messageID, err)
	}
	return out.Item != nil, nil
}

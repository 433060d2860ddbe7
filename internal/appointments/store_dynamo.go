package appointments

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// EmailIndex is the GSI keyed by email (hash) and createdAt (range).
const EmailIndex = "email-createdAt-index"

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore keeps appointments in a DynamoDB table keyed by id.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	now       func() time.Time
}

func NewDynamoStore(client dynamoAPI, tableName string) *DynamoStore {
	if client == nil {
		panic("appointments: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("appointments: table name cannot be empty")
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ Store = (*DynamoStore)(nil)

func (s *DynamoStore) Create(ctx context.Context, rec Record) (string, error) {
	ctx, span := storeTracer.Start(ctx, "appointments.dynamo.create")
	defer span.End()

	rec.ID = uuid.New().String()
	rec.CreatedAt = s.now()

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return "", fmt.Errorf("appointments: failed to marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("appointments: failed to persist record: %w", err)
	}
	return rec.ID, nil
}

func (s *DynamoStore) Get(ctx context.Context, id string) (Record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return Record{}, fmt.Errorf("appointments: failed to fetch record: %w", err)
	}
	if out.Item == nil {
		return Record{}, ErrNotFound
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return Record{}, fmt.Errorf("appointments: failed to decode record: %w", err)
	}
	return rec, nil
}

// ListRecent scans the table; it is an operator view over a small table.
func (s *DynamoStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	recs, err := decodeItems(items)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	if limit = ClampLimit(limit); len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *DynamoStore) ListByEmail(ctx context.Context, email string) ([]Record, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			IndexName:              aws.String(EmailIndex),
			KeyConditionExpression: aws.String("#email = :email"),
			ExpressionAttributeNames: map[string]string{
				"#email": "email",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":email": &types.AttributeValueMemberS{Value: email},
			},
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("appointments: query by email failed: %w", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return decodeItems(items)
}

func decodeItems(items []map[string]types.AttributeValue) ([]Record, error) {
	recs := make([]Record, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &recs); err != nil {
		return nil, fmt.Errorf("appointments: failed to decode records: %w", err)
	}
	return recs, nil
}

package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mamadbah2/vinstock/internal/repository"
)

// API is the subset of the DynamoDB client used by the store.
type API interface {
	GetItem(ctx context.Context, params *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
}

type slotItem struct {
	Slot      string    `dynamodbav:"slot"`
	Payload   string    `dynamodbav:"payload"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// Store keeps every slot as one item of a table keyed by "slot".
type Store struct {
	client    API
	tableName string
}

// NewClient builds a DynamoDB client from the default AWS credential chain.
func NewClient(ctx context.Context, region string) (*ddb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ddb.NewFromConfig(awsCfg), nil
}

// NewStore wraps a DynamoDB client.
func NewStore(client API, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// Get reads the blob stored under slot with a consistent read.
func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	result, err := s.client.GetItem(ctx, &ddb.GetItemInput{
		TableName:      aws.String(s.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"slot": &types.AttributeValueMemberS{Value: slot},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %s: %w", slot, err)
	}
	if result.Item == nil {
		return nil, repository.ErrSlotNotFound
	}

	var item slotItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot %s: %w", slot, err)
	}
	return []byte(item.Payload), nil
}

// Put replaces the item stored under slot.
func (s *Store) Put(ctx context.Context, slot string, payload []byte) error {
	av, err := attributevalue.MarshalMap(slotItem{Slot: slot, Payload: string(payload), UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal slot %s: %w", slot, err)
	}

	_, err = s.client.PutItem(ctx, &ddb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put slot %s: %w", slot, err)
	}
	return nil
}

package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore persists values in a single DynamoDB table using the
// platform's PK/SK item layout: PK = "FILTERS#<namespace>", SK = key.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
	namespace string
}

type dynamoItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Data      string `dynamodbav:"Data"`
	Timestamp string `dynamodbav:"Timestamp"`
}

// NewDynamoStore creates a DynamoDB-backed store. profile may be empty to
// use the default AWS credential chain.
func NewDynamoStore(ctx context.Context, tableName, region, profile, namespace string) (*DynamoStore, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &DynamoStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
		namespace: namespace,
	}, nil
}

func (s *DynamoStore) pk() string {
	return "FILTERS#" + s.namespace
}

func (s *DynamoStore) Get(ctx context.Context, key string) (string, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: s.pk()},
			"SK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return "", fmt.Errorf("getting %s from DynamoDB: %w", key, err)
	}
	if result.Item == nil {
		return "", ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return "", fmt.Errorf("unmarshaling %s: %w", key, err)
	}
	return item.Data, nil
}

func (s *DynamoStore) Set(ctx context.Context, key, value string) error {
	item := dynamoItem{
		PK:        s.pk(),
		SK:        key,
		Data:      value,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting %s to DynamoDB: %w", key, err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: s.pk()},
			"SK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting %s from DynamoDB: %w", key, err)
	}
	return nil
}

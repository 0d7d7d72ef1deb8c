package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Catalog tracks which snapshot object is current, using DynamoDB
// conditional writes for the atomic compare-and-swap that S3 lacks.
// Multiple writers can publish snapshot generations without losing
// commits.
//
// Table schema:
//   - Partition key: base_uri (string) - the S3 bucket/prefix
//   - Sort key: version (number) - monotonically increasing generation
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name ewah-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type Catalog struct {
	client  DDBClient
	table   string
	baseURI string
}

// DDBClient is the subset of the DynamoDB API the catalog needs.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentCommit is returned when another writer published the same
// generation first.
var ErrConcurrentCommit = errors.New("s3: concurrent snapshot commit detected")

// NewCatalog creates a commit catalog. baseURI should identify the store
// root ("s3://bucket/prefix") and is used as the partition key.
func NewCatalog(client DDBClient, tableName, baseURI string) *Catalog {
	return &Catalog{
		client:  client,
		table:   tableName,
		baseURI: baseURI,
	}
}

// Current returns the snapshot object name of the latest committed
// generation, and that generation number. A zero generation means nothing
// has been committed yet.
func (c *Catalog) Current(ctx context.Context) (string, uint64, error) {
	resp, err := c.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.table),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: c.baseURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return "", 0, fmt.Errorf("s3: query commit catalog: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", 0, nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return "", 0, errors.New("s3: commit item missing version")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("s3: bad version in commit item: %w", err)
	}
	nameAttr, ok := item["snapshot"].(*types.AttributeValueMemberS)
	if !ok {
		return "", 0, errors.New("s3: commit item missing snapshot name")
	}
	return nameAttr.Value, version, nil
}

// Commit publishes snapshotName as the next generation. The conditional
// write fails with ErrConcurrentCommit when another writer claimed the
// generation first; callers should re-read Current and retry.
func (c *Catalog) Commit(ctx context.Context, snapshotName string) (uint64, error) {
	_, latest, err := c.Current(ctx)
	if err != nil {
		return 0, err
	}
	next := latest + 1

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item: map[string]types.AttributeValue{
			"base_uri": &types.AttributeValueMemberS{Value: c.baseURI},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"snapshot": &types.AttributeValueMemberS{Value: snapshotName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return 0, ErrConcurrentCommit
		}
		return 0, fmt.Errorf("s3: commit snapshot: %w", err)
	}
	return next, nil
}

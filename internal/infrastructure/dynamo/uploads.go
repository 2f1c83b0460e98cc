package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/GioMjds/Printify-Mobile/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UploadRepo provides typed DynamoDB operations for the uploads table.
type UploadRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUploadRepo(client *dynamodb.Client, tableName string) *UploadRepo {
	return &UploadRepo{client: client, tableName: tableName}
}

func (r *UploadRepo) Put(ctx context.Context, u *domain.Upload) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal upload: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *UploadRepo) Get(ctx context.Context, uploadID string) (*domain.Upload, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("upload_id", uploadID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("upload not found: %w", domain.ErrNotFound)
	}
	var u domain.Upload
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListByCustomer returns a customer's uploads, newest first, via the
// customer_id-index GSI.
func (r *UploadRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Upload, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("customer_id-index"),
		KeyConditionExpression:    aws.String("#c = :v"),
		ExpressionAttributeNames:  map[string]string{"#c": "customer_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: customerID}},
	})
	if err != nil {
		return nil, err
	}
	var uploads []domain.Upload
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &uploads); err != nil {
		return nil, err
	}
	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].CreatedAt.After(uploads[j].CreatedAt)
	})
	return uploads, nil
}

func (r *UploadRepo) Update(ctx context.Context, uploadID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("upload_id", uploadID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *UploadRepo) Delete(ctx context.Context, uploadID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("upload_id", uploadID),
	})
	return err
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"portfolio-chat/internal/domain"
)

const (
	pkPrefix     = "PORTFOLIO#"
	skPrefixItem = "ITEM#"
)

// dynamodbAPI is the minimal DynamoDB interface required by PortfolioTable.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// PortfolioTable stores one owner's portfolio items in a DynamoDB table.
// Items sort by creation time, so List returns them in insertion order.
type PortfolioTable struct {
	api       dynamodbAPI
	tableName string
	owner     string
}

// New creates a PortfolioTable for owner.
func New(api dynamodbAPI, tableName, owner string) (*PortfolioTable, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, errors.New("repository: owner must not be empty")
	}
	return &PortfolioTable{api: api, tableName: tableName, owner: owner}, nil
}

// ownerPK returns the partition key for an owner's portfolio.
func ownerPK(owner string) string {
	return pkPrefix + owner
}

// itemSK orders items chronologically; the id breaks timestamp ties.
func itemSK(createdAt time.Time, id string) string {
	return skPrefixItem + createdAt.UTC().Format(time.RFC3339Nano) + "#" + id
}

// Append writes a new portfolio item. Re-appending the same item fails.
func (t *PortfolioTable) Append(ctx context.Context, item domain.PortfolioItem) error {
	if strings.TrimSpace(item.ID) == "" {
		return errors.New("repository: Append: item id is required")
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	_, err := t.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(t.tableName),
		Item:                portfolioItem(t.owner, item),
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("repository: Append: %w", err)
	}
	return nil
}

// List queries every ITEM# record for the owner in ascending sort-key order,
// following pagination until the table reports no more pages.
func (t *PortfolioTable) List(ctx context.Context) ([]domain.PortfolioItem, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(t.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: ownerPK(t.owner)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixItem},
		},
		ScanIndexForward: aws.Bool(true),
	}

	var items []domain.PortfolioItem
	for {
		out, err := t.api.Query(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("repository: List query: %w", err)
		}
		for _, raw := range out.Items {
			item, err := itemToPortfolio(raw)
			if err != nil {
				return nil, fmt.Errorf("repository: List unmarshal: %w", err)
			}
			items = append(items, item)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return items, nil
}

func portfolioItem(owner string, item domain.PortfolioItem) map[string]types.AttributeValue {
	tags := make([]types.AttributeValue, 0, len(item.Tags))
	for _, tag := range item.Tags {
		tags = append(tags, &types.AttributeValueMemberS{Value: tag})
	}
	return map[string]types.AttributeValue{
		"PK":          &types.AttributeValueMemberS{Value: ownerPK(owner)},
		"SK":          &types.AttributeValueMemberS{Value: itemSK(item.CreatedAt, item.ID)},
		"id":          &types.AttributeValueMemberS{Value: item.ID},
		"title":       &types.AttributeValueMemberS{Value: item.Title},
		"description": &types.AttributeValueMemberS{Value: item.Description},
		"tags":        &types.AttributeValueMemberL{Value: tags},
		"imageUrl":    &types.AttributeValueMemberS{Value: item.ImageURL},
		"createdAt":   &types.AttributeValueMemberS{Value: item.CreatedAt.UTC().Format(time.RFC3339Nano)},
	}
}

// itemToPortfolio converts a DynamoDB attribute map to a PortfolioItem.
func itemToPortfolio(raw map[string]types.AttributeValue) (domain.PortfolioItem, error) {
	id, err := strAttr(raw, "id")
	if err != nil {
		return domain.PortfolioItem{}, err
	}
	title, err := strAttr(raw, "title")
	if err != nil {
		return domain.PortfolioItem{}, err
	}
	description, err := strAttr(raw, "description")
	if err != nil {
		return domain.PortfolioItem{}, err
	}
	imageURL, _ := strAttr(raw, "imageUrl") // allow empty
	tags, err := stringListAttr(raw, "tags")
	if err != nil {
		return domain.PortfolioItem{}, err
	}

	var createdAt time.Time
	if s, err := strAttr(raw, "createdAt"); err == nil {
		createdAt, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return domain.PortfolioItem{}, fmt.Errorf("repository: parse attribute %q: %w", "createdAt", err)
		}
	}

	return domain.PortfolioItem{
		ID:          id,
		Title:       title,
		Description: description,
		Tags:        tags,
		ImageURL:    imageURL,
		CreatedAt:   createdAt,
	}, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

// stringListAttr reads an L attribute of strings. A missing attribute is an empty list.
func stringListAttr(item map[string]types.AttributeValue, key string) ([]string, error) {
	v, ok := item[key]
	if !ok {
		return []string{}, nil
	}
	l, ok := v.(*types.AttributeValueMemberL)
	if !ok {
		return nil, fmt.Errorf("repository: attribute %q is not a list", key)
	}
	out := make([]string, 0, len(l.Value))
	for i, el := range l.Value {
		s, ok := el.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("repository: attribute %q[%d] is not a string", key, i)
		}
		out = append(out, s.Value)
	}
	return out, nil
}

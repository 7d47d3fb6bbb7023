package services

import (
	"context"
	"fmt"
	"time"

	"closetapi/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const storeTimeout = 30 * time.Second

// ClosetStoreProvider is the keyed-document catalog contract: append-only
// puts from extraction, full scans from recommendation. Records round-trip
// through the store's native attribute encoding.
type ClosetStoreProvider interface {
	PutArticle(ctx context.Context, article models.Article) error
	ScanArticles(ctx context.Context) ([]models.Article, error)
}

type DynamoClosetStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoClosetStore(ctx context.Context) (*DynamoClosetStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return &DynamoClosetStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: GetEnv("CLOSET_TABLE_NAME", "closet-articles"),
	}, nil
}

func (s *DynamoClosetStore) PutArticle(ctx context.Context, article models.Article) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	item, err := attributevalue.MarshalMap(article)
	if err != nil {
		return fmt.Errorf("failed to encode article %s: %w", article.ID, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put article %s: %v: %w", article.ID, err, ErrUpstreamUnavailable)
	}
	return nil
}

// ScanArticles reads the whole catalog. The paginator walks every page so the
// catalog stays complete as it outgrows a single scan response.
func (s *DynamoClosetStore) ScanArticles(ctx context.Context) ([]models.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var articles []models.Article
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("closet scan failed: %v: %w", err, ErrUpstreamUnavailable)
		}
		var pageArticles []models.Article
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageArticles); err != nil {
			return nil, fmt.Errorf("failed to decode closet items: %w", err)
		}
		articles = append(articles, pageArticles...)
	}
	return articles, nil
}

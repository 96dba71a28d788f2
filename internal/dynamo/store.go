// Package dynamo implements the feed entry store on DynamoDB. The table uses
// a composite key: partition key "id" (string) and sort key "timestamp"
// (number).
package dynamo

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/allyman17/orchard-rss/internal/models"
)

// EntryStore persists feed entries in a DynamoDB table.
type EntryStore struct {
	client *dynamodb.Client
	table  string
}

// NewEntryStore creates a store that uses ambient AWS credentials/profile.
func NewEntryStore(ctx context.Context, region, table string) (*EntryStore, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{}
	trimmedRegion := strings.TrimSpace(region)
	if trimmedRegion != "" {
		loadOptions = append(loadOptions, awsconfig.WithRegion(trimmedRegion))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &EntryStore{
		client: dynamodb.NewFromConfig(cfg),
		table:  table,
	}, nil
}

// Put writes one entry. Keys are freshly generated per ingest, so the write
// never replaces an existing item in practice.
func (s *EntryStore) Put(ctx context.Context, entry models.FeedEntry) error {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("marshal feed entry %s: %w", entry.ID, err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put feed entry %s: %w", entry.ID, err)
	}
	return nil
}

// Scan reads the full table. DynamoDB pages scans at 1 MB, so the pages are
// walked until exhausted; the table stays far below anything problematic.
func (s *EntryStore) Scan(ctx context.Context) ([]models.FeedEntry, error) {
	entries := make([]models.FeedEntry, 0)

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: &s.table,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan feed entries: %w", err)
		}

		var pageEntries []models.FeedEntry
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageEntries); err != nil {
			return nil, fmt.Errorf("unmarshal feed entries: %w", err)
		}
		entries = append(entries, pageEntries...)
	}

	return entries, nil
}

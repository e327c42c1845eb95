package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/earworm/difficulty"
)

// MaxBatchGet is the most keys one BatchGetItem request accepts.
const MaxBatchGet = 100

// Item is the stored form of a report, keyed by the source file name.
type Item struct {
	PK         string `dynamodbav:"PK"`
	AnalysedAt string `dynamodbav:"AnalysedAt"`
	difficulty.Report
}

// ReportStore keeps difficulty reports in a dynamodb table.
type ReportStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
	now    func() time.Time
}

func NewReportStore(client dynamodbiface.DynamoDBAPI, table string) *ReportStore {
	return &ReportStore{client: client, table: table, now: time.Now}
}

// Connect opens a session against endpoint; an empty endpoint uses the
// regular AWS resolution for region.
func Connect(endpoint, region, table string) (*ReportStore, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return NewReportStore(dynamodb.New(sess), table), nil
}

func (s *ReportStore) Put(ctx context.Context, source string, r difficulty.Report) error {
	item := Item{PK: source, AnalysedAt: s.now().UTC().Format(time.RFC3339), Report: r}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("could not marshal report for %v: %w", source, err)
	}
	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	return nil
}

// GetReports looks up the stored reports of sources. Sources without a
// stored report are absent from the result.
func (s *ReportStore) GetReports(ctx context.Context, sources []string) (map[string]difficulty.Report, error) {
	if len(sources) > MaxBatchGet {
		return nil, fmt.Errorf("at most %v sources per lookup, got %v", MaxBatchGet, len(sources))
	}

	res := make(map[string]difficulty.Report)
	if len(sources) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, source := range sources {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(source)},
		})
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	}
	dbres, err := s.client.BatchGetItemWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}

	for _, v := range dbres.Responses[s.table] {
		var item Item
		if err := dynamodbattribute.UnmarshalMap(v, &item); err != nil {
			return nil, fmt.Errorf("could not unmarshal stored report: %w", err)
		}
		res[item.PK] = item.Report
	}
	return res, nil
}

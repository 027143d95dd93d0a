package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/baseball-per162/internal/bref"
	"github.com/tyler180/baseball-per162/internal/record"
)

type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// retry pacing for UnprocessedItems; tests shrink these
var (
	backoffStep = 120 * time.Millisecond
	backoffMax  = 2 * time.Second
)

// PutRecords writes one item per player: PK=PlayerID (S). Stats that parse
// as numbers are stored as N, everything else as S. Empty values are skipped.
func PutRecords(ctx context.Context, ddb DynamoDBAPI, tableName string, recs []record.PlayerRecord) error {
	if len(recs) == 0 {
		return nil
	}
	const maxBatch = 25
	now := strconv.FormatInt(time.Now().Unix(), 10)

	for i := 0; i < len(recs); i += maxBatch {
		end := i + maxBatch
		if end > len(recs) {
			end = len(recs)
		}

		// BatchWriteItem rejects a batch that repeats a key; the last record wins.
		reqs := make([]types.WriteRequest, 0, end-i)
		pos := map[string]int{}
		for _, r := range recs[i:end] {
			item := recordItem(r)
			if item == nil {
				continue
			}
			item["UpdatedAt"] = &types.AttributeValueMemberN{Value: now}
			wr := types.WriteRequest{PutRequest: &types.PutRequest{Item: item}}
			id := item["PlayerID"].(*types.AttributeValueMemberS).Value
			if j, dup := pos[id]; dup {
				reqs[j] = wr
				continue
			}
			pos[id] = len(reqs)
			reqs = append(reqs, wr)
		}
		if len(reqs) == 0 {
			continue
		}
		if err := batchWriteWithRetry(ctx, ddb, tableName, reqs); err != nil {
			return fmt.Errorf("batch write player records: %w", err)
		}
	}
	return nil
}

// recordItem returns nil for records without a usable id.
func recordItem(r record.PlayerRecord) map[string]types.AttributeValue {
	id := strings.TrimSpace(r.PlayerID())
	if id == "" {
		return nil
	}
	item := map[string]types.AttributeValue{
		"PlayerID": &types.AttributeValueMemberS{Value: id}, // PK
		"Status":   &types.AttributeValueMemberS{Value: statusOrOK(r.Error)},
	}
	for k, v := range r.ToRow() {
		if v == "" || k == record.ColError {
			continue
		}
		if _, isStat := r.Stats[k]; isStat {
			if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				item[k] = &types.AttributeValueMemberN{Value: v}
				continue
			}
		}
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	return item
}

func statusOrOK(s bref.Status) string {
	if s == bref.StatusDirect {
		return "ok"
	}
	return string(s)
}

// PutRunSummary upserts a "RUN#<stamp>" item holding per-status counts.
func PutRunSummary(ctx context.Context, ddb DynamoDBAPI, tableName, stamp string, recs []record.PlayerRecord) error {
	counts := map[string]int{}
	for _, r := range recs {
		counts[statusOrOK(r.Error)]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := map[string]string{}
	raw := map[string]any{
		":n":   len(recs),
		":now": time.Now().Unix(),
	}
	sets := []string{"Players=:n", "UpdatedAt=:now"}
	for i, k := range keys {
		nk, vk := fmt.Sprintf("#s%d", i), fmt.Sprintf(":s%d", i)
		names[nk] = "Status_" + strings.ReplaceAll(k, " ", "_")
		raw[vk] = counts[k]
		sets = append(sets, nk+"="+vk)
	}
	vals, err := attributevalue.MarshalMap(raw)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	in := &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			"PlayerID": &types.AttributeValueMemberS{Value: "RUN#" + stamp},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: vals,
	}
	if len(names) > 0 {
		in.ExpressionAttributeNames = names
	}
	if _, err := ddb.UpdateItem(ctx, in); err != nil {
		return fmt.Errorf("update run summary: %w", err)
	}
	return nil
}

func batchWriteWithRetry(ctx context.Context, ddb DynamoDBAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	const maxAttempts = 6
	backoff := backoffStep

	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := ddb.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < backoffMax {
			backoff += backoffStep
		}
	}
	return fmt.Errorf("unprocessed items remained after retries for table %s", table)
}

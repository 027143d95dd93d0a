package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/baseball-per162/internal/bref"
	"github.com/tyler180/baseball-per162/internal/record"
	"github.com/tyler180/baseball-per162/internal/stats"
)

// fake client implementing DynamoDBAPI
type fakeDDB struct {
	calls int
	// every batch is echoed back as unprocessed this many times before succeeding
	failTimes int
	failed    int
	written   []map[string]types.AttributeValue
	update    *ddb.UpdateItemInput
	batchErr  error
}

func (f *fakeDDB) BatchWriteItem(ctx context.Context, in *ddb.BatchWriteItemInput, _ ...func(*ddb.Options)) (*ddb.BatchWriteItemOutput, error) {
	f.calls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	for _, reqs := range in.RequestItems {
		seen := map[string]bool{}
		for _, r := range reqs {
			id := r.PutRequest.Item["PlayerID"].(*types.AttributeValueMemberS).Value
			if seen[id] {
				return nil, fmt.Errorf("ValidationException: Provided list of item keys contains duplicates")
			}
			seen[id] = true
		}
	}
	if f.failed < f.failTimes {
		f.failed++
		return &ddb.BatchWriteItemOutput{UnprocessedItems: in.RequestItems}, nil
	}
	f.failed = 0
	for _, reqs := range in.RequestItems {
		for _, r := range reqs {
			f.written = append(f.written, r.PutRequest.Item)
		}
	}
	return &ddb.BatchWriteItemOutput{}, nil
}

func (f *fakeDDB) UpdateItem(ctx context.Context, in *ddb.UpdateItemInput, _ ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error) {
	f.update = in
	return &ddb.UpdateItemOutput{}, nil
}

func fastBackoff(t *testing.T) {
	t.Helper()
	step, max := backoffStep, backoffMax
	backoffStep, backoffMax = time.Millisecond, 2*time.Millisecond
	t.Cleanup(func() { backoffStep, backoffMax = step, max })
}

func makeRecords(n int) []record.PlayerRecord {
	var recs []record.PlayerRecord
	for i := 0; i < n; i++ {
		r := record.New(fmt.Sprintf("https://www.baseball-reference.com/players/x/play%03d01.shtml", i))
		r.FirstName, r.LastName = "P", fmt.Sprintf("%02d", i)
		r.Stats = stats.Row{"HR": "30", "BA": ".301", "Note": "n/a"}
		recs = append(recs, r)
	}
	return recs
}

func TestPutRecords_BatchingAndRetry(t *testing.T) {
	fastBackoff(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fc := &fakeDDB{failTimes: 1}
	if err := PutRecords(ctx, fc, "tbl", makeRecords(30)); err != nil {
		t.Fatalf("PutRecords error: %v", err)
	}
	// 25 + 5, each attempted twice
	if fc.calls != 4 {
		t.Fatalf("expected 4 BatchWriteItem calls, got %d", fc.calls)
	}
	if len(fc.written) != 30 {
		t.Fatalf("written = %d", len(fc.written))
	}
}

func TestPutRecords_DuplicateKeysLastWins(t *testing.T) {
	const u = "https://www.baseball-reference.com/players/r/ruthba01.shtml"
	a, b, c := record.New(u), record.New(u+"?x=1"), record.New(u)
	a.Stats = stats.Row{"HR": "40"}
	b.Stats = stats.Row{"HR": "50"}
	c.Stats = stats.Row{"HR": "60"}
	other := makeRecords(1)[0]

	fc := &fakeDDB{}
	if err := PutRecords(context.Background(), fc, "tbl", []record.PlayerRecord{a, other, b, c}); err != nil {
		t.Fatalf("PutRecords error: %v", err)
	}
	if len(fc.written) != 2 {
		t.Fatalf("written = %d, want 2", len(fc.written))
	}
	ruth := fc.written[0]
	if v := ruth["PlayerID"].(*types.AttributeValueMemberS).Value; v != "ruthba01" {
		t.Fatalf("first item = %q, want ruthba01", v)
	}
	if v := ruth["HR"].(*types.AttributeValueMemberN).Value; v != "60" {
		t.Errorf("HR = %q, want the last record's 60", v)
	}
}

func TestPutRecords_GivesUp(t *testing.T) {
	fastBackoff(t)
	fc := &fakeDDB{failTimes: 100}
	if err := PutRecords(context.Background(), fc, "tbl", makeRecords(1)); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if fc.calls != 6 {
		t.Fatalf("calls = %d, want 6", fc.calls)
	}
}

func TestPutRecords_PropagatesError(t *testing.T) {
	fc := &fakeDDB{batchErr: fmt.Errorf("throttled")}
	if err := PutRecords(context.Background(), fc, "tbl", makeRecords(2)); err == nil {
		t.Fatal("expected error")
	}
}

func TestRecordItem_Types(t *testing.T) {
	r := makeRecords(1)[0]
	r.Error = bref.StatusDerived
	item := recordItem(r)

	if v, ok := item["PlayerID"].(*types.AttributeValueMemberS); !ok || v.Value != "play00001" {
		t.Fatalf("PlayerID = %#v", item["PlayerID"])
	}
	if _, ok := item["HR"].(*types.AttributeValueMemberN); !ok {
		t.Errorf("HR should be numeric: %#v", item["HR"])
	}
	if _, ok := item["Note"].(*types.AttributeValueMemberS); !ok {
		t.Errorf("Note should be a string: %#v", item["Note"])
	}
	if _, ok := item["Height"]; ok {
		t.Errorf("empty Height should be skipped")
	}
	if v, ok := item["Status"].(*types.AttributeValueMemberS); !ok || v.Value != "computed_from_totals" {
		t.Errorf("Status = %#v", item["Status"])
	}
	if v, ok := item[bref.FieldNickname].(*types.AttributeValueMemberS); !ok || v.Value != bref.NotAvailable {
		t.Errorf("Nickname = %#v", item[bref.FieldNickname])
	}
}

func TestPutRunSummary(t *testing.T) {
	recs := makeRecords(3)
	recs[1].Error = bref.StatusNotFound
	fc := &fakeDDB{}
	if err := PutRunSummary(context.Background(), fc, "tbl", "20261019T000000Z", recs); err != nil {
		t.Fatalf("PutRunSummary: %v", err)
	}
	in := fc.update
	if in == nil {
		t.Fatal("UpdateItem not called")
	}
	if v := in.Key["PlayerID"].(*types.AttributeValueMemberS).Value; v != "RUN#20261019T000000Z" {
		t.Errorf("key = %q", v)
	}
	// sorted statuses: not_found, ok
	if in.ExpressionAttributeNames["#s0"] != "Status_not_found" || in.ExpressionAttributeNames["#s1"] != "Status_ok" {
		t.Errorf("names = %v", in.ExpressionAttributeNames)
	}
	if in.ExpressionAttributeValues[":s1"].(*types.AttributeValueMemberN).Value != "2" {
		t.Errorf("ok count = %#v", in.ExpressionAttributeValues[":s1"])
	}
	if in.ExpressionAttributeValues[":n"].(*types.AttributeValueMemberN).Value != "3" {
		t.Errorf("players = %#v", in.ExpressionAttributeValues[":n"])
	}
}

package materialize

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/rs/zerolog"

	"github.com/tyler180/baseball-per162/internal/ath"
)

// fakeAthena succeeds immediately and answers COUNT and GROUP BY queries.
type fakeAthena struct {
	sql  []string
	last string
}

func (f *fakeAthena) StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	f.last = aws.ToString(in.QueryString)
	f.sql = append(f.sql, f.last)
	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String("q")}, nil
}

func (f *fakeAthena) GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, _ ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	return &athena.GetQueryExecutionOutput{QueryExecution: &types.QueryExecution{
		QueryExecutionId: in.QueryExecutionId,
		Status:           &types.QueryExecutionStatus{State: types.QueryExecutionStateSucceeded},
	}}, nil
}

func (f *fakeAthena) GetQueryResults(ctx context.Context, in *athena.GetQueryResultsInput, _ ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error) {
	row := func(vals ...string) types.Row {
		var d []types.Datum
		for _, v := range vals {
			d = append(d, types.Datum{VarCharValue: aws.String(v)})
		}
		return types.Row{Data: d}
	}
	rs := &types.ResultSet{}
	if strings.Contains(f.last, "GROUP BY") {
		rs.Rows = []types.Row{row("error", "players"), row("", "7"), row("not_found", "1")}
	} else {
		rs.Rows = []types.Row{row("c"), row("8")}
	}
	return &athena.GetQueryResultsOutput{ResultSet: rs}, nil
}

func TestRun(t *testing.T) {
	f := &fakeAthena{}
	r := &ath.Runner{Client: f, Database: "baseball", Workgroup: "primary", Logger: zerolog.Nop(), PollEvery: time.Millisecond}
	res, err := Run(context.Background(), r, []string{"FirstName", "HR"}, "s3://bkt/br162/current/")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RowCount != 8 || len(res.StatusCounts) != 2 || res.Table != "baseball.batters_per162" {
		t.Fatalf("res = %+v", res)
	}
	if len(f.sql) != 5 || !strings.HasPrefix(f.sql[0], "DROP TABLE") || !strings.Contains(f.sql[1], "CREATE EXTERNAL TABLE") {
		t.Fatalf("sql = %q", f.sql)
	}
	if len(res.Sample) != 1 || !strings.Contains(f.sql[4], "LIMIT 5") {
		t.Fatalf("sample = %v, sql = %q", res.Sample, f.sql)
	}
}

func TestRun_EmptyHeader(t *testing.T) {
	r := &ath.Runner{Client: &fakeAthena{}, Logger: zerolog.Nop()}
	if _, err := Run(context.Background(), r, nil, "s3://x/"); err == nil {
		t.Fatal("expected error")
	}
}

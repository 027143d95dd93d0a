package ath

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/rs/zerolog"
)

type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

type Runner struct {
	Client    AthenaAPI
	Workgroup string
	Database  string
	OutputS3  string // s3://bucket/prefix/
	Logger    zerolog.Logger
	PollEvery time.Duration // 0 means one second
}

func (r *Runner) ExecAndWait(ctx context.Context, sql string) (*types.QueryExecution, error) {
	in := &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(r.Database),
		},
		WorkGroup: aws.String(r.Workgroup),
	}
	if r.OutputS3 != "" {
		in.ResultConfiguration = &types.ResultConfiguration{OutputLocation: aws.String(r.OutputS3)}
	}
	startOut, err := r.Client.StartQueryExecution(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("start query: %w", err)
	}
	qid := aws.ToString(startOut.QueryExecutionId)
	r.Logger.Debug().Str("qid", qid).Msg("athena query started")

	every := r.PollEvery
	if every <= 0 {
		every = time.Second
	}
	tick := time.NewTicker(every)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-tick.C:
			ge, err := r.Client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
				QueryExecutionId: aws.String(qid),
			})
			if err != nil {
				return nil, fmt.Errorf("get query execution: %w", err)
			}
			qe := ge.QueryExecution
			if qe == nil || qe.Status == nil {
				continue
			}
			switch qe.Status.State {
			case types.QueryExecutionStateSucceeded:
				ev := r.Logger.Info().Str("qid", qid)
				if st := qe.Statistics; st != nil {
					if st.DataScannedInBytes != nil {
						ev = ev.Float64("scanned_mb", float64(*st.DataScannedInBytes)/1024.0/1024.0)
					}
					if st.EngineExecutionTimeInMillis != nil {
						ev = ev.Float64("exec_sec", float64(*st.EngineExecutionTimeInMillis)/1000.0)
					}
				}
				ev.Msg("athena query succeeded")
				return qe, nil
			case types.QueryExecutionStateFailed:
				return nil, errors.New("athena failed: " + aws.ToString(qe.Status.StateChangeReason))
			case types.QueryExecutionStateCancelled:
				return nil, errors.New("athena cancelled")
			default:
				// still running
			}
		}
	}
}

// Query runs sql and returns the result rows, header row first.
func (r *Runner) Query(ctx context.Context, sql string) ([][]string, error) {
	exec, err := r.ExecAndWait(ctx, sql)
	if err != nil {
		return nil, err
	}
	gr, err := r.Client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
		QueryExecutionId: exec.QueryExecutionId,
	})
	if err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}
	if gr.ResultSet == nil {
		return nil, nil
	}
	out := make([][]string, 0, len(gr.ResultSet.Rows))
	for _, row := range gr.ResultSet.Rows {
		vals := make([]string, len(row.Data))
		for i, d := range row.Data {
			vals[i] = aws.ToString(d.VarCharValue)
		}
		out = append(out, vals)
	}
	return out, nil
}

func (r *Runner) CountRows(ctx context.Context, sql string) (int64, error) {
	rows, err := r.Query(ctx, sql)
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 || len(rows[1]) < 1 {
		return 0, errors.New("unexpected COUNT(*) result shape")
	}
	var n int64
	if _, err := fmt.Sscan(rows[1][0], &n); err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return n, nil
}

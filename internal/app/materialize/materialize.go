// Package materialize points an Athena external table at the latest
// uploaded CSV and runs a few QA queries against it.
package materialize

import (
	"context"
	"errors"
	"fmt"

	"github.com/tyler180/baseball-per162/internal/ath"
	"github.com/tyler180/baseball-per162/internal/materializer"
)

type Result struct {
	Table        string     `json:"table"`
	Location     string     `json:"location"`
	RowCount     int64      `json:"row_count"`
	StatusCounts [][]string `json:"status_counts,omitempty"`
	Sample       [][]string `json:"sample,omitempty"`
}

// sampleRows is how many rows the QA sample pulls back.
const sampleRows = 5

// Run drops and recreates the table over location using header as the
// column list, then counts rows. A failed drop or QA query is logged and
// ignored.
func Run(ctx context.Context, r *ath.Runner, header []string, location string) (Result, error) {
	if len(header) == 0 {
		return Result{}, errors.New("empty header")
	}
	res := Result{Table: r.Database + "." + materializer.TableName, Location: location}

	if _, err := r.ExecAndWait(ctx, materializer.BuildDrop(r.Database)); err != nil {
		r.Logger.Warn().Err(err).Msg("drop table failed")
	}
	if _, err := r.ExecAndWait(ctx, materializer.BuildCreateExternal(r.Database, header, location)); err != nil {
		return res, fmt.Errorf("create external table: %w", err)
	}

	n, err := r.CountRows(ctx, materializer.BuildCount(r.Database))
	if err != nil {
		return res, fmt.Errorf("count rows: %w", err)
	}
	res.RowCount = n

	rows, err := r.Query(ctx, materializer.BuildStatusCounts(r.Database))
	if err != nil {
		r.Logger.Warn().Err(err).Msg("status counts failed")
	} else if len(rows) > 1 {
		res.StatusCounts = rows[1:]
	}

	rows, err = r.Query(ctx, materializer.BuildSample(r.Database, sampleRows))
	if err != nil {
		r.Logger.Warn().Err(err).Msg("sample query failed")
	} else if len(rows) > 1 {
		res.Sample = rows[1:]
	}

	r.Logger.Info().Str("table", res.Table).Int64("rows", n).Msg("materialized")
	return res, nil
}

// Package scrape runs a full pass over a list of player pages: fetch,
// extract, write the raw and rounded CSVs, then publish to the optional
// sinks.
package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/tyler180/baseball-per162/internal/bref"
	"github.com/tyler180/baseball-per162/internal/dataset"
	"github.com/tyler180/baseball-per162/internal/export"
	"github.com/tyler180/baseball-per162/internal/fetch"
	"github.com/tyler180/baseball-per162/internal/record"
	"github.com/tyler180/baseball-per162/internal/stats"
	"github.com/tyler180/baseball-per162/internal/store"
)

type Options struct {
	URLs             []string
	OutDir           string
	RawCSV           string
	RoundedCSV       string
	CanonicalTableID string
	DebugHTMLDir     string // empty disables page dumps
	Stamp            string // run folder for uploads; empty means now
}

type Service struct {
	Fetcher fetch.Fetcher
	Logger  zerolog.Logger

	// optional sinks
	DDB      store.DynamoDBAPI
	DDBTable string
	Uploader *export.Uploader
}

type Result struct {
	Records     []record.PlayerRecord
	Header      []string
	RawPath     string
	RoundedPath string
	Scheme      stats.Scheme
	Uploaded    []string
}

// Run processes every address in order. Per-address failures end up in the
// record's error column; only output and sink failures are returned.
func (s *Service) Run(ctx context.Context, opt Options) (Result, error) {
	if len(opt.URLs) == 0 {
		return Result{}, errors.New("no urls to scrape")
	}
	if opt.DebugHTMLDir != "" {
		if err := os.MkdirAll(opt.DebugHTMLDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("debug html dir: %w", err)
		}
	}

	universe := record.NewFieldUniverse()
	recs := make([]record.PlayerRecord, 0, len(opt.URLs))
	for i, url := range opt.URLs {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("stopped after %d of %d urls: %w", i, len(opt.URLs), err)
		}
		rec := s.processURL(ctx, url, opt)
		universe.Add(rec)
		recs = append(recs, rec)
		s.Logger.Info().
			Int("n", i+1).
			Int("of", len(opt.URLs)).
			Str("url", url).
			Str("status", string(rec.Error)).
			Int("stats", len(rec.Stats)).
			Msg("processed")
	}

	res := Result{
		Records:     recs,
		Header:      universe.Header(),
		RawPath:     filepath.Join(opt.OutDir, opt.RawCSV),
		RoundedPath: filepath.Join(opt.OutDir, opt.RoundedCSV),
	}
	rows := make([]map[string]string, len(recs))
	for i, r := range recs {
		rows[i] = r.ToRow()
	}
	if err := dataset.WriteFile(res.RawPath, res.Header, rows); err != nil {
		return res, fmt.Errorf("write raw csv: %w", err)
	}
	scheme, err := stats.RoundFile(res.RawPath, res.RoundedPath)
	if err != nil {
		return res, fmt.Errorf("write rounded csv: %w", err)
	}
	res.Scheme = scheme
	s.Logger.Info().
		Str("raw", res.RawPath).
		Str("rounded", res.RoundedPath).
		Str("scheme", scheme.Name).
		Int("columns", len(res.Header)).
		Msg("saved")

	if err := s.publish(ctx, opt, &res); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) publish(ctx context.Context, opt Options, res *Result) error {
	stamp := opt.Stamp
	if stamp == "" {
		stamp = export.NowStamp()
	}
	if s.DDB != nil && s.DDBTable != "" {
		if err := store.PutRecords(ctx, s.DDB, s.DDBTable, res.Records); err != nil {
			return fmt.Errorf("dynamodb: %w", err)
		}
		if err := store.PutRunSummary(ctx, s.DDB, s.DDBTable, stamp, res.Records); err != nil {
			return fmt.Errorf("dynamodb: %w", err)
		}
		s.Logger.Info().Str("table", s.DDBTable).Int("items", len(res.Records)).Msg("dynamodb write done")
	}
	if s.Uploader != nil {
		keys, err := s.Uploader.Publish(ctx, stamp, res.RawPath, res.RoundedPath)
		res.Uploaded = keys
		if err != nil {
			return fmt.Errorf("s3: %w", err)
		}
		s.Logger.Info().Str("bucket", s.Uploader.Bucket()).Strs("keys", keys).Msg("s3 upload done")
	}
	return nil
}

func (s *Service) processURL(ctx context.Context, url string, opt Options) record.PlayerRecord {
	html, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		s.Logger.Warn().Err(err).Str("url", url).Msg("fetch failed")
		rec := record.New(url)
		rec.Error = bref.StatusFetchFailed
		return rec
	}
	if opt.DebugHTMLDir != "" {
		p := filepath.Join(opt.DebugHTMLDir, DebugFileName(url))
		if err := os.WriteFile(p, html, 0o644); err != nil {
			s.Logger.Warn().Err(err).Str("path", p).Msg("debug html dump failed")
		}
	}
	return ProcessPage(html, url, opt.CanonicalTableID, s.Logger)
}

// ProcessPage extracts one record from a fetched page.
func ProcessPage(html []byte, url, canonicalID string, logger zerolog.Logger) record.PlayerRecord {
	rec := record.New(url)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		logger.Warn().Err(err).Str("url", url).Msg("parse html")
		rec.Error = bref.StatusUnknown
		return rec
	}

	rec.FirstName, rec.LastName = bref.SplitName(bref.DisplayName(doc))
	rec.ApplyBio(bref.ExtractBio(doc))

	res := bref.ResolvePer162(bref.RankTables(bref.Tables(doc), canonicalID))
	logger.Debug().
		Str("url", url).
		Int("tables", res.Diag.TablesSeen).
		Int("with_tfoot", res.Diag.WithFooter).
		Int("season_rows", res.Diag.SeasonRows).
		Strs("footer_labels", res.Diag.FooterLabels).
		Str("table_id", res.TableID).
		Msg("per-162 diagnostics")

	if !res.Found {
		rec.Error = bref.StatusNotFound
		return rec
	}
	row := stats.CeilCounting(res.Row, stats.DefaultScheme)
	if len(row) == 0 {
		rec.Error = bref.StatusUnknown
		return rec
	}
	rec.Stats = row
	rec.Error = res.Status
	return rec
}

var reUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// DebugFileName turns an address into a flat file name.
func DebugFileName(url string) string {
	return reUnsafe.ReplaceAllString(strings.ToLower(url), "_") + ".html"
}

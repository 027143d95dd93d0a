package main

import (
	"context"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/tyler180/baseball-per162/internal/app/scrape"
	"github.com/tyler180/baseball-per162/internal/export"
	"github.com/tyler180/baseball-per162/internal/fetch"
)

type scrapeFlags struct {
	urlsFile     string
	outDir       string
	raw          string
	rounded      string
	debugHTMLDir string
	ddbTable     string
	s3Bucket     string
	s3Prefix     string
}

func newScrapeCmd(a *app) *cobra.Command {
	var f scrapeFlags
	cmd := &cobra.Command{
		Use:   "scrape [url...]",
		Short: "Fetch player pages and write raw and rounded CSVs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.Context(), cmd.OutOrStdout(), a, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.urlsFile, "urls-file", "", "file with one player url per line (default BR_URLS_FILE)")
	fl.StringVar(&f.outDir, "out-dir", "", "output directory (default OUT_DIR)")
	fl.StringVar(&f.raw, "raw", "", "raw CSV file name (default RAW_CSV)")
	fl.StringVar(&f.rounded, "rounded", "", "rounded CSV file name (default ROUNDED_CSV)")
	fl.StringVar(&f.debugHTMLDir, "debug-html-dir", "", "save fetched pages here (default DEBUG_HTML_DIR)")
	fl.StringVar(&f.ddbTable, "ddb-table", "", "DynamoDB table for player records (default DDB_TABLE)")
	fl.StringVar(&f.s3Bucket, "s3-bucket", "", "bucket for CSV uploads (default S3_BUCKET)")
	fl.StringVar(&f.s3Prefix, "s3-prefix", "", "key prefix for uploads (default S3_PREFIX)")
	return cmd
}

func pick(flag, env string) string {
	if flag != "" {
		return flag
	}
	return env
}

func runScrape(ctx context.Context, out io.Writer, a *app, f scrapeFlags, args []string) error {
	cfg := a.cfg
	urls := args
	if file := pick(f.urlsFile, cfg.URLsFile); len(urls) == 0 && file != "" {
		var err error
		if urls, err = scrape.LoadURLs(file); err != nil {
			return err
		}
	}
	if len(urls) == 0 {
		return fmt.Errorf("no urls: pass them as arguments or via --urls-file")
	}

	fetcher, err := fetch.NewCollector(fetch.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		DelayMin:  cfg.DelayMin,
		DelayMax:  cfg.DelayMax,
	})
	if err != nil {
		return err
	}
	svc := &scrape.Service{Fetcher: fetcher, Logger: a.log}

	table, bucket := pick(f.ddbTable, cfg.DDBTable), pick(f.s3Bucket, cfg.S3Bucket)
	if table != "" || bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("aws config: %w", err)
		}
		if table != "" {
			svc.DDB, svc.DDBTable = dynamodb.NewFromConfig(awsCfg), table
		}
		if bucket != "" {
			svc.Uploader = export.NewUploader(s3.NewFromConfig(awsCfg), bucket, pick(f.s3Prefix, cfg.S3Prefix))
		}
	}

	a.log.Info().Int("urls", len(urls)).Dur("delay_min", cfg.DelayMin).Dur("delay_max", cfg.DelayMax).Msg("scrape starting")
	res, err := svc.Run(ctx, scrape.Options{
		URLs:             urls,
		OutDir:           pick(f.outDir, cfg.OutDir),
		RawCSV:           pick(f.raw, cfg.RawCSV),
		RoundedCSV:       pick(f.rounded, cfg.RoundedCSV),
		CanonicalTableID: cfg.CanonicalTableID,
		DebugHTMLDir:     pick(f.debugHTMLDir, cfg.DebugHTMLDir),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved: %s\nSaved: %s\n", res.RawPath, res.RoundedPath)
	return nil
}

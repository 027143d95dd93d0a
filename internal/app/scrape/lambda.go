package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tyler180/baseball-per162/internal/app/materialize"
	"github.com/tyler180/baseball-per162/internal/ath"
	cfgpkg "github.com/tyler180/baseball-per162/internal/config"
	"github.com/tyler180/baseball-per162/internal/export"
	"github.com/tyler180/baseball-per162/internal/fetch"
	"github.com/tyler180/baseball-per162/internal/logger"
)

// Event is the Lambda payload.
type Event struct {
	URLs   []string `json:"urls"`
	Prefix string   `json:"prefix"` // overrides S3_PREFIX for this run
}

// Raw is used by Lambda entrypoint to avoid tight coupling to the event type at the edge.
type Raw = json.RawMessage

type Response struct {
	Players  int                 `json:"players"`
	Statuses map[string]int      `json:"statuses"`
	Uploaded []string            `json:"uploaded,omitempty"`
	Athena   *materialize.Result `json:"athena,omitempty"`
}

// LambdaEntrypoint scrapes the event's urls (or BR_URLS_FILE) into /tmp,
// then publishes to whichever sinks are configured.
func LambdaEntrypoint(ctx context.Context, raw Raw) (Response, error) {
	var e Event
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &e); err != nil {
			return Response{}, fmt.Errorf("decode event: %w", err)
		}
	}

	cfg := cfgpkg.FromEnv()
	log := logger.New(cfg.LogLevel)

	urls := e.URLs
	if len(urls) == 0 && cfg.URLsFile != "" {
		var err error
		if urls, err = LoadURLs(cfg.URLsFile); err != nil {
			return Response{}, err
		}
	}
	prefix := cfg.S3Prefix
	if p := strings.TrimSpace(e.Prefix); p != "" {
		prefix = p
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("aws config: %w", err)
	}

	f, err := fetch.NewCollector(fetch.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		DelayMin:  cfg.DelayMin,
		DelayMax:  cfg.DelayMax,
	})
	if err != nil {
		return Response{}, err
	}
	svc := &Service{Fetcher: f, Logger: log}
	if cfg.DDBTable != "" {
		svc.DDB, svc.DDBTable = dynamodb.NewFromConfig(awsCfg), cfg.DDBTable
	}
	if cfg.S3Bucket != "" {
		svc.Uploader = export.NewUploader(s3.NewFromConfig(awsCfg), cfg.S3Bucket, prefix)
	}

	res, err := svc.Run(ctx, Options{
		URLs:             urls,
		OutDir:           "/tmp",
		RawCSV:           cfg.RawCSV,
		RoundedCSV:       cfg.RoundedCSV,
		CanonicalTableID: cfg.CanonicalTableID,
		DebugHTMLDir:     cfg.DebugHTMLDir,
	})
	if err != nil {
		return Response{}, err
	}

	out := Response{Players: len(res.Records), Statuses: map[string]int{}, Uploaded: res.Uploaded}
	for _, r := range res.Records {
		out.Statuses[string(r.Error)]++
	}

	if cfg.AthenaDB != "" && svc.Uploader != nil {
		runner := &ath.Runner{
			Client:    athena.NewFromConfig(awsCfg),
			Workgroup: cfg.AthenaWorkgroup,
			Database:  cfg.AthenaDB,
			OutputS3:  cfg.AthenaOutput,
			Logger:    log,
		}
		m, err := materialize.Run(ctx, runner, res.Header, svc.Uploader.CurrentLocation())
		if err != nil {
			return out, err
		}
		out.Athena = &m
	}
	return out, nil
}

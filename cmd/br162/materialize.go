package main

import (
	"fmt"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/spf13/cobra"

	"github.com/tyler180/baseball-per162/internal/app/materialize"
	"github.com/tyler180/baseball-per162/internal/ath"
	"github.com/tyler180/baseball-per162/internal/dataset"
	"github.com/tyler180/baseball-per162/internal/export"
)

func newMaterializeCmd(a *app) *cobra.Command {
	var csvPath, db, workgroup, output, bucket, prefix string
	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Create the Athena table over the uploaded rounded CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if csvPath == "" {
				csvPath = filepath.Join(cfg.OutDir, cfg.RoundedCSV)
			}
			db, workgroup, output = pick(db, cfg.AthenaDB), pick(workgroup, cfg.AthenaWorkgroup), pick(output, cfg.AthenaOutput)
			bucket, prefix = pick(bucket, cfg.S3Bucket), pick(prefix, cfg.S3Prefix)
			if db == "" || bucket == "" {
				return fmt.Errorf("athena database and s3 bucket are required")
			}

			ds, err := dataset.ReadFile(csvPath)
			if err != nil {
				return err
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("aws config: %w", err)
			}
			runner := &ath.Runner{
				Client:    athena.NewFromConfig(awsCfg),
				Workgroup: workgroup,
				Database:  db,
				OutputS3:  output,
				Logger:    a.log,
			}
			loc := export.CurrentLocation(bucket, prefix)
			res, err := materialize.Run(cmd.Context(), runner, ds.Columns, loc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows at %s\n", res.Table, res.RowCount, res.Location)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&csvPath, "csv", "", "local rounded CSV whose header defines the columns")
	fl.StringVar(&db, "db", "", "Athena database (default ATHENA_DB)")
	fl.StringVar(&workgroup, "workgroup", "", "Athena workgroup (default ATHENA_WORKGROUP)")
	fl.StringVar(&output, "output", "", "query result location (default ATHENA_OUTPUT)")
	fl.StringVar(&bucket, "s3-bucket", "", "bucket holding the uploads (default S3_BUCKET)")
	fl.StringVar(&prefix, "s3-prefix", "", "upload prefix (default S3_PREFIX)")
	return cmd
}

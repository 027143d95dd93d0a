// Package export publishes run output to S3.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CurrentDir is the stable folder the Athena table points at.
const CurrentDir = "current"

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	cl     S3API
	bucket string
	prefix string
}

func NewUploader(cl S3API, bucket, prefix string) *Uploader {
	return &Uploader{cl: cl, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Bucket returns the target bucket.
func (u *Uploader) Bucket() string { return u.bucket }

func (u *Uploader) put(ctx context.Context, key string, body []byte) error {
	_, err := u.cl.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	return err
}

// Key joins the prefix with the given parts.
func (u *Uploader) Key(parts ...string) string {
	return path.Join(append([]string{u.prefix}, parts...)...)
}

// CurrentLocation is the s3:// folder that holds the latest rounded CSV.
func (u *Uploader) CurrentLocation() string {
	return CurrentLocation(u.bucket, u.prefix)
}

// CurrentLocation builds the same folder without an uploader.
func CurrentLocation(bucket, prefix string) string {
	return "s3://" + bucket + "/" + path.Join(strings.Trim(prefix, "/"), CurrentDir) + "/"
}

// Publish uploads raw and rounded under <prefix>/<stamp>/ and the rounded
// file again under <prefix>/current/. Returns the keys written.
func (u *Uploader) Publish(ctx context.Context, stamp, rawPath, roundedPath string) ([]string, error) {
	type upload struct{ key, file string }
	plan := []upload{
		{u.Key(stamp, filepath.Base(rawPath)), rawPath},
		{u.Key(stamp, filepath.Base(roundedPath)), roundedPath},
		{u.Key(CurrentDir, filepath.Base(roundedPath)), roundedPath},
	}
	var keys []string
	for _, p := range plan {
		b, err := os.ReadFile(p.file)
		if err != nil {
			return keys, fmt.Errorf("read %s: %w", p.file, err)
		}
		if err := u.put(ctx, p.key, b); err != nil {
			return keys, fmt.Errorf("put s3://%s/%s: %w", u.bucket, p.key, err)
		}
		keys = append(keys, p.key)
	}
	return keys, nil
}

// NowStamp is the per-run folder name.
func NowStamp() string {
	return time.Now().UTC().Format("20060102T150405Z")
}

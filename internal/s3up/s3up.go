// Package s3up uploads verified parquet files to the datalake bucket and
// confirms the upload landed intact.
//
// The object key mirrors the local bronze layout, so the datalake sees the
// same structure whether it ingests from disk or from the bucket. Upload is
// strictly optional: the job only constructs an Uploader when a bucket is
// configured.
package s3up

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client the uploader uses; the seam keeps
// the package testable without a bucket.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Config holds the credentials and destination for uploads. AccessKeyID and
// SecretAccessKey may be empty, in which case the SDK's default credential
// chain applies (instance profiles, env vars, shared config).
type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Uploader puts objects into one bucket.
type Uploader struct {
	client s3API
	bucket string
}

// New builds an Uploader from config. Bucket is required.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	return &Uploader{client: s3.NewFromConfig(awsCfg), bucket: cfg.Bucket}, nil
}

// Upload puts the file at localPath under key and returns the s3:// URL.
func (u *Uploader) Upload(ctx context.Context, key, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("s3: read %s: %w", localPath, err)
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}

// Verify heads the uploaded object and checks its ContentLength against the
// local file size, catching truncated uploads.
func (u *Uploader) Verify(ctx context.Context, key string, wantSize int64) error {
	out, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: head %s: %w", key, err)
	}
	if got := aws.ToInt64(out.ContentLength); got != wantSize {
		return fmt.Errorf("s3: object %s has %d bytes, local file has %d", key, got, wantSize)
	}
	return nil
}

// newFromClient constructs an Uploader around a fake client.
// Used exclusively in unit tests.
func newFromClient(c s3API, bucket string) *Uploader { return &Uploader{client: c, bucket: bucket} }

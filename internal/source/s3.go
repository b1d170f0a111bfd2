package source

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/settlements/internal/core"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 client used by the S3 loader.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads a dataset object from an S3-compatible bucket.
type S3 struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3 creates a loader for bucket/key.
func NewS3(client ObjectGetter, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

func (s *S3) Name() string { return "s3" }

// Load fetches and decodes the object. The format follows the key extension.
func (s *S3) Load(ctx context.Context) ([]core.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	records, err := Decode(out.Body, FormatFromName(s.key))
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key, ErrEmptyDataset)
	}
	return records, nil
}

// S3ClientConfig holds explicit client parameters. Credentials come from
// the default AWS chain (env vars, shared config, instance role).
type S3ClientConfig struct {
	Region    string
	Endpoint  string // optional; set for MinIO or other S3-compatible stores
	PathStyle bool
}

// NewS3Client builds an S3 client from the default AWS configuration.
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

package loader

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/andina-bi/dashboard/records"
)

// S3Config holds the bucket location. Credentials fall back to the default
// AWS chain when AccessKeyID is empty.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // optional; S3-compatible endpoint (MinIO)
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Files           map[string]string
}

// S3Source reads the CSV tables as objects under Bucket/Prefix.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
	files  map[string]string
}

// NewS3Source builds the S3 client. optFns are applied after the config
// derived options (tests swap the HTTP client here).
func NewS3Source(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	opts := []func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}
	client := s3.NewFromConfig(awsCfg, append(opts, optFns...)...)

	return &S3Source{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, files: cfg.Files}, nil
}

func (s *S3Source) Describe() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

func (s *S3Source) Load(ctx context.Context) (records.Dataset, error) {
	return ParseTables(ctx, OpenerFunc(s.open), s.files)
}

func (s *S3Source) open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

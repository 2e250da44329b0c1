package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/gvondra/StsfctryRecipes/internal/recipe"
)

// S3Config describes where the recipe document lives in an S3-compatible
// bucket (AWS S3 or MinIO).
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string // optional; set for MinIO or other S3-compatible services
	AccessKeyID     string // optional; falls back to the default credentials chain
	SecretAccessKey string
	PathStyle       bool

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// S3 keeps the collection as one JSON object.
type S3 struct {
	client *s3.Client
	bucket string
	key    string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	key := cfg.Key
	if key == "" {
		key = DefaultFileName
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3{client: client, bucket: cfg.Bucket, key: key}, nil
}

// LoadAll returns an empty collection when the object does not exist yet.
func (s *S3) LoadAll(ctx context.Context) ([]recipe.Recipe, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return []recipe.Recipe{}, nil
		}
		return nil, fmt.Errorf("get recipes object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	recipes, err := decodeRecipes(out.Body)
	if err != nil {
		return nil, fmt.Errorf("decode recipes object: %w", err)
	}
	return recipes, nil
}

func (s *S3) SaveAll(ctx context.Context, recipes []recipe.Recipe) error {
	var buf bytes.Buffer
	if err := encodeRecipes(&buf, recipes); err != nil {
		return fmt.Errorf("encode recipes: %w", err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put recipes object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *S3) Close() error { return nil }

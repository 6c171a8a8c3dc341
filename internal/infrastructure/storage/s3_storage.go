package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"love-story/memories-api/internal/config"
	"love-story/memories-api/internal/domain/persistence"
)

// S3BlobStore keeps media payloads in an S3-compatible bucket.
type S3BlobStore struct {
	client         *s3.Client
	bucket         string
	publicEndpoint string
	log            zerolog.Logger
}

// NewS3BlobStore creates an S3-backed payload store. Missing or placeholder
// credentials produce a ConfigError so the server fails fast at startup.
func NewS3BlobStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3BlobStore, error) {
	logger := log.With().Str("component", "s3-blob-store").Logger()

	if missing := missingS3Settings(cfg); len(missing) > 0 {
		return nil, &persistence.ConfigError{Backend: "remote", Missing: missing}
	}

	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.S3Endpoint,
				SigningRegion:     cfg.S3Region,
				HostnameImmutable: true,
			}, nil
		})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretKey,
			"",
		)),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	logger.Info().
		Str("endpoint", cfg.S3Endpoint).
		Str("bucket", cfg.S3Bucket).
		Bool("path_style", cfg.S3UsePathStyle).
		Msg("s3 blob store initialized")

	return &S3BlobStore{
		client:         client,
		bucket:         cfg.S3Bucket,
		publicEndpoint: strings.TrimSuffix(cfg.S3PublicEndpoint, "/"),
		log:            logger,
	}, nil
}

// missingS3Settings reports which required settings are absent or still carry
// template placeholder values.
func missingS3Settings(cfg *config.Config) []string {
	var missing []string
	check := func(name, value string) {
		value = strings.TrimSpace(value)
		if value == "" || strings.HasPrefix(value, "YOUR_") {
			missing = append(missing, name)
		}
	}
	check("MEMORIES_S3_ENDPOINT", cfg.S3Endpoint)
	check("MEMORIES_S3_BUCKET", cfg.S3Bucket)
	check("MEMORIES_S3_ACCESS_KEY_ID", cfg.S3AccessKeyID)
	check("MEMORIES_S3_SECRET_KEY", cfg.S3SecretKey)
	return missing
}

// Upload stores a payload in the bucket.
func (s *S3BlobStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}

	s.log.Debug().
		Str("key", key).
		Int64("bytes", size).
		Msg("payload uploaded to s3")

	return nil
}

// Open fetches a payload from the bucket for streaming.
func (s *S3BlobStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, "", persistence.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to fetch object from S3: %w", err)
	}

	contentType := "application/octet-stream"
	if out.ContentType != nil && *out.ContentType != "" {
		contentType = *out.ContentType
	}

	return out.Body, contentType, nil
}

// URL returns a public URL for the object when a public endpoint is
// configured, otherwise "" so callers stream the payload instead.
func (s *S3BlobStore) URL(ctx context.Context, key string) (string, error) {
	if s.publicEndpoint == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/%s/%s", s.publicEndpoint, s.bucket, key), nil
}

// Delete removes an object from the bucket. Deleting an absent key is not
// an error.
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// Compile-time check that S3BlobStore implements the BlobStore contract
var _ persistence.BlobStore = (*S3BlobStore)(nil)

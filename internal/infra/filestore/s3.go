package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

// S3 stores files in a bucket and serves them from a public base URL
// (bucket website, CDN or path-style endpoint).
type S3 struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	publicURL string
	timeout   time.Duration
}

func NewS3(cfg Config) (*S3, error) {
	if strings.TrimSpace(cfg.S3AccessKey) == "" ||
		strings.TrimSpace(cfg.S3KeyID) == "" ||
		strings.TrimSpace(cfg.S3Endpoint) == "" ||
		strings.TrimSpace(cfg.S3Region) == "" ||
		strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil, fmt.Errorf("%w", ErrIncompleteS3Config)
	}

	client := s3.New(s3.Options{
		UsePathStyle: true,
		BaseEndpoint: aws.String(cfg.S3Endpoint),
		Region:       cfg.S3Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.S3KeyID, cfg.S3AccessKey, ""),
		),
	})

	publicURL := strings.TrimRight(cfg.S3PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}

	timeout := cfg.S3Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &S3{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    cfg.S3Bucket,
		publicURL: publicURL,
		timeout:   timeout,
	}, nil
}

func (s *S3) Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	key = cleanKey(key)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		var mu manager.MultiUploadFailure
		if errors.As(err, &mu) {
			log.Error().Str("upload_id", mu.UploadID()).Err(mu).Msg("multi-upload failure")
			return "", fmt.Errorf("multi-upload failure (upload_id: %s): %w", mu.UploadID(), mu)
		}
		log.Error().Err(err).Str("key", key).Msg("upload failure")
		return "", fmt.Errorf("upload failure: %w", err)
	}

	log.Debug().Str("location", result.Location).Msg("uploaded file to s3 bucket")
	return s.publicURL + "/" + key, nil
}

// Open reads objects this store produced. Anything else is ErrForeignURL.
func (s *S3) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if !strings.HasPrefix(url, s.publicURL+"/") {
		return nil, ErrForeignURL
	}
	key := strings.TrimPrefix(url, s.publicURL+"/")

	object, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	return object.Body, nil
}

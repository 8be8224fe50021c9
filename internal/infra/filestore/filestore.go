package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a stored file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrForeignURL means the URL does not belong to this backend.
	ErrForeignURL = errors.New("url not served by this store")
	// ErrIncompleteS3Config is returned when the S3 configuration is incomplete.
	ErrIncompleteS3Config = errors.New("incomplete S3 configuration")
)

// Store persists uploaded assets and hands back the URL clients use to fetch them.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

type Config struct {
	Type      string
	PublicDir string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3KeyID     string
	S3AccessKey string
	S3PublicURL string
	S3Timeout   time.Duration
}

// New builds the backend selected by cfg.Type ("filesystem" or "s3").
func New(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "filesystem":
		return NewLocal(cfg.PublicDir)
	case "s3":
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

func cleanKey(key string) string {
	return strings.TrimLeft(strings.ReplaceAll(key, "\\", "/"), "/")
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"openhackathon/internal/config"
)

var ErrNotFound = errors.New("file not found")

// Storage keeps archived files under generated keys.
type Storage interface {
	// Store saves content under owner and returns the storage key
	Store(ctx context.Context, owner, filename string, content io.Reader, contentType string) (string, error)

	// Retrieve gets a file by storage key
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by storage key
	Delete(ctx context.Context, key string) error

	// GetURL returns a signed URL (S3) or a server path (local) for the file
	GetURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// New creates the storage backend selected by cfg.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case TypeLocal, "":
		basePath := cfg.LocalPath
		if basePath == "" {
			basePath = "./archives"
		}
		return NewLocalStorage(basePath)

	case TypeS3:
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("S3 storage requires a bucket and a region")
		}
		return NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// newKey lays files out as owner/year/month/uuid_filename.
func newKey(owner, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s_%s",
		sanitizeFilename(owner),
		now.Year(),
		now.Month(),
		uuid.New().String(),
		sanitizeFilename(filename),
	)
}

var filenameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", "..", "_", ":", "_", "*", "_",
	"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
)

func sanitizeFilename(filename string) string {
	return filenameReplacer.Replace(filename)
}

package core

import (
	"context"

	"github.com/markdave123-py/cardscan/internal/models"
)

// ObjectClient defines interactions with S3 or any object storage.
// It is abstract so you can replace AWS with MinIO, GCP, etc. easily.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}

// OCRClient reads the text lines of an image already held in object storage.
// Lines are returned in the order the service reports them.
type OCRClient interface {
	DetectLines(ctx context.Context, bucket, key string) ([]models.OCRLine, error)
}

package ocrclient

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/markdave123-py/cardscan/internal/core"
	"github.com/markdave123-py/cardscan/internal/models"
)

var _ core.OCRClient = (*TextractClient)(nil)

// textractAPI is the subset of the Textract client used here.
type textractAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// TextractClient runs Amazon Textract text detection on objects stored in S3.
type TextractClient struct {
	api     textractAPI
	timeout time.Duration
	logger  *slog.Logger
}

func NewTextractClient(awsCfg aws.Config, timeout time.Duration, logger *slog.Logger) *TextractClient {
	return newTextractClient(textract.NewFromConfig(awsCfg), timeout, logger)
}

func newTextractClient(api textractAPI, timeout time.Duration, logger *slog.Logger) *TextractClient {
	if timeout <= 0 {
		timeout = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TextractClient{api: api, timeout: timeout, logger: logger}
}

// DetectLines returns every block Textract reports for the object, in response order.
func (c *TextractClient) DetectLines(ctx context.Context, bucket, key string) ([]models.OCRLine, error) {
	ctxDetect, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.api.DetectDocumentText(ctxDetect, &textract.DetectDocumentTextInput{
		Document: &types.Document{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("textract detect: %w", err)
	}

	lines := make([]models.OCRLine, 0, len(out.Blocks))
	for _, b := range out.Blocks {
		lines = append(lines, models.OCRLine{
			Text:      aws.ToString(b.Text),
			BlockType: string(b.BlockType),
		})
	}

	c.logger.Debug("ocrclient.textract.done",
		"key", key,
		"blocks", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return lines, nil
}

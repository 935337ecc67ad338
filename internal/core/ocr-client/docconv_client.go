package ocrclient

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/cardscan/internal/core"
	"github.com/markdave123-py/cardscan/internal/models"
)

var _ core.OCRClient = (*DocconvClient)(nil)

// DocconvClient reads the stored object back and converts it locally with docconv.
// Images need docconv built with the "ocr" tag; scanned PDFs with a text layer work without it.
type DocconvClient struct {
	store          core.ObjectClient
	useReadability bool
	timeout        time.Duration
	logger         *slog.Logger
}

func NewDocconvClient(store core.ObjectClient, useReadability bool, timeout time.Duration, logger *slog.Logger) *DocconvClient {
	if timeout <= 0 {
		timeout = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocconvClient{store: store, useReadability: useReadability, timeout: timeout, logger: logger}
}

type convertResult struct {
	body string
	err  error
}

func (c *DocconvClient) DetectLines(ctx context.Context, bucket, key string) ([]models.OCRLine, error) {
	ctxConv, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.store.GetFile(ctxConv, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("docconv fetch: %w", err)
	}

	mimeType := docconv.MimeTypeByExtension(key)

	// docconv has no context support; the conversion keeps running if we give up on it.
	done := make(chan convertResult, 1)
	go func() {
		res, err := docconv.Convert(bytes.NewReader(data), mimeType, c.useReadability)
		if err != nil {
			done <- convertResult{err: err}
			return
		}
		done <- convertResult{body: res.Body}
	}()

	select {
	case <-ctxConv.Done():
		return nil, fmt.Errorf("docconv convert %s: %w", mimeType, ctxConv.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("docconv convert %s: %w", mimeType, r.err)
		}
		lines := splitLines(r.body)
		c.logger.Debug("ocrclient.docconv.done", "key", key, "mime", mimeType, "lines", len(lines))
		return lines, nil
	}
}

// splitLines turns converted text into LINE entries, skipping blank lines.
func splitLines(body string) []models.OCRLine {
	var out []models.OCRLine
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		out = append(out, models.OCRLine{Text: line, BlockType: models.BlockTypeLine})
	}
	return out
}

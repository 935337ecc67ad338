package extraction_engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/markdave123-py/cardscan/internal/core"
	"github.com/markdave123-py/cardscan/internal/models"
)

// ExtractInput is one card image to process.
//
// Image:       raw file bytes.
// FileName:    original name, used for the temporary object key.
// ContentType: MIME type; sniffed from Image when empty.
// Bucket:      store bucket the image is staged in.
type ExtractInput struct {
	Image       []byte
	FileName    string
	ContentType string
	Bucket      string
}

// Pipeline runs store, OCR, retrieval and model extraction for one image.
// It holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	store        core.ObjectClient
	ocr          core.OCRClient
	retriever    *Retriever
	orchestrator *Orchestrator
	cfg          ExtractConfig
	logger       *slog.Logger
}

func NewPipeline(
	store core.ObjectClient,
	ocr core.OCRClient,
	emb core.EmbeddingProvider,
	llm core.LLMProvider,
	cfg *ExtractConfig,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	c := cfg.withDefaults()
	return &Pipeline{
		store:        store,
		ocr:          ocr,
		retriever:    NewRetriever(emb, &c, logger),
		orchestrator: NewOrchestrator(llm, &c, logger),
		cfg:          c,
		logger:       logger,
	}
}

// Extract returns the record read from in.Image. The staged object is
// deleted before Extract returns, whatever the outcome.
func (p *Pipeline) Extract(ctx context.Context, in ExtractInput) (rec models.ExtractedRecord, err error) {
	if len(in.Image) == 0 {
		return models.ExtractedRecord{}, fmt.Errorf("%w: empty image", core.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Bucket) == "" {
		return models.ExtractedRecord{}, fmt.Errorf("%w: bucket is required", core.ErrInvalidInput)
	}

	key := p.objectKey(in.FileName)
	contentType := in.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(in.Image)
	}
	log := p.logger.With(slog.String("bucket", in.Bucket), slog.String("key", key))
	log.Info("pipeline.extract.start", slog.Int("bytes", len(in.Image)))

	uctx, cancel := context.WithTimeout(ctx, p.cfg.StoreTimeout)
	_, err = p.store.UploadFile(uctx, in.Bucket, key, in.Image, contentType)
	cancel()
	if err != nil {
		log.Error("pipeline.upload.failed", slog.Any("err", err))
		return models.ExtractedRecord{}, core.NewStoreFailure("upload", err)
	}

	defer func() {
		// Cleanup must run even when the caller's context is already done.
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.StoreTimeout)
		defer cancel()

		derr := p.store.DeleteFile(dctx, in.Bucket, key)
		switch {
		case derr == nil:
			log.Debug("pipeline.cleanup.done")
		case err != nil:
			log.Warn("pipeline.cleanup.failed", slog.Any("err", derr))
		default:
			log.Error("pipeline.cleanup.failed", slog.Any("err", derr))
			rec, err = models.ExtractedRecord{}, core.NewStoreFailure("delete", derr)
		}
	}()

	text, err := p.readText(ctx, in.Bucket, key)
	if err != nil {
		log.Error("pipeline.ocr.failed", slog.Any("err", err))
		return models.ExtractedRecord{}, err
	}

	chunks, err := p.retriever.Retrieve(ctx, text, ExtractionQuery)
	if err != nil {
		log.Error("pipeline.retrieve.failed", slog.Any("err", err))
		return models.ExtractedRecord{}, err
	}

	rec, err = p.orchestrator.Extract(ctx, chunks)
	if err != nil {
		log.Error("pipeline.model.failed", slog.Any("err", err))
		return models.ExtractedRecord{}, err
	}

	log.Info("pipeline.extract.done", slog.Int("chunks", len(chunks)))
	return rec, nil
}

// readText runs OCR and joins the LINE entries with single spaces.
func (p *Pipeline) readText(ctx context.Context, bucket, key string) (string, error) {
	octx, cancel := context.WithTimeout(ctx, p.cfg.OCRTimeout)
	defer cancel()

	lines, err := p.ocr.DetectLines(octx, bucket, key)
	if err != nil {
		return "", core.NewOCRFailure("detect lines", err)
	}

	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.BlockType == models.BlockTypeLine {
			texts = append(texts, l.Text)
		}
	}
	if len(texts) == 0 {
		return "", core.NewOCRFailure("detect lines", errNoLines)
	}
	return strings.Join(texts, " "), nil
}

var errNoLines = errors.New("no text lines detected")

// objectKey creates a consistent key layout: <prefix>/<uuid>/<clean filename>.
func (p *Pipeline) objectKey(filename string) string {
	filename = path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	filename = strings.ReplaceAll(filename, " ", "_")
	if filename == "" || filename == "." || filename == ".." || filename == "/" {
		filename = "upload"
	}
	return path.Join(p.cfg.KeyPrefix, uuid.NewString(), filename)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	appMiddleware "github.com/markdave123-py/cardscan/internal/api/middlewares"
	"github.com/markdave123-py/cardscan/internal/core"
	"github.com/markdave123-py/cardscan/internal/core/extraction_engine"
	"github.com/markdave123-py/cardscan/internal/models"
)

// Extractor runs one card extraction.
type Extractor interface {
	Extract(ctx context.Context, in extraction_engine.ExtractInput) (models.ExtractedRecord, error)
}

type ExtractHandler struct {
	extractor Extractor
	bucket    string
	maxBytes  int64
	logger    *slog.Logger
}

func NewExtractHandler(ex Extractor, bucket string, maxUploadMB int, logger *slog.Logger) *ExtractHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractHandler{extractor: ex, bucket: bucket, maxBytes: int64(maxUploadMB) << 20, logger: logger}
}

// Extract reads the multipart "file" field and returns the extracted record.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	log := h.logger.With(slog.String("file", header.Filename))
	if sub, ok := appMiddleware.SubjectFromContext(r.Context()); ok {
		log = log.With(slog.String("subject", sub))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read file")
		return
	}

	rec, err := h.extractor.Extract(r.Context(), extraction_engine.ExtractInput{
		Image:       data,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Bucket:      h.bucket,
	})
	if err != nil {
		status := statusFor(err)
		log.Error("api.extract.failed",
			slog.Int("status", status),
			slog.Any("err", err),
		)
		writeError(w, status, err.Error())
		return
	}

	log.Info("api.extract.done")
	writeJSON(w, http.StatusOK, rec)
}

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case core.IsProcessingFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package extraction_engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/markdave123-py/cardscan/internal/core"
	"github.com/markdave123-py/cardscan/internal/models"
)

// Retriever chunks one document, embeds it, and returns the chunks closest
// to a query. Nothing is cached between calls.
type Retriever struct {
	embedder core.EmbeddingProvider
	splitter TextSplitter
	topK     int
	timeout  time.Duration
	logger   *slog.Logger
}

func NewRetriever(emb core.EmbeddingProvider, cfg *ExtractConfig, logger *slog.Logger) *Retriever {
	c := cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder: emb,
		splitter: NewTextSplitter(c.ChunkSize, c.ChunkOverlap),
		topK:     c.TopK,
		timeout:  c.ModelTimeout,
		logger:   logger,
	}
}

// Retrieve returns at most topK chunks of text ordered by descending
// similarity to query. Empty text yields no chunks and no model call.
func (r *Retriever) Retrieve(ctx context.Context, text, query string) ([]models.TextChunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	chunks := chunkText(r.splitter, text)
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	ectx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vecs, err := r.embedder.EmbedTexts(ectx, texts)
	if err != nil {
		return nil, core.NewModelFailure("embed chunks", err)
	}
	idx, err := newVectorIndex(chunks, vecs)
	if err != nil {
		return nil, core.NewModelFailure("index chunks", err)
	}

	qv, err := r.embedder.EmbedTexts(ectx, []string{query})
	if err != nil {
		return nil, core.NewModelFailure("embed query", err)
	}
	if len(qv) != 1 {
		return nil, core.NewModelFailure("embed query", fmt.Errorf("embed size mismatch: got %d want 1", len(qv)))
	}

	hits, err := idx.topK(qv[0], r.topK)
	if err != nil {
		return nil, core.NewModelFailure("search chunks", err)
	}

	r.logger.Debug("retrieval.search.done",
		slog.Int("chunks", len(chunks)),
		slog.Int("hits", len(hits)),
	)

	out := make([]models.TextChunk, len(hits))
	for i, h := range hits {
		out[i] = models.TextChunk{Position: h.Pos, Text: h.Text}
	}
	return out, nil
}

// joinChunks renders retrieved chunks as model context.
func joinChunks(chunks []models.TextChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n---\n")
}

package extraction_engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/markdave123-py/cardscan/internal/core"
	"github.com/markdave123-py/cardscan/internal/models"
)

// Orchestrator asks the model for the record and turns its answer into one.
type Orchestrator struct {
	llm     core.LLMProvider
	timeout time.Duration
	logger  *slog.Logger
}

func NewOrchestrator(llm core.LLMProvider, cfg *ExtractConfig, logger *slog.Logger) *Orchestrator {
	c := cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{llm: llm, timeout: c.ModelTimeout, logger: logger}
}

// Extract prompts the model with the retrieved chunks. A response that is not
// a usable JSON record falls back to regex extraction over the response text.
// Only a failed model call is an error.
func (o *Orchestrator) Extract(ctx context.Context, chunks []models.TextChunk) (models.ExtractedRecord, error) {
	gctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	raw, err := o.llm.Generate(gctx, systemPrompt, buildUserPrompt(chunks, ExtractionQuery))
	if err != nil {
		return models.ExtractedRecord{}, core.NewModelFailure("generate", err)
	}
	o.logger.Debug("llm.extract.response",
		slog.Int("chunks", len(chunks)),
		slog.Int("response_len", len(raw)),
		slog.Duration("elapsed", time.Since(start)),
	)

	res := ParseModelResponse(raw)
	if !res.OK {
		o.logger.Warn("llm.extract.parse_failed", slog.String("reason", res.Reason))
		return ExtractUsingRegex(raw), nil
	}

	rec := res.Record
	if res.Present[models.FieldProfession] && res.Present[models.FieldSponsor] {
		rec = Disambiguate(rec)
	}
	return rec, nil
}

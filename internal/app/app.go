// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/markdave123-py/cardscan/internal/config"
	"github.com/markdave123-py/cardscan/internal/core"
	"github.com/markdave123-py/cardscan/internal/core/extraction_engine"
	"github.com/markdave123-py/cardscan/internal/core/llm"
	objectclient "github.com/markdave123-py/cardscan/internal/core/object-client"
	ocrclient "github.com/markdave123-py/cardscan/internal/core/ocr-client"
)

type App struct {
	ObjectClient core.ObjectClient
	OCRClient    core.OCRClient
	Pipeline     *extraction_engine.Pipeline
	Server       *Server
	Logger       *slog.Logger

	closers []io.Closer
}

// NewApp builds the extraction pipeline and wires the HTTP server around it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a, err := NewPipeline(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Server = NewServer(cfg, a.Pipeline, a.Logger)
	return a, nil
}

// NewPipeline builds every collaborator named by cfg and the extraction
// pipeline, without the HTTP layer. Server is left nil.
func NewPipeline(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	logger := NewLogger(cfg.LogLevel)
	a := &App{Logger: logger}

	objClient, err := objectclient.NewS3Client(appCtx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.ObjectClient = objClient
	logger.Info("app.object_client.ready", slog.String("region", cfg.AwsRegion))

	ocr, err := newOCRClient(appCtx, cfg, objClient, logger)
	if err != nil {
		return nil, err
	}
	a.OCRClient = ocr
	logger.Info("app.ocr_client.ready", slog.String("provider", cfg.OCRProvider))

	embedder, llmProvider, err := a.newModelProviders(appCtx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("app.model_providers.ready",
		slog.String("provider", cfg.AIProvider),
		slog.Float64("rps", cfg.ModelRPS),
	)

	a.Pipeline = extraction_engine.NewPipeline(objClient, ocr, embedder, llmProvider, extraction_engine.NewExtractConfig(cfg), logger)
	return a, nil
}

func newOCRClient(ctx context.Context, cfg *config.Config, store core.ObjectClient, logger *slog.Logger) (core.OCRClient, error) {
	switch cfg.OCRProvider {
	case "docconv":
		useReadability := false
		return ocrclient.NewDocconvClient(store, useReadability, cfg.OCRTimeout, logger), nil
	case "textract", "":
		awsCfg, err := cfg.AWS(ctx)
		if err != nil {
			return nil, err
		}
		return ocrclient.NewTextractClient(awsCfg, cfg.OCRTimeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown OCR provider %q", cfg.OCRProvider)
	}
}

// newModelProviders returns the embedder and LLM, both behind one shared limiter.
func (a *App) newModelProviders(ctx context.Context, cfg *config.Config) (core.EmbeddingProvider, core.LLMProvider, error) {
	var (
		emb core.EmbeddingProvider
		gen core.LLMProvider
	)

	switch cfg.AIProvider {
	case "openai":
		e, err := llm.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbedModel)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
		}
		g, err := llm.NewOpenAILLM(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.GenModel)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the llm, %w", err)
		}
		emb, gen = e, g
	case "gemini", "":
		e, err := llm.NewGeminiEmbedder(ctx, cfg.AIAPIKey, cfg.EmbedModel)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
		}
		a.closers = append(a.closers, e)
		g, err := llm.NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the llm, %w", err)
		}
		a.closers = append(a.closers, g)
		emb, gen = e, g
	default:
		return nil, nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}

	limiter := llm.NewLimiter(cfg.ModelRPS)
	return llm.NewLimitedEmbedder(limiter, emb), llm.NewLimitedLLM(limiter, gen), nil
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.Warn("app.close.failed", slog.Any("err", err))
		}
	}
	a.closers = nil
}

// NewLogger returns a JSON slog logger at the named level.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

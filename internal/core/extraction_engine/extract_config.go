package extraction_engine

import (
	"time"

	"github.com/markdave123-py/cardscan/internal/config"
)

// Defaults sized for a single small card document.
const (
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 32
	DefaultTopK         = 4
	DefaultKeyPrefix    = "emirates_ids"
)

// ExtractConfig tunes one extraction pipeline.
//
// ChunkSize:     target chunk length in characters.
// ChunkOverlap:  characters carried from the end of one chunk into the next.
// TopK:          number of chunks handed to the model.
// KeyPrefix:     first path segment of temporary object keys.
// *Timeout:      bound on each call to the store, OCR service and model.
type ExtractConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	KeyPrefix    string

	StoreTimeout time.Duration
	OCRTimeout   time.Duration
	ModelTimeout time.Duration
}

// NewExtractConfig maps the process config onto pipeline settings.
func NewExtractConfig(cfg *config.Config) *ExtractConfig {
	return &ExtractConfig{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		TopK:         cfg.TopK,
		KeyPrefix:    cfg.KeyPrefix,
		StoreTimeout: cfg.StoreTimeout,
		OCRTimeout:   cfg.OCRTimeout,
		ModelTimeout: cfg.ModelTimeout,
	}
}

func (c *ExtractConfig) withDefaults() ExtractConfig {
	out := ExtractConfig{}
	if c != nil {
		out = *c
	}
	if out.ChunkSize <= 0 {
		out.ChunkSize = DefaultChunkSize
	}
	if out.ChunkOverlap < 0 || out.ChunkOverlap >= out.ChunkSize {
		out.ChunkOverlap = DefaultChunkOverlap
		if out.ChunkOverlap >= out.ChunkSize {
			out.ChunkOverlap = out.ChunkSize / 4
		}
	}
	if out.TopK <= 0 {
		out.TopK = DefaultTopK
	}
	if out.KeyPrefix == "" {
		out.KeyPrefix = DefaultKeyPrefix
	}
	if out.StoreTimeout <= 0 {
		out.StoreTimeout = 2 * time.Minute
	}
	if out.OCRTimeout <= 0 {
		out.OCRTimeout = time.Minute
	}
	if out.ModelTimeout <= 0 {
		out.ModelTimeout = 90 * time.Second
	}
	return out
}

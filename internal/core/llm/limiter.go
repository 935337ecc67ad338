package llm

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/markdave123-py/cardscan/internal/core"
)

type limitedLLM struct {
	limiter  *rate.Limiter
	provider core.LLMProvider
}

// NewLimitedLLM throttles Generate calls through l. A nil limiter disables throttling.
func NewLimitedLLM(l *rate.Limiter, p core.LLMProvider) core.LLMProvider {
	if l == nil {
		return p
	}
	return &limitedLLM{limiter: l, provider: p}
}

func (p *limitedLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.provider.Generate(ctx, systemPrompt, userPrompt)
}

type limitedEmbedder struct {
	limiter  *rate.Limiter
	provider core.EmbeddingProvider
}

// NewLimitedEmbedder throttles EmbedTexts calls through l. A nil limiter disables throttling.
func NewLimitedEmbedder(l *rate.Limiter, p core.EmbeddingProvider) core.EmbeddingProvider {
	if l == nil {
		return p
	}
	return &limitedEmbedder{limiter: l, provider: p}
}

func (p *limitedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.provider.EmbedTexts(ctx, texts)
}

// NewLimiter returns a limiter allowing rps calls per second, or nil when rps <= 0.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

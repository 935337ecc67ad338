package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type countingLLM struct{ calls int }

func (c *countingLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls++
	return "{}", nil
}

type countingEmbedder struct{ calls int }

func (c *countingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	return make([][]float32, len(texts)), nil
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.Nil(t, NewLimiter(-1))

	l := NewLimiter(0.5)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
	assert.Equal(t, rate.Limit(0.5), l.Limit())

	assert.Equal(t, 3, NewLimiter(3).Burst())
}

func TestLimitedLLM_NilLimiterPassesThrough(t *testing.T) {
	inner := &countingLLM{}
	p := NewLimitedLLM(nil, inner)

	assert.Same(t, inner, p)
}

func TestLimitedLLM_Generate(t *testing.T) {
	inner := &countingLLM{}
	p := NewLimitedLLM(rate.NewLimiter(rate.Inf, 1), inner)

	out, err := p.Generate(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, 1, inner.calls)
}

func TestLimitedLLM_WaitHonoursContext(t *testing.T) {
	inner := &countingLLM{}
	l := rate.NewLimiter(rate.Every(time.Hour), 1)
	l.Allow() // drain the only token
	p := NewLimitedLLM(l, inner)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, "sys", "user")
	require.Error(t, err)
	assert.Equal(t, 0, inner.calls)
}

func TestLimitedEmbedder(t *testing.T) {
	inner := &countingEmbedder{}
	assert.Same(t, inner, NewLimitedEmbedder(nil, inner))

	p := NewLimitedEmbedder(rate.NewLimiter(rate.Inf, 1), inner)
	vecs, err := p.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, 1, inner.calls)
}

func TestProviderConstructors_RequireKey(t *testing.T) {
	_, err := NewOpenAILLM("", "", "")
	assert.Error(t, err)

	_, err = NewOpenAIEmbedder("", "", "")
	assert.Error(t, err)

	_, err = NewGeminiLLM(context.Background(), "", "")
	assert.Error(t, err)

	_, err = NewGeminiEmbedder(context.Background(), "", "")
	assert.Error(t, err)
}

func TestNewOpenAILLM_DefaultModel(t *testing.T) {
	l, err := NewOpenAILLM("sk-test", "http://localhost:8080/v1", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", l.modelName)

	e, err := NewOpenAIEmbedder("sk-test", "", "")
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", e.modelName)
}

package extraction_engine

import (
	"context"
	"strings"
	"sync"

	"github.com/markdave123-py/cardscan/internal/models"
)

type fakeStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	uploads      []string
	deletes      []string
	uploadErr    error
	deleteErr    error
	deleteCtxErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) UploadFile(_ context.Context, bucket, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, key)
	s.objects[bucket+"/"+key] = data
	return "https://" + bucket + "/" + key, nil
}

func (s *fakeStore) DeleteFile(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, key)
	s.deleteCtxErr = ctx.Err()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, bucket+"/"+key)
	return nil
}

func (s *fakeStore) GetFile(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[bucket+"/"+key], nil
}

type fakeOCR struct {
	lines []models.OCRLine
	err   error
	calls int
}

func (o *fakeOCR) DetectLines(context.Context, string, string) ([]models.OCRLine, error) {
	o.calls++
	return o.lines, o.err
}

// letterEmbedder embeds text as its letter histogram, so texts sharing
// words land close together.
type letterEmbedder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (e *letterEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls = append(e.calls, texts)
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, 26)
		for _, r := range strings.ToLower(t) {
			if r >= 'a' && r <= 'z' {
				v[r-'a']++
			}
		}
		out[i] = v
	}
	return out, nil
}

type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	system   string
	user     string
	calls    int
}

func (l *fakeLLM) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	l.system, l.user = systemPrompt, userPrompt
	return l.response, l.err
}

func lineBlocks(texts ...string) []models.OCRLine {
	out := make([]models.OCRLine, 0, len(texts))
	for _, t := range texts {
		out = append(out, models.OCRLine{Text: t, BlockType: models.BlockTypeLine})
	}
	return out
}

package extraction_engine

import (
	"strings"
	"unicode/utf8"
)

// TextSplitter cuts text into chunks of at most ChunkSize characters, trying
// each separator in turn so that chunks break between paragraphs, then lines,
// then words, and only split inside a word as a last resort.
//
// ChunkSize:     maximum chunk length as measured by LenFunc.
// ChunkOverlap:  length carried from the tail of one chunk into the next.
// Separators:    boundaries in priority order; "" splits between characters.
// LenFunc:       length function, defaults to rune count.
type TextSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
	LenFunc      func(string) int
}

func NewTextSplitter(chunkSize, chunkOverlap int) TextSplitter {
	return TextSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   []string{"\n\n", "\n", " ", ""},
		LenFunc:      utf8.RuneCountInString,
	}
}

// Split returns the chunks of text in source order.
func (s TextSplitter) Split(text string) []string {
	return s.split(text, s.Separators)
}

func (s TextSplitter) split(text string, separators []string) []string {
	separator := ""
	var next []string
	for i, sep := range separators {
		if sep == "" {
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	var (
		out  []string
		good []string
	)
	for _, part := range splitOn(text, separator) {
		if s.LenFunc(part) < s.ChunkSize {
			good = append(good, part)
			continue
		}
		if len(good) > 0 {
			out = append(out, s.merge(good, separator)...)
			good = nil
		}
		if len(next) == 0 {
			out = append(out, part)
		} else {
			out = append(out, s.split(part, next)...)
		}
	}
	if len(good) > 0 {
		out = append(out, s.merge(good, separator)...)
	}
	return out
}

// merge packs small pieces into chunks no longer than ChunkSize, seeding each
// new chunk with the tail of the previous one up to ChunkOverlap.
func (s TextSplitter) merge(pieces []string, separator string) []string {
	sepLen := s.LenFunc(separator)
	joinCost := func(n int) int {
		if n > 0 {
			return sepLen
		}
		return 0
	}

	var (
		docs    []string
		current []string
		total   int
	)
	for _, p := range pieces {
		l := s.LenFunc(p)
		if total+l+joinCost(len(current)) > s.ChunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, separator)); doc != "" {
				docs = append(docs, doc)
			}
			// Drop from the front until only the overlap remains and the next piece fits.
			for len(current) > 0 && (total > s.ChunkOverlap || total+l+joinCost(len(current)) > s.ChunkSize) {
				total -= s.LenFunc(current[0]) + joinCost(len(current)-1)
				current = current[1:]
			}
		}
		current = append(current, p)
		total += l + joinCost(len(current)-1)
	}
	if doc := strings.TrimSpace(strings.Join(current, separator)); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitOn splits text on sep, dropping empty pieces. An empty sep splits into characters.
func splitOn(text, sep string) []string {
	var parts []string
	if sep == "" {
		parts = make([]string, 0, len(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(text, sep)
	}

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// chunkText splits text into positioned chunks.
func chunkText(s TextSplitter, text string) []chunk {
	pieces := s.Split(text)
	out := make([]chunk, 0, len(pieces))
	for i, p := range pieces {
		out = append(out, chunk{Pos: i, Text: p})
	}
	return out
}

// chunk is the internal representation passed through retrieval.
//
// Pos:  stable, zero-based position of the chunk inside the text.
// Text: chunk content.
type chunk struct {
	Pos  int
	Text string
}

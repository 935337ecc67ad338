package extraction_engine

import (
	"fmt"
	"sort"
)

// vectorIndex is a flat, exact nearest-neighbour index over one document's
// chunks. It lives for a single retrieval call.
type vectorIndex struct {
	chunks []chunk
	vecs   [][]float32
	dim    int
}

func newVectorIndex(chunks []chunk, vecs [][]float32) (*vectorIndex, error) {
	if len(vecs) != len(chunks) {
		return nil, fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), len(chunks))
	}
	idx := &vectorIndex{chunks: chunks, vecs: vecs}
	for i, v := range vecs {
		if len(v) == 0 {
			return nil, fmt.Errorf("empty embedding for chunk %d", i)
		}
		if idx.dim == 0 {
			idx.dim = len(v)
		}
		if len(v) != idx.dim {
			return nil, fmt.Errorf("embedding dimension mismatch at chunk %d: got %d want %d", i, len(v), idx.dim)
		}
	}
	return idx, nil
}

// topK returns up to k chunks ordered by ascending Euclidean distance to
// query. Ties keep document order.
func (x *vectorIndex) topK(query []float32, k int) ([]chunk, error) {
	if len(x.chunks) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("query dimension mismatch: got %d want %d", len(query), x.dim)
	}

	type scored struct {
		c    chunk
		dist float64
	}
	hits := make([]scored, len(x.chunks))
	for i := range x.chunks {
		hits[i] = scored{c: x.chunks[i], dist: squaredL2(query, x.vecs[i])}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	if k > len(hits) {
		k = len(hits)
	}
	out := make([]chunk, k)
	for i := 0; i < k; i++ {
		out[i] = hits[i].c
	}
	return out, nil
}

// squaredL2 ranks the same as L2 without the square root.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

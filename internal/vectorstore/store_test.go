package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	out := normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(out[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(out[1]), 1e-6)

	// Zero vector stays zero instead of dividing by zero
	zero := normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)
}

func TestDotProductOfNormalizedVectorsIsCosine(t *testing.T) {
	a := normalize([]float32{1, 0})
	b := normalize([]float32{1, 1})

	assert.InDelta(t, 0.7071, dotProduct(a, b), 1e-3)
	assert.InDelta(t, 1.0, dotProduct(a, a), 1e-6)
}

func TestVectorBytesRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3.75, 0}

	out := bytesToFloat32s(float32sToBytes(in), len(in))

	assert.Equal(t, in, out)
}

func TestBytesToFloat32sTruncatedBlob(t *testing.T) {
	blob := float32sToBytes([]float32{1, 2})

	// Declared dimensions exceed the blob; missing entries read as zero
	out := bytesToFloat32s(blob, 4)

	require.Len(t, out, 4)
	assert.Equal(t, float32(1), out[0])
	assert.Equal(t, float32(2), out[1])
	assert.Zero(t, out[2])
	assert.Zero(t, out[3])
}

func TestRankTopK(t *testing.T) {
	candidates := []ScoredChunk{
		{Chunk: Chunk{ChunkID: "a"}, Score: 0.2},
		{Chunk: Chunk{ChunkID: "b"}, Score: 0.9},
		{Chunk: Chunk{ChunkID: "c"}, Score: 0.5},
		{Chunk: Chunk{ChunkID: "d"}, Score: 0.7},
	}

	top := rankTopK(candidates, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].ChunkID)
	assert.Equal(t, "d", top[1].ChunkID)
}

func TestRankTopK_FewerCandidatesThanLimit(t *testing.T) {
	candidates := []ScoredChunk{
		{Chunk: Chunk{ChunkID: "a"}, Score: 0.2},
	}

	top := rankTopK(candidates, 5)

	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].ChunkID)
}

// Package vectorstore persists document chunks with their embedding
// vectors and ranks them by cosine similarity. Collections are small
// (one document each), so brute-force search over the collection's rows
// returns exact results.
package vectorstore

import (
	"container/heap"
	"context"
	"encoding/binary"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Chunk is a slice of a source document
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	Content string `json:"content"`
}

// ScoredChunk pairs a chunk with its similarity to the query
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// StoreInterface defines the vector store operations
type StoreInterface interface {
	UpsertChunks(ctx context.Context, collection string, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, collection string, queryVec []float32, limit int) ([]ScoredChunk, error)
	HasCollection(ctx context.Context, collection string) (bool, error)
	DeleteCollection(ctx context.Context, collection string) (int64, error)
}

// Store is a pgx-backed vector store
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new vector store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

var _ StoreInterface = (*Store)(nil)

// UpsertChunks stores chunks with their vectors under a collection.
// Vectors are normalized on insert so dot product equals cosine
// similarity at query time.
func (s *Store) UpsertChunks(ctx context.Context, collection string, chunks []Chunk, vectors [][]float32) error {
	for i, chunk := range chunks {
		var blob []byte
		var dims int
		if i < len(vectors) {
			normalized := normalize(vectors[i])
			blob = float32sToBytes(normalized)
			dims = len(normalized)
		}
		_, err := s.db.Exec(ctx, `
			INSERT INTO document_chunks (collection, chunk_id, content, embedding, dimensions)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (collection, chunk_id) DO UPDATE SET
				content = EXCLUDED.content,
				embedding = EXCLUDED.embedding,
				dimensions = EXCLUDED.dimensions`,
			collection, chunk.ChunkID, chunk.Content, blob, dims,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Search returns the collection's top chunks by cosine similarity
func (s *Store) Search(ctx context.Context, collection string, queryVec []float32, limit int) ([]ScoredChunk, error) {
	rows, err := s.db.Query(ctx, `
		SELECT chunk_id, content, embedding, dimensions
		FROM document_chunks
		WHERE collection = $1`, collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []ScoredChunk
	var candidateVecs [][]float32
	for rows.Next() {
		var chunk Chunk
		var blob []byte
		var dims int
		if err := rows.Scan(&chunk.ChunkID, &chunk.Content, &blob, &dims); err != nil {
			return nil, err
		}
		candidates = append(candidates, ScoredChunk{Chunk: chunk})
		candidateVecs = append(candidateVecs, bytesToFloat32s(blob, dims))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query := normalize(queryVec)
	for i := range candidates {
		if len(candidateVecs[i]) == len(query) {
			candidates[i].Score = dotProduct(query, candidateVecs[i])
		}
	}
	return rankTopK(candidates, limit), nil
}

// HasCollection reports whether any chunks exist under the collection
func (s *Store) HasCollection(ctx context.Context, collection string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM document_chunks WHERE collection = $1)`,
		collection,
	).Scan(&exists)
	return exists, err
}

// DeleteCollection removes all chunks under a collection and returns
// the number of rows deleted.
func (s *Store) DeleteCollection(ctx context.Context, collection string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM document_chunks WHERE collection = $1`, collection,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// rankTopK selects the highest-scoring chunks using a min-heap so only
// the top K candidates are tracked.
func rankTopK(candidates []ScoredChunk, limit int) []ScoredChunk {
	if limit <= 0 {
		limit = 10
	}

	h := &minHeap{}
	heap.Init(h)
	for _, c := range candidates {
		if h.Len() < limit {
			heap.Push(h, c)
		} else if c.Score > (*h)[0].Score {
			(*h)[0] = c
			heap.Fix(h, 0)
		}
	}

	results := make([]ScoredChunk, h.Len())
	for i := len(results) - 1; i >= 0; i-- {
		results[i] = heap.Pop(h).(ScoredChunk)
	}
	return results
}

// minHeap implements heap.Interface for top-K selection
type minHeap []ScoredChunk

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i].Score < h[j].Score }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) {
	*h = append(*h, x.(ScoredChunk))
}
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(v))
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func float32sToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32s(b []byte, dims int) []float32 {
	v := make([]float32, dims)
	for i := 0; i < dims && i*4+4 <= len(b); i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

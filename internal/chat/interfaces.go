package chat

import (
	"context"

	"github.com/triptally/expense-assistant/internal/llm"
	"github.com/triptally/expense-assistant/internal/vectorstore"
)

// VectorStore defines the vector store operations used by the chat service
type VectorStore interface {
	UpsertChunks(ctx context.Context, collection string, chunks []vectorstore.Chunk, vectors [][]float32) error
	Search(ctx context.Context, collection string, queryVec []float32, limit int) ([]vectorstore.ScoredChunk, error)
	HasCollection(ctx context.Context, collection string) (bool, error)
	DeleteCollection(ctx context.Context, collection string) (int64, error)
}

// Embedder produces embedding vectors for text inputs
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// CompletionClient defines the LLM operations used by the chat service
type CompletionClient interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
	Model() string
}

// Fetcher retrieves raw document bytes by storage reference
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

package expenses

import (
	"context"

	"github.com/google/uuid"

	"github.com/triptally/expense-assistant/internal/llm"
)

// RepositoryInterface defines the interface for expense repository operations
type RepositoryInterface interface {
	Create(ctx context.Context, expense *Expense) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Expense, error)
}

// CompletionClient is the slice of the LLM client the parser needs
type CompletionClient interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
	VisionModel() string
}

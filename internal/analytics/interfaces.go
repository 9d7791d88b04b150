package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/triptally/expense-assistant/internal/llm"
)

// RepositoryInterface defines all repository operations for trip analytics
type RepositoryInterface interface {
	GetTrip(ctx context.Context, tripID uuid.UUID) (*Trip, error)
	TotalExpenses(ctx context.Context, tripID uuid.UUID) (float64, error)
	CategoryTotals(ctx context.Context, tripID uuid.UUID) ([]CategoryTotal, error)
	DailyTotals(ctx context.Context, tripID uuid.UUID) ([]DailyTotal, error)
}

// CompletionClient defines the LLM operations used for spending insights
type CompletionClient interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
	Model() string
}

package fraud

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/triptally/expense-assistant/internal/expenses"
	"github.com/triptally/expense-assistant/internal/llm"
)

// ExpenseStore is the slice of the expense repository the fraud check needs
type ExpenseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*expenses.Expense, error)
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]expenses.Expense, error)
}

// RepositoryInterface defines the interface for fraud check persistence
type RepositoryInterface interface {
	InsertFraudCheck(ctx context.Context, check *FraudCheck) (uuid.UUID, error)
	GetFraudCheck(ctx context.Context, id uuid.UUID) (*FraudCheck, error)
	ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]FraudCheck, error)
}

// CompletionClient is the slice of the LLM client the analyzers need
type CompletionClient interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
	Model() string
	VisionModel() string
}

// Analyzer is one of the four concurrently dispatched analysis passes
type Analyzer interface {
	Category() string
	Analyze(ctx context.Context, expense *expenses.Expense, documentURL string) (*AnalysisResult, error)
}

// Cache is the slice of the redis client the tool executor uses
type Cache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

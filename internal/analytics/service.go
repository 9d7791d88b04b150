// Package analytics aggregates trip spending and generates model-backed
// insight summaries.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triptally/expense-assistant/internal/llm"
	"github.com/triptally/expense-assistant/pkg/logger"
)

const insightsPromptFormat = `Analyze the following trip expense data and provide insights:
%s

Please provide:
1. Key spending patterns
2. Budget compliance analysis
3. Recommendations for future trips
4. Anomaly detection in expenses
`

// Service handles trip analytics business logic
type Service struct {
	repo   RepositoryInterface
	client CompletionClient
}

// NewService creates a new analytics service
func NewService(repo RepositoryInterface, client CompletionClient) *Service {
	return &Service{repo: repo, client: client}
}

// GetTripAnalytics aggregates a trip's spending and attaches an insight
// summary. A failed insight call degrades the response rather than
// failing it.
func (s *Service) GetTripAnalytics(ctx context.Context, tripID uuid.UUID) (*TripAnalytics, error) {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.TotalExpenses(ctx, tripID)
	if err != nil {
		return nil, err
	}
	categoryTotals, err := s.repo.CategoryTotals(ctx, tripID)
	if err != nil {
		return nil, err
	}
	dailyTotals, err := s.repo.DailyTotals(ctx, tripID)
	if err != nil {
		return nil, err
	}

	duration := int(trip.EndDate.Sub(trip.StartDate).Hours() / 24)
	if duration < 1 {
		duration = 1
	}

	result := &TripAnalytics{
		TripID:              trip.ID,
		TripName:            trip.Name,
		Budget:              trip.Budget,
		TotalExpenses:       total,
		BudgetRemaining:     trip.Budget - total,
		CategoryTotals:      categoryTotals,
		DailyTrend:          dailyTotals,
		TripDurationDays:    duration,
		AverageDailyExpense: total / float64(duration),
	}
	result.Insights = s.generateInsights(ctx, result)
	return result, nil
}

// generateInsights asks the model for a spending analysis of the
// aggregated trip data.
func (s *Service) generateInsights(ctx context.Context, analytics *TripAnalytics) string {
	categories := make(map[string]float64, len(analytics.CategoryTotals))
	for _, ct := range analytics.CategoryTotals {
		categories[ct.Category] = ct.Total
	}

	data, err := json.MarshalIndent(map[string]interface{}{
		"trip_name":             analytics.TripName,
		"total_expenses":        analytics.TotalExpenses,
		"budget":                analytics.Budget,
		"expense_categories":    categories,
		"trip_duration":         analytics.TripDurationDays,
		"average_daily_expense": analytics.AverageDailyExpense,
	}, "", "  ")
	if err != nil {
		logger.Warn("failed to encode analytics for insights", zap.Error(err))
		return ""
	}

	resp, err := s.client.Complete(ctx, llm.CompletionRequest{
		Model: s.client.Model(),
		Messages: []llm.Message{
			llm.UserMessage(fmt.Sprintf(insightsPromptFormat, data)),
		},
	})
	if err != nil {
		logger.Warn("insight generation failed",
			zap.String("trip_id", analytics.TripID.String()), zap.Error(err))
		return ""
	}
	return resp.Content
}

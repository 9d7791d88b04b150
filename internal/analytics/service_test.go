package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/triptally/expense-assistant/internal/llm"
	"github.com/triptally/expense-assistant/pkg/common"
)

// MockRepository implements RepositoryInterface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetTrip(ctx context.Context, tripID uuid.UUID) (*Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trip), args.Error(1)
}

func (m *MockRepository) TotalExpenses(ctx context.Context, tripID uuid.UUID) (float64, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) CategoryTotals(ctx context.Context, tripID uuid.UUID) ([]CategoryTotal, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CategoryTotal), args.Error(1)
}

func (m *MockRepository) DailyTotals(ctx context.Context, tripID uuid.UUID) ([]DailyTotal, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DailyTotal), args.Error(1)
}

// MockCompletionClient implements CompletionClient for testing
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.CompletionResponse), args.Error(1)
}

func (m *MockCompletionClient) Model() string { return "test-model" }

func testTrip() *Trip {
	return &Trip{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Name:      "Berlin Offsite",
		Budget:    2000,
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetTripAnalytics(t *testing.T) {
	repo := new(MockRepository)
	client := new(MockCompletionClient)
	service := NewService(repo, client)

	trip := testTrip()
	repo.On("GetTrip", mock.Anything, trip.ID).Return(trip, nil)
	repo.On("TotalExpenses", mock.Anything, trip.ID).Return(1500.0, nil)
	repo.On("CategoryTotals", mock.Anything, trip.ID).Return([]CategoryTotal{
		{Category: "hotel", Total: 900},
		{Category: "food", Total: 600},
	}, nil)
	repo.On("DailyTotals", mock.Anything, trip.ID).Return([]DailyTotal{
		{Date: trip.StartDate, Total: 800},
		{Date: trip.StartDate.AddDate(0, 0, 1), Total: 700},
	}, nil)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.CompletionRequest) bool {
		content, ok := req.Messages[0].Content.(string)
		return ok &&
			strings.Contains(content, "Berlin Offsite") &&
			strings.Contains(content, "Budget compliance analysis")
	})).Return(&llm.CompletionResponse{Content: "Hotel dominates spending."}, nil)

	analytics, err := service.GetTripAnalytics(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.Equal(t, "Berlin Offsite", analytics.TripName)
	assert.Equal(t, 1500.0, analytics.TotalExpenses)
	assert.Equal(t, 500.0, analytics.BudgetRemaining)
	assert.Equal(t, 4, analytics.TripDurationDays)
	assert.InDelta(t, 375.0, analytics.AverageDailyExpense, 1e-9)
	assert.Equal(t, "Hotel dominates spending.", analytics.Insights)
}

func TestGetTripAnalytics_TripNotFound(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(MockCompletionClient))

	tripID := uuid.New()
	repo.On("GetTrip", mock.Anything, tripID).
		Return(nil, common.NewNotFoundError("trip not found"))

	_, err := service.GetTripAnalytics(context.Background(), tripID)

	assert.True(t, common.IsNotFound(err))
	repo.AssertNotCalled(t, "TotalExpenses")
}

func TestGetTripAnalytics_InsightFailureIsNonFatal(t *testing.T) {
	repo := new(MockRepository)
	client := new(MockCompletionClient)
	service := NewService(repo, client)

	trip := testTrip()
	repo.On("GetTrip", mock.Anything, trip.ID).Return(trip, nil)
	repo.On("TotalExpenses", mock.Anything, trip.ID).Return(100.0, nil)
	repo.On("CategoryTotals", mock.Anything, trip.ID).Return([]CategoryTotal{}, nil)
	repo.On("DailyTotals", mock.Anything, trip.ID).Return([]DailyTotal{}, nil)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))

	analytics, err := service.GetTripAnalytics(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.Empty(t, analytics.Insights)
	assert.Equal(t, 100.0, analytics.TotalExpenses)
}

func TestGetTripAnalytics_ZeroDurationTrip(t *testing.T) {
	repo := new(MockRepository)
	client := new(MockCompletionClient)
	service := NewService(repo, client)

	trip := testTrip()
	trip.EndDate = trip.StartDate
	repo.On("GetTrip", mock.Anything, trip.ID).Return(trip, nil)
	repo.On("TotalExpenses", mock.Anything, trip.ID).Return(300.0, nil)
	repo.On("CategoryTotals", mock.Anything, trip.ID).Return([]CategoryTotal{}, nil)
	repo.On("DailyTotals", mock.Anything, trip.ID).Return([]DailyTotal{}, nil)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(&llm.CompletionResponse{Content: "ok"}, nil)

	analytics, err := service.GetTripAnalytics(context.Background(), trip.ID)

	require.NoError(t, err)
	// Same-day trips count as one day so the daily average stays finite
	assert.Equal(t, 1, analytics.TripDurationDays)
	assert.InDelta(t, 300.0, analytics.AverageDailyExpense, 1e-9)
}

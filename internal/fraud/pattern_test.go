package fraud

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/triptally/expense-assistant/internal/expenses"
)

func historyExpense(userID uuid.UUID, amount float64, date time.Time, vendor, category string) expenses.Expense {
	return expenses.Expense{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          &amount,
		TransactionDate: &date,
		VendorName:      &vendor,
		Category:        &category,
	}
}

func TestPatternAnalyzer_EmptyHistory(t *testing.T) {
	store := new(MockExpenseStore)
	analyzer := NewPatternAnalyzer(store)
	expense := testExpense("food")

	store.On("ListRecentByUser", mock.Anything, expense.UserID, 10).Return(nil, nil)

	result, err := analyzer.Analyze(context.Background(), expense, "")

	require.NoError(t, err)
	assert.Empty(t, result.RiskFactors)
	assert.Empty(t, result.VerificationResults)
}

func TestPatternAnalyzer_UnusualAmount(t *testing.T) {
	store := new(MockExpenseStore)
	analyzer := NewPatternAnalyzer(store)

	userID := uuid.New()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	amount := 500.00
	vendor := "Acme Diner"
	category := "food"
	expense := &expenses.Expense{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          &amount,
		TransactionDate: &day,
		VendorName:      &vendor,
		Category:        &category,
	}

	// Tight cluster of small amounts from the same vendor so only the
	// amount check fires
	history := []expenses.Expense{
		historyExpense(userID, 20, day.AddDate(0, 0, -1), "Acme Diner", "food"),
		historyExpense(userID, 22, day.AddDate(0, 0, -2), "Acme Diner", "food"),
		historyExpense(userID, 21, day.AddDate(0, 0, -3), "Acme Diner", "food"),
		historyExpense(userID, 19, day.AddDate(0, 0, -4), "Acme Diner", "food"),
	}
	store.On("ListRecentByUser", mock.Anything, userID, 10).Return(history, nil)

	result, err := analyzer.Analyze(context.Background(), expense, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"Amount is unusually high compared to recent expenses"}, result.RiskFactors)

	patterns := result.VerificationResults["pattern_analysis"].(map[string]interface{})
	unusual := patterns["unusual_amounts"].(map[string]interface{})
	assert.True(t, unusual["flagged"].(bool))
	assert.Greater(t, unusual["z_score"].(float64), unusualAmountZScore)
}

func TestPatternAnalyzer_SameDayFrequency(t *testing.T) {
	store := new(MockExpenseStore)
	analyzer := NewPatternAnalyzer(store)

	userID := uuid.New()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	amount := 20.00
	vendor := "Acme Diner"
	expense := &expenses.Expense{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          &amount,
		TransactionDate: &day,
		VendorName:      &vendor,
	}

	history := []expenses.Expense{
		historyExpense(userID, 21, day, "Acme Diner", "food"),
		historyExpense(userID, 19, day, "Acme Diner", "food"),
		historyExpense(userID, 20, day.AddDate(0, 0, -1), "Acme Diner", "food"),
	}
	store.On("ListRecentByUser", mock.Anything, userID, 10).Return(history, nil)

	result, err := analyzer.Analyze(context.Background(), expense, "")

	require.NoError(t, err)
	assert.Contains(t, result.RiskFactors, "Multiple expenses submitted for the same day")

	patterns := result.VerificationResults["pattern_analysis"].(map[string]interface{})
	frequency := patterns["frequency_patterns"].(map[string]interface{})
	assert.Equal(t, 3, frequency["same_day_count"])
}

func TestPatternAnalyzer_NewVendorHighAmount(t *testing.T) {
	store := new(MockExpenseStore)
	analyzer := NewPatternAnalyzer(store)

	userID := uuid.New()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	amount := 90.00
	vendor := "Brand New Bistro"
	category := "food"
	expense := &expenses.Expense{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          &amount,
		TransactionDate: &day,
		VendorName:      &vendor,
		Category:        &category,
	}

	// Category median is 21; 90 > 2*21
	history := []expenses.Expense{
		historyExpense(userID, 20, day.AddDate(0, 0, -1), "Acme Diner", "food"),
		historyExpense(userID, 21, day.AddDate(0, 0, -2), "Acme Diner", "food"),
		historyExpense(userID, 22, day.AddDate(0, 0, -3), "Other Cafe", "food"),
	}
	store.On("ListRecentByUser", mock.Anything, userID, 10).Return(history, nil)

	result, err := analyzer.Analyze(context.Background(), expense, "")

	require.NoError(t, err)
	assert.Contains(t, result.RiskFactors,
		"First expense from this vendor is well above the typical amount for its category")

	patterns := result.VerificationResults["pattern_analysis"].(map[string]interface{})
	vendorPatterns := patterns["vendor_patterns"].(map[string]interface{})
	assert.True(t, vendorPatterns["new_vendor"].(bool))
	assert.InDelta(t, 21.0, vendorPatterns["category_median"].(float64), 1e-9)
}

func TestPatternAnalyzer_ExcludesCurrentExpense(t *testing.T) {
	store := new(MockExpenseStore)
	analyzer := NewPatternAnalyzer(store)

	expense := testExpense("food")
	// History contains only the expense under analysis
	store.On("ListRecentByUser", mock.Anything, expense.UserID, 10).
		Return([]expenses.Expense{*expense}, nil)

	result, err := analyzer.Analyze(context.Background(), expense, "")

	require.NoError(t, err)
	assert.Empty(t, result.RiskFactors)
	assert.Empty(t, result.VerificationResults)
}

func TestCategoryMedian(t *testing.T) {
	userID := uuid.New()
	day := time.Now()
	history := []expenses.Expense{
		historyExpense(userID, 10, day, "A", "food"),
		historyExpense(userID, 30, day, "B", "food"),
		historyExpense(userID, 20, day, "C", "food"),
		historyExpense(userID, 500, day, "D", "hotel"),
	}

	median, ok := categoryMedian("food", history)
	require.True(t, ok)
	assert.InDelta(t, 20.0, median, 1e-9)

	median, ok = categoryMedian("food", history[:2])
	require.True(t, ok)
	assert.InDelta(t, 20.0, median, 1e-9)

	_, ok = categoryMedian("travel", history)
	assert.False(t, ok)
}

package fraud

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/triptally/expense-assistant/internal/expenses"
)

const (
	// How many of the user's past expenses the comparison runs against
	patternHistoryLimit = 10

	// Amounts more than this many standard deviations above the recent
	// mean are flagged as unusual
	unusualAmountZScore = 2.0

	// This many expenses on the same day triggers the frequency flag
	sameDayThreshold = 3

	// A first-seen vendor is flagged when the amount exceeds this multiple
	// of the category median
	newVendorAmountMultiple = 2.0
)

// PatternAnalyzer compares the expense against the user's recent history
// for unusual amounts, submission frequency, and vendor behavior.
type PatternAnalyzer struct {
	store ExpenseStore
}

// NewPatternAnalyzer creates the historical pattern analyzer
func NewPatternAnalyzer(store ExpenseStore) *PatternAnalyzer {
	return &PatternAnalyzer{store: store}
}

var _ Analyzer = (*PatternAnalyzer)(nil)

// Category returns the risk weight key for this analyzer
func (a *PatternAnalyzer) Category() string {
	return CategoryPatternAnalysis
}

// Analyze fetches the user's recent expenses and runs the three checks
func (a *PatternAnalyzer) Analyze(ctx context.Context, expense *expenses.Expense, documentURL string) (*AnalysisResult, error) {
	recent, err := a.store.ListRecentByUser(ctx, expense.UserID, patternHistoryLimit)
	if err != nil {
		return nil, err
	}

	// Drop the expense under analysis so it doesn't compare against itself
	history := recent[:0:0]
	for _, e := range recent {
		if e.ID != expense.ID {
			history = append(history, e)
		}
	}
	if len(history) == 0 {
		return &AnalysisResult{}, nil
	}

	patterns := map[string]interface{}{
		"unusual_amounts":    a.checkUnusualAmounts(expense, history),
		"frequency_patterns": a.checkFrequencyPatterns(expense, history),
		"vendor_patterns":    a.checkVendorPatterns(expense, history),
	}

	return &AnalysisResult{
		RiskFactors:         riskFactorsFromPatterns(patterns),
		VerificationResults: map[string]interface{}{"pattern_analysis": patterns},
	}, nil
}

// checkUnusualAmounts flags amounts more than unusualAmountZScore standard
// deviations above the mean of the recent history.
func (a *PatternAnalyzer) checkUnusualAmounts(expense *expenses.Expense, history []expenses.Expense) map[string]interface{} {
	result := map[string]interface{}{"flagged": false}
	if expense.Amount == nil {
		return result
	}

	var amounts []float64
	for _, e := range history {
		if e.Amount != nil {
			amounts = append(amounts, *e.Amount)
		}
	}
	if len(amounts) < 2 {
		return result
	}

	mean := 0.0
	for _, v := range amounts {
		mean += v
	}
	mean /= float64(len(amounts))

	variance := 0.0
	for _, v := range amounts {
		variance += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(amounts)))

	result["mean"] = mean
	result["std_dev"] = stdDev
	if stdDev == 0 {
		return result
	}

	z := (*expense.Amount - mean) / stdDev
	result["z_score"] = z
	if z > unusualAmountZScore {
		result["flagged"] = true
	}
	return result
}

// checkFrequencyPatterns flags several expenses submitted for the same day
func (a *PatternAnalyzer) checkFrequencyPatterns(expense *expenses.Expense, history []expenses.Expense) map[string]interface{} {
	result := map[string]interface{}{"flagged": false}
	if expense.TransactionDate == nil {
		return result
	}

	day := expense.TransactionDate.Format("2006-01-02")
	sameDay := 1 // the expense itself
	for _, e := range history {
		if e.TransactionDate != nil && e.TransactionDate.Format("2006-01-02") == day {
			sameDay++
		}
	}

	result["same_day_count"] = sameDay
	if sameDay >= sameDayThreshold {
		result["flagged"] = true
	}
	return result
}

// checkVendorPatterns flags a first-seen vendor whose amount is far above
// the typical amount for the expense's category.
func (a *PatternAnalyzer) checkVendorPatterns(expense *expenses.Expense, history []expenses.Expense) map[string]interface{} {
	result := map[string]interface{}{"flagged": false, "new_vendor": false}
	if expense.VendorName == nil {
		return result
	}

	vendor := strings.ToLower(*expense.VendorName)
	for _, e := range history {
		if e.VendorName != nil && strings.ToLower(*e.VendorName) == vendor {
			return result
		}
	}
	result["new_vendor"] = true

	if expense.Amount == nil || expense.Category == nil {
		return result
	}
	median, ok := categoryMedian(*expense.Category, history)
	if !ok {
		return result
	}

	result["category_median"] = median
	if *expense.Amount > newVendorAmountMultiple*median {
		result["flagged"] = true
	}
	return result
}

// categoryMedian returns the median amount among recent expenses in the
// given category.
func categoryMedian(category string, history []expenses.Expense) (float64, bool) {
	var amounts []float64
	for _, e := range history {
		if e.Category != nil && strings.EqualFold(*e.Category, category) && e.Amount != nil {
			amounts = append(amounts, *e.Amount)
		}
	}
	if len(amounts) == 0 {
		return 0, false
	}
	sort.Float64s(amounts)
	mid := len(amounts) / 2
	if len(amounts)%2 == 0 {
		return (amounts[mid-1] + amounts[mid]) / 2, true
	}
	return amounts[mid], true
}

// riskFactorsFromPatterns converts flagged patterns into risk factors
func riskFactorsFromPatterns(patterns map[string]interface{}) []string {
	var factors []string

	if flagged(patterns, "unusual_amounts") {
		factors = append(factors, "Amount is unusually high compared to recent expenses")
	}
	if flagged(patterns, "frequency_patterns") {
		factors = append(factors, "Multiple expenses submitted for the same day")
	}
	if flagged(patterns, "vendor_patterns") {
		factors = append(factors, "First expense from this vendor is well above the typical amount for its category")
	}

	return factors
}

func flagged(patterns map[string]interface{}, key string) bool {
	sub, ok := patterns[key].(map[string]interface{})
	if !ok {
		return false
	}
	v, ok := sub["flagged"].(bool)
	return ok && v
}

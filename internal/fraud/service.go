// Package fraud scores receipts for tampering and inconsistencies. Four
// analyzers run in parallel over each expense; a category verifier runs a
// tool-augmented verification round; the orchestrator merges everything
// into one persisted verdict.
package fraud

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triptally/expense-assistant/pkg/logger"
)

// Blend weights for the fraud probability
const (
	riskScoreBlendWeight  = 0.7
	confidenceBlendWeight = 0.3
)

// Service orchestrates a fraud check over one expense
type Service struct {
	expenses ExpenseStore
	repo     RepositoryInterface
	judgment Analyzer
	image    Analyzer
	online   Analyzer
	pattern  Analyzer
	verifier *CategoryVerifier
}

// NewService creates the fraud check orchestrator
func NewService(
	expenseStore ExpenseStore,
	repo RepositoryInterface,
	judgment Analyzer,
	image Analyzer,
	online Analyzer,
	pattern Analyzer,
	verifier *CategoryVerifier,
) *Service {
	return &Service{
		expenses: expenseStore,
		repo:     repo,
		judgment: judgment,
		image:    image,
		online:   online,
		pattern:  pattern,
		verifier: verifier,
	}
}

// AnalyzeReceipt runs the full fraud check. A missing expense aborts with
// NotFoundError before anything is dispatched; every analyzer failure
// after that degrades to an empty contribution. A failed verdict insert
// returns the verdict with an empty ID.
func (s *Service) AnalyzeReceipt(ctx context.Context, expenseID uuid.UUID, documentURL string) (*FraudCheck, error) {
	expense, err := s.expenses.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	category := ""
	if expense.Category != nil {
		category = strings.ToLower(*expense.Category)
	}

	analyzers := []Analyzer{s.judgment, s.image, s.online, s.pattern}
	outcomes := make(chan outcome, len(analyzers))
	for _, a := range analyzers {
		go func(a Analyzer) {
			result, err := a.Analyze(ctx, expense, documentURL)
			outcomes <- outcome{category: a.Category(), result: result, err: err}
		}(a)
	}

	// The verifier makes its own sequential tool round trips, so it runs
	// here instead of in the parallel batch.
	categoryResult, categoryErr := s.verifier.Verify(ctx, category, expense)
	if categoryErr != nil {
		logger.Warn("category verification failed",
			zap.String("category", category), zap.Error(categoryErr))
		categoryResult = &AnalysisResult{}
	}

	check := &FraudCheck{
		ExpenseID:                 expenseID,
		RiskFactors:               []string{},
		VerificationResults:       map[string]interface{}{},
		ImageAnalysisResults:      map[string]interface{}{},
		OnlineVerificationResults: map[string]interface{}{},
	}

	// Single-consumer join: only this loop touches the accumulating maps,
	// regardless of analyzer completion order.
	scores := map[string]float64{}
	for i := 0; i < len(analyzers); i++ {
		o := <-outcomes
		if o.err != nil {
			logger.Warn("analyzer failed",
				zap.String("analyzer", o.category),
				zap.String("expense_id", expenseID.String()),
				zap.Error(o.err))
			continue
		}
		mergeResult(check, o.result)

		switch o.category {
		case CategoryLLMAnalysis:
			scores[CategoryLLMAnalysis] = scoreJudgment(o.result)
		case CategoryImageAnalysis:
			scores[CategoryImageAnalysis] = scoreImage(o.result)
		case CategoryOnlineVerification:
			scores[CategoryOnlineVerification] = scoreOnline(o.result)
		case CategoryPatternAnalysis:
			scores[CategoryPatternAnalysis] = scorePattern(o.result)
		}
	}

	mergeResult(check, categoryResult)
	scores[CategoryCategorySpecific] = scoreCategorySpecific(category, check.VerificationResults)

	check.OverallRiskScore = weightedRiskScore(scores)

	verificationConfidence := 0.0
	if categoryResult.Confidence != nil {
		verificationConfidence = *categoryResult.Confidence
	}
	check.FraudProbability = clamp01(
		riskScoreBlendWeight*check.OverallRiskScore +
			confidenceBlendWeight*verificationConfidence)

	check.Summary = GenerateSummary(
		check.OverallRiskScore, check.FraudProbability,
		check.RiskFactors, check.VerificationResults, check.ImageAnalysisResults)

	id, err := s.repo.InsertFraudCheck(ctx, check)
	if err != nil {
		logger.Warn("failed to persist fraud check",
			zap.String("expense_id", expenseID.String()), zap.Error(err))
	} else {
		check.ID = id.String()
	}

	return check, nil
}

// GetFraudCheck returns a stored verdict by ID
func (s *Service) GetFraudCheck(ctx context.Context, id uuid.UUID) (*FraudCheck, error) {
	return s.repo.GetFraudCheck(ctx, id)
}

// ListByExpense returns all verdicts recorded for an expense
func (s *Service) ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]FraudCheck, error) {
	checks, err := s.repo.ListByExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if checks == nil {
		checks = []FraudCheck{}
	}
	return checks, nil
}

// mergeResult folds one analyzer result into the accumulating verdict.
// Risk factor order follows completion order; mapping keys are
// last-writer-wins.
func mergeResult(check *FraudCheck, result *AnalysisResult) {
	if result == nil {
		return
	}
	check.RiskFactors = append(check.RiskFactors, result.RiskFactors...)
	for k, v := range result.VerificationResults {
		check.VerificationResults[k] = v
	}
	for k, v := range result.ImageAnalysis {
		check.ImageAnalysisResults[k] = v
	}
	for k, v := range result.OnlineVerification {
		check.OnlineVerificationResults[k] = v
	}
}

// weightedRiskScore blends per-analyzer scores; missing entries count as 0
func weightedRiskScore(scores map[string]float64) float64 {
	total := 0.0
	for category, weight := range riskWeights {
		total += weight * scores[category]
	}
	return total
}

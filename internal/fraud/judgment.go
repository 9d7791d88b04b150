package fraud

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/triptally/expense-assistant/internal/expenses"
	"github.com/triptally/expense-assistant/internal/llm"
	"github.com/triptally/expense-assistant/pkg/logger"
)

const judgmentSystemPrompt = `You are an AI specialized in detecting fraudulent receipts.
Analyze the provided receipt and look for:
1. Inconsistent dates, amounts, or vendor information
2. Unusual patterns in the receipt format
3. Suspicious modifications or alterations
4. Mismatches between receipt details and expense data
5. Common fraud indicators

Format your response as a JSON object with:
- risk_factors: List of identified risk factors
- verification_results: Detailed analysis of each aspect
- confidence_score: Your confidence in the analysis (0-1)`

// judgmentVerdict is the model's reply shape. Every field is optional.
type judgmentVerdict struct {
	RiskFactors         []string               `json:"risk_factors"`
	VerificationResults map[string]interface{} `json:"verification_results"`
	ConfidenceScore     *float64               `json:"confidence_score"`
}

// JudgmentAnalyzer sends the receipt plus the stored expense record to the
// model and collects its structured fraud verdict.
type JudgmentAnalyzer struct {
	client CompletionClient
}

// NewJudgmentAnalyzer creates the judgment analyzer
func NewJudgmentAnalyzer(client CompletionClient) *JudgmentAnalyzer {
	return &JudgmentAnalyzer{client: client}
}

var _ Analyzer = (*JudgmentAnalyzer)(nil)

// Category returns the risk weight key for this analyzer
func (a *JudgmentAnalyzer) Category() string {
	return CategoryLLMAnalysis
}

// Analyze runs one completion call. A malformed reply degrades to an empty
// result instead of an error; the model's output is untrusted input.
func (a *JudgmentAnalyzer) Analyze(ctx context.Context, expense *expenses.Expense, documentURL string) (*AnalysisResult, error) {
	expenseJSON, err := json.Marshal(expense)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Complete(ctx, llm.CompletionRequest{
		Model: a.client.VisionModel(),
		Messages: []llm.Message{
			llm.SystemMessage(judgmentSystemPrompt),
			llm.UserParts(
				llm.TextPart(fmt.Sprintf("Please analyze this receipt for potential fraud. Expense data: %s", expenseJSON)),
				llm.ImagePart(documentURL),
			),
		},
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	var verdict judgmentVerdict
	if err := llm.DecodeJSON(resp.Content, &verdict); err != nil {
		logger.Warn("judgment analyzer returned malformed verdict", zap.Error(err))
		return &AnalysisResult{}, nil
	}

	return &AnalysisResult{
		RiskFactors:         verdict.RiskFactors,
		VerificationResults: verdict.VerificationResults,
		Confidence:          verdict.ConfidenceScore,
	}, nil
}

package fraud

import (
	"time"

	"github.com/google/uuid"
)

// Analyzer categories, matching the risk score weight table
const (
	CategoryLLMAnalysis        = "llm_analysis"
	CategoryImageAnalysis      = "image_analysis"
	CategoryOnlineVerification = "online_verification"
	CategoryPatternAnalysis    = "pattern_analysis"
	CategoryCategorySpecific   = "category_specific"
)

// riskWeights blends per-analyzer scores into the overall risk score.
// The weights sum to 1.0 so the result stays in [0,1].
var riskWeights = map[string]float64{
	CategoryLLMAnalysis:        0.3,
	CategoryImageAnalysis:      0.25,
	CategoryOnlineVerification: 0.15,
	CategoryPatternAnalysis:    0.1,
	CategoryCategorySpecific:   0.2,
}

// AnalysisResult is one analyzer's contribution to a fraud check. Every
// field is optional; an empty result is a valid (and common) outcome.
type AnalysisResult struct {
	RiskFactors         []string               `json:"risk_factors,omitempty"`
	VerificationResults map[string]interface{} `json:"verification_results,omitempty"`
	ImageAnalysis       map[string]interface{} `json:"image_analysis_results,omitempty"`
	OnlineVerification  map[string]interface{} `json:"online_verification_results,omitempty"`
	Confidence          *float64               `json:"confidence_score,omitempty"`
}

// outcome is the per-analyzer join record collected by the orchestrator
type outcome struct {
	category string
	result   *AnalysisResult
	err      error
}

// FraudCheck is the persisted verdict of one receipt analysis.
// ID stays empty when the verdict could not be stored.
type FraudCheck struct {
	ID                        string                 `json:"fraud_check_id"`
	ExpenseID                 uuid.UUID              `json:"expense_id"`
	OverallRiskScore          float64                `json:"overall_risk_score"`
	FraudProbability          float64                `json:"fraud_probability"`
	RiskFactors               []string               `json:"risk_factors"`
	VerificationResults       map[string]interface{} `json:"verification_results"`
	ImageAnalysisResults      map[string]interface{} `json:"image_analysis_results"`
	OnlineVerificationResults map[string]interface{} `json:"online_verification_results"`
	Summary                   string                 `json:"summary"`
	CreatedAt                 time.Time              `json:"created_at"`
}

// AnalyzeRequest is the payload for running a fraud check
type AnalyzeRequest struct {
	ExpenseID   string `json:"expense_id" binding:"required,uuid"`
	DocumentURL string `json:"document_url" binding:"required,url"`
}

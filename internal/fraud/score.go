package fraud

import (
	"fmt"
	"math"
	"strings"

	"github.com/triptally/expense-assistant/internal/imaging"
)

// Per-analyzer score extraction. Each score lands in [0,1] so the weighted
// sum stays in [0,1].
const (
	judgmentFactorWeight = 0.2
	imageIndicatorWeight = 0.25
	patternFactorWeight  = 1.0 / 3.0
)

// scoreJudgment scales the factor count by the model's own confidence
func scoreJudgment(result *AnalysisResult) float64 {
	if result == nil {
		return 0.0
	}
	score := clamp01(judgmentFactorWeight * float64(len(result.RiskFactors)))
	if result.Confidence != nil {
		score *= clamp01(*result.Confidence)
	}
	return score
}

// scoreImage counts manipulation indicators and a poor quality assessment
func scoreImage(result *AnalysisResult) float64 {
	if result == nil || result.ImageAnalysis == nil {
		return 0.0
	}
	score := imageIndicatorWeight * float64(len(manipulationIndicators(result.ImageAnalysis)))
	if quality, ok := result.ImageAnalysis["image_quality"]; ok {
		if strings.HasPrefix(qualityAssessment(quality), "Poor quality") {
			score += imageIndicatorWeight
		}
	}
	return clamp01(score)
}

// scoreOnline stays at zero until the online lookups return real data
func scoreOnline(result *AnalysisResult) float64 {
	return 0.0
}

// scorePattern maps the three pattern checks onto [0,1]
func scorePattern(result *AnalysisResult) float64 {
	if result == nil {
		return 0.0
	}
	return clamp01(patternFactorWeight * float64(len(result.RiskFactors)))
}

// scoreCategorySpecific averages threshold-based risk contributions from
// the category verification fields.
func scoreCategorySpecific(category string, verificationResults map[string]interface{}) float64 {
	if category == "" || verificationResults == nil {
		return 0.0
	}
	results, ok := verificationResults[fmt.Sprintf("%s_verification", category)].(map[string]interface{})
	if !ok || len(results) == 0 {
		return 0.0
	}

	var factors []float64

	if discrepancy, ok := floatField(results, "price_discrepancy"); ok {
		d := math.Abs(discrepancy)
		switch {
		case d > 0.5:
			factors = append(factors, 1.0)
		case d > 0.2:
			factors = append(factors, 0.7)
		case d > 0.1:
			factors = append(factors, 0.4)
		}
	}

	if failed(results, "location_verification") {
		factors = append(factors, 0.8)
	} else if failed(results, "route_verification") {
		factors = append(factors, 0.8)
	}

	if failed(results, "time_verification") {
		factors = append(factors, 0.6)
	} else if failed(results, "date_verification") {
		factors = append(factors, 0.6)
	}

	if failed(results, "service_verification") {
		factors = append(factors, 0.7)
	} else if failed(results, "restaurant_verification") {
		factors = append(factors, 0.7)
	}

	if category == "food" && failed(results, "menu_verification") {
		factors = append(factors, 0.5)
	}

	if len(factors) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

// failed reports whether a verification field is present and false
func failed(results map[string]interface{}, key string) bool {
	v, ok := results[key].(bool)
	return ok && !v
}

func floatField(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}

func qualityAssessment(quality interface{}) string {
	switch v := quality.(type) {
	case map[string]interface{}:
		if s, ok := v["quality_assessment"].(string); ok {
			return s
		}
	case *imaging.QualityReport:
		return v.QualityAssessment
	}
	return ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

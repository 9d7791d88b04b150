package fraud

import (
	"fmt"
	"strings"
)

// Risk assessment tiers over the fraud probability percentage
const (
	highRiskThreshold     = 80
	moderateRiskThreshold = 50
)

// GenerateSummary renders the human-readable report for a fraud check
func GenerateSummary(riskScore, fraudProbability float64, riskFactors []string,
	verificationResults, imageAnalysisResults map[string]interface{}) string {

	riskPercentage := int(riskScore * 100)
	fraudPercentage := int(fraudProbability * 100)

	var assessment string
	switch {
	case fraudPercentage >= highRiskThreshold:
		assessment = "HIGH RISK"
	case fraudPercentage >= moderateRiskThreshold:
		assessment = "MODERATE RISK"
	default:
		assessment = "LOW RISK"
	}

	var b strings.Builder
	b.WriteString("Fraud Analysis Summary:\n")
	fmt.Fprintf(&b, "Overall Risk Assessment: %s\n", assessment)
	fmt.Fprintf(&b, "Fraud Probability: %d%%\n", fraudPercentage)
	fmt.Fprintf(&b, "Risk Score: %d%%\n\n", riskPercentage)

	if len(riskFactors) > 0 {
		b.WriteString("Key Risk Factors:\n")
		for _, factor := range topN(riskFactors, 3) {
			fmt.Fprintf(&b, "- %s\n", factor)
		}
	}

	if highlights := verificationHighlights(verificationResults); highlights != "" {
		b.WriteString("\nVerification Highlights:\n")
		b.WriteString(highlights)
	}

	if indicators := manipulationIndicators(imageAnalysisResults); len(indicators) > 0 {
		b.WriteString("\nImage Analysis:\n")
		for _, indicator := range topN(indicators, 2) {
			fmt.Fprintf(&b, "- %s\n", indicator)
		}
	}

	return b.String()
}

func verificationHighlights(results map[string]interface{}) string {
	if results == nil {
		return ""
	}
	var b strings.Builder

	if dateInfo, ok := results["inconsistent_dates"].(map[string]interface{}); ok {
		if boolField(dateInfo, "date_mismatch") {
			fmt.Fprintf(&b, "- Date mismatch detected (Email: %v, Receipt: %v)\n",
				dateInfo["email_date"], dateInfo["receipt_date"])
		}
	}
	if amountInfo, ok := results["amount_verification"].(map[string]interface{}); ok {
		if !boolField(amountInfo, "amount_match") {
			fmt.Fprintf(&b, "- Amount mismatch detected (Expected: %v, Receipt: %v)\n",
				amountInfo["expense_data_amount"], amountInfo["receipt_amount"])
		}
	}

	return b.String()
}

func manipulationIndicators(results map[string]interface{}) []string {
	if results == nil {
		return nil
	}
	switch v := results["manipulation_indicators"].(type) {
	case []string:
		return v
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func topN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

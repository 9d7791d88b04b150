package fraud

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSummary_Tiers(t *testing.T) {
	tests := []struct {
		name             string
		fraudProbability float64
		want             string
	}{
		{"high risk", 0.85, "HIGH RISK"},
		{"high risk boundary", 0.80, "HIGH RISK"},
		{"moderate risk", 0.60, "MODERATE RISK"},
		{"moderate risk boundary", 0.50, "MODERATE RISK"},
		{"low risk", 0.49, "LOW RISK"},
		{"zero", 0.0, "LOW RISK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := GenerateSummary(0.5, tt.fraudProbability, nil, nil, nil)
			assert.Contains(t, summary, "Overall Risk Assessment: "+tt.want)
		})
	}
}

func TestGenerateSummary_Format(t *testing.T) {
	summary := GenerateSummary(0.42, 0.61,
		[]string{"factor one", "factor two", "factor three", "factor four"},
		nil,
		map[string]interface{}{
			"manipulation_indicators": []string{
				"Possible copy-move forgery detected",
				"Inconsistent noise patterns detected",
				"Inconsistent edge patterns detected",
			},
		})

	assert.True(t, strings.HasPrefix(summary, "Fraud Analysis Summary:\n"))
	assert.Contains(t, summary, "Fraud Probability: 61%")
	assert.Contains(t, summary, "Risk Score: 42%")

	// Top 3 risk factors only
	assert.Contains(t, summary, "- factor one\n")
	assert.Contains(t, summary, "- factor three\n")
	assert.NotContains(t, summary, "factor four")

	// Top 2 manipulation indicators only
	assert.Contains(t, summary, "Image Analysis:\n")
	assert.Contains(t, summary, "- Possible copy-move forgery detected\n")
	assert.Contains(t, summary, "- Inconsistent noise patterns detected\n")
	assert.NotContains(t, summary, "Inconsistent edge patterns detected")
}

func TestGenerateSummary_VerificationHighlights(t *testing.T) {
	summary := GenerateSummary(0.1, 0.2, nil, map[string]interface{}{
		"amount_verification": map[string]interface{}{
			"amount_match":        false,
			"expense_data_amount": 100.0,
			"receipt_amount":      250.0,
		},
	}, nil)

	assert.Contains(t, summary, "Verification Highlights:")
	assert.Contains(t, summary, "Amount mismatch detected")
}

func TestGenerateSummary_EmptyInputsStillRenderHeader(t *testing.T) {
	summary := GenerateSummary(0, 0, nil, nil, nil)

	assert.Contains(t, summary, "Fraud Analysis Summary:")
	assert.Contains(t, summary, "Fraud Probability: 0%")
	assert.NotContains(t, summary, "Key Risk Factors")
	assert.NotContains(t, summary, "Image Analysis")
}

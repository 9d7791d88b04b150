package fraud

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/triptally/expense-assistant/internal/expenses"
	"github.com/triptally/expense-assistant/internal/llm"
)

const verificationSystemPrompt = `You are an AI specialized in verifying expense data using online tools.
You have access to various tools to verify:
1. Vendor information and pricing
2. Location-based rates and services
3. Historical pricing data
4. Operating hours and availability

Use the provided tools to verify the expense data and return detailed results.`

// categoryPrompts holds the per-category verification prompts. Categories
// outside this set short-circuit to an empty result.
var categoryPrompts = map[string]string{
	"travel": `You are an AI specialized in verifying travel expenses.
Analyze the provided travel expense and verify against online data:
1. Distance-based pricing:
   - Calculate expected fare based on route distance
   - Compare with actual fare
   - Check for common routes and typical pricing
2. Time-based factors:
   - Verify if the time of travel affects pricing
   - Check for peak/off-peak rates
   - Validate travel duration
3. Service provider verification:
   - Verify if the service provider operates in the claimed area
   - Check typical pricing for this provider
   - Validate service type (e.g., economy, premium)

Format your response as a JSON object with:
- risk_factors: List of identified risk factors
- verification_results: Detailed analysis including:
  * expected_price_range: Min and max expected price
  * price_discrepancy: Difference between expected and actual
  * route_verification: Whether the route is typical
  * time_verification: Whether the time/date is reasonable
  * provider_verification: Whether the provider is legitimate
- confidence_score: Your confidence in the verification (0-1)`,

	"hotel": `You are an AI specialized in verifying hotel expenses.
Analyze the provided hotel expense and verify against online data:
1. Location-based pricing:
   - Check typical rates for the area
   - Verify if the location matches the claimed area
   - Compare with similar hotels in the area
2. Date-based factors:
   - Check if the dates affect pricing (season, events)
   - Verify if the hotel was open on those dates
   - Validate length of stay
3. Room and service verification:
   - Verify room type pricing
   - Check included services and amenities
   - Validate additional charges

Format your response as a JSON object with:
- risk_factors: List of identified risk factors
- verification_results: Detailed analysis including:
  * expected_price_range: Min and max expected price
  * price_discrepancy: Difference between expected and actual
  * location_verification: Whether the location is legitimate
  * date_verification: Whether the dates are reasonable
  * service_verification: Whether the services are typical
- confidence_score: Your confidence in the verification (0-1)`,

	"food": `You are an AI specialized in verifying food and dining expenses.
Analyze the provided dining expense and verify against online data:
1. Restaurant verification:
   - Check if the restaurant exists in the claimed location
   - Verify typical pricing for this establishment
   - Compare with similar restaurants in the area
2. Menu-based verification:
   - Check if the items ordered are on the menu
   - Verify typical prices for ordered items
   - Validate portion sizes and quantities
3. Time and date verification:
   - Check if the restaurant was open at that time
   - Verify if the date affects pricing (special menus, events)
   - Validate if the amount is typical for that time of day

Format your response as a JSON object with:
- risk_factors: List of identified risk factors
- verification_results: Detailed analysis including:
  * expected_price_range: Min and max expected price
  * price_discrepancy: Difference between expected and actual
  * restaurant_verification: Whether the restaurant is legitimate
  * menu_verification: Whether the items and prices are typical
  * time_verification: Whether the time/date is reasonable
- confidence_score: Your confidence in the verification (0-1)`,
}

// CategoryVerifier runs the tool-augmented verification call for expense
// categories with a known prompt.
type CategoryVerifier struct {
	client   CompletionClient
	executor *ToolExecutor
}

// NewCategoryVerifier creates a category verifier
func NewCategoryVerifier(client CompletionClient, executor *ToolExecutor) *CategoryVerifier {
	return &CategoryVerifier{client: client, executor: executor}
}

// Verify runs one tool-call round for the category. Unknown or empty
// categories return an empty result.
func (v *CategoryVerifier) Verify(ctx context.Context, category string, expense *expenses.Expense) (*AnalysisResult, error) {
	prompt, ok := categoryPrompts[category]
	if !ok {
		return &AnalysisResult{}, nil
	}

	expenseJSON, err := json.Marshal(expense)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Complete(ctx, llm.CompletionRequest{
		Model: v.client.Model(),
		Messages: []llm.Message{
			llm.SystemMessage(verificationSystemPrompt),
			llm.UserMessage(fmt.Sprintf("%s\n\nExpense data: %s", prompt, expenseJSON)),
		},
		Tools: verificationTools(),
	})
	if err != nil {
		return nil, err
	}

	verificationResults := map[string]interface{}{}
	toolCalls := []map[string]interface{}{}
	for _, call := range resp.ToolCalls {
		key, result := v.executor.Execute(ctx, call)
		if key == "" {
			continue
		}
		verificationResults[key] = result

		var args map[string]interface{}
		_ = json.Unmarshal(call.Arguments, &args)
		toolCalls = append(toolCalls, map[string]interface{}{
			"tool_name": call.Name,
			"arguments": args,
			"result":    result,
		})
	}

	confidence := verificationConfidence(verificationResults)
	result := &AnalysisResult{
		RiskFactors: riskFactorsFromVerification(verificationResults, category),
		VerificationResults: map[string]interface{}{
			fmt.Sprintf("%s_verification", category): verificationResults,
		},
		Confidence: &confidence,
	}
	if len(toolCalls) > 0 {
		result.VerificationResults["tool_calls"] = toolCalls
	}
	return result, nil
}

// verificationConfidence averages the fixed per-check increments over the
// checks whose tool actually ran and whose field is present.
func verificationConfidence(results map[string]interface{}) float64 {
	var factors []float64

	if vendor, ok := results["vendor_info"].(map[string]interface{}); ok {
		if boolField(vendor, "vendor_exists") {
			factors = append(factors, 1.0)
		}
		if boolField(vendor, "verified") {
			factors = append(factors, 0.8)
		}
	}
	if pricing, ok := results["pricing_info"].(map[string]interface{}); ok {
		if _, present := pricing["price_range"]; present {
			factors = append(factors, 0.9)
		}
		if _, present := pricing["last_updated"]; present {
			factors = append(factors, 0.7)
		}
	}
	if location, ok := results["location_info"].(map[string]interface{}); ok {
		if boolField(location, "location_verified") {
			factors = append(factors, 1.0)
		}
		if boolField(location, "address_match") {
			factors = append(factors, 0.8)
		}
	}
	if hours, ok := results["operating_hours"].(map[string]interface{}); ok {
		if boolField(hours, "was_open") {
			factors = append(factors, 0.9)
		}
		if !boolField(hours, "special_hours") {
			factors = append(factors, 0.7)
		}
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

// riskFactorsFromVerification converts failed verification checks into
// human-readable risk factors.
func riskFactorsFromVerification(results map[string]interface{}, category string) []string {
	var factors []string

	if vendor, ok := results["vendor_info"].(map[string]interface{}); ok {
		if !boolField(vendor, "vendor_exists") {
			factors = append(factors, fmt.Sprintf("Vendor %s not found in online databases", category))
		}
		if !boolField(vendor, "verified") {
			factors = append(factors, fmt.Sprintf("Vendor %s verification status unclear", category))
		}
	}
	if pricing, ok := results["pricing_info"].(map[string]interface{}); ok {
		if priceRange, ok := pricing["price_range"].(map[string]interface{}); ok {
			if priceRange["min"] != nil && priceRange["max"] != nil {
				factors = append(factors, fmt.Sprintf("Price outside typical range for %s", category))
			}
		}
	}
	if location, ok := results["location_info"].(map[string]interface{}); ok {
		if !boolField(location, "location_verified") {
			factors = append(factors, fmt.Sprintf("Location verification failed for %s", category))
		}
		if distance, ok := location["distance"].(float64); ok && distance > 1.0 {
			factors = append(factors, fmt.Sprintf("Location significantly different from expected for %s", category))
		}
	}
	if hours, ok := results["operating_hours"].(map[string]interface{}); ok {
		if !boolField(hours, "was_open") {
			factors = append(factors, fmt.Sprintf("%s was not operating at the specified time", category))
		}
		if boolField(hours, "special_hours") {
			factors = append(factors, fmt.Sprintf("Transaction occurred during special hours for %s", category))
		}
	}

	return factors
}

func boolField(m map[string]interface{}, key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}

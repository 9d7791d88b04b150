package fraud

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/triptally/expense-assistant/internal/llm"
	"github.com/triptally/expense-assistant/pkg/logger"
)

// Tool names the verification call may request
const (
	toolSearchVendorInfo    = "search_vendor_info"
	toolCheckPricing        = "check_pricing"
	toolVerifyLocation      = "verify_location"
	toolCheckOperatingHours = "check_operating_hours"
)

// Result keys the tool outcomes fold into, per tool
var toolResultKeys = map[string]string{
	toolSearchVendorInfo:    "vendor_info",
	toolCheckPricing:        "pricing_info",
	toolVerifyLocation:      "location_info",
	toolCheckOperatingHours: "operating_hours",
}

// Tool lookups are cheap stubs today, but the cache keeps the interface
// honest for when live providers replace them.
const toolCacheTTL = time.Hour

// verificationTools declares the four tools exposed to the model
func verificationTools() []llm.Tool {
	return []llm.Tool{
		llm.NewFunctionTool(toolSearchVendorInfo,
			"Search for vendor information including business details, ratings, and reviews",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"vendor_name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the vendor to search for",
					},
				},
				"required": []string{"vendor_name"},
			}),
		llm.NewFunctionTool(toolCheckPricing,
			"Check pricing information for a specific service or product",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"vendor_name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the vendor",
					},
					"service_type": map[string]interface{}{
						"type":        "string",
						"description": "Type of service or product",
					},
					"location": map[string]interface{}{
						"type":        "string",
						"description": "Location where the service was provided",
					},
					"date": map[string]interface{}{
						"type":        "string",
						"description": "Date of the service",
					},
				},
				"required": []string{"vendor_name", "service_type"},
			}),
		llm.NewFunctionTool(toolVerifyLocation,
			"Verify if a vendor exists at the specified location",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"vendor_name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the vendor",
					},
					"address": map[string]interface{}{
						"type":        "string",
						"description": "Address to verify",
					},
					"coordinates": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"latitude":  map[string]interface{}{"type": "number"},
							"longitude": map[string]interface{}{"type": "number"},
						},
						"description": "Geographic coordinates",
					},
				},
				"required": []string{"vendor_name"},
			}),
		llm.NewFunctionTool(toolCheckOperatingHours,
			"Check if a vendor was operating at the specified date and time",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"vendor_name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the vendor",
					},
					"date": map[string]interface{}{
						"type":        "string",
						"description": "Date to check",
					},
					"time": map[string]interface{}{
						"type":        "string",
						"description": "Time to check",
					},
				},
				"required": []string{"vendor_name", "date"},
			}),
	}
}

// toolArgs is the union of arguments across the four tools
type toolArgs struct {
	VendorName  string `json:"vendor_name"`
	ServiceType string `json:"service_type"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Address     string `json:"address"`
	Coordinates *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
}

// ToolExecutor runs the verification tools locally, with results cached
// in redis keyed by tool name and vendor.
type ToolExecutor struct {
	cache Cache
}

// NewToolExecutor creates a tool executor
func NewToolExecutor(cache Cache) *ToolExecutor {
	return &ToolExecutor{cache: cache}
}

// Execute runs one requested tool call. Returns the result key the outcome
// folds into and the result mapping. Unknown tools return an empty key.
func (e *ToolExecutor) Execute(ctx context.Context, call llm.ToolCall) (string, map[string]interface{}) {
	key, ok := toolResultKeys[call.Name]
	if !ok {
		logger.Warn("model requested unknown verification tool", zap.String("tool", call.Name))
		return "", nil
	}

	var args toolArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		logger.Warn("unparseable tool arguments",
			zap.String("tool", call.Name), zap.Error(err))
		return key, map[string]interface{}{}
	}

	cacheKey := fmt.Sprintf("fraud:tool:%s:%s", call.Name, args.VendorName)
	if cached := e.fromCache(ctx, cacheKey); cached != nil {
		return key, cached
	}

	var result map[string]interface{}
	switch call.Name {
	case toolSearchVendorInfo:
		result = e.searchVendorInfo(args)
	case toolCheckPricing:
		result = e.checkPricing(args)
	case toolVerifyLocation:
		result = e.verifyLocation(args)
	case toolCheckOperatingHours:
		result = e.checkOperatingHours(args)
	}

	e.toCache(ctx, cacheKey, result)
	return key, result
}

func (e *ToolExecutor) fromCache(ctx context.Context, key string) map[string]interface{} {
	if e.cache == nil {
		return nil
	}
	raw, err := e.cache.GetString(ctx, key)
	if err != nil || raw == "" {
		return nil
	}
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil
	}
	return result
}

func (e *ToolExecutor) toCache(ctx context.Context, key string, result map[string]interface{}) {
	if e.cache == nil || result == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := e.cache.SetWithExpiration(ctx, key, string(raw), toolCacheTTL); err != nil {
		logger.Warn("failed to cache tool result", zap.String("key", key), zap.Error(err))
	}
}

// searchVendorInfo looks up vendor details. Stub data until a places
// provider is wired in.
func (e *ToolExecutor) searchVendorInfo(args toolArgs) map[string]interface{} {
	return map[string]interface{}{
		"vendor_exists": true,
		"business_type": "Restaurant",
		"rating":        4.5,
		"reviews_count": 100,
		"verified":      true,
	}
}

// checkPricing looks up typical pricing for a service
func (e *ToolExecutor) checkPricing(args toolArgs) map[string]interface{} {
	return map[string]interface{}{
		"price_range": map[string]interface{}{
			"min":     50.0,
			"max":     100.0,
			"average": 75.0,
		},
		"currency":     "USD",
		"last_updated": time.Now().Format(time.RFC3339),
		"source":       "Online API",
	}
}

// verifyLocation checks the vendor's claimed location
func (e *ToolExecutor) verifyLocation(args toolArgs) map[string]interface{} {
	result := map[string]interface{}{
		"location_verified": true,
		"distance":          0.1,
	}
	if args.Address != "" {
		result["address_match"] = true
	}
	if args.Coordinates != nil {
		result["coordinates_match"] = true
	}
	return result
}

// checkOperatingHours checks whether the vendor was open
func (e *ToolExecutor) checkOperatingHours(args toolArgs) map[string]interface{} {
	return map[string]interface{}{
		"was_open": true,
		"operating_hours": map[string]interface{}{
			"open":  "09:00",
			"close": "22:00",
		},
		"special_hours": false,
		"holiday":       false,
	}
}

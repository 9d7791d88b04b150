package expenses

import (
	"regexp"
	"strconv"
	"strings"
)

// Currency column is capped at 10 characters
const maxCurrencyLen = 10

var nonNumericPattern = regexp.MustCompile(`[^\d.-]`)

// CleanNumericValue strips currency symbols and grouping characters from a
// value and converts it to a float. Returns nil when conversion fails.
func CleanNumericValue(value interface{}) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		cleaned := nonNumericPattern.ReplaceAllString(v, "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// NormalizeCurrency fits a model-extracted currency description into the
// stored code: a parenthesized symbol wins (e.g. "US Dollar ($)" -> "$"),
// and the result is truncated to the column limit.
func NormalizeCurrency(currency string) string {
	if currency == "" {
		return ""
	}
	if open := strings.Index(currency, "("); open >= 0 {
		if close := strings.Index(currency, ")"); close > open {
			currency = strings.TrimSpace(currency[open+1 : close])
		}
	}
	if len(currency) > maxCurrencyLen {
		currency = currency[:maxCurrencyLen]
	}
	return currency
}

package ocr

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Monetary values closer than this are treated as equal
const amountEpsilon = 0.01

// Confidence is discounted 10% per discrepancy, floored at zero
const discrepancyPenalty = 0.1

var dateFormats = []string{
	"01/02/2006", // m/d/Y
	"02/01/2006", // d/m/Y
	"2006-01-02", // Y-m-d
	"01-02-2006", // m-d-Y
	"02-01-2006", // d-m-Y
}

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]`)

// Reconcile combines the classical and model OCR results, keeping the path
// with the higher confidence and discounting for field disagreements.
func Reconcile(classical *ClassicalResult, model *ModelResult) *CombinedResult {
	combined := &CombinedResult{Discrepancies: []Discrepancy{}}

	var classicalData, modelData *StructuredData
	classicalConfidence := 0.0
	if classical != nil {
		classicalData = classical.Structured
		classicalConfidence = classical.Best.Confidence
	}
	modelConfidence := 0.0
	if model != nil {
		modelData = model.Structured
		modelConfidence = model.Confidence
	}

	if modelConfidence > classicalConfidence {
		if model != nil {
			combined.ExtractedText = model.ExtractedText
			combined.Structured = modelData
		}
		combined.Confidence = modelConfidence
	} else {
		if classical != nil {
			combined.ExtractedText = classical.Best.Text
			combined.Structured = classicalData
		}
		combined.Confidence = classicalConfidence
	}

	combined.Validation = validate(classicalData, modelData)
	combined.Discrepancies = findDiscrepancies(classicalData, modelData)

	if n := len(combined.Discrepancies); n > 0 {
		combined.Confidence *= 1 - float64(n)*discrepancyPenalty
		if combined.Confidence < 0 {
			combined.Confidence = 0
		}
	}

	return combined
}

func validate(a, b *StructuredData) Validation {
	v := Validation{}
	if a == nil || b == nil {
		return v
	}

	// The denominator counts every validation field including the score
	// itself, so four matches cap the score at 0.8 rather than 1.0
	checks := 5
	matches := 0

	if a.Date != "" && b.Date != "" {
		v.DateMatch = NormalizeDate(a.Date) == NormalizeDate(b.Date)
	}
	if a.TotalAmount != nil && b.TotalAmount != nil {
		v.AmountMatch = math.Abs(*a.TotalAmount-*b.TotalAmount) < amountEpsilon
	}
	if a.VendorName != "" && b.VendorName != "" {
		v.VendorMatch = NormalizeText(a.VendorName) == NormalizeText(b.VendorName)
	}
	if a.TaxAmount != nil && b.TaxAmount != nil {
		v.TaxMatch = math.Abs(*a.TaxAmount-*b.TaxAmount) < amountEpsilon
	}

	for _, m := range []bool{v.DateMatch, v.AmountMatch, v.VendorMatch, v.TaxMatch} {
		if m {
			matches++
		}
	}
	v.OverallMatchScore = float64(matches) / float64(checks)
	return v
}

func findDiscrepancies(a, b *StructuredData) []Discrepancy {
	discrepancies := []Discrepancy{}
	if a == nil || b == nil {
		return discrepancies
	}

	if a.Date != "" && b.Date != "" && NormalizeDate(a.Date) != NormalizeDate(b.Date) {
		discrepancies = append(discrepancies, Discrepancy{
			Field: "date", ClassicalValue: a.Date, ModelValue: b.Date,
		})
	}
	if a.TotalAmount != nil && b.TotalAmount != nil &&
		math.Abs(*a.TotalAmount-*b.TotalAmount) >= amountEpsilon {
		discrepancies = append(discrepancies, Discrepancy{
			Field: "total_amount", ClassicalValue: *a.TotalAmount, ModelValue: *b.TotalAmount,
		})
	}
	if a.VendorName != "" && b.VendorName != "" &&
		NormalizeText(a.VendorName) != NormalizeText(b.VendorName) {
		discrepancies = append(discrepancies, Discrepancy{
			Field: "vendor_name", ClassicalValue: a.VendorName, ModelValue: b.VendorName,
		})
	}
	if a.TaxAmount != nil && b.TaxAmount != nil &&
		math.Abs(*a.TaxAmount-*b.TaxAmount) >= amountEpsilon {
		discrepancies = append(discrepancies, Discrepancy{
			Field: "tax_amount", ClassicalValue: *a.TaxAmount, ModelValue: *b.TaxAmount,
		})
	}

	return discrepancies
}

// NormalizeDate converts a date string to YYYY-MM-DD, trying common receipt
// formats in fixed order. Unparseable inputs pass through unchanged, which
// keeps the function idempotent on already-normalized dates.
func NormalizeDate(dateStr string) string {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return dateStr
}

// NormalizeText lowercases and strips everything but letters and digits
func NormalizeText(text string) string {
	return nonAlnumPattern.ReplaceAllString(strings.ToLower(text), "")
}

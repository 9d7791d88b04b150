package ocr

import (
	"context"
	"image"
	"regexp"
	"strconv"
	"strings"

	"github.com/triptally/expense-assistant/pkg/logger"
	"go.uber.org/zap"
)

// Receipt element patterns used for the heuristic confidence score
var receiptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`),              // date
	regexp.MustCompile(`\$\d+\.\d{2}`),                               // dollar amount
	regexp.MustCompile(`TOTAL|SUBTOTAL|TAX`),                         // common receipt words
	regexp.MustCompile(`\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}`),        // card number
}

var (
	datePattern  = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)
	totalPattern = regexp.MustCompile(`(?i)TOTAL\s*\$?(\d+\.\d{2})`)
	taxPattern   = regexp.MustCompile(`(?i)TAX\s*\$?(\d+\.\d{2})`)
	itemPattern  = regexp.MustCompile(`([A-Za-z\s]+)\s+\$?(\d+\.\d{2})`)
)

// ClassicalOCR runs the OCR engine over several preprocessing variants and
// keeps the best pass by heuristic confidence.
type ClassicalOCR struct {
	engine Engine
}

// NewClassicalOCR creates the classical OCR path
func NewClassicalOCR(engine Engine) *ClassicalOCR {
	return &ClassicalOCR{engine: engine}
}

// Analyze runs OCR over the original image plus three preprocessing variants
func (c *ClassicalOCR) Analyze(ctx context.Context, imageData []byte) (*ClassicalResult, error) {
	gray, err := decodeToGray(imageData)
	if err != nil {
		return nil, err
	}

	result := &ClassicalResult{}

	if text, err := c.engine.Recognize(ctx, imageData); err == nil {
		result.OriginalText = text
	} else {
		logger.Warn("ocr pass failed", zap.String("method", "original"), zap.Error(err))
	}

	variants := []struct {
		method string
		img    *image.Gray
	}{
		{"basic", preprocessBasic(gray)},
		{"contrast_enhanced", preprocessAdaptive(gray)},
		{"denoised", preprocessDenoise(gray)},
	}

	for _, v := range variants {
		encoded, err := encodeGray(v.img)
		if err != nil {
			logger.Warn("failed to encode preprocessed image",
				zap.String("method", v.method), zap.Error(err))
			continue
		}
		text, err := c.engine.Recognize(ctx, encoded)
		if err != nil {
			logger.Warn("ocr pass failed", zap.String("method", v.method), zap.Error(err))
			continue
		}
		result.AllPasses = append(result.AllPasses, PassResult{
			Method:     v.method,
			Text:       text,
			Confidence: PatternConfidence(text),
		})
	}

	for i, pass := range result.AllPasses {
		if i == 0 || pass.Confidence > result.Best.Confidence {
			result.Best = pass
		}
	}

	result.Structured = ExtractStructured(result.Best.Text)
	return result, nil
}

// PatternConfidence scores OCR text by the fraction of expected receipt
// elements it contains.
func PatternConfidence(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}
	matches := 0
	for _, p := range receiptPatterns {
		if p.MatchString(text) {
			matches++
		}
	}
	score := float64(matches) / float64(len(receiptPatterns))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ExtractStructured pulls the structured fields out of raw OCR text
func ExtractStructured(text string) *StructuredData {
	data := &StructuredData{}

	if m := datePattern.FindString(text); m != "" {
		data.Date = m
	}
	if m := totalPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			data.TotalAmount = &v
		}
	}
	if m := taxPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			data.TaxAmount = &v
		}
	}

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			data.VendorName = strings.TrimSpace(line)
			break
		}
	}

	for _, line := range lines {
		if m := itemPattern.FindStringSubmatch(line); m != nil {
			amount, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			data.Items = append(data.Items, LineItem{
				Description: strings.TrimSpace(m[1]),
				Amount:      amount,
			})
		}
	}

	return data
}

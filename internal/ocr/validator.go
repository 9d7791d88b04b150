// Package ocr recognizes receipt text along two independent paths, a
// classical engine with preprocessing variants and a vision model, and
// reconciles the two into a single result with a confidence score.
package ocr

import (
	"context"

	"github.com/triptally/expense-assistant/pkg/logger"
	"go.uber.org/zap"
)

// CrossValidator runs both OCR paths and reconciles them
type CrossValidator struct {
	classical *ClassicalOCR
	model     *ModelOCR
}

// NewCrossValidator creates a cross-validator from both OCR paths
func NewCrossValidator(classical *ClassicalOCR, model *ModelOCR) *CrossValidator {
	return &CrossValidator{classical: classical, model: model}
}

// Analyze runs both OCR paths over the image. A failed path degrades to an
// empty contribution instead of failing the report.
func (v *CrossValidator) Analyze(ctx context.Context, imageData []byte) *Report {
	report := &Report{}

	classical, err := v.classical.Analyze(ctx, imageData)
	if err != nil {
		logger.Warn("classical ocr failed", zap.Error(err))
	} else {
		report.Classical = classical
	}

	model, err := v.model.Analyze(ctx, imageData)
	if err != nil {
		logger.Warn("model ocr failed", zap.Error(err))
	} else {
		report.Model = model
	}

	report.Combined = Reconcile(report.Classical, report.Model)
	return report
}

// ToMap renders the report in the shape persisted with fraud verdicts
func (r *Report) ToMap() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Classical != nil {
		out["tesseract_analysis"] = r.Classical
	}
	if r.Model != nil {
		out["llm_analysis"] = r.Model
	}
	if r.Combined != nil {
		out["combined_analysis"] = r.Combined
	}
	return out
}

package fraud

import (
	"context"

	"go.uber.org/zap"

	"github.com/triptally/expense-assistant/internal/expenses"
	"github.com/triptally/expense-assistant/internal/imaging"
	"github.com/triptally/expense-assistant/internal/ocr"
	"github.com/triptally/expense-assistant/pkg/logger"
	"github.com/triptally/expense-assistant/pkg/storage"
)

// ImageForensicsAnalyzer fetches the receipt image and runs the forensic
// stages over it: quality metrics, manipulation checks, both OCR paths,
// and text pattern analysis. Each stage is isolated; a failed stage leaves
// an empty partial in the result map.
type ImageForensicsAnalyzer struct {
	fetcher   storage.Fetcher
	forensics *imaging.Analyzer
	validator *ocr.CrossValidator
}

// NewImageForensicsAnalyzer creates the image analyzer
func NewImageForensicsAnalyzer(fetcher storage.Fetcher, forensics *imaging.Analyzer, validator *ocr.CrossValidator) *ImageForensicsAnalyzer {
	return &ImageForensicsAnalyzer{
		fetcher:   fetcher,
		forensics: forensics,
		validator: validator,
	}
}

var _ Analyzer = (*ImageForensicsAnalyzer)(nil)

// Category returns the risk weight key for this analyzer
func (a *ImageForensicsAnalyzer) Category() string {
	return CategoryImageAnalysis
}

// Analyze downloads the document and runs all forensic stages
func (a *ImageForensicsAnalyzer) Analyze(ctx context.Context, expense *expenses.Expense, documentURL string) (*AnalysisResult, error) {
	data, err := a.fetcher.Fetch(ctx, documentURL)
	if err != nil {
		return nil, err
	}

	results := map[string]interface{}{}

	report, err := a.forensics.Analyze(data)
	if err != nil {
		logger.Warn("image forensics failed", zap.Error(err))
	} else {
		if report.Quality != nil {
			results["image_quality"] = report.Quality
		}
		results["manipulation_indicators"] = report.ManipulationIndicators
	}

	ocrReport := a.validator.Analyze(ctx, data)
	results["ocr_analysis"] = ocrReport.ToMap()
	if ocrReport.Combined != nil {
		results["text_pattern_analysis"] = ocr.AnalyzeTextPatterns(ocrReport.Combined.ExtractedText)
	}

	return &AnalysisResult{ImageAnalysis: results}, nil
}

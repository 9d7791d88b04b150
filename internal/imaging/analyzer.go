// Package imaging provides receipt image forensics: quality scoring and
// manipulation detection over decoded rasters, plus metadata anomaly checks
// over the raw file bytes.
package imaging

import (
	"fmt"

	"github.com/triptally/expense-assistant/pkg/logger"
	"go.uber.org/zap"
)

// Report is the full forensic result for a receipt image
type Report struct {
	Quality                *QualityReport `json:"image_quality,omitempty"`
	ManipulationIndicators []string       `json:"manipulation_indicators"`
}

// Analyzer runs image forensics on receipt documents
type Analyzer struct{}

// NewAnalyzer creates an image forensics analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze decodes the image and runs quality and manipulation checks.
// Stage failures degrade to empty partial results rather than failing the
// whole report; only an undecodable image is an error.
func (a *Analyzer) Analyze(data []byte) (*Report, error) {
	gray, err := decodeGray(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	report := &Report{ManipulationIndicators: []string{}}

	quality := analyzeQuality(gray)
	report.Quality = &quality

	report.ManipulationIndicators = append(report.ManipulationIndicators, detectManipulation(gray)...)

	anomalies := checkMetadata(data)
	report.ManipulationIndicators = append(report.ManipulationIndicators, anomalies...)

	if len(report.ManipulationIndicators) > 0 {
		logger.Debug("manipulation indicators found",
			zap.Int("count", len(report.ManipulationIndicators)))
	}

	return report, nil
}

// ToMap renders the report in the shape persisted with fraud verdicts
func (r *Report) ToMap() map[string]interface{} {
	out := map[string]interface{}{
		"manipulation_indicators": r.ManipulationIndicators,
	}
	if r.Quality != nil {
		out["image_quality"] = map[string]interface{}{
			"blur_score":            r.Quality.BlurScore,
			"brightness":            r.Quality.Brightness,
			"contrast":              r.Quality.Contrast,
			"noise_level":           r.Quality.NoiseLevel,
			"compression_artifacts": r.Quality.CompressionArtifacts,
			"quality_assessment":    r.Quality.QualityAssessment,
		}
	}
	return out
}

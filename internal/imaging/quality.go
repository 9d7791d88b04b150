package imaging

// Quality thresholds for receipt images
const (
	blurThreshold        = 100.0
	brightnessMin        = 50.0
	brightnessMax        = 200.0
	contrastThreshold    = 30.0
	noiseThreshold       = 20.0
	compressionThreshold = 0.5
)

// QualityReport holds image quality metrics for a receipt
type QualityReport struct {
	BlurScore            float64 `json:"blur_score"`
	Brightness           float64 `json:"brightness"`
	Contrast             float64 `json:"contrast"`
	NoiseLevel           float64 `json:"noise_level"`
	CompressionArtifacts float64 `json:"compression_artifacts"`
	QualityAssessment    string  `json:"quality_assessment"`
}

// analyzeQuality computes blur, brightness, contrast, noise and compression
// metrics for a grayscale image.
func analyzeQuality(gray *grayImage) QualityReport {
	report := QualityReport{
		BlurScore:            varianceOf(gray.laplacian()),
		Brightness:           gray.mean(),
		Contrast:             gray.stddev(),
		NoiseLevel:           estimateNoise(gray),
		CompressionArtifacts: detectCompressionArtifacts(gray),
	}
	report.QualityAssessment = assessQuality(report)
	return report
}

// estimateNoise approximates the noise level as the mean absolute residual
// of a 3x3 median filter.
func estimateNoise(gray *grayImage) float64 {
	median := gray.median3()
	sum := 0.0
	for i := range gray.pix {
		d := gray.pix[i] - median.pix[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	if len(gray.pix) == 0 {
		return 0
	}
	return sum / float64(len(gray.pix))
}

// detectCompressionArtifacts measures high-frequency DCT energy normalized
// by image area. Heavily compressed JPEGs concentrate energy in the low
// frequencies, so a high score points at recompression or artifacts.
func detectCompressionArtifacts(gray *grayImage) float64 {
	if gray.width <= 8 || gray.height <= 8 {
		return 0
	}
	dct := dct2(gray)

	hfEnergy := 0.0
	for y := 8; y < dct.height; y++ {
		for x := 8; x < dct.width; x++ {
			v := dct.at(x, y)
			if v < 0 {
				v = -v
			}
			hfEnergy += v
		}
	}
	return hfEnergy / float64(gray.width*gray.height)
}

// assessQuality maps the metrics to a single verdict. The checks are ordered
// by severity; the first failing threshold wins.
func assessQuality(r QualityReport) string {
	switch {
	case r.BlurScore < blurThreshold:
		return "Poor quality - Image is too blurry"
	case r.Brightness < brightnessMin || r.Brightness > brightnessMax:
		return "Poor quality - Incorrect brightness"
	case r.Contrast < contrastThreshold:
		return "Poor quality - Low contrast"
	case r.NoiseLevel > noiseThreshold:
		return "Poor quality - High noise level"
	case r.CompressionArtifacts > compressionThreshold:
		return "Poor quality - Heavy compression artifacts"
	default:
		return "Good quality"
	}
}

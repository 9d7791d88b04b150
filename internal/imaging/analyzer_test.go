package imaging

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func noisyImage(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(rng.Intn(256))})
		}
	}
	return img
}

func TestAssessQualityPriorityOrder(t *testing.T) {
	tests := []struct {
		name   string
		report QualityReport
		want   string
	}{
		{
			name:   "blurry wins over everything",
			report: QualityReport{BlurScore: 50, Brightness: 10, Contrast: 5, NoiseLevel: 99, CompressionArtifacts: 0.9},
			want:   "Poor quality - Image is too blurry",
		},
		{
			name:   "too dark",
			report: QualityReport{BlurScore: 150, Brightness: 40, Contrast: 50},
			want:   "Poor quality - Incorrect brightness",
		},
		{
			name:   "too bright",
			report: QualityReport{BlurScore: 150, Brightness: 210, Contrast: 50},
			want:   "Poor quality - Incorrect brightness",
		},
		{
			name:   "low contrast",
			report: QualityReport{BlurScore: 150, Brightness: 120, Contrast: 20},
			want:   "Poor quality - Low contrast",
		},
		{
			name:   "high noise",
			report: QualityReport{BlurScore: 150, Brightness: 120, Contrast: 50, NoiseLevel: 25},
			want:   "Poor quality - High noise level",
		},
		{
			name:   "heavy compression",
			report: QualityReport{BlurScore: 150, Brightness: 120, Contrast: 50, NoiseLevel: 5, CompressionArtifacts: 0.7},
			want:   "Poor quality - Heavy compression artifacts",
		},
		{
			name:   "good",
			report: QualityReport{BlurScore: 150, Brightness: 120, Contrast: 50, NoiseLevel: 5, CompressionArtifacts: 0.1},
			want:   "Good quality",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assessQuality(tt.report))
		})
	}
}

func TestEstimateNoiseFlatImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	gray := toGray(img)
	assert.Zero(t, estimateNoise(gray))
}

func TestSSIMIdenticalBlocks(t *testing.T) {
	block := toGray(noisyImage(16, 16, 1))
	assert.InDelta(t, 1.0, ssim(block, block), 1e-9)
}

func TestSSIMDissimilarBlocks(t *testing.T) {
	a := toGray(noisyImage(16, 16, 1))
	b := toGray(noisyImage(16, 16, 2))
	assert.Less(t, ssim(a, b), 0.95)
}

func TestDetectCopyMoveTiledImage(t *testing.T) {
	// Repeat one noisy 16x16 tile across the image so distinct blocks match
	tile := noisyImage(16, 16, 7)
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, tile.GrayAt(x%16, y%16))
		}
	}
	assert.True(t, detectCopyMove(toGray(img)))
}

func TestDetectCopyMoveRandomImage(t *testing.T) {
	assert.False(t, detectCopyMove(toGray(noisyImage(64, 64, 42))))
}

func TestSobelEdgesBinaryMap(t *testing.T) {
	// Hard vertical step, strong gradients down the middle
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 16; x < 32; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	edges := sobelEdges(toGray(img))

	found := false
	for _, v := range edges.pix {
		assert.True(t, v == 0 || v == 1)
		if v == 1 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckEdgeInconsistencyUniformImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	assert.False(t, checkEdgeInconsistency(toGray(img)))
}

func TestAnalyzeProducesReport(t *testing.T) {
	analyzer := NewAnalyzer()
	data := encodePNG(t, noisyImage(64, 64, 3))

	report, err := analyzer.Analyze(data)
	require.NoError(t, err)
	require.NotNil(t, report.Quality)
	assert.NotEmpty(t, report.Quality.QualityAssessment)
	assert.NotNil(t, report.ManipulationIndicators)
}

func TestAnalyzeUndecodableImage(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.Analyze([]byte("definitely not an image"))
	require.Error(t, err)
}

func pngTextChunk(keyword, value string) []byte {
	payload := append([]byte(keyword), 0)
	payload = append(payload, []byte(value)...)

	chunk := make([]byte, 0, 12+len(payload))
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	chunk = append(chunk, lenBuf[:]...)
	chunk = append(chunk, []byte("tEXt")...)
	chunk = append(chunk, payload...)
	chunk = append(chunk, 0, 0, 0, 0) // CRC is not validated by the scanner
	return chunk
}

func TestCheckMetadataSuspiciousSoftware(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	data = append(data, pngTextChunk("Software", "Adobe Photoshop 25.0")...)

	anomalies := checkMetadata(data)
	require.Len(t, anomalies, 1)
	assert.Contains(t, anomalies[0], "photoshop")
}

func TestCheckMetadataMultipleSaves(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	data = append(data, pngTextChunk("Comment", "saved with editor")...)

	anomalies := checkMetadata(data)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "Image appears to have been saved multiple times", anomalies[0])
}

func TestCheckMetadataMissing(t *testing.T) {
	// Bare PNG with no text chunks at all
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	anomalies := checkMetadata(data)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "No metadata found", anomalies[0])
}

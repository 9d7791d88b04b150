package imaging

// Manipulation detection thresholds
const (
	copyMoveBlockSize      = 16
	copyMoveSimilarity     = 0.95
	dctEnergyVarThreshold  = 1000.0
	noiseRegionVarLimit    = 50.0
	edgeDensityVarLimit    = 0.1
	regionGridSize         = 4
	edgeGradientThreshold  = 100.0
)

// detectManipulation runs all tamper checks and returns human-readable
// indicator strings for each one that fires.
func detectManipulation(gray *grayImage) []string {
	indicators := make([]string, 0, 4)

	if detectCopyMove(gray) {
		indicators = append(indicators, "Possible copy-move forgery detected")
	}
	if checkJPEGConsistency(gray) {
		indicators = append(indicators, "Inconsistent JPEG compression detected")
	}
	if checkNoiseInconsistency(gray) {
		indicators = append(indicators, "Inconsistent noise patterns detected")
	}
	if checkEdgeInconsistency(gray) {
		indicators = append(indicators, "Inconsistent edge patterns detected")
	}

	return indicators
}

// detectCopyMove looks for duplicated regions via block matching.
// The all-pairs SSIM comparison is quadratic in the number of blocks, which
// limits usable input sizes; receipts are small enough in practice.
func detectCopyMove(gray *grayImage) bool {
	type block struct {
		img *grayImage
	}

	var blocks []block
	for y := 0; y+copyMoveBlockSize < gray.height; y += copyMoveBlockSize {
		for x := 0; x+copyMoveBlockSize < gray.width; x += copyMoveBlockSize {
			blocks = append(blocks, block{img: gray.region(x, y, copyMoveBlockSize, copyMoveBlockSize)})
		}
	}

	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			if ssim(blocks[i].img, blocks[j].img) > copyMoveSimilarity {
				return true
			}
		}
	}
	return false
}

// ssim computes a single-window structural similarity between two
// equally-sized grayscale blocks.
func ssim(a, b *grayImage) float64 {
	const (
		c1 = (0.01 * 255) * (0.01 * 255)
		c2 = (0.03 * 255) * (0.03 * 255)
	)

	muA := a.mean()
	muB := b.mean()
	varA := a.variance()
	varB := b.variance()

	cov := 0.0
	for i := range a.pix {
		cov += (a.pix[i] - muA) * (b.pix[i] - muB)
	}
	cov /= float64(len(a.pix))

	num := (2*muA*muB + c1) * (2*cov + c2)
	den := (muA*muA + muB*muB + c1) * (varA + varB + c2)
	if den == 0 {
		return 0
	}
	return num / den
}

// checkJPEGConsistency splits the image DCT into an 8x8 grid and flags
// large variance across block energies, a sign of locally recompressed areas.
func checkJPEGConsistency(gray *grayImage) bool {
	if gray.width < 8 || gray.height < 8 {
		return false
	}
	dct := dct2(gray)

	blockW := dct.width / 8
	blockH := dct.height / 8
	if blockW == 0 || blockH == 0 {
		return false
	}

	energies := make([]float64, 0, 64)
	for by := 0; by < 8; by++ {
		for bx := 0; bx < 8; bx++ {
			sum := 0.0
			for y := by * blockH; y < (by+1)*blockH; y++ {
				for x := bx * blockW; x < (bx+1)*blockW; x++ {
					v := dct.at(x, y)
					if v < 0 {
						v = -v
					}
					sum += v
				}
			}
			energies = append(energies, sum)
		}
	}

	return varianceOf(energies) > dctEnergyVarThreshold
}

// checkNoiseInconsistency splits the image into a 4x4 grid and flags regions
// whose noise estimates diverge, suggesting a spliced area.
func checkNoiseInconsistency(gray *grayImage) bool {
	regionW := gray.width / regionGridSize
	regionH := gray.height / regionGridSize
	if regionW < 3 || regionH < 3 {
		return false
	}

	levels := make([]float64, 0, regionGridSize*regionGridSize)
	for ry := 0; ry < regionGridSize; ry++ {
		for rx := 0; rx < regionGridSize; rx++ {
			region := gray.region(rx*regionW, ry*regionH, regionW, regionH)
			levels = append(levels, estimateNoise(region))
		}
	}

	return varianceOf(levels) > noiseRegionVarLimit
}

// checkEdgeInconsistency compares edge densities across a 4x4 grid. Pasted
// content tends to carry a different edge character than the host image.
// Densities are fractions of edge pixels over a binary Sobel map, so the
// variance threshold applies to values in [0,1] rather than raw 0..255
// detector sums.
func checkEdgeInconsistency(gray *grayImage) bool {
	edges := sobelEdges(gray)

	regionW := edges.width / regionGridSize
	regionH := edges.height / regionGridSize
	if regionW == 0 || regionH == 0 {
		return false
	}

	densities := make([]float64, 0, regionGridSize*regionGridSize)
	for ry := 0; ry < regionGridSize; ry++ {
		for rx := 0; rx < regionGridSize; rx++ {
			count := 0.0
			for y := ry * regionH; y < (ry+1)*regionH; y++ {
				for x := rx * regionW; x < (rx+1)*regionW; x++ {
					if edges.at(x, y) > 0 {
						count++
					}
				}
			}
			densities = append(densities, count/float64(regionW*regionH))
		}
	}

	return varianceOf(densities) > edgeDensityVarLimit
}

// sobelEdges produces a binary edge map using Sobel gradient magnitude
func sobelEdges(gray *grayImage) *grayImage {
	out := &grayImage{pix: make([]float64, len(gray.pix)), width: gray.width, height: gray.height}
	if gray.width < 3 || gray.height < 3 {
		return out
	}

	for y := 1; y < gray.height-1; y++ {
		for x := 1; x < gray.width-1; x++ {
			gx := -gray.at(x-1, y-1) + gray.at(x+1, y-1) +
				-2*gray.at(x-1, y) + 2*gray.at(x+1, y) +
				-gray.at(x-1, y+1) + gray.at(x+1, y+1)
			gy := -gray.at(x-1, y-1) - 2*gray.at(x, y-1) - gray.at(x+1, y-1) +
				gray.at(x-1, y+1) + 2*gray.at(x, y+1) + gray.at(x+1, y+1)

			mag := gx*gx + gy*gy
			if mag > edgeGradientThreshold*edgeGradientThreshold {
				out.set(x, y, 1)
			}
		}
	}
	return out
}

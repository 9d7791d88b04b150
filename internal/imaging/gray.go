package imaging

import (
	"bytes"
	"image"
	"math"

	_ "image/jpeg"
	_ "image/png"
)

// grayImage is a grayscale raster with float64 intensities in [0, 255]
type grayImage struct {
	pix    []float64
	width  int
	height int
}

func (g *grayImage) at(x, y int) float64 {
	return g.pix[y*g.width+x]
}

func (g *grayImage) set(x, y int, v float64) {
	g.pix[y*g.width+x] = v
}

// decodeGray decodes image bytes and converts to grayscale using the
// ITU-R 601 luma weights.
func decodeGray(data []byte) (*grayImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toGray(img), nil
}

func toGray(img image.Image) *grayImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := &grayImage{pix: make([]float64, w*h), width: w, height: h}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gr, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// 16-bit channels scaled down to 8-bit range
			lum := 0.299*float64(r>>8) + 0.587*float64(gr>>8) + 0.114*float64(b>>8)
			g.set(x, y, lum)
		}
	}
	return g
}

// region returns a sub-view copied out of the image
func (g *grayImage) region(x0, y0, w, h int) *grayImage {
	out := &grayImage{pix: make([]float64, w*h), width: w, height: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.set(x, y, g.at(x0+x, y0+y))
		}
	}
	return out
}

func (g *grayImage) mean() float64 {
	if len(g.pix) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range g.pix {
		sum += v
	}
	return sum / float64(len(g.pix))
}

func (g *grayImage) stddev() float64 {
	return math.Sqrt(g.variance())
}

func (g *grayImage) variance() float64 {
	if len(g.pix) == 0 {
		return 0
	}
	m := g.mean()
	sum := 0.0
	for _, v := range g.pix {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(g.pix))
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func varianceOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := meanOf(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals))
}

// laplacian applies the 3x3 Laplacian kernel and returns the responses
// for interior pixels.
func (g *grayImage) laplacian() []float64 {
	if g.width < 3 || g.height < 3 {
		return nil
	}
	out := make([]float64, 0, (g.width-2)*(g.height-2))
	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1; x++ {
			v := g.at(x, y-1) + g.at(x-1, y) + g.at(x+1, y) + g.at(x, y+1) - 4*g.at(x, y)
			out = append(out, v)
		}
	}
	return out
}

// median3 applies a 3x3 median filter. Border pixels are left unchanged,
// matching the typical replicate-border behavior closely enough for
// residual estimation.
func (g *grayImage) median3() *grayImage {
	out := &grayImage{pix: make([]float64, len(g.pix)), width: g.width, height: g.height}
	copy(out.pix, g.pix)

	var window [9]float64
	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1; x++ {
			i := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window[i] = g.at(x+dx, y+dy)
					i++
				}
			}
			out.set(x, y, median9(window))
		}
	}
	return out
}

func median9(w [9]float64) float64 {
	// insertion sort on a fixed-size window
	for i := 1; i < 9; i++ {
		v := w[i]
		j := i - 1
		for j >= 0 && w[j] > v {
			w[j+1] = w[j]
			j--
		}
		w[j+1] = v
	}
	return w[4]
}

// dct2 computes the orthonormal 2D DCT-II via separable row/column passes
func dct2(g *grayImage) *grayImage {
	rows := dctPass(g, true)
	return dctPass(rows, false)
}

func dctPass(g *grayImage, horizontal bool) *grayImage {
	out := &grayImage{pix: make([]float64, len(g.pix)), width: g.width, height: g.height}

	n := g.width
	if !horizontal {
		n = g.height
	}
	if n == 0 {
		return out
	}

	scale0 := math.Sqrt(1.0 / float64(n))
	scale := math.Sqrt(2.0 / float64(n))

	// Precompute the cosine basis for this dimension
	cosTable := make([]float64, n*n)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			cosTable[k*n+i] = math.Cos(math.Pi * float64(2*i+1) * float64(k) / float64(2*n))
		}
	}

	if horizontal {
		for y := 0; y < g.height; y++ {
			for k := 0; k < n; k++ {
				sum := 0.0
				for i := 0; i < n; i++ {
					sum += g.at(i, y) * cosTable[k*n+i]
				}
				if k == 0 {
					out.set(k, y, sum*scale0)
				} else {
					out.set(k, y, sum*scale)
				}
			}
		}
	} else {
		for x := 0; x < g.width; x++ {
			for k := 0; k < n; k++ {
				sum := 0.0
				for i := 0; i < n; i++ {
					sum += g.at(x, i) * cosTable[k*n+i]
				}
				if k == 0 {
					out.set(x, k, sum*scale0)
				} else {
					out.set(x, k, sum*scale)
				}
			}
		}
	}
	return out
}

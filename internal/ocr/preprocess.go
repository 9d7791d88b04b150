package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sort"

	_ "image/jpeg"
)

// decodeToGray decodes image bytes into an 8-bit grayscale raster
func decodeToGray(data []byte) (*image.Gray, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray, nil
}

func encodeGray(img *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// preprocessBasic sharpens the grayscale image and boosts contrast by 1.5x
// around the mean.
func preprocessBasic(src *image.Gray) *image.Gray {
	sharpened := sharpen(src)
	return adjustContrast(sharpened, 1.5)
}

// preprocessAdaptive applies tile-based adaptive histogram equalization,
// clipping each tile histogram to limit noise amplification.
func preprocessAdaptive(src *image.Gray) *image.Gray {
	const tiles = 8
	const clipLimit = 2.0

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)

	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles
	if tileW == 0 || tileH == 0 {
		copy(out.Pix, src.Pix)
		return out
	}

	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0 := tx * tileW
			y0 := ty * tileH
			x1 := min(x0+tileW, w)
			y1 := min(y0+tileH, h)
			if x0 >= x1 || y0 >= y1 {
				continue
			}
			equalizeTile(src, out, x0, y0, x1, y1, clipLimit)
		}
	}
	return out
}

func equalizeTile(src, dst *image.Gray, x0, y0, x1, y1 int, clipLimit float64) {
	var hist [256]int
	count := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[src.GrayAt(x, y).Y]++
			count++
		}
	}
	if count == 0 {
		return
	}

	// Clip the histogram and redistribute the excess uniformly
	limit := int(clipLimit * float64(count) / 256.0)
	if limit < 1 {
		limit = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > limit {
			excess += hist[i] - limit
			hist[i] = limit
		}
	}
	share := excess / 256
	for i := range hist {
		hist[i] += share
	}

	// Build the CDF lookup
	var lut [256]uint8
	cum := 0
	for i := range hist {
		cum += hist[i]
		lut[i] = uint8(255 * cum / count)
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dst.SetGray(x, y, color.Gray{Y: lut[src.GrayAt(x, y).Y]})
		}
	}
}

// preprocessDenoise removes speckle noise with a 3x3 median filter,
// a cheap stand-in for non-local means that behaves well on receipt scans.
func preprocessDenoise(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	out := image.NewGray(bounds)
	copy(out.Pix, src.Pix)

	w, h := bounds.Dx(), bounds.Dy()
	window := make([]uint8, 0, 9)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window = append(window, src.GrayAt(x+dx, y+dy).Y)
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			out.SetGray(x, y, color.Gray{Y: window[4]})
		}
	}
	return out
}

// sharpen applies a 3x3 sharpening kernel
func sharpen(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	out := image.NewGray(bounds)
	copy(out.Pix, src.Pix)

	w, h := bounds.Dx(), bounds.Dy()
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			v := 5*int(src.GrayAt(x, y).Y) -
				int(src.GrayAt(x, y-1).Y) - int(src.GrayAt(x-1, y).Y) -
				int(src.GrayAt(x+1, y).Y) - int(src.GrayAt(x, y+1).Y)
			out.SetGray(x, y, color.Gray{Y: clampByte(v)})
		}
	}
	return out
}

// adjustContrast scales intensity distance from the image mean by factor
func adjustContrast(src *image.Gray, factor float64) *image.Gray {
	bounds := src.Bounds()
	out := image.NewGray(bounds)

	sum := 0
	for _, p := range src.Pix {
		sum += int(p)
	}
	mean := 128.0
	if len(src.Pix) > 0 {
		mean = float64(sum) / float64(len(src.Pix))
	}

	for i, p := range src.Pix {
		v := mean + (float64(p)-mean)*factor
		out.Pix[i] = clampByte(int(v + 0.5))
	}
	return out
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package ocr

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// inversionThreshold is the mean-luminance cutoff below which a photo is
// treated as white-text-on-dark-background and inverted into the polarity
// the recognizer expects.
const inversionThreshold = 128

// PreprocessOptions are the optional re-encoding parameters for a scan.
// Zero values mean "leave the dimensions alone" and "default JPEG quality".
type PreprocessOptions struct {
	MaxWidth    int
	JPEGQuality int
}

const defaultJPEGQuality = 90

// Preprocess normalizes a receipt photo before recognition: dark images get
// their RGB channels inverted (alpha untouched), oversized images are scaled
// down to MaxWidth, and the result is re-encoded as JPEG at a fixed quality.
// It is deterministic and never fails: any decode or encode problem passes
// the original bytes through unmodified.
func Preprocess(data []byte, opts PreprocessOptions) []byte {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	if meanLuminance(img) < inversionThreshold {
		img = imaging.Invert(img)
	}

	if opts.MaxWidth > 0 && img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}

	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return data
	}
	return buf.Bytes()
}

// meanLuminance averages (R+G+B)/3 over every pixel, on the 0-255 scale.
func meanLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 255
	}

	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels.
			sum += float64(r>>8+g>>8+b>>8) / 3
		}
	}
	return sum / float64(pixels)
}

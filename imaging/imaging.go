// Package imaging decodes raster photos, scales them into a pixel budget
// and re-encodes them as JPEG for embedding in the PDF.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmpty is returned for zero-length input.
var ErrEmpty = errors.New("imaging: empty image data")

// DecodeError wraps a failure to read the source image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "imaging: decode: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Embedder implements layout.ImageEmbedder. The zero value scales with
// Catmull-Rom.
type Embedder struct {
	Scaler draw.Scaler
}

// New returns an Embedder using the default interpolator.
func New() *Embedder { return &Embedder{} }

// Fit returns the largest size with the aspect ratio of w×h that fits in
// maxW×maxH. Images are never enlarged. Each side is at least one pixel.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	f := 1.0
	if maxW > 0 {
		f = math.Min(f, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		f = math.Min(f, float64(maxH)/float64(h))
	}
	if f >= 1 {
		return w, h
	}
	return max(int(math.Floor(float64(w)*f)), 1), max(int(math.Floor(float64(h)*f)), 1)
}

// Embed decodes raw, scales it down to fit maxWidth×maxHeight pixels,
// flattens any transparency onto white and encodes the result as JPEG at
// quality (0..1]. It returns the JPEG bytes and their pixel size.
func (e *Embedder) Embed(raw []byte, maxWidth, maxHeight int, quality float64) ([]byte, int, int, error) {
	if len(raw) == 0 {
		return nil, 0, 0, ErrEmpty
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, &DecodeError{Err: err}
	}
	b := src.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), maxWidth, maxHeight)
	if w == 0 || h == 0 {
		return nil, 0, 0, fmt.Errorf("imaging: image has no pixels")
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		e.scaler().Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return nil, 0, 0, fmt.Errorf("imaging: encode: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

func (e *Embedder) scaler() draw.Scaler {
	if e == nil || e.Scaler == nil {
		return draw.CatmullRom
	}
	return e.Scaler
}

// jpegQuality maps 0..1 to the JPEG 1..100 scale.
func jpegQuality(q float64) int {
	if q <= 0 || q > 1 {
		q = 0.8
	}
	return min(max(int(math.Round(q*100)), 1), 100)
}

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFit(t *testing.T) {
	cases := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"landscape limited by width", 400, 200, 100, 100, 100, 50},
		{"portrait limited by height", 300, 600, 200, 150, 75, 150},
		{"never enlarged", 40, 20, 100, 100, 40, 20},
		{"unbounded height", 1000, 10, 100, 0, 100, 1},
		{"empty image", 0, 10, 100, 100, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := Fit(tc.w, tc.h, tc.maxW, tc.maxH)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestEmbedScalesDownKeepingAspect(t *testing.T) {
	raw := pngBytes(t, 640, 480, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	out, w, h, err := New().Embed(raw, 300, 300, 0.8)
	require.NoError(t, err)

	assert.LessOrEqual(t, w, 300)
	assert.LessOrEqual(t, h, 300)
	assert.InDelta(t, 640.0/480.0*float64(h), float64(w), 1.0)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, w, decoded.Bounds().Dx())
	assert.Equal(t, h, decoded.Bounds().Dy())
}

func TestEmbedDoesNotUpscale(t *testing.T) {
	raw := pngBytes(t, 50, 30, color.NRGBA{G: 255, A: 255})
	_, w, h, err := (&Embedder{}).Embed(raw, 1000, 1000, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, w)
	assert.Equal(t, 30, h)
}

func TestEmbedFlattensTransparency(t *testing.T) {
	raw := pngBytes(t, 20, 20, color.NRGBA{})
	out, _, _, err := New().Embed(raw, 20, 20, 0.9)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, g, b, _ := decoded.At(10, 10).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestEmbedRejectsBadData(t *testing.T) {
	_, _, _, err := New().Embed(nil, 10, 10, 0.8)
	assert.ErrorIs(t, err, ErrEmpty)

	_, _, _, err = New().Embed([]byte("definitely not an image"), 10, 10, 0.8)
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestJPEGQuality(t *testing.T) {
	assert.Equal(t, 80, jpegQuality(0.8))
	assert.Equal(t, 100, jpegQuality(1))
	assert.Equal(t, 80, jpegQuality(0))
	assert.Equal(t, 1, jpegQuality(0.001))
}

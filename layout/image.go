package layout

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// ImageErrorText replaces an image that could not be loaded or decoded.
const ImageErrorText = "[Error loading image]"

var errNoEmbedder = errors.New("no image embedder configured")

// embedBox scales data to fit maxW×maxH millimetres at the configured DPI
// and returns the box it occupies. The box never exceeds the maximum and
// keeps the image's aspect ratio.
func embedBox(ref string, data []byte, maxW, maxH float64, opts BuildOptions) (ImageBox, error) {
	if opts.Images == nil {
		return ImageBox{}, errNoEmbedder
	}
	dpmm := pxPerMM(opts.ImageDPI)
	pxW := max(int(math.Floor(maxW*dpmm)), 1)
	pxH := max(int(math.Floor(maxH*dpmm)), 1)
	scaled, w, h, err := opts.Images.Embed(data, pxW, pxH, opts.ImageQuality)
	if err != nil {
		return ImageBox{}, err
	}
	if w <= 0 || h <= 0 {
		return ImageBox{}, fmt.Errorf("embedded image %s has no pixels", ref)
	}
	boxW := float64(w) / dpmm
	boxH := float64(h) / dpmm
	if f := math.Min(maxW/boxW, maxH/boxH); f < 1 {
		boxW *= f
		boxH *= f
	}
	return ImageBox{
		Ref:         ref,
		Width:       boxW,
		Height:      boxH,
		PixelWidth:  w,
		PixelHeight: h,
		Data:        scaled,
	}, nil
}

// placeImage flows an image block. When the asset is missing or cannot be
// decoded the failure is logged and ImageErrorText is placed at the cursor
// position the image would have taken.
func (rc *RenderContext) placeImage(b Image) {
	maxW := rc.width
	if b.MaxWidth > 0 && b.MaxWidth < maxW {
		maxW = b.MaxWidth
	}
	maxH := rc.contentBottom() - rc.contentTop()
	if b.MaxHeight > 0 && b.MaxHeight < maxH {
		maxH = b.MaxHeight
	}

	img, err := rc.loadImage(b, maxW, maxH)
	if err != nil {
		rc.opts.Logger.Warn("image could not be placed, using placeholder",
			zap.String("block", b.Label), zap.String("ref", b.Ref), zap.Error(err))
		rc.placeText(ImageErrorText, rc.opts.Styles.Caption, b.Margins, 0, 0)
		return
	}

	caption := TextBox{}
	if b.Caption != "" {
		caption = composeTextBox(b.Caption, rc.opts.Styles.Caption, rc.width, rc.opts.Measurer)
	}
	const captionGap = 1.5
	total := img.Height
	if b.Caption != "" {
		total += captionGap + caption.Height
	}
	rc.ensureSpace(b.Margins.Before + total)
	if !rc.atTop() {
		rc.advance(b.Margins.Before)
	}

	img.Y = rc.cursorY
	switch b.Align {
	case AlignLeft:
		img.X = rc.margin.Left
	case AlignRight:
		img.X = rc.margin.Left + rc.width - img.Width
	default:
		img.X = rc.margin.Left + (rc.width-img.Width)/2
	}
	p := rc.page()
	p.Images = append(p.Images, img)
	rc.advance(img.Height)

	if b.Caption != "" {
		rc.advance(captionGap)
		caption.X, caption.Y = rc.margin.Left, rc.cursorY
		p.Texts = append(p.Texts, caption)
		rc.advance(caption.Height)
	}
	rc.advance(b.Margins.After)
}

func (rc *RenderContext) loadImage(b Image, maxW, maxH float64) (ImageBox, error) {
	if b.Ref == "" {
		return ImageBox{}, errors.New("image block has no reference")
	}
	data, ok := rc.opts.Assets.Lookup(b.Ref)
	if !ok {
		return ImageBox{}, fmt.Errorf("asset %s unavailable", b.Ref)
	}
	return embedBox(b.Ref, data, maxW, maxH, rc.opts)
}

package layout

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultLogoWidth  = 42.0
	defaultLogoHeight = 16.0
	logoGap           = 5.0
	ruleGap           = 2.0
	headerAfterRule   = 5.0
	footerHeight      = 11.0
	bandRuleWidth     = 0.3
	defaultPageFormat = "Page %d"
)

// preparedBand is the page band laid out once per build. The header is
// identical on every flowing page; the footer differs only by page number.
type preparedBand struct {
	header       HeaderFooter
	footerHeight float64
	caption      string
	pageFormat   string
}

// prepareBand lays out the header band: a fixed logo box on the left, the
// company block right-aligned beside it and a full-width rule underneath.
func prepareBand(band PageBand, opts BuildOptions) preparedBand {
	m := opts.Page.Margin
	contentWidth := opts.Page.Width - m.Left - m.Right
	logoW, logoH := band.LogoWidth, band.LogoHeight
	if logoW <= 0 {
		logoW = defaultLogoWidth
	}
	if logoH <= 0 {
		logoH = defaultLogoHeight
	}
	top := m.Top
	var hf HeaderFooter

	if img, ok := placeLogo(band.LogoRef, m.Left, top, logoW, logoH, opts); ok {
		hf.Images = append(hf.Images, img)
	} else {
		fill := placeholder
		hf.Rects = append(hf.Rects, Rect{
			X: m.Left, Y: top, Width: logoW, Height: logoH,
			StrokeColor: placeholder, StrokeWidth: 0.2, FillColor: &fill,
		})
	}

	textX := m.Left + logoW + logoGap
	textW := contentWidth - logoW - logoGap
	textH := 0.0
	if len(band.CompanyLines) > 0 {
		strong := opts.Styles.BandStrong
		strong.Align = AlignRight
		name := composeTextBox(band.CompanyLines[0], strong, textW, opts.Measurer)
		name.X, name.Y = textX, top
		hf.Texts = append(hf.Texts, name)
		textH = name.Height
		if rest := band.CompanyLines[1:]; len(rest) > 0 {
			plain := opts.Styles.Band
			plain.Align = AlignRight
			addr := composeTextBox(strings.Join(rest, "\n"), plain, textW, opts.Measurer)
			addr.X, addr.Y = textX, top+textH
			hf.Texts = append(hf.Texts, addr)
			textH += addr.Height
		}
	}

	blockH := math.Max(logoH, textH)
	ruleY := top + blockH + ruleGap
	hf.Lines = append(hf.Lines, Line{X1: m.Left, Y1: ruleY, X2: m.Left + contentWidth, Y2: ruleY, Color: ruleColor, Width: bandRuleWidth})
	hf.Height = blockH + ruleGap + headerAfterRule

	format := band.PageFormat
	if format == "" {
		format = defaultPageFormat
	}
	return preparedBand{
		header:       hf,
		footerHeight: footerHeight,
		caption:      band.Caption,
		pageFormat:   format,
	}
}

// placeLogo embeds the logo into its fixed box, top-left aligned.
func placeLogo(ref string, x, y, w, h float64, opts BuildOptions) (ImageBox, bool) {
	if ref == "" {
		return ImageBox{}, false
	}
	data, ok := opts.Assets.Lookup(ref)
	if !ok {
		opts.Logger.Warn("logo unavailable, drawing placeholder", zap.String("ref", ref))
		return ImageBox{}, false
	}
	img, err := embedBox(ref, data, w, h, opts)
	if err != nil {
		opts.Logger.Warn("logo could not be embedded, drawing placeholder", zap.String("ref", ref), zap.Error(err))
		return ImageBox{}, false
	}
	img.X, img.Y = x, y
	return img, true
}

// headerFor returns a copy of the header band for a new page.
func (b preparedBand) headerFor() HeaderFooter {
	hf := b.header
	hf.Texts = append([]TextBox(nil), b.header.Texts...)
	hf.Images = append([]ImageBox(nil), b.header.Images...)
	hf.Lines = append([]Line(nil), b.header.Lines...)
	hf.Rects = append([]Rect(nil), b.header.Rects...)
	return hf
}

// footerFor lays out the footer band: a rule, the caption on the left and
// the page number on the right.
func (b preparedBand) footerFor(pageNo int, opts BuildOptions) HeaderFooter {
	m := opts.Page.Margin
	contentWidth := opts.Page.Width - m.Left - m.Right
	y0 := opts.Page.Height - m.Bottom - b.footerHeight
	ruleY := y0 + 3
	textY := ruleY + 1.5

	hf := HeaderFooter{Height: b.footerHeight}
	hf.Lines = append(hf.Lines, Line{X1: m.Left, Y1: ruleY, X2: m.Left + contentWidth, Y2: ruleY, Color: ruleColor, Width: bandRuleWidth})

	style := opts.Styles.Band
	style.Align = AlignLeft
	caption := composeTextBox(b.caption, style, contentWidth*0.75, opts.Measurer)
	caption.X, caption.Y = m.Left, textY
	hf.Texts = append(hf.Texts, caption)

	style.Align = AlignRight
	number := composeTextBox(fmt.Sprintf(b.pageFormat, pageNo), style, contentWidth*0.25, opts.Measurer)
	number.X, number.Y = m.Left+contentWidth*0.75, textY
	hf.Texts = append(hf.Texts, number)
	return hf
}

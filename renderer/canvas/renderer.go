package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/clearcert/fonts"
	"github.com/ByLCY/clearcert/layout"
	"github.com/ByLCY/clearcert/renderer"
)

const (
	tableBorderWidth = 0.2
	// MonoFamily names the built-in monospaced family.
	MonoFamily = "Mono"
)

// Renderer draws layout results via github.com/tdewolff/canvas. It also
// measures text for the layout engine with the same faces it draws with.
type Renderer struct {
	baseDir string
	logger  *zap.Logger
	sources map[string]FaceSet

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
	measure  map[layout.Font]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// FaceSet lists the font sources of one family. A source is either
// "embed:<name>" for a built-in face or a file path. Empty styles fall
// back to Regular.
type FaceSet struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// Options configures the canvas renderer.
type Options struct {
	// BaseDir resolves relative font paths.
	BaseDir string
	// Families adds or replaces font families by name.
	Families map[string]FaceSet
	Logger   *zap.Logger
}

// DefaultFamilies maps the layout body family and the mono family to the
// built-in Go fonts.
func DefaultFamilies() map[string]FaceSet {
	return map[string]FaceSet{
		layout.BodyFamily: {
			Regular:    "embed:" + fonts.Regular,
			Bold:       "embed:" + fonts.Bold,
			Italic:     "embed:" + fonts.Italic,
			BoldItalic: "embed:" + fonts.BoldItalic,
		},
		MonoFamily: {Regular: "embed:" + fonts.Mono},
	}
}

// NewRenderer creates a renderer with the built-in families.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with extra families.
func NewRendererWithOptions(opts Options) *Renderer {
	sources := DefaultFamilies()
	for name, set := range opts.Families {
		if name == "" || set.Regular == "" {
			continue
		}
		sources[name] = set
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		baseDir:  opts.BaseDir,
		logger:   logger,
		sources:  sources,
		families: map[string]*canvas.FontFamily{},
		measure:  map[layout.Font]*canvas.FontFace{},
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("layout result is nil")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("layout result has no pages")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		// top-left origin, matching layout coordinates
		ctx.SetCoordSystem(canvas.CartesianIV)

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// TextWidth implements layout.Measurer. The width is in millimetres.
// Unknown families are measured with the body family.
func (r *Renderer) TextWidth(text string, font layout.Font) float64 {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	face, ok := r.measure[font]
	if !ok {
		var err error
		face, err = r.faceLocked(font, layout.Color{})
		if err != nil {
			r.logger.Error("font unavailable for measuring", zap.String("family", font.Family), zap.Error(err))
			return 0
		}
		r.measure[font] = face
	}
	return face.TextWidth(text)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	// header shapes first so text sits on top of them
	r.drawLines(ctx, page.Header.Lines)
	r.drawRects(ctx, page.Header.Rects)
	for _, tb := range page.Header.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	if err := r.drawImages(ctx, page.Header.Images); err != nil {
		return err
	}

	r.drawPolygons(ctx, page.Polygons)
	r.drawLines(ctx, page.Lines)
	r.drawRects(ctx, page.Rects)

	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	if err := r.drawImages(ctx, page.Images); err != nil {
		return err
	}
	if err := r.drawTables(ctx, page.Tables); err != nil {
		return err
	}

	r.drawLines(ctx, page.Footer.Lines)
	r.drawRects(ctx, page.Footer.Rects)
	for _, tb := range page.Footer.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return r.drawImages(ctx, page.Footer.Images)
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.Font, tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Last: true}}
	}
	lineHeight := tb.LineHeight
	if lineHeight <= 0 {
		lineHeight = face.Metrics().LineHeight
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch tb.Align {
	case layout.AlignCenter:
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case layout.AlignRight:
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	ascent := face.Metrics().Ascent
	cursorY := tb.Y
	for _, line := range lines {
		baseline := cursorY + ascent
		if line.Spacing > 0 && !line.Last {
			drawJustified(ctx, face, tb.X, baseline, line)
		} else if line.Content != "" {
			ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, textAlign))
		}
		cursorY += lineHeight
	}
	return nil
}

// drawJustified places the words of a line one by one, widening every gap
// by the line's spacing.
func drawJustified(ctx *canvas.Context, face *canvas.FontFace, x, baseline float64, line layout.TextLine) {
	space := face.TextWidth(" ")
	for _, word := range strings.Split(line.Content, " ") {
		if word != "" {
			ctx.DrawText(x, baseline, canvas.NewTextLine(face, word, canvas.Left))
			x += face.TextWidth(word)
		}
		x += space + line.Spacing
	}
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if len(img.Data) == 0 || img.Width <= 0 {
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return fmt.Errorf("decode image %s: %w", img.Ref, err)
		}
		dpmm := float64(decoded.Bounds().Dx()) / img.Width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(img.X, img.Y, decoded, canvas.DPMM(dpmm))
	}
	return nil
}

func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox) error {
	for _, table := range tables {
		for _, row := range table.Rows {
			fill := colorFromLayout(layout.Color{R: 255, G: 255, B: 255})
			if row.IsHeader {
				fill = colorFromLayout(table.HeaderFill)
			}
			for _, cell := range row.Cells {
				ctx.SetFillColor(fill)
				ctx.SetStrokeColor(colorFromLayout(table.BorderColor))
				ctx.SetStrokeWidth(tableBorderWidth)
				ctx.DrawPath(cell.X, row.Y, canvas.Rectangle(cell.Width, row.Height))
				if err := r.drawTextBox(ctx, cell.Text); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// drawLines strokes straight rules (mm).
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = tableBorderWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		w := rc.StrokeWidth
		if w <= 0 {
			w = tableBorderWidth
		}
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
		ctx.SetStrokeWidth(w)
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

// drawPolygons fills closed shapes without an outline.
func (r *Renderer) drawPolygons(ctx *canvas.Context, polygons []layout.Polygon) {
	for _, poly := range polygons {
		if len(poly.Points) < 3 {
			continue
		}
		origin := poly.Points[0]
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		for _, pt := range poly.Points[1:] {
			p.LineTo(pt.X-origin.X, pt.Y-origin.Y)
		}
		p.Close()
		ctx.SetFillColor(colorFromLayout(poly.FillColor))
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeWidth(0)
		ctx.DrawPath(origin.X, origin.Y, p)
	}
}

func (r *Renderer) fontFace(font layout.Font, col layout.Color) (*canvas.FontFace, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return r.faceLocked(font, col)
}

func (r *Renderer) faceLocked(font layout.Font, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.familyLocked(font.Family)
	if err != nil {
		return nil, err
	}
	size := font.Size
	if size <= 0 {
		size = 10
	}
	return family.Face(size, colorFromLayout(col), canvasStyle(font.Style), canvas.FontNormal), nil
}

// familyLocked loads a family on first use. The caller holds fontMu.
func (r *Renderer) familyLocked(name string) (*canvas.FontFamily, error) {
	set, ok := r.sources[name]
	if !ok {
		name = layout.BodyFamily
		set = r.sources[name]
	}
	if family, ok := r.families[name]; ok {
		return family, nil
	}

	family := canvas.NewFontFamily(name)
	styles := []struct {
		src   string
		style canvas.FontStyle
	}{
		{set.Regular, canvas.FontRegular},
		{set.Bold, canvas.FontBold},
		{set.Italic, canvas.FontItalic},
		{set.BoldItalic, canvas.FontBold | canvas.FontItalic},
	}
	for _, s := range styles {
		src := s.src
		if src == "" {
			src = set.Regular
		}
		data, err := r.loadFontBytes(src)
		if err != nil {
			return nil, fmt.Errorf("font family %s: %w", name, err)
		}
		if err := family.LoadFont(data, 0, s.style); err != nil {
			return nil, fmt.Errorf("font family %s: load %s: %w", name, src, err)
		}
	}
	r.families[name] = family
	r.logger.Debug("font family loaded", zap.String("family", name))
	return family, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("font source is empty")
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("relative font path %s needs a base directory (or use embed:)", src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func canvasStyle(style layout.FontStyle) canvas.FontStyle {
	switch style {
	case layout.StyleBold:
		return canvas.FontBold
	case layout.StyleItalic:
		return canvas.FontItalic
	case layout.StyleBoldItalic:
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

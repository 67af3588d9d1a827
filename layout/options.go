package layout

import "go.uber.org/zap"

// Measurer reports the advance width of a string, in millimetres, set in
// the given font. Implementations hold read-only font metrics and may be
// shared between concurrent builds.
type Measurer interface {
	TextWidth(text string, font Font) float64
}

// ImageEmbedder scales raw image bytes down to fit maxWidth×maxHeight
// pixels and re-encodes them at quality (0..1). It returns the encoded
// bytes and their pixel size.
type ImageEmbedder interface {
	Embed(raw []byte, maxWidth, maxHeight int, quality float64) ([]byte, int, int, error)
}

// AssetSource resolves an asset reference to bytes. ok is false when the
// asset could not be loaded and a placeholder must be drawn instead.
type AssetSource interface {
	Lookup(ref string) (data []byte, ok bool)
}

// BuildOptions configures the dependencies and geometry of a build.
type BuildOptions struct {
	Measurer Measurer
	Images   ImageEmbedder
	Assets   AssetSource
	Logger   *zap.Logger

	Page   PageSetup
	Styles Styles

	// ImageDPI converts millimetre boxes into pixel budgets for embedding.
	ImageDPI float64
	// ImageQuality is the re-encoding quality passed to Images.
	ImageQuality float64
}

// PageSetup is the physical page geometry in millimetres.
type PageSetup struct {
	Width  float64
	Height float64
	Margin Margin
}

// Styles holds the default text style per block type. Prose styles use
// proportional line metrics; dense tabular and band text uses fixed ones.
type Styles struct {
	Title       TextStyle
	Subtitle    TextStyle
	Heading     TextStyle
	Subheading  TextStyle
	Paragraph   TextStyle
	Bullet      TextStyle
	TableHeader TextStyle
	TableCell   TextStyle
	Caption     TextStyle
	Band        TextStyle
	BandStrong  TextStyle
}

// BodyFamily is the font family name used by the default styles.
const BodyFamily = "Body"

var (
	textColor   = Color{R: 33, G: 37, B: 41}
	mutedColor  = Color{R: 98, G: 104, B: 110}
	ruleColor   = Color{R: 160, G: 166, B: 172}
	borderColor = Color{R: 140, G: 140, B: 140}
	headerFill  = Color{R: 228, G: 233, B: 238}
	placeholder = Color{R: 200, G: 200, B: 200}
)

// DefaultStyles returns the certificate house style.
func DefaultStyles() Styles {
	font := func(style FontStyle, size float64) Font {
		return Font{Family: BodyFamily, Style: style, Size: size}
	}
	return Styles{
		Title:       TextStyle{Font: font(StyleBold, 26), Lines: Proportional(1.15), Color: textColor},
		Subtitle:    TextStyle{Font: font(StyleRegular, 14), Lines: Proportional(DefaultLineSpacing), Color: mutedColor},
		Heading:     TextStyle{Font: font(StyleBold, 14), Lines: Proportional(DefaultLineSpacing), Color: textColor},
		Subheading:  TextStyle{Font: font(StyleBold, 11), Lines: Proportional(DefaultLineSpacing), Color: textColor},
		Paragraph:   TextStyle{Font: font(StyleRegular, 10), Lines: Proportional(DefaultLineSpacing), Align: AlignJustify, Color: textColor},
		Bullet:      TextStyle{Font: font(StyleRegular, 10), Lines: Proportional(DefaultLineSpacing), Color: textColor},
		TableHeader: TextStyle{Font: font(StyleBold, 9), Lines: FixedPt(11), Color: textColor},
		TableCell:   TextStyle{Font: font(StyleRegular, 9), Lines: FixedPt(11), Color: textColor},
		Caption:     TextStyle{Font: font(StyleItalic, 8.5), Lines: FixedPt(10), Align: AlignCenter, Color: mutedColor},
		Band:        TextStyle{Font: font(StyleRegular, 8), Lines: FixedPt(9.5), Color: mutedColor},
		BandStrong:  TextStyle{Font: font(StyleBold, 9), Lines: FixedPt(11), Color: textColor},
	}
}

// A4 returns an A4 portrait page with certificate margins.
func A4() PageSetup {
	return PageSetup{
		Width:  210,
		Height: 297,
		Margin: Margin{Top: 12, Right: 18, Bottom: 12, Left: 18},
	}
}

const (
	defaultImageDPI     = 150
	defaultImageQuality = 0.8
)

func (o BuildOptions) withDefaults() BuildOptions {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Page.Width <= 0 || o.Page.Height <= 0 {
		o.Page = A4()
	}
	if o.ImageDPI <= 0 {
		o.ImageDPI = defaultImageDPI
	}
	if o.ImageQuality <= 0 || o.ImageQuality > 1 {
		o.ImageQuality = defaultImageQuality
	}
	if o.Assets == nil {
		o.Assets = noAssets{}
	}
	o.Styles = o.Styles.merge(DefaultStyles())
	return o
}

// merge fills every zero style from def.
func (s Styles) merge(def Styles) Styles {
	pick := styleOr
	return Styles{
		Title:       pick(s.Title, def.Title),
		Subtitle:    pick(s.Subtitle, def.Subtitle),
		Heading:     pick(s.Heading, def.Heading),
		Subheading:  pick(s.Subheading, def.Subheading),
		Paragraph:   pick(s.Paragraph, def.Paragraph),
		Bullet:      pick(s.Bullet, def.Bullet),
		TableHeader: pick(s.TableHeader, def.TableHeader),
		TableCell:   pick(s.TableCell, def.TableCell),
		Caption:     pick(s.Caption, def.Caption),
		Band:        pick(s.Band, def.Band),
		BandStrong:  pick(s.BandStrong, def.BandStrong),
	}
}

// styleOr returns v unless it is unset.
func styleOr(v, d TextStyle) TextStyle {
	if v.Font.Size <= 0 {
		return d
	}
	if v.Font.Family == "" {
		v.Font.Family = d.Font.Family
	}
	return v
}

type noAssets struct{}

func (noAssets) Lookup(string) ([]byte, bool) { return nil, false }

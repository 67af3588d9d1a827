package layout

// This file defines the layout result shared by the engine, the renderer and
// the debug JSON output. Coordinates are page coordinates in millimetres with
// the origin at the top-left corner.

// Result holds the laid-out pages and document metadata.
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// PageKind tells fixed-layout pages apart from flowing content pages.
type PageKind string

const (
	PageCover          PageKind = "cover"
	PageVersionControl PageKind = "version-control"
	PageFlow           PageKind = "flow"
)

// Page records the page size, margins and every element ready for drawing.
type Page struct {
	Kind PageKind `json:"kind"`
	// Number is the visible page number; zero for fixed-layout pages.
	Number int     `json:"number,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`

	Texts    []TextBox  `json:"texts"`
	Images   []ImageBox `json:"images"`
	Tables   []TableBox `json:"tables"`
	Lines    []Line     `json:"lines,omitempty"`
	Rects    []Rect     `json:"rects,omitempty"`
	Polygons []Polygon  `json:"polygons,omitempty"`

	Header HeaderFooter `json:"header"`
	Footer HeaderFooter `json:"footer"`
}

// HeaderFooter holds the elements of one page band.
type HeaderFooter struct {
	Height float64    `json:"height"`
	Texts  []TextBox  `json:"texts"`
	Images []ImageBox `json:"images"`
	Lines  []Line     `json:"lines,omitempty"`
	Rects  []Rect     `json:"rects,omitempty"`
}

// Margin is expressed in millimetres.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Color uses 0-255 RGB components.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// FontStyle selects a face within a family.
type FontStyle string

const (
	StyleRegular    FontStyle = "regular"
	StyleBold       FontStyle = "bold"
	StyleItalic     FontStyle = "italic"
	StyleBoldItalic FontStyle = "bold-italic"
)

// Font identifies a face and its size in points.
type Font struct {
	Family string    `json:"family"`
	Style  FontStyle `json:"style"`
	Size   float64   `json:"size"`
}

// Align is the horizontal alignment of text inside its box.
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// TextBox is a positioned, already wrapped block of text.
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       Font       `json:"font"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      Align      `json:"align,omitempty"`
}

// TextLine is one wrapped line with its measured width.
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	// Spacing is extra space added to every inter-word gap of a justified line.
	Spacing float64 `json:"spacing,omitempty"`
	// Last marks the final line of a paragraph.
	Last bool `json:"last,omitempty"`
}

// ImageBox describes an embedded raster image and its placement.
type ImageBox struct {
	Ref         string  `json:"ref"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	PixelWidth  int     `json:"pixelWidth"`
	PixelHeight int     `json:"pixelHeight"`
	Data        []byte  `json:"-"`
}

// TableBox is the part of a table that landed on one page.
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
	HeaderFill   Color      `json:"headerFill"`
}

// TableRow records the row's vertical position, height and cells.
type TableRow struct {
	Y           float64     `json:"y"`
	Height      float64     `json:"height"`
	IsHeader    bool        `json:"isHeader"`
	Placeholder bool        `json:"placeholder,omitempty"`
	Cells       []TableCell `json:"cells"`
}

// TableCell reuses TextBox for its content.
type TableCell struct {
	X     float64 `json:"x"`
	Width float64 `json:"width"`
	Text  TextBox `json:"text"`
}

// Line is a straight rule.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // mm; <=0 lets the renderer pick a default
}

// Rect is an axis-aligned box.
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // nil means no fill
}

// Point is a page coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a closed filled shape, used for cover decoration.
type Polygon struct {
	Points    []Point `json:"points"`
	FillColor Color   `json:"fillColor"`
}

// DocumentMeta holds PDF metadata.
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// FlowPages returns the flowing content pages in order.
func (r *Result) FlowPages() []Page {
	var out []Page
	for _, p := range r.Pages {
		if p.Kind == PageFlow {
			out = append(out, p)
		}
	}
	return out
}

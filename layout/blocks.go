package layout

// Block is one unit of flowing content. The set of variants is closed;
// Build rejects anything else with an UnsupportedBlockError.
type Block interface {
	blockKind() string
}

// TextStyle describes how a text block is set. A zero Font.Size means
// "use the default style for this block type".
type TextStyle struct {
	Font  Font        `json:"font"`
	Lines LineMetrics `json:"lines"`
	Align Align       `json:"align,omitempty"`
	Color Color       `json:"color"`
}

// Margins is the vertical space around a block, in millimetres.
type Margins struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// Heading is a section title. Level 1 uses Styles.Heading, deeper levels
// use Styles.Subheading. A heading is kept on the same page as the first
// lines of whatever follows it.
type Heading struct {
	Text    string
	Level   int
	Style   TextStyle
	Margins Margins
}

// Paragraph is wrapped body text; newlines start new paragraphs. Caption
// selects Styles.Caption instead of Styles.Paragraph as the default style.
// Align, when set, overrides the alignment of the resolved style.
type Paragraph struct {
	Text    string
	Style   TextStyle
	Caption bool
	Align   Align
	Margins Margins
}

// Bullet is a single list item drawn with a hanging marker.
type Bullet struct {
	Text    string
	Marker  string
	Indent  float64 // mm from the column edge to the item text
	Style   TextStyle
	Margins Margins
}

// Spacer advances the cursor. It is dropped at the top of a page and when
// it falls on a page break.
type Spacer struct {
	Height float64
}

// Table is a bordered grid paginated row by row.
type Table struct {
	Headers      []string
	Rows         [][]string
	ColumnWidths []float64 // mm, caller supplied
	// EmptyText replaces the body when Rows is empty.
	EmptyText   string
	Style       TextStyle
	HeaderStyle TextStyle
	Margins     Margins
}

// Image places an asset scaled to fit MaxWidth×MaxHeight (mm).
// Label identifies the block in logs, e.g. the item it belongs to.
type Image struct {
	Ref       string
	Label     string
	MaxWidth  float64
	MaxHeight float64
	Caption   string
	Align     Align
	Margins   Margins
}

func (Heading) blockKind() string   { return "heading" }
func (Paragraph) blockKind() string { return "paragraph" }
func (Bullet) blockKind() string    { return "bullet" }
func (Spacer) blockKind() string    { return "spacer" }
func (Table) blockKind() string     { return "table" }
func (Image) blockKind() string     { return "image" }

// PageSpec is one entry of a document plan: a fixed-layout page or a run
// of flowing content.
type PageSpec interface {
	pageKind() PageKind
}

// FlowPage starts a new content page and flows Blocks from its top,
// adding pages as needed.
type FlowPage struct {
	Name   string
	Blocks []Block
}

// CoverPage is the bespoke title page. It has no band and no page number.
type CoverPage struct {
	Title         string
	Subtitle      string
	Details       []string
	LogoRef       string
	BackgroundRef string
	Accent        Color
}

// VersionControlPage lists document revisions. It has no band and no page number.
type VersionControlPage struct {
	Title        string
	DocumentID   string
	Headers      []string
	Rows         [][]string
	ColumnWidths []float64
	Notes        []string
}

func (FlowPage) pageKind() PageKind           { return PageFlow }
func (CoverPage) pageKind() PageKind          { return PageCover }
func (VersionControlPage) pageKind() PageKind { return PageVersionControl }

// PageBand carries the assets of the header and footer drawn on every
// flowing page.
type PageBand struct {
	LogoRef    string
	LogoWidth  float64 // mm
	LogoHeight float64 // mm
	// CompanyLines is drawn right-aligned; the first line is the company name.
	CompanyLines []string
	// Caption is the left-aligned footer text.
	Caption string
	// PageFormat formats the visible page number, e.g. "Page %d".
	PageFormat string
}

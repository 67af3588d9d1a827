package layout

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	defaultBulletIndent = 6.0
	defaultBulletMarker = "•"
	// keepWithNextLines is how many body lines must fit below a heading
	// for the heading to stay on the current page.
	keepWithNextLines = 2
)

// Build lays out a document plan into pages. Every call allocates its own
// RenderContext, so concurrent builds never share layout state.
//
// Flowing pages get the band's header and footer and are numbered from 1;
// fixed-layout pages are composed as-is and are not counted. Content that
// is taller than a page overflows instead of failing; the only content
// error is an unknown block or plan entry.
func Build(plan []PageSpec, band PageBand, meta DocumentMeta, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, errors.New("layout: missing text measurer")
	}
	opts = opts.withDefaults()
	rc := newRenderContext(opts, prepareBand(band, opts))

	for i, spec := range plan {
		switch p := spec.(type) {
		case CoverPage:
			composeCover(rc, p)
		case VersionControlPage:
			composeVersionControl(rc, p)
		case FlowPage:
			if err := rc.flow(p); err != nil {
				return nil, err
			}
		default:
			return nil, &UnsupportedBlockError{Index: i, Variant: fmt.Sprintf("%T", spec)}
		}
	}
	rc.finish()

	opts.Logger.Debug("layout finished",
		zap.Int("pages", len(rc.pages)),
		zap.Int("flow_pages", rc.pageNo))
	return &Result{Pages: rc.pages, Meta: meta}, nil
}

// flow starts a new content page and places every block of p in order.
func (rc *RenderContext) flow(p FlowPage) error {
	rc.startFlowPage()
	for i, block := range p.Blocks {
		if err := rc.place(block); err != nil {
			var unsupported *UnsupportedBlockError
			if errors.As(err, &unsupported) {
				unsupported.Page, unsupported.Index = p.Name, i
			}
			return err
		}
	}
	return nil
}

func (rc *RenderContext) place(block Block) error {
	st := rc.opts.Styles
	switch b := block.(type) {
	case Heading:
		style := st.Heading
		if b.Level > 1 {
			style = st.Subheading
		}
		keep := keepWithNextLines * st.Paragraph.Lines.LineHeight(st.Paragraph.Font)
		rc.placeText(b.Text, styleOr(b.Style, style), b.Margins, 0, keep)
	case Paragraph:
		def := st.Paragraph
		if b.Caption {
			def = st.Caption
		}
		style := styleOr(b.Style, def)
		if b.Align != "" {
			style.Align = b.Align
		}
		rc.placeText(b.Text, style, b.Margins, 0, 0)
	case Bullet:
		rc.placeBullet(b)
	case Spacer:
		if rc.atTop() {
			return nil
		}
		if rc.cursorY+b.Height > rc.contentBottom() {
			rc.startFlowPage()
			return nil
		}
		rc.advance(b.Height)
	case Table:
		rc.placeTable(b)
	case Image:
		rc.placeImage(b)
	default:
		return &UnsupportedBlockError{Variant: fmt.Sprintf("%T", block)}
	}
	return nil
}

// placeText measures a text block, breaks the page when it does not fit and
// places it at the cursor. keep reserves extra room below the block so it
// is not left alone at the bottom of a page.
func (rc *RenderContext) placeText(content string, style TextStyle, m Margins, indent, keep float64) TextBox {
	tb := composeTextBox(content, style, rc.width-indent, rc.opts.Measurer)
	rc.ensureSpace(m.Before + tb.Height + keep)
	if !rc.atTop() {
		rc.advance(m.Before)
	}
	tb.X = rc.margin.Left + indent
	tb.Y = rc.cursorY
	p := rc.page()
	p.Texts = append(p.Texts, tb)
	rc.advance(tb.Height + m.After)
	return tb
}

// placeBullet draws the marker in the hanging indent and the item text beside it.
func (rc *RenderContext) placeBullet(b Bullet) {
	style := styleOr(b.Style, rc.opts.Styles.Bullet)
	indent := b.Indent
	if indent <= 0 {
		indent = defaultBulletIndent
	}
	marker := b.Marker
	if marker == "" {
		marker = defaultBulletMarker
	}
	tb := rc.placeText(b.Text, style, b.Margins, indent, 0)

	ms := style
	ms.Align = AlignLeft
	mark := composeTextBox(marker, ms, indent, rc.opts.Measurer)
	mark.X = rc.margin.Left + indent/3
	mark.Y = tb.Y
	p := rc.page()
	p.Texts = append(p.Texts, mark)
}

package layout

// RenderContext is the mutable state of one build: the accumulated pages,
// the cursor on the current page and the flowing page counter. Build
// allocates a fresh one per call; it is never shared.
type RenderContext struct {
	opts BuildOptions
	band preparedBand

	pages     []Page
	pageIndex int
	cursorY   float64
	width     float64 // printable column width
	margin    Margin
	// pageNo counts flowing pages only; fixed-layout pages are not numbered.
	pageNo int
	// footerPending is set while the current page is a flowing page whose
	// footer has not been drawn yet.
	footerPending bool
}

func newRenderContext(opts BuildOptions, band preparedBand) *RenderContext {
	m := opts.Page.Margin
	return &RenderContext{
		opts:      opts,
		band:      band,
		pageIndex: -1,
		margin:    m,
		width:     opts.Page.Width - m.Left - m.Right,
	}
}

// page returns the current page.
func (rc *RenderContext) page() *Page {
	return &rc.pages[rc.pageIndex]
}

func (rc *RenderContext) addPage(kind PageKind) *Page {
	rc.pages = append(rc.pages, Page{
		Kind:   kind,
		Width:  rc.opts.Page.Width,
		Height: rc.opts.Page.Height,
		Margin: rc.margin,
	})
	rc.pageIndex = len(rc.pages) - 1
	return rc.page()
}

// contentTop is the cursor position right below the header band.
func (rc *RenderContext) contentTop() float64 {
	return rc.margin.Top + rc.band.header.Height
}

// contentBottom is the lowest position content may reach above the footer band.
func (rc *RenderContext) contentBottom() float64 {
	return rc.opts.Page.Height - rc.margin.Bottom - rc.band.footerHeight
}

func (rc *RenderContext) remaining() float64 {
	return rc.contentBottom() - rc.cursorY
}

// atTop reports whether nothing has been placed on the current flowing page.
func (rc *RenderContext) atTop() bool {
	return rc.cursorY <= rc.contentTop()
}

// startFlowPage finishes the current page and opens a numbered flowing
// page with its header band, resetting the cursor to the content start.
func (rc *RenderContext) startFlowPage() {
	rc.closeFlowPage()
	rc.pageNo++
	p := rc.addPage(PageFlow)
	p.Number = rc.pageNo
	p.Header = rc.band.headerFor()
	rc.cursorY = rc.contentTop()
	rc.footerPending = true
}

// closeFlowPage draws the footer band of the current flowing page, once.
func (rc *RenderContext) closeFlowPage() {
	if !rc.footerPending {
		return
	}
	rc.page().Footer = rc.band.footerFor(rc.pageNo, rc.opts)
	rc.footerPending = false
}

// startFixedPage finishes any flowing page and opens an unnumbered page.
func (rc *RenderContext) startFixedPage(kind PageKind) *Page {
	rc.closeFlowPage()
	p := rc.addPage(kind)
	rc.cursorY = rc.margin.Top
	return p
}

// ensureSpace breaks the page when height does not fit below the cursor.
// A block that would not fit even on an empty page is left where it is and
// overflows the bottom margin. It reports whether a break happened.
func (rc *RenderContext) ensureSpace(height float64) bool {
	if rc.cursorY+height <= rc.contentBottom() || rc.atTop() {
		return false
	}
	rc.startFlowPage()
	return true
}

// advance moves the cursor down. Negative values are ignored so the cursor
// never moves up within a page.
func (rc *RenderContext) advance(dy float64) {
	if dy > 0 {
		rc.cursorY += dy
	}
}

// finish draws the last footer.
func (rc *RenderContext) finish() {
	rc.closeFlowPage()
}

package layout

import "go.uber.org/zap"

// Fixed-layout pages are composed directly at absolute positions. They
// never paginate and carry no page band.

var (
	defaultAccent = Color{R: 0, G: 94, B: 132}
	accentLight   = Color{R: 214, G: 232, B: 240}
)

// composeCover draws the title page: optional full-bleed background,
// decorative polygons along the bottom edge, the logo, the title block
// and a rule under the title.
func composeCover(rc *RenderContext, c CoverPage) {
	p := rc.startFixedPage(PageCover)
	opts := rc.opts
	m := rc.margin
	w, h := opts.Page.Width, opts.Page.Height
	accent := c.Accent
	if accent == (Color{}) {
		accent = defaultAccent
	}

	if c.BackgroundRef != "" {
		if data, ok := opts.Assets.Lookup(c.BackgroundRef); ok {
			if img, err := embedBox(c.BackgroundRef, data, w, h*0.45, opts); err == nil {
				img.X, img.Y = (w-img.Width)/2, h*0.45
				p.Images = append(p.Images, img)
			} else {
				opts.Logger.Warn("cover background could not be embedded", zap.String("ref", c.BackgroundRef), zap.Error(err))
			}
		} else {
			opts.Logger.Warn("cover background unavailable", zap.String("ref", c.BackgroundRef))
		}
	}

	p.Polygons = append(p.Polygons,
		Polygon{FillColor: accentLight, Points: []Point{{0, h * 0.72}, {w * 0.70, h}, {0, h}}},
		Polygon{FillColor: accent, Points: []Point{{0, h * 0.82}, {w * 0.45, h}, {0, h}}},
		Polygon{FillColor: accent, Points: []Point{{w, 0}, {w, h * 0.06}, {w * 0.62, 0}}},
	)

	logoW, logoH := defaultLogoWidth*1.4, defaultLogoHeight*1.4
	if img, ok := placeLogo(c.LogoRef, m.Left, m.Top+8, logoW, logoH, opts); ok {
		p.Images = append(p.Images, img)
	}

	y := h * 0.24
	title := composeTextBox(c.Title, opts.Styles.Title, rc.width, opts.Measurer)
	title.X, title.Y = m.Left, y
	p.Texts = append(p.Texts, title)
	y += title.Height + 2

	p.Lines = append(p.Lines, Line{X1: m.Left, Y1: y, X2: m.Left + rc.width*0.4, Y2: y, Color: accent, Width: 1.2})
	y += 5

	if c.Subtitle != "" {
		sub := composeTextBox(c.Subtitle, opts.Styles.Subtitle, rc.width, opts.Measurer)
		sub.X, sub.Y = m.Left, y
		p.Texts = append(p.Texts, sub)
		y += sub.Height + 8
	}

	detail := opts.Styles.Paragraph
	detail.Align = AlignLeft
	for _, line := range c.Details {
		tb := composeTextBox(line, detail, rc.width, opts.Measurer)
		tb.X, tb.Y = m.Left, y
		p.Texts = append(p.Texts, tb)
		y += tb.Height + 1.5
	}
}

// composeVersionControl draws the revision table. Rows are laid out
// top-down without pagination.
func composeVersionControl(rc *RenderContext, v VersionControlPage) {
	p := rc.startFixedPage(PageVersionControl)
	opts := rc.opts
	m := rc.margin
	y := m.Top + 10

	title := composeTextBox(v.Title, opts.Styles.Heading, rc.width, opts.Measurer)
	title.X, title.Y = m.Left, y
	p.Texts = append(p.Texts, title)
	y += title.Height + 3

	if v.DocumentID != "" {
		id := composeTextBox("Document ID: "+v.DocumentID, opts.Styles.Band, rc.width, opts.Measurer)
		id.X, id.Y = m.Left, y
		p.Texts = append(p.Texts, id)
		y += id.Height + 4
	}

	grid := Table{Headers: v.Headers, Rows: v.Rows, ColumnWidths: v.ColumnWidths}
	widths := columnWidths(v.ColumnWidths, grid.columns(), rc.width)
	table := TableBox{X: m.Left, Y: y, ColumnWidths: widths, BorderColor: borderColor, HeaderFill: headerFill}
	for _, cw := range widths {
		table.Width += cw
	}
	header, body := rc.tableRows(grid, widths)
	if len(v.Headers) > 0 {
		table.Rows = append(table.Rows, placeRow(header, m.Left, y))
		y += header.Height
	}
	for _, row := range body {
		table.Rows = append(table.Rows, placeRow(row, m.Left, y))
		y += row.Height
	}
	p.Tables = append(p.Tables, table)
	y += 6

	note := opts.Styles.Paragraph
	for _, n := range v.Notes {
		tb := composeTextBox(n, note, rc.width, opts.Measurer)
		tb.X, tb.Y = m.Left, y
		p.Texts = append(p.Texts, tb)
		y += tb.Height + 3
	}
	rc.cursorY = y
}

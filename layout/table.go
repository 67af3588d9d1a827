package layout

const (
	cellPadding = 1.5
	// EmptyTableText is drawn as the only body row of a table without rows.
	EmptyTableText = "No items recorded"
)

// columnWidths returns the caller's widths, or equal columns when they do
// not match the header count. Widths wider than the column in total are
// scaled down proportionally.
func columnWidths(widths []float64, columns int, available float64) []float64 {
	out := make([]float64, columns)
	total := 0.0
	valid := len(widths) == columns
	for i := 0; valid && i < columns; i++ {
		if widths[i] <= 0 {
			valid = false
			break
		}
		out[i] = widths[i]
		total += widths[i]
	}
	if !valid {
		for i := range out {
			out[i] = available / float64(columns)
		}
		return out
	}
	if total > available {
		f := available / total
		for i := range out {
			out[i] *= f
		}
	}
	return out
}

// composeRow wraps every cell to its column and sizes the row to its
// tallest cell. Positions are relative to x=0, y=0 until the row is placed.
func composeRow(cells []string, widths []float64, style TextStyle, m Measurer) TableRow {
	var row TableRow
	x := 0.0
	tallest := 0.0
	for i, w := range widths {
		content := ""
		if i < len(cells) {
			content = cells[i]
		}
		tb := composeTextBox(content, style, w-2*cellPadding, m)
		row.Cells = append(row.Cells, TableCell{X: x, Width: w, Text: tb})
		tallest = max(tallest, tb.Height)
		x += w
	}
	row.Height = tallest + 2*cellPadding
	return row
}

// placeRow positions a composed row at (x, y).
func placeRow(row TableRow, x, y float64) TableRow {
	row.Y = y
	cells := make([]TableCell, len(row.Cells))
	for i, c := range row.Cells {
		c.X += x
		c.Text.X = c.X + cellPadding
		c.Text.Y = y + cellPadding
		cells[i] = c
	}
	row.Cells = cells
	return row
}

// tableRows composes the header row and the body rows. An empty body
// becomes a single placeholder row spanning all columns.
func (rc *RenderContext) tableRows(t Table, widths []float64) (TableRow, []TableRow) {
	st := rc.opts.Styles
	var header TableRow
	if len(t.Headers) > 0 {
		header = composeRow(t.Headers, widths, styleOr(t.HeaderStyle, st.TableHeader), rc.opts.Measurer)
	}
	header.IsHeader = true

	cellStyle := styleOr(t.Style, st.TableCell)
	if len(t.Rows) == 0 {
		text := t.EmptyText
		if text == "" {
			text = EmptyTableText
		}
		total := 0.0
		for _, w := range widths {
			total += w
		}
		empty := composeRow([]string{text}, []float64{total}, cellStyle, rc.opts.Measurer)
		empty.Placeholder = true
		return header, []TableRow{empty}
	}
	body := make([]TableRow, len(t.Rows))
	for i, cells := range t.Rows {
		body[i] = composeRow(cells, widths, cellStyle, rc.opts.Measurer)
	}
	return header, body
}

// columns is the header count, or the widest row for a headerless table.
func (t Table) columns() int {
	n := len(t.Headers)
	if n == 0 {
		for _, r := range t.Rows {
			n = max(n, len(r))
		}
	}
	if n == 0 {
		n = len(t.ColumnWidths)
	}
	return max(n, 1)
}

// placeTable draws a bordered grid. Each row is atomic: when the next row
// does not fit in the space left on the page, the page is broken once
// before it and the header row is repeated on the new page. A row taller
// than a whole page is placed anyway and overflows.
func (rc *RenderContext) placeTable(t Table) {
	widths := columnWidths(t.ColumnWidths, t.columns(), rc.width)
	header, body := rc.tableRows(t, widths)

	tableWidth := 0.0
	for _, w := range widths {
		tableWidth += w
	}

	// keep the header with the first body row
	rc.ensureSpace(t.Margins.Before + header.Height + body[0].Height)
	if !rc.atTop() {
		rc.advance(t.Margins.Before)
	}

	var seg TableBox
	bodyRows := 0
	open := func() {
		seg = TableBox{
			X:            rc.margin.Left,
			Y:            rc.cursorY,
			Width:        tableWidth,
			ColumnWidths: widths,
			BorderColor:  borderColor,
			HeaderFill:   headerFill,
		}
		bodyRows = 0
		if len(t.Headers) > 0 {
			seg.Rows = append(seg.Rows, placeRow(header, seg.X, rc.cursorY))
			rc.advance(header.Height)
		}
	}
	flush := func() {
		p := rc.page()
		p.Tables = append(p.Tables, seg)
	}

	open()
	for _, row := range body {
		if bodyRows > 0 && row.Height > rc.remaining() {
			flush()
			rc.startFlowPage()
			open()
		}
		seg.Rows = append(seg.Rows, placeRow(row, seg.X, rc.cursorY))
		rc.advance(row.Height)
		bodyRows++
	}
	flush()
	rc.advance(t.Margins.After)
}

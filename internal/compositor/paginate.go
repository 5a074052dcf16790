package compositor

import "invoice_pdf_service/internal/layout"

// RowKind distinguishes group header rows from line rows.
type RowKind int

const (
	RowLine RowKind = iota
	RowGroupHeader
)

// Row is one unit of the row budget.
type Row struct {
	Kind   RowKind
	Group  int // index into the groups slice, -1 for flat layouts
	Values map[string]any
}

// PlacedRow is a row bound to a baseline on its page.
type PlacedRow struct {
	Row
	Y float64
}

// PagePlan lists the rows drawn on one output page.
type PagePlan struct {
	Index int
	Rows  []PlacedRow
}

// FlatRows returns one line row per record.
func FlatRows(lines []LineRecord) []Row {
	rows := make([]Row, len(lines))
	for i, line := range lines {
		rows[i] = Row{Kind: RowLine, Group: -1, Values: line}
	}
	return rows
}

// GroupedRows returns, per group, a header row carrying the group's number and
// date followed by the group's line rows.
func GroupedRows(groups []LineGroup) []Row {
	rows := make([]Row, 0)
	for gi, g := range groups {
		rows = append(rows, Row{
			Kind:  RowGroupHeader,
			Group: gi,
			Values: map[string]any{
				layout.GroupNumberKey: g.Number,
				layout.GroupDateKey:   g.Date,
			},
		})
		for _, line := range g.Lines {
			rows = append(rows, Row{Kind: RowLine, Group: gi, Values: line})
		}
	}
	return rows
}

// cursor walks the row budget: page index, rows placed on the current page.
type cursor struct {
	pages       []PagePlan
	placed      int
	rowsPerPage int
	startY      float64
	rowHeight   float64
}

func (c *cursor) newPage() {
	c.pages = append(c.pages, PagePlan{Index: len(c.pages)})
	c.placed = 0
}

// place opens a new page when the current one is full, then positions row.
func (c *cursor) place(row Row) {
	if c.placed == c.rowsPerPage {
		c.newPage()
	}
	page := &c.pages[len(c.pages)-1]
	page.Rows = append(page.Rows, PlacedRow{
		Row: row,
		Y:   c.startY - float64(c.placed)*c.rowHeight,
	})
	c.placed++
}

// Paginate assigns rows to pages of at most rowsPerPage rows, starting at
// startY and stepping down by rowHeight. The budget check runs before every
// row, so a group header may be the last row of a page with its lines on the
// next one. There is always at least one page.
func Paginate(rows []Row, rowsPerPage int, startY, rowHeight float64) []PagePlan {
	if rowsPerPage < 1 {
		rowsPerPage = 1
	}
	c := &cursor{
		pages:       make([]PagePlan, 0, PageCount(len(rows), rowsPerPage)),
		rowsPerPage: rowsPerPage,
		startY:      startY,
		rowHeight:   rowHeight,
	}
	c.newPage()
	for _, row := range rows {
		c.place(row)
	}
	return c.pages
}

// PageCount returns ceil(rows/rowsPerPage), with a minimum of one.
func PageCount(rows, rowsPerPage int) int {
	if rows <= 0 || rowsPerPage < 1 {
		return 1
	}
	return (rows + rowsPerPage - 1) / rowsPerPage
}

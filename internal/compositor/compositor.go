package compositor

import (
	"context"
	"fmt"

	"invoice_pdf_service/internal/layout"
	"invoice_pdf_service/internal/pdf"
	"invoice_pdf_service/platform/logger"
)

// Result is a composed document plus the counts that shaped it.
type Result struct {
	PDF    []byte
	Pages  int
	Lines  int
	Groups int
}

// Compositor fills templates according to a layout. It keeps no per-request
// state and is safe for concurrent use.
type Compositor struct {
	opener pdf.Opener
	forms  pdf.FormFiller
	log    *logger.Logger
}

// New creates a Compositor that overlays text through opener and fills
// AcroForm templates through forms.
func New(opener pdf.Opener, forms pdf.FormFiller, log *logger.Logger) *Compositor {
	return &Compositor{opener: opener, forms: forms, log: log}
}

// Compose draws fields onto copies of the template's first page, or sets the
// template's form fields when the layout is in form mode. Any failure aborts
// the whole document.
func (c *Compositor) Compose(ctx context.Context, template []byte, fields FieldMap, l *layout.Layout) (*Result, error) {
	if l.FillsForm() {
		return c.fillForm(ctx, template, fields, l)
	}
	log := c.log.WithContext(ctx)

	doc, err := c.opener.Open(template)
	if err != nil {
		return nil, err
	}
	doc.SetFont(l.Font, l.FontStyle)

	lines, fallback := NormalizeLines(fields[l.LinesKey])
	if fallback != nil {
		log.LineDataFallback(fallback)
	}

	rows, groups := c.rows(lines, l)

	_, pageHeight := doc.PageSize()
	height := l.Height(pageHeight)
	plans := Paginate(rows, l.RowsPerPage, l.RowsStart.Resolve(height), l.RowHeight)
	total := len(plans)

	headerY := func(f layout.Field) float64 { return f.Y.Resolve(height) }

	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := doc.AppendTemplatePage(); err != nil {
			return nil, err
		}
		if err := drawFields(doc, l.Header, fields, headerY); err != nil {
			return nil, fmt.Errorf("page %d header: %w", plan.Index+1, err)
		}
		for _, row := range plan.Rows {
			if err := drawRow(doc, l, row); err != nil {
				return nil, fmt.Errorf("page %d row: %w", plan.Index+1, err)
			}
		}
		if pn := l.PageNumber; pn != nil && (total > 1 || pn.Always) {
			if err := doc.DrawText(pn.X, pn.Y.Resolve(height), pn.Size, pn.Text(plan.Index+1, total)); err != nil {
				return nil, fmt.Errorf("page %d number: %w", plan.Index+1, err)
			}
		}
	}

	if pages := doc.PageCount(); pages != total {
		return nil, fmt.Errorf("compositor: planned %d pages, document has %d", total, pages)
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	log.Composition(l.Name, len(lines), groups, total)
	return &Result{PDF: out, Pages: total, Lines: len(lines), Groups: groups}, nil
}

// fillForm sets one text field per scalar entry of fields. The line records
// are not form data. Entries with no matching text field are logged and
// skipped.
func (c *Compositor) fillForm(ctx context.Context, template []byte, fields FieldMap, l *layout.Layout) (*Result, error) {
	log := c.log.WithContext(ctx)

	values := make(map[string]string, len(fields))
	for name, v := range fields {
		if name == l.LinesKey {
			continue
		}
		text, ok := valueText(v)
		if !ok {
			log.FormFieldSkipped(l.Name, name, "value is not a scalar")
			continue
		}
		values[name] = text
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := c.forms.FillForm(template, values)
	if err != nil {
		return nil, err
	}
	for _, name := range res.Skipped {
		log.FormFieldSkipped(l.Name, name, "no text field with this name")
	}

	log.Composition(l.Name, 0, 0, res.Pages)
	return &Result{PDF: res.PDF, Pages: res.Pages}, nil
}

func (c *Compositor) rows(lines []LineRecord, l *layout.Layout) ([]Row, int) {
	if !l.Grouped() {
		return FlatRows(lines), 0
	}
	groups := GroupLines(lines, l.Grouping.NumberKey, l.Grouping.DateKey)
	return GroupedRows(groups), len(groups)
}

func drawRow(doc pdf.Document, l *layout.Layout, row PlacedRow) error {
	y := func(layout.Field) float64 { return row.Y }
	if row.Kind == RowGroupHeader {
		return drawFields(doc, l.Grouping.Header, row.Values, y)
	}
	return drawFields(doc, l.Columns, row.Values, y)
}

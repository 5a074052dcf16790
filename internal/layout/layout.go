// Package layout holds the declarative coordinate tables that bind invoice
// fields to positions on a physical template. Tables are YAML documents keyed
// by template name so a new template needs a new table, not new code.
package layout

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Anchor selects how a Position offset is turned into a PDF y coordinate.
type Anchor string

const (
	// AnchorTop measures the offset down from the top edge (height - offset).
	AnchorTop Anchor = "top"
	// AnchorBottom uses the offset as an absolute PDF y coordinate.
	AnchorBottom Anchor = "bottom"
)

// Position is a vertical position. In YAML it is either a bare number (top
// anchored) or a mapping with offset and anchor.
type Position struct {
	Offset float64 `yaml:"offset" validate:"gte=0"`
	Anchor Anchor  `yaml:"anchor" validate:"omitempty,oneof=top bottom"`
}

// UnmarshalYAML accepts `y: 194` as shorthand for `y: {offset: 194, anchor: top}`.
func (p *Position) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var offset float64
		if err := value.Decode(&offset); err != nil {
			return fmt.Errorf("line %d: position must be a number or a mapping: %w", value.Line, err)
		}
		*p = Position{Offset: offset, Anchor: AnchorTop}
		return nil
	}

	type plain Position
	var raw plain
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = Position(raw)
	if p.Anchor == "" {
		p.Anchor = AnchorTop
	}
	return nil
}

// Resolve returns the PDF y coordinate for a page of the given height.
func (p Position) Resolve(height float64) float64 {
	if p.Anchor == AnchorBottom {
		return p.Offset
	}
	return height - p.Offset
}

// Field places one value. Y is ignored for row columns, which take the row's y.
type Field struct {
	Key      string   `yaml:"key" validate:"required"`
	X        float64  `yaml:"x" validate:"gte=0"`
	Y        Position `yaml:"y"`
	Size     float64  `yaml:"size" validate:"gt=0"`
	Date     bool     `yaml:"date"`
	KeepZero bool     `yaml:"keep_zero"`
	Prefix   string   `yaml:"prefix"`
}

// Grouping enables delivery-note grouping of line records. Header fields read
// the keys "number" and "date" of the group.
type Grouping struct {
	NumberKey string  `yaml:"number_key" validate:"required"`
	DateKey   string  `yaml:"date_key"`
	Header    []Field `yaml:"header" validate:"required,min=1,dive"`
}

// Group header field keys.
const (
	GroupNumberKey = "number"
	GroupDateKey   = "date"
)

// PageNumber configures the "N of M" indicator.
type PageNumber struct {
	Format string   `yaml:"format" validate:"required"`
	X      float64  `yaml:"x" validate:"gte=0"`
	Y      Position `yaml:"y"`
	Size   float64  `yaml:"size" validate:"gt=0"`
	// Always draws the indicator on single-page documents too.
	Always bool `yaml:"always"`
}

// Text renders the indicator for page (1-based) of total.
func (p *PageNumber) Text(page, total int) string {
	return fmt.Sprintf(p.Format, page, total)
}

// Mode selects how a layout writes values into its template.
type Mode string

const (
	// ModeOverlay draws values as text at fixed coordinates on copies of the
	// template's first page.
	ModeOverlay Mode = "overlay"
	// ModeForm sets the template's own AcroForm text fields by name and keeps
	// every page of the template. Coordinates, rows and page numbers are unused.
	ModeForm Mode = "form"
)

// Layout is the full coordinate table for one template.
type Layout struct {
	Name      string `yaml:"-"`
	Mode      Mode   `yaml:"mode" validate:"omitempty,oneof=overlay form"`
	Font      string `yaml:"font"`
	FontStyle string `yaml:"font_style" validate:"omitempty,oneof=B I BI"`
	// PageHeight, when set, replaces the template's real height for every
	// top-anchored position.
	PageHeight  float64     `yaml:"page_height" validate:"gte=0"`
	LinesKey    string      `yaml:"lines_key" validate:"required"`
	RowsPerPage int         `yaml:"rows_per_page" validate:"gt=0"`
	RowHeight   float64     `yaml:"row_height" validate:"gt=0"`
	RowsStart   Position    `yaml:"rows_start"`
	Header      []Field     `yaml:"header" validate:"dive"`
	Columns     []Field     `yaml:"columns" validate:"dive"`
	Grouping    *Grouping   `yaml:"grouping"`
	PageNumber  *PageNumber `yaml:"page_number"`
}

// Defaults of the shipped invoice templates.
const (
	DefaultFont        = "Helvetica"
	DefaultLinesKey    = "lineas"
	DefaultRowsPerPage = 11
	DefaultRowHeight   = 15
)

func (l *Layout) applyDefaults() {
	if l.Mode == "" {
		l.Mode = ModeOverlay
	}
	if l.Font == "" {
		l.Font = DefaultFont
	}
	if l.LinesKey == "" {
		l.LinesKey = DefaultLinesKey
	}
	if l.RowsPerPage == 0 {
		l.RowsPerPage = DefaultRowsPerPage
	}
	if l.RowHeight == 0 {
		l.RowHeight = DefaultRowHeight
	}
	if l.RowsStart.Anchor == "" {
		l.RowsStart.Anchor = AnchorTop
	}
}

func (l *Layout) check() error {
	if l.Mode == ModeOverlay && len(l.Columns) == 0 {
		return fmt.Errorf("columns: an overlay layout needs at least one column")
	}
	if l.PageNumber != nil {
		if err := checkPageFormat(l.PageNumber.Format); err != nil {
			return fmt.Errorf("page_number.format %q: %w", l.PageNumber.Format, err)
		}
	}
	return nil
}

// checkPageFormat accepts exactly two %d verbs plus any number of %% escapes.
func checkPageFormat(format string) error {
	verbs := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i == len(format) {
			return fmt.Errorf("trailing %%")
		}
		switch format[i] {
		case '%':
		case 'd':
			verbs++
		default:
			return fmt.Errorf("unsupported verb %%%c, only %%d is allowed", format[i])
		}
	}
	if verbs != 2 {
		return fmt.Errorf("expected two %%d verbs, got %d", verbs)
	}
	return nil
}

// Height returns the height used to resolve top-anchored positions on a page
// whose real height is pageHeight.
func (l *Layout) Height(pageHeight float64) float64 {
	if l.PageHeight > 0 {
		return l.PageHeight
	}
	return pageHeight
}

// FillsForm reports whether values go into the template's AcroForm fields.
func (l *Layout) FillsForm() bool {
	return l.Mode == ModeForm
}

// Grouped reports whether line records are grouped by delivery note.
func (l *Layout) Grouped() bool {
	return l.Grouping != nil
}

package layout

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"invoice_pdf_service/platform/apperr"
	"invoice_pdf_service/platform/validator"
)

func buildBuiltin(t *testing.T) *Registry {
	t.Helper()
	reg, err := Build(context.Background(), validator.New(), "", Builtin{})
	if err != nil {
		t.Fatalf("expected builtin layouts to load, got %v", err)
	}
	return reg
}

func TestBuiltinLayouts(t *testing.T) {
	reg := buildBuiltin(t)

	if reg.Default() != "factura" {
		t.Fatalf("expected default factura, got %q", reg.Default())
	}
	names := reg.Names()
	if len(names) != 3 || names[0] != "factura" || names[1] != "factura-albaran" || names[2] != "formulario" {
		t.Fatalf("unexpected layout names %v", names)
	}

	l, err := reg.Lookup("")
	if err != nil {
		t.Fatalf("expected default lookup to succeed, got %v", err)
	}
	if l.RowsPerPage != 11 || l.RowHeight != 15 {
		t.Fatalf("expected 11 rows of 15pt, got %d rows of %v", l.RowsPerPage, l.RowHeight)
	}
	if got := l.RowsStart.Resolve(595); got != 285 {
		t.Fatalf("expected rows to start at 285, got %v", got)
	}
	if l.Grouped() {
		t.Fatal("expected flat layout")
	}
	if l.Columns[0].Key != "Cajas" || !l.Columns[0].KeepZero {
		t.Fatalf("expected Cajas to keep zero values, got %+v", l.Columns[0])
	}
	if l.PageNumber == nil || l.PageNumber.Always {
		t.Fatalf("expected page number only on multi-page output, got %+v", l.PageNumber)
	}

	grouped, err := reg.Lookup("factura-albaran")
	if err != nil {
		t.Fatalf("expected grouped layout, got %v", err)
	}
	if !grouped.Grouped() || grouped.Grouping.NumberKey != "Albaran" || grouped.Grouping.DateKey != "FechaAlbaran" {
		t.Fatalf("unexpected grouping %+v", grouped.Grouping)
	}
	if len(grouped.Columns) != len(l.Columns) {
		t.Fatalf("expected shared columns, got %d and %d", len(grouped.Columns), len(l.Columns))
	}
	if l.FillsForm() || grouped.FillsForm() {
		t.Fatal("expected overlay layouts to default to overlay mode")
	}

	formLayout, err := reg.Lookup("formulario")
	if err != nil {
		t.Fatalf("expected form layout, got %v", err)
	}
	if !formLayout.FillsForm() || len(formLayout.Columns) != 0 {
		t.Fatalf("expected column-free form layout, got %+v", formLayout)
	}
}

func TestLookupUnknownLayoutIsValidationError(t *testing.T) {
	reg := buildBuiltin(t)

	_, err := reg.Lookup("missing")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPositionShorthandAndAnchors(t *testing.T) {
	doc := []byte(`
default: x
layouts:
  x:
    rows_start: { offset: 500, anchor: bottom }
    page_height: 600
    columns:
      - { key: A, x: 10, size: 9 }
    header:
      - { key: h, x: 1, y: 100, size: 8 }
`)
	file, err := Parse(doc, validator.New())
	if err != nil {
		t.Fatalf("expected document to parse, got %v", err)
	}
	l := file.Layouts["x"]
	if l.Name != "x" || l.LinesKey != DefaultLinesKey || l.RowsPerPage != DefaultRowsPerPage {
		t.Fatalf("expected defaults applied, got %+v", l)
	}
	if got := l.RowsStart.Resolve(l.Height(842)); got != 500 {
		t.Fatalf("expected bottom anchored 500, got %v", got)
	}
	if got := l.Header[0].Y.Resolve(l.Height(842)); got != 500 {
		t.Fatalf("expected header at 600-100, got %v", got)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"no columns":     "layouts:\n  x:\n    rows_per_page: 3\n",
		"zero size":      "layouts:\n  x:\n    columns:\n      - { key: A, x: 1, size: 0 }\n",
		"unknown field":  "layouts:\n  x:\n    colour: red\n    columns:\n      - { key: A, x: 1, size: 9 }\n",
		"bad anchor":     "layouts:\n  x:\n    rows_start: { offset: 1, anchor: middle }\n    columns:\n      - { key: A, x: 1, size: 9 }\n",
		"bad default":    "default: y\nlayouts:\n  x:\n    columns:\n      - { key: A, x: 1, size: 9 }\n",
		"page format":    "layouts:\n  x:\n    columns:\n      - { key: A, x: 1, size: 9 }\n    page_number: { format: \"page %d\", x: 1, y: 1, size: 9 }\n",
		"group no label": "layouts:\n  x:\n    columns:\n      - { key: A, x: 1, size: 9 }\n    grouping: { number_key: N }\n",
		"extra verb":     "layouts:\n  x:\n    columns:\n      - { key: A, x: 1, size: 9 }\n    page_number: { format: \"Página %d de %d %s\", x: 1, y: 1, size: 9 }\n",
		"float verb":     "layouts:\n  x:\n    columns:\n      - { key: A, x: 1, size: 9 }\n    page_number: { format: \"%d of %f\", x: 1, y: 1, size: 9 }\n",
		"bad mode":       "layouts:\n  x:\n    mode: stamp\n    columns:\n      - { key: A, x: 1, size: 9 }\n",
	}

	val := validator.New()
	for name, doc := range cases {
		if _, err := Parse([]byte(doc), val); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestCheckPageFormat(t *testing.T) {
	valid := []string{"Página %d de %d", "%d/%d", "%d de %d (100%%)"}
	for _, format := range valid {
		if err := checkPageFormat(format); err != nil {
			t.Fatalf("%q: expected format to pass, got %v", format, err)
		}
	}

	invalid := []string{"Página %d de %d %s", "%d", "%d %d %d", "%d de %v", "%d de %d %", "%5d de %d"}
	for _, format := range invalid {
		if err := checkPageFormat(format); err == nil {
			t.Fatalf("%q: expected format to be rejected", format)
		}
	}
}

func TestFormLayoutNeedsNoColumns(t *testing.T) {
	file, err := Parse([]byte("layouts:\n  x:\n    mode: form\n"), validator.New())
	if err != nil {
		t.Fatalf("expected form layout without columns to parse, got %v", err)
	}
	if l := file.Layouts["x"]; !l.FillsForm() {
		t.Fatalf("expected form mode, got %q", l.Mode)
	}

	file, err = Parse([]byte("layouts:\n  x:\n    columns:\n      - { key: A, x: 1, size: 9 }\n"), validator.New())
	if err != nil {
		t.Fatalf("expected overlay layout to parse, got %v", err)
	}
	if l := file.Layouts["x"]; l.Mode != ModeOverlay {
		t.Fatalf("expected overlay default, got %q", l.Mode)
	}
}

func TestFileSourceOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layouts.yaml")
	doc := "layouts:\n  factura:\n    rows_per_page: 5\n    columns:\n      - { key: Cajas, x: 52, size: 9 }\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write layout file: %v", err)
	}

	reg, err := Build(context.Background(), validator.New(), "", Builtin{}, FileSource{Path: path})
	if err != nil {
		t.Fatalf("expected merged registry, got %v", err)
	}
	l, err := reg.Lookup("factura")
	if err != nil {
		t.Fatalf("expected factura, got %v", err)
	}
	if l.RowsPerPage != 5 {
		t.Fatalf("expected file layout to win, got %d rows", l.RowsPerPage)
	}
	if reg.Default() != "factura" {
		t.Fatalf("expected builtin default to survive, got %q", reg.Default())
	}
}

func TestBuildErrors(t *testing.T) {
	val := validator.New()

	_, err := Build(context.Background(), val, "", FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil || !strings.Contains(err.Error(), "file:") {
		t.Fatalf("expected source error, got %v", err)
	}

	_, err = Build(context.Background(), val, "nope", Builtin{})
	if err == nil {
		t.Fatal("expected error for undefined default")
	}

	noDefault := Static{[]byte("layouts:\n  x:\n    columns:\n      - { key: A, x: 1, size: 9 }\n")}
	if _, err := Build(context.Background(), val, "", noDefault); err == nil {
		t.Fatal("expected error when no default is configured")
	}
	if _, err := Build(context.Background(), val, "x", noDefault); err != nil {
		t.Fatalf("expected explicit default to satisfy build, got %v", err)
	}
}

func TestPageNumberText(t *testing.T) {
	reg := buildBuiltin(t)
	l, _ := reg.Lookup("factura")
	if got := l.PageNumber.Text(2, 3); got != "Página 2 de 3" {
		t.Fatalf("expected Spanish indicator, got %q", got)
	}
}

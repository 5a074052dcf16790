// Package pdf is the PDF port of the fill service: it loads a template,
// appends copies of its first page to a fresh document, draws text at absolute
// coordinates and serializes the result. AcroForm templates can instead have
// their text fields filled in place (see FormFiller).
//
// Coordinates are PDF-native: points, origin at the bottom-left corner, y at
// the text baseline. The fpdf backend works top-down and converts internally.
package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

const (
	// DefaultFont is the standard Type1 family used when a layout names none.
	DefaultFont = "Helvetica"

	templateBox = "/MediaBox"
)

// Opener loads a template document.
type Opener interface {
	Open(template []byte) (Document, error)
}

// Document is an output document built from copies of a template's first page.
type Document interface {
	// PageSize returns the template page size in pt.
	PageSize() (width, height float64)
	// AppendTemplatePage appends a copy of template page 0 and makes it current.
	AppendTemplatePage() error
	// SetFont selects the font family and style for subsequent DrawText calls.
	SetFont(family, style string)
	// DrawText draws text on the current page with its baseline at (x, y).
	DrawText(x, y, size float64, text string) error
	// PageCount returns the number of appended pages.
	PageCount() int
	// Bytes serializes the document.
	Bytes() ([]byte, error)
}

// FPDFOpener opens templates with pdfcpu and composes output with fpdf.
type FPDFOpener struct{}

// NewOpener returns the default Opener.
func NewOpener() *FPDFOpener {
	return &FPDFOpener{}
}

// Open validates template and prepares an empty output document sized to its
// first page. The template is rewritten without object streams before import.
func (o *FPDFOpener) Open(template []byte) (Document, error) {
	ctx, info, err := readTemplate(template)
	if err != nil {
		return nil, err
	}
	source, err := flatten(ctx)
	if err != nil {
		return nil, err
	}

	out := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: info.Width, Ht: info.Height},
	})
	out.SetMargins(0, 0, 0)
	out.SetAutoPageBreak(false, 0)
	out.SetCompression(true)

	doc := &fpdfDocument{
		out:    out,
		source: bytes.NewReader(source),
		info:   info,
		family: DefaultFont,
	}
	if err := doc.importTemplate(); err != nil {
		return nil, err
	}
	return doc, nil
}

type fpdfDocument struct {
	out      *fpdf.Fpdf
	importer *gofpdi.Importer
	source   io.ReadSeeker
	info     TemplateInfo
	tpl      int
	family   string
	style    string
}

func (d *fpdfDocument) PageSize() (float64, float64) {
	return d.info.Width, d.info.Height
}

func (d *fpdfDocument) PageCount() int {
	return d.out.PageCount()
}

func (d *fpdfDocument) SetFont(family, style string) {
	if family == "" {
		family = DefaultFont
	}
	d.family = family
	d.style = style
}

func (d *fpdfDocument) AppendTemplatePage() error {
	d.out.AddPageFormat("P", fpdf.SizeType{Wd: d.info.Width, Ht: d.info.Height})
	if err := d.useTemplate(); err != nil {
		return err
	}
	if d.out.Err() {
		return fmt.Errorf("pdf: append template page: %w", d.out.Error())
	}
	return nil
}

// importTemplate imports template page 1 once; every appended page reuses the
// same form XObject. gofpdi reports parse failures by panicking. The page
// size gofpdi reads from the MediaBox wins over the pdfcpu dimensions so the
// stamped page and the output page always agree.
func (d *fpdfDocument) importTemplate() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: import template page: %v", r)
		}
	}()

	d.importer = gofpdi.NewImporter()
	d.tpl = d.importer.ImportPageFromStream(d.out, &d.source, 1, templateBox)

	if box, ok := d.importer.GetPageSizes()[1][templateBox]; ok && box["w"] > 0 && box["h"] > 0 {
		d.info.Width = box["w"]
		d.info.Height = box["h"]
	}
	if d.out.Err() {
		return fmt.Errorf("pdf: import template page: %w", d.out.Error())
	}
	return nil
}

func (d *fpdfDocument) useTemplate() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: place template page: %v", r)
		}
	}()

	d.importer.UseImportedTemplate(d.out, d.tpl, 0, 0, d.info.Width, d.info.Height)
	return nil
}

func (d *fpdfDocument) DrawText(x, y, size float64, text string) error {
	if d.out.PageNo() == 0 {
		return fmt.Errorf("pdf: draw %q: no page", text)
	}

	encoded, err := encodeWinAnsi(text)
	if err != nil {
		return err
	}

	d.out.SetFont(d.family, d.style, size)
	d.out.Text(x, d.info.Height-y, encoded)
	if d.out.Err() {
		return fmt.Errorf("pdf: draw %q: %w", text, d.out.Error())
	}
	return nil
}

func (d *fpdfDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.out.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

var _ Opener = (*FPDFOpener)(nil)

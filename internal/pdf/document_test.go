package pdf

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// buildTemplate renders a one-page landscape A4 template the way an invoice
// background would look: static artwork, no form fields.
func buildTemplate(t *testing.T) []byte {
	t.Helper()

	doc := fpdf.New("L", "pt", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 14)
	doc.Text(40, 40, "FACTURA")
	doc.Rect(30, 180, 780, 300, "D")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("expected template to render, got %v", err)
	}
	return buf.Bytes()
}

func TestInspectReportsFirstPage(t *testing.T) {
	info, err := Inspect(buildTemplate(t))
	if err != nil {
		t.Fatalf("expected template to inspect cleanly, got %v", err)
	}
	if info.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", info.Pages)
	}
	if math.Abs(info.Width-841.89) > 1 || math.Abs(info.Height-595.28) > 1 {
		t.Fatalf("expected landscape A4, got %.2fx%.2f", info.Width, info.Height)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect([]byte("definitely not a pdf")); err == nil {
		t.Fatal("expected error for malformed document")
	}
	if _, err := Inspect(nil); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	if _, err := NewOpener().Open([]byte("%PDF-1.4\ngarbage")); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestDocumentAppendsTemplateCopies(t *testing.T) {
	doc, err := NewOpener().Open(buildTemplate(t))
	if err != nil {
		t.Fatalf("expected template to open, got %v", err)
	}

	_, height := doc.PageSize()
	for i := 0; i < 3; i++ {
		if err := doc.AppendTemplatePage(); err != nil {
			t.Fatalf("expected page %d to append, got %v", i, err)
		}
		if err := doc.DrawText(70, height-194, 10, "Página 1 de 3"); err != nil {
			t.Fatalf("expected text to draw, got %v", err)
		}
	}
	if doc.PageCount() != 3 {
		t.Fatalf("expected 3 pages, got %d", doc.PageCount())
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("expected document to serialize, got %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", out[:8])
	}

	info, err := Inspect(out)
	if err != nil {
		t.Fatalf("expected output to be a valid PDF, got %v", err)
	}
	if info.Pages != 3 {
		t.Fatalf("expected output with 3 pages, got %d", info.Pages)
	}
}

// withObjectStreams rewrites a template the way pdf-lib and most PDF 1.5+
// writers save: objects packed into /ObjStm and a cross-reference stream.
func withObjectStreams(t *testing.T, template []byte) []byte {
	t.Helper()

	conf := model.NewDefaultConfiguration()
	conf.WriteObjectStream = true
	conf.WriteXRefStream = true

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(template), &buf, conf); err != nil {
		t.Fatalf("expected template to rewrite with object streams, got %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/ObjStm")) {
		t.Fatal("expected rewritten template to contain an object stream")
	}
	return buf.Bytes()
}

func TestOpenAcceptsObjectStreamTemplates(t *testing.T) {
	doc, err := NewOpener().Open(withObjectStreams(t, buildTemplate(t)))
	if err != nil {
		t.Fatalf("expected object stream template to open, got %v", err)
	}

	_, height := doc.PageSize()
	for i := 0; i < 2; i++ {
		if err := doc.AppendTemplatePage(); err != nil {
			t.Fatalf("expected page %d to append, got %v", i, err)
		}
		if err := doc.DrawText(70, height-194, 10, "F-2024-001"); err != nil {
			t.Fatalf("expected text to draw, got %v", err)
		}
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("expected document to serialize, got %v", err)
	}
	info, err := Inspect(out)
	if err != nil {
		t.Fatalf("expected output to be a valid PDF, got %v", err)
	}
	if info.Pages != 2 {
		t.Fatalf("expected output with 2 pages, got %d", info.Pages)
	}
	if math.Abs(info.Width-841.89) > 1 || math.Abs(info.Height-595.28) > 1 {
		t.Fatalf("expected landscape A4 pages, got %.2fx%.2f", info.Width, info.Height)
	}
}

func TestDrawTextRejectsUnencodableRunes(t *testing.T) {
	doc, err := NewOpener().Open(buildTemplate(t))
	if err != nil {
		t.Fatalf("expected template to open, got %v", err)
	}
	if err := doc.AppendTemplatePage(); err != nil {
		t.Fatalf("expected page to append, got %v", err)
	}

	err = doc.DrawText(10, 10, 9, "漢字")
	if err == nil || !strings.Contains(err.Error(), "WinAnsi") {
		t.Fatalf("expected WinAnsi encoding error, got %v", err)
	}
}

func TestDrawTextRequiresPage(t *testing.T) {
	doc, err := NewOpener().Open(buildTemplate(t))
	if err != nil {
		t.Fatalf("expected template to open, got %v", err)
	}
	if err := doc.DrawText(10, 10, 9, "x"); err == nil {
		t.Fatal("expected error when drawing before any page exists")
	}
}

func TestEncodeWinAnsiKeepsSpanishText(t *testing.T) {
	encoded, err := encodeWinAnsi("Albarán Nº 12 – 3,50 €")
	if err != nil {
		t.Fatalf("expected Spanish text to encode, got %v", err)
	}
	if len(encoded) != len([]rune("Albarán Nº 12 – 3,50 €")) {
		t.Fatalf("expected one byte per rune, got %d bytes", len(encoded))
	}
}

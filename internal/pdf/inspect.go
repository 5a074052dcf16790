package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoPages is returned for documents without a single page.
var ErrNoPages = errors.New("pdf: document has no pages")

func init() {
	// Keep pdfcpu from creating a configuration directory under $HOME.
	model.ConfigPath = "disable"
}

// TemplateInfo describes a template document.
type TemplateInfo struct {
	Pages  int
	Width  float64 // page 0, in pt
	Height float64 // page 0, in pt
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Inspect parses and validates data and reports its page count and the
// dimensions of its first page.
func Inspect(data []byte) (TemplateInfo, error) {
	_, info, err := readTemplate(data)
	return info, err
}

func readTemplate(data []byte) (*model.Context, TemplateInfo, error) {
	if len(data) == 0 {
		return nil, TemplateInfo{}, fmt.Errorf("pdf: empty document")
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, TemplateInfo{}, fmt.Errorf("pdf: read document: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, TemplateInfo{}, fmt.Errorf("pdf: validate document: %w", err)
	}
	if ctx.PageCount < 1 {
		return nil, TemplateInfo{}, ErrNoPages
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, TemplateInfo{}, fmt.Errorf("pdf: page dimensions: %w", err)
	}
	if len(dims) == 0 {
		return nil, TemplateInfo{}, ErrNoPages
	}

	return ctx, TemplateInfo{
		Pages:  ctx.PageCount,
		Width:  dims[0].Width,
		Height: dims[0].Height,
	}, nil
}

// flatten rewrites ctx with a classic xref table and every object at top
// level. gofpdi cannot resolve objects stored inside /ObjStm streams, which
// PDF 1.5+ writers emit by default.
func flatten(ctx *model.Context) ([]byte, error) {
	ctx.WriteObjectStream = false
	ctx.WriteXRefStream = false

	if err := api.OptimizeContext(ctx); err != nil {
		return nil, fmt.Errorf("pdf: optimize template: %w", err)
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("pdf: rewrite template: %w", err)
	}
	return buf.Bytes(), nil
}

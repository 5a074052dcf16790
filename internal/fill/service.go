package fill

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"invoice_pdf_service/internal/compositor"
	"invoice_pdf_service/internal/layout"
	"invoice_pdf_service/platform/apperr"
	"invoice_pdf_service/platform/logger"
)

// Composer renders a filled document.
type Composer interface {
	Compose(ctx context.Context, template []byte, fields compositor.FieldMap, l *layout.Layout) (*compositor.Result, error)
}

// Layouts resolves coordinate tables by name.
type Layouts interface {
	Lookup(name string) (*layout.Layout, error)
	Names() []string
	Default() string
}

// FillInput is a decoded fill request.
type FillInput struct {
	TemplateBase64 string
	Fields         map[string]any
	Layout         string
}

// FillResult is a filled document ready to return.
type FillResult struct {
	PDFBase64 string
	Layout    string
	Pages     int
	Lines     int
	Groups    int
}

// Service fills invoice templates.
type Service struct {
	composer Composer
	layouts  Layouts
	log      *logger.Logger
}

// NewService creates a fill service.
func NewService(composer Composer, layouts Layouts, log *logger.Logger) *Service {
	return &Service{composer: composer, layouts: layouts, log: log}
}

// Fill decodes the template, composes it with the selected layout and
// returns the result base64 encoded.
func (s *Service) Fill(ctx context.Context, in FillInput) (*FillResult, error) {
	l, err := s.layouts.Lookup(in.Layout)
	if err != nil {
		return nil, err
	}

	template, err := decodeBase64(in.TemplateBase64)
	if err != nil {
		return nil, apperr.Internal(err).WithOp("fill.Fill")
	}

	res, err := s.composer.Compose(ctx, template, compositor.FieldMap(in.Fields), l)
	if err != nil {
		return nil, apperr.Internal(err).WithOp("fill.Fill")
	}

	return &FillResult{
		PDFBase64: base64.StdEncoding.EncodeToString(res.PDF),
		Layout:    l.Name,
		Pages:     res.Pages,
		Lines:     res.Lines,
		Groups:    res.Groups,
	}, nil
}

// Catalog lists the available layouts.
func (s *Service) Catalog() LayoutsResponse {
	return LayoutsResponse{Default: s.layouts.Default(), Layouts: s.layouts.Names()}
}

// decodeBase64 accepts padded or unpadded standard base64, ignoring line breaks.
func decodeBase64(s string) ([]byte, error) {
	s = strings.NewReplacer("\r", "", "\n", "").Replace(strings.TrimSpace(s))
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, fmt.Errorf("decode pdfBase64: %w", err)
}

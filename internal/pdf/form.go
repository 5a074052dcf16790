package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/form"
)

// FormFiller sets AcroForm text fields of a template by name.
type FormFiller interface {
	FillForm(template []byte, values map[string]string) (*FormResult, error)
}

// FormResult is a filled template. Skipped lists the requested names that
// are not text fields of the template, sorted.
type FormResult struct {
	PDF     []byte
	Pages   int
	Filled  []string
	Skipped []string
}

// AcroFormFiller fills forms with pdfcpu.
type AcroFormFiller struct{}

// NewFormFiller returns the default FormFiller.
func NewFormFiller() *AcroFormFiller {
	return &AcroFormFiller{}
}

// FillForm writes each value into the text field of the same name. Names
// without a matching text field are skipped, not errors. A template without
// a form, or a request that matches nothing, comes back unchanged.
func (f *AcroFormFiller) FillForm(template []byte, values map[string]string) (*FormResult, error) {
	ctx, info, err := readTemplate(template)
	if err != nil {
		return nil, err
	}

	textFields := make(map[string]bool)
	if ctx.Form != nil {
		fields, _, err := form.FormFields(ctx)
		if err != nil {
			return nil, fmt.Errorf("pdf: list form fields: %w", err)
		}
		for _, field := range fields {
			if field.Typ == form.FTText {
				textFields[field.Name] = true
			}
		}
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	res := &FormResult{PDF: template, Pages: info.Pages}
	var filled form.Form
	for _, name := range names {
		if !textFields[name] {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		filled.TextFields = append(filled.TextFields, &form.TextField{Name: name, Value: values[name]})
		res.Filled = append(res.Filled, name)
	}
	if len(res.Filled) == 0 {
		return res, nil
	}

	payload, err := json.Marshal(form.FormGroup{Forms: []form.Form{filled}})
	if err != nil {
		return nil, fmt.Errorf("pdf: encode form data: %w", err)
	}

	var buf bytes.Buffer
	if err := api.FillForm(bytes.NewReader(template), bytes.NewReader(payload), &buf, newConfiguration()); err != nil {
		return nil, fmt.Errorf("pdf: fill form: %w", err)
	}
	res.PDF = buf.Bytes()
	return res, nil
}

var _ FormFiller = (*AcroFormFiller)(nil)

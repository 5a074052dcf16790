package fill

// MsgMissingInput is returned when the template or the field map is absent.
const MsgMissingInput = "Missing pdfBase64 or fields"

// FillRequest is the body of POST /fill-pdf.
type FillRequest struct {
	PDFBase64 string         `json:"pdfBase64" validate:"required"`
	Fields    map[string]any `json:"fields" validate:"required"`
	// Layout names the coordinate table; empty selects the default.
	Layout string `json:"layout,omitempty" validate:"omitempty,max=100"`
}

// FillResponse is the success body of POST /fill-pdf.
type FillResponse struct {
	Success bool   `json:"success"`
	PDF     string `json:"pdf"`
}

// LayoutsResponse is the body of GET /layouts.
type LayoutsResponse struct {
	Default string   `json:"default"`
	Layouts []string `json:"layouts"`
}

package compositor

import (
	"encoding/json"
	"strconv"
	"strings"

	"invoice_pdf_service/internal/layout"
	"invoice_pdf_service/internal/pdf"
)

// valueText renders a scalar the way it should appear on the page and reports
// whether it is drawable at all. Numbers use the shortest decimal form.
// Objects and arrays are never drawable.
func valueText(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// isBlank reports values that are skipped unless the field keeps zeros:
// empty strings, false and numeric zero.
func isBlank(v any) bool {
	switch x := v.(type) {
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case float32:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

// fieldText returns the text drawn for value under f, or false when the value
// is skipped. Fields that keep zeros draw every non-null scalar.
func fieldText(f layout.Field, value any) (string, bool) {
	if value == nil || (!f.KeepZero && isBlank(value)) {
		return "", false
	}

	text, ok := valueText(value)
	if !ok || text == "" {
		return "", false
	}
	if f.Date {
		text, _, _ = strings.Cut(text, "T")
	}
	return f.Prefix + text, true
}

// drawFields draws every field of fields whose value in values is drawable.
// y returns the baseline for a field.
func drawFields(doc pdf.Document, fields []layout.Field, values map[string]any, y func(layout.Field) float64) error {
	for _, f := range fields {
		text, ok := fieldText(f, values[f.Key])
		if !ok {
			continue
		}
		if err := doc.DrawText(f.X, y(f), f.Size, text); err != nil {
			return err
		}
	}
	return nil
}

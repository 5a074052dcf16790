// Package compositor turns a request's field map and line records into page
// plans and draws them onto copies of a template page.
package compositor

import (
	"encoding/json"
	"fmt"
)

// FieldMap is the invoice payload: scalar header values plus the line records
// under the layout's lines key.
type FieldMap map[string]any

// LineRecord is one invoice line keyed by column name.
type LineRecord map[string]any

// NormalizeLines accepts line records as a decoded sequence or as a JSON
// string holding one. Anything else yields an empty slice. The returned error
// only explains a fallback to empty; callers log it and continue.
func NormalizeLines(raw any) ([]LineRecord, error) {
	switch v := raw.(type) {
	case nil:
		return []LineRecord{}, nil
	case []any:
		return toRecords(v), nil
	case []map[string]any:
		out := make([]LineRecord, len(v))
		for i, m := range v {
			out[i] = LineRecord(m)
		}
		return out, nil
	case []LineRecord:
		return v, nil
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return []LineRecord{}, fmt.Errorf("line records are not valid JSON: %w", err)
		}
		seq, ok := decoded.([]any)
		if !ok {
			return []LineRecord{}, fmt.Errorf("line records JSON is %T, not an array", decoded)
		}
		return toRecords(seq), nil
	default:
		return []LineRecord{}, fmt.Errorf("line records have unsupported type %T", raw)
	}
}

// toRecords keeps every element in order. Elements that are not objects have
// no column values and become blank records that still take a row.
func toRecords(seq []any) []LineRecord {
	out := make([]LineRecord, 0, len(seq))
	for _, item := range seq {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, LineRecord(m))
		case LineRecord:
			out = append(out, m)
		default:
			out = append(out, LineRecord{})
		}
	}
	return out
}

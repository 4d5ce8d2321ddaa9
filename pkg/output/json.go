package output

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/codeguard/pkg/types"
)

// JSONVersion identifies the JSON report layout
const JSONVersion = 1

// JSONRenderer writes the report as indented JSON. Timing is omitted so
// identical runs produce identical bytes.
type JSONRenderer struct{}

type jsonReport struct {
	Version int `json:"version"`
	*types.Report
}

// Render writes the report
func (r *JSONRenderer) Render(w io.Writer, report *types.Report) error {
	out := *report
	if out.Violations == nil {
		out.Violations = []types.Violation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jsonReport{Version: JSONVersion, Report: &out})
}

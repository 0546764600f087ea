package analyze

import (
	"bytes"
	"encoding/json"
)

type jsonReportOut struct {
	Ref   string          `json:"ref"`
	Media json.RawMessage `json:"media,omitempty"`
	Error string          `json:"error,omitempty"`
}

// RenderJSON renders a single report as the bare wire object and several reports
// as an array of {"ref", "media"} entries. Failed files carry "error" instead.
func RenderJSON(reports []Report) string {
	if len(reports) == 1 && reports[0].Err == nil {
		return string(mediaJSON(reports[0]))
	}
	payloads := make([]jsonReportOut, 0, len(reports))
	for _, report := range reports {
		out := jsonReportOut{Ref: report.Ref}
		if report.Err != nil {
			out.Error = report.Err.Error()
		} else {
			out.Media = mediaJSON(report)
		}
		payloads = append(payloads, out)
	}
	if len(reports) == 1 {
		return encodeJSON(payloads[0])
	}
	return encodeJSON(payloads)
}

func mediaJSON(report Report) json.RawMessage {
	if !report.Found {
		return json.RawMessage("{}")
	}
	out, err := report.Result.MarshalJSON()
	if err != nil {
		return json.RawMessage("{}")
	}
	return out
}

func encodeJSON(value any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

package probe

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var emptyJSONObject = []byte("{}")

type jsonResult struct {
	Duration        jsonFloat            `json:"duration"`
	Bitrate         uint64               `json:"bitrate"`
	Format          string               `json:"format"`
	Streams         []jsonStream         `json:"streams"`
	FontAttachments []jsonFontAttachment `json:"fontAttachments"`
}

type jsonStream struct {
	Index      int        `json:"index"`
	Kind       StreamKind `json:"type"`
	Codec      string     `json:"codec"`
	Width      *uint32    `json:"width,omitempty"`
	Height     *uint32    `json:"height,omitempty"`
	FrameRate  *jsonFloat `json:"fps,omitempty"`
	SampleRate *uint32    `json:"sampleRate,omitempty"`
	Channels   *uint32    `json:"channels,omitempty"`
	Language   *string    `json:"language,omitempty"`
	Bitrate    *uint64    `json:"bitrate,omitempty"`
	IsDefault  *bool      `json:"isDefault,omitempty"`
	IsForced   *bool      `json:"isForced,omitempty"`
}

type jsonFontAttachment struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
}

// ProbeJSON probes data and returns the compact wire representation, or "{}" when
// no metadata was found.
func ProbeJSON(data []byte) []byte {
	result, ok := Probe(data)
	if !ok {
		return append([]byte(nil), emptyJSONObject...)
	}
	out, err := result.MarshalJSON()
	if err != nil {
		return append([]byte(nil), emptyJSONObject...)
	}
	return out
}

func (r Result) MarshalJSON() ([]byte, error) {
	payload := jsonResult{
		Duration:        jsonFloat(r.Duration),
		Bitrate:         r.Bitrate,
		Format:          r.Format,
		Streams:         make([]jsonStream, 0, len(r.Streams)),
		FontAttachments: make([]jsonFontAttachment, 0, len(r.FontAttachments)),
	}
	for _, s := range r.Streams {
		stream := jsonStream{
			Index:      s.Index,
			Kind:       s.Kind,
			Codec:      s.Codec,
			Width:      s.Width,
			Height:     s.Height,
			SampleRate: s.SampleRate,
			Channels:   s.Channels,
			Language:   s.Language,
			Bitrate:    s.Bitrate,
			IsDefault:  s.IsDefault,
			IsForced:   s.IsForced,
		}
		if s.FrameRate != nil {
			stream.FrameRate = ptr(jsonFloat(*s.FrameRate))
		}
		payload.Streams = append(payload.Streams, stream)
	}
	for _, font := range r.FontAttachments {
		payload.FontAttachments = append(payload.FontAttachments, jsonFontAttachment(font))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// jsonFloat always carries a fractional part or an exponent ("5.0", "1e21") so the
// output matches serializers that distinguish floats from integers.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	return []byte(formatJSONFloat(float64(f))), nil
}

func formatJSONFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "null"
	}
	if v == 0 {
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mantissa, ".", "", 1)

	// point is the position of the decimal point relative to the start of digits.
	point := exp + 1
	var out string
	switch {
	case point >= len(digits) && point <= 16:
		out = digits + strings.Repeat("0", point-len(digits)) + ".0"
	case point > 0 && point <= 16:
		out = digits[:point] + "." + digits[point:]
	case point > -5 && point <= 0:
		out = "0." + strings.Repeat("0", -point) + digits
	case len(digits) == 1:
		out = digits + "e" + strconv.Itoa(point-1)
	default:
		out = digits[:1] + "." + digits[1:] + "e" + strconv.Itoa(point-1)
	}
	return sign + out
}

// Package probe reads container-level metadata (format, duration and a per-track
// summary) from in-memory ISO-BMFF (MP4/MOV) and Matroska/WebM buffers without
// touching sample payloads.
//
// Every entry point is pure: it allocates its own state, never panics on malformed
// input and is safe for concurrent use on distinct or shared buffers.
package probe

import "math"

type StreamKind string

const (
	StreamVideo    StreamKind = "video"
	StreamAudio    StreamKind = "audio"
	StreamSubtitle StreamKind = "subtitle"
)

const unknownCodec = "unknown"

// Result is the unified metadata for one container.
type Result struct {
	Duration        float64
	Bitrate         uint64
	Format          string
	Streams         []Stream
	FontAttachments []FontAttachment
}

// Stream describes one elementary track. Pointer fields are nil when the container
// did not declare the value.
type Stream struct {
	Index      int
	Kind       StreamKind
	Codec      string
	Width      *uint32
	Height     *uint32
	FrameRate  *float64
	SampleRate *uint32
	Channels   *uint32
	Language   *string
	Bitrate    *uint64
	IsDefault  *bool
	IsForced   *bool
}

type FontAttachment struct {
	Index    int
	Filename string
}

// Probe tries the MP4 reader first and falls back to Matroska. The boolean is false
// when neither format produced at least one usable track.
func Probe(data []byte) (Result, bool) {
	result, ok := parseMP4(data)
	if !ok {
		result, ok = parseMatroska(data)
	}
	if !ok {
		return Result{}, false
	}
	result.Duration = sanitizeDuration(result.Duration)
	return result, true
}

func sanitizeDuration(seconds float64) float64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	return seconds
}

// trackFields is the container-independent part of a per-track builder.
type trackFields struct {
	kind       StreamKind
	codec      string
	width      uint32
	height     uint32
	frameRate  float64
	sampleRate uint32
	channels   uint32
	language   string
	isDefault  *bool
	isForced   *bool
}

// stream finalizes the builder. Dimensions and frame rate survive only on video
// tracks, sample rate and channels only on audio tracks, and zero values mean unset.
func (t trackFields) stream(index int) (Stream, bool) {
	switch t.kind {
	case StreamVideo, StreamAudio, StreamSubtitle:
	default:
		return Stream{}, false
	}
	s := Stream{
		Index:     index,
		Kind:      t.kind,
		Codec:     t.codec,
		IsDefault: t.isDefault,
		IsForced:  t.isForced,
	}
	if s.Codec == "" {
		s.Codec = unknownCodec
	}
	if t.language != "" {
		s.Language = ptr(t.language)
	}
	switch t.kind {
	case StreamVideo:
		s.Width = positive(t.width)
		s.Height = positive(t.height)
		if t.frameRate > 0 && !math.IsInf(t.frameRate, 0) {
			s.FrameRate = ptr(t.frameRate)
		}
	case StreamAudio:
		s.SampleRate = positive(t.sampleRate)
		s.Channels = positive(t.channels)
	}
	return s, true
}

func ptr[T any](v T) *T {
	return &v
}

func positive(v uint32) *uint32 {
	if v == 0 {
		return nil
	}
	return &v
}

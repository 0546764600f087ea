package probe

import "strings"

const (
	minMP4Size    = 12
	defaultMP4Tag = "mp4"
)

type mp4Track struct {
	trackFields

	tkhdWidth  uint32
	tkhdHeight uint32

	hasEntryDims bool
	entryWidth   uint32
	entryHeight  uint32

	hasEntryAudio   bool
	entryChannels   uint32
	entrySampleRate uint32

	timescale   uint32
	sttsDelta   uint32
	duration    float64
	hasDuration bool
}

func parseMP4(buf []byte) (Result, bool) {
	if len(buf) < minMP4Size {
		return Result{}, false
	}

	hasFtyp := false
	format := defaultMP4Tag
	var movieDuration float64
	var tracks []mp4Track

	walkMP4Boxes(buf, 0, len(buf), func(box mp4Box) {
		switch box.Type {
		case "ftyp":
			hasFtyp = true
			if brand, ok := parseFtypBrand(mp4Payload(buf, box)); ok {
				format = brand
			}
		case "moov":
			walkMP4Boxes(buf, box.PayloadStart, box.PayloadEnd, func(child mp4Box) {
				switch child.Type {
				case "mvhd":
					if duration, ok := parseMvhd(mp4Payload(buf, child)); ok {
						movieDuration = duration
					}
				case "trak":
					track := parseTrak(buf, child)
					track.finalize()
					if track.kind != "" {
						tracks = append(tracks, track)
					}
				}
			})
		}
	})

	if !hasFtyp {
		return Result{}, false
	}

	streams := make([]Stream, 0, len(tracks))
	for _, track := range tracks {
		if stream, ok := track.stream(len(streams)); ok {
			streams = append(streams, stream)
		}
	}
	if len(streams) == 0 {
		return Result{}, false
	}

	duration := movieDuration
	if duration <= 0 {
		for _, track := range tracks {
			if track.hasDuration && track.duration > duration {
				duration = track.duration
			}
		}
	}

	return Result{
		Duration:        duration,
		Format:          format,
		Streams:         streams,
		FontAttachments: []FontAttachment{},
	}, true
}

func parseFtypBrand(payload []byte) (string, bool) {
	brand, ok := sliceRange(payload, 0, 4)
	if !ok {
		return "", false
	}
	lower := strings.ToLower(string(brand))
	if lower == "qt  " {
		return "mov", true
	}
	lower = readText([]byte(lower))
	if lower == "" {
		return "", false
	}
	return lower, true
}

func parseMvhd(payload []byte) (float64, bool) {
	if len(payload) < 24 {
		return 0, false
	}
	if payload[0] == 1 {
		timescale, ok := readU32(payload, 20)
		if !ok {
			return 0, false
		}
		duration, ok := readU64(payload, 24)
		if !ok || timescale == 0 {
			return 0, false
		}
		return float64(duration) / float64(timescale), true
	}
	timescale, _ := readU32(payload, 12)
	duration, _ := readU32(payload, 16)
	if timescale == 0 {
		return 0, false
	}
	return float64(duration) / float64(timescale), true
}

func parseTrak(buf []byte, trak mp4Box) mp4Track {
	var track mp4Track
	walkMP4Boxes(buf, trak.PayloadStart, trak.PayloadEnd, func(box mp4Box) {
		switch box.Type {
		case "tkhd":
			track.applyTkhd(mp4Payload(buf, box))
		case "mdia":
			parseMdia(buf, box, &track)
		}
	})
	return track
}

func (t *mp4Track) applyTkhd(payload []byte) {
	if len(payload) < 84 {
		return
	}
	widthOffset, heightOffset := 76, 80
	if payload[0] == 1 {
		widthOffset, heightOffset = 88, 92
	}
	if width, ok := readU32(payload, widthOffset); ok && t.tkhdWidth == 0 {
		t.tkhdWidth = width >> 16
	}
	if height, ok := readU32(payload, heightOffset); ok && t.tkhdHeight == 0 {
		t.tkhdHeight = height >> 16
	}
}

func parseMdia(buf []byte, mdia mp4Box, track *mp4Track) {
	walkMP4Boxes(buf, mdia.PayloadStart, mdia.PayloadEnd, func(box mp4Box) {
		switch box.Type {
		case "hdlr":
			track.applyHdlr(mp4Payload(buf, box))
		case "mdhd":
			track.applyMdhd(mp4Payload(buf, box))
		case "minf":
			walkMP4Boxes(buf, box.PayloadStart, box.PayloadEnd, func(minfChild mp4Box) {
				if minfChild.Type != "stbl" {
					return
				}
				walkMP4Boxes(buf, minfChild.PayloadStart, minfChild.PayloadEnd, func(stblChild mp4Box) {
					switch stblChild.Type {
					case "stsd":
						track.applyStsd(mp4Payload(buf, stblChild))
					case "stts":
						track.applyStts(mp4Payload(buf, stblChild))
					}
				})
			})
		}
	})
}

func (t *mp4Track) applyHdlr(payload []byte) {
	handler, ok := sliceRange(payload, 8, 12)
	if !ok {
		return
	}
	if kind := mapHandlerType(string(handler)); kind != "" {
		t.kind = kind
	}
}

func mapHandlerType(handler string) StreamKind {
	switch handler {
	case "vide":
		return StreamVideo
	case "soun":
		return StreamAudio
	case "text", "sbtl", "subt", "clcp":
		return StreamSubtitle
	default:
		return ""
	}
}

func (t *mp4Track) applyMdhd(payload []byte) {
	if len(payload) < 24 {
		return
	}
	var timescale uint32
	var duration uint64
	var language uint16
	var ok bool
	if payload[0] == 1 {
		if len(payload) < 36 {
			return
		}
		if timescale, ok = readU32(payload, 20); !ok {
			return
		}
		if duration, ok = readU64(payload, 24); !ok {
			return
		}
		language, _ = readU16(payload, 32)
	} else {
		if timescale, ok = readU32(payload, 12); !ok {
			return
		}
		var raw uint32
		if raw, ok = readU32(payload, 16); !ok {
			return
		}
		duration = uint64(raw)
		language, _ = readU16(payload, 20)
	}
	t.timescale = timescale
	if timescale > 0 {
		t.duration = float64(duration) / float64(timescale)
		t.hasDuration = true
	}
	t.language, _ = decodeMP4Language(language)
}

// applyStsd reads the first sample entry only. Its four-character type is the codec;
// dimensions and audio layout are kept raw until the handler kind is known.
func (t *mp4Track) applyStsd(payload []byte) {
	if len(payload) < 16 {
		return
	}
	count, ok := readU32(payload, 4)
	if !ok || count == 0 {
		return
	}
	const entryOffset = 8
	entrySize, ok := readU32(payload, entryOffset)
	if !ok || entrySize < 8 || uint64(entrySize) > uint64(len(payload)-entryOffset) {
		return
	}
	entry, ok := sliceRange(payload, entryOffset, entryOffset+int(entrySize))
	if !ok {
		return
	}
	codec, _ := sliceRange(entry, 4, 8)
	t.codec = readText([]byte(strings.ToLower(string(codec))))
	if len(entry) < 36 {
		return
	}

	width, _ := readU16(entry, 32)
	height, _ := readU16(entry, 34)
	t.hasEntryDims = true
	t.entryWidth = uint32(width)
	t.entryHeight = uint32(height)

	channels, _ := readU16(entry, 24)
	sampleRate, _ := readU32(entry, 32)
	t.hasEntryAudio = true
	t.entryChannels = uint32(channels)
	t.entrySampleRate = sampleRate >> 16
}

// applyStts keeps the delta of the first time-to-sample run; the frame rate derived
// from it is exact only for constant frame rate content.
func (t *mp4Track) applyStts(payload []byte) {
	if len(payload) < 16 {
		return
	}
	count, ok := readU32(payload, 4)
	if !ok || count == 0 {
		return
	}
	if delta, ok := readU32(payload, 12); ok && delta > 0 {
		t.sttsDelta = delta
	}
}

// finalize resolves the values whose meaning depends on the handler kind, which may
// be declared after the boxes that carry them.
func (t *mp4Track) finalize() {
	switch t.kind {
	case StreamVideo:
		t.width, t.height = t.tkhdWidth, t.tkhdHeight
		if t.hasEntryDims {
			t.width, t.height = t.entryWidth, t.entryHeight
		}
		if t.timescale > 0 && t.sttsDelta > 0 {
			t.frameRate = float64(t.timescale) / float64(t.sttsDelta)
		}
	case StreamAudio:
		if t.hasEntryAudio {
			t.channels = t.entryChannels
			t.sampleRate = t.entrySampleRate
		}
	}
}

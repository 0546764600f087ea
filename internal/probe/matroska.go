package probe

import (
	"bytes"
	"math"
	"strings"
)

const (
	mkvIDEBML            = 0x1A45DFA3
	mkvIDDocType         = 0x4282
	mkvIDSegment         = 0x18538067
	mkvIDInfo            = 0x1549A966
	mkvIDTimecodeScale   = 0x2AD7B1
	mkvIDDuration        = 0x4489
	mkvIDTracks          = 0x1654AE6B
	mkvIDTrackEntry      = 0xAE
	mkvIDTrackType       = 0x83
	mkvIDCodecID         = 0x86
	mkvIDLanguage        = 0x22B59C
	mkvIDFlagDefault     = 0x88
	mkvIDFlagForced      = 0x55AA
	mkvIDDefaultDuration = 0x23E383
	mkvIDTrackVideo      = 0xE0
	mkvIDTrackAudio      = 0xE1
	mkvIDPixelWidth      = 0xB0
	mkvIDPixelHeight     = 0xBA
	mkvIDChannels        = 0x9F
	mkvIDSamplingRate    = 0xB5

	mkvDefaultDocType       = "matroska"
	mkvDefaultTimecodeScale = 1_000_000
)

var ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

type matroskaSegment struct {
	timecodeScale uint64
	durationTicks float64
	hasDuration   bool
	tracks        []trackFields
}

func parseMatroska(buf []byte) (Result, bool) {
	if !bytes.HasPrefix(buf, ebmlMagic) {
		return Result{}, false
	}

	format := mkvDefaultDocType
	segment := matroskaSegment{timecodeScale: mkvDefaultTimecodeScale}

	walkEBML(buf, 0, len(buf), func(elem ebmlElement) {
		switch elem.ID {
		case mkvIDEBML:
			if docType := parseMatroskaDocType(buf, elem); docType != "" {
				format = docType
			}
		case mkvIDSegment:
			parseMatroskaSegment(buf, elem, &segment)
		}
	})

	streams := make([]Stream, 0, len(segment.tracks))
	for _, track := range segment.tracks {
		if stream, ok := track.stream(len(streams)); ok {
			streams = append(streams, stream)
		}
	}
	if len(streams) == 0 {
		return Result{}, false
	}

	var duration float64
	if segment.hasDuration {
		duration = segment.durationTicks * float64(segment.timecodeScale) / 1e9
	}

	return Result{
		Duration:        duration,
		Format:          format,
		Streams:         streams,
		FontAttachments: []FontAttachment{},
	}, true
}

func parseMatroskaDocType(buf []byte, header ebmlElement) string {
	var docType string
	walkEBML(buf, header.PayloadStart, header.PayloadEnd, func(elem ebmlElement) {
		if elem.ID == mkvIDDocType {
			docType = strings.ToLower(readText(ebmlPayload(buf, elem)))
		}
	})
	return docType
}

func parseMatroskaSegment(buf []byte, segment ebmlElement, info *matroskaSegment) {
	walkEBML(buf, segment.PayloadStart, segment.PayloadEnd, func(elem ebmlElement) {
		switch elem.ID {
		case mkvIDInfo:
			parseMatroskaInfo(buf, elem, info)
		case mkvIDTracks:
			walkEBML(buf, elem.PayloadStart, elem.PayloadEnd, func(entry ebmlElement) {
				if entry.ID != mkvIDTrackEntry {
					return
				}
				if track := parseMatroskaTrackEntry(buf, entry); track.kind != "" {
					info.tracks = append(info.tracks, track)
				}
			})
		}
	})
}

func parseMatroskaInfo(buf []byte, infoElem ebmlElement, info *matroskaSegment) {
	walkEBML(buf, infoElem.PayloadStart, infoElem.PayloadEnd, func(elem ebmlElement) {
		payload := ebmlPayload(buf, elem)
		switch elem.ID {
		case mkvIDTimecodeScale:
			if scale, ok := readUnsigned(payload); ok {
				info.timecodeScale = max(scale, 1)
			}
		case mkvIDDuration:
			if ticks, ok := readFloat(payload); ok {
				info.durationTicks = ticks
				info.hasDuration = true
			}
		}
	})
}

func parseMatroskaTrackEntry(buf []byte, entry ebmlElement) trackFields {
	var track trackFields
	walkEBML(buf, entry.PayloadStart, entry.PayloadEnd, func(elem ebmlElement) {
		payload := ebmlPayload(buf, elem)
		switch elem.ID {
		case mkvIDTrackType:
			if value, ok := readUnsigned(payload); ok {
				track.kind = mapMatroskaTrackType(value)
			}
		case mkvIDCodecID:
			if codec := readText(payload); codec != "" {
				track.codec = normalizeMatroskaCodec(codec)
			}
		case mkvIDLanguage:
			if language := readText(payload); language != "" {
				track.language = language
			}
		case mkvIDFlagDefault:
			if value, ok := readUnsigned(payload); ok {
				track.isDefault = ptr(value != 0)
			}
		case mkvIDFlagForced:
			if value, ok := readUnsigned(payload); ok {
				track.isForced = ptr(value != 0)
			}
		case mkvIDDefaultDuration:
			if value, ok := readUnsigned(payload); ok && value > 0 {
				track.frameRate = 1e9 / float64(value)
			}
		case mkvIDTrackVideo:
			walkEBML(buf, elem.PayloadStart, elem.PayloadEnd, func(child ebmlElement) {
				value, ok := readUnsigned(ebmlPayload(buf, child))
				if !ok || value > math.MaxUint32 {
					return
				}
				switch child.ID {
				case mkvIDPixelWidth:
					track.width = uint32(value)
				case mkvIDPixelHeight:
					track.height = uint32(value)
				}
			})
		case mkvIDTrackAudio:
			walkEBML(buf, elem.PayloadStart, elem.PayloadEnd, func(child ebmlElement) {
				childPayload := ebmlPayload(buf, child)
				switch child.ID {
				case mkvIDChannels:
					if value, ok := readUnsigned(childPayload); ok && value <= math.MaxUint32 {
						track.channels = uint32(value)
					}
				case mkvIDSamplingRate:
					if value, ok := readFloat(childPayload); ok {
						if rate := math.Round(value); rate > 0 && rate <= math.MaxUint32 {
							track.sampleRate = uint32(rate)
						}
					}
				}
			})
		}
	})
	return track
}

func mapMatroskaTrackType(value uint64) StreamKind {
	switch value {
	case 1:
		return StreamVideo
	case 2:
		return StreamAudio
	case 17:
		return StreamSubtitle
	default:
		return ""
	}
}

var matroskaCodecTokens = []struct {
	needles []string
	codec   string
}{
	{needles: []string{"av1"}, codec: "av1"},
	{needles: []string{"vp9"}, codec: "vp9"},
	{needles: []string{"vp8"}, codec: "vp8"},
	{needles: []string{"h264", "avc"}, codec: "h264"},
	{needles: []string{"hevc", "h265"}, codec: "hevc"},
	{needles: []string{"opus"}, codec: "opus"},
	{needles: []string{"aac"}, codec: "aac"},
	{needles: []string{"vorbis"}, codec: "vorbis"},
}

// normalizeMatroskaCodec maps a CodecID to a short token by the first matching
// substring in priority order, falling back to the lowercased CodecID.
func normalizeMatroskaCodec(codecID string) string {
	lower := strings.ToLower(codecID)
	for _, token := range matroskaCodecTokens {
		for _, needle := range token.needles {
			if strings.Contains(lower, needle) {
				return token.codec
			}
		}
	}
	return lower
}

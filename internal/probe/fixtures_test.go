package probe

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	mp4LangEng = 0x15C7
	mp4LangUnd = 0x55C4
)

func buildMP4Box(boxType string, children ...[]byte) []byte {
	payload := bytes.Join(children, nil)
	out := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(payload)))
	copy(out[4:8], boxType)
	return append(out, payload...)
}

func buildFtyp(brand string) []byte {
	payload := make([]byte, 8)
	copy(payload, brand)
	return buildMP4Box("ftyp", payload, []byte("isomiso2"))
}

func buildMvhd(timescale, duration uint32) []byte {
	payload := make([]byte, 100)
	binary.BigEndian.PutUint32(payload[12:16], timescale)
	binary.BigEndian.PutUint32(payload[16:20], duration)
	return buildMP4Box("mvhd", payload)
}

func buildTkhd(width, height uint32) []byte {
	payload := make([]byte, 84)
	binary.BigEndian.PutUint32(payload[76:80], width<<16)
	binary.BigEndian.PutUint32(payload[80:84], height<<16)
	return buildMP4Box("tkhd", payload)
}

func buildMdhd(timescale, duration uint32, language uint16) []byte {
	payload := make([]byte, 24)
	binary.BigEndian.PutUint32(payload[12:16], timescale)
	binary.BigEndian.PutUint32(payload[16:20], duration)
	binary.BigEndian.PutUint16(payload[20:22], language)
	return buildMP4Box("mdhd", payload)
}

func buildHdlr(handler string) []byte {
	payload := make([]byte, 24)
	copy(payload[8:12], handler)
	return buildMP4Box("hdlr", payload)
}

func buildStsd(entry []byte) []byte {
	header := make([]byte, 8)
	binary.BigEndian.PutUint32(header[4:8], 1)
	return buildMP4Box("stsd", header, entry)
}

func buildVisualSampleEntry(codec string, width, height uint16) []byte {
	entry := make([]byte, 86)
	binary.BigEndian.PutUint32(entry[0:4], uint32(len(entry)))
	copy(entry[4:8], codec)
	binary.BigEndian.PutUint16(entry[32:34], width)
	binary.BigEndian.PutUint16(entry[34:36], height)
	return entry
}

func buildAudioSampleEntry(codec string, channels uint16, sampleRate uint32) []byte {
	entry := make([]byte, 36)
	binary.BigEndian.PutUint32(entry[0:4], uint32(len(entry)))
	copy(entry[4:8], codec)
	binary.BigEndian.PutUint16(entry[24:26], channels)
	binary.BigEndian.PutUint32(entry[32:36], sampleRate<<16)
	return entry
}

func buildStts(sampleCount, sampleDelta uint32) []byte {
	payload := make([]byte, 16)
	binary.BigEndian.PutUint32(payload[4:8], 1)
	binary.BigEndian.PutUint32(payload[8:12], sampleCount)
	binary.BigEndian.PutUint32(payload[12:16], sampleDelta)
	return buildMP4Box("stts", payload)
}

func buildTrak(tkhd, mdhd, hdlr []byte, stbl ...[]byte) []byte {
	minf := buildMP4Box("minf", buildMP4Box("stbl", stbl...))
	return buildMP4Box("trak", tkhd, buildMP4Box("mdia", mdhd, hdlr, minf))
}

func buildVideoTrak() []byte {
	return buildTrak(
		buildTkhd(640, 360),
		buildMdhd(24000, 240240, mp4LangEng),
		buildHdlr("vide"),
		buildStsd(buildVisualSampleEntry("avc1", 1920, 1080)),
		buildStts(240, 1001),
	)
}

func buildAudioTrak() []byte {
	return buildTrak(
		buildTkhd(0, 0),
		buildMdhd(48000, 480000, mp4LangUnd),
		buildHdlr("soun"),
		buildStsd(buildAudioSampleEntry("mp4a", 2, 48000)),
		buildStts(470, 1024),
	)
}

func buildMP4Sample() []byte {
	moov := buildMP4Box("moov", buildMvhd(1000, 10010), buildVideoTrak(), buildAudioTrak())
	return append(buildFtyp("isom"), moov...)
}

func buildMatroskaElement(id uint64, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	buf := append(buildMatroskaID(id), buildMatroskaSize(uint64(len(body)))...)
	return append(buf, body...)
}

func buildMatroskaID(id uint64) []byte {
	if id <= 0xFF {
		return []byte{byte(id)}
	}
	if id <= 0xFFFF {
		return []byte{byte(id >> 8), byte(id)}
	}
	if id <= 0xFFFFFF {
		return []byte{byte(id >> 16), byte(id >> 8), byte(id)}
	}
	return []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
}

func buildMatroskaSize(size uint64) []byte {
	if size < 0x7F {
		return []byte{byte(0x80 | size)}
	}
	if size < 0x3FFF {
		return []byte{byte(0x40 | (size >> 8)), byte(size)}
	}
	return []byte{byte(0x20 | (size >> 16)), byte(size >> 8), byte(size)}
}

func encodeMatroskaUint(value uint64) []byte {
	if value <= 0xFF {
		return []byte{byte(value)}
	}
	if value <= 0xFFFF {
		return []byte{byte(value >> 8), byte(value)}
	}
	if value <= 0xFFFFFF {
		return []byte{byte(value >> 16), byte(value >> 8), byte(value)}
	}
	return []byte{byte(value >> 24), byte(value >> 16), byte(value >> 8), byte(value)}
}

func encodeMatroskaFloat(value float64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, math.Float64bits(value))
	return out
}

func buildMatroskaHeader(docType string) []byte {
	return buildMatroskaElement(mkvIDEBML,
		buildMatroskaElement(0x4286, encodeMatroskaUint(1)),
		buildMatroskaElement(mkvIDDocType, []byte(docType)),
	)
}

func buildMatroskaInfo(timecodeScale uint64, duration float64) []byte {
	return buildMatroskaElement(mkvIDInfo,
		buildMatroskaElement(mkvIDTimecodeScale, encodeMatroskaUint(timecodeScale)),
		buildMatroskaElement(mkvIDDuration, encodeMatroskaFloat(duration)),
	)
}

func buildMatroskaVideoEntry(codecID string, width, height uint64) []byte {
	return buildMatroskaElement(mkvIDTrackEntry,
		buildMatroskaElement(mkvIDTrackType, encodeMatroskaUint(1)),
		buildMatroskaElement(mkvIDCodecID, []byte(codecID)),
		buildMatroskaElement(mkvIDDefaultDuration, encodeMatroskaUint(40000000)),
		buildMatroskaElement(mkvIDFlagDefault, encodeMatroskaUint(1)),
		buildMatroskaElement(mkvIDTrackVideo,
			buildMatroskaElement(mkvIDPixelWidth, encodeMatroskaUint(width)),
			buildMatroskaElement(mkvIDPixelHeight, encodeMatroskaUint(height)),
		),
	)
}

func buildMatroskaAudioEntry(codecID, language string) []byte {
	return buildMatroskaElement(mkvIDTrackEntry,
		buildMatroskaElement(mkvIDTrackType, encodeMatroskaUint(2)),
		buildMatroskaElement(mkvIDCodecID, []byte(codecID)),
		buildMatroskaElement(mkvIDLanguage, []byte(language)),
		buildMatroskaElement(mkvIDFlagDefault, encodeMatroskaUint(0)),
		buildMatroskaElement(mkvIDFlagForced, encodeMatroskaUint(1)),
		buildMatroskaElement(mkvIDTrackAudio,
			buildMatroskaElement(mkvIDChannels, encodeMatroskaUint(6)),
			buildMatroskaElement(mkvIDSamplingRate, encodeMatroskaFloat(44099.6)),
		),
	)
}

func buildMatroskaFile(docType string, segmentChildren ...[]byte) []byte {
	return append(buildMatroskaHeader(docType), buildMatroskaElement(mkvIDSegment, segmentChildren...)...)
}

func buildMatroskaSample() []byte {
	return buildMatroskaFile("webm",
		buildMatroskaInfo(1000000, 5000.0),
		buildMatroskaElement(mkvIDTracks,
			buildMatroskaVideoEntry("V_VP9", 1280, 720),
			buildMatroskaAudioEntry("A_OPUS", "eng"),
		),
	)
}

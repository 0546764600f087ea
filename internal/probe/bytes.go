package probe

import (
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf8"
)

func sliceRange(buf []byte, start, end int) ([]byte, bool) {
	if start < 0 || end < start || end > len(buf) {
		return nil, false
	}
	return buf[start:end], true
}

func readU16(buf []byte, offset int) (uint16, bool) {
	b, ok := sliceRange(buf, offset, offset+2)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint16(b), true
}

func readU32(buf []byte, offset int) (uint32, bool) {
	b, ok := sliceRange(buf, offset, offset+4)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(b), true
}

func readU64(buf []byte, offset int) (uint64, bool) {
	b, ok := sliceRange(buf, offset, offset+8)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint64(b), true
}

func readUnsigned(buf []byte) (uint64, bool) {
	if len(buf) == 0 || len(buf) > 8 {
		return 0, false
	}
	var value uint64
	for _, b := range buf {
		value = (value << 8) | uint64(b)
	}
	return value, true
}

func readFloat(buf []byte) (float64, bool) {
	if len(buf) == 4 {
		bits := binary.BigEndian.Uint32(buf)
		return float64(math.Float32frombits(bits)), true
	}
	if len(buf) == 8 {
		bits := binary.BigEndian.Uint64(buf)
		return math.Float64frombits(bits), true
	}
	return 0, false
}

// readText decodes buf as UTF-8, replacing each undecodable byte with U+FFFD, and
// trims NUL padding and surrounding whitespace.
func readText(buf []byte) string {
	var sb strings.Builder
	sb.Grow(len(buf))
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		sb.WriteRune(r)
		buf = buf[size:]
	}
	return strings.TrimSpace(strings.Trim(sb.String(), "\x00"))
}

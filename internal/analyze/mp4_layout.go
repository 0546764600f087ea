package analyze

import (
	"bytes"
	"encoding/binary"
	"io"
)

const (
	maxFtypSize = 64 << 10
	maxMoovSize = 16 << 20
)

func looksLikeISOBMFF(head []byte) bool {
	return len(head) >= 8 && bytes.Equal(head[4:8], []byte("ftyp"))
}

// collectMP4Header walks the top-level boxes of an ISO-BMFF file and returns the
// ftyp and moov boxes back to back, which is all the prober needs when moov sits
// beyond the initial read window.
func collectMP4Header(r io.ReaderAt, size int64) ([]byte, bool) {
	var ftyp, moov []byte
	var offset int64
	for offset+8 <= size && (ftyp == nil || moov == nil) {
		boxSize, boxType, ok := readMP4BoxHeader(r, offset, size)
		if !ok || boxSize > size-offset {
			break
		}
		switch boxType {
		case "ftyp":
			if ftyp == nil && boxSize <= maxFtypSize {
				ftyp, ok = readBox(r, offset, boxSize)
			}
		case "moov":
			if boxSize > maxMoovSize {
				return nil, false
			}
			moov, ok = readBox(r, offset, boxSize)
		}
		if !ok {
			return nil, false
		}
		offset += boxSize
	}
	if ftyp == nil || moov == nil {
		return nil, false
	}
	return append(ftyp, moov...), true
}

func readMP4BoxHeader(r io.ReaderAt, offset, fileSize int64) (boxSize int64, boxType string, ok bool) {
	header := make([]byte, 16)
	n, err := r.ReadAt(header, offset)
	if n < 8 || (err != nil && err != io.EOF) {
		return 0, "", false
	}

	size32 := binary.BigEndian.Uint32(header[0:4])
	boxType = string(header[4:8])
	switch size32 {
	case 0:
		return fileSize - offset, boxType, true
	case 1:
		if n < 16 {
			return 0, "", false
		}
		size64 := binary.BigEndian.Uint64(header[8:16])
		if size64 < 16 || size64 > uint64(fileSize) {
			return 0, "", false
		}
		return int64(size64), boxType, true
	}
	if size32 < 8 {
		return 0, "", false
	}
	return int64(size32), boxType, true
}

func readBox(r io.ReaderAt, offset, size int64) ([]byte, bool) {
	buf := make([]byte, size)
	n, err := r.ReadAt(buf, offset)
	if int64(n) != size || (err != nil && err != io.EOF) {
		return nil, false
	}
	return buf, true
}

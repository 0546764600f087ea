package probe

const (
	mp4HeaderSize         = 8
	mp4ExtendedHeaderSize = 16
)

type mp4Box struct {
	Type         string
	PayloadStart int
	PayloadEnd   int
	Next         int
}

// nextMP4Box reads the box header at offset. The box must fit entirely inside
// [offset, end) and inside buf; a size of zero extends the box to end.
func nextMP4Box(buf []byte, offset, end int) (mp4Box, bool) {
	if end > len(buf) {
		end = len(buf)
	}
	if offset < 0 || offset > end-mp4HeaderSize {
		return mp4Box{}, false
	}
	size32, ok := readU32(buf, offset)
	if !ok {
		return mp4Box{}, false
	}
	boxType, ok := sliceRange(buf, offset+4, offset+8)
	if !ok {
		return mp4Box{}, false
	}

	size := uint64(size32)
	headerSize := mp4HeaderSize
	switch size32 {
	case 0:
		size = uint64(end - offset)
	case 1:
		if offset > end-mp4ExtendedHeaderSize {
			return mp4Box{}, false
		}
		size64, ok := readU64(buf, offset+8)
		if !ok {
			return mp4Box{}, false
		}
		size = size64
		headerSize = mp4ExtendedHeaderSize
	}

	if size < uint64(headerSize) || size > uint64(end-offset) {
		return mp4Box{}, false
	}
	boxEnd := offset + int(size)
	return mp4Box{
		Type:         string(boxType),
		PayloadStart: offset + headerSize,
		PayloadEnd:   boxEnd,
		Next:         boxEnd,
	}, true
}

// walkMP4Boxes visits every sibling box in [start, end) until a header fails to
// parse or the walk stops advancing.
func walkMP4Boxes(buf []byte, start, end int, visit func(box mp4Box)) {
	offset := start
	for {
		box, ok := nextMP4Box(buf, offset, end)
		if !ok {
			return
		}
		visit(box)
		if box.Next <= offset {
			return
		}
		offset = box.Next
	}
}

func mp4Payload(buf []byte, box mp4Box) []byte {
	payload, ok := sliceRange(buf, box.PayloadStart, box.PayloadEnd)
	if !ok {
		return nil
	}
	return payload
}

package probe

const (
	maxEBMLIDLength   = 4
	maxEBMLSizeLength = 8
)

type ebmlElement struct {
	ID           uint64
	PayloadStart int
	PayloadEnd   int
	Unknown      bool
}

// vintLength returns the encoded length signalled by the leading set bit of first,
// or 0 when it exceeds maxLength.
func vintLength(first byte, maxLength int) int {
	for i := 0; i < maxLength; i++ {
		if first&(0x80>>uint(i)) != 0 {
			return i + 1
		}
	}
	return 0
}

func readVintID(buf []byte, pos, end int) (uint64, int, bool) {
	head, ok := sliceRange(buf, pos, pos+1)
	if !ok || pos >= end {
		return 0, 0, false
	}
	length := vintLength(head[0], maxEBMLIDLength)
	if length == 0 || pos+length > end {
		return 0, 0, false
	}
	raw, ok := sliceRange(buf, pos, pos+length)
	if !ok {
		return 0, 0, false
	}
	value, _ := readUnsigned(raw)
	return value, length, true
}

// readVintSize strips the length marker from the size. The returned flag reports the
// reserved all-ones value meaning the size is unknown.
func readVintSize(buf []byte, pos, end int) (size uint64, length int, unknown bool, ok bool) {
	head, ok := sliceRange(buf, pos, pos+1)
	if !ok || pos >= end {
		return 0, 0, false, false
	}
	length = vintLength(head[0], maxEBMLSizeLength)
	if length == 0 || pos+length > end {
		return 0, 0, false, false
	}
	raw, ok := sliceRange(buf, pos, pos+length)
	if !ok {
		return 0, 0, false, false
	}
	size = uint64(raw[0] & (0xFF >> uint(length)))
	for _, b := range raw[1:] {
		size = (size << 8) | uint64(b)
	}
	return size, length, size == (uint64(1)<<uint(7*length))-1, true
}

// nextEBMLElement reads the element header at offset. Payloads that declare more
// bytes than remain before end are clamped to end, as is an unknown size.
func nextEBMLElement(buf []byte, offset, end int) (ebmlElement, bool) {
	if end > len(buf) {
		end = len(buf)
	}
	id, idLen, ok := readVintID(buf, offset, end)
	if !ok {
		return ebmlElement{}, false
	}
	size, sizeLen, unknown, ok := readVintSize(buf, offset+idLen, end)
	if !ok {
		return ebmlElement{}, false
	}
	payloadStart := offset + idLen + sizeLen
	if payloadStart > end {
		return ebmlElement{}, false
	}
	payloadEnd := end
	if !unknown && size < uint64(end-payloadStart) {
		payloadEnd = payloadStart + int(size)
	}
	return ebmlElement{
		ID:           id,
		PayloadStart: payloadStart,
		PayloadEnd:   payloadEnd,
		Unknown:      unknown,
	}, true
}

// walkEBML visits the child elements in [start, end). An unknown-size child ends the
// walk because no sibling boundary can follow it.
func walkEBML(buf []byte, start, end int, visit func(elem ebmlElement)) {
	offset := start
	for offset < end {
		elem, ok := nextEBMLElement(buf, offset, end)
		if !ok {
			return
		}
		visit(elem)
		if elem.Unknown || elem.PayloadEnd <= offset {
			return
		}
		offset = elem.PayloadEnd
	}
}

func ebmlPayload(buf []byte, elem ebmlElement) []byte {
	payload, ok := sliceRange(buf, elem.PayloadStart, elem.PayloadEnd)
	if !ok {
		return nil
	}
	return payload
}

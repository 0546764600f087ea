package probe

// decodeMP4Language unpacks the ISO-639-2/T code stored as three 5-bit letters offset
// by 0x60. Codes that do not decode to lowercase ASCII letters are rejected.
func decodeMP4Language(packed uint16) (string, bool) {
	if packed == 0 {
		return "", false
	}
	code := []byte{
		byte((packed>>10)&0x1F) + 0x60,
		byte((packed>>5)&0x1F) + 0x60,
		byte(packed&0x1F) + 0x60,
	}
	for _, c := range code {
		if c < 'a' || c > 'z' {
			return "", false
		}
	}
	return string(code), true
}

package analyze

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/spf13/afero"
)

func writeMP4Box(boxType string, children ...[]byte) []byte {
	payload := bytes.Join(children, nil)
	out := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(payload)))
	copy(out[4:8], boxType)
	return append(out, payload...)
}

func sampleFtyp() []byte {
	return writeMP4Box("ftyp", []byte("isom\x00\x00\x02\x00isomiso2"))
}

func sampleMoov() []byte {
	mvhd := make([]byte, 100)
	binary.BigEndian.PutUint32(mvhd[12:16], 1000)
	binary.BigEndian.PutUint32(mvhd[16:20], 5000)

	mdhd := make([]byte, 24)
	binary.BigEndian.PutUint32(mdhd[12:16], 48000)
	binary.BigEndian.PutUint32(mdhd[16:20], 240000)

	hdlr := make([]byte, 24)
	copy(hdlr[8:12], "soun")

	entry := make([]byte, 36)
	binary.BigEndian.PutUint32(entry[0:4], 36)
	copy(entry[4:8], "mp4a")
	binary.BigEndian.PutUint16(entry[24:26], 2)
	binary.BigEndian.PutUint32(entry[32:36], 48000<<16)
	stsdHeader := make([]byte, 8)
	binary.BigEndian.PutUint32(stsdHeader[4:8], 1)

	stbl := writeMP4Box("stbl", writeMP4Box("stsd", stsdHeader, entry))
	mdia := writeMP4Box("mdia", writeMP4Box("mdhd", mdhd), writeMP4Box("hdlr", hdlr), writeMP4Box("minf", stbl))
	return writeMP4Box("moov", writeMP4Box("mvhd", mvhd), writeMP4Box("trak", mdia))
}

func sampleMP4() []byte {
	return append(sampleFtyp(), sampleMoov()...)
}

// sampleMP4WithTrailingMoov places a large mdat between ftyp and moov.
func sampleMP4WithTrailingMoov(mdatPayload int) []byte {
	buf := append(sampleFtyp(), writeMP4Box("mdat", make([]byte, mdatPayload))...)
	return append(buf, sampleMoov()...)
}

func writeEBML(id []byte, children ...[]byte) []byte {
	payload := bytes.Join(children, nil)
	out := append([]byte(nil), id...)
	out = append(out, 0x80|byte(len(payload)))
	return append(out, payload...)
}

func sampleWebM() []byte {
	header := writeEBML([]byte{0x1A, 0x45, 0xDF, 0xA3}, writeEBML([]byte{0x42, 0x82}, []byte("webm")))
	entry := writeEBML([]byte{0xAE},
		writeEBML([]byte{0x83}, []byte{0x01}),
		writeEBML([]byte{0x86}, []byte("V_VP9")),
	)
	tracks := writeEBML([]byte{0x16, 0x54, 0xAE, 0x6B}, entry)
	segment := writeEBML([]byte{0x18, 0x53, 0x80, 0x67}, tracks)
	return append(header, segment...)
}

func newMemFs(t *testing.T, files map[string][]byte) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, data := range files {
		if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fs
}

package section

import (
	"encoding/binary"

	"github.com/shiloren/gics/errs"
)

// SegmentRecord is one on-disk segment: declared uncompressed length,
// declared compressed length, the compressed/encrypted bytes themselves,
// and a trailing CRC32 over the declared lengths and those bytes together.
// CRC verification itself lives in package integrity; this type only
// knows the byte layout.
type SegmentRecord struct {
	UncompressedLen uint32
	CompressedLen   uint32
	Data            []byte
	CRC32           uint32
}

// CRCInput returns the bytes r.CRC32 authenticates: the two declared
// length fields followed by Data. Covering the lengths too means a bit
// flip in either one is caught by CRC verification instead of silently
// changing how Data gets interpreted downstream.
func (r SegmentRecord) CRCInput() []byte {
	buf := make([]byte, 8, 8+len(r.Data))
	binary.LittleEndian.PutUint32(buf[0:4], r.UncompressedLen)
	binary.LittleEndian.PutUint32(buf[4:8], r.CompressedLen)

	return append(buf, r.Data...)
}

// Bytes serializes r into its on-disk form.
func (r SegmentRecord) Bytes() []byte {
	out := make([]byte, 0, 8+len(r.Data)+4)

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], r.UncompressedLen)
	out = append(out, lenBuf[:]...)
	binary.LittleEndian.PutUint32(lenBuf[:], r.CompressedLen)
	out = append(out, lenBuf[:]...)

	out = append(out, r.Data...)

	binary.LittleEndian.PutUint32(lenBuf[:], r.CRC32)
	out = append(out, lenBuf[:]...)

	return out
}

// ParseSegmentRecord reads one SegmentRecord from the front of data,
// returning it and the number of bytes consumed. It does not validate the
// CRC32; callers verify with package integrity before trusting Data.
func ParseSegmentRecord(data []byte) (SegmentRecord, int, error) {
	if len(data) < 8 {
		return SegmentRecord{}, 0, errs.ErrSegmentTruncated
	}

	r := SegmentRecord{
		UncompressedLen: binary.LittleEndian.Uint32(data[0:4]),
		CompressedLen:   binary.LittleEndian.Uint32(data[4:8]),
	}

	need := 8 + int(r.CompressedLen) + 4
	if len(data) < need {
		return SegmentRecord{}, 0, errs.ErrSegmentTruncated
	}

	r.Data = data[8 : 8+int(r.CompressedLen)]
	r.CRC32 = binary.LittleEndian.Uint32(data[8+int(r.CompressedLen) : need])

	return r, need, nil
}

// EOS is the trailing record: the 0xFF marker, segment count, and the
// final hash-chain root.
type EOS struct {
	SegmentCount uint32
	Root         [32]byte
}

// Bytes serializes e into its on-disk form, including the leading marker
// byte.
func (e EOS) Bytes() []byte {
	out := make([]byte, 0, 1+4+32)
	out = append(out, EOSMarker)

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], e.SegmentCount)
	out = append(out, countBuf[:]...)
	out = append(out, e.Root[:]...)

	return out
}

// ParseEOS reads an EOS record from the front of data. The caller must
// already have checked and consumed the marker byte; ParseEOS expects
// data to start at the byte immediately after 0xFF.
func ParseEOS(data []byte) (EOS, int, error) {
	if len(data) < 4+32 {
		return EOS{}, 0, errs.ErrMissingEOS
	}

	var e EOS
	e.SegmentCount = binary.LittleEndian.Uint32(data[0:4])
	copy(e.Root[:], data[4:36])

	return e, 36, nil
}

// Package section implements the GICS container framing: the file header,
// the 11-byte block header, segment record framing, and the EOS trailer.
// It knows nothing about codecs or crypto; it only reads and writes the
// byte layout described by the file format.
package section

import (
	"encoding/binary"

	"github.com/shiloren/gics/errs"
)

// Magic is the four-byte file signature, 'G','I','C','S'.
var Magic = [4]byte{'G', 'I', 'C', 'S'}

// Version values. 2 is used whenever neither auth-verify nor a schema blob
// is present; 3 is used when either header extension is written.
const (
	Version2 = 2
	Version3 = 3
)

// Header flag bits, packed into the u32 at file offset 5.
const (
	FlagFieldwiseTS    uint32 = 1 << 0
	FlagContextEnabled uint32 = 1 << 1
	FlagSchemaPresent  uint32 = 1 << 2
	FlagEncrypted      uint32 = 1 << 3
)

// EOSMarker is the single byte introducing the trailing EOS record.
const EOSMarker = 0xFF

// Header is the fixed+variable-length prologue of a GICS file.
type Header struct {
	Version byte
	Flags   uint32

	// ContextID is present iff Flags&FlagContextEnabled != 0.
	ContextID string

	// FileSalt and AuthVerify are present iff Flags&FlagEncrypted != 0.
	FileSalt   [16]byte
	AuthVerify [32]byte

	// Schema is opaque to this package: round-tripped verbatim, never
	// interpreted here.
	Schema []byte
}

// Bytes serializes h into its on-disk form.
func (h *Header) Bytes() []byte {
	out := make([]byte, 0, 64)
	out = append(out, Magic[:]...)
	out = append(out, h.Version)

	var flagBuf [4]byte
	binary.LittleEndian.PutUint32(flagBuf[:], h.Flags)
	out = append(out, flagBuf[:]...)

	if h.Flags&FlagContextEnabled != 0 {
		out = appendLengthPrefixedString(out, h.ContextID)
	}
	if h.Flags&FlagEncrypted != 0 {
		out = append(out, h.FileSalt[:]...)
		out = append(out, h.AuthVerify[:]...)
	}
	if h.Flags&FlagSchemaPresent != 0 {
		out = appendLengthPrefixedBytes(out, h.Schema)
	}

	return out
}

// ParseHeader reads a Header from the front of data, returning it and the
// number of bytes consumed.
func ParseHeader(data []byte) (*Header, int, error) {
	if len(data) < 9 {
		return nil, 0, errs.ErrTruncatedBlockHeader
	}
	if [4]byte(data[0:4]) != Magic {
		return nil, 0, errs.ErrMagicMismatch
	}

	h := &Header{Version: data[4]}
	if h.Version > Version3 {
		return nil, 0, errs.ErrFutureVersion
	}

	h.Flags = binary.LittleEndian.Uint32(data[5:9])
	pos := 9

	if h.Flags&FlagContextEnabled != 0 {
		s, n, err := readLengthPrefixedString(data[pos:])
		if err != nil {
			return nil, 0, err
		}
		h.ContextID = s
		pos += n
	}

	if h.Flags&FlagEncrypted != 0 {
		if len(data[pos:]) < 48 {
			return nil, 0, errs.ErrTruncatedBlockHeader
		}
		copy(h.FileSalt[:], data[pos:pos+16])
		pos += 16
		copy(h.AuthVerify[:], data[pos:pos+32])
		pos += 32
	}

	if h.Flags&FlagSchemaPresent != 0 {
		b, n, err := readLengthPrefixedBytes(data[pos:])
		if err != nil {
			return nil, 0, err
		}
		h.Schema = b
		pos += n
	}

	return h, pos, nil
}

func appendLengthPrefixedString(dst []byte, s string) []byte {
	return appendLengthPrefixedBytes(dst, []byte(s))
}

func appendLengthPrefixedBytes(dst []byte, b []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, b...)
}

func readLengthPrefixedString(src []byte) (string, int, error) {
	b, n, err := readLengthPrefixedBytes(src)
	return string(b), n, err
}

func readLengthPrefixedBytes(src []byte) ([]byte, int, error) {
	if len(src) < 4 {
		return nil, 0, errs.ErrTruncatedBlockHeader
	}
	n := binary.LittleEndian.Uint32(src[0:4])
	if len(src) < 4+int(n) {
		return nil, 0, errs.ErrTruncatedBlockHeader
	}

	b := make([]byte, n)
	copy(b, src[4:4+n])

	return b, 4 + int(n), nil
}

// Package integrity implements the layered verification stack applied to
// each segment: CRC32 (IEEE) over the segment's declared lengths and its
// post-compression, post-encryption bytes together, and a running
// SHA-256 hash chain across segments whose final root is stored in the
// EOS record. It also derives the HMAC-SHA256 auth-verify token used to
// fail fast on a wrong password before any ciphertext is touched.
package integrity

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash/crc32"

	"github.com/shiloren/gics/errs"
)

// CRC32 computes the IEEE-polynomial CRC32 of data, matching the format's
// 0xEDB88320 polynomial (Go's crc32.IEEETable uses the same polynomial in
// reflected form).
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// VerifyCRC32 reports whether data's CRC32 matches want.
func VerifyCRC32(data []byte, want uint32) bool {
	return CRC32(data) == want
}

// Chain accumulates the hash-chain root across segments: root_0 is 32
// zero bytes, root_k = SHA-256(root_{k-1} || segment_k_bytes).
type Chain struct {
	root [32]byte
}

// NewChain starts a chain at the all-zero root.
func NewChain() *Chain {
	return &Chain{}
}

// Update folds segmentBytes into the chain and returns the new root.
func (c *Chain) Update(segmentBytes []byte) [32]byte {
	h := sha256.New()
	h.Write(c.root[:])
	h.Write(segmentBytes)

	var next [32]byte
	copy(next[:], h.Sum(nil))
	c.root = next

	return c.root
}

// Root returns the current accumulated root.
func (c *Chain) Root() [32]byte {
	return c.root
}

// VerifyChainRoot recomputes the chain over segments in order and compares
// the result to want.
func VerifyChainRoot(segments [][]byte, want [32]byte) bool {
	c := NewChain()
	for _, s := range segments {
		c.Update(s)
	}

	return c.Root() == want
}

// AuthVerifyFixedSalt is the fixed salt HMAC'd with the derived password
// key to produce the header's authVerify token. It is not secret — its
// only purpose is giving the decoder a cheap hash to compare before
// attempting any AES-GCM decryption.
var AuthVerifyFixedSalt = []byte("gics-auth-verify-v1")

// AuthVerify computes HMAC-SHA256(passwordKey, fixedSalt).
func AuthVerify(passwordKey []byte) [32]byte {
	mac := hmac.New(sha256.New, passwordKey)
	mac.Write(AuthVerifyFixedSalt)

	var out [32]byte
	copy(out[:], mac.Sum(nil))

	return out
}

// VerifyAuth reports whether passwordKey produces the stored authVerify
// token, using a constant-time comparison so password checking doesn't
// leak timing information.
func VerifyAuth(passwordKey []byte, stored [32]byte) bool {
	computed := AuthVerify(passwordKey)
	return hmac.Equal(computed[:], stored[:])
}

// CheckCRC32 returns errs.ErrCRCMismatch when data's CRC32 doesn't match
// want.
func CheckCRC32(data []byte, want uint32) error {
	if !VerifyCRC32(data, want) {
		return errs.ErrCRCMismatch
	}

	return nil
}

// CheckChainRoot returns errs.ErrChainMismatch when the recomputed chain
// root doesn't match want.
func CheckChainRoot(segments [][]byte, want [32]byte) error {
	if !VerifyChainRoot(segments, want) {
		return errs.ErrChainMismatch
	}

	return nil
}

// CheckAuth returns errs.ErrWrongPassword when passwordKey doesn't
// reproduce stored.
func CheckAuth(passwordKey []byte, stored [32]byte) error {
	if !VerifyAuth(passwordKey, stored) {
		return errs.ErrWrongPassword
	}

	return nil
}

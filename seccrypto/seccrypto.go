// Package seccrypto implements the optional AES-256-GCM section
// encryption layer: PBKDF2-SHA256 key derivation from a password and
// per-file salt, domain-separated per-segment IV derivation, and
// authenticated seal/open over one segment's bytes.
package seccrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"

	"github.com/shiloren/gics/errs"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeyLen is the AES-256 key size in bytes.
	KeyLen = 32
	// PBKDF2Iterations matches the format's specified iteration count.
	PBKDF2Iterations = 100000
	// IVLen is the AES-GCM nonce size.
	IVLen = 12
)

// DeriveKey computes PBKDF2-SHA256(password, fileSalt, 100000, 32).
func DeriveKey(password string, fileSalt []byte) []byte {
	return pbkdf2.Key([]byte(password), fileSalt, PBKDF2Iterations, KeyLen, sha256.New)
}

// DeriveIV computes SHA-256(fileSalt || u32_LE(streamDomainID) ||
// u64_LE(segmentIndex))[:12]. streamDomainID separates the key stream
// space between conceptually distinct uses of the cipher within one file
// (here, GICS has a single section-encryption domain per segment, since a
// segment mixes blocks from multiple columnar streams); segmentIndex
// guarantees every segment gets a distinct IV without storing one.
func DeriveIV(fileSalt []byte, streamDomainID uint32, segmentIndex uint64) [IVLen]byte {
	h := sha256.New()
	h.Write(fileSalt)

	var domainBuf [4]byte
	binary.LittleEndian.PutUint32(domainBuf[:], streamDomainID)
	h.Write(domainBuf[:])

	var idxBuf [8]byte
	binary.LittleEndian.PutUint64(idxBuf[:], segmentIndex)
	h.Write(idxBuf[:])

	sum := h.Sum(nil)

	var iv [IVLen]byte
	copy(iv[:], sum[:IVLen])

	return iv
}

// SegmentAAD builds the GCM additional authenticated data for one
// segment: its index and declared uncompressed length, binding the
// ciphertext to its position and size without authenticating the full
// segment header.
func SegmentAAD(segmentIndex uint64, uncompressedLen int) []byte {
	aad := make([]byte, 12)
	binary.LittleEndian.PutUint64(aad[0:8], segmentIndex)
	binary.LittleEndian.PutUint32(aad[8:12], uint32(uncompressedLen))

	return aad
}

// SegmentDomainID is the streamDomainID used for every segment: GICS
// encrypts whole segments, not individual columnar streams, so there is
// exactly one domain rather than one per stream_id.
const SegmentDomainID uint32 = 1

// newGCM builds an AES-256-GCM cipher.AEAD from key.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

// Seal encrypts and authenticates plaintext under key, using the IV
// derived from fileSalt/segmentIndex and aad as additional authenticated
// data, serialized by the caller (the encoder and decoder pass
// SegmentAAD: segment index and uncompressed length; no stream id is
// included). The returned ciphertext includes the GCM authentication tag.
func Seal(key []byte, fileSalt []byte, segmentIndex uint64, aad, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, errs.Wrap(errs.KindGics, "aes-gcm setup failed", err)
	}

	iv := DeriveIV(fileSalt, SegmentDomainID, segmentIndex)

	return gcm.Seal(nil, iv[:], plaintext, aad), nil
}

// Open decrypts and authenticates ciphertext produced by Seal. Any
// authentication failure is reported as errs.ErrAuthFailed.
func Open(key []byte, fileSalt []byte, segmentIndex uint64, aad, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, errs.Wrap(errs.KindGics, "aes-gcm setup failed", err)
	}

	iv := DeriveIV(fileSalt, SegmentDomainID, segmentIndex)

	plaintext, err := gcm.Open(nil, iv[:], ciphertext, aad)
	if err != nil {
		return nil, errs.Wrap(errs.KindIntegrity, "gcm open failed", err)
	}

	return plaintext, nil
}

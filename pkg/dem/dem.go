// Package dem implements Umbral's DEM: ChaCha20-Poly1305 keyed by an
// HKDF-BLAKE2b derivation of the KEM's decapsulated seed (spec.md §4.6).
//
// Grounded on _examples/original_source/src/dem.rs. That source has two
// ciphertext layouts in flight -- encrypt_in_place appends the nonce
// after the ciphertext+tag, while the allocating Ciphertext struct keeps
// the nonce in a separate field entirely. Per spec.md §9's resolution
// (see SPEC_FULL.md §1-9 and DESIGN.md), this package unifies on a single
// nonce-suffix wire layout, `ciphertext || tag || nonce`, for both paths.
package dem

import (
	"crypto/rand"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the length in bytes of the derived ChaCha20-Poly1305 key.
const KeySize = chacha20poly1305.KeySize

// NonceSize is the length in bytes of the AEAD nonce appended to every
// ciphertext produced by this package.
const NonceSize = chacha20poly1305.NonceSize

// Overhead is the number of bytes the AEAD tag adds beyond the plaintext.
const Overhead = chacha20poly1305.Overhead

// DEM is a ChaCha20-Poly1305 instance keyed from a KEM-derived seed.
type DEM struct {
	aead cipherAEAD
}

type cipherAEAD interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// New derives a key from keySeed via HKDF-BLAKE2b and constructs a DEM
// instance bound to it.
func New(keySeed []byte) (*DEM, error) {
	key, err := kdf(keySeed, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("dem: deriving key: %w", err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("dem: constructing aead: %w", err)
	}
	return &DEM{aead: aead}, nil
}

// kdf derives KeySize bytes from seed using HKDF-BLAKE2b, matching
// dem.rs's internal kdf (Blake2b rather than random_oracles.rs's
// HKDF-SHA256, since the DEM key and the "external" KDF serve different
// domains in the Rust source).
func kdf(seed, salt, info []byte) ([]byte, error) {
	newHash := func() hash.Hash {
		h, err := blake2b.New512(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
	reader := hkdf.New(newHash, seed, salt, info)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("dem: hkdf expand: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext under authenticatedData, returning
// ciphertext || tag || nonce.
func (d *DEM) Encrypt(plaintext, authenticatedData []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("dem: generating nonce: %w", err)
	}
	sealed := d.aead.Seal(nil, nonce, plaintext, authenticatedData)
	return append(sealed, nonce...), nil
}

// Decrypt opens a ciphertext produced by Encrypt (ciphertext || tag ||
// nonce), verifying authenticatedData.
func (d *DEM) Decrypt(ciphertext, authenticatedData []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize+Overhead {
		return nil, fmt.Errorf("dem: ciphertext too short")
	}
	split := len(ciphertext) - NonceSize
	body, nonce := ciphertext[:split], ciphertext[split:]
	plaintext, err := d.aead.Open(nil, nonce, body, authenticatedData)
	if err != nil {
		return nil, fmt.Errorf("dem: authentication failed: %w", err)
	}
	return plaintext, nil
}

// EncryptInPlace is the in-place counterpart to Encrypt (spec.md §4.6):
// it seals *buffer in place, growing it by Overhead+NonceSize bytes via
// append, instead of allocating a fresh return slice. Grounded on
// dem.rs's encrypt_in_place, adapted to Go's append-based buffer growth
// in place of the Rust aead::Buffer trait.
func (d *DEM) EncryptInPlace(buffer *[]byte, authenticatedData []byte) error {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("dem: generating nonce: %w", err)
	}
	sealed := d.aead.Seal((*buffer)[:0], nonce, *buffer, authenticatedData)
	*buffer = append(sealed, nonce...)
	return nil
}

// DecryptInPlace is the in-place counterpart to Decrypt: it opens
// *buffer (ciphertext || tag || nonce) in place, truncating it down to
// the recovered plaintext. Grounded on dem.rs's decrypt_in_place.
func (d *DEM) DecryptInPlace(buffer *[]byte, authenticatedData []byte) error {
	if len(*buffer) < NonceSize+Overhead {
		return fmt.Errorf("dem: ciphertext too short")
	}
	split := len(*buffer) - NonceSize
	nonce := append([]byte(nil), (*buffer)[split:]...)
	body := (*buffer)[:split]
	plaintext, err := d.aead.Open(body[:0], nonce, body, authenticatedData)
	if err != nil {
		return fmt.Errorf("dem: authentication failed: %w", err)
	}
	*buffer = plaintext
	return nil
}

// Package ecdsa implements the SHA3-256-prehashed ECDSA signatures Umbral
// uses for KFrag authenticity (signature_for_proxy, signature_for_bob;
// spec.md §4.3) and for the CFrag's signature_for_bob (spec.md §4.4).
//
// Grounded on _examples/original_source/src/keys.rs's
// UmbralPrivateKey::sign / UmbralPublicKey::verify, re-expressed against
// decred's secp256k1 ECDSA primitive instead of RustCrypto's. The wire
// format departs from Rust's DER-encoded Signature: spec.md §6 requires
// every wire type to be fixed-width, so Signature here is the raw 64-byte
// r||s encoding, not DER.
package ecdsa

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dsaecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/luxfi/umbral/pkg/math/curve"
)

// SignatureSize is the length in bytes of a canonically encoded Signature
// (32-byte r, 32-byte s).
const SignatureSize = 2 * curve.ScalarSize

// Signature is a fixed-width ECDSA signature over secp256k1.
type Signature struct {
	R, S [curve.ScalarSize]byte
}

// Sign produces a deterministic ECDSA signature (RFC6979 nonce, via
// decred's implementation) over SHA3-256(message), using sk as the
// secp256k1 private key.
func Sign(sk curve.Scalar, message []byte) (Signature, error) {
	skBytes, err := sk.MarshalBinary()
	if err != nil {
		return Signature{}, fmt.Errorf("ecdsa: encoding private key: %w", err)
	}
	priv := secp256k1.PrivKeyFromBytes(skBytes)
	defer priv.Zero()

	digest := sha3.Sum256(message)
	sig := dsaecdsa.Sign(priv, digest[:])

	var out Signature
	r := sig.R()
	s := sig.S()
	rBytes := r.Bytes()
	sBytes := s.Bytes()
	copy(out.R[:], rBytes[:])
	copy(out.S[:], sBytes[:])
	return out, nil
}

// Verify reports whether sig is a valid signature over SHA3-256(message)
// under pk.
func Verify(pk curve.Point, message []byte, sig Signature) (bool, error) {
	pkBytes, err := pk.MarshalBinary()
	if err != nil {
		return false, fmt.Errorf("ecdsa: encoding public key: %w", err)
	}
	pub, err := secp256k1.ParsePubKey(pkBytes)
	if err != nil {
		return false, fmt.Errorf("ecdsa: invalid public key: %w", err)
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig.R[:]); overflow {
		return false, nil
	}
	if overflow := s.SetByteSlice(sig.S[:]); overflow {
		return false, nil
	}

	digest := sha3.Sum256(message)
	return dsaecdsa.NewSignature(&r, &s).Verify(digest[:], pub), nil
}

// MarshalBinary encodes the signature as 64 bytes, r then s.
func (s Signature) MarshalBinary() ([]byte, error) {
	out := make([]byte, SignatureSize)
	copy(out[:curve.ScalarSize], s.R[:])
	copy(out[curve.ScalarSize:], s.S[:])
	return out, nil
}

// UnmarshalBinary decodes a 64-byte r||s signature.
func (s *Signature) UnmarshalBinary(data []byte) error {
	if len(data) != SignatureSize {
		return fmt.Errorf("ecdsa: signature must be %d bytes, got %d", SignatureSize, len(data))
	}
	copy(s.R[:], data[:curve.ScalarSize])
	copy(s.S[:], data[curve.ScalarSize:])
	return nil
}

package umbral

import (
	"fmt"

	"github.com/luxfi/umbral/pkg/ecdsa"
	"github.com/luxfi/umbral/pkg/math/curve"
)

// SecretKey is a nonzero scalar, generated from a cryptographic RNG and
// never serialized to disk by this package (spec.md §3).
type SecretKey struct {
	scalar curve.Scalar
}

// GenerateSecretKey samples a fresh SecretKey.
func GenerateSecretKey(group curve.Curve) *SecretKey {
	return &SecretKey{scalar: curve.MustRandomScalar(group)}
}

// PublicKey returns the corresponding public key, sk*g.
func (sk *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{point: sk.scalar.ActOnBase()}
}

// Scalar exposes the underlying scalar for callers building the
// capsule/KFrag/CFrag algebra directly.
func (sk *SecretKey) Scalar() curve.Scalar { return sk.scalar }

// Sign produces an ECDSA signature over SHA3-256(message).
func (sk *SecretKey) Sign(message []byte) (ecdsa.Signature, error) {
	return ecdsa.Sign(sk.scalar, message)
}

// MarshalBinary encodes the secret key as 32 big-endian bytes. The core
// never calls this itself (spec.md §3 says SecretKey is never serialized
// by the engine); it exists for callers that manage their own storage.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	return sk.scalar.MarshalBinary()
}

// UnmarshalSecretKey decodes a 32-byte big-endian scalar.
func UnmarshalSecretKey(group curve.Curve, data []byte) (*SecretKey, error) {
	s := group.NewScalar()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: secret key: %v", ErrInvalidEncoding, err)
	}
	if s.IsZero() {
		return nil, fmt.Errorf("%w: secret key must be nonzero", ErrInvalidEncoding)
	}
	return &SecretKey{scalar: s}, nil
}

// PublicKey is a curve point pk = sk*g.
type PublicKey struct {
	point curve.Point
}

// Point exposes the underlying point.
func (pk *PublicKey) Point() curve.Point { return pk.point }

// Verify checks an ECDSA signature over SHA3-256(message).
func (pk *PublicKey) Verify(message []byte, sig ecdsa.Signature) (bool, error) {
	return ecdsa.Verify(pk.point, message, sig)
}

// Equal reports whether two public keys are the same curve point.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return pk.point.Equal(other.point)
}

// MarshalBinary encodes the public key in 33-byte compressed form.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return pk.point.MarshalBinary()
}

// UnmarshalPublicKey decodes a 33-byte compressed point.
func UnmarshalPublicKey(group curve.Curve, data []byte) (*PublicKey, error) {
	p := group.NewPoint()
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: public key: %v", ErrInvalidEncoding, err)
	}
	return &PublicKey{point: p}, nil
}

// NewPublicKey wraps an already-validated point.
func NewPublicKey(point curve.Point) *PublicKey {
	return &PublicKey{point: point}
}

// Package umbral implements the Umbral threshold proxy re-encryption
// engine: the capsule KEM, KFrag/CFrag generation and verification, and
// Lagrange-based reconstruction, with a ChaCha20-Poly1305 DEM keyed off
// the KEM output.
//
// Grounded on _examples/original_source/src/{capsule,capsule_frag,pre}.rs
// for the algebra, and on the package layout of
// _examples/luxfi-threshold/protocols/lss for how a Go threshold-crypto
// package in this corpus is put together (flat value types, explicit
// Curve/Scalar/Point plumbing, no ambient global state).
package umbral

import (
	"fmt"

	"github.com/luxfi/umbral/pkg/math/curve"
	"github.com/luxfi/umbral/pkg/oracle"
)

// Capsule is the KEM half of Umbral: a Schnorr-style self-consistency
// proof over two ephemeral points (spec.md §3).
type Capsule struct {
	E curve.Point
	V curve.Point
	S curve.Scalar
}

// CapsuleSize is the length in bytes of a canonically encoded Capsule:
// E(33) || V(33) || s(32).
const CapsuleSize = 2*curve.PointSize + curve.ScalarSize

// Encapsulate samples a fresh capsule for pkAlice and returns it along
// with the KEM's shared-secret point, encoded as a DEM key seed
// (spec.md §4.2).
func Encapsulate(params *Parameters, pkAlice *PublicKey) (*Capsule, []byte, error) {
	group := params.Group

	r := curve.MustRandomScalar(group)
	uPriv := curve.MustRandomScalar(group)

	e := r.ActOnBase()
	v := uPriv.ActOnBase()

	h, err := oracle.HashToScalar(group, []curve.Point{e, v}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("umbral: encapsulate: %w", err)
	}

	s := r.Clone().Mul(h).Add(uPriv)

	capsule := &Capsule{E: e, V: v, S: s}

	rPlusU := r.Clone().Add(uPriv)
	sharedSecret := rPlusU.Act(pkAlice.point)
	seed, err := sharedSecret.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("umbral: encoding shared secret: %w", err)
	}
	return capsule, seed, nil
}

// DecapsulateOriginal recovers the DEM key seed using Alice's own secret
// key: seed = (E+V)*sk_alice, relying on (r+u_s)*pk == sk*(E+V).
func (c *Capsule) DecapsulateOriginal(skAlice *SecretKey) ([]byte, error) {
	sum := c.E.Add(c.V)
	sharedSecret := skAlice.scalar.Act(sum)
	seed, err := sharedSecret.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding shared secret: %w", err)
	}
	return seed, nil
}

// Verify recomputes h = hash_to_scalar(E, V) and checks s*g == V + h*E.
// A non-nil error wrapping ErrInvalidCapsule indicates tampering with any
// of E, V, or s.
func (c *Capsule) Verify(group curve.Curve) error {
	h, err := oracle.HashToScalar(group, []curve.Point{c.E, c.V}, nil)
	if err != nil {
		return fmt.Errorf("umbral: verifying capsule: %w", err)
	}
	lhs := c.S.ActOnBase()
	rhs := h.Act(c.E).Add(c.V)
	if !lhs.Equal(rhs) {
		return verificationError(ErrInvalidCapsule, "self-consistency check s*g == V + h*E failed")
	}
	return nil
}

// MarshalBinary encodes the capsule as E(33) || V(33) || s(32).
func (c *Capsule) MarshalBinary() ([]byte, error) {
	eBytes, err := c.E.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding capsule.E: %w", err)
	}
	vBytes, err := c.V.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding capsule.V: %w", err)
	}
	sBytes, err := c.S.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding capsule.S: %w", err)
	}
	out := make([]byte, 0, CapsuleSize)
	out = append(out, eBytes...)
	out = append(out, vBytes...)
	out = append(out, sBytes...)
	return out, nil
}

// UnmarshalCapsule decodes a 98-byte canonical capsule encoding.
func UnmarshalCapsule(group curve.Curve, data []byte) (*Capsule, error) {
	if len(data) != CapsuleSize {
		return nil, fmt.Errorf("%w: capsule must be %d bytes, got %d", ErrInvalidEncoding, CapsuleSize, len(data))
	}
	e := group.NewPoint()
	if err := e.UnmarshalBinary(data[:curve.PointSize]); err != nil {
		return nil, fmt.Errorf("%w: capsule.E: %v", ErrInvalidEncoding, err)
	}
	v := group.NewPoint()
	if err := v.UnmarshalBinary(data[curve.PointSize : 2*curve.PointSize]); err != nil {
		return nil, fmt.Errorf("%w: capsule.V: %v", ErrInvalidEncoding, err)
	}
	s := group.NewScalar()
	if err := s.UnmarshalBinary(data[2*curve.PointSize:]); err != nil {
		return nil, fmt.Errorf("%w: capsule.s: %v", ErrInvalidEncoding, err)
	}
	return &Capsule{E: e, V: v, S: s}, nil
}

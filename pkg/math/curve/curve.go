// Package curve wraps the secp256k1 field and group arithmetic behind the
// small capability set the rest of this module needs: scalar and point
// values that know how to add, multiply, encode, and decode themselves.
//
// This is the "curve primitives" boundary: concrete arithmetic lives in
// github.com/decred/dcrd/dcrec/secp256k1/v4. Outside this package, only
// pkg/ecdsa uses that library directly, for its ECDSA primitive.
package curve

import "github.com/cronokirby/saferith"

// Curve is the group a Scalar/Point pair belongs to. There is a single
// concrete implementation, Secp256k1, but call sites are written against
// this interface so the algebra never has to know that.
type Curve interface {
	// NewScalar returns the additive identity (0).
	NewScalar() Scalar
	// NewPoint returns the group identity (point at infinity).
	NewPoint() Point
	// Generator returns the curve's base point g.
	Generator() Point
	// Order returns the group order q as a saferith Modulus, suitable for
	// reducing arbitrary-width integers (e.g. hash output) into [0, q).
	Order() *saferith.Modulus
	// Name identifies the curve, e.g. "secp256k1".
	Name() string
}

// Scalar is an integer modulo the curve order.
type Scalar interface {
	// Add sets the receiver to itself plus other, and returns the receiver.
	Add(other Scalar) Scalar
	// Sub sets the receiver to itself minus other, and returns the receiver.
	Sub(other Scalar) Scalar
	// Mul sets the receiver to itself times other, and returns the receiver.
	Mul(other Scalar) Scalar
	// Negate sets the receiver to its additive inverse, and returns it.
	Negate() Scalar
	// Invert sets the receiver to its multiplicative inverse modulo q. The
	// receiver must be nonzero; inverting zero is a programming error.
	Invert() Scalar
	// Set copies other's value into the receiver and returns it.
	Set(other Scalar) Scalar
	// Clone returns a new Scalar with the same value as the receiver.
	Clone() Scalar
	// Equal reports whether the two scalars represent the same value, in
	// constant time.
	Equal(other Scalar) bool
	// IsZero reports whether the scalar is the additive identity.
	IsZero() bool
	// SetNat sets the receiver from a saferith Nat, reducing modulo q, and
	// returns the receiver.
	SetNat(n *saferith.Nat) Scalar
	// Act performs scalar multiplication: returns other scaled by the
	// receiver.
	Act(other Point) Point
	// ActOnBase returns the receiver times the curve's generator.
	ActOnBase() Point
	// MarshalBinary encodes the scalar as 32 big-endian bytes.
	MarshalBinary() ([]byte, error)
	// UnmarshalBinary decodes 32 big-endian bytes into the receiver.
	UnmarshalBinary(data []byte) error
}

// Point is an element of the curve's group (never the identity once
// serialized -- see IsIdentity).
type Point interface {
	// Add returns the sum of the receiver and other.
	Add(other Point) Point
	// Negate returns the additive inverse of the receiver.
	Negate() Point
	// Equal reports whether the two points are the same group element.
	Equal(other Point) bool
	// IsIdentity reports whether the point is the identity (point at
	// infinity). Identity points cannot be serialized.
	IsIdentity() bool
	// MarshalBinary encodes the point in 33-byte compressed form.
	MarshalBinary() ([]byte, error)
	// UnmarshalBinary decodes a 33-byte compressed point into the receiver,
	// validating that it lies on the curve.
	UnmarshalBinary(data []byte) error
}

const (
	// ScalarSize is the length in bytes of a canonically encoded Scalar.
	ScalarSize = 32
	// PointSize is the length in bytes of a canonically encoded Point
	// (compressed form).
	PointSize = 33
)

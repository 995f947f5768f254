package curve

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// point is the Secp256k1 implementation of Point, backed by decred's
// Jacobian-coordinate group arithmetic.
type point struct {
	value secp256k1.JacobianPoint
}

var _ Point = (*point)(nil)

func (p *point) Add(other Point) Point {
	o := other.(*point)
	result := &point{}
	secp256k1.AddNonConst(&p.value, &o.value, &result.value)
	return result
}

func (p *point) Negate() Point {
	result := &point{}
	result.value.Set(&p.value)
	result.value.Y.Negate(1).Normalize()
	return result
}

func (p *point) Equal(other Point) bool {
	o := other.(*point)
	a, b := p.affine(), o.affine()
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(b)
}

func (p *point) IsIdentity() bool {
	var affine secp256k1.JacobianPoint
	affine.Set(&p.value)
	affine.ToAffine()
	return affine.X.IsZero() && affine.Y.IsZero()
}

// affine returns the point as a decred PublicKey, or nil if the point is
// the identity (which has no affine representation).
func (p *point) affine() *secp256k1.PublicKey {
	if p.IsIdentity() {
		return nil
	}
	var affine secp256k1.JacobianPoint
	affine.Set(&p.value)
	affine.ToAffine()
	return secp256k1.NewPublicKey(&affine.X, &affine.Y)
}

func (p *point) MarshalBinary() ([]byte, error) {
	pub := p.affine()
	if pub == nil {
		return nil, fmt.Errorf("curve: cannot encode the identity point")
	}
	return pub.SerializeCompressed(), nil
}

func (p *point) UnmarshalBinary(data []byte) error {
	if len(data) != PointSize {
		return fmt.Errorf("curve: point must be %d bytes, got %d", PointSize, len(data))
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return fmt.Errorf("curve: invalid compressed point: %w", err)
	}
	pub.AsJacobian(&p.value)
	return nil
}

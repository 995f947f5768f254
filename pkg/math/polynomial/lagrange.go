package polynomial

import (
	"github.com/cronokirby/saferith"

	"github.com/luxfi/umbral/pkg/math/curve"
)

// LagrangeAt computes the Lagrange basis coefficients at x = 0 for a set
// of scalar evaluation points keyed by an arbitrary comparable label. This
// is the variant spec.md §4.5's reconstruction uses, since a CFrag's share
// index is a hash output rather than a participant label.
func LagrangeAt[K comparable](group curve.Curve, xs map[K]curve.Scalar) map[K]curve.Scalar {
	coefficients := make(map[K]curve.Scalar, len(xs))
	for id, xi := range xs {
		numerator := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
		denominator := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
		for otherID, xj := range xs {
			if otherID == id {
				continue
			}
			numerator = numerator.Mul(xj)
			diff := xj.Clone().Sub(xi)
			denominator = denominator.Mul(diff)
		}
		coefficients[id] = numerator.Mul(denominator.Invert())
	}
	return coefficients
}

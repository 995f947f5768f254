// Package polynomial implements the Shamir secret-sharing polynomial and
// its Lagrange reconstruction coefficients over an arbitrary curve.Curve.
//
// Umbral's KFrag generation (spec.md §4.3) shares Alice's "blinded" secret
// d_A = sk_A * d^-1 exactly the way Shamir sharing always does: draw a
// random degree-(t-1) polynomial with that value as its constant term, and
// hand each proxy the evaluation at its own share index. Reconstruction
// (spec.md §4.5) runs the inverse operation, so both live in this package.
package polynomial

import "github.com/luxfi/umbral/pkg/math/curve"

// Polynomial is a secret-sharing polynomial over a curve's scalar field,
// represented by its coefficients from the constant term up.
type Polynomial struct {
	group        curve.Curve
	coefficients []curve.Scalar
}

// NewPolynomial returns a random polynomial of degree threshold-1 whose
// constant term is secret. threshold is the number of coefficients needed
// to reconstruct the secret (t in a t-of-n scheme).
func NewPolynomial(group curve.Curve, threshold int, secret curve.Scalar) *Polynomial {
	if threshold < 1 {
		panic("polynomial: threshold must be at least 1")
	}
	coefficients := make([]curve.Scalar, threshold)
	coefficients[0] = secret.Clone()
	for i := 1; i < threshold; i++ {
		coefficients[i] = curve.MustRandomScalar(group)
	}
	return &Polynomial{group: group, coefficients: coefficients}
}

// Degree returns the polynomial's degree (threshold - 1).
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Constant returns the polynomial's constant term, f(0).
func (p *Polynomial) Constant() curve.Scalar {
	return p.coefficients[0].Clone()
}

// Evaluate computes f(x) using Horner's rule.
func (p *Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	result := p.group.NewScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// Coefficients returns the underlying coefficient slice, constant term
// first. Callers must not mutate the returned scalars.
func (p *Polynomial) Coefficients() []curve.Scalar {
	return p.coefficients
}

package umbral

import (
	"fmt"

	"github.com/luxfi/umbral/pkg/math/curve"
	"github.com/luxfi/umbral/pkg/math/polynomial"
	"github.com/luxfi/umbral/pkg/oracle"
)

// Reconstruct recovers the KEM shared-secret seed from a t-or-more-sized
// set of CFrags that all share the same precursor, per spec.md §4.5.
// Callers MUST deduplicate by KFragID first: duplicate share indices
// produce a zero Lagrange denominator, which is a programming error
// (spec.md §4.5's "duplicate handling" note), not a recoverable failure,
// and panics.
func Reconstruct(params *Parameters, skBob *SecretKey, pkDelegating *PublicKey, capsule *Capsule, cfrags []*CFrag) ([]byte, error) {
	return reconstruct(params, skBob, pkDelegating, capsule, cfrags, -1)
}

// ReconstructWithCapacity is the bounded-allocation variant of
// Reconstruct: it preallocates its working maps to exactly capacity
// entries instead of letting them grow, for callers on a tight memory
// budget that know cfrags will never exceed capacity (spec.md §9's
// "heap vs heapless reconstruction" note -- see SPEC_FULL.md §12 for why a
// plain capacity hint, rather than a const-generic array, is this
// package's answer).
func ReconstructWithCapacity(params *Parameters, skBob *SecretKey, pkDelegating *PublicKey, capsule *Capsule, cfrags []*CFrag, capacity int) ([]byte, error) {
	return reconstruct(params, skBob, pkDelegating, capsule, cfrags, capacity)
}

func reconstruct(params *Parameters, skBob *SecretKey, pkDelegating *PublicKey, capsule *Capsule, cfrags []*CFrag, capacity int) ([]byte, error) {
	if len(cfrags) == 0 {
		panic("umbral: reconstruct requires at least one cfrag")
	}
	group := params.Group

	precursor := cfrags[0].Precursor
	for _, c := range cfrags[1:] {
		if !c.Precursor.Equal(precursor) {
			return nil, verificationError(ErrInvalidCFragSet, "cfrags do not share a precursor")
		}
	}

	mapCap := len(cfrags)
	if capacity >= 0 {
		mapCap = capacity
	}

	pkBob := skBob.PublicKey()
	dh := skBob.scalar.Act(precursor)

	shareIndices := make(map[string]curve.Scalar, mapCap)
	e1s := make(map[string]curve.Point, mapCap)
	v1s := make(map[string]curve.Point, mapCap)
	for _, c := range cfrags {
		shareIndex, err := oracle.HashToScalar(group, []curve.Point{precursor, pkBob.point, dh}, xCoordinateCustomization(c.KFragID))
		if err != nil {
			return nil, fmt.Errorf("umbral: reconstructing: %w", err)
		}
		key := shareIndexKey(c.KFragID)
		if _, exists := shareIndices[key]; exists {
			panic("umbral: reconstruct received duplicate kfrag ids")
		}
		shareIndices[key] = shareIndex
		e1s[key] = c.E1
		v1s[key] = c.V1
	}

	coefficients := polynomial.LagrangeAt(group, shareIndices)

	ePrime := group.NewPoint()
	vPrime := group.NewPoint()
	for key, lambda := range coefficients {
		ePrime = ePrime.Add(lambda.Act(e1s[key]))
		vPrime = vPrime.Add(lambda.Act(v1s[key]))
	}

	d, err := oracle.HashToScalar(group, []curve.Point{precursor, pkBob.point, dh}, []byte(oracle.NonInteractive))
	if err != nil {
		return nil, fmt.Errorf("umbral: reconstructing: %w", err)
	}

	h, err := oracle.HashToScalar(group, []curve.Point{capsule.E, capsule.V}, nil)
	if err != nil {
		return nil, fmt.Errorf("umbral: reconstructing: %w", err)
	}

	lhs := capsule.S.Clone().Mul(d.Clone().Invert()).Act(pkDelegating.point)
	rhs := h.Act(ePrime).Add(vPrime)
	if !lhs.Equal(rhs) {
		return nil, verificationError(ErrInvalidCFragSet, "reconstruction consistency check failed")
	}

	sharedSecret := d.Act(ePrime.Add(vPrime))
	seed, err := sharedSecret.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding reconstructed shared secret: %w", err)
	}
	return seed, nil
}

func shareIndexKey(id curve.Scalar) string {
	b, err := id.MarshalBinary()
	if err != nil {
		panic(fmt.Errorf("umbral: encoding kfrag id: %w", err))
	}
	return string(b)
}

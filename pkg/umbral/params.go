package umbral

import (
	"fmt"

	"github.com/luxfi/umbral/pkg/math/curve"
	"github.com/luxfi/umbral/pkg/oracle"
)

// Parameters bundles the curve's generator with the domain-separated
// point u used throughout KFrag/CFrag generation (spec.md §3). It is
// immutable and safe to share across an entire process.
//
// The generator is included in the canonical encoding (not re-derived
// implicitly from the curve) per the Parameters-serialization open
// question resolved in SPEC_FULL.md §1-9 -- this makes a Parameters blob
// self-describing and portable between processes that may not agree on
// the same curve.Curve.Generator() wiring.
type Parameters struct {
	Group curve.Curve
	G     curve.Point
	U     curve.Point
}

// ParametersSize is the length in bytes of a canonically encoded
// Parameters value: two compressed points.
const ParametersSize = 2 * curve.PointSize

// NewParameters derives u deterministically from the curve's generator,
// per spec.md §3: u = hash_to_point(g_bytes, label=PARAMETERS_U_LABEL).
func NewParameters(group curve.Curve) (*Parameters, error) {
	g := group.Generator()
	gBytes, err := g.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding generator: %w", err)
	}
	u, err := oracle.HashToPoint(group, gBytes, []byte(oracle.ParametersULabel))
	if err != nil {
		return nil, fmt.Errorf("umbral: deriving parameters.u: %w", err)
	}
	return &Parameters{Group: group, G: g, U: u}, nil
}

// MarshalBinary encodes the parameters as G(33) || U(33).
func (p *Parameters) MarshalBinary() ([]byte, error) {
	gBytes, err := p.G.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding g: %w", err)
	}
	uBytes, err := p.U.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding u: %w", err)
	}
	out := make([]byte, 0, ParametersSize)
	out = append(out, gBytes...)
	out = append(out, uBytes...)
	return out, nil
}

// UnmarshalParameters decodes a Parameters value encoded against group.
// Callers must supply the curve, since the encoding carries only points.
func UnmarshalParameters(group curve.Curve, data []byte) (*Parameters, error) {
	if len(data) != ParametersSize {
		return nil, fmt.Errorf("%w: parameters must be %d bytes, got %d", ErrInvalidEncoding, ParametersSize, len(data))
	}
	g := group.NewPoint()
	if err := g.UnmarshalBinary(data[:curve.PointSize]); err != nil {
		return nil, fmt.Errorf("%w: g: %v", ErrInvalidEncoding, err)
	}
	u := group.NewPoint()
	if err := u.UnmarshalBinary(data[curve.PointSize:]); err != nil {
		return nil, fmt.Errorf("%w: u: %v", ErrInvalidEncoding, err)
	}
	return &Parameters{Group: group, G: g, U: u}, nil
}

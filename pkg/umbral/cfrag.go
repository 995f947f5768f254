package umbral

import (
	"fmt"

	"github.com/luxfi/umbral/pkg/ecdsa"
	"github.com/luxfi/umbral/pkg/math/curve"
	"github.com/luxfi/umbral/pkg/oracle"
)

// CFragProof is the Chaum-Pedersen-style NIZK that (E1,V1,U1) share the
// same discrete log rk against (E,V,u) (spec.md §3).
type CFragProof struct {
	E2              curve.Point
	V2              curve.Point
	U1              curve.Point
	U2              curve.Point
	Z3              curve.Scalar
	SignatureForBob ecdsa.Signature
	MetadataHash    curve.Scalar
}

// CFrag is the result of applying one KFrag to a capsule (spec.md §3).
type CFrag struct {
	E1        curve.Point
	V1        curve.Point
	KFragID   curve.Scalar
	Precursor curve.Point
	Proof     CFragProof
}

// CFragSize is the length in bytes of a canonically encoded CFrag: seven
// points (E1, V1, precursor, E2, V2, U1, U2), three scalars (kfrag_id,
// z3, metadata_hash), and one signature.
const CFragSize = 7*curve.PointSize + 3*curve.ScalarSize + ecdsa.SignatureSize

// Reencrypt transforms capsule under kfrag into a CFrag, optionally
// binding caller-supplied metadata into the NIZK's Fiat-Shamir challenge
// (spec.md §4.4).
func Reencrypt(params *Parameters, capsule *Capsule, kfrag *KFrag, metadata []byte) (*CFrag, error) {
	group := params.Group

	rk := kfrag.Key
	e1 := rk.Act(capsule.E)
	v1 := rk.Act(capsule.V)

	t := curve.MustRandomScalar(group)
	e2 := t.Act(capsule.E)
	v2 := t.Act(capsule.V)
	u2 := t.Act(params.U)
	u1 := kfrag.Commitment

	metadataHash, err := metadataHashScalar(group, metadata)
	if err != nil {
		return nil, fmt.Errorf("umbral: reencrypt: %w", err)
	}
	metadataHashBytes, err := metadataHash.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding metadata hash: %w", err)
	}

	h, err := oracle.HashToScalar(group, []curve.Point{
		capsule.E, e1, e2, capsule.V, v1, v2, params.U, u1, u2,
	}, metadataHashBytes)
	if err != nil {
		return nil, fmt.Errorf("umbral: computing cfrag challenge: %w", err)
	}

	z3 := t.Clone().Add(rk.Clone().Mul(h))

	return &CFrag{
		E1:        e1,
		V1:        v1,
		KFragID:   kfrag.ID,
		Precursor: kfrag.Precursor,
		Proof: CFragProof{
			E2:              e2,
			V2:              v2,
			U1:              u1,
			U2:              u2,
			Z3:              z3,
			SignatureForBob: kfrag.SignatureForBob,
			MetadataHash:    metadataHash,
		},
	}, nil
}

// metadataHashScalar compresses caller metadata into a scalar so every
// CFrag has a fixed size (spec.md §9's "metadata-as-scalar" design note).
// Absent metadata hashes to the zero scalar.
func metadataHashScalar(group curve.Curve, metadata []byte) (curve.Scalar, error) {
	if metadata == nil {
		return group.NewScalar(), nil
	}
	return oracle.HashToScalar(group, nil, metadata)
}

// Verify checks a CFrag against its originating capsule and the three
// public keys involved in the delegation, per spec.md §4.4. All four
// checks must hold for success.
func (c *CFrag) Verify(params *Parameters, capsule *Capsule, pkDelegating, pkReceiving, pkSigner *PublicKey) error {
	group := params.Group

	bobMsg, err := kfragBobMessage(c.KFragID, pkDelegating, pkReceiving, c.Proof.U1, c.Precursor)
	if err != nil {
		return fmt.Errorf("umbral: building signature_for_bob message: %w", err)
	}
	ok, err := pkSigner.Verify(bobMsg, c.Proof.SignatureForBob)
	if err != nil {
		return fmt.Errorf("umbral: verifying signature_for_bob: %w", err)
	}
	if !ok {
		return verificationError(ErrInvalidCFragProof, "signature_for_bob")
	}

	metadataHashBytes, err := c.Proof.MetadataHash.MarshalBinary()
	if err != nil {
		return fmt.Errorf("umbral: encoding metadata hash: %w", err)
	}
	h, err := oracle.HashToScalar(group, []curve.Point{
		capsule.E, c.E1, c.Proof.E2, capsule.V, c.V1, c.Proof.V2, params.U, c.Proof.U1, c.Proof.U2,
	}, metadataHashBytes)
	if err != nil {
		return fmt.Errorf("umbral: recomputing cfrag challenge: %w", err)
	}

	lhsE := c.Proof.Z3.Act(capsule.E)
	rhsE := h.Act(c.E1).Add(c.Proof.E2)
	if !lhsE.Equal(rhsE) {
		return verificationError(ErrInvalidCFragProof, "E*z3 == E2 + h*E1")
	}

	lhsV := c.Proof.Z3.Act(capsule.V)
	rhsV := h.Act(c.V1).Add(c.Proof.V2)
	if !lhsV.Equal(rhsV) {
		return verificationError(ErrInvalidCFragProof, "V*z3 == V2 + h*V1")
	}

	lhsU := c.Proof.Z3.Act(params.U)
	rhsU := h.Act(c.Proof.U1).Add(c.Proof.U2)
	if !lhsU.Equal(rhsU) {
		return verificationError(ErrInvalidCFragProof, "u*z3 == U2 + h*U1")
	}

	return nil
}

// MarshalBinary encodes the CFrag per spec.md §6: E1(33) || V1(33) ||
// kfrag_id(32) || precursor(33) || E2(33) || V2(33) || U1(33) ||
// U2(33) || z3(32) || sig_for_bob(64) || metadata_hash(32).
func (c *CFrag) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, CFragSize)

	idBytes, err := c.KFragID.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.kfrag_id: %w", err)
	}

	e1Bytes, err := c.E1.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.E1: %w", err)
	}
	v1Bytes, err := c.V1.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.V1: %w", err)
	}
	precursorBytes, err := c.Precursor.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.precursor: %w", err)
	}
	e2Bytes, err := c.Proof.E2.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.proof.E2: %w", err)
	}
	v2Bytes, err := c.Proof.V2.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.proof.V2: %w", err)
	}
	u1Bytes, err := c.Proof.U1.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.proof.U1: %w", err)
	}
	u2Bytes, err := c.Proof.U2.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.proof.U2: %w", err)
	}
	z3Bytes, err := c.Proof.Z3.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.proof.z3: %w", err)
	}
	sigBytes, err := c.Proof.SignatureForBob.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.proof.signature_for_bob: %w", err)
	}
	metadataHashBytes, err := c.Proof.MetadataHash.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding cfrag.proof.metadata_hash: %w", err)
	}

	out = append(out, e1Bytes...)
	out = append(out, v1Bytes...)
	out = append(out, idBytes...)
	out = append(out, precursorBytes...)
	out = append(out, e2Bytes...)
	out = append(out, v2Bytes...)
	out = append(out, u1Bytes...)
	out = append(out, u2Bytes...)
	out = append(out, z3Bytes...)
	out = append(out, sigBytes...)
	out = append(out, metadataHashBytes...)
	return out, nil
}

// UnmarshalCFrag decodes a fixed-length canonical CFrag.
func UnmarshalCFrag(group curve.Curve, data []byte) (*CFrag, error) {
	if len(data) != CFragSize {
		return nil, fmt.Errorf("%w: cfrag must be %d bytes, got %d", ErrInvalidEncoding, CFragSize, len(data))
	}

	readPoint := func(offset int) (curve.Point, error) {
		p := group.NewPoint()
		if err := p.UnmarshalBinary(data[offset : offset+curve.PointSize]); err != nil {
			return nil, err
		}
		return p, nil
	}
	readScalar := func(offset int) (curve.Scalar, error) {
		s := group.NewScalar()
		if err := s.UnmarshalBinary(data[offset : offset+curve.ScalarSize]); err != nil {
			return nil, err
		}
		return s, nil
	}

	offset := 0
	e1, err := readPoint(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.E1: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	v1, err := readPoint(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.V1: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	kfragID, err := readScalar(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.kfrag_id: %v", ErrInvalidEncoding, err)
	}
	offset += curve.ScalarSize

	precursor, err := readPoint(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.precursor: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	e2, err := readPoint(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.proof.E2: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	v2, err := readPoint(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.proof.V2: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	u1, err := readPoint(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.proof.U1: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	u2, err := readPoint(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.proof.U2: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	z3, err := readScalar(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.proof.z3: %v", ErrInvalidEncoding, err)
	}
	offset += curve.ScalarSize

	var sig ecdsa.Signature
	if err := sig.UnmarshalBinary(data[offset : offset+ecdsa.SignatureSize]); err != nil {
		return nil, fmt.Errorf("%w: cfrag.proof.signature_for_bob: %v", ErrInvalidEncoding, err)
	}
	offset += ecdsa.SignatureSize

	metadataHash, err := readScalar(offset)
	if err != nil {
		return nil, fmt.Errorf("%w: cfrag.proof.metadata_hash: %v", ErrInvalidEncoding, err)
	}

	return &CFrag{
		E1:        e1,
		V1:        v1,
		KFragID:   kfragID,
		Precursor: precursor,
		Proof: CFragProof{
			E2:              e2,
			V2:              v2,
			U1:              u1,
			U2:              u2,
			Z3:              z3,
			SignatureForBob: sig,
			MetadataHash:    metadataHash,
		},
	}, nil
}

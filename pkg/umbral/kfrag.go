package umbral

import (
	"fmt"

	"github.com/luxfi/umbral/pkg/ecdsa"
	"github.com/luxfi/umbral/pkg/math/curve"
	"github.com/luxfi/umbral/pkg/math/polynomial"
	"github.com/luxfi/umbral/pkg/oracle"
)

const (
	kfragDelegatingFlag byte = 1 << 0
	kfragReceivingFlag  byte = 1 << 1
)

// kfragBaseSize is the length of a KFrag's fixed fields: id(32) ||
// key(32) || precursor(33) || commitment(33) || sig_for_proxy(64) ||
// sig_for_bob(64) || flags(1).
const kfragBaseSize = 2*curve.ScalarSize + 2*curve.PointSize + 2*ecdsa.SignatureSize + 1

// KFrag is one proxy's share of Alice's re-encryption key, Shamir-split
// across t-of-N fragments (spec.md §3).
type KFrag struct {
	ID                curve.Scalar
	Key               curve.Scalar
	Precursor         curve.Point
	Commitment        curve.Point
	SignatureForProxy ecdsa.Signature
	SignatureForBob   ecdsa.Signature

	// DelegatingPK and ReceivingPK are non-nil exactly when they were
	// selected for embedding at generation time (spec.md §4.3's
	// sign_delegating_key / sign_receiving_key booleans).
	DelegatingPK *PublicKey
	ReceivingPK  *PublicKey
}

// GenerateKFrags Shamir-splits skAlice's delegation into N KFrags, any t
// of which later reconstruct a decryption for pkBob (spec.md §4.3).
func GenerateKFrags(
	params *Parameters,
	skAlice *SecretKey,
	pkBob *PublicKey,
	skSigner *SecretKey,
	threshold, numKFrags int,
	signDelegatingKey, signReceivingKey bool,
) ([]*KFrag, error) {
	if threshold <= 0 || threshold > numKFrags {
		panic("umbral: GenerateKFrags requires 0 < threshold <= numKFrags")
	}
	group := params.Group

	xA := curve.MustRandomScalar(group)
	precursor := xA.ActOnBase()
	dh := xA.Act(pkBob.point)

	d, err := oracle.HashToScalar(group, []curve.Point{precursor, pkBob.point, dh}, []byte(oracle.NonInteractive))
	if err != nil {
		return nil, fmt.Errorf("umbral: generating kfrags: %w", err)
	}

	f0 := skAlice.scalar.Clone().Mul(d.Clone().Invert())
	poly := polynomial.NewPolynomial(group, threshold, f0)

	pkAlice := skAlice.PublicKey()

	var delegatingEmbed, receivingEmbed *PublicKey
	if signDelegatingKey {
		delegatingEmbed = pkAlice
	}
	if signReceivingKey {
		receivingEmbed = pkBob
	}
	flags := kfragFlags(delegatingEmbed, receivingEmbed)

	kfrags := make([]*KFrag, numKFrags)
	for i := 0; i < numKFrags; i++ {
		id := curve.MustRandomScalar(group)

		shareIndex, err := oracle.HashToScalar(group, []curve.Point{precursor, pkBob.point, dh}, xCoordinateCustomization(id))
		if err != nil {
			return nil, fmt.Errorf("umbral: generating kfrags: %w", err)
		}

		rk := poly.Evaluate(shareIndex)
		commitment := rk.Act(params.U)

		proxyMsg, err := kfragProxyMessage(id, commitment, precursor, flags, delegatingEmbed, receivingEmbed)
		if err != nil {
			return nil, fmt.Errorf("umbral: building signature_for_proxy message: %w", err)
		}
		bobMsg, err := kfragBobMessage(id, pkAlice, pkBob, commitment, precursor)
		if err != nil {
			return nil, fmt.Errorf("umbral: building signature_for_bob message: %w", err)
		}

		sigForProxy, err := skSigner.Sign(proxyMsg)
		if err != nil {
			return nil, fmt.Errorf("umbral: signing signature_for_proxy: %w", err)
		}
		sigForBob, err := skSigner.Sign(bobMsg)
		if err != nil {
			return nil, fmt.Errorf("umbral: signing signature_for_bob: %w", err)
		}

		kfrags[i] = &KFrag{
			ID:                id,
			Key:               rk,
			Precursor:         precursor,
			Commitment:        commitment,
			SignatureForProxy: sigForProxy,
			SignatureForBob:   sigForBob,
			DelegatingPK:      delegatingEmbed,
			ReceivingPK:       receivingEmbed,
		}
	}
	return kfrags, nil
}

// xCoordinateCustomization builds the customization buffer for a
// per-share X_COORDINATE hash: the label followed by the share's own id,
// per spec.md §4.3's `label=X_COORDINATE, id=id_i`.
func xCoordinateCustomization(id curve.Scalar) []byte {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		panic(fmt.Errorf("umbral: encoding kfrag id: %w", err))
	}
	out := make([]byte, 0, len(oracle.XCoordinate)+len(idBytes))
	out = append(out, []byte(oracle.XCoordinate)...)
	out = append(out, idBytes...)
	return out
}

func kfragFlags(delegating, receiving *PublicKey) byte {
	var flags byte
	if delegating != nil {
		flags |= kfragDelegatingFlag
	}
	if receiving != nil {
		flags |= kfragReceivingFlag
	}
	return flags
}

// kfragProxyMessage builds the message signature_for_proxy authenticates:
// id || commitment || precursor || flags || [delegating]? || [receiving]?
func kfragProxyMessage(id curve.Scalar, commitment, precursor curve.Point, flags byte, delegating, receiving *PublicKey) ([]byte, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, err
	}
	commitmentBytes, err := commitment.MarshalBinary()
	if err != nil {
		return nil, err
	}
	precursorBytes, err := precursor.MarshalBinary()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(idBytes)+len(commitmentBytes)+len(precursorBytes)+1+2*curve.PointSize)
	out = append(out, idBytes...)
	out = append(out, commitmentBytes...)
	out = append(out, precursorBytes...)
	out = append(out, flags)
	if delegating != nil {
		b, err := delegating.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	if receiving != nil {
		b, err := receiving.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// kfragBobMessage builds the message signature_for_bob authenticates:
// id || pk_delegating || pk_receiving || commitment || precursor, always
// including both keys regardless of the embedding flags (spec.md §3
// Invariant C).
func kfragBobMessage(id curve.Scalar, delegating, receiving *PublicKey, commitment, precursor curve.Point) ([]byte, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, err
	}
	delegatingBytes, err := delegating.MarshalBinary()
	if err != nil {
		return nil, err
	}
	receivingBytes, err := receiving.MarshalBinary()
	if err != nil {
		return nil, err
	}
	commitmentBytes, err := commitment.MarshalBinary()
	if err != nil {
		return nil, err
	}
	precursorBytes, err := precursor.MarshalBinary()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(idBytes)+len(delegatingBytes)+len(receivingBytes)+len(commitmentBytes)+len(precursorBytes))
	out = append(out, idBytes...)
	out = append(out, delegatingBytes...)
	out = append(out, receivingBytes...)
	out = append(out, commitmentBytes...)
	out = append(out, precursorBytes...)
	return out, nil
}

// Verify checks that commitment == key*u and that signature_for_proxy
// authenticates this fragment under pkSigner, using maybeDelegating and
// maybeReceiving as the caller's claim of which public keys were
// embedded at generation time. A mismatch between the claim and what
// was actually embedded fails closed (spec.md §4.3).
func (kf *KFrag) Verify(params *Parameters, pkSigner, maybeDelegating, maybeReceiving *PublicKey) error {
	if !kf.Commitment.Equal(kf.Key.Act(params.U)) {
		return verificationError(ErrInvalidKFragSignature, "commitment != key*u")
	}

	if (kf.DelegatingPK != nil) != (maybeDelegating != nil) || !kf.DelegatingPK.Equal(maybeDelegating) {
		return verificationError(ErrInvalidKFragSignature, "delegating key presence/value mismatch")
	}
	if (kf.ReceivingPK != nil) != (maybeReceiving != nil) || !kf.ReceivingPK.Equal(maybeReceiving) {
		return verificationError(ErrInvalidKFragSignature, "receiving key presence/value mismatch")
	}

	flags := kfragFlags(kf.DelegatingPK, kf.ReceivingPK)
	msg, err := kfragProxyMessage(kf.ID, kf.Commitment, kf.Precursor, flags, kf.DelegatingPK, kf.ReceivingPK)
	if err != nil {
		return fmt.Errorf("umbral: building signature_for_proxy message: %w", err)
	}
	ok, err := pkSigner.Verify(msg, kf.SignatureForProxy)
	if err != nil {
		return fmt.Errorf("umbral: verifying signature_for_proxy: %w", err)
	}
	if !ok {
		return verificationError(ErrInvalidKFragSignature, "signature_for_proxy")
	}
	return nil
}

// MarshalBinary encodes the KFrag per spec.md §6: id(32) || key(32) ||
// precursor(33) || commitment(33) || sig_for_proxy(64) ||
// sig_for_bob(64) || flags(1) || [pk_delegating(33)]? || [pk_receiving(33)]?
func (kf *KFrag) MarshalBinary() ([]byte, error) {
	idBytes, err := kf.ID.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding kfrag.id: %w", err)
	}
	keyBytes, err := kf.Key.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding kfrag.key: %w", err)
	}
	precursorBytes, err := kf.Precursor.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding kfrag.precursor: %w", err)
	}
	commitmentBytes, err := kf.Commitment.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding kfrag.commitment: %w", err)
	}
	sigProxyBytes, err := kf.SignatureForProxy.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding kfrag.signature_for_proxy: %w", err)
	}
	sigBobBytes, err := kf.SignatureForBob.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding kfrag.signature_for_bob: %w", err)
	}
	flags := kfragFlags(kf.DelegatingPK, kf.ReceivingPK)

	out := make([]byte, 0, kfragBaseSize+2*curve.PointSize)
	out = append(out, idBytes...)
	out = append(out, keyBytes...)
	out = append(out, precursorBytes...)
	out = append(out, commitmentBytes...)
	out = append(out, sigProxyBytes...)
	out = append(out, sigBobBytes...)
	out = append(out, flags)
	if kf.DelegatingPK != nil {
		b, err := kf.DelegatingPK.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("umbral: encoding kfrag.delegating_pk: %w", err)
		}
		out = append(out, b...)
	}
	if kf.ReceivingPK != nil {
		b, err := kf.ReceivingPK.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("umbral: encoding kfrag.receiving_pk: %w", err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// UnmarshalKFrag decodes a KFrag, validating that its length matches one
// of the four values implied by its flags byte (spec.md §8 property 8).
func UnmarshalKFrag(group curve.Curve, data []byte) (*KFrag, error) {
	if len(data) < kfragBaseSize {
		return nil, fmt.Errorf("%w: kfrag too short", ErrInvalidEncoding)
	}

	id := group.NewScalar()
	if err := id.UnmarshalBinary(data[:curve.ScalarSize]); err != nil {
		return nil, fmt.Errorf("%w: kfrag.id: %v", ErrInvalidEncoding, err)
	}
	offset := curve.ScalarSize

	key := group.NewScalar()
	if err := key.UnmarshalBinary(data[offset : offset+curve.ScalarSize]); err != nil {
		return nil, fmt.Errorf("%w: kfrag.key: %v", ErrInvalidEncoding, err)
	}
	offset += curve.ScalarSize

	precursor := group.NewPoint()
	if err := precursor.UnmarshalBinary(data[offset : offset+curve.PointSize]); err != nil {
		return nil, fmt.Errorf("%w: kfrag.precursor: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	commitment := group.NewPoint()
	if err := commitment.UnmarshalBinary(data[offset : offset+curve.PointSize]); err != nil {
		return nil, fmt.Errorf("%w: kfrag.commitment: %v", ErrInvalidEncoding, err)
	}
	offset += curve.PointSize

	var sigProxy ecdsa.Signature
	if err := sigProxy.UnmarshalBinary(data[offset : offset+ecdsa.SignatureSize]); err != nil {
		return nil, fmt.Errorf("%w: kfrag.signature_for_proxy: %v", ErrInvalidEncoding, err)
	}
	offset += ecdsa.SignatureSize

	var sigBob ecdsa.Signature
	if err := sigBob.UnmarshalBinary(data[offset : offset+ecdsa.SignatureSize]); err != nil {
		return nil, fmt.Errorf("%w: kfrag.signature_for_bob: %v", ErrInvalidEncoding, err)
	}
	offset += ecdsa.SignatureSize

	flags := data[offset]
	offset++

	expectedLen := kfragBaseSize
	if flags&kfragDelegatingFlag != 0 {
		expectedLen += curve.PointSize
	}
	if flags&kfragReceivingFlag != 0 {
		expectedLen += curve.PointSize
	}
	if len(data) != expectedLen {
		return nil, fmt.Errorf("%w: kfrag length %d does not match flags byte %#x (want %d)", ErrInvalidEncoding, len(data), flags, expectedLen)
	}

	kf := &KFrag{
		ID:                id,
		Key:               key,
		Precursor:         precursor,
		Commitment:        commitment,
		SignatureForProxy: sigProxy,
		SignatureForBob:   sigBob,
	}

	if flags&kfragDelegatingFlag != 0 {
		pk, err := UnmarshalPublicKey(group, data[offset:offset+curve.PointSize])
		if err != nil {
			return nil, fmt.Errorf("%w: kfrag.delegating_pk: %v", ErrInvalidEncoding, err)
		}
		kf.DelegatingPK = pk
		offset += curve.PointSize
	}
	if flags&kfragReceivingFlag != 0 {
		pk, err := UnmarshalPublicKey(group, data[offset:offset+curve.PointSize])
		if err != nil {
			return nil, fmt.Errorf("%w: kfrag.receiving_pk: %v", ErrInvalidEncoding, err)
		}
		kf.ReceivingPK = pk
	}

	return kf, nil
}

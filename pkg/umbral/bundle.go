package umbral

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/umbral/pkg/math/curve"
)

// EncryptedMessage bundles a Capsule with its ciphertext for transport or
// storage as a single opaque blob, grounded on
// _examples/luxfi-threshold/pkg/protocol/handler.go's use of
// cbor.Marshal(roundMsg.Content) to envelope wire messages: this package's
// canonical per-type encodings (Capsule.MarshalBinary, CFrag.MarshalBinary,
// ...) stay fixed-width for the NIZKs and signatures that commit to them,
// but the envelope that carries them around between Alice, the proxies,
// and Bob has no such constraint, so it is CBOR like the teacher's.
type EncryptedMessage struct {
	Capsule    []byte `cbor:"1,keyasint"`
	Ciphertext []byte `cbor:"2,keyasint"`
}

// MarshalBundle encodes capsule and ciphertext together as a single CBOR
// envelope.
func MarshalBundle(capsule *Capsule, ciphertext Ciphertext) ([]byte, error) {
	capsuleBytes, err := capsule.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding bundle capsule: %w", err)
	}
	msg := EncryptedMessage{Capsule: capsuleBytes, Ciphertext: []byte(ciphertext)}
	out, err := cbor.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding bundle: %w", err)
	}
	return out, nil
}

// UnmarshalBundle decodes a CBOR envelope produced by MarshalBundle.
func UnmarshalBundle(group curve.Curve, data []byte) (*Capsule, Ciphertext, error) {
	var msg EncryptedMessage
	if err := cbor.Unmarshal(data, &msg); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding bundle: %v", ErrInvalidEncoding, err)
	}
	capsule, err := UnmarshalCapsule(group, msg.Capsule)
	if err != nil {
		return nil, nil, fmt.Errorf("umbral: decoding bundle capsule: %w", err)
	}
	return capsule, Ciphertext(msg.Ciphertext), nil
}

// KFragSet bundles a threshold and the KFrags Alice generated for it, for
// handing the whole delegation to a key-fragment store or transport layer
// in one shot.
type KFragSet struct {
	Threshold int      `cbor:"1,keyasint"`
	KFrags    [][]byte `cbor:"2,keyasint"`
}

// MarshalKFragSet encodes threshold and kfrags as a single CBOR envelope.
func MarshalKFragSet(threshold int, kfrags []*KFrag) ([]byte, error) {
	encoded := make([][]byte, len(kfrags))
	for i, kf := range kfrags {
		b, err := kf.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("umbral: encoding kfrag %d for bundle: %w", i, err)
		}
		encoded[i] = b
	}
	out, err := cbor.Marshal(KFragSet{Threshold: threshold, KFrags: encoded})
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding kfrag set: %w", err)
	}
	return out, nil
}

// UnmarshalKFragSet decodes a CBOR envelope produced by MarshalKFragSet.
func UnmarshalKFragSet(group curve.Curve, data []byte) (int, []*KFrag, error) {
	var set KFragSet
	if err := cbor.Unmarshal(data, &set); err != nil {
		return 0, nil, fmt.Errorf("%w: decoding kfrag set: %v", ErrInvalidEncoding, err)
	}
	kfrags := make([]*KFrag, len(set.KFrags))
	for i, b := range set.KFrags {
		kf, err := UnmarshalKFrag(group, b)
		if err != nil {
			return 0, nil, fmt.Errorf("umbral: decoding kfrag %d from bundle: %w", i, err)
		}
		kfrags[i] = kf
	}
	return set.Threshold, kfrags, nil
}

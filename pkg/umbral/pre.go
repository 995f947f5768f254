package umbral

import (
	"fmt"

	"github.com/luxfi/umbral/pkg/dem"
)

// Ciphertext is the DEM's authenticated output: ciphertext || tag ||
// nonce (spec.md §6; see SPEC_FULL.md §1-9 for why this unifies on
// nonce-suffix instead of spec.md §3's nonce-prefix prose).
type Ciphertext []byte

// Encrypt encapsulates a fresh capsule for pkAlice and seals plaintext
// under the resulting KEM key, using the capsule's own canonical
// encoding as associated data (spec.md §4.6).
func Encrypt(params *Parameters, pkAlice *PublicKey, plaintext []byte) (*Capsule, Ciphertext, error) {
	capsule, seed, err := Encapsulate(params, pkAlice)
	if err != nil {
		return nil, nil, fmt.Errorf("umbral: encrypt: %w", err)
	}
	capsuleBytes, err := capsule.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("umbral: encrypt: %w", err)
	}
	d, err := dem.New(seed)
	if err != nil {
		return nil, nil, fmt.Errorf("umbral: encrypt: %w", err)
	}
	ciphertext, err := d.Encrypt(plaintext, capsuleBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("umbral: encrypt: %w", err)
	}
	return capsule, Ciphertext(ciphertext), nil
}

// DecryptOriginal decrypts a ciphertext Alice produced for herself,
// using her own secret key to decapsulate the capsule (spec.md §6).
func DecryptOriginal(params *Parameters, skAlice *SecretKey, capsule *Capsule, ciphertext Ciphertext) ([]byte, error) {
	if err := capsule.Verify(params.Group); err != nil {
		return nil, err
	}
	seed, err := capsule.DecapsulateOriginal(skAlice)
	if err != nil {
		return nil, fmt.Errorf("umbral: decrypt_original: %w", err)
	}
	return demDecrypt(seed, capsule, ciphertext)
}

// DecryptReencrypted recovers the plaintext from t-or-more CFrags
// gathered by Bob, verifying capsule self-consistency and the
// reconstruction's consistency check before attempting AEAD decryption
// (spec.md §6).
func DecryptReencrypted(params *Parameters, skBob *SecretKey, pkDelegating *PublicKey, capsule *Capsule, cfrags []*CFrag, ciphertext Ciphertext) ([]byte, error) {
	if err := capsule.Verify(params.Group); err != nil {
		return nil, err
	}
	seed, err := Reconstruct(params, skBob, pkDelegating, capsule, cfrags)
	if err != nil {
		return nil, err
	}
	return demDecrypt(seed, capsule, ciphertext)
}

func demDecrypt(seed []byte, capsule *Capsule, ciphertext Ciphertext) ([]byte, error) {
	capsuleBytes, err := capsule.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("umbral: encoding capsule as aad: %w", err)
	}
	d, err := dem.New(seed)
	if err != nil {
		return nil, fmt.Errorf("umbral: constructing dem: %w", err)
	}
	plaintext, err := d.Decrypt(ciphertext, capsuleBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

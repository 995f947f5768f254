package umbral

import "errors"

// Sentinel errors, one per spec error kind. Callers should use errors.Is
// against these, not string matching.
var (
	// ErrInvalidEncoding is returned by the Unmarshal* decoding functions
	// when the input is the wrong length or decodes to an invalid curve
	// element.
	ErrInvalidEncoding = errors.New("umbral: invalid encoding")

	// ErrInvalidCapsule is returned when a Capsule's self-consistency
	// signature s*g == V + h*E does not hold.
	ErrInvalidCapsule = errors.New("umbral: invalid capsule")

	// ErrInvalidKFragSignature is returned when a KFrag's commitment or
	// signature_for_proxy fails to verify.
	ErrInvalidKFragSignature = errors.New("umbral: invalid kfrag signature")

	// ErrInvalidCFragProof is returned when a CFrag's NIZK of correct
	// re-encryption fails any of its four checks.
	ErrInvalidCFragProof = errors.New("umbral: invalid cfrag proof")

	// ErrDecryptionFailed is returned when DEM authentication fails.
	ErrDecryptionFailed = errors.New("umbral: decryption failed")

	// ErrInvalidCFragSet is returned by reconstruction when the supplied
	// CFrags disagree on their precursor, there are fewer than t of them,
	// or the reconstruction consistency check fails.
	ErrInvalidCFragSet = errors.New("umbral: invalid cfrag set")
)

// VerificationError wraps a sentinel error with the name of the field or
// check that failed, for callers that want more than "which error kind".
type VerificationError struct {
	Err   error
	Field string
}

func (e *VerificationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Field
}

func (e *VerificationError) Unwrap() error { return e.Err }

func verificationError(err error, field string) error {
	return &VerificationError{Err: err, Field: field}
}

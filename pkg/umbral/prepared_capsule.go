package umbral

// PreparedCapsule binds a Capsule to the three public keys needed to
// verify and reconstruct against it: a convenience view, not a new
// secret (spec.md §3), grounded on
// _examples/original_source/src/capsule.rs's
// `Capsule::with_correctness_keys` / `PreparedCapsule`.
type PreparedCapsule struct {
	Capsule    *Capsule
	Params     *Parameters
	Delegating *PublicKey
	Receiving  *PublicKey
	Signer     *PublicKey
}

// Prepare binds capsule to the three keys a proxy or Bob needs to
// verify KFrags/CFrags produced against it and, eventually, reconstruct.
func (c *Capsule) Prepare(params *Parameters, delegating, receiving, signer *PublicKey) *PreparedCapsule {
	return &PreparedCapsule{
		Capsule:    c,
		Params:     params,
		Delegating: delegating,
		Receiving:  receiving,
		Signer:     signer,
	}
}

// VerifyKFrag verifies kfrag against this capsule's bound signer key and
// the caller's claim of which of the bound delegating/receiving keys
// were embedded at generation time.
func (pc *PreparedCapsule) VerifyKFrag(kfrag *KFrag, maybeDelegating, maybeReceiving *PublicKey) error {
	return kfrag.Verify(pc.Params, pc.Signer, maybeDelegating, maybeReceiving)
}

// VerifyCFrag verifies cfrag against this capsule using the bound
// delegating, receiving, and signer keys.
func (pc *PreparedCapsule) VerifyCFrag(cfrag *CFrag) error {
	return cfrag.Verify(pc.Params, pc.Capsule, pc.Delegating, pc.Receiving, pc.Signer)
}

// Reencrypt applies kfrag to this capsule, optionally binding metadata.
func (pc *PreparedCapsule) Reencrypt(kfrag *KFrag, metadata []byte) (*CFrag, error) {
	return Reencrypt(pc.Params, pc.Capsule, kfrag, metadata)
}

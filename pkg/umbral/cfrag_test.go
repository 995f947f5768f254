package umbral_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/umbral/pkg/umbral"
)

type cfragFixture struct {
	params                           *umbral.Parameters
	skAlice, skBob, skSigner         *umbral.SecretKey
	capsule                          *umbral.Capsule
	kfrags                           []*umbral.KFrag
}

func newCFragFixture(t *testing.T, threshold, n int) *cfragFixture {
	t.Helper()
	params := testParams(t)
	skAlice := umbral.GenerateSecretKey(params.Group)
	skBob := umbral.GenerateSecretKey(params.Group)
	skSigner := umbral.GenerateSecretKey(params.Group)

	capsule, _, err := umbral.Encapsulate(params, skAlice.PublicKey())
	require.NoError(t, err)

	kfrags, err := umbral.GenerateKFrags(params, skAlice, skBob.PublicKey(), skSigner, threshold, n, true, true)
	require.NoError(t, err)

	return &cfragFixture{
		params: params, skAlice: skAlice, skBob: skBob, skSigner: skSigner,
		capsule: capsule, kfrags: kfrags,
	}
}

func TestReencryptProducesVerifiableCFrag(t *testing.T) {
	f := newCFragFixture(t, 2, 3)

	cfrag, err := umbral.Reencrypt(f.params, f.capsule, f.kfrags[0], nil)
	require.NoError(t, err)

	require.NoError(t, cfrag.Verify(f.params, f.capsule, f.skAlice.PublicKey(), f.skBob.PublicKey(), f.skSigner.PublicKey()))
}

func TestCFragVerifyRejectsTamperedFields(t *testing.T) {
	f := newCFragFixture(t, 2, 3)

	cfrag, err := umbral.Reencrypt(f.params, f.capsule, f.kfrags[0], nil)
	require.NoError(t, err)

	tamperE1 := *cfrag
	tamperE1.E1 = tamperE1.E1.Add(f.params.G)
	require.Error(t, tamperE1.Verify(f.params, f.capsule, f.skAlice.PublicKey(), f.skBob.PublicKey(), f.skSigner.PublicKey()))

	tamperV1 := *cfrag
	tamperV1.V1 = tamperV1.V1.Add(f.params.G)
	require.Error(t, tamperV1.Verify(f.params, f.capsule, f.skAlice.PublicKey(), f.skBob.PublicKey(), f.skSigner.PublicKey()))

	tamperProof := *cfrag
	tamperProof.Proof.E2 = tamperProof.Proof.E2.Add(f.params.G)
	require.Error(t, tamperProof.Verify(f.params, f.capsule, f.skAlice.PublicKey(), f.skBob.PublicKey(), f.skSigner.PublicKey()))

	tamperZ3 := *cfrag
	tamperZ3.Proof.Z3 = tamperZ3.Proof.Z3.Clone().Add(tamperZ3.Proof.Z3)
	require.Error(t, tamperZ3.Verify(f.params, f.capsule, f.skAlice.PublicKey(), f.skBob.PublicKey(), f.skSigner.PublicKey()))
}

func TestReencryptMetadataBinding(t *testing.T) {
	f := newCFragFixture(t, 2, 3)

	cfragA, err := umbral.Reencrypt(f.params, f.capsule, f.kfrags[0], []byte("m1"))
	require.NoError(t, err)
	require.NoError(t, cfragA.Verify(f.params, f.capsule, f.skAlice.PublicKey(), f.skBob.PublicKey(), f.skSigner.PublicKey()))

	cfragB, err := umbral.Reencrypt(f.params, f.capsule, f.kfrags[0], []byte("m2"))
	require.NoError(t, err)

	// Splice cfragB's metadata hash into cfragA: the Fiat-Shamir challenge
	// was computed with "m1"'s hash, so this must fail verification.
	spliced := *cfragA
	spliced.Proof.MetadataHash = cfragB.Proof.MetadataHash
	require.Error(t, spliced.Verify(f.params, f.capsule, f.skAlice.PublicKey(), f.skBob.PublicKey(), f.skSigner.PublicKey()))
}

func TestCFragMarshalUnmarshalRoundTrip(t *testing.T) {
	f := newCFragFixture(t, 2, 3)

	cfrag, err := umbral.Reencrypt(f.params, f.capsule, f.kfrags[0], []byte("metadata"))
	require.NoError(t, err)

	encoded, err := cfrag.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, encoded, umbral.CFragSize)

	decoded, err := umbral.UnmarshalCFrag(f.params.Group, encoded)
	require.NoError(t, err)
	require.NoError(t, decoded.Verify(f.params, f.capsule, f.skAlice.PublicKey(), f.skBob.PublicKey(), f.skSigner.PublicKey()))

	reEncoded, err := decoded.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, encoded, reEncoded)
}

func TestUnmarshalCFragRejectsWrongLength(t *testing.T) {
	params := testParams(t)
	_, err := umbral.UnmarshalCFrag(params.Group, make([]byte, umbral.CFragSize-1))
	require.Error(t, err)
}

package umbral_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/umbral/pkg/math/curve"
	"github.com/luxfi/umbral/pkg/umbral"
)

func testParams(t *testing.T) *umbral.Parameters {
	t.Helper()
	params, err := umbral.NewParameters(curve.Secp256k1{})
	require.NoError(t, err)
	return params
}

func TestEncapsulateDecapsulateRoundTrip(t *testing.T) {
	params := testParams(t)
	skAlice := umbral.GenerateSecretKey(params.Group)

	capsule, seed, err := umbral.Encapsulate(params, skAlice.PublicKey())
	require.NoError(t, err)
	require.NoError(t, capsule.Verify(params.Group))

	recovered, err := capsule.DecapsulateOriginal(skAlice)
	require.NoError(t, err)
	require.Equal(t, seed, recovered)
}

func TestCapsuleVerifyRejectsTamperedS(t *testing.T) {
	params := testParams(t)
	skAlice := umbral.GenerateSecretKey(params.Group)

	capsule, _, err := umbral.Encapsulate(params, skAlice.PublicKey())
	require.NoError(t, err)

	tampered := &umbral.Capsule{
		E: capsule.E,
		V: capsule.V,
		S: capsule.S.Clone().Add(curve.MustRandomScalar(params.Group)),
	}
	require.Error(t, tampered.Verify(params.Group))
}

func TestCapsuleVerifyRejectsTamperedE(t *testing.T) {
	params := testParams(t)
	skAlice := umbral.GenerateSecretKey(params.Group)

	capsule, _, err := umbral.Encapsulate(params, skAlice.PublicKey())
	require.NoError(t, err)

	eBytes, err := capsule.E.MarshalBinary()
	require.NoError(t, err)
	eBytes[0] ^= 0x01 // 0x02 <-> 0x03: still decodes, to -E
	flippedE := params.Group.NewPoint()
	require.NoError(t, flippedE.UnmarshalBinary(eBytes))

	tampered := &umbral.Capsule{E: flippedE, V: capsule.V, S: capsule.S}
	require.Error(t, tampered.Verify(params.Group))
}

func TestCapsuleVerifyRejectsTamperedV(t *testing.T) {
	params := testParams(t)
	skAlice := umbral.GenerateSecretKey(params.Group)

	capsule, _, err := umbral.Encapsulate(params, skAlice.PublicKey())
	require.NoError(t, err)

	vBytes, err := capsule.V.MarshalBinary()
	require.NoError(t, err)
	vBytes[0] ^= 0x01 // 0x02 <-> 0x03: still decodes, to -V
	flippedV := params.Group.NewPoint()
	require.NoError(t, flippedV.UnmarshalBinary(vBytes))

	tampered := &umbral.Capsule{E: capsule.E, V: flippedV, S: capsule.S}
	require.Error(t, tampered.Verify(params.Group))
}

func TestCapsuleMarshalUnmarshalRoundTrip(t *testing.T) {
	params := testParams(t)
	skAlice := umbral.GenerateSecretKey(params.Group)

	capsule, _, err := umbral.Encapsulate(params, skAlice.PublicKey())
	require.NoError(t, err)

	encoded, err := capsule.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, encoded, umbral.CapsuleSize)

	decoded, err := umbral.UnmarshalCapsule(params.Group, encoded)
	require.NoError(t, err)
	require.NoError(t, decoded.Verify(params.Group))

	reEncoded, err := decoded.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, encoded, reEncoded)
}

func TestUnmarshalCapsuleRejectsWrongLength(t *testing.T) {
	params := testParams(t)
	_, err := umbral.UnmarshalCapsule(params.Group, make([]byte, umbral.CapsuleSize-1))
	require.Error(t, err)
}

func TestParametersMarshalUnmarshalRoundTrip(t *testing.T) {
	params := testParams(t)
	encoded, err := params.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, encoded, umbral.ParametersSize)

	decoded, err := umbral.UnmarshalParameters(params.Group, encoded)
	require.NoError(t, err)
	require.True(t, decoded.G.Equal(params.G))
	require.True(t, decoded.U.Equal(params.U))
}

package dem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/umbral/pkg/dem"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	d, err := dem.New([]byte("some shared seed material"))
	require.NoError(t, err)

	plaintext := []byte("peace at dawn")
	aad := []byte("capsule bytes go here")

	ciphertext, err := d.Encrypt(plaintext, aad)
	require.NoError(t, err)
	assert.Len(t, ciphertext, len(plaintext)+dem.Overhead+dem.NonceSize)

	decrypted, err := d.Decrypt(ciphertext, aad)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	d, err := dem.New([]byte("some shared seed material"))
	require.NoError(t, err)

	ciphertext, err := d.Encrypt([]byte("peace at dawn"), nil)
	require.NoError(t, err)
	ciphertext[0] ^= 0xFF

	_, err = d.Decrypt(ciphertext, nil)
	assert.Error(t, err)
}

func TestDecryptRejectsWrongAAD(t *testing.T) {
	d, err := dem.New([]byte("some shared seed material"))
	require.NoError(t, err)

	ciphertext, err := d.Encrypt([]byte("peace at dawn"), []byte("aad-a"))
	require.NoError(t, err)

	_, err = d.Decrypt(ciphertext, []byte("aad-b"))
	assert.Error(t, err)
}

func TestDifferentSeedsProduceDifferentKeys(t *testing.T) {
	d1, err := dem.New([]byte("seed-one"))
	require.NoError(t, err)
	d2, err := dem.New([]byte("seed-two"))
	require.NoError(t, err)

	ciphertext, err := d1.Encrypt([]byte("peace at dawn"), nil)
	require.NoError(t, err)

	_, err = d2.Decrypt(ciphertext, nil)
	assert.Error(t, err)
}

func TestEncryptNoncesAreRandomized(t *testing.T) {
	d, err := dem.New([]byte("some shared seed material"))
	require.NoError(t, err)

	c1, err := d.Encrypt([]byte("peace at dawn"), nil)
	require.NoError(t, err)
	c2, err := d.Encrypt([]byte("peace at dawn"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, c1, c2)
}

func TestEncryptDecryptInPlaceRoundTrip(t *testing.T) {
	d, err := dem.New([]byte("some shared seed material"))
	require.NoError(t, err)

	aad := []byte("capsule bytes go here")
	buffer := []byte("peace at dawn")

	require.NoError(t, d.EncryptInPlace(&buffer, aad))
	assert.Len(t, buffer, len("peace at dawn")+dem.Overhead+dem.NonceSize)

	require.NoError(t, d.DecryptInPlace(&buffer, aad))
	assert.Equal(t, []byte("peace at dawn"), buffer)
}

func TestDecryptInPlaceRejectsTamperedBuffer(t *testing.T) {
	d, err := dem.New([]byte("some shared seed material"))
	require.NoError(t, err)

	buffer := []byte("peace at dawn")
	require.NoError(t, d.EncryptInPlace(&buffer, nil))
	buffer[0] ^= 0xFF

	assert.Error(t, d.DecryptInPlace(&buffer, nil))
}

func TestInPlaceAndAllocatingModesInterop(t *testing.T) {
	d, err := dem.New([]byte("some shared seed material"))
	require.NoError(t, err)

	allocated, err := d.Encrypt([]byte("peace at dawn"), nil)
	require.NoError(t, err)

	buffer := append([]byte(nil), allocated...)
	require.NoError(t, d.DecryptInPlace(&buffer, nil))
	assert.Equal(t, []byte("peace at dawn"), buffer)
}

package secret

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrypterRoundTrip(t *testing.T) {
	crypter, err := NewCrypter("unit-test-key")
	require.Nil(t, err)

	ciphertext, err := crypter.Encrypt("4444333322221111")
	require.Nil(t, err)
	require.NotEqual(t, "4444333322221111", ciphertext)

	plaintext, err := crypter.Decrypt(ciphertext)
	require.Nil(t, err)
	require.Equal(t, "4444333322221111", plaintext)
}

func TestCrypterEmptyKey(t *testing.T) {
	_, err := NewCrypter("")
	require.Error(t, err)
}

func TestCrypterWrongKey(t *testing.T) {
	crypter1, err := NewCrypter("key-one")
	require.Nil(t, err)
	crypter2, err := NewCrypter("key-two")
	require.Nil(t, err)

	ciphertext, err := crypter1.Encrypt("123")
	require.Nil(t, err)

	_, err = crypter2.Decrypt(ciphertext)
	require.Error(t, err)
}

func TestCrypterTamperedCiphertext(t *testing.T) {
	crypter, err := NewCrypter("unit-test-key")
	require.Nil(t, err)

	_, err = crypter.Decrypt("bm90LXJlYWwtY2lwaGVydGV4dA==")
	require.Error(t, err)
}

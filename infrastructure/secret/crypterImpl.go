package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"
)

type iCrypterImpl struct {
	gcm cipher.AEAD
}

// NewCrypter builds an AES-GCM crypter. Any non-empty key is accepted, it is
// stretched to 256 bits with sha256.
func NewCrypter(key string) (ICrypter, error) {
	if key == "" {
		return nil, errors.New("encryption key must not be empty")
	}

	digest := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "aes.NewCipher failed")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "cipher.NewGCM failed")
	}

	return &iCrypterImpl{gcm: gcm}, nil
}

func (crypter iCrypterImpl) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, crypter.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "nonce generation failed")
	}

	sealed := crypter.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (crypter iCrypterImpl) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "ciphertext is not valid base64")
	}

	nonceSize := crypter.gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	plaintext, err := crypter.gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", errors.Wrap(err, "decryption failed")
	}

	return string(plaintext), nil
}

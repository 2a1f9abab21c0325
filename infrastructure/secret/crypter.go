package secret

// ICrypter encrypts and decrypts sensitive payment fields for storage. The
// orchestration core never persists plaintext card data, it goes through
// this boundary in both directions.
type ICrypter interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

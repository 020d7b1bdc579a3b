package ports

// EncryptionService encrypts secrets before they reach persistent storage.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

package apikeys

// Cipher cifrado simétrico autenticado para secretos en reposo.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

package domain

// Algorithm identifies the AEAD construction used to seal secret content.
//
// Both supported algorithms take a 256-bit key, a 96-bit nonce and append a 128-bit
// authentication tag, so either one can be selected per deployment without changing
// the key derivation. The algorithm is recorded inside every encrypted envelope, which
// keeps rows written under a previous setting readable.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred where AES hardware support is missing.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the length in bytes of master keys and derived content keys.
const KeySize = 32

// ParseAlgorithm converts a configuration value into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM, ChaCha20:
		return Algorithm(value), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

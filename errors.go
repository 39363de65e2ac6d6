package mlkem

import "errors"

// A decapsulation mismatch is deliberately not among these sentinels —
// it is never surfaced as an error, only absorbed by implicit rejection.
var (
	// ErrInvalidPublicKey is returned when a public key has the wrong
	// length, or when strict modulus validation rejects a 12-bit
	// coefficient >= q.
	ErrInvalidPublicKey = errors.New("mlkem: invalid public key")

	// ErrInvalidPrivateKey is returned when a private key has the wrong
	// length.
	ErrInvalidPrivateKey = errors.New("mlkem: invalid private key")

	// ErrInvalidCiphertext is returned when a ciphertext has the wrong
	// length.
	ErrInvalidCiphertext = errors.New("mlkem: invalid ciphertext")

	// ErrInvalidSeed is returned when a seed passed to a deterministic
	// constructor has the wrong length.
	ErrInvalidSeed = errors.New("mlkem: invalid seed length")
)

// Package mlkem implements ML-KEM (the CRYSTALS-Kyber Key Encapsulation
// Mechanism), as standardized for post-quantum key establishment.
//
// ML-KEM lets two parties agree on a 32-byte shared secret over an
// authenticated public channel, assuming hardness of Module-LWE. This
// package supports three parameter sets:
//   - ML-KEM-512  (Kyber512):  NIST security level 1
//   - ML-KEM-768  (Kyber768):  NIST security level 3
//   - ML-KEM-1024 (Kyber1024): NIST security level 5
//
// Basic usage:
//
//	key, err := mlkem.GenerateKey768(rand.Reader)
//	if err != nil {
//	    // handle error
//	}
//	pk := key.PublicKey()
//	ct, ss, err := pk.Encapsulate(rand.Reader)
//	if err != nil {
//	    // handle error
//	}
//	ss2, err := key.Decapsulate(ct)
//	// ss == ss2
package mlkem

// Global ML-KEM constants.
const (
	// n is the number of coefficients in a polynomial.
	n = 256

	// q is the prime field modulus: q = 2^8*13 + 1 = 3329.
	q = 3329

	// SeedSize is the size, in bytes, of every seed consumed by this
	// package (d, z and m are all SeedSize bytes).
	SeedSize = 32
)

// Parameter-set specific constants, per the standard.
const (
	k512  = 2
	eta1512 = 3
	eta2512 = 2
	du512   = 10
	dv512   = 4

	k768  = 3
	eta1768 = 2
	eta2768 = 2
	du768   = 10
	dv768   = 4

	k1024  = 4
	eta11024 = 2
	eta21024 = 2
	du1024   = 11
	dv1024   = 5
)

// Byte sizes for each parameter set's keys and ciphertexts.
const (
	PublicKeySize512  = 384*k512 + 32
	PrivateKeySize512 = 768*k512 + 96
	CiphertextSize512 = 32 * (du512*k512 + dv512)

	PublicKeySize768  = 384*k768 + 32
	PrivateKeySize768 = 768*k768 + 96
	CiphertextSize768 = 32 * (du768*k768 + dv768)

	PublicKeySize1024  = 384*k1024 + 32
	PrivateKeySize1024 = 768*k1024 + 96
	CiphertextSize1024 = 32 * (du1024*k1024 + dv1024)

	// SharedSecretSize is the size, in bytes, of the shared secret
	// produced by Encapsulate/Decapsulate for every parameter set.
	SharedSecretSize = 32
)

package mlkem

import (
	"golang.org/x/crypto/sha3"
)

// sponge.go wires every symmetric primitive this package needs onto
// golang.org/x/crypto/sha3 — the sponge family is the one external
// collaborator this core has; everything else is field and polynomial
// arithmetic.

// hashG implements G(x) := SHA3-512(x), split 32+32.
func hashG(x ...[]byte) (a, b [32]byte) {
	h := sha3.New512()
	for _, part := range x {
		h.Write(part)
	}
	sum := h.Sum(nil)
	copy(a[:], sum[:32])
	copy(b[:], sum[32:])
	return
}

// hashH implements H(x) := SHA3-256(x).
func hashH(x ...[]byte) [32]byte {
	h := sha3.New256()
	for _, part := range x {
		h.Write(part)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// hashJ implements J(x) := SHAKE256(x, 32) — used for the
// implicit-rejection pseudorandom key.
func hashJ(x ...[]byte) [32]byte {
	h := sha3.NewShake256()
	for _, part := range x {
		h.Write(part)
	}
	var out [32]byte
	h.Read(out[:])
	return out
}

// xofStream implements XOF(ρ, j, i) := SHAKE128(ρ ‖ j ‖ i) — note the
// byte order is column index j followed by row index i.
func xofStream(rho []byte, j, i byte) sha3.ShakeHash {
	h := sha3.NewShake128()
	h.Write(rho)
	h.Write([]byte{j, i})
	return h
}

// prfBytes implements PRF_η(σ, n) := SHAKE256(σ ‖ n, 64·η).
func prfBytes(sigma []byte, nonce byte, eta int) []byte {
	out := make([]byte, 64*eta)
	h := sha3.NewShake256()
	h.Write(sigma)
	h.Write([]byte{nonce})
	h.Read(out)
	return out
}

// kdfSqueeze derives arbitrary-length key material from a secret and a
// label via SHAKE256(secret ‖ label, length).
func kdfSqueeze(secret []byte, label []byte, length int) []byte {
	out := make([]byte, length)
	h := sha3.NewShake256()
	h.Write(secret)
	h.Write(label)
	h.Read(out)
	return out
}

// DeriveKey re-derives arbitrary-length key material from a 32-byte
// shared secret produced by Encapsulate/Decapsulate, via
// SHAKE256(sharedSecret ‖ label, length). This supplements, rather than
// replaces, the fixed 32-byte shared secret: callers that need more than
// 32 bytes for a downstream symmetric cipher use this instead of
// truncating or re-hashing the secret themselves.
func DeriveKey(sharedSecret, label []byte, length int) []byte {
	return kdfSqueeze(sharedSecret, label, length)
}

package mlkem

import (
	"crypto"
	"crypto/subtle"
	"io"
)

// PublicKey512 is an ML-KEM-512 encapsulation key: the NTT-domain vector
// t̂ together with the seed ρ that (re)derives the public matrix Â. aHat
// is cached at construction time so Encapsulate never resamples it.
type PublicKey512 struct {
	rho  [32]byte
	tHat [k512]nttElement
	aHat [k512 * k512]nttElement
	h    [32]byte // H(ek), cached for Encapsulate's G(m ‖ H(ek))
}

// PrivateKey512 is an ML-KEM-512 decapsulation key: the secret vector ŝ
// plus everything Decapsulate needs to re-derive and re-encrypt without
// touching the network — the cached public key, H(ek), and the implicit
// rejection seed z.
type PrivateKey512 struct {
	sHat [k512]nttElement
	pk   PublicKey512
	z    [32]byte
}

// Key512 is a full ML-KEM-512 key pair, generated from a 64-byte seed
// d‖z. Embedding PrivateKey512 promotes Decapsulate and the accessor
// methods onto Key512 directly.
type Key512 struct {
	PrivateKey512
	d [32]byte
}

// buildMatrix512 samples the public matrix Â from ρ, with aHat[i*k+j] =
// sampleNTT(ρ, i, j).
func buildMatrix512(rho [32]byte) (a [k512 * k512]nttElement) {
	for i := 0; i < k512; i++ {
		for j := 0; j < k512; j++ {
			a[i*k512+j] = sampleNTT(rho[:], byte(i), byte(j))
		}
	}
	return a
}

// GenerateKey512 generates a fresh ML-KEM-512 key pair using randomness
// from rand.
func GenerateKey512(rand io.Reader) (*Key512, error) {
	var seed [64]byte
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return nil, err
	}
	return NewKey512(seed[:])
}

// NewKey512 deterministically derives an ML-KEM-512 key pair from a
// 64-byte seed d‖z. d drives K-PKE.KeyGen; z is the implicit-rejection
// secret threaded through Decapsulate.
func NewKey512(seed []byte) (*Key512, error) {
	if len(seed) != 64 {
		return nil, ErrInvalidSeed
	}

	key := &Key512{}
	copy(key.d[:], seed[:32])
	copy(key.PrivateKey512.z[:], seed[32:])
	key.generate()
	return key, nil
}

func (key *Key512) generate() {
	rho, sigma := hashG(key.d[:])

	a := buildMatrix512(rho)

	sVec := sampleCBD(sigma[:], eta1512, 0, k512)
	eVec := sampleCBD(sigma[:], eta1512, k512, k512)

	var sHat, eHat, tHat [k512]nttElement
	for i := 0; i < k512; i++ {
		sHat[i] = ntt(sVec[i])
		eHat[i] = ntt(eVec[i])
	}
	for i := 0; i < k512; i++ {
		tHat[i] = polyAdd(nttMulAccumulate(a[i*k512:i*k512+k512], sHat[:]), eHat[i])
	}

	key.PrivateKey512.sHat = sHat
	key.PrivateKey512.pk = PublicKey512{rho: rho, tHat: tHat, aHat: a}
	key.PrivateKey512.pk.h = hashH(key.PrivateKey512.pk.Bytes())

	for i := range sVec {
		wipeRing(&sVec[i])
	}
	for i := range eVec {
		wipeRing(&eVec[i])
	}
	for i := range eHat {
		wipeNTT(&eHat[i])
	}
	wipeBytes(sigma[:])
}

// Bytes returns the 64-byte seed d‖z this key pair was derived from.
func (key *Key512) Bytes() []byte {
	out := make([]byte, 64)
	copy(out[:32], key.d[:])
	copy(out[32:], key.PrivateKey512.z[:])
	return out
}

// PublicKey returns the encapsulation key half of this key pair.
func (key *Key512) PublicKey() *PublicKey512 {
	pk := key.PrivateKey512.pk
	return &pk
}

// PrivateKeyBytes returns the full encoded decapsulation key (dk).
func (key *Key512) PrivateKeyBytes() []byte {
	return key.PrivateKey512.Bytes()
}

// Bytes returns the encoded ek: byteEncode_12(t̂) ‖ ρ.
func (pk *PublicKey512) Bytes() []byte {
	out := make([]byte, 0, PublicKeySize512)
	for i := 0; i < k512; i++ {
		out = append(out, byteEncodeD(pk.tHat[i], 12)...)
	}
	out = append(out, pk.rho[:]...)
	return out
}

// Equal reports whether x is a PublicKey512 encoding the same key.
func (pk *PublicKey512) Equal(x crypto.PublicKey) bool {
	other, ok := x.(*PublicKey512)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(pk.Bytes(), other.Bytes()) == 1
}

// NewPublicKey512 parses an encoded ek, rebuilding the cached matrix Â.
// Any of the k·256 = 512 decoded 12-bit coefficients >= q causes
// rejection rather than silent reduction.
func NewPublicKey512(b []byte) (*PublicKey512, error) {
	if len(b) != PublicKeySize512 {
		return nil, ErrInvalidPublicKey
	}

	pk := &PublicKey512{}
	copy(pk.rho[:], b[384*k512:])

	for i := 0; i < k512; i++ {
		t := byteDecodeD(b[384*i:384*(i+1)], 12)
		for _, c := range t {
			if uint32(c) >= q {
				return nil, ErrInvalidPublicKey
			}
		}
		pk.tHat[i] = nttElement(t)
	}

	pk.aHat = buildMatrix512(pk.rho)
	pk.h = hashH(b)
	return pk, nil
}

// encryptInternal implements K-PKE.Encrypt against this public key, given
// message bits m (32 bytes) and coins r (32 bytes). It is shared by
// Encapsulate and by Decapsulate's internal re-encryption.
func (pk *PublicKey512) encryptInternal(m, coins []byte) []byte {
	rVec := sampleCBD(coins, eta1512, 0, k512)
	e1Vec := sampleCBD(coins, eta2512, k512, k512)
	e2 := cbdEta(prfBytes(coins, 2*k512, eta2512), eta2512)

	var rHat [k512]nttElement
	for i := 0; i < k512; i++ {
		rHat[i] = ntt(rVec[i])
	}

	var u [k512]ringElement
	for i := 0; i < k512; i++ {
		var acc nttElement
		for j := 0; j < k512; j++ {
			acc = polyAdd(acc, nttMul(pk.aHat[j*k512+i], rHat[j]))
		}
		u[i] = polyAdd(invNTT(acc), e1Vec[i])
	}

	vAcc := nttMulAccumulate(pk.tHat[:], rHat[:])
	mu := decompressPoly(byteDecodeD(m, 1), 1)
	v := polyAdd(polyAdd(invNTT(vAcc), e2), mu)

	out := make([]byte, 0, CiphertextSize512)
	for i := 0; i < k512; i++ {
		out = append(out, byteEncodeD(compressPoly(u[i], du512), du512)...)
	}
	out = append(out, byteEncodeD(compressPoly(v, dv512), dv512)...)

	for i := range rVec {
		wipeRing(&rVec[i])
	}
	for i := range e1Vec {
		wipeRing(&e1Vec[i])
	}
	wipeRing(&e2)
	for i := range rHat {
		wipeNTT(&rHat[i])
	}
	wipeRing(&mu)
	return out
}

// decryptInternal implements K-PKE.Decrypt against this private key's
// secret vector ŝ.
func (sk *PrivateKey512) decryptInternal(ct []byte) []byte {
	uBytes, vBytes := ct[:encodedSize(du512)*k512], ct[encodedSize(du512)*k512:]

	var uHat [k512]nttElement
	for i := 0; i < k512; i++ {
		u := decompressPoly(byteDecodeD(uBytes[encodedSize(du512)*i:encodedSize(du512)*(i+1)], du512), du512)
		uHat[i] = ntt(u)
	}
	v := decompressPoly(byteDecodeD(vBytes, dv512), dv512)

	w := polySub(v, invNTT(nttMulAccumulate(sk.sHat[:], uHat[:])))
	return byteEncodeD(compressPoly(w, 1), 1)
}

// Encapsulate implements KEM-Encapsulate: it samples a fresh message,
// derives the shared secret and encryption coins from it, and returns
// the ciphertext alongside the shared secret.
func (pk *PublicKey512) Encapsulate(rand io.Reader) (ciphertext, sharedSecret []byte, err error) {
	var m [32]byte
	if _, err := io.ReadFull(rand, m[:]); err != nil {
		return nil, nil, err
	}

	kBar, r := hashG(m[:], pk.h[:])
	ct := pk.encryptInternal(m[:], r[:])

	wipeBytes(m[:])
	return ct, kBar[:], nil
}

// Decapsulate implements KEM-Decapsulate: it recovers the candidate
// message, recomputes the shared secret and re-encrypts to check for
// tampering, and returns either the real shared secret or an
// indistinguishable pseudorandom one via constant-time select — never an
// error for a well-formed ciphertext, since decapsulation failure is
// absorbed rather than surfaced.
func (sk *PrivateKey512) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != CiphertextSize512 {
		return nil, ErrInvalidCiphertext
	}

	mPrime := sk.decryptInternal(ciphertext)
	kBar, rPrime := hashG(mPrime, sk.pk.h[:])
	cPrime := sk.pk.encryptInternal(mPrime, rPrime[:])
	kReject := hashJ(sk.z[:], ciphertext)

	equal := subtle.ConstantTimeCompare(ciphertext, cPrime)
	out := make([]byte, 32)
	for i := range out {
		out[i] = byte(subtle.ConstantTimeSelect(equal, int(kBar[i]), int(kReject[i])))
	}

	wipeBytes(mPrime)
	wipeBytes(kBar[:])
	wipeBytes(rPrime[:])
	wipeBytes(kReject[:])
	wipeBytes(cPrime)
	return out, nil
}

// Bytes returns the encoded dk: byteEncode_12(ŝ) ‖ ek ‖ H(ek) ‖ z.
func (sk *PrivateKey512) Bytes() []byte {
	out := make([]byte, 0, PrivateKeySize512)
	for i := 0; i < k512; i++ {
		out = append(out, byteEncodeD(sk.sHat[i], 12)...)
	}
	out = append(out, sk.pk.Bytes()...)
	out = append(out, sk.pk.h[:]...)
	out = append(out, sk.z[:]...)
	return out
}

// NewPrivateKey512 parses an encoded dk, rebuilding the cached public
// key and matrix.
func NewPrivateKey512(b []byte) (*PrivateKey512, error) {
	if len(b) != PrivateKeySize512 {
		return nil, ErrInvalidPrivateKey
	}

	sk := &PrivateKey512{}
	for i := 0; i < k512; i++ {
		sk.sHat[i] = nttElement(byteDecodeD(b[384*i:384*(i+1)], 12))
	}

	ekStart := 384 * k512
	ekBytes := b[ekStart : ekStart+PublicKeySize512]
	pk, err := NewPublicKey512(ekBytes)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	sk.pk = *pk

	hStart := ekStart + PublicKeySize512
	copy(sk.z[:], b[hStart+32:])

	return sk, nil
}

package mlkem

import (
	"crypto"
	"crypto/subtle"
	"io"
)

// PublicKey1024 is an ML-KEM-1024 encapsulation key. See PublicKey512 for
// the field-by-field rationale — this file differs from kyber512.go only
// in the k/eta1/eta2/du/dv parameters.
type PublicKey1024 struct {
	rho  [32]byte
	tHat [k1024]nttElement
	aHat [k1024 * k1024]nttElement
	h    [32]byte
}

// PrivateKey1024 is an ML-KEM-1024 decapsulation key.
type PrivateKey1024 struct {
	sHat [k1024]nttElement
	pk   PublicKey1024
	z    [32]byte
}

// Key1024 is a full ML-KEM-1024 key pair, generated from a 64-byte seed
// d‖z.
type Key1024 struct {
	PrivateKey1024
	d [32]byte
}

func buildMatrix1024(rho [32]byte) (a [k1024 * k1024]nttElement) {
	for i := 0; i < k1024; i++ {
		for j := 0; j < k1024; j++ {
			a[i*k1024+j] = sampleNTT(rho[:], byte(i), byte(j))
		}
	}
	return a
}

// GenerateKey1024 generates a fresh ML-KEM-1024 key pair using randomness
// from rand.
func GenerateKey1024(rand io.Reader) (*Key1024, error) {
	var seed [64]byte
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return nil, err
	}
	return NewKey1024(seed[:])
}

// NewKey1024 deterministically derives an ML-KEM-1024 key pair from a
// 64-byte seed d‖z.
func NewKey1024(seed []byte) (*Key1024, error) {
	if len(seed) != 64 {
		return nil, ErrInvalidSeed
	}

	key := &Key1024{}
	copy(key.d[:], seed[:32])
	copy(key.PrivateKey1024.z[:], seed[32:])
	key.generate()
	return key, nil
}

func (key *Key1024) generate() {
	rho, sigma := hashG(key.d[:])

	a := buildMatrix1024(rho)

	sVec := sampleCBD(sigma[:], eta11024, 0, k1024)
	eVec := sampleCBD(sigma[:], eta11024, k1024, k1024)

	var sHat, eHat, tHat [k1024]nttElement
	for i := 0; i < k1024; i++ {
		sHat[i] = ntt(sVec[i])
		eHat[i] = ntt(eVec[i])
	}
	for i := 0; i < k1024; i++ {
		tHat[i] = polyAdd(nttMulAccumulate(a[i*k1024:i*k1024+k1024], sHat[:]), eHat[i])
	}

	key.PrivateKey1024.sHat = sHat
	key.PrivateKey1024.pk = PublicKey1024{rho: rho, tHat: tHat, aHat: a}
	key.PrivateKey1024.pk.h = hashH(key.PrivateKey1024.pk.Bytes())

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
func (key *Key1024) Bytes() []byte {
	out := make([]byte, 64)
	copy(out[:32], key.d[:])
	copy(out[32:], key.PrivateKey1024.z[:])
	return out
}

// PublicKey returns the encapsulation key half of this key pair.
func (key *Key1024) PublicKey() *PublicKey1024 {
	pk := key.PrivateKey1024.pk
	return &pk
}

// PrivateKeyBytes returns the full encoded decapsulation key (dk).
func (key *Key1024) PrivateKeyBytes() []byte {
	return key.PrivateKey1024.Bytes()
}

// Bytes returns the encoded ek: byteEncode_12(t̂) ‖ ρ.
func (pk *PublicKey1024) Bytes() []byte {
	out := make([]byte, 0, PublicKeySize1024)
	for i := 0; i < k1024; i++ {
		out = append(out, byteEncodeD(pk.tHat[i], 12)...)
	}
	out = append(out, pk.rho[:]...)
	return out
}

// Equal reports whether x is a PublicKey1024 encoding the same key.
func (pk *PublicKey1024) Equal(x crypto.PublicKey) bool {
	other, ok := x.(*PublicKey1024)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(pk.Bytes(), other.Bytes()) == 1
}

// NewPublicKey1024 parses an encoded ek, rebuilding the cached matrix Â
// and rejecting coefficients >= q.
func NewPublicKey1024(b []byte) (*PublicKey1024, error) {
	if len(b) != PublicKeySize1024 {
		return nil, ErrInvalidPublicKey
	}

	pk := &PublicKey1024{}
	copy(pk.rho[:], b[384*k1024:])

	for i := 0; i < k1024; i++ {
		t := byteDecodeD(b[384*i:384*(i+1)], 12)
		for _, c := range t {
			if uint32(c) >= q {
				return nil, ErrInvalidPublicKey
			}
		}
		pk.tHat[i] = nttElement(t)
	}

	pk.aHat = buildMatrix1024(pk.rho)
	pk.h = hashH(b)
	return pk, nil
}

// encryptInternal implements K-PKE.Encrypt against this public key.
func (pk *PublicKey1024) encryptInternal(m, coins []byte) []byte {
	rVec := sampleCBD(coins, eta11024, 0, k1024)
	e1Vec := sampleCBD(coins, eta21024, k1024, k1024)
	e2 := cbdEta(prfBytes(coins, 2*k1024, eta21024), eta21024)

	var rHat [k1024]nttElement
	for i := 0; i < k1024; i++ {
		rHat[i] = ntt(rVec[i])
	}

	var u [k1024]ringElement
	for i := 0; i < k1024; i++ {
		var acc nttElement
		for j := 0; j < k1024; j++ {
			acc = polyAdd(acc, nttMul(pk.aHat[j*k1024+i], rHat[j]))
		}
		u[i] = polyAdd(invNTT(acc), e1Vec[i])
	}

	vAcc := nttMulAccumulate(pk.tHat[:], rHat[:])
	mu := decompressPoly(byteDecodeD(m, 1), 1)
	v := polyAdd(polyAdd(invNTT(vAcc), e2), mu)

	out := make([]byte, 0, CiphertextSize1024)
	for i := 0; i < k1024; i++ {
		out = append(out, byteEncodeD(compressPoly(u[i], du1024), du1024)...)
	}
	out = append(out, byteEncodeD(compressPoly(v, dv1024), dv1024)...)

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

// decryptInternal implements K-PKE.Decrypt against this private key.
func (sk *PrivateKey1024) decryptInternal(ct []byte) []byte {
	uBytes, vBytes := ct[:encodedSize(du1024)*k1024], ct[encodedSize(du1024)*k1024:]

	var uHat [k1024]nttElement
	for i := 0; i < k1024; i++ {
		u := decompressPoly(byteDecodeD(uBytes[encodedSize(du1024)*i:encodedSize(du1024)*(i+1)], du1024), du1024)
		uHat[i] = ntt(u)
	}
	v := decompressPoly(byteDecodeD(vBytes, dv1024), dv1024)

	w := polySub(v, invNTT(nttMulAccumulate(sk.sHat[:], uHat[:])))
	return byteEncodeD(compressPoly(w, 1), 1)
}

// Encapsulate implements KEM-Encapsulate: sample a message, derive the
// shared secret and encryption coins, return ciphertext and secret.
func (pk *PublicKey1024) Encapsulate(rand io.Reader) (ciphertext, sharedSecret []byte, err error) {
	var m [32]byte
	if _, err := io.ReadFull(rand, m[:]); err != nil {
		return nil, nil, err
	}

	kBar, r := hashG(m[:], pk.h[:])
	ct := pk.encryptInternal(m[:], r[:])

	wipeBytes(m[:])
	return ct, kBar[:], nil
}

// Decapsulate implements KEM-Decapsulate, absorbing any tampering via
// implicit rejection rather than returning an error.
func (sk *PrivateKey1024) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != CiphertextSize1024 {
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
func (sk *PrivateKey1024) Bytes() []byte {
	out := make([]byte, 0, PrivateKeySize1024)
	for i := 0; i < k1024; i++ {
		out = append(out, byteEncodeD(sk.sHat[i], 12)...)
	}
	out = append(out, sk.pk.Bytes()...)
	out = append(out, sk.pk.h[:]...)
	out = append(out, sk.z[:]...)
	return out
}

// NewPrivateKey1024 parses an encoded dk, rebuilding the cached public
// key and matrix.
func NewPrivateKey1024(b []byte) (*PrivateKey1024, error) {
	if len(b) != PrivateKeySize1024 {
		return nil, ErrInvalidPrivateKey
	}

	sk := &PrivateKey1024{}
	for i := 0; i < k1024; i++ {
		sk.sHat[i] = nttElement(byteDecodeD(b[384*i:384*(i+1)], 12))
	}

	ekStart := 384 * k1024
	ekBytes := b[ekStart : ekStart+PublicKeySize1024]
	pk, err := NewPublicKey1024(ekBytes)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	sk.pk = *pk

	hStart := ekStart + PublicKeySize1024
	copy(sk.z[:], b[hStart+32:])

	return sk, nil
}

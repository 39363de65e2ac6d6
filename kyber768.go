package mlkem

import (
	"crypto"
	"crypto/subtle"
	"io"
)

// PublicKey768 is an ML-KEM-768 encapsulation key. See PublicKey512 for
// the field-by-field rationale — this file differs from kyber512.go only
// in the k/eta1/eta2/du/dv parameters.
type PublicKey768 struct {
	rho  [32]byte
	tHat [k768]nttElement
	aHat [k768 * k768]nttElement
	h    [32]byte
}

// PrivateKey768 is an ML-KEM-768 decapsulation key.
type PrivateKey768 struct {
	sHat [k768]nttElement
	pk   PublicKey768
	z    [32]byte
}

// Key768 is a full ML-KEM-768 key pair, generated from a 64-byte seed d‖z.
type Key768 struct {
	PrivateKey768
	d [32]byte
}

func buildMatrix768(rho [32]byte) (a [k768 * k768]nttElement) {
	for i := 0; i < k768; i++ {
		for j := 0; j < k768; j++ {
			a[i*k768+j] = sampleNTT(rho[:], byte(i), byte(j))
		}
	}
	return a
}

// GenerateKey768 generates a fresh ML-KEM-768 key pair using randomness
// from rand.
func GenerateKey768(rand io.Reader) (*Key768, error) {
	var seed [64]byte
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return nil, err
	}
	return NewKey768(seed[:])
}

// NewKey768 deterministically derives an ML-KEM-768 key pair from a
// 64-byte seed d‖z.
func NewKey768(seed []byte) (*Key768, error) {
	if len(seed) != 64 {
		return nil, ErrInvalidSeed
	}

	key := &Key768{}
	copy(key.d[:], seed[:32])
	copy(key.PrivateKey768.z[:], seed[32:])
	key.generate()
	return key, nil
}

func (key *Key768) generate() {
	rho, sigma := hashG(key.d[:])

	a := buildMatrix768(rho)

	sVec := sampleCBD(sigma[:], eta1768, 0, k768)
	eVec := sampleCBD(sigma[:], eta1768, k768, k768)

	var sHat, eHat, tHat [k768]nttElement
	for i := 0; i < k768; i++ {
		sHat[i] = ntt(sVec[i])
		eHat[i] = ntt(eVec[i])
	}
	for i := 0; i < k768; i++ {
		tHat[i] = polyAdd(nttMulAccumulate(a[i*k768:i*k768+k768], sHat[:]), eHat[i])
	}

	key.PrivateKey768.sHat = sHat
	key.PrivateKey768.pk = PublicKey768{rho: rho, tHat: tHat, aHat: a}
	key.PrivateKey768.pk.h = hashH(key.PrivateKey768.pk.Bytes())

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
func (key *Key768) Bytes() []byte {
	out := make([]byte, 64)
	copy(out[:32], key.d[:])
	copy(out[32:], key.PrivateKey768.z[:])
	return out
}

// PublicKey returns the encapsulation key half of this key pair.
func (key *Key768) PublicKey() *PublicKey768 {
	pk := key.PrivateKey768.pk
	return &pk
}

// PrivateKeyBytes returns the full encoded decapsulation key (dk).
func (key *Key768) PrivateKeyBytes() []byte {
	return key.PrivateKey768.Bytes()
}

// Bytes returns the encoded ek: byteEncode_12(t̂) ‖ ρ.
func (pk *PublicKey768) Bytes() []byte {
	out := make([]byte, 0, PublicKeySize768)
	for i := 0; i < k768; i++ {
		out = append(out, byteEncodeD(pk.tHat[i], 12)...)
	}
	out = append(out, pk.rho[:]...)
	return out
}

// Equal reports whether x is a PublicKey768 encoding the same key.
func (pk *PublicKey768) Equal(x crypto.PublicKey) bool {
	other, ok := x.(*PublicKey768)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(pk.Bytes(), other.Bytes()) == 1
}

// NewPublicKey768 parses an encoded ek, rebuilding the cached matrix Â
// and rejecting coefficients >= q.
func NewPublicKey768(b []byte) (*PublicKey768, error) {
	if len(b) != PublicKeySize768 {
		return nil, ErrInvalidPublicKey
	}

	pk := &PublicKey768{}
	copy(pk.rho[:], b[384*k768:])

	for i := 0; i < k768; i++ {
		t := byteDecodeD(b[384*i:384*(i+1)], 12)
		for _, c := range t {
			if uint32(c) >= q {
				return nil, ErrInvalidPublicKey
			}
		}
		pk.tHat[i] = nttElement(t)
	}

	pk.aHat = buildMatrix768(pk.rho)
	pk.h = hashH(b)
	return pk, nil
}

// encryptInternal implements K-PKE.Encrypt against this public key.
func (pk *PublicKey768) encryptInternal(m, coins []byte) []byte {
	rVec := sampleCBD(coins, eta1768, 0, k768)
	e1Vec := sampleCBD(coins, eta2768, k768, k768)
	e2 := cbdEta(prfBytes(coins, 2*k768, eta2768), eta2768)

	var rHat [k768]nttElement
	for i := 0; i < k768; i++ {
		rHat[i] = ntt(rVec[i])
	}

	var u [k768]ringElement
	for i := 0; i < k768; i++ {
		var acc nttElement
		for j := 0; j < k768; j++ {
			acc = polyAdd(acc, nttMul(pk.aHat[j*k768+i], rHat[j]))
		}
		u[i] = polyAdd(invNTT(acc), e1Vec[i])
	}

	vAcc := nttMulAccumulate(pk.tHat[:], rHat[:])
	mu := decompressPoly(byteDecodeD(m, 1), 1)
	v := polyAdd(polyAdd(invNTT(vAcc), e2), mu)

	out := make([]byte, 0, CiphertextSize768)
	for i := 0; i < k768; i++ {
		out = append(out, byteEncodeD(compressPoly(u[i], du768), du768)...)
	}
	out = append(out, byteEncodeD(compressPoly(v, dv768), dv768)...)

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
func (sk *PrivateKey768) decryptInternal(ct []byte) []byte {
	uBytes, vBytes := ct[:encodedSize(du768)*k768], ct[encodedSize(du768)*k768:]

	var uHat [k768]nttElement
	for i := 0; i < k768; i++ {
		u := decompressPoly(byteDecodeD(uBytes[encodedSize(du768)*i:encodedSize(du768)*(i+1)], du768), du768)
		uHat[i] = ntt(u)
	}
	v := decompressPoly(byteDecodeD(vBytes, dv768), dv768)

	w := polySub(v, invNTT(nttMulAccumulate(sk.sHat[:], uHat[:])))
	return byteEncodeD(compressPoly(w, 1), 1)
}

// Encapsulate implements KEM-Encapsulate: sample a message, derive the
// shared secret and encryption coins, return ciphertext and secret.
func (pk *PublicKey768) Encapsulate(rand io.Reader) (ciphertext, sharedSecret []byte, err error) {
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
func (sk *PrivateKey768) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != CiphertextSize768 {
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
func (sk *PrivateKey768) Bytes() []byte {
	out := make([]byte, 0, PrivateKeySize768)
	for i := 0; i < k768; i++ {
		out = append(out, byteEncodeD(sk.sHat[i], 12)...)
	}
	out = append(out, sk.pk.Bytes()...)
	out = append(out, sk.pk.h[:]...)
	out = append(out, sk.z[:]...)
	return out
}

// NewPrivateKey768 parses an encoded dk, rebuilding the cached public key
// and matrix.
func NewPrivateKey768(b []byte) (*PrivateKey768, error) {
	if len(b) != PrivateKeySize768 {
		return nil, ErrInvalidPrivateKey
	}

	sk := &PrivateKey768{}
	for i := 0; i < k768; i++ {
		sk.sHat[i] = nttElement(byteDecodeD(b[384*i:384*(i+1)], 12))
	}

	ekStart := 384 * k768
	ekBytes := b[ekStart : ekStart+PublicKeySize768]
	pk, err := NewPublicKey768(ekBytes)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	sk.pk = *pk

	hStart := ekStart + PublicKeySize768
	copy(sk.z[:], b[hStart+32:])

	return sk, nil
}

package mlkem

// zetaGenerator is ζ = 17, the primitive 256th root of unity in F_q used
// by the NTT.
const zetaGenerator fieldElement = 17

// invN7 is 2^-7 mod q = 3303, the scaling factor applied once at the end
// of invNTT.
const invN7 fieldElement = 3303

// zetas[i] = ζ^BitRev7(i) for i = 0..127, and gammas[i] = ζ^(2·BitRev7(i)+1)
// for i = 0..127 — the 128 twiddle factors used by the 7-layer NTT and the
// 128 quadratic-extension constants used by base multiplication,
// respectively.
//
// Both tables are computed here, not hand-transcribed, so their
// correctness rests entirely on fieldPow (itself exercised independently
// in field_test.go) rather than on a constant table that cannot be
// checked against the reference without running the toolchain.
var (
	zetas  [128]fieldElement
	gammas [128]fieldElement
)

func init() {
	for i := 0; i < 128; i++ {
		br := bitRev7(uint32(i))
		zetas[i] = fieldPow(zetaGenerator, br)
		gammas[i] = fieldPow(zetaGenerator, 2*br+1)
	}
}

// bitRev7 reverses the low 7 bits of x.
func bitRev7(x uint32) uint32 {
	var r uint32
	for i := 0; i < 7; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// ntt performs the forward Number Theoretic Transform: 7 layers of
// Cooley-Tukey butterflies with lengths 128, 64, ..., 2. X^256+1 factors
// into 128 irreducible quadratics over F_q (q ≡ 1 mod 256 but not mod
// 512), so the transform stops one layer short of a full point-evaluation
// NTT; the remaining degree-2 factors are handled pointwise by nttMul.
func ntt(f ringElement) nttElement {
	a := [n]fieldElement(f)
	k := 1
	for length := 128; length >= 2; length /= 2 {
		for start := 0; start < n; start += 2 * length {
			zeta := zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := fieldMul(zeta, a[j+length])
				a[j+length] = fieldSub(a[j], t)
				a[j] = fieldAdd(a[j], t)
			}
		}
	}
	return nttElement(a)
}

// invNTT performs the inverse Number Theoretic Transform: Gentleman-Sande
// butterflies followed by a scale by 2^-7 = 3303.
func invNTT(f nttElement) ringElement {
	a := [n]fieldElement(f)
	k := 127
	for length := 2; length <= 128; length *= 2 {
		for start := 0; start < n; start += 2 * length {
			zeta := zetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := a[j]
				a[j] = fieldAdd(t, a[j+length])
				a[j+length] = fieldMul(zeta, fieldSub(a[j+length], t))
			}
		}
	}
	for i := range a {
		a[i] = fieldMul(a[i], invN7)
	}
	return ringElement(a)
}

// nttMul performs pointwise multiplication of two NTT-domain polynomials.
// Coefficients are treated as 128 pairs (a0 + a1*X) and multiplied modulo
// X^2 - γ_i:
//
//	c0 = a0*b0 + γ*a1*b1
//	c1 = a0*b1 + a1*b0
func nttMul(a, b nttElement) nttElement {
	var c nttElement
	for i := 0; i < 128; i++ {
		a0, a1 := a[2*i], a[2*i+1]
		b0, b1 := b[2*i], b[2*i+1]
		gamma := gammas[i]

		c[2*i] = fieldAdd(fieldMul(a0, b0), fieldMul(gamma, fieldMul(a1, b1)))
		c[2*i+1] = fieldAdd(fieldMul(a0, b1), fieldMul(a1, b0))
	}
	return c
}

// nttMulAccumulate computes the dot product of two vectors of NTT-domain
// polynomials: sum_i a[i] ∘ b[i], where ∘ is nttMul. This is the core of
// every matrix-vector product in K-PKE's keygen/encrypt/decrypt.
func nttMulAccumulate(a, b []nttElement) nttElement {
	var acc nttElement
	for i := range a {
		acc = polyAdd(acc, nttMul(a[i], b[i]))
	}
	return acc
}

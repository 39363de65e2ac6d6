package mlkem

import "runtime"

// wipeBytes overwrites b with zeroes in place. runtime.KeepAlive
// prevents an optimizing compiler from eliding the store because b is
// about to go out of scope — a volatile-wipe discipline, not a naive
// assignment an optimizer could remove.
func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// wipeFieldElements overwrites a slice of field elements in place, used
// to zeroize secret polynomials (the coefficient-form secret s, sampled
// noise and its NTT forms, and the decoded message polynomial) once their
// scope ends. The NTT-form secret ŝ held in a private key is not wiped.
func wipeFieldElements(f []fieldElement) {
	for i := range f {
		f[i] = 0
	}
	runtime.KeepAlive(f)
}

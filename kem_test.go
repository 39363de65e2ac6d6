package mlkem

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestGenerateKey512(t *testing.T) {
	key, err := GenerateKey512(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey512 failed: %v", err)
	}
	if key == nil {
		t.Fatal("GenerateKey512 returned nil key")
	}
}

func TestGenerateKey768(t *testing.T) {
	key, err := GenerateKey768(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey768 failed: %v", err)
	}
	if key == nil {
		t.Fatal("GenerateKey768 returned nil key")
	}
}

func TestGenerateKey1024(t *testing.T) {
	key, err := GenerateKey1024(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey1024 failed: %v", err)
	}
	if key == nil {
		t.Fatal("GenerateKey1024 returned nil key")
	}
}

func TestEncapDecap512(t *testing.T) {
	key, err := GenerateKey512(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey512 failed: %v", err)
	}

	pk := key.PublicKey()
	ct, ss1, err := pk.Encapsulate(rand.Reader)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if len(ct) != CiphertextSize512 {
		t.Errorf("ciphertext size: got %d, want %d", len(ct), CiphertextSize512)
	}
	if len(ss1) != SharedSecretSize {
		t.Errorf("shared secret size: got %d, want %d", len(ss1), SharedSecretSize)
	}

	ss2, err := key.Decapsulate(ct)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if !bytes.Equal(ss1, ss2) {
		t.Error("shared secrets do not match")
	}
}

func TestEncapDecap768(t *testing.T) {
	key, err := GenerateKey768(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey768 failed: %v", err)
	}

	pk := key.PublicKey()
	ct, ss1, err := pk.Encapsulate(rand.Reader)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if len(ct) != CiphertextSize768 {
		t.Errorf("ciphertext size: got %d, want %d", len(ct), CiphertextSize768)
	}

	ss2, err := key.Decapsulate(ct)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if !bytes.Equal(ss1, ss2) {
		t.Error("shared secrets do not match")
	}
}

func TestEncapDecap1024(t *testing.T) {
	key, err := GenerateKey1024(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey1024 failed: %v", err)
	}

	pk := key.PublicKey()
	ct, ss1, err := pk.Encapsulate(rand.Reader)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if len(ct) != CiphertextSize1024 {
		t.Errorf("ciphertext size: got %d, want %d", len(ct), CiphertextSize1024)
	}

	ss2, err := key.Decapsulate(ct)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if !bytes.Equal(ss1, ss2) {
		t.Error("shared secrets do not match")
	}
}

func TestImplicitRejectionOnTamperedCiphertext512(t *testing.T) {
	key, err := GenerateKey512(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey512 failed: %v", err)
	}

	pk := key.PublicKey()
	ct, ss1, err := pk.Encapsulate(rand.Reader)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	tampered := make([]byte, len(ct))
	copy(tampered, ct)
	tampered[0] ^= 0xFF

	// A tampered ciphertext must never surface an error — it is absorbed
	// by implicit rejection into an indistinguishable pseudorandom secret.
	ss2, err := key.Decapsulate(tampered)
	if err != nil {
		t.Fatalf("Decapsulate returned an error on tampered ciphertext: %v", err)
	}
	if bytes.Equal(ss1, ss2) {
		t.Error("Decapsulate returned the real shared secret for a tampered ciphertext")
	}

	// The reject path must be deterministic for the same (z, ciphertext).
	ss3, err := key.Decapsulate(tampered)
	if err != nil {
		t.Fatalf("Decapsulate failed on second call: %v", err)
	}
	if !bytes.Equal(ss2, ss3) {
		t.Error("implicit rejection output is not deterministic for the same tampered ciphertext")
	}
}

func TestDecapsulateRejectsWrongLength(t *testing.T) {
	key, err := GenerateKey512(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey512 failed: %v", err)
	}
	if _, err := key.Decapsulate(make([]byte, CiphertextSize512-1)); err != ErrInvalidCiphertext {
		t.Errorf("Decapsulate on short ciphertext: got %v, want ErrInvalidCiphertext", err)
	}
}

func TestKeyRoundtrip512(t *testing.T) {
	key, err := GenerateKey512(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey512 failed: %v", err)
	}

	seed := key.Bytes()
	key2, err := NewKey512(seed)
	if err != nil {
		t.Fatalf("NewKey512 failed: %v", err)
	}
	if !bytes.Equal(key.PrivateKeyBytes(), key2.PrivateKeyBytes()) {
		t.Error("key roundtrip via seed failed")
	}

	skBytes := key.PrivateKeyBytes()
	sk, err := NewPrivateKey512(skBytes)
	if err != nil {
		t.Fatalf("NewPrivateKey512 failed: %v", err)
	}
	if !bytes.Equal(sk.Bytes(), skBytes) {
		t.Error("private key roundtrip failed")
	}

	pk := key.PublicKey()
	pkBytes := pk.Bytes()
	pk2, err := NewPublicKey512(pkBytes)
	if err != nil {
		t.Fatalf("NewPublicKey512 failed: %v", err)
	}
	if !bytes.Equal(pk2.Bytes(), pkBytes) {
		t.Error("public key roundtrip failed")
	}
}

func TestKeySizes(t *testing.T) {
	key512, _ := GenerateKey512(rand.Reader)
	if got := len(key512.PublicKey().Bytes()); got != PublicKeySize512 {
		t.Errorf("ML-KEM-512 public key size: got %d, want %d", got, PublicKeySize512)
	}
	if got := len(key512.PrivateKeyBytes()); got != PrivateKeySize512 {
		t.Errorf("ML-KEM-512 private key size: got %d, want %d", got, PrivateKeySize512)
	}

	key768, _ := GenerateKey768(rand.Reader)
	if got := len(key768.PublicKey().Bytes()); got != PublicKeySize768 {
		t.Errorf("ML-KEM-768 public key size: got %d, want %d", got, PublicKeySize768)
	}
	if got := len(key768.PrivateKeyBytes()); got != PrivateKeySize768 {
		t.Errorf("ML-KEM-768 private key size: got %d, want %d", got, PrivateKeySize768)
	}

	key1024, _ := GenerateKey1024(rand.Reader)
	if got := len(key1024.PublicKey().Bytes()); got != PublicKeySize1024 {
		t.Errorf("ML-KEM-1024 public key size: got %d, want %d", got, PublicKeySize1024)
	}
	if got := len(key1024.PrivateKeyBytes()); got != PrivateKeySize1024 {
		t.Errorf("ML-KEM-1024 private key size: got %d, want %d", got, PrivateKeySize1024)
	}
}

func TestPublicKeyEquality(t *testing.T) {
	key1, _ := GenerateKey768(rand.Reader)
	key2, _ := GenerateKey768(rand.Reader)

	pk1 := key1.PublicKey()
	pk1Copy := key1.PublicKey()
	pk2 := key2.PublicKey()

	if !pk1.Equal(pk1Copy) {
		t.Error("Equal returned false for same key")
	}
	if pk1.Equal(pk2) {
		t.Error("Equal returned true for different keys")
	}
}

func TestDeterministicKeyGen(t *testing.T) {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}

	key1, err := NewKey768(seed)
	if err != nil {
		t.Fatalf("NewKey768 failed: %v", err)
	}
	key2, err := NewKey768(seed)
	if err != nil {
		t.Fatalf("NewKey768 failed: %v", err)
	}

	if !bytes.Equal(key1.PrivateKeyBytes(), key2.PrivateKeyBytes()) {
		t.Error("deterministic key generation produced different keys")
	}
}

func TestNewKeyRejectsWrongSeedLength(t *testing.T) {
	if _, err := NewKey512(make([]byte, 32)); err != ErrInvalidSeed {
		t.Errorf("NewKey512 on 32-byte seed: got %v, want ErrInvalidSeed", err)
	}
}

func TestCrossKeyDecapsulateIsRejected(t *testing.T) {
	keyA, _ := GenerateKey512(rand.Reader)
	keyB, _ := GenerateKey512(rand.Reader)

	ct, ssA, err := keyA.PublicKey().Encapsulate(rand.Reader)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	ssB, err := keyB.Decapsulate(ct)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if bytes.Equal(ssA, ssB) {
		t.Error("decapsulating with the wrong private key produced the encapsulator's shared secret")
	}
}

func TestDeriveKey(t *testing.T) {
	key, _ := GenerateKey768(rand.Reader)
	_, ss, err := key.PublicKey().Encapsulate(rand.Reader)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	k1 := DeriveKey(ss, []byte("session-key"), 48)
	k2 := DeriveKey(ss, []byte("session-key"), 48)
	if !bytes.Equal(k1, k2) {
		t.Error("DeriveKey is not deterministic for the same secret and label")
	}
	if len(k1) != 48 {
		t.Errorf("DeriveKey length = %d, want 48", len(k1))
	}

	k3 := DeriveKey(ss, []byte("other-label"), 48)
	if bytes.Equal(k1, k3) {
		t.Error("DeriveKey produced the same output for different labels")
	}
}

func BenchmarkGenerateKey512(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateKey512(rand.Reader)
	}
}

func BenchmarkGenerateKey768(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateKey768(rand.Reader)
	}
}

func BenchmarkEncapsulate768(b *testing.B) {
	key, _ := GenerateKey768(rand.Reader)
	pk := key.PublicKey()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pk.Encapsulate(rand.Reader)
	}
}

func BenchmarkDecapsulate768(b *testing.B) {
	key, _ := GenerateKey768(rand.Reader)
	pk := key.PublicKey()
	ct, _, _ := pk.Encapsulate(rand.Reader)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key.Decapsulate(ct)
	}
}

package mlkem

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"os"
	"strings"
	"testing"
)

// katRecord is one blank-line-separated record from a kats/kyberNNN.kat
// file (field count varies: keygen records carry d/z/pk/sk, encap/decap
// records add m/ct/ss).
type katRecord map[string][]byte

func readKATFile(path string) ([]katRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []katRecord
	cur := katRecord{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			if len(cur) > 0 {
				records = append(records, cur)
				cur = katRecord{}
			}
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val, err := hex.DecodeString(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		cur[key] = val
	}
	if len(cur) > 0 {
		records = append(records, cur)
	}
	return records, sc.Err()
}

func TestKAT512(t *testing.T) {
	records, err := readKATFile("kats/kyber512.kat")
	if err != nil {
		t.Skipf("no KAT vectors available: %v", err)
	}

	for i, rec := range records {
		d, z, pk, sk := rec["d"], rec["z"], rec["pk"], rec["sk"]
		if d == nil || z == nil {
			continue
		}

		seed := append(append([]byte{}, d...), z...)
		key, err := NewKey512(seed)
		if err != nil {
			t.Fatalf("record %d: NewKey512 failed: %v", i, err)
		}

		if pk != nil && !bytes.Equal(key.PublicKey().Bytes(), pk) {
			t.Errorf("record %d: public key mismatch", i)
		}
		if sk != nil && !bytes.Equal(key.PrivateKeyBytes(), sk) {
			t.Errorf("record %d: private key mismatch", i)
		}

		if m, ct, ss := rec["m"], rec["ct"], rec["ss"]; m != nil && ct != nil {
			kBar, r := hashG(m, key.PrivateKey512.pk.h[:])
			gotCt := key.PrivateKey512.pk.encryptInternal(m, r[:])
			if !bytes.Equal(gotCt, ct) {
				t.Errorf("record %d: ciphertext mismatch", i)
			}
			if ss != nil && !bytes.Equal(kBar[:], ss) {
				t.Errorf("record %d: shared secret mismatch", i)
			}
		}
	}
}

func TestKAT768(t *testing.T) {
	records, err := readKATFile("kats/kyber768.kat")
	if err != nil {
		t.Skipf("no KAT vectors available: %v", err)
	}
	for i, rec := range records {
		d, z, pk, sk := rec["d"], rec["z"], rec["pk"], rec["sk"]
		if d == nil || z == nil {
			continue
		}
		seed := append(append([]byte{}, d...), z...)
		key, err := NewKey768(seed)
		if err != nil {
			t.Fatalf("record %d: NewKey768 failed: %v", i, err)
		}
		if pk != nil && !bytes.Equal(key.PublicKey().Bytes(), pk) {
			t.Errorf("record %d: public key mismatch", i)
		}
		if sk != nil && !bytes.Equal(key.PrivateKeyBytes(), sk) {
			t.Errorf("record %d: private key mismatch", i)
		}
	}
}

func TestKAT1024(t *testing.T) {
	records, err := readKATFile("kats/kyber1024.kat")
	if err != nil {
		t.Skipf("no KAT vectors available: %v", err)
	}
	for i, rec := range records {
		d, z, pk, sk := rec["d"], rec["z"], rec["pk"], rec["sk"]
		if d == nil || z == nil {
			continue
		}
		seed := append(append([]byte{}, d...), z...)
		key, err := NewKey1024(seed)
		if err != nil {
			t.Fatalf("record %d: NewKey1024 failed: %v", i, err)
		}
		if pk != nil && !bytes.Equal(key.PublicKey().Bytes(), pk) {
			t.Errorf("record %d: public key mismatch", i)
		}
		if sk != nil && !bytes.Equal(key.PrivateKeyBytes(), sk) {
			t.Errorf("record %d: private key mismatch", i)
		}
	}
}

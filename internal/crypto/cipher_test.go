package crypto

import (
	"strings"
	"testing"
)

func testCipher() *ValueCipher {
	return NewValueCipher("test-encryption-secret", "")
}

func TestEncryptValueRoundTrip(t *testing.T) {
	vc := testCipher()

	tests := []struct {
		name      string
		plaintext string
	}{
		{"api key", "askb_qHlTX4JvjK1yVUgRukLlgiwFQmFOiHdEhHYVJNfhNXc"},
		{"short", "x"},
		{"empty", ""},
		{"unicode", "clé-secrète-日本語"},
		{"long", strings.Repeat("a", 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, iv, tag, err := vc.EncryptValue(tt.plaintext)
			if err != nil {
				t.Fatalf("EncryptValue() error: %v", err)
			}
			got, err := vc.DecryptValue(ct, iv, tag)
			if err != nil {
				t.Fatalf("DecryptValue() error: %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("DecryptValue() = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncryptValueFreshNonce(t *testing.T) {
	vc := testCipher()
	ct1, iv1, _, err := vc.EncryptValue("same-plaintext")
	if err != nil {
		t.Fatalf("EncryptValue() error: %v", err)
	}
	ct2, iv2, _, err := vc.EncryptValue("same-plaintext")
	if err != nil {
		t.Fatalf("EncryptValue() error: %v", err)
	}
	if iv1 == iv2 {
		t.Error("EncryptValue() reused a nonce across calls")
	}
	if ct1 == ct2 {
		t.Error("EncryptValue() produced identical ciphertext for identical plaintext")
	}
}

func TestDecryptValueRejectsTampering(t *testing.T) {
	vc := testCipher()
	ct, iv, tag, err := vc.EncryptValue("sensitive-value")
	if err != nil {
		t.Fatalf("EncryptValue() error: %v", err)
	}

	flip := func(s string) string {
		// Flip one hex digit without invalidating the encoding.
		b := []byte(s)
		if b[0] == '0' {
			b[0] = '1'
		} else {
			b[0] = '0'
		}
		return string(b)
	}

	tests := []struct {
		name             string
		ct, iv, tag      string
		wantErr          error
	}{
		{"tampered ciphertext", flip(ct), iv, tag, ErrDecryptionFailed},
		{"tampered auth tag", ct, iv, flip(tag), ErrDecryptionFailed},
		{"tampered iv", ct, flip(iv), tag, ErrDecryptionFailed},
		{"non-hex ciphertext", "zz" + ct[2:], iv, tag, ErrCiphertextCorrupted},
		{"truncated iv", ct, iv[:6], tag, ErrCiphertextCorrupted},
		{"truncated tag", ct, iv, tag[:8], ErrCiphertextCorrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vc.DecryptValue(tt.ct, tt.iv, tt.tag)
			if err != tt.wantErr {
				t.Errorf("DecryptValue() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecryptValueWrongKey(t *testing.T) {
	ct, iv, tag, err := testCipher().EncryptValue("sensitive-value")
	if err != nil {
		t.Fatalf("EncryptValue() error: %v", err)
	}
	other := NewValueCipher("a-completely-different-secret", "")
	if _, err := other.DecryptValue(ct, iv, tag); err != ErrDecryptionFailed {
		t.Errorf("DecryptValue() with wrong key error = %v, want %v", err, ErrDecryptionFailed)
	}
}

func TestLookupHashDeterministic(t *testing.T) {
	vc := testCipher()
	h1 := vc.LookupHash("askb_some-key-value")
	h2 := vc.LookupHash("askb_some-key-value")
	if h1 != h2 {
		t.Errorf("LookupHash() not deterministic: %q != %q", h1, h2)
	}
	if h1 == vc.LookupHash("askb_other-key-value") {
		t.Error("LookupHash() collided for distinct inputs")
	}
}

func TestLookupHashKeyed(t *testing.T) {
	a := NewValueCipher("secret", "hash-secret-a")
	b := NewValueCipher("secret", "hash-secret-b")
	if a.LookupHash("value") == b.LookupHash("value") {
		t.Error("LookupHash() ignored the hashing secret")
	}
}

func TestHashingSecretFallsBackToEncryptionSecret(t *testing.T) {
	implicit := NewValueCipher("only-secret", "")
	explicit := NewValueCipher("only-secret", "only-secret")
	if implicit.LookupHash("v") != explicit.LookupHash("v") {
		t.Error("empty hashing secret did not fall back to the encryption secret")
	}
}

func TestHashEqual(t *testing.T) {
	if !HashEqual("abc", "abc") {
		t.Error("HashEqual() = false for equal inputs")
	}
	if HashEqual("abc", "abd") {
		t.Error("HashEqual() = true for distinct inputs")
	}
}

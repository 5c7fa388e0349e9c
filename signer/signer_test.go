package signer

import (
	"bytes"
	"testing"
)

func allSigners() []Signer {
	return []Signer{NewRSA(), NewEd25519(), NewSchnorr()}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	payload := []byte(`{"amount":"50","payer":"a","payee":"b"}`)
	for _, s := range allSigners() {
		t.Run(s.Name(), func(t *testing.T) {
			kp, err := s.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}
			if kp.PublicKey == "" || len(kp.PrivateKey) == 0 {
				t.Fatalf("empty key pair: %+v", kp)
			}
			sig, err := s.Sign(payload, kp.PrivateKey)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}
			if !s.Verify(payload, sig, kp.PublicKey) {
				t.Fatal("signature verification failed")
			}
		})
	}
}

func TestVerifyFailsIfTampered(t *testing.T) {
	payload := []byte("transfer 23")
	for _, s := range allSigners() {
		t.Run(s.Name(), func(t *testing.T) {
			kp, err := s.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}
			sig, err := s.Sign(payload, kp.PrivateKey)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}
			if s.Verify([]byte("transfer 24"), sig, kp.PublicKey) {
				t.Fatal("tampered payload should not verify")
			}
			corrupted := bytes.Clone(sig)
			corrupted[len(corrupted)/2] ^= 0xff
			if s.Verify(payload, corrupted, kp.PublicKey) {
				t.Fatal("corrupted signature should not verify")
			}
		})
	}
}

func TestVerifyFailsWithOtherKey(t *testing.T) {
	payload := []byte("transfer 23")
	for _, s := range allSigners() {
		t.Run(s.Name(), func(t *testing.T) {
			a, err := s.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}
			b, err := s.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}
			sig, err := s.Sign(payload, a.PrivateKey)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}
			if s.Verify(payload, sig, b.PublicKey) {
				t.Fatal("signature by a should not verify against b's key")
			}
		})
	}
}

func TestVerifyRejectsMalformedKey(t *testing.T) {
	for _, s := range allSigners() {
		if s.Verify([]byte("x"), []byte("sig"), "not-a-key") {
			t.Fatalf("%s: malformed key should not verify", s.Name())
		}
	}
}

func TestSignRejectsMalformedPrivateKey(t *testing.T) {
	for _, s := range []Signer{NewRSA(), NewEd25519()} {
		if _, err := s.Sign([]byte("x"), []byte("garbage")); err == nil {
			t.Fatalf("%s: expected error for malformed private key", s.Name())
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"rsa", "ed25519", "schnorr", " RSA "} {
		s, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) failed: %v", name, err)
		}
		if s == nil {
			t.Fatalf("ByName(%q) returned nil", name)
		}
	}
	if _, err := ByName("dsa"); err == nil {
		t.Fatal("expected error for unknown scheme")
	}
}

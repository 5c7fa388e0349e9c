package signer

import (
	"fmt"
	"strings"
)

// KeyPair is an encoded asymmetric key pair. PublicKey doubles as the
// account identity recorded in transactions.
type KeyPair struct {
	PublicKey  string
	PrivateKey []byte
}

// Signer is the capability interface for key generation, signing and
// verification.
type Signer interface {
	// GenerateKeyPair creates a fresh key pair.
	GenerateKeyPair() (KeyPair, error)

	// Sign signs payload with an encoded private key produced by
	// GenerateKeyPair.
	Sign(payload []byte, privateKey []byte) ([]byte, error)

	// Verify reports whether signature is a valid signature of payload by
	// the holder of publicKey. Malformed keys or signatures verify as false.
	Verify(payload []byte, signature []byte, publicKey string) bool

	// Name returns the scheme name accepted by ByName.
	Name() string
}

// ByName returns the Signer registered under name.
func ByName(name string) (Signer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "rsa":
		return NewRSA(), nil
	case "ed25519":
		return NewEd25519(), nil
	case "schnorr":
		return NewSchnorr(), nil
	default:
		return nil, fmt.Errorf("unknown signer scheme %q", name)
	}
}

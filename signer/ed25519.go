package signer

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
)

// Ed25519 signs with Ed25519. The public identity is the hex-encoded raw
// public key; the private key is a PKCS#8 PEM block.
type Ed25519 struct{}

// NewEd25519 returns an Ed25519 signer.
func NewEd25519() *Ed25519 { return &Ed25519{} }

// Name implements Signer.
func (s *Ed25519) Name() string { return "ed25519" }

// GenerateKeyPair implements Signer.
func (s *Ed25519) GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate ed25519 key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return KeyPair{}, fmt.Errorf("marshal ed25519 private key: %w", err)
	}
	return KeyPair{
		PublicKey:  hex.EncodeToString(pub),
		PrivateKey: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}),
	}, nil
}

// Sign implements Signer.
func (s *Ed25519) Sign(payload []byte, privateKey []byte) ([]byte, error) {
	block, _ := pem.Decode(privateKey)
	if block == nil {
		return nil, errors.New("failed to decode PEM block from private key")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("key is not an ed25519 private key")
	}
	return ed25519.Sign(priv, payload), nil
}

// Verify implements Signer.
func (s *Ed25519) Verify(payload []byte, signature []byte, publicKey string) bool {
	pub, err := hex.DecodeString(publicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), payload, signature)
}

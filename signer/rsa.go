package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
)

const defaultRSABits = 2048

// RSA signs with PKCS#1 v1.5 over SHA-256. Public keys are PKIX PEM blocks,
// private keys are PKCS#8 PEM blocks.
type RSA struct {
	bits   int
	random io.Reader
}

// NewRSA returns a 2048-bit RSA signer.
func NewRSA() *RSA {
	return &RSA{bits: defaultRSABits, random: rand.Reader}
}

// Name implements Signer.
func (s *RSA) Name() string { return "rsa" }

// GenerateKeyPair implements Signer.
func (s *RSA) GenerateKeyPair() (KeyPair, error) {
	priv, err := rsa.GenerateKey(s.random, s.bits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("marshal rsa public key: %w", err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return KeyPair{}, fmt.Errorf("marshal rsa private key: %w", err)
	}
	return KeyPair{
		PublicKey:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})),
		PrivateKey: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER}),
	}, nil
}

// Sign implements Signer.
func (s *RSA) Sign(payload []byte, privateKey []byte) ([]byte, error) {
	block, _ := pem.Decode(privateKey)
	if block == nil {
		return nil, errors.New("failed to decode PEM block from private key")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("key is not an rsa private key")
	}
	digest := sha256.Sum256(payload)
	return rsa.SignPKCS1v15(s.random, priv, crypto.SHA256, digest[:])
}

// Verify implements Signer.
func (s *RSA) Verify(payload []byte, signature []byte, publicKey string) bool {
	block, _ := pem.Decode([]byte(publicKey))
	if block == nil {
		return false
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return false
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return false
	}
	digest := sha256.Sum256(payload)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], signature) == nil
}

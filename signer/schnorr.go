package signer

import (
	"encoding/hex"
	"fmt"

	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
)

// Schnorr signs with Schnorr signatures over the kyber Ed25519 group.
// Public identities are hex-encoded marshalled points, private keys are
// marshalled scalars.
type Schnorr struct {
	suite suites.Suite
}

// NewSchnorr returns a Schnorr signer on the Ed25519 suite.
func NewSchnorr() *Schnorr {
	return &Schnorr{suite: suites.MustFind("Ed25519")}
}

// Name implements Signer.
func (s *Schnorr) Name() string { return "schnorr" }

// GenerateKeyPair implements Signer.
func (s *Schnorr) GenerateKeyPair() (KeyPair, error) {
	x := s.suite.Scalar().Pick(s.suite.RandomStream())
	X := s.suite.Point().Mul(x, nil)

	pub, err := X.MarshalBinary()
	if err != nil {
		return KeyPair{}, fmt.Errorf("marshal schnorr public key: %w", err)
	}
	priv, err := x.MarshalBinary()
	if err != nil {
		return KeyPair{}, fmt.Errorf("marshal schnorr private key: %w", err)
	}
	return KeyPair{PublicKey: hex.EncodeToString(pub), PrivateKey: priv}, nil
}

// Sign implements Signer.
func (s *Schnorr) Sign(payload []byte, privateKey []byte) ([]byte, error) {
	x := s.suite.Scalar()
	if err := x.UnmarshalBinary(privateKey); err != nil {
		return nil, fmt.Errorf("unmarshal schnorr private key: %w", err)
	}
	return schnorr.Sign(s.suite, x, payload)
}

// Verify implements Signer.
func (s *Schnorr) Verify(payload []byte, signature []byte, publicKey string) bool {
	raw, err := hex.DecodeString(publicKey)
	if err != nil {
		return false
	}
	X := s.suite.Point()
	if err := X.UnmarshalBinary(raw); err != nil {
		return false
	}
	return schnorr.Verify(s.suite, X, payload, signature) == nil
}

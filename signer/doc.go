// Package signer implements the asymmetric signing capability used to
// authorize ledger transfers.
//
// # Core Components
//
// Signer: The capability interface. It generates key pairs, signs byte
// payloads with a private key, and verifies (payload, signature, public key)
// triples. The ledger only depends on the verification half.
//
// KeyPair: An opaque key pair. The public half is a string identity that is
// embedded in transactions as the payer; the private half is an encoded
// private key that only the owning Signer knows how to read.
//
// # Schemes
//
//   - rsa: 2048-bit RSA, PEM-encoded keys, PKCS#1 v1.5 signatures over SHA-256
//   - ed25519: Ed25519 keys, hex-encoded public identity
//   - schnorr: Schnorr signatures on the kyber Ed25519 suite
//
// Key encoding is an implementation detail of each scheme; identities
// produced by one scheme never verify under another.
package signer

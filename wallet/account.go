// Package wallet holds accounts: key pairs that sign transfers and submit
// them to a ledger.
package wallet

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/luca-patrignani/powledger/ledger"
	"github.com/luca-patrignani/powledger/signer"
)

// ErrKeyGeneration is returned by New when the signer cannot produce a key
// pair.
var ErrKeyGeneration = errors.New("key generation failed")

// Appender is the part of the ledger an account submits transfers to.
type Appender interface {
	Append(tx ledger.Transaction, signerPublicKey string, signature []byte) (*ledger.Block, error)
}

// Account owns a key pair generated once at construction. Its public key is
// the identity used as payer in its transfers.
type Account struct {
	signer signer.Signer
	keys   signer.KeyPair
}

// New generates a key pair with s and returns the account holding it.
func New(s signer.Signer) (*Account, error) {
	keys, err := s.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	return &Account{signer: s, keys: keys}, nil
}

// PublicKey returns the account identity.
func (a *Account) PublicKey() string {
	return a.keys.PublicKey
}

// Sign signs the canonical serialization of tx with the account private key.
func (a *Account) Sign(tx ledger.Transaction) ([]byte, error) {
	sig, err := a.signer.Sign(tx.Serialize(), a.keys.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return sig, nil
}

// Transfer sends amount to payee: it builds a transaction paid by this
// account, signs it and appends it to l. The error from l is returned as is,
// so a rejected transfer reports ledger.ErrSignatureInvalid.
func (a *Account) Transfer(l Appender, amount decimal.Decimal, payee string) (*ledger.Block, error) {
	tx := ledger.NewTransaction(amount, a.keys.PublicKey, payee)
	sig, err := a.Sign(tx)
	if err != nil {
		return nil, err
	}
	return l.Append(tx, a.keys.PublicKey, sig)
}

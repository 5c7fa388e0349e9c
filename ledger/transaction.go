package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Transaction transfers Amount from Payer to Payee. Payer and payee are
// signer identities (serialized public keys) or sentinels such as
// GenesisPayer. Transactions are values and never change once built.
type Transaction struct {
	amount decimal.Decimal
	payer  string
	payee  string
}

// wireTransaction fixes the field order of the canonical serialization.
type wireTransaction struct {
	Amount string `json:"amount"`
	Payer  string `json:"payer"`
	Payee  string `json:"payee"`
}

// NewTransaction builds a transaction. The amount is not validated.
func NewTransaction(amount decimal.Decimal, payer, payee string) Transaction {
	return Transaction{amount: amount, payer: payer, payee: payee}
}

func (t Transaction) Amount() decimal.Decimal { return t.amount }
func (t Transaction) Payer() string           { return t.payer }
func (t Transaction) Payee() string           { return t.payee }

// Serialize returns the canonical encoding of the transaction. It is the
// payload that gets signed and the transaction part of the block hash.
// Changing it is a breaking protocol change.
func (t Transaction) Serialize() []byte {
	b, err := json.Marshal(wireTransaction{
		Amount: t.amount.String(),
		Payer:  t.payer,
		Payee:  t.payee,
	})
	if err != nil {
		// only strings are marshalled
		panic(fmt.Sprintf("ledger: marshal transaction: %v", err))
	}
	return b
}

// Validate reports whether the transaction has a lossless canonical
// serialization. Payer and payee must be valid UTF-8: the encoder replaces
// invalid bytes, so distinct identities would serialize identically.
func (t Transaction) Validate() error {
	if !utf8.ValidString(t.payer) {
		return fmt.Errorf("payer %q is not valid UTF-8: %w", t.payer, ErrMalformedTransaction)
	}
	if !utf8.ValidString(t.payee) {
		return fmt.Errorf("payee %q is not valid UTF-8: %w", t.payee, ErrMalformedTransaction)
	}
	return nil
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s from %s to %s", t.amount.String(), Fingerprint(t.payer), Fingerprint(t.payee))
}

// Fingerprint abbreviates an identity for display. Short identities such as
// GenesisPayer are returned unchanged; longer ones, such as PEM public keys,
// are replaced by the first 12 hex digits of their SHA-256.
func Fingerprint(id string) string {
	const width = 12
	if len(id) <= width {
		return id
	}
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])[:width]
}

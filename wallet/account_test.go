package wallet

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/luca-patrignani/powledger/ledger"
	"github.com/luca-patrignani/powledger/signer"
)

type brokenSigner struct{ signer.Signer }

func (brokenSigner) GenerateKeyPair() (signer.KeyPair, error) {
	return signer.KeyPair{}, errors.New("entropy source unavailable")
}

func newAccounts(t *testing.T, s signer.Signer, n int) []*Account {
	t.Helper()
	accounts := make([]*Account, n)
	for i := range accounts {
		a, err := New(s)
		if err != nil {
			t.Fatalf("failed to create account %d: %v", i, err)
		}
		accounts[i] = a
	}
	return accounts
}

func TestNewAccountKeyGenerationFailure(t *testing.T) {
	_, err := New(brokenSigner{signer.NewEd25519()})
	if !errors.Is(err, ErrKeyGeneration) {
		t.Fatalf("expected ErrKeyGeneration, got %v", err)
	}
}

func TestAccountsHaveDistinctKeys(t *testing.T) {
	accounts := newAccounts(t, signer.NewEd25519(), 3)
	if accounts[0].PublicKey() == accounts[1].PublicKey() || accounts[1].PublicKey() == accounts[2].PublicKey() {
		t.Fatal("accounts should have distinct public keys")
	}
}

// TestTransferScenario runs the reference scenario with RSA keys: a valid
// transfer is appended, a transfer replaying another account's signature is
// rejected.
func TestTransferScenario(t *testing.T) {
	s := signer.NewRSA()
	l := ledger.New(s)
	accounts := newAccounts(t, s, 3)
	a, b, c := accounts[0], accounts[1], accounts[2]

	if l.Len() != 1 {
		t.Fatalf("expected chain length 1, got %d", l.Len())
	}
	genesis := l.Tail()
	if !genesis.Transaction().Amount().Equal(decimal.NewFromInt(500)) || genesis.Transaction().Payer() != "initial" {
		t.Fatalf("unexpected genesis transaction %s", genesis.Transaction())
	}

	if _, err := a.Transfer(l, decimal.NewFromInt(50), b.PublicKey()); err != nil {
		t.Fatalf("transfer a->b failed: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected chain length 2, got %d", l.Len())
	}
	block1, err := l.Block(1)
	if err != nil {
		t.Fatalf("Block(1) failed: %v", err)
	}
	if !block1.Transaction().Amount().Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected amount 50, got %s", block1.Transaction().Amount())
	}
	if block1.PrevHash() != genesis.Hash() {
		t.Fatal("block 1 should link to the genesis hash")
	}

	// b claims to pay c but presents a signature made by a
	stolen := ledger.NewTransaction(decimal.NewFromInt(23), b.PublicKey(), c.PublicKey())
	sig, err := a.Sign(stolen)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := l.Append(stolen, b.PublicKey(), sig); !errors.Is(err, ledger.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("rejected transfer should keep chain length 2, got %d", l.Len())
	}
}

// TestChainOfCustody verifies every link after three sequential transfers.
func TestChainOfCustody(t *testing.T) {
	for _, s := range []signer.Signer{signer.NewEd25519(), signer.NewSchnorr()} {
		t.Run(s.Name(), func(t *testing.T) {
			l := ledger.New(s)
			accounts := newAccounts(t, s, 3)

			for i, amount := range []int64{50, 23, 5} {
				from, to := accounts[i], accounts[(i+1)%3]
				if _, err := from.Transfer(l, decimal.NewFromInt(amount), to.PublicKey()); err != nil {
					t.Fatalf("transfer %d failed: %v", i, err)
				}
			}

			blocks := l.Blocks()
			if len(blocks) != 4 {
				t.Fatalf("expected 4 blocks, got %d", len(blocks))
			}
			for i := 1; i < len(blocks); i++ {
				if blocks[i].PrevHash() != blocks[i-1].Hash() {
					t.Fatalf("block %d does not link to block %d", i, i-1)
				}
				if blocks[i].Transaction().Payer() != accounts[i-1].PublicKey() {
					t.Fatalf("block %d has unexpected payer", i)
				}
			}
			if err := l.Validate(); err != nil {
				t.Fatalf("chain should validate: %v", err)
			}
		})
	}
}

func TestTransferRejectedAcrossSchemes(t *testing.T) {
	// an ed25519 account cannot append to a ledger that verifies with schnorr
	l := ledger.New(signer.NewSchnorr())
	a := newAccounts(t, signer.NewEd25519(), 1)[0]

	if _, err := a.Transfer(l, decimal.NewFromInt(1), "bob"); !errors.Is(err, ledger.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

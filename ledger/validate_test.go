package ledger

import (
	"errors"
	"testing"

	"github.com/luca-patrignani/powledger/signer"
)

func buildChain(t *testing.T, n int) *Ledger {
	t.Helper()
	s := signer.NewEd25519()
	kp := newKeyPair(t, s)
	l := New(s)
	for i := 0; i < n; i++ {
		tx, sig := signedTx(t, s, kp, int64(i+1), "bob")
		if _, err := l.Append(tx, kp.PublicKey, sig); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	return l
}

func TestValidateIntactChain(t *testing.T) {
	l := buildChain(t, 3)
	if err := l.Validate(); err != nil {
		t.Fatalf("intact chain should validate: %v", err)
	}
}

func TestValidateGenesisOnly(t *testing.T) {
	if err := New(signer.NewEd25519()).Validate(); err != nil {
		t.Fatalf("genesis-only chain should validate: %v", err)
	}
}

func TestValidateDetectsBrokenLink(t *testing.T) {
	l := buildChain(t, 3)
	l.blocks[2].prevHash = "0000"

	err := l.Validate()
	var tampered *TamperedError
	if !errors.As(err, &tampered) {
		t.Fatalf("expected *TamperedError, got %v", err)
	}
	if tampered.Index != 2 {
		t.Fatalf("expected tampering at index 2, got %d", tampered.Index)
	}
	if !errors.Is(err, ErrTampered) {
		t.Fatal("TamperedError should match ErrTampered")
	}
}

// TestValidateDetectsModifiedTransaction verifies that editing a stored
// transaction breaks the link of the following block.
func TestValidateDetectsModifiedTransaction(t *testing.T) {
	l := buildChain(t, 3)
	l.blocks[1].transaction.payee = "mallory"

	var tampered *TamperedError
	if err := l.Validate(); !errors.As(err, &tampered) || tampered.Index != 2 {
		t.Fatalf("expected tampering at index 2, got %v", err)
	}
}

func TestValidateDetectsGenesisWithPrevHash(t *testing.T) {
	l := buildChain(t, 1)
	l.blocks[0].prevHash = "abc"

	var tampered *TamperedError
	if err := l.Validate(); !errors.As(err, &tampered) || tampered.Index != 0 {
		t.Fatalf("expected tampering at index 0, got %v", err)
	}
}

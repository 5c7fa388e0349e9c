package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luca-patrignani/powledger/ledger"
	"github.com/luca-patrignani/powledger/signer"
	"github.com/luca-patrignani/powledger/wallet"
)

func TestNotifierPublishesAppendedBlocks(t *testing.T) {
	s := signer.NewEd25519()
	rec := NewRecorder()
	l := ledger.New(s, ledger.WithObserver(NewNotifier(rec, "", time.Second)))

	a, err := wallet.New(s)
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	block, err := a.Transfer(l, decimal.NewFromInt(50), "bob")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	msgs := rec.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected genesis and transfer messages, got %d", len(msgs))
	}
	if msgs[1].Topic != DefaultTopic {
		t.Fatalf("expected topic %s, got %s", DefaultTopic, msgs[1].Topic)
	}
	if msgs[1].Key != block.Hash() {
		t.Fatal("message key should be the block hash")
	}

	var genesis BlockAppended
	if err := json.Unmarshal(msgs[0].Value, &genesis); err != nil {
		t.Fatalf("failed to decode genesis event: %v", err)
	}
	if genesis.Index != 0 || genesis.Payer != ledger.GenesisPayer {
		t.Fatalf("unexpected genesis event %+v", genesis)
	}

	var event BlockAppended
	if err := json.Unmarshal(msgs[1].Value, &event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if event.Index != 1 || event.Hash != block.Hash() || event.PrevHash != block.PrevHash() {
		t.Fatalf("unexpected event %+v", event)
	}
	if !event.Amount.Equal(decimal.NewFromInt(50)) || event.Payee != "bob" || event.Payer != a.PublicKey() {
		t.Fatalf("unexpected event transaction %+v", event)
	}
	if event.EventID.String() == "" {
		t.Fatal("event should have an id")
	}
}

func TestNotifierSkipsRejectedTransfers(t *testing.T) {
	rec := NewRecorder()
	l := ledger.New(signer.NewEd25519(), ledger.WithObserver(NewNotifier(rec, "custom", time.Second)))

	tx := ledger.NewTransaction(decimal.NewFromInt(1), "alice", "bob")
	if _, err := l.Append(tx, "alice", []byte("bogus")); err == nil {
		t.Fatal("expected append to fail")
	}
	msgs := rec.Messages()
	if len(msgs) != 1 || msgs[0].Topic != "custom" {
		t.Fatalf("only the genesis block should be published, got %d messages", len(msgs))
	}
}

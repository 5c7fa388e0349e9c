// Package events publishes ledger activity to external consumers.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luca-patrignani/powledger/ledger"
)

// DefaultTopic receives BlockAppended events.
const DefaultTopic = "ledger.blocks"

// Publisher sends an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// BlockAppended describes a block that has been appended to the ledger.
type BlockAppended struct {
	EventID    uuid.UUID       `json:"event_id"`
	Index      int             `json:"index"`
	Hash       string          `json:"hash"`
	PrevHash   string          `json:"prev_hash"`
	Payer      string          `json:"payer"`
	Payee      string          `json:"payee"`
	Amount     decimal.Decimal `json:"amount"`
	Nonce      int64           `json:"nonce"`
	Timestamp  time.Time       `json:"timestamp"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewBlockAppended builds the event for block b at index.
func NewBlockAppended(index int, b *ledger.Block) BlockAppended {
	tx := b.Transaction()
	return BlockAppended{
		EventID:    uuid.New(),
		Index:      index,
		Hash:       b.Hash(),
		PrevHash:   b.PrevHash(),
		Payer:      tx.Payer(),
		Payee:      tx.Payee(),
		Amount:     tx.Amount(),
		Nonce:      b.Nonce(),
		Timestamp:  b.Timestamp(),
		OccurredAt: time.Now(),
	}
}

// Notifier is a ledger.Observer that publishes a BlockAppended event for
// every appended block.
type Notifier struct {
	publisher Publisher
	topic     string
	timeout   time.Duration
}

// NewNotifier returns a Notifier publishing to topic, or DefaultTopic when
// topic is empty.
func NewNotifier(p Publisher, topic string, timeout time.Duration) *Notifier {
	if topic == "" {
		topic = DefaultTopic
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{publisher: p, topic: topic, timeout: timeout}
}

// BlockAppended implements ledger.Observer.
func (n *Notifier) BlockAppended(index int, b *ledger.Block) error {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	event := NewBlockAppended(index, b)
	if err := n.publisher.Publish(ctx, n.topic, event.Hash, event); err != nil {
		return fmt.Errorf("publish block %d: %w", index, err)
	}
	return nil
}

var _ ledger.Observer = (*Notifier)(nil)

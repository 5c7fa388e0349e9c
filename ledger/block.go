package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"
)

// nonceRange bounds the per-block random nonce.
const nonceRange = 1_000_000_000

// Block records one transaction linked to the previous block's hash.
// The nonce only perturbs the hash; it is not a proof-of-work solution.
type Block struct {
	prevHash    string
	transaction Transaction
	timestamp   time.Time
	nonce       int64
}

type wireBlock struct {
	PrevHash    string          `json:"prevHash"`
	Transaction json.RawMessage `json:"transaction"`
	Timestamp   int64           `json:"timestamp"`
	Nonce       int64           `json:"nonce"`
}

func newBlock(prevHash string, tx Transaction, ts time.Time) *Block {
	return &Block{
		prevHash:    prevHash,
		transaction: tx,
		timestamp:   ts,
		nonce:       rand.Int64N(nonceRange),
	}
}

func (b *Block) PrevHash() string         { return b.prevHash }
func (b *Block) Transaction() Transaction { return b.transaction }
func (b *Block) Timestamp() time.Time     { return b.timestamp }
func (b *Block) Nonce() int64             { return b.nonce }

// Hash computes the SHA-256 hash of the block's canonical serialization and
// returns it hex-encoded. It is recomputed on every call.
func (b *Block) Hash() string {
	sum := sha256.Sum256(b.serialize())
	return hex.EncodeToString(sum[:])
}

// serialize encodes prevHash, transaction, timestamp and nonce in a fixed
// order. The timestamp is taken as Unix nanoseconds so that the encoding
// does not depend on the time zone of the value.
func (b *Block) serialize() []byte {
	data, err := json.Marshal(wireBlock{
		PrevHash:    b.prevHash,
		Transaction: b.transaction.Serialize(),
		Timestamp:   b.timestamp.UnixNano(),
		Nonce:       b.nonce,
	})
	if err != nil {
		panic(fmt.Sprintf("ledger: marshal block: %v", err))
	}
	return data
}

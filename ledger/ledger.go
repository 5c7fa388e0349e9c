package ledger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// GenesisPayer is the sentinel payer of the genesis transaction.
	GenesisPayer = "initial"

	DefaultGenesisPayee = "satoshi"
)

// DefaultGenesisAmount is the amount credited by the genesis transaction.
var DefaultGenesisAmount = decimal.NewFromInt(500)

// Verifier checks a signature over payload against an encoded public key.
// signer.Signer satisfies it.
type Verifier interface {
	Verify(payload []byte, signature []byte, publicKey string) bool
}

// Observer is notified after a block has been appended, and once for the
// genesis block when the ledger is created. index is the position of the
// block in the chain.
type Observer interface {
	BlockAppended(index int, b *Block) error
}

// Ledger maintains the append-only chain of blocks.
type Ledger struct {
	mu     sync.RWMutex // Protects blocks
	blocks []*Block     // blocks[0] is the genesis block

	// notifyMu is taken before mu is released in Append so that observers
	// see blocks in chain order.
	notifyMu sync.Mutex

	verifier  Verifier
	observers []Observer
	logger    *slog.Logger
	clock     func() time.Time

	bindPayer bool

	genesisAmount decimal.Decimal
	genesisPayee  string

	difficulty  int
	maxAttempts int64
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for append and observer events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithGenesis overrides the amount and payee of the genesis transaction.
func WithGenesis(amount decimal.Decimal, payee string) Option {
	return func(l *Ledger) {
		l.genesisAmount = amount
		l.genesisPayee = payee
	}
}

// WithClock sets the source of block timestamps.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithObserver registers an observer for appended blocks. Observers are
// called in registration order.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observers = append(l.observers, o) }
}

// WithPayerBinding makes Append reject transactions whose payer is not the
// signer public key, returning ErrPayerMismatch.
func WithPayerBinding() Option {
	return func(l *Ledger) { l.bindPayer = true }
}

// WithProofOfWork sets the number of leading zero hex digits required by
// ProofOfWork and the maximum number of attempts per search.
func WithProofOfWork(difficulty int, maxAttempts int64) Option {
	return func(l *Ledger) {
		l.difficulty = difficulty
		l.maxAttempts = maxAttempts
	}
}

// New creates a ledger holding only the genesis block. The genesis block has
// an empty previous hash and transfers the genesis amount from GenesisPayer
// to the genesis payee. The verifier is required and the genesis payee must
// be valid UTF-8; New panics otherwise.
func New(verifier Verifier, opts ...Option) *Ledger {
	if verifier == nil {
		panic("ledger: nil verifier")
	}
	l := &Ledger{
		verifier:      verifier,
		logger:        slog.Default(),
		clock:         time.Now,
		genesisAmount: DefaultGenesisAmount,
		genesisPayee:  DefaultGenesisPayee,
		difficulty:    DefaultDifficulty,
		maxAttempts:   DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(l)
	}

	genesisTx := NewTransaction(l.genesisAmount, GenesisPayer, l.genesisPayee)
	if err := genesisTx.Validate(); err != nil {
		panic(fmt.Sprintf("ledger: genesis transaction: %v", err))
	}
	genesis := newBlock("", genesisTx, l.clock())
	l.blocks = []*Block{genesis}
	l.logger.Debug("ledger created", "genesis", genesis.Hash())
	l.notify(0, genesis)
	return l
}

// Tail returns the most recently appended block. The chain always holds at
// least the genesis block, so an empty chain is a programming error.
func (l *Ledger) Tail() *Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tail()
}

func (l *Ledger) tail() *Block {
	if len(l.blocks) == 0 {
		panic("ledger: tail of empty chain")
	}
	return l.blocks[len(l.blocks)-1]
}

// Len returns the number of blocks, genesis included.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// Blocks returns a copy of the chain in order.
func (l *Ledger) Blocks() []*Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// Block returns the block at index.
func (l *Ledger) Block(index int) (*Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.blocks) {
		return nil, fmt.Errorf("block %d: %w", index, ErrIndexOutOfRange)
	}
	return l.blocks[index], nil
}

// Append verifies signature over tx.Serialize() with signerPublicKey and, if
// it holds, links a new block holding tx to the current tail. A rejected
// transaction leaves the chain unchanged and returns ErrSignatureInvalid, or
// ErrMalformedTransaction when tx has no lossless serialization.
//
// Append only proves that the holder of signerPublicKey signed tx. It does
// not require that key to be tx.Payer() unless the ledger was built with
// WithPayerBinding.
//
// Observers run on the calling goroutine after the block is committed, in
// chain order. An observer must not call Append on the same ledger.
//
// Thread-safety: This method is safe for concurrent access.
func (l *Ledger) Append(tx Transaction, signerPublicKey string, signature []byte) (*Block, error) {
	if err := tx.Validate(); err != nil {
		l.logger.Warn("transaction rejected", "reason", err)
		return nil, fmt.Errorf("append: %w", err)
	}
	if l.bindPayer && tx.Payer() != signerPublicKey {
		l.logger.Warn("transaction rejected", "tx", tx.String(), "reason", ErrPayerMismatch)
		return nil, fmt.Errorf("append %s: %w", tx, ErrPayerMismatch)
	}
	if !l.verifier.Verify(tx.Serialize(), signature, signerPublicKey) {
		l.logger.Warn("transaction rejected", "tx", tx.String(), "reason", ErrSignatureInvalid)
		return nil, fmt.Errorf("append %s: %w", tx, ErrSignatureInvalid)
	}

	l.mu.Lock()
	block := newBlock(l.tail().Hash(), tx, l.clock())
	l.blocks = append(l.blocks, block)
	index := len(l.blocks) - 1
	l.notifyMu.Lock()
	l.mu.Unlock()
	defer l.notifyMu.Unlock()

	l.logger.Info("block appended", "index", index, "hash", block.Hash(), "tx", tx.String())
	l.notify(index, block)
	return block, nil
}

func (l *Ledger) notify(index int, b *Block) {
	for _, o := range l.observers {
		if err := o.BlockAppended(index, b); err != nil {
			l.logger.Error("observer failed", "index", index, "error", err)
		}
	}
}

// Package archive records appended blocks in a SQL database. It is an
// observer of the ledger: the in-memory chain stays the source of truth and
// the archive is written after each append. Rows are keyed by the hash of
// the chain's genesis block, so one database can hold many runs.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/luca-patrignani/powledger/ledger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultTimeout = 5 * time.Second
)

const schema = `CREATE TABLE IF NOT EXISTS blocks (
	chain     TEXT NOT NULL,
	idx       BIGINT NOT NULL,
	hash      TEXT NOT NULL,
	prev_hash TEXT NOT NULL,
	payer     TEXT NOT NULL,
	payee     TEXT NOT NULL,
	amount    TEXT NOT NULL,
	ts        BIGINT NOT NULL,
	nonce     BIGINT NOT NULL,
	PRIMARY KEY (chain, idx)
)`

// Record is an archived block.
type Record struct {
	Chain     string // genesis hash
	Index     int
	Hash      string
	PrevHash  string
	Payer     string
	Payee     string
	Amount    decimal.Decimal
	Timestamp time.Time
	Nonce     int64
}

// Store is a block archive backed by database/sql.
type Store struct {
	mu      sync.Mutex
	db      *sql.DB
	driver  string
	timeout time.Duration
	chain   string // genesis hash of the chain being saved
}

// Open connects to the archive and creates the schema. For the sqlite
// driver dsn is a file path; for postgres it is a connection string.
func Open(driver, dsn string) (*Store, error) {
	var connStr string
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			return nil, errors.New("sqlite archive requires a file path")
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
		connStr = fmt.Sprintf("file:%s", filepath.Clean(dsn))
	case DriverPostgres:
		connStr = dsn
	default:
		return nil, fmt.Errorf("unknown archive driver %q", driver)
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver, timeout: defaultTimeout}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure archive schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// BlockAppended implements ledger.Observer.
func (s *Store) BlockAppended(index int, b *ledger.Block) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.Save(ctx, index, b)
}

// Save archives block b at index. Index 0 starts a new chain identified by
// the genesis hash; later indexes belong to the most recent chain. Saving the
// same index of a chain twice fails.
func (s *Store) Save(ctx context.Context, index int, b *ledger.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.chain
	if index == 0 {
		chain = b.Hash()
	}
	if chain == "" {
		return fmt.Errorf("archive block %d: no genesis block archived", index)
	}

	tx := b.Transaction()
	query := s.rebind(`INSERT INTO blocks (chain, idx, hash, prev_hash, payer, payee, amount, ts, nonce)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		chain, index, b.Hash(), b.PrevHash(), tx.Payer(), tx.Payee(), tx.Amount().String(),
		b.Timestamp().UnixNano(), b.Nonce())
	if err != nil {
		return fmt.Errorf("archive block %d: %w", index, err)
	}
	s.chain = chain
	return nil
}

// Records returns the archived blocks of the chain whose genesis hash is
// chain, ordered by index.
func (s *Store) Records(ctx context.Context, chain string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT chain, idx, hash, prev_hash, payer, payee, amount, ts, nonce FROM blocks WHERE chain = ? ORDER BY idx`), chain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r      Record
			amount string
			ts     int64
		)
		if err := rows.Scan(&r.Chain, &r.Index, &r.Hash, &r.PrevHash, &r.Payer, &r.Payee, &amount, &ts, &r.Nonce); err != nil {
			return nil, err
		}
		r.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("block %d amount: %w", r.Index, err)
		}
		r.Timestamp = time.Unix(0, ts)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Compare checks that records hold exactly blocks, index by index.
func Compare(records []Record, blocks []*ledger.Block) error {
	if len(records) != len(blocks) {
		return fmt.Errorf("archive holds %d blocks, chain has %d", len(records), len(blocks))
	}
	for i, r := range records {
		if r.Index != i {
			return fmt.Errorf("archive gap: record %d has index %d", i, r.Index)
		}
		if r.Hash != blocks[i].Hash() {
			return &ledger.TamperedError{Index: i, Reason: "archived hash does not match the chain"}
		}
	}
	return nil
}

// VerifyLinks checks that archived records form a contiguous hash chain:
// indexes increase by one and each previous hash matches the hash of the
// record before it. The first record may start at any index.
func VerifyLinks(records []Record) error {
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if cur.Index != prev.Index+1 {
			return fmt.Errorf("archive gap: index %d follows %d", cur.Index, prev.Index)
		}
		if cur.PrevHash != prev.Hash {
			return &ledger.TamperedError{Index: cur.Index, Reason: "archived previous hash does not match"}
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ ledger.Observer = (*Store)(nil)

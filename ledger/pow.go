package ledger

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultDifficulty is the number of leading zero hex digits a
	// proof-of-work digest must have.
	DefaultDifficulty = 4

	// DefaultMaxAttempts caps a single proof-of-work search.
	DefaultMaxAttempts int64 = 1 << 24

	// ctxCheckInterval is how many attempts run between context checks.
	ctxCheckInterval = 4096
)

// ProofOfWork searches for the smallest solution >= 1 such that the digest of
// seed+solution starts with the ledger's difficulty in zero hex digits. It is
// not part of the append path.
func (l *Ledger) ProofOfWork(seed int64) (int64, error) {
	return l.ProofOfWorkContext(context.Background(), seed)
}

// ProofOfWorkContext is ProofOfWork with cancellation.
func (l *Ledger) ProofOfWorkContext(ctx context.Context, seed int64) (int64, error) {
	solution, err := SolveProofOfWork(ctx, seed, l.difficulty, l.maxAttempts)
	if err != nil {
		l.logger.Warn("proof of work failed", "seed", seed, "difficulty", l.difficulty, "error", err)
		return 0, err
	}
	l.logger.Debug("proof of work found", "seed", seed, "solution", solution)
	return solution, nil
}

// SolveProofOfWork tries solutions 1, 2, ... up to maxAttempts and returns the
// first one for which VerifyProofOfWork holds. It returns
// ErrProofOfWorkExhausted when the attempts run out and the context error
// when ctx is done.
func SolveProofOfWork(ctx context.Context, seed int64, difficulty int, maxAttempts int64) (int64, error) {
	if difficulty < 0 || difficulty > md5.Size*2 {
		return 0, fmt.Errorf("invalid difficulty %d", difficulty)
	}
	prefix := strings.Repeat("0", difficulty)

	for solution := int64(1); solution <= maxAttempts; solution++ {
		if solution%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if strings.HasPrefix(powDigest(seed, solution), prefix) {
			return solution, nil
		}
	}
	return 0, fmt.Errorf("seed %d after %d attempts: %w", seed, maxAttempts, ErrProofOfWorkExhausted)
}

// VerifyProofOfWork reports whether solution satisfies difficulty for seed.
func VerifyProofOfWork(seed, solution int64, difficulty int) bool {
	return strings.HasPrefix(powDigest(seed, solution), strings.Repeat("0", difficulty))
}

// powDigest is the hex MD5 of the decimal string of seed+solution. MD5 is
// used as a fast digest here, not for its collision resistance.
func powDigest(seed, solution int64) string {
	sum := md5.Sum([]byte(strconv.FormatInt(seed+solution, 10)))
	return hex.EncodeToString(sum[:])
}

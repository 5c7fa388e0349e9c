package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrSignatureInvalid is returned by Append when the transaction signature
	// does not verify against the claimed signer public key.
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrProofOfWorkExhausted is returned when the proof-of-work search runs
	// out of attempts before finding a solution.
	ErrProofOfWorkExhausted = errors.New("proof of work exhausted")

	// ErrTampered matches every *TamperedError.
	ErrTampered = errors.New("chain tampered")

	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMalformedTransaction is returned for transactions whose payer or
	// payee cannot be serialized without loss.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrPayerMismatch is returned by Append on a ledger built with
	// WithPayerBinding when the signer key is not the transaction payer.
	ErrPayerMismatch = errors.New("signer is not the payer")
)

// TamperedError reports the first block whose link to its predecessor is
// broken.
type TamperedError struct {
	Index  int
	Reason string
}

func (e *TamperedError) Error() string {
	return fmt.Sprintf("block %d tampered: %s", e.Index, e.Reason)
}

func (e *TamperedError) Is(target error) bool {
	return target == ErrTampered
}

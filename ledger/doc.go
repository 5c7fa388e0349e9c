// Package ledger implements an append-only ledger of signed value transfers
// with hash chaining and a proof-of-work utility.
//
// # Core Components
//
// Transaction: An immutable transfer of an amount from a payer identity to a
// payee identity. Its canonical serialization is both the signing payload and
// part of the block hash input.
//
// Block: One transaction linked to the hash of the previous block, stamped
// with a creation time and a random nonce. Its hash is recomputed on demand.
//
// Ledger: The ordered chain of blocks, starting with a genesis block. Append
// only accepts transactions whose signature verifies against the claimed
// signer public key.
//
// # Security Properties
//
// The ledger provides:
//   - Authentication: every non-genesis block carries a signature verified
//     against the key submitted with it; WithPayerBinding also requires that
//     key to be the payer
//   - Tamper detection: Validate walks the chain and reports the first broken link
//   - Rate limiting: ProofOfWork searches for a solution with a leading-zero digest
//
// # Usage
//
// Create a ledger with a signature Verifier, then append signed transactions.
// Validate can be called at any time to check the chain links. Observers
// registered with WithObserver are notified of every appended block.
package ledger

package ledger

// Validate walks the whole chain and checks that the genesis block has an
// empty previous hash and that every later block links to the hash of its
// predecessor. It returns a *TamperedError for the first broken link.
//
// Thread-safety: This method is safe for concurrent access.
func (l *Ledger) Validate() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return validateChain(l.blocks)
}

func validateChain(blocks []*Block) error {
	if len(blocks) == 0 {
		panic("ledger: validate empty chain")
	}
	if blocks[0].PrevHash() != "" {
		return &TamperedError{Index: 0, Reason: "genesis block has a previous hash"}
	}

	prevHash := blocks[0].Hash()
	for i := 1; i < len(blocks); i++ {
		if blocks[i].PrevHash() != prevHash {
			return &TamperedError{
				Index:  i,
				Reason: "previous hash " + blocks[i].PrevHash() + " does not match " + prevHash,
			}
		}
		prevHash = blocks[i].Hash()
	}
	return nil
}

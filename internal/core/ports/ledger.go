package ports

import "context"

// Receipt is the outcome of a mined transaction.
type Receipt struct {
	TxHash      string
	Success     bool
	BlockNumber uint64
}

// Ledger looks up transaction receipts on an external ledger.
type Ledger interface {
	// TransactionReceipt returns found=false while the transaction is pending.
	TransactionReceipt(ctx context.Context, txHash string) (Receipt, bool, error)
}

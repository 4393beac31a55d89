package repositories

import (
	"context"
)

// TxFn is a function executed within a transaction context
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside a single database transaction.
// Repositories invoked with the transaction context join it automatically.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

package repo

import "context"

// Transactor runs fn inside a multi-document transaction. Repository calls
// made with the context passed to fn take part in it.
type Transactor interface {
	SupportsTransactions() bool
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

package shared

import "context"

// UnitOfWork runs a function inside a single storage transaction. Every
// mutating ledger operation executes through it so that gate reads (period
// lock, budget) and the writes they guard share one transaction, and a
// failure mid-operation leaves no partial entry.
//
// Repositories participate by honouring the transaction carried in the
// context passed to fn.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

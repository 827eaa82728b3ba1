package ports

import "context"

// Ledger abstracts fund custody. Every call is atomic and all-or-nothing;
// the engine issues at most one movement call per transition, and each hold
// is settled exactly once (the adapter rejects a second movement on the same
// escrow reference).
type Ledger interface {
	// Lock escrows amount from the paying principal and returns the escrow
	// reference for later settlement.
	Lock(ctx context.Context, amount int64, from string) (string, error)
	// Release pays the full remaining hold to a single recipient.
	Release(ctx context.Context, escrowRef, to string) error
	// Refund returns the full remaining hold to a single recipient.
	Refund(ctx context.Context, escrowRef, to string) error
	// Split divides the hold between two recipients; the shares must sum to
	// the held amount.
	Split(ctx context.Context, escrowRef, toA string, amountA int64, toB string, amountB int64) error
}

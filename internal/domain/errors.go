package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidState        = errors.New("invalid state for action")
	ErrInvalidInput        = errors.New("invalid input")
	ErrLedgerFailure       = errors.New("ledger failure")
	ErrConflict            = errors.New("conflict")
	ErrIdempotencyConflict = errors.New("idempotency key reused with different payload")
	ErrEscrowClosed        = errors.New("escrow already settled")
	ErrInvalidEnvelope     = errors.New("invalid envelope")
)

// Package ledger provides an in-process fund-custody adapter. It keeps
// signed balances per principal and one hold per escrow reference; every
// movement is atomic under a single mutex and each hold settles exactly once.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	holdStatusActive  = "active"
	holdStatusSettled = "settled"
)

var (
	ErrUnknownEscrow = errors.New("unknown escrow reference")
	ErrHoldSettled   = errors.New("escrow hold already settled")
	ErrBadSplit      = errors.New("split amounts do not sum to held amount")
)

type hold struct {
	ref      string
	from     string
	amount   int64
	status   string
	lockedAt time.Time
}

type Ledger struct {
	mu       sync.Mutex
	balances map[string]int64
	holds    map[string]*hold
	nowFn    func() time.Time
}

func New() *Ledger {
	return &Ledger{
		balances: make(map[string]int64),
		holds:    make(map[string]*hold),
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

// Deposit credits a principal. The external wallet layer is authoritative
// for real balances; this exists for local runtimes and tests.
func (l *Ledger) Deposit(principal string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[principal] += amount
}

func (l *Ledger) Balance(principal string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[principal]
}

func (l *Ledger) Lock(_ context.Context, amount int64, from string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("lock amount must be positive, got %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	h := &hold{
		ref:      uuid.NewString(),
		from:     from,
		amount:   amount,
		status:   holdStatusActive,
		lockedAt: l.nowFn(),
	}
	l.balances[from] -= amount
	l.holds[h.ref] = h
	return h.ref, nil
}

func (l *Ledger) Release(_ context.Context, escrowRef, to string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, err := l.activeHold(escrowRef)
	if err != nil {
		return err
	}
	l.balances[to] += h.amount
	h.status = holdStatusSettled
	return nil
}

func (l *Ledger) Refund(_ context.Context, escrowRef, to string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, err := l.activeHold(escrowRef)
	if err != nil {
		return err
	}
	l.balances[to] += h.amount
	h.status = holdStatusSettled
	return nil
}

func (l *Ledger) Split(_ context.Context, escrowRef, toA string, amountA int64, toB string, amountB int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, err := l.activeHold(escrowRef)
	if err != nil {
		return err
	}
	if amountA < 0 || amountB < 0 || amountA+amountB != h.amount {
		return ErrBadSplit
	}
	l.balances[toA] += amountA
	l.balances[toB] += amountB
	h.status = holdStatusSettled
	return nil
}

func (l *Ledger) activeHold(escrowRef string) (*hold, error) {
	h, ok := l.holds[escrowRef]
	if !ok {
		return nil, ErrUnknownEscrow
	}
	if h.status != holdStatusActive {
		return nil, ErrHoldSettled
	}
	return h, nil
}

package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestLockAndRelease(t *testing.T) {
	t.Parallel()

	l := New()
	l.Deposit("client", 5_000_000)

	ref, err := l.Lock(context.Background(), 2_000_000, "client")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if got := l.Balance("client"); got != 3_000_000 {
		t.Fatalf("client balance after lock = %d", got)
	}
	if err := l.Release(context.Background(), ref, "freelancer"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := l.Balance("freelancer"); got != 2_000_000 {
		t.Fatalf("freelancer balance after release = %d", got)
	}
}

func TestHoldSettlesExactlyOnce(t *testing.T) {
	t.Parallel()

	l := New()
	ref, err := l.Lock(context.Background(), 1_000_000, "client")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := l.Refund(context.Background(), ref, "client"); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if err := l.Release(context.Background(), ref, "freelancer"); !errors.Is(err, ErrHoldSettled) {
		t.Fatalf("expected ErrHoldSettled, got %v", err)
	}
	if err := l.Refund(context.Background(), ref, "client"); !errors.Is(err, ErrHoldSettled) {
		t.Fatalf("expected ErrHoldSettled on second refund, got %v", err)
	}
	if got := l.Balance("client"); got != 0 {
		t.Fatalf("client balance = %d, want 0 after lock and refund", got)
	}
}

func TestSplitMustConsumeFullHold(t *testing.T) {
	t.Parallel()

	l := New()
	ref, err := l.Lock(context.Background(), 900_000, "client")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := l.Split(context.Background(), ref, "client", 500_000, "freelancer", 500_000); !errors.Is(err, ErrBadSplit) {
		t.Fatalf("expected ErrBadSplit for over-allocation, got %v", err)
	}
	if err := l.Split(context.Background(), ref, "client", 300_000, "freelancer", 600_000); err != nil {
		t.Fatalf("exact split: %v", err)
	}
	if got := l.Balance("client"); got != -600_000 {
		t.Fatalf("client balance = %d, want -600000", got)
	}
	if got := l.Balance("freelancer"); got != 600_000 {
		t.Fatalf("freelancer balance = %d, want 600000", got)
	}
}

func TestUnknownEscrowAndBadLock(t *testing.T) {
	t.Parallel()

	l := New()
	if err := l.Release(context.Background(), "missing", "freelancer"); !errors.Is(err, ErrUnknownEscrow) {
		t.Fatalf("expected ErrUnknownEscrow, got %v", err)
	}
	if _, err := l.Lock(context.Background(), 0, "client"); err == nil {
		t.Fatal("zero lock accepted")
	}
	if _, err := l.Lock(context.Background(), -10, "client"); err == nil {
		t.Fatal("negative lock accepted")
	}
}

package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateOutcome(t *testing.T) {
	t.Parallel()

	const escrowed = int64(1_000_000)

	if err := ValidateOutcome(Outcome{Kind: OutcomeRelease}, escrowed); err != nil {
		t.Fatalf("release rejected: %v", err)
	}
	if err := ValidateOutcome(Outcome{Kind: OutcomeRefund}, escrowed); err != nil {
		t.Fatalf("refund rejected: %v", err)
	}
	if err := ValidateOutcome(Outcome{Kind: OutcomeSplit, ClientAmount: 400_000, FreelancerAmount: 600_000}, escrowed); err != nil {
		t.Fatalf("exact split rejected: %v", err)
	}
	if err := ValidateOutcome(Outcome{Kind: OutcomeSplit, ClientAmount: escrowed, FreelancerAmount: 0}, escrowed); err != nil {
		t.Fatalf("full split to client rejected: %v", err)
	}

	bad := []Outcome{
		{Kind: OutcomeSplit, ClientAmount: 1, FreelancerAmount: escrowed},
		{Kind: OutcomeSplit, ClientAmount: escrowed - 2, FreelancerAmount: 1},
		{Kind: OutcomeSplit, ClientAmount: -1, FreelancerAmount: escrowed + 1},
		{Kind: OutcomeKind("burn")},
		{},
	}
	for _, outcome := range bad {
		if !errors.Is(ValidateOutcome(outcome, escrowed), ErrInvalidInput) {
			t.Fatalf("outcome %+v accepted", outcome)
		}
	}
}

func TestValidateDisputeReason(t *testing.T) {
	t.Parallel()

	if err := ValidateDisputeReason("deliverable does not match brief"); err != nil {
		t.Fatalf("valid reason rejected: %v", err)
	}
	if !errors.Is(ValidateDisputeReason("   "), ErrInvalidInput) {
		t.Fatal("blank reason accepted")
	}
	if !errors.Is(ValidateDisputeReason(strings.Repeat("x", MaxDescriptionLen+1)), ErrInvalidInput) {
		t.Fatal("overlong reason accepted")
	}
}

func TestOutcomeFavorsFreelancer(t *testing.T) {
	t.Parallel()

	if !(Outcome{Kind: OutcomeRelease}).FavorsFreelancer() {
		t.Fatal("release should favor the freelancer")
	}
	if (Outcome{Kind: OutcomeRefund}).FavorsFreelancer() {
		t.Fatal("refund should not favor the freelancer")
	}
	if (Outcome{Kind: OutcomeSplit, ClientAmount: 1, FreelancerAmount: 1}).FavorsFreelancer() {
		t.Fatal("split should not favor the freelancer")
	}
}

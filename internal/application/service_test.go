package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	eventadapter "github.com/worklane/escrow-engine/internal/adapters/events"
	ledgeradapter "github.com/worklane/escrow-engine/internal/adapters/ledger"
	"github.com/worklane/escrow-engine/internal/adapters/memory"
	"github.com/worklane/escrow-engine/internal/application"
	"github.com/worklane/escrow-engine/internal/domain"
)

type fixture struct {
	svc       *application.Service
	ledger    *ledgeradapter.Ledger
	domain    *eventadapter.MemoryPublisher
	analytics *eventadapter.MemoryPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewRepositories()
	l := ledgeradapter.New()
	domainPub := eventadapter.NewMemoryPublisher()
	analyticsPub := eventadapter.NewMemoryPublisher()
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName: "escrow-engine-test",
			Arbitrators: []string{"arbiter"},
		},
		Projects:     repos.Projects,
		Disputes:     repos.Disputes,
		Escrows:      repos.Escrows,
		Ratings:      repos.Ratings,
		Idempotency:  repos.Idempotency,
		Outbox:       repos.Outbox,
		Ledger:       l,
		DomainEvents: domainPub,
		Analytics:    analyticsPub,
	})
	return &fixture{svc: svc, ledger: l, domain: domainPub, analytics: analyticsPub}
}

func createInput() application.CreateProjectInput {
	return application.CreateProjectInput{
		Title:       "landing page",
		Description: "build and ship the landing page",
		Budget:      1_000_000,
		Deadline:    time.Now().UTC().Add(14 * 24 * time.Hour),
		Freelancer:  "bob",
	}
}

func mustCreate(t *testing.T, f *fixture) domain.Project {
	t.Helper()
	project, err := f.svc.CreateProject(context.Background(), application.Actor{SubjectID: "alice"}, createInput())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func TestFullLifecycleApproval(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.ledger.Deposit("alice", 1_000_000)

	project := mustCreate(t, f)
	if project.ID != 1 {
		t.Fatalf("first project id = %d, want 1", project.ID)
	}
	if project.Status != domain.StatusOpen {
		t.Fatalf("status after create = %q", project.Status)
	}
	if got := f.ledger.Balance("alice"); got != 0 {
		t.Fatalf("client balance after create = %d, want 0", got)
	}
	account, err := f.svc.GetProjectEscrow(ctx, project.ID)
	if err != nil {
		t.Fatalf("get escrow: %v", err)
	}
	if account.Amount != 1_000_000 || !account.Open() {
		t.Fatalf("unexpected escrow account %+v", account)
	}

	project, err = f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if project.Status != domain.StatusInProgress || project.EscrowID == "" {
		t.Fatalf("after accept: status=%q escrow_id=%q", project.Status, project.EscrowID)
	}

	project, err = f.svc.SubmitWork(ctx, application.Actor{SubjectID: "bob"}, project.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if project.Status != domain.StatusSubmitted {
		t.Fatalf("after submit: status=%q", project.Status)
	}

	rating := 4
	project, err = f.svc.ApproveWork(ctx, application.Actor{SubjectID: "alice"}, project.ID, &rating)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if project.Status != domain.StatusCompleted || project.EscrowID != "" {
		t.Fatalf("after approve: status=%q escrow_id=%q", project.Status, project.EscrowID)
	}
	if got := f.ledger.Balance("bob"); got != 1_000_000 {
		t.Fatalf("freelancer balance = %d, want 1000000", got)
	}

	entry, err := f.svc.GetUserRating(ctx, "bob")
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if entry.Count != 1 || entry.TotalScore != 4 {
		t.Fatalf("rating entry = %+v", entry)
	}

	account, err = f.svc.GetProjectEscrow(ctx, project.ID)
	if err != nil {
		t.Fatalf("get escrow after approve: %v", err)
	}
	if account.Open() || account.Disposition != domain.DispositionReleased {
		t.Fatalf("escrow not closed as released: %+v", account)
	}
}

func TestApproveWithoutRatingUsesDefault(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	project := mustCreate(t, f)
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.SubmitWork(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.ApproveWork(ctx, application.Actor{SubjectID: "alice"}, project.ID, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}
	entry, err := f.svc.GetUserRating(ctx, "bob")
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if entry.TotalScore != 5 || entry.Count != 1 {
		t.Fatalf("default rating entry = %+v", entry)
	}
}

func TestCancelRefundsClient(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.ledger.Deposit("alice", 1_000_000)
	project := mustCreate(t, f)

	project, err := f.svc.CancelProject(ctx, application.Actor{SubjectID: "alice"}, project.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if project.Status != domain.StatusCancelled {
		t.Fatalf("status after cancel = %q", project.Status)
	}
	if got := f.ledger.Balance("alice"); got != 1_000_000 {
		t.Fatalf("client balance after refund = %d", got)
	}
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("accept after cancel: expected ErrInvalidState, got %v", err)
	}
}

func TestRoleGates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	project := mustCreate(t, f)

	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "alice"}, project.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("client accepting own project: expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.svc.CancelProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("freelancer cancelling: expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "mallory"}, project.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("stranger accepting: expected ErrUnauthorized, got %v", err)
	}

	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.ApproveWork(ctx, application.Actor{SubjectID: "alice"}, project.ID, nil); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("approve before submit: expected ErrInvalidState, got %v", err)
	}
	// role is checked before state, so the wrong caller in the wrong state
	// still sees the authorization failure
	if _, err := f.svc.ApproveWork(ctx, application.Actor{SubjectID: "bob"}, project.ID, nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("freelancer approving: expected ErrUnauthorized, got %v", err)
	}
}

func TestInvalidCreateDoesNotAdvanceCounter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	bad := createInput()
	bad.Budget = -1
	if _, err := f.svc.CreateProject(ctx, application.Actor{SubjectID: "alice"}, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	self := createInput()
	self.Freelancer = "alice"
	if _, err := f.svc.CreateProject(ctx, application.Actor{SubjectID: "alice"}, self); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("self-hire: expected ErrInvalidInput, got %v", err)
	}

	counter, err := f.svc.GetProjectCounter(ctx)
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	if counter != 0 {
		t.Fatalf("counter advanced to %d on rejected creations", counter)
	}

	project := mustCreate(t, f)
	if project.ID != 1 {
		t.Fatalf("id after rejected creations = %d, want 1", project.ID)
	}
}

func TestDisputeAndResolveSplit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.ledger.Deposit("alice", 1_000_000)
	project := mustCreate(t, f)
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.SubmitWork(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	dispute, err := f.svc.DisputeProject(ctx, application.Actor{SubjectID: "alice"}, project.ID, "half the pages missing")
	if err != nil {
		t.Fatalf("dispute: %v", err)
	}
	if dispute.Initiator != "alice" || dispute.Resolved {
		t.Fatalf("dispute = %+v", dispute)
	}
	status, err := f.svc.GetProjectStatus(ctx, project.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != domain.StatusDisputed {
		t.Fatalf("status = %q, want disputed", status)
	}

	// only the configured arbitrator may resolve
	if _, err := f.svc.ResolveDispute(ctx, application.Actor{SubjectID: "alice"}, project.ID, application.ResolveDisputeInput{Outcome: "refund"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("party resolving: expected ErrUnauthorized, got %v", err)
	}
	// split must consume the full hold
	if _, err := f.svc.ResolveDispute(ctx, application.Actor{SubjectID: "arbiter"}, project.ID, application.ResolveDisputeInput{
		Outcome: "split", ClientAmount: 100, FreelancerAmount: 100,
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("short split: expected ErrInvalidInput, got %v", err)
	}

	project, err = f.svc.ResolveDispute(ctx, application.Actor{SubjectID: "arbiter"}, project.ID, application.ResolveDisputeInput{
		Outcome: "split", ClientAmount: 400_000, FreelancerAmount: 600_000,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if project.Status != domain.StatusCompleted {
		t.Fatalf("status after resolve = %q", project.Status)
	}
	if got := f.ledger.Balance("alice"); got != 400_000 {
		t.Fatalf("client balance = %d, want 400000", got)
	}
	if got := f.ledger.Balance("bob"); got != 600_000 {
		t.Fatalf("freelancer balance = %d, want 600000", got)
	}

	// resolved dispute stays queryable
	resolved, err := f.svc.GetDispute(ctx, project.ID)
	if err != nil {
		t.Fatalf("get dispute: %v", err)
	}
	if !resolved.Resolved || resolved.Outcome == nil || resolved.Outcome.Kind != domain.OutcomeSplit {
		t.Fatalf("resolved dispute = %+v", resolved)
	}
	if resolved.ResolvedBy != "arbiter" {
		t.Fatalf("resolved_by = %q", resolved.ResolvedBy)
	}

	// a second resolution can never move funds again
	if _, err := f.svc.ResolveDispute(ctx, application.Actor{SubjectID: "arbiter"}, project.ID, application.ResolveDisputeInput{Outcome: "refund"}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second resolve: expected ErrInvalidState, got %v", err)
	}
	if got := f.ledger.Balance("alice") + f.ledger.Balance("bob"); got != 1_000_000 {
		t.Fatalf("total settled = %d, want exactly the escrowed amount", got)
	}
}

func TestResolveReleaseRatesFreelancer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	project := mustCreate(t, f)
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.DisputeProject(ctx, application.Actor{SubjectID: "bob"}, project.ID, "client unresponsive"); err != nil {
		t.Fatalf("dispute: %v", err)
	}
	if _, err := f.svc.ResolveDispute(ctx, application.Actor{SubjectID: "arbiter"}, project.ID, application.ResolveDisputeInput{Outcome: "release"}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	entry, err := f.svc.GetUserRating(ctx, "bob")
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if entry.Count != 1 {
		t.Fatalf("release outcome should rate the freelancer, entry = %+v", entry)
	}

	f2 := newFixture(t)
	project2 := mustCreate(t, f2)
	if _, err := f2.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project2.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f2.svc.DisputeProject(ctx, application.Actor{SubjectID: "alice"}, project2.ID, "work abandoned"); err != nil {
		t.Fatalf("dispute: %v", err)
	}
	if _, err := f2.svc.ResolveDispute(ctx, application.Actor{SubjectID: "arbiter"}, project2.ID, application.ResolveDisputeInput{Outcome: "refund"}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	entry2, err := f2.svc.GetUserRating(ctx, "bob")
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if entry2.Count != 0 {
		t.Fatalf("refund outcome should not rate the freelancer, entry = %+v", entry2)
	}
}

func TestConcurrentSubmitHasOneWinner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	project := mustCreate(t, f)
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.SubmitWork(ctx, application.Actor{SubjectID: "bob"}, project.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrInvalidState):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("submit winners = %d, want exactly 1", wins)
	}
}

func TestIdempotentCreateReplay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	actor := application.Actor{SubjectID: "alice", IdempotencyKey: "create:alice:landing"}
	input := createInput()

	first, err := f.svc.CreateProject(ctx, actor, input)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := f.svc.CreateProject(ctx, actor, input)
	if err != nil {
		t.Fatalf("replay create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("replay allocated a new project: %d vs %d", first.ID, second.ID)
	}
	counter, err := f.svc.GetProjectCounter(ctx)
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	if counter != 1 {
		t.Fatalf("counter = %d after idempotent replay, want 1", counter)
	}

	// same key with a different payload is a conflict
	other := input
	other.Budget = 2_000_000
	if _, err := f.svc.CreateProject(ctx, actor, other); !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestIdempotentDisputeReplay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	project := mustCreate(t, f)
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	actor := application.Actor{SubjectID: "alice", IdempotencyKey: "dispute:alice:1"}
	first, err := f.svc.DisputeProject(ctx, actor, project.ID, "half the pages missing")
	if err != nil {
		t.Fatalf("first dispute: %v", err)
	}
	second, err := f.svc.DisputeProject(ctx, actor, project.ID, "half the pages missing")
	if err != nil {
		t.Fatalf("replay dispute: %v", err)
	}
	if second.ProjectID != first.ProjectID || second.Initiator != "alice" || second.Reason != first.Reason {
		t.Fatalf("replay returned a different dispute: first=%+v second=%+v", first, second)
	}
	if second.OpenedAt.IsZero() {
		t.Fatalf("replay returned an empty dispute: %+v", second)
	}
}

func TestTransitionIdempotencyKeyCoversPayload(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	project := mustCreate(t, f)
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.DisputeProject(ctx, application.Actor{SubjectID: "alice"}, project.ID, "scope fight"); err != nil {
		t.Fatalf("dispute: %v", err)
	}

	arbiter := application.Actor{SubjectID: "arbiter", IdempotencyKey: "resolve:1"}
	if _, err := f.svc.ResolveDispute(ctx, arbiter, project.ID, application.ResolveDisputeInput{Outcome: "refund"}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// replaying the same key with the same outcome serves the cached result
	replay, err := f.svc.ResolveDispute(ctx, arbiter, project.ID, application.ResolveDisputeInput{Outcome: "refund"})
	if err != nil {
		t.Fatalf("replay resolve: %v", err)
	}
	if replay.Status != domain.StatusCompleted {
		t.Fatalf("replay status = %q", replay.Status)
	}
	// the same key with a different outcome is a conflict, not a cached success
	if _, err := f.svc.ResolveDispute(ctx, arbiter, project.ID, application.ResolveDisputeInput{Outcome: "release"}); !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("different outcome under same key: expected ErrIdempotencyConflict, got %v", err)
	}

	// same property on approve-work ratings
	f2 := newFixture(t)
	project2 := mustCreate(t, f2)
	if _, err := f2.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project2.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f2.svc.SubmitWork(ctx, application.Actor{SubjectID: "bob"}, project2.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	client := application.Actor{SubjectID: "alice", IdempotencyKey: "approve:1"}
	three := 3
	if _, err := f2.svc.ApproveWork(ctx, client, project2.ID, &three); err != nil {
		t.Fatalf("approve: %v", err)
	}
	five := 5
	if _, err := f2.svc.ApproveWork(ctx, client, project2.ID, &five); !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("different rating under same key: expected ErrIdempotencyConflict, got %v", err)
	}
}

type failingRatings struct{}

func (failingRatings) Record(context.Context, string, int) (domain.RatingEntry, error) {
	return domain.RatingEntry{}, errors.New("ratings store down")
}

func (failingRatings) Get(_ context.Context, principal string) (domain.RatingEntry, error) {
	return domain.RatingEntry{Principal: principal}, nil
}

func TestApproveSucceedsWhenRatingStoreFails(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	l := ledgeradapter.New()
	svc := application.NewService(application.Dependencies{
		Config:       application.Config{Arbitrators: []string{"arbiter"}},
		Projects:     repos.Projects,
		Disputes:     repos.Disputes,
		Escrows:      repos.Escrows,
		Ratings:      failingRatings{},
		Idempotency:  repos.Idempotency,
		Outbox:       repos.Outbox,
		Ledger:       l,
		DomainEvents: eventadapter.NewMemoryPublisher(),
		Analytics:    eventadapter.NewMemoryPublisher(),
	})

	ctx := context.Background()
	project, err := svc.CreateProject(ctx, application.Actor{SubjectID: "alice"}, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.SubmitWork(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	project, err = svc.ApproveWork(ctx, application.Actor{SubjectID: "alice"}, project.ID, nil)
	if err != nil {
		t.Fatalf("approve must settle despite the rating failure: %v", err)
	}
	if project.Status != domain.StatusCompleted {
		t.Fatalf("status = %q", project.Status)
	}
	if got := l.Balance("bob"); got != 1_000_000 {
		t.Fatalf("freelancer balance = %d, funds must release regardless of the rating store", got)
	}
}

func TestEventsFlowThroughOutbox(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	project := mustCreate(t, f)
	if _, err := f.svc.AcceptProject(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.SubmitWork(ctx, application.Actor{SubjectID: "bob"}, project.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.ApproveWork(ctx, application.Actor{SubjectID: "alice"}, project.ID, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}

	sent, err := f.svc.FlushOutbox(ctx)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if sent != 4 {
		t.Fatalf("flushed %d events, want 4", sent)
	}
	events := f.domain.Events()
	wantOrder := []string{
		domain.EventProjectCreated,
		domain.EventProjectAccepted,
		domain.EventWorkSubmitted,
		domain.EventWorkApproved,
	}
	if len(events) != len(wantOrder) {
		t.Fatalf("published %d events, want %d", len(events), len(wantOrder))
	}
	for i, want := range wantOrder {
		if events[i].EventType != want {
			t.Fatalf("event[%d] = %q, want %q", i, events[i].EventType, want)
		}
		if events[i].EventClass != domain.CanonicalEventClass(want) {
			t.Fatalf("event[%d] class = %q", i, events[i].EventClass)
		}
	}

	// second flush is a no-op
	sent, err = f.svc.FlushOutbox(ctx)
	if err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if sent != 0 {
		t.Fatalf("second flush sent %d events", sent)
	}

	// the rating emitted with approve goes straight to analytics
	analytics := f.analytics.Events()
	if len(analytics) != 1 || analytics[0].EventType != domain.EventRatingRecorded {
		t.Fatalf("analytics events = %+v", analytics)
	}
}

func TestListProjectsByPrincipal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	first := mustCreate(t, f)
	input := createInput()
	input.Freelancer = "dave"
	second, err := f.svc.CreateProject(ctx, application.Actor{SubjectID: "alice"}, input)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	mine, err := f.svc.ListProjectsByPrincipal(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != first.ID || mine[1].ID != second.ID {
		t.Fatalf("alice's projects = %+v", mine)
	}
	bobs, err := f.svc.ListProjectsByPrincipal(ctx, "bob")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bobs) != 1 || bobs[0].ID != first.ID {
		t.Fatalf("bob's projects = %+v", bobs)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, err := f.svc.GetProject(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.GetDispute(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing dispute, got %v", err)
	}
}

package domain

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	StatusOpen       ProjectStatus = "open"
	StatusInProgress ProjectStatus = "in_progress"
	StatusSubmitted  ProjectStatus = "submitted"
	StatusCompleted  ProjectStatus = "completed"
	StatusDisputed   ProjectStatus = "disputed"
	StatusCancelled  ProjectStatus = "cancelled"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleArbitrator Role = "arbitrator"
	RoleNone       Role = ""
)

type Action string

const (
	ActionAccept  Action = "accept-project"
	ActionSubmit  Action = "submit-work"
	ActionApprove Action = "approve-work"
	ActionDispute Action = "dispute-project"
	ActionResolve Action = "resolve-dispute"
	ActionCancel  Action = "cancel-project"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MinRating         = 1
	MaxRating         = 5
)

// Project is the canonical record for one escrowed engagement. Amounts are
// integer microSTX; the budget is fixed at creation. EscrowID is populated
// only while work is underway (in_progress, submitted, disputed); the escrow
// account row keeps the ledger reference for the full lifetime of the hold.
type Project struct {
	ID          uint64        `json:"id"`
	Client      string        `json:"client"`
	Freelancer  string        `json:"freelancer"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Budget      int64         `json:"budget"`
	Deadline    time.Time     `json:"deadline"`
	Status      ProjectStatus `json:"status"`
	EscrowID    string        `json:"escrow_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (p Project) Terminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusCancelled
}

// EscrowAccount tracks the locked funds for a project from creation until
// settlement. Disposition records which terminal movement consumed the hold.
type EscrowAccount struct {
	ProjectID   uint64     `json:"project_id"`
	EscrowRef   string     `json:"escrow_ref"`
	Amount      int64      `json:"amount"`
	Disposition string     `json:"disposition,omitempty"`
	LockedAt    time.Time  `json:"locked_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

const (
	DispositionReleased = "released"
	DispositionRefunded = "refunded"
	DispositionSplit    = "split"
)

func (e EscrowAccount) Open() bool { return e.Disposition == "" }

var validFrom = map[Action][]ProjectStatus{
	ActionAccept:  {StatusOpen},
	ActionSubmit:  {StatusInProgress},
	ActionApprove: {StatusSubmitted},
	ActionDispute: {StatusInProgress, StatusSubmitted},
	ActionResolve: {StatusDisputed},
	ActionCancel:  {StatusOpen},
}

// ValidateTransition rejects an action not legal from the current status.
func ValidateTransition(from ProjectStatus, action Action) error {
	for _, s := range validFrom[action] {
		if s == from {
			return nil
		}
	}
	return ErrInvalidState
}

var requiredRoles = map[Action][]Role{
	ActionAccept:  {RoleFreelancer},
	ActionSubmit:  {RoleFreelancer},
	ActionApprove: {RoleClient},
	ActionDispute: {RoleClient, RoleFreelancer},
	ActionResolve: {RoleArbitrator},
	ActionCancel:  {RoleClient},
}

// AuthorizeAction checks the resolved caller role against the role the action
// requires. The role is resolved once, before the state machine runs.
func AuthorizeAction(action Action, role Role) error {
	for _, r := range requiredRoles[action] {
		if r == role {
			return nil
		}
	}
	return ErrUnauthorized
}

// ResolveRole maps a principal to its role on a project. Arbitrator
// membership wins over party roles so a misconfigured arbitrator principal
// that is also a party cannot resolve its own dispute by accident.
func ResolveRole(p Project, principal string, arbitrators []string) Role {
	for _, a := range arbitrators {
		if a == principal {
			return RoleArbitrator
		}
	}
	switch principal {
	case p.Client:
		return RoleClient
	case p.Freelancer:
		return RoleFreelancer
	}
	return RoleNone
}

func ValidateProjectInput(title, description string, budget int64, deadline time.Time, freelancer string) error {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > MaxTitleLen {
		return ErrInvalidInput
	}
	if len(description) > MaxDescriptionLen {
		return ErrInvalidInput
	}
	if budget <= 0 {
		return ErrInvalidInput
	}
	if deadline.IsZero() {
		return ErrInvalidInput
	}
	if strings.TrimSpace(freelancer) == "" {
		return ErrInvalidInput
	}
	return nil
}

func ValidateRating(score int) error {
	if score < MinRating || score > MaxRating {
		return ErrInvalidInput
	}
	return nil
}

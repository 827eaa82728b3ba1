package postgres

import "time"

type projectModel struct {
	ProjectID   uint64     `gorm:"column:project_id;primaryKey"`
	Client      string     `gorm:"column:client"`
	Freelancer  string     `gorm:"column:freelancer"`
	Title       string     `gorm:"column:title"`
	Description string     `gorm:"column:description"`
	Budget      int64      `gorm:"column:budget"`
	Deadline    time.Time  `gorm:"column:deadline"`
	Status      string     `gorm:"column:status"`
	EscrowID    *string    `gorm:"column:escrow_id"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (projectModel) TableName() string { return "projects" }

type disputeModel struct {
	ProjectID        uint64     `gorm:"column:project_id;primaryKey"`
	Initiator        string     `gorm:"column:initiator"`
	Reason           string     `gorm:"column:reason"`
	OpenedAt         time.Time  `gorm:"column:opened_at"`
	Resolved         bool       `gorm:"column:resolved"`
	OutcomeKind      *string    `gorm:"column:outcome_kind"`
	ClientAmount     *int64     `gorm:"column:client_amount"`
	FreelancerAmount *int64     `gorm:"column:freelancer_amount"`
	ResolvedBy       *string    `gorm:"column:resolved_by"`
	ResolvedAt       *time.Time `gorm:"column:resolved_at"`
}

func (disputeModel) TableName() string { return "disputes" }

type escrowAccountModel struct {
	ProjectID   uint64     `gorm:"column:project_id;primaryKey"`
	EscrowRef   string     `gorm:"column:escrow_ref"`
	Amount      int64      `gorm:"column:amount"`
	Disposition *string    `gorm:"column:disposition"`
	LockedAt    time.Time  `gorm:"column:locked_at"`
	ClosedAt    *time.Time `gorm:"column:closed_at"`
}

func (escrowAccountModel) TableName() string { return "escrow_accounts" }

type ratingModel struct {
	Principal  string `gorm:"column:principal;primaryKey"`
	TotalScore int64  `gorm:"column:total_score"`
	Count      int64  `gorm:"column:count"`
}

func (ratingModel) TableName() string { return "ratings" }

type counterModel struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value uint64 `gorm:"column:value"`
}

func (counterModel) TableName() string { return "counters" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body;type:jsonb"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "escrow_idempotency" }

type outboxModel struct {
	RecordID   string     `gorm:"column:record_id;primaryKey"`
	EventClass string     `gorm:"column:event_class"`
	Envelope   string     `gorm:"column:envelope;type:jsonb"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	SentAt     *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "escrow_outbox" }

package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	EventClass       string          `json:"event_class,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type ProjectCreatedPayload struct {
	ProjectID  uint64 `json:"project_id,string"`
	Client     string `json:"client"`
	Freelancer string `json:"freelancer"`
	Budget     int64  `json:"budget"`
	Deadline   string `json:"deadline"`
	CreatedAt  string `json:"created_at"`
}

type ProjectTransitionPayload struct {
	ProjectID uint64 `json:"project_id,string"`
	Status    string `json:"status"`
	Actor     string `json:"actor"`
	At        string `json:"at"`
}

type ProjectDisputedPayload struct {
	ProjectID uint64 `json:"project_id,string"`
	Initiator string `json:"initiator"`
	Reason    string `json:"reason"`
	OpenedAt  string `json:"opened_at"`
}

type DisputeResolvedPayload struct {
	ProjectID        uint64 `json:"project_id,string"`
	Outcome          string `json:"outcome"`
	ClientAmount     int64  `json:"client_amount"`
	FreelancerAmount int64  `json:"freelancer_amount"`
	ResolvedBy       string `json:"resolved_by"`
	ResolvedAt       string `json:"resolved_at"`
}

type RatingRecordedPayload struct {
	Principal string  `json:"principal"`
	Score     int     `json:"score"`
	Average   float64 `json:"average"`
	Count     int64   `json:"count"`
}

package domain

const (
	CanonicalEventClassDomain        = "domain"
	CanonicalEventClassAnalyticsOnly = "analytics_only"
	CanonicalEventClassOps           = "ops"
)

const (
	EventProjectCreated   = "project.created"
	EventProjectAccepted  = "project.accepted"
	EventWorkSubmitted    = "work.submitted"
	EventWorkApproved     = "work.approved"
	EventProjectCancelled = "project.cancelled"
	EventProjectDisputed  = "project.disputed"
	EventDisputeResolved  = "dispute.resolved"
	EventRatingRecorded   = "rating.recorded"
)

func IsCanonicalEmittedEvent(eventType string) bool {
	switch eventType {
	case EventProjectCreated, EventProjectAccepted, EventWorkSubmitted,
		EventWorkApproved, EventProjectCancelled, EventProjectDisputed,
		EventDisputeResolved, EventRatingRecorded:
		return true
	default:
		return false
	}
}

func CanonicalEventClass(eventType string) string {
	switch eventType {
	case EventProjectCreated, EventProjectAccepted, EventWorkSubmitted,
		EventWorkApproved, EventProjectCancelled, EventProjectDisputed:
		return CanonicalEventClassDomain
	case EventDisputeResolved, EventRatingRecorded:
		return CanonicalEventClassAnalyticsOnly
	default:
		return ""
	}
}

func CanonicalPartitionKeyPath(eventType string) string {
	switch eventType {
	case EventRatingRecorded:
		return "data.principal"
	default:
		if IsCanonicalEmittedEvent(eventType) {
			return "data.project_id"
		}
		return ""
	}
}

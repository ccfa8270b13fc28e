package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CASE_STATUS_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers and reconstructed
// by subscribers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes for the case lifecycle.
const (
	TypeCaseStatusChanged = "CASE_STATUS_CHANGED"
	TypeCaseStepCompleted = "CASE_STEP_COMPLETED"
	TypeCaseDataSynced    = "CASE_DATA_SYNCED"
)

// NewCaseStatusChanged builds the event emitted when an advisor moves a case
// to a new lifecycle status.
func NewCaseStatusChanged(caseId, advisorId uuid.UUID, oldStatus, newStatus string) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeCaseStatusChanged,
		Data: map[string]interface{}{
			"case_id":     caseId.String(),
			"advisor_id":  advisorId.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
			"entity_type": "case",
			"entity_id":   caseId.String(),
			"occurred_at": now,
		},
		OccurredAt: now,
	}
}

// NewCaseStepCompleted builds the event emitted when the server confirms a
// workflow step as completed.
func NewCaseStepCompleted(caseId, advisorId uuid.UUID, step string) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeCaseStepCompleted,
		Data: map[string]interface{}{
			"case_id":     caseId.String(),
			"advisor_id":  advisorId.String(),
			"step":        step,
			"entity_type": "case",
			"entity_id":   caseId.String(),
			"occurred_at": now,
		},
		OccurredAt: now,
	}
}

// NewCaseDataSynced builds the event emitted after a reconciled collected-data
// record replaces the cache entry for a case.
func NewCaseDataSynced(caseId uuid.UUID, trigger string) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeCaseDataSynced,
		Data: map[string]interface{}{
			"case_id":     caseId.String(),
			"trigger":     trigger,
			"entity_type": "case",
			"entity_id":   caseId.String(),
			"occurred_at": now,
		},
		OccurredAt: now,
	}
}

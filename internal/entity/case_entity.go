package entity

import (
	"time"

	"github.com/google/uuid"

	"caseflow-be/internal/workflow"
)

// Case is one client engagement. The service of record owns it; we hold a
// read-through cached copy.
type Case struct {
	Id         uuid.UUID
	Name       string
	Status     workflow.Status
	AdvisorId  uuid.UUID
	ClientName string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

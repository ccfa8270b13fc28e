// Package upstream is the boundary to the remote computation service that
// owns cases, collected data, and every actual calculation. This layer only
// reads and writes; it never retries (retry policy belongs to the transport)
// and never interprets the payloads beyond decoding.
package upstream

import (
	"context"
	"time"

	"github.com/google/uuid"

	"caseflow-be/internal/entity"
	"caseflow-be/internal/workflow"
)

// CaseFilter narrows ListCases. Zero values mean "no filter".
type CaseFilter struct {
	Status    workflow.Status
	AdvisorId uuid.UUID
	Search    string
}

// CaseUpdate is a partial case write; nil fields are not sent.
type CaseUpdate struct {
	Name       *string          `json:"name,omitempty"`
	ClientName *string          `json:"client_name,omitempty"`
	Status     *workflow.Status `json:"status,omitempty"`
}

// CaseCreate holds the fields required to open a new engagement.
type CaseCreate struct {
	Name       string `json:"name"`
	ClientName string `json:"client_name,omitempty"`
}

// Client is the interface consumed by the service layer. Responses for
// collected-data writes may be partial: the server echoes the section just
// submitted and sometimes less (see the reconcile package).
type Client interface {
	GetCase(ctx context.Context, id uuid.UUID) (*entity.Case, error)
	CreateCase(ctx context.Context, req CaseCreate) (*entity.Case, error)
	UpdateCase(ctx context.Context, id uuid.UUID, partial CaseUpdate) (*entity.Case, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]*entity.Case, error)

	GetCollectedData(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error)
	UpdateCollectedData(ctx context.Context, caseId uuid.UUID, partial entity.CollectedData) (*entity.CollectedData, error)
	MarkStepComplete(ctx context.Context, caseId uuid.UUID, step workflow.StepID) (*entity.CollectedData, error)
}

// caseWire is the remote service's case representation.
type caseWire struct {
	Id         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	AdvisorId  uuid.UUID  `json:"advisor_id"`
	ClientName string     `json:"client_name"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func (w *caseWire) toEntity() *entity.Case {
	return &entity.Case{
		Id:         w.Id,
		Name:       w.Name,
		Status:     workflow.Status(w.Status),
		AdvisorId:  w.AdvisorId,
		ClientName: w.ClientName,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

package dto

import (
	"github.com/google/uuid"
)

type AdvanceStepRequest struct {
	Step string `json:"step" validate:"required"`
}

// StepView is the render state of one step plus whether click-navigation to
// it is allowed under the flow's access policy.
type StepView struct {
	Id         string `json:"id"`
	State      string `json:"state"`
	Accessible bool   `json:"accessible"`
}

// ProgressResponse is the progress snapshot for a case flow. UI consumers
// render it as-is and never mutate it.
type ProgressResponse struct {
	CaseId    uuid.UUID  `json:"case_id"`
	Flow      string     `json:"flow"`
	Current   *string    `json:"current"`
	Completed []string   `json:"completed"`
	Steps     []StepView `json:"steps"`
}

// ProgressEvent travels over the in-process bus from the progress service to
// the notification consumer after every navigation or completion event.
type ProgressEvent struct {
	CaseId       uuid.UUID        `json:"case_id"`
	AdvisorId    uuid.UUID        `json:"advisor_id"`
	AdvisorEmail string           `json:"advisor_email,omitempty"`
	CaseName     string           `json:"case_name,omitempty"`
	ReportReady  bool             `json:"report_ready"`
	Progress     ProgressResponse `json:"progress"`
}

package dto

import (
	"caseflow-be/internal/entity"
)

// UpdateCollectedDataRequest carries one or more independently-submitted
// sections. Absent sections are not sent to the server; the response may echo
// back less than what was sent (see the reconcile package).
type UpdateCollectedDataRequest struct {
	PersonalInfo     *entity.PersonalInfo     `json:"personal_info,omitempty"`
	FinancialProfile *entity.FinancialProfile `json:"financial_profile,omitempty"`
	ExistingCoverage *entity.ExistingCoverage `json:"existing_coverage,omitempty"`
	Goals            *entity.Goals            `json:"goals,omitempty"`
}

// ToEntity converts the request into the partial payload sent upstream.
func (r *UpdateCollectedDataRequest) ToEntity() entity.CollectedData {
	return entity.CollectedData{
		PersonalInfo:     r.PersonalInfo,
		FinancialProfile: r.FinancialProfile,
		ExistingCoverage: r.ExistingCoverage,
		Goals:            r.Goals,
	}
}

// IsEmpty reports whether the request carries no section at all.
func (r *UpdateCollectedDataRequest) IsEmpty() bool {
	return r.PersonalInfo == nil &&
		r.FinancialProfile == nil &&
		r.ExistingCoverage == nil &&
		r.Goals == nil
}

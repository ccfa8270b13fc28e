package entity

import (
	"caseflow-be/internal/workflow"
)

// CollectedData is the cumulative, multi-session record gathered about a case.
// Any field may be legitimately absent: either it was never collected, or the
// server's response for a given update only echoed the section just submitted.
// There is no "full record" guarantee on any write, which is why the
// reconcile package exists.

// Address is the client's home address. The server's persistence for some of
// these fields lags the client form surface (notably Country), so the whole
// struct is on the designated reconciliation paths.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// PersonalInfo is the discovery "personal" section. The partner identity
// fields are designated reconciliation paths for the same reason as Address.
type PersonalInfo struct {
	FirstName          string   `json:"first_name,omitempty"`
	LastName           string   `json:"last_name,omitempty"`
	DateOfBirth        string   `json:"date_of_birth,omitempty"`
	Email              string   `json:"email,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	MaritalStatus      string   `json:"marital_status,omitempty"`
	Dependents         *int     `json:"dependents,omitempty"`
	PartnerFirstName   string   `json:"partner_first_name,omitempty"`
	PartnerLastName    string   `json:"partner_last_name,omitempty"`
	PartnerDateOfBirth string   `json:"partner_date_of_birth,omitempty"`
	Address            *Address `json:"address,omitempty"`
}

// FinancialProfile is the financial-interview section.
type FinancialProfile struct {
	AnnualIncome        *float64 `json:"annual_income,omitempty"`
	PartnerAnnualIncome *float64 `json:"partner_annual_income,omitempty"`
	MonthlyExpenses     *float64 `json:"monthly_expenses,omitempty"`
	TotalAssets         *float64 `json:"total_assets,omitempty"`
	TotalLiabilities    *float64 `json:"total_liabilities,omitempty"`
	MortgageBalance     *float64 `json:"mortgage_balance,omitempty"`
}

// ExistingCoverage describes in-force policies.
type ExistingCoverage struct {
	LifeInsuranceAmount      *float64 `json:"life_insurance_amount,omitempty"`
	DisabilityMonthlyBenefit *float64 `json:"disability_monthly_benefit,omitempty"`
	CriticalIllnessAmount    *float64 `json:"critical_illness_amount,omitempty"`
	Provider                 string   `json:"provider,omitempty"`
}

// Goals captures what the client wants the plan to achieve.
type Goals struct {
	RetirementAge          *int     `json:"retirement_age,omitempty"`
	EducationFund          *float64 `json:"education_fund,omitempty"`
	IncomeReplacementYears *int     `json:"income_replacement_years,omitempty"`
	Notes                  string   `json:"notes,omitempty"`
}

// CollectedData groups the independently-submitted sections plus the server's
// record of completed interview steps. CompletedSteps, when present, is
// authoritative over anything tracked locally.
type CollectedData struct {
	PersonalInfo     *PersonalInfo     `json:"personal_info,omitempty"`
	FinancialProfile *FinancialProfile `json:"financial_profile,omitempty"`
	ExistingCoverage *ExistingCoverage `json:"existing_coverage,omitempty"`
	Goals            *Goals            `json:"goals,omitempty"`
	CompletedSteps   []workflow.StepID `json:"completed_steps,omitempty"`
}

package workflow

// Step ids for the top-level case workflow.
const (
	StepDiscovery      StepID = "discovery"
	StepAnalysis       StepID = "analysis"
	StepRecommendation StepID = "recommendation"
	StepReport         StepID = "report"
)

// Step ids for the discovery interview sub-flow. Each maps to an
// independently-submitted section of the collected data.
const (
	StepPersonalInfo     StepID = "personal_info"
	StepFinancialProfile StepID = "financial_profile"
	StepExistingCoverage StepID = "existing_coverage"
	StepGoals            StepID = "goals"
)

// CaseSteps is the top-level workflow. Advisors may jump around freely.
func CaseSteps() []StepID {
	return []StepID{StepDiscovery, StepAnalysis, StepRecommendation, StepReport}
}

// DiscoverySteps is the interview sub-flow. Sections unlock in order.
func DiscoverySteps() []StepID {
	return []StepID{StepPersonalInfo, StepFinancialProfile, StepExistingCoverage, StepGoals}
}

// NewCaseTracker builds the unrestricted top-level tracker.
func NewCaseTracker() *Tracker {
	t, _ := NewTracker(CaseSteps(), PolicyUnrestricted)
	return t
}

// NewDiscoveryTracker builds the strict-sequential interview tracker.
func NewDiscoveryTracker() *Tracker {
	t, _ := NewTracker(DiscoverySteps(), PolicyStrictSequential)
	return t
}

package workflow

import (
	"fmt"

	"caseflow-be/internal/apperror"
)

// Status is the case lifecycle state. The intended progression is a single
// forward path (Draft through Completed) with Archived as a side exit from any
// non-terminal state. The model does not enforce transitions; it supplies
// metadata, and the service of record accepts whatever status the advisor sets.
type Status string

const (
	StatusDraft          Status = "draft"
	StatusDiscovery      Status = "discovery"
	StatusAnalysis       Status = "analysis"
	StatusRecommendation Status = "recommendation"
	StatusReport         Status = "report"
	StatusCompleted      Status = "completed"
	StatusArchived       Status = "archived"
)

// Ordered forward path, excluding Archived.
var statusOrder = []Status{
	StatusDraft,
	StatusDiscovery,
	StatusAnalysis,
	StatusRecommendation,
	StatusReport,
	StatusCompleted,
}

// StatusInfo is the per-status guidance shown to advisors.
type StatusInfo struct {
	Status      Status   `json:"status"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	NextActions []string `json:"next_actions"`
}

var statusCatalog = map[Status]StatusInfo{
	StatusDraft: {
		Status:      StatusDraft,
		Label:       "Draft",
		Description: "Case created, no client data collected yet.",
		NextActions: []string{"Schedule the discovery meeting", "Start the discovery interview"},
	},
	StatusDiscovery: {
		Status:      StatusDiscovery,
		Label:       "Discovery",
		Description: "Collecting personal and household information across sessions.",
		NextActions: []string{"Complete the remaining discovery sections", "Begin the needs analysis"},
	},
	StatusAnalysis: {
		Status:      StatusAnalysis,
		Label:       "Needs Analysis",
		Description: "Financial interview in progress; coverage gaps being quantified.",
		NextActions: []string{"Finish the financial interview", "Request recommendations"},
	},
	StatusRecommendation: {
		Status:      StatusRecommendation,
		Label:       "Recommendations",
		Description: "Recommendations generated and under review with the client.",
		NextActions: []string{"Review recommendations with the client", "Generate the report"},
	},
	StatusReport: {
		Status:      StatusReport,
		Label:       "Report",
		Description: "Final report being prepared for delivery.",
		NextActions: []string{"Deliver the report", "Mark the case completed"},
	},
	StatusCompleted: {
		Status:      StatusCompleted,
		Label:       "Completed",
		Description: "Engagement finished and report delivered.",
		NextActions: []string{},
	},
	StatusArchived: {
		Status:      StatusArchived,
		Label:       "Archived",
		Description: "Case set aside; reopen by setting a workflow status.",
		NextActions: []string{},
	},
}

// Describe returns the catalog entry for a status. An unrecognized value is an
// error, never a silent default.
func Describe(s Status) (StatusInfo, error) {
	info, ok := statusCatalog[s]
	if !ok {
		return StatusInfo{}, fmt.Errorf("%w: %q", apperror.ErrUnknownStatus, s)
	}
	return info, nil
}

// AllStatuses returns the forward path followed by Archived, for pickers.
func AllStatuses() []StatusInfo {
	result := make([]StatusInfo, 0, len(statusOrder)+1)
	for _, s := range statusOrder {
		result = append(result, statusCatalog[s])
	}
	result = append(result, statusCatalog[StatusArchived])
	return result
}

// IsValidStatus reports membership in the closed enumeration.
func IsValidStatus(s Status) bool {
	_, ok := statusCatalog[s]
	return ok
}

// IsTerminalGuidance reports whether a status has no recommended next actions.
// Archived is guidance-terminal but not semantically terminal.
func IsTerminalGuidance(s Status) bool {
	info, ok := statusCatalog[s]
	return ok && len(info.NextActions) == 0
}

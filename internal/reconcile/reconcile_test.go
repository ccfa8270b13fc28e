package reconcile

import (
	"reflect"
	"testing"

	"caseflow-be/internal/entity"
	"caseflow-be/internal/workflow"
)

func floatPtr(v float64) *float64 { return &v }

func TestMergeFirstLoadIdentity(t *testing.T) {
	incoming := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			FirstName: "Ann",
			Address:   &entity.Address{City: "Austin", Country: "US"},
		},
		FinancialProfile: &entity.FinancialProfile{AnnualIncome: floatPtr(90000)},
	}

	got := Merge(nil, incoming)

	if !reflect.DeepEqual(got, incoming) {
		t.Errorf("Merge(nil, incoming) = %+v, want incoming unchanged", got)
	}
}

func TestMergeIdempotence(t *testing.T) {
	x := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			FirstName:        "Ann",
			PartnerFirstName: "Bob",
			Address:          &entity.Address{City: "Austin", Country: "US"},
		},
		Goals: &entity.Goals{Notes: "college fund"},
	}

	got := Merge(&x, x)

	if !reflect.DeepEqual(got, x) {
		t.Errorf("Merge(x, x) = %+v, want x", got)
	}
}

// The scenario from the field: the server omitted the partner fields and the
// address country because persistence for them lags the form surface. City
// updates, country and partner name survive.
func TestMergePreservesDesignatedFields(t *testing.T) {
	previous := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			FirstName:        "Ann",
			PartnerFirstName: "Bob",
			Address:          &entity.Address{Country: "US", City: "Austin"},
		},
	}
	incoming := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			FirstName: "Ann",
			Address:   &entity.Address{City: "Dallas"},
		},
	}

	got := Merge(&previous, incoming)

	want := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			FirstName:        "Ann",
			PartnerFirstName: "Bob",
			Address:          &entity.Address{Country: "US", City: "Dallas"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
}

func TestMergeIncomingWinsOnDesignatedFields(t *testing.T) {
	previous := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			PartnerFirstName: "Bob",
			Address:          &entity.Address{Country: "US"},
		},
	}
	incoming := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			PartnerFirstName: "Robert",
			Address:          &entity.Address{Country: "CA"},
		},
	}

	got := Merge(&previous, incoming)

	if got.PersonalInfo.PartnerFirstName != "Robert" {
		t.Errorf("PartnerFirstName = %q, want %q", got.PersonalInfo.PartnerFirstName, "Robert")
	}
	if got.PersonalInfo.Address.Country != "CA" {
		t.Errorf("Country = %q, want %q", got.PersonalInfo.Address.Country, "CA")
	}
}

// Outside the designated paths the server response is taken exactly, absence
// included: a financial profile missing from the response disappears from the
// merged record.
func TestMergeAbsencePropagatesOutsideDesignatedPaths(t *testing.T) {
	previous := entity.CollectedData{
		PersonalInfo:     &entity.PersonalInfo{FirstName: "Ann", Phone: "555-0100"},
		FinancialProfile: &entity.FinancialProfile{AnnualIncome: floatPtr(90000)},
		Goals:            &entity.Goals{Notes: "college fund"},
	}
	incoming := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{FirstName: "Ann"},
	}

	got := Merge(&previous, incoming)

	if got.FinancialProfile != nil {
		t.Errorf("FinancialProfile = %+v, want absent", got.FinancialProfile)
	}
	if got.Goals != nil {
		t.Errorf("Goals = %+v, want absent", got.Goals)
	}
	if got.PersonalInfo.Phone != "" {
		t.Errorf("Phone = %q, want empty: phone is not a designated path", got.PersonalInfo.Phone)
	}
}

// A response that omits the whole personal-info section still keeps the
// designated leaves alive; non-designated leaves under the section reflect
// the server's absence.
func TestMergeMaterializesSectionForDesignatedLeaves(t *testing.T) {
	previous := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			FirstName:        "Ann",
			PartnerFirstName: "Bob",
			Address:          &entity.Address{Country: "US"},
		},
	}
	incoming := entity.CollectedData{
		FinancialProfile: &entity.FinancialProfile{AnnualIncome: floatPtr(120000)},
	}

	got := Merge(&previous, incoming)

	if got.PersonalInfo == nil {
		t.Fatal("PersonalInfo absent, want designated leaves preserved")
	}
	if got.PersonalInfo.PartnerFirstName != "Bob" {
		t.Errorf("PartnerFirstName = %q, want %q", got.PersonalInfo.PartnerFirstName, "Bob")
	}
	if got.PersonalInfo.Address == nil || got.PersonalInfo.Address.Country != "US" {
		t.Errorf("Address = %+v, want country preserved", got.PersonalInfo.Address)
	}
	if got.PersonalInfo.FirstName != "" {
		t.Errorf("FirstName = %q, want empty: not a designated path", got.PersonalInfo.FirstName)
	}
}

func TestMergeNoDesignatedValuesToPreserve(t *testing.T) {
	previous := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{FirstName: "Ann"},
	}
	incoming := entity.CollectedData{
		Goals: &entity.Goals{Notes: "retire at 60"},
	}

	got := Merge(&previous, incoming)

	if got.PersonalInfo != nil {
		t.Errorf("PersonalInfo = %+v, want absent: nothing designated to preserve", got.PersonalInfo)
	}
}

// Empty string at a designated leaf is treated as "not sent": the previous
// value reappears. This is the documented clear-vs-omit limitation.
func TestMergeEmptyStringTreatedAsAbsent(t *testing.T) {
	previous := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{PartnerFirstName: "Bob"},
	}
	incoming := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{PartnerFirstName: ""},
	}

	got := Merge(&previous, incoming)

	if got.PersonalInfo.PartnerFirstName != "Bob" {
		t.Errorf("PartnerFirstName = %q, want %q (cleared value reappears from cache)", got.PersonalInfo.PartnerFirstName, "Bob")
	}
}

func TestMergeCompletedStepsFollowServer(t *testing.T) {
	previous := entity.CollectedData{
		CompletedSteps: []workflow.StepID{workflow.StepPersonalInfo},
	}
	incoming := entity.CollectedData{
		CompletedSteps: []workflow.StepID{workflow.StepPersonalInfo, workflow.StepFinancialProfile},
	}

	got := Merge(&previous, incoming)

	if !reflect.DeepEqual(got.CompletedSteps, incoming.CompletedSteps) {
		t.Errorf("CompletedSteps = %v, want server's record %v", got.CompletedSteps, incoming.CompletedSteps)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	previous := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			PartnerFirstName: "Bob",
			Address:          &entity.Address{Country: "US"},
		},
	}
	incoming := entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			Address: &entity.Address{City: "Dallas"},
		},
	}

	Merge(&previous, incoming)

	if incoming.PersonalInfo.PartnerFirstName != "" {
		t.Error("incoming mutated: PartnerFirstName set")
	}
	if incoming.PersonalInfo.Address.Country != "" {
		t.Error("incoming mutated: Address.Country set")
	}
	if previous.PersonalInfo.Address.City != "" {
		t.Error("previous mutated: Address.City set")
	}
}

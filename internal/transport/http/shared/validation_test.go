package shared

import "testing"

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start, ok := v.Date("startDate", "2026-01-05")
	if !ok {
		t.Fatal("expected valid start date")
	}
	end, ok := v.Date("endDate", "2026-01-01")
	if !ok {
		t.Fatal("expected valid end date")
	}

	v.DateOrder("startDate", start, "endDate", end)
	if !v.HasIssues() {
		t.Fatal("expected issues for reversed dates")
	}
}

func TestValidatorPositiveAndNonNegative(t *testing.T) {
	v := NewValidator()
	v.Positive("rate", 0)
	v.NonNegative("housingDeduction", -1)
	v.NonNegative("utilitiesDeduction", 0)

	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
	}
}

func TestValidatorInvalidDate(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("startDate", "01-05-2026"); ok {
		t.Fatal("expected rejection of non-ISO date")
	}
	if !v.HasIssues() {
		t.Fatal("expected an issue recorded")
	}
}

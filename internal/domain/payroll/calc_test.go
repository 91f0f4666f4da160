package payroll

import (
	"errors"
	"reflect"
	"testing"
)

func TestFixedSingleDay(t *testing.T) {
	calc := NewCalculator(8.0)

	rows, summary, err := calc.Fixed(map[string]float64{"2026-01-01": 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Amount != 64.0 {
		t.Fatalf("expected amount 64.00, got %v", rows[0].Amount)
	}
	if rows[0].Weekday != "Thursday" {
		t.Fatalf("expected Thursday, got %s", rows[0].Weekday)
	}
	if rows[0].DateUI != "01.01.2026" {
		t.Fatalf("expected UI date 01.01.2026, got %s", rows[0].DateUI)
	}
	if summary.TotalHours != 8 || summary.GrossAmount != 64.0 || summary.NetAmount != 64.0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.HousingDeduction != 0 || summary.UtilitiesDeduction != 0 || summary.TotalDeductions != 0 {
		t.Fatalf("fixed mode must be deduction-free: %+v", summary)
	}
}

func TestFixedMultipleDays(t *testing.T) {
	calc := NewCalculator(8.0)

	_, summary, err := calc.Fixed(map[string]float64{
		"2026-01-01": 8,
		"2026-01-02": 6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalHours != 14 {
		t.Fatalf("expected 14 hours, got %v", summary.TotalHours)
	}
	if summary.GrossAmount != 112.0 || summary.NetAmount != 112.0 {
		t.Fatalf("expected gross and net 112.00, got %+v", summary)
	}
}

func TestFixedMisconfiguredRate(t *testing.T) {
	calc := NewCalculator(0)

	_, _, err := calc.Fixed(map[string]float64{"2026-01-01": 8})
	if !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestCustomWithoutDeductions(t *testing.T) {
	calc := NewCalculator(8.0)

	_, summary, err := calc.Custom(12.0, map[string]float64{"2026-01-01": 10}, Deductions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalHours != 10 || summary.GrossAmount != 120.0 || summary.NetAmount != 120.0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Rate != 12.0 {
		t.Fatalf("expected rate 12.00, got %v", summary.Rate)
	}
}

func TestCustomWithDeductions(t *testing.T) {
	calc := NewCalculator(8.0)

	_, summary, err := calc.Custom(12.0, map[string]float64{"2026-01-01": 10}, Deductions{Housing: 20, Utilities: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.GrossAmount != 120.0 {
		t.Fatalf("expected gross 120.00, got %v", summary.GrossAmount)
	}
	if summary.TotalDeductions != 30.0 {
		t.Fatalf("expected deductions 30.00, got %v", summary.TotalDeductions)
	}
	if summary.NetAmount != 90.0 {
		t.Fatalf("expected net 90.00, got %v", summary.NetAmount)
	}
}

func TestCustomEmptyHours(t *testing.T) {
	calc := NewCalculator(8.0)

	rows, summary, err := calc.Custom(10.0, map[string]float64{}, Deductions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if summary.TotalHours != 0 || summary.GrossAmount != 0 || summary.NetAmount != 0 {
		t.Fatalf("expected zero totals: %+v", summary)
	}
}

func TestCustomNetMayGoNegative(t *testing.T) {
	calc := NewCalculator(8.0)

	_, summary, err := calc.Custom(10.0, map[string]float64{"2026-01-01": 1}, Deductions{Housing: 15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.GrossAmount != 10.0 {
		t.Fatalf("expected gross 10.00, got %v", summary.GrossAmount)
	}
	if summary.NetAmount != -5.0 {
		t.Fatalf("expected net -5.00 unclamped, got %v", summary.NetAmount)
	}
}

func TestCustomRejectsBadInputs(t *testing.T) {
	calc := NewCalculator(8.0)
	hours := map[string]float64{"2026-01-01": 8}

	if _, _, err := calc.Custom(0, hours, Deductions{}); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate for zero rate, got %v", err)
	}
	if _, _, err := calc.Custom(-3, hours, Deductions{}); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate for negative rate, got %v", err)
	}
	if _, _, err := calc.Custom(10, hours, Deductions{Housing: -1}); !errors.Is(err, ErrInvalidDeduction) {
		t.Fatalf("expected ErrInvalidDeduction for housing, got %v", err)
	}
	if _, _, err := calc.Custom(10, hours, Deductions{Utilities: -0.5}); !errors.Is(err, ErrInvalidDeduction) {
		t.Fatalf("expected ErrInvalidDeduction for utilities, got %v", err)
	}
	if _, _, err := calc.Custom(10, map[string]float64{"2026-01-01": -2}, Deductions{}); !errors.Is(err, ErrInvalidHours) {
		t.Fatalf("expected ErrInvalidHours, got %v", err)
	}
}

func TestBuildRowsSortedByDate(t *testing.T) {
	rows, err := BuildRows(map[string]float64{
		"2026-01-03": 4,
		"2026-01-01": 8,
		"2026-01-02": 6,
	}, 10.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2026-01-01", "2026-01-02", "2026-01-03"}
	for i, row := range rows {
		if row.DateISO != want[i] {
			t.Fatalf("row %d: expected %s, got %s", i, want[i], row.DateISO)
		}
	}
}

func TestBuildRowsRejectsBadDateKey(t *testing.T) {
	if _, err := BuildRows(map[string]float64{"01-05-2026": 8}, 10.0); err == nil {
		t.Fatal("expected error for non-ISO date key")
	}
}

func TestBuildRowsAcceptsFractionalHours(t *testing.T) {
	rows, err := BuildRows(map[string]float64{"2026-01-01": 7.5}, 10.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Amount != 75.0 {
		t.Fatalf("expected amount 75.00, got %v", rows[0].Amount)
	}
}

// Rounding policy: each row is rounded to the cent first, then the rounded
// rows are summed. 1.5h at 9.99 is 14.985 -> 14.99 per row; two such rows
// give 29.98, where rounding the raw aggregate would give 29.97.
func TestGrossSumsRoundedRows(t *testing.T) {
	calc := NewCalculator(8.0)

	rows, summary, err := calc.Custom(9.99, map[string]float64{
		"2026-01-01": 1.5,
		"2026-01-02": 1.5,
	}, Deductions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Amount != 14.99 || rows[1].Amount != 14.99 {
		t.Fatalf("expected per-row 14.99, got %v and %v", rows[0].Amount, rows[1].Amount)
	}
	if summary.GrossAmount != 29.98 {
		t.Fatalf("expected gross 29.98 under round-then-sum, got %v", summary.GrossAmount)
	}
}

func TestCalculationIsIdempotent(t *testing.T) {
	calc := NewCalculator(8.0)
	hours := map[string]float64{"2026-01-01": 8, "2026-01-02": 6.5}

	rows1, summary1, err := calc.Custom(11.5, hours, Deductions{Housing: 12.34})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows2, summary2, err := calc.Custom(11.5, hours, Deductions{Housing: 12.34})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(rows1, rows2) || summary1 != summary2 {
		t.Fatal("expected identical output for identical input")
	}
}

package payroll

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Calculator computes payroll rows and summaries. The fixed hourly rate is
// injected from configuration; it is never a compiled-in literal.
type Calculator struct {
	fixedRate float64
}

func NewCalculator(fixedRate float64) *Calculator {
	return &Calculator{fixedRate: fixedRate}
}

func (c *Calculator) FixedRate() float64 {
	return c.fixedRate
}

// BuildRows turns a date->hours map into rows sorted ascending by ISO date,
// one per entry, with each amount rounded to the cent.
func BuildRows(hours map[string]float64, rate float64) ([]Row, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: got %.2f", ErrInvalidRate, rate)
	}

	dates := make([]string, 0, len(hours))
	for date := range hours {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	rows := make([]Row, 0, len(dates))
	for _, date := range dates {
		worked := hours[date]
		if worked < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidHours, date)
		}
		day, err := time.Parse(dateLayoutISO, date)
		if err != nil {
			return nil, fmt.Errorf("hours map key %q is not an ISO date: %w", date, err)
		}
		rows = append(rows, Row{
			DateISO: date,
			DateUI:  day.Format(dateLayoutUI),
			Weekday: day.Weekday().String(),
			Hours:   worked,
			Rate:    rate,
			Amount:  round2(worked * rate),
		})
	}
	return rows, nil
}

// Fixed computes payroll at the configured fixed rate. Deductions are never
// applied in this mode: fixed-rate payroll is always deduction-free, so net
// equals gross.
func (c *Calculator) Fixed(hours map[string]float64) ([]Row, Summary, error) {
	rows, err := BuildRows(hours, c.fixedRate)
	if err != nil {
		return nil, Summary{}, err
	}
	summary := summarize(rows, c.fixedRate)
	summary.NetAmount = summary.GrossAmount
	return rows, summary, nil
}

// Custom computes payroll at the employee's own rate and applies the optional
// housing and utilities deductions. Net may go negative when deductions
// exceed gross.
func (c *Calculator) Custom(rate float64, hours map[string]float64, deductions Deductions) ([]Row, Summary, error) {
	if deductions.Housing < 0 {
		return nil, Summary{}, fmt.Errorf("%w: housing %.2f", ErrInvalidDeduction, deductions.Housing)
	}
	if deductions.Utilities < 0 {
		return nil, Summary{}, fmt.Errorf("%w: utilities %.2f", ErrInvalidDeduction, deductions.Utilities)
	}

	rows, err := BuildRows(hours, rate)
	if err != nil {
		return nil, Summary{}, err
	}

	summary := summarize(rows, rate)
	summary.HousingDeduction = round2(deductions.Housing)
	summary.UtilitiesDeduction = round2(deductions.Utilities)
	summary.TotalDeductions = round2(summary.HousingDeduction + summary.UtilitiesDeduction)
	summary.NetAmount = round2(summary.GrossAmount - summary.HousingDeduction - summary.UtilitiesDeduction)
	return rows, summary, nil
}

// summarize sums pre-rounded row amounts, then rounds the aggregate once
// more for reporting. Rounding per row first is the canonical policy here.
func summarize(rows []Row, rate float64) Summary {
	var totalHours, gross float64
	for _, row := range rows {
		totalHours += row.Hours
		gross += row.Amount
	}
	return Summary{
		TotalHours:  totalHours,
		Rate:        rate,
		GrossAmount: round2(gross),
	}
}

// round2 rounds to two decimal places, half away from zero.
func round2(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}

package payroll

import (
	"fmt"
	"time"
)

// GeneratePeriod returns every calendar day between start and end inclusive,
// ascending, tagged with its English weekday name.
func GeneratePeriod(start, end time.Time) ([]Day, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			start.Format(dateLayoutISO), end.Format(dateLayoutISO))
	}

	days := make([]Day, 0, int(end.Sub(start).Hours()/24)+1)
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:    current,
			ISO:     current.Format(dateLayoutISO),
			Weekday: current.Weekday().String(),
		})
	}
	return days, nil
}

// MergeHours overlays recorded hours onto a period. Days without a recorded
// entry count as zero; a negative recorded value is corrupt upstream state
// and is rejected rather than clamped.
func MergeHours(period []Day, hours map[string]float64) ([]DayHours, error) {
	merged := make([]DayHours, 0, len(period))
	for _, day := range period {
		recorded := hours[day.ISO]
		if recorded < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidHours, day.ISO)
		}
		merged = append(merged, DayHours{Day: day, Hours: recorded})
	}
	return merged, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

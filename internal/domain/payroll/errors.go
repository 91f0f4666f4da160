package payroll

import "errors"

var (
	ErrInvalidRange     = errors.New("period start date after end date")
	ErrInvalidRate      = errors.New("hourly rate must be positive")
	ErrInvalidDeduction = errors.New("deduction must not be negative")
	ErrInvalidHours     = errors.New("daily hours must not be negative")
	ErrPayrollNotFound  = errors.New("payroll not found")
)

package payroll

import "time"

// Row is one payroll line for a single worked day.
type Row struct {
	DateISO string  `json:"dateIso"`
	DateUI  string  `json:"dateUi"`
	Weekday string  `json:"weekday"`
	Hours   float64 `json:"hours"`
	Rate    float64 `json:"rate"`
	Amount  float64 `json:"amount"`
}

// Summary aggregates the rows of one calculation. NetAmount may be negative
// when deductions exceed gross; it is never clamped.
type Summary struct {
	TotalHours         float64 `json:"totalHours"`
	Rate               float64 `json:"rate"`
	GrossAmount        float64 `json:"grossAmount"`
	HousingDeduction   float64 `json:"housingDeduction"`
	UtilitiesDeduction float64 `json:"utilitiesDeduction"`
	TotalDeductions    float64 `json:"totalDeductions"`
	NetAmount          float64 `json:"netAmount"`
}

// Deductions are only honored in custom-rate mode.
type Deductions struct {
	Housing   float64 `json:"housingDeduction"`
	Utilities float64 `json:"utilitiesDeduction"`
}

// Day is one calendar day of a requested period.
type Day struct {
	Date    time.Time `json:"-"`
	ISO     string    `json:"date"`
	Weekday string    `json:"weekday"`
}

// DayHours is a period day merged with recorded hours, zero when unrecorded.
type DayHours struct {
	Day
	Hours float64 `json:"hours"`
}

// SavedPayroll is one finalized calculation persisted to history.
// EmployeeName and the bank fields are joined in on read for rendering.
type SavedPayroll struct {
	ID                 string    `json:"id"`
	EmployeeID         string    `json:"employeeId"`
	EmployeeName       string    `json:"employeeName,omitempty"`
	BankName           string    `json:"bankName,omitempty"`
	IBAN               string    `json:"iban,omitempty"`
	BIC                string    `json:"bic,omitempty"`
	PeriodFrom         time.Time `json:"periodFrom"`
	PeriodTo           time.Time `json:"periodTo"`
	RateMode           string    `json:"rateMode"`
	Rate               float64   `json:"rate"`
	HousingDeduction   float64   `json:"housingDeduction"`
	UtilitiesDeduction float64   `json:"utilitiesDeduction"`
	TotalHours         float64   `json:"totalHours"`
	GrossAmount        float64   `json:"grossAmount"`
	NetAmount          float64   `json:"netAmount"`
	CreatedAt          time.Time `json:"createdAt"`
}

// SavedDay is one persisted day line of a saved payroll.
type SavedDay struct {
	WorkDate time.Time `json:"workDate"`
	Hours    float64   `json:"hours"`
}

// HistoryEntry is the list view of saved payrolls.
type HistoryEntry struct {
	ID           string    `json:"id"`
	EmployeeName string    `json:"employeeName"`
	PeriodFrom   time.Time `json:"periodFrom"`
	PeriodTo     time.Time `json:"periodTo"`
	NetAmount    float64   `json:"netAmount"`
	CreatedAt    time.Time `json:"createdAt"`
}

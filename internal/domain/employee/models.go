package employee

import (
	"errors"
	"time"
)

// Employee is the payroll master record. Bank fields only matter for payslip
// rendering, never for calculation.
type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rate      float64   `json:"rate"`
	BankName  string    `json:"bankName,omitempty"`
	IBAN      string    `json:"iban,omitempty"`
	BIC       string    `json:"bic,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var (
	ErrNotFound      = errors.New("employee not found")
	ErrDuplicateName = errors.New("employee name already exists")
)

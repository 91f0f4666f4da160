package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"payday/internal/db"
)

// Store persists finalized payroll calculations for the history view and
// payslip regeneration.
type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

// Save writes the payroll header and its day lines in one transaction and
// returns the new id.
func (s *Store) Save(ctx context.Context, p SavedPayroll, days []SavedDay) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO payrolls (employee_id, period_from, period_to, rate_mode, rate,
                          housing_deduction, utilities_deduction, total_hours,
                          gross_amount, net_amount)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING id
  `, p.EmployeeID, p.PeriodFrom, p.PeriodTo, p.RateMode, p.Rate,
		p.HousingDeduction, p.UtilitiesDeduction, p.TotalHours,
		p.GrossAmount, p.NetAmount).Scan(&id)
	if err != nil {
		return "", err
	}

	for _, day := range days {
		_, err := tx.Exec(ctx, `
      INSERT INTO payroll_days (payroll_id, work_date, hours)
      VALUES ($1, $2, $3)
    `, id, day.WorkDate, day.Hours)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// List returns saved payrolls newest first with the employee name joined in.
func (s *Store) List(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, e.name, p.period_from, p.period_to, p.net_amount, p.created_at
    FROM payrolls p
    JOIN employees e ON e.id = p.employee_id
    ORDER BY p.created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.EmployeeName, &entry.PeriodFrom, &entry.PeriodTo, &entry.NetAmount, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get returns one saved payroll with its employee and bank details plus the
// ordered day lines.
func (s *Store) Get(ctx context.Context, id string) (SavedPayroll, []SavedDay, error) {
	var p SavedPayroll
	err := s.DB.QueryRow(ctx, `
    SELECT p.id, p.employee_id, e.name,
           COALESCE(e.bank_name, ''), COALESCE(e.iban, ''), COALESCE(e.bic, ''),
           p.period_from, p.period_to, p.rate_mode, p.rate,
           p.housing_deduction, p.utilities_deduction, p.total_hours,
           p.gross_amount, p.net_amount, p.created_at
    FROM payrolls p
    JOIN employees e ON e.id = p.employee_id
    WHERE p.id = $1
  `, id).Scan(&p.ID, &p.EmployeeID, &p.EmployeeName,
		&p.BankName, &p.IBAN, &p.BIC,
		&p.PeriodFrom, &p.PeriodTo, &p.RateMode, &p.Rate,
		&p.HousingDeduction, &p.UtilitiesDeduction, &p.TotalHours,
		&p.GrossAmount, &p.NetAmount, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SavedPayroll{}, nil, ErrPayrollNotFound
	}
	if err != nil {
		return SavedPayroll{}, nil, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT work_date, hours
    FROM payroll_days
    WHERE payroll_id = $1
    ORDER BY work_date
  `, id)
	if err != nil {
		return SavedPayroll{}, nil, err
	}
	defer rows.Close()

	var days []SavedDay
	for rows.Next() {
		var day SavedDay
		if err := rows.Scan(&day.WorkDate, &day.Hours); err != nil {
			return SavedPayroll{}, nil, err
		}
		days = append(days, day)
	}
	return p, days, rows.Err()
}

package hours

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payday/internal/db"
)

// Entry is one recorded day of work for an employee.
type Entry struct {
	WorkDate string  `json:"workDate"`
	Hours    float64 `json:"hours"`
}

var ErrNegativeHours = errors.New("hours must not be negative")

const dateLayout = "2006-01-02"

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

// Upsert writes the given day entries, replacing any existing value for the
// same employee and date. Negative hours never reach the database.
func (s *Store) Upsert(ctx context.Context, employeeID string, entries []Entry) error {
	for _, entry := range entries {
		if entry.Hours < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeHours, entry.WorkDate)
		}
		if _, err := time.Parse(dateLayout, entry.WorkDate); err != nil {
			return fmt.Errorf("work date %q is not an ISO date: %w", entry.WorkDate, err)
		}
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, entry := range entries {
		_, err := tx.Exec(ctx, `
      INSERT INTO daily_hours (employee_id, work_date, hours)
      VALUES ($1, $2, $3)
      ON CONFLICT (employee_id, work_date) DO UPDATE SET hours = EXCLUDED.hours
    `, employeeID, entry.WorkDate, entry.Hours)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Map returns the recorded hours between from and to inclusive, keyed by ISO
// date. Days with no entry are simply absent.
func (s *Store) Map(ctx context.Context, employeeID string, from, to time.Time) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT work_date, hours
    FROM daily_hours
    WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recorded := make(map[string]float64)
	for rows.Next() {
		var workDate time.Time
		var worked float64
		if err := rows.Scan(&workDate, &worked); err != nil {
			return nil, err
		}
		recorded[workDate.Format(dateLayout)] = worked
	}
	return recorded, rows.Err()
}

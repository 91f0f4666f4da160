package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"payday/internal/db"
)

const uniqueViolationCode = "23505"

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, rate, COALESCE(bank_name, ''), COALESCE(iban, ''), COALESCE(bic, ''), created_at, updated_at
    FROM employees
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Rate, &e.BankName, &e.IBAN, &e.BIC, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, rate, COALESCE(bank_name, ''), COALESCE(iban, ''), COALESCE(bic, ''), created_at, updated_at
    FROM employees
    WHERE id = $1
  `, id).Scan(&e.ID, &e.Name, &e.Rate, &e.BankName, &e.IBAN, &e.BIC, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Store) Create(ctx context.Context, e Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, rate, bank_name, iban, bic)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, e.Name, e.Rate, nullIfEmpty(e.BankName), nullIfEmpty(e.IBAN), nullIfEmpty(e.BIC)).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $2, rate = $3, bank_name = $4, iban = $5, bic = $6, updated_at = now()
    WHERE id = $1
  `, e.ID, e.Name, e.Rate, nullIfEmpty(e.BankName), nullIfEmpty(e.IBAN), nullIfEmpty(e.BIC))
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicateName
	}
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

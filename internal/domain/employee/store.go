package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) List(ctx context.Context, department string) ([]Employee, error) {
	query := "SELECT employee_id, name, department FROM employees"
	var args []any
	if department != "" {
		query += " WHERE department = $1"
		args = append(args, department)
	}
	query += " ORDER BY employee_id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.EmployeeID, &emp.Name, &emp.Department); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) Get(ctx context.Context, employeeID string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx,
		"SELECT employee_id, name, department FROM employees WHERE employee_id = $1",
		employeeID).Scan(&emp.EmployeeID, &emp.Name, &emp.Department)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) Departments(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT DISTINCT department FROM employees ORDER BY department")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var department string
		if err := rows.Scan(&department); err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

func (s *Store) Create(ctx context.Context, emp Employee) error {
	_, err := s.DB.Exec(ctx,
		"INSERT INTO employees (employee_id, name, department) VALUES ($1, $2, $3)",
		emp.EmployeeID, emp.Name, emp.Department)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateID
	}
	return err
}

func (s *Store) Delete(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE employee_id = $1", employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the whole registry for the given rows in one
// transaction.
func (s *Store) ReplaceAll(ctx context.Context, employees []Employee) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM employees"); err != nil {
		return err
	}
	for _, emp := range employees {
		if _, err := tx.Exec(ctx,
			"INSERT INTO employees (employee_id, name, department) VALUES ($1, $2, $3)",
			emp.EmployeeID, emp.Name, emp.Department); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpsertAll merges rows into the registry; uploaded rows win on id
// collisions.
func (s *Store) UpsertAll(ctx context.Context, employees []Employee) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, emp := range employees {
		if _, err := tx.Exec(ctx, `
      INSERT INTO employees (employee_id, name, department) VALUES ($1, $2, $3)
      ON CONFLICT (employee_id) DO UPDATE SET name = EXCLUDED.name, department = EXCLUDED.department
    `, emp.EmployeeID, emp.Name, emp.Department); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

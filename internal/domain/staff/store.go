package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"intranet/internal/platform/querier"
)

var ErrNotFound = errors.New("staff: employee not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = "id, username, first_name, last_name, email, hierarchy_level, unit, unit_head, active, created_at"

func (s *Store) scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Username, &e.FirstName, &e.LastName, &e.Email, &e.Level, &e.Unit, &e.UnitHead, &e.Active, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return s.scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id))
}

func (s *Store) GetByUsername(ctx context.Context, username string) (Employee, error) {
	return s.scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE username = $1
  `, username))
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY username
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Username, &e.FirstName, &e.LastName, &e.Email, &e.Level, &e.Unit, &e.UnitHead, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) Create(ctx context.Context, e Employee, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (username, first_name, last_name, email, hierarchy_level, unit, unit_head, active, password_hash)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, e.Username, e.FirstName, e.LastName, e.Email, e.Level, e.Unit, e.UnitHead, true, passwordHash).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateRole(ctx context.Context, id string, level HierarchyLevel, unit string, unitHead bool) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET hierarchy_level = $1, unit = $2, unit_head = $3
    WHERE id = $4
  `, level, unit, unitHead, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UnitHasHead reports whether any active employee is flagged as head of the
// unit. Units without a head skip the pre-approval step.
func (s *Store) UnitHasHead(ctx context.Context, unit string) (bool, error) {
	if unit == "" {
		return false, nil
	}
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE unit = $1 AND unit_head AND active
  `, unit).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

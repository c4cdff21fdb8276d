package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"intranet/internal/domain/staff"
	"intranet/internal/platform/querier"
)

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type Service struct {
	DB       querier.Querier
	Secret   string
	TokenTTL time.Duration
}

func NewService(db querier.Querier, secret string, ttl time.Duration) *Service {
	return &Service{DB: db, Secret: secret, TokenTTL: ttl}
}

// Login verifies credentials against the employees table and issues a signed
// token carrying the actor attributes the core consumes.
func (s *Service) Login(ctx context.Context, username, password string) (staff.Employee, string, error) {
	var e staff.Employee
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, first_name, last_name, email, hierarchy_level, unit, unit_head, active, created_at, password_hash
    FROM employees
    WHERE username = $1 AND active
  `, username).Scan(&e.ID, &e.Username, &e.FirstName, &e.LastName, &e.Email, &e.Level, &e.Unit, &e.UnitHead, &e.Active, &e.CreatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return staff.Employee{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return staff.Employee{}, "", err
	}

	if err := CheckPassword(hash, password); err != nil {
		return staff.Employee{}, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{
		EmployeeID: e.ID,
		Username:   e.Username,
		Level:      int(e.Level),
		Unit:       e.Unit,
		UnitHead:   e.UnitHead,
	}, s.TokenTTL)
	if err != nil {
		return staff.Employee{}, "", err
	}
	return e, token, nil
}

package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/leave"
	"intranet/internal/domain/staff"
	"intranet/internal/platform/config"
)

// Seed creates the director account when none exists so a fresh install can
// be logged into. It is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	return ensureDirector(ctx, pool, cfg.SeedDirectorUsername, cfg.SeedDirectorPassword)
}

func ensureDirector(ctx context.Context, pool *pgxpool.Pool, username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE username = $1", username).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO employees (username, password_hash, first_name, last_name, email, hierarchy_level, unit, unit_head, active)
    VALUES ($1, $2, 'Dirección', 'General', '', $3, '', false, true)
    RETURNING id
  `, username, hash, int(staff.LevelDirector)).Scan(&id)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO balances (employee_id, vacation_days, admin_days, compensation_hours, year)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (employee_id) DO NOTHING
  `, id, leave.DefaultVacationDays, leave.DefaultAdminDays, leave.DefaultCompensationHours, time.Now().Year())
	return err
}

package staff

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrUsernameTaken = errors.New("staff: username already taken")

// BalanceProvisioner creates the leave balance row that must exist for every
// active employee. Owned by the ledger; wired in at startup.
type BalanceProvisioner interface {
	Provision(ctx context.Context, employeeID string, year int) error
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID, accion, detalle string) error
}

type Service struct {
	Store    *Store
	Balances BalanceProvisioner
	Audit    AuditRecorder
}

func NewService(store *Store, balances BalanceProvisioner, audit AuditRecorder) *Service {
	return &Service{Store: store, Balances: balances, Audit: audit}
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.Store.List(ctx)
}

// Create registers an employee and provisions their balance for the current
// year in the same call, so the ledger never has to lazily invent rows.
func (s *Service) Create(ctx context.Context, e Employee, passwordHash string) (Employee, error) {
	if !e.Level.Valid() {
		return Employee{}, fmt.Errorf("staff: invalid hierarchy level %d", e.Level)
	}
	if _, err := s.Store.GetByUsername(ctx, e.Username); err == nil {
		return Employee{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Employee{}, err
	}
	id, err := s.Store.Create(ctx, e, passwordHash)
	if err != nil {
		return Employee{}, err
	}
	if s.Balances != nil {
		if err := s.Balances.Provision(ctx, id, time.Now().Year()); err != nil {
			return Employee{}, err
		}
	}
	return s.Store.Get(ctx, id)
}

// UnitHasHead reports whether the unit has a designated head; requests from
// headless units skip the pre-approval step.
func (s *Service) UnitHasHead(ctx context.Context, unit string) (bool, error) {
	return s.Store.UnitHasHead(ctx, unit)
}

func (s *Service) ChangeRole(ctx context.Context, actor Actor, id string, level HierarchyLevel, unit string, unitHead bool) (Employee, error) {
	if !level.Valid() {
		return Employee{}, fmt.Errorf("staff: invalid hierarchy level %d", level)
	}
	target, err := s.Store.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if err := s.Store.UpdateRole(ctx, id, level, unit, unitHead); err != nil {
		return Employee{}, err
	}
	if s.Audit != nil {
		detalle := fmt.Sprintf("Se cambió el rol de %s a %s (unidad %s)", target.Username, level, unit)
		if err := s.Audit.Record(ctx, actor.ID, "Cambio de Rol", detalle); err != nil {
			return Employee{}, err
		}
	}
	return s.Store.Get(ctx, id)
}

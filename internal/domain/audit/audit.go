package audit

import (
	"context"
	"fmt"
	"time"

	"intranet/internal/platform/querier"
)

type Entry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId"`
	Accion    string    `json:"accion"`
	Detalle   string    `json:"detalle"`
	CreatedAt time.Time `json:"createdAt"`
}

type Filter struct {
	Accion  string
	ActorID string
}

// Service writes and reads the audit log. Record accepts any Querier so a
// caller can pass its open transaction: a state transition and its audit row
// commit or roll back together.
type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actorID, accion, detalle string) error {
	return RecordTo(ctx, s.DB, actorID, accion, detalle)
}

func RecordTo(ctx context.Context, q querier.Querier, actorID, accion, detalle string) error {
	_, err := q.Exec(ctx, `
    INSERT INTO audit_log (actor_id, accion, detalle)
    VALUES ($1,$2,$3)
  `, actorID, accion, detalle)
	return err
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Entry, error) {
	query, args := buildBaseQuery("SELECT id, actor_id, accion, detalle, created_at", filter)
	limitPos := len(args) + 1
	offsetPos := len(args) + 2
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", limitPos, offsetPos)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Accion, &entry.Detalle, &entry.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_log WHERE 1=1"
	var args []any
	if filter.Accion != "" {
		query += fmt.Sprintf(" AND accion = $%d", len(args)+1)
		args = append(args, filter.Accion)
	}
	if filter.ActorID != "" {
		query += fmt.Sprintf(" AND actor_id = $%d", len(args)+1)
		args = append(args, filter.ActorID)
	}
	return query, args
}

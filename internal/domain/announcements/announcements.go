package announcements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"intranet/internal/platform/querier"
)

var (
	ErrNotFound = errors.New("announcements: not found")
	ErrEmpty    = errors.New("announcements: title and body are required")
)

type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	AuthorID    string    `json:"authorId"`
	PublishedAt time.Time `json:"publishedAt"`
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID, accion, detalle string) error
}

type Service struct {
	DB    querier.Querier
	Audit AuditRecorder
}

func NewService(db querier.Querier, audit AuditRecorder) *Service {
	return &Service{DB: db, Audit: audit}
}

// Latest returns the newest announcements for the dashboard.
func (s *Service) Latest(ctx context.Context, limit int) ([]Announcement, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, body, author_id, published_at
    FROM announcements
    ORDER BY published_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Service) Create(ctx context.Context, actorID, title, body string) (Announcement, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return Announcement{}, ErrEmpty
	}

	a := Announcement{Title: title, Body: body, AuthorID: actorID}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (title, body, author_id)
    VALUES ($1,$2,$3)
    RETURNING id, published_at
  `, title, body, actorID).Scan(&a.ID, &a.PublishedAt)
	if err != nil {
		return Announcement{}, err
	}

	if err := s.Audit.Record(ctx, actorID, "Creación de Comunicado", fmt.Sprintf("Se publicó el comunicado: %s", title)); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, actorID, id, title, body string) (Announcement, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return Announcement{}, ErrEmpty
	}

	var a Announcement
	err := s.DB.QueryRow(ctx, `
    UPDATE announcements
    SET title = $1, body = $2
    WHERE id = $3
    RETURNING id, title, body, author_id, published_at
  `, title, body, id).Scan(&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.PublishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Announcement{}, ErrNotFound
	}
	if err != nil {
		return Announcement{}, err
	}

	if err := s.Audit.Record(ctx, actorID, "Edición de Comunicado", fmt.Sprintf("Se editó el comunicado %s: %s", id, title)); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	var title string
	err := s.DB.QueryRow(ctx, "SELECT title FROM announcements WHERE id = $1", id).Scan(&title)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	// The log entry precedes the delete so the title survives in the trail.
	if err := s.Audit.Record(ctx, actorID, "Eliminación de Comunicado", fmt.Sprintf("Se eliminó el comunicado: %s", title)); err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, "DELETE FROM announcements WHERE id = $1", id)
	return err
}

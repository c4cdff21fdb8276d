package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"intranet/internal/platform/querier"
)

var ErrInvalidEvent = errors.New("calendar: title and start date are required")

type Event struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	EventType string     `json:"eventType,omitempty"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Entry is the feed shape the frontend calendar consumes.
type Entry struct {
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Color  string `json:"color"`
	AllDay bool   `json:"allDay"`
}

type Service struct {
	DB querier.Querier
}

func NewService(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, event_type, start_date, end_date
    FROM calendar_events
    ORDER BY start_date
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.EventType, &e.StartDate, &e.EndDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Service) Create(ctx context.Context, title, eventType string, start time.Time, end *time.Time) (Event, error) {
	title = strings.TrimSpace(title)
	if title == "" || start.IsZero() {
		return Event{}, ErrInvalidEvent
	}

	e := Event{Title: title, EventType: strings.TrimSpace(eventType), StartDate: start, EndDate: end}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO calendar_events (title, event_type, start_date, end_date)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, e.Title, e.EventType, e.StartDate, e.EndDate).Scan(&e.ID)
	if err != nil {
		return Event{}, err
	}
	return e, nil
}

// Feed adapts events to the frontend calendar's entry format; holidays get
// their own color, matching the original intranet.
func (s *Service) Feed(ctx context.Context) ([]Entry, error) {
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(events))
	for _, e := range events {
		entry := Entry{
			Title:  e.Title,
			Start:  e.StartDate.Format("2006-01-02"),
			End:    e.StartDate.Format("2006-01-02"),
			Color:  "#1E4A7B",
			AllDay: true,
		}
		if e.EventType != "" {
			entry.Title = e.EventType + ": " + e.Title
		}
		if e.EventType == "Feriado" {
			entry.Color = "#f4a460"
		}
		if e.EndDate != nil {
			entry.End = e.EndDate.Format("2006-01-02")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

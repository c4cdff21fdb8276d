package documents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"intranet/internal/domain/staff"
	"intranet/internal/platform/querier"
)

var (
	ErrNotFound  = errors.New("documents: not found")
	ErrForbidden = errors.New("documents: not allowed")
	ErrInvalid   = errors.New("documents: title and file reference are required")
)

// Document is repository metadata only; file bytes live with the storage
// collaborator and are addressed by PathRef.
type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category,omitempty"`
	PathRef      string    `json:"pathRef"`
	UploaderID   string    `json:"uploaderId"`
	Public       bool      `json:"public"`
	SharedLevels []int     `json:"sharedLevels,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// VisibleTo mirrors the repository's visibility rule: public documents,
// one's own uploads, and documents shared with the viewer's hierarchy level.
func VisibleTo(viewer staff.Actor, doc Document) bool {
	if doc.Public || doc.UploaderID == viewer.ID {
		return true
	}
	for _, level := range doc.SharedLevels {
		if staff.HierarchyLevel(level) == viewer.Level {
			return true
		}
	}
	return false
}

type Service struct {
	DB querier.Querier
}

func NewService(db querier.Querier) *Service {
	return &Service{DB: db}
}

// List returns the documents the viewer may see, newest first, optionally
// filtered by a title substring.
func (s *Service) List(ctx context.Context, viewer staff.Actor, search string) ([]Document, error) {
	query := `
    SELECT id, title, category, path_ref, uploader_id, public, shared_levels, uploaded_at
    FROM documents
    WHERE (public OR uploader_id = $1 OR $2 = ANY(shared_levels))
  `
	args := []any{viewer.ID, int(viewer.Level)}
	if search = strings.TrimSpace(search); search != "" {
		query += " AND title ILIKE $3"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY uploaded_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var levels []int32
		if err := rows.Scan(&d.ID, &d.Title, &d.Category, &d.PathRef, &d.UploaderID, &d.Public, &levels, &d.UploadedAt); err != nil {
			return nil, err
		}
		for _, l := range levels {
			d.SharedLevels = append(d.SharedLevels, int(l))
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Service) Create(ctx context.Context, uploader staff.Actor, doc Document) (Document, error) {
	doc.Title = strings.TrimSpace(doc.Title)
	doc.PathRef = strings.TrimSpace(doc.PathRef)
	if doc.Title == "" || doc.PathRef == "" {
		return Document{}, ErrInvalid
	}
	doc.UploaderID = uploader.ID

	levels := make([]int32, 0, len(doc.SharedLevels))
	for _, l := range doc.SharedLevels {
		levels = append(levels, int32(l))
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (title, category, path_ref, uploader_id, public, shared_levels)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, uploaded_at
  `, doc.Title, doc.Category, doc.PathRef, doc.UploaderID, doc.Public, levels).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Delete removes a document's metadata. Only the uploader or the director
// may delete.
func (s *Service) Delete(ctx context.Context, actor staff.Actor, id string) error {
	var uploaderID string
	err := s.DB.QueryRow(ctx, "SELECT uploader_id FROM documents WHERE id = $1", id).Scan(&uploaderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if uploaderID != actor.ID && !actor.IsDirector() {
		return ErrForbidden
	}
	_, err = s.DB.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	return err
}

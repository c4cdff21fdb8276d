package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const requestColumns = `id, employee_id, type, start_date, end_date, days, hours, attachment_ref, note, status,
    pre_approved_by, pre_approved_at, approved_by, approved_at, reject_comment, created_at`

// Whitelist of ledger columns; BalanceField values never reach SQL directly.
var balanceColumns = map[BalanceField]string{
	FieldVacationDays:      "vacation_days",
	FieldAdminDays:         "admin_days",
	FieldCompensationHours: "compensation_hours",
}

func (s *Store) InsertRequest(ctx context.Context, req *LeaveRequest) error {
	return s.q.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, type, start_date, end_date, days, hours, attachment_ref, note, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id, created_at
  `, req.EmployeeID, req.Type, req.StartDate, req.EndDate, req.Days, req.Hours,
		req.AttachmentRef, req.Note, req.Status).Scan(&req.ID, &req.CreatedAt)
}

func scanRequest(row pgx.Row) (LeaveRequest, error) {
	var req LeaveRequest
	err := row.Scan(&req.ID, &req.EmployeeID, &req.Type, &req.StartDate, &req.EndDate, &req.Days, &req.Hours,
		&req.AttachmentRef, &req.Note, &req.Status,
		&req.PreApprovedBy, &req.PreApprovedAt, &req.ApprovedBy, &req.ApprovedAt, &req.RejectComment, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	return req, err
}

func (s *Store) GetRequest(ctx context.Context, id string) (LeaveRequest, error) {
	return scanRequest(s.q.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, id))
}

func (s *Store) listRequests(ctx context.Context, query string, args ...any) ([]LeaveRequest, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.Type, &req.StartDate, &req.EndDate, &req.Days, &req.Hours,
			&req.AttachmentRef, &req.Note, &req.Status,
			&req.PreApprovedBy, &req.PreApprovedAt, &req.ApprovedBy, &req.ApprovedAt, &req.RejectComment, &req.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) ListRequests(ctx context.Context) ([]LeaveRequest, error) {
	return s.listRequests(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    ORDER BY created_at DESC
  `)
}

func (s *Store) ListRequestsByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	return s.listRequests(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE employee_id = $1
    ORDER BY created_at DESC
  `, employeeID)
}

func (s *Store) TransitionStatus(ctx context.Context, id string, from []Status, stamp TransitionStamp) (bool, error) {
	set := "status = $1"
	args := []any{string(stamp.To)}

	switch stamp.To {
	case StatusPreApproved:
		set += fmt.Sprintf(", pre_approved_by = $%d, pre_approved_at = $%d", len(args)+1, len(args)+2)
		args = append(args, stamp.By, stamp.At)
	case StatusApproved:
		set += fmt.Sprintf(", approved_by = $%d, approved_at = $%d", len(args)+1, len(args)+2)
		args = append(args, stamp.By, stamp.At)
	case StatusRejected:
		set += fmt.Sprintf(", reject_comment = $%d", len(args)+1)
		args = append(args, stamp.RejectComment)
	}

	fromValues := make([]string, len(from))
	for i, st := range from {
		fromValues[i] = string(st)
	}
	query := fmt.Sprintf("UPDATE leave_requests SET %s WHERE id = $%d AND status = ANY($%d)", set, len(args)+1, len(args)+2)
	args = append(args, id, fromValues)

	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) GetBalance(ctx context.Context, employeeID string) (Balance, error) {
	var b Balance
	err := s.q.QueryRow(ctx, `
    SELECT employee_id, vacation_days, admin_days, compensation_hours, year, updated_at
    FROM balances
    WHERE employee_id = $1
  `, employeeID).Scan(&b.EmployeeID, &b.VacationDays, &b.AdminDays, &b.CompensationHours, &b.Year, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrNotFound
	}
	return b, err
}

func (s *Store) ProvisionBalance(ctx context.Context, employeeID string, year int) (Balance, error) {
	if _, err := s.q.Exec(ctx, `
    INSERT INTO balances (employee_id, vacation_days, admin_days, compensation_hours, year)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (employee_id) DO NOTHING
  `, employeeID, DefaultVacationDays, DefaultAdminDays, DefaultCompensationHours, year); err != nil {
		return Balance{}, err
	}
	return s.GetBalance(ctx, employeeID)
}

func (s *Store) RollBalances(ctx context.Context, year int) (int, error) {
	tag, err := s.q.Exec(ctx, `
    INSERT INTO balances (employee_id, vacation_days, admin_days, compensation_hours, year)
    SELECT id, $2, $3, $4, $1
    FROM employees
    WHERE active
    ON CONFLICT (employee_id) DO NOTHING
  `, year, DefaultVacationDays, DefaultAdminDays, DefaultCompensationHours)
	if err != nil {
		return 0, err
	}
	provisioned := int(tag.RowsAffected())

	tag, err = s.q.Exec(ctx, `
    UPDATE balances
    SET vacation_days = $2, admin_days = $3, compensation_hours = $4, year = $1, updated_at = now()
    WHERE year < $1
  `, year, DefaultVacationDays, DefaultAdminDays, DefaultCompensationHours)
	if err != nil {
		return provisioned, err
	}
	return provisioned + int(tag.RowsAffected()), nil
}

func (s *Store) DebitBalance(ctx context.Context, employeeID string, field BalanceField, amount int) error {
	col, ok := balanceColumns[field]
	if !ok {
		return fmt.Errorf("leave: unknown balance field %q", field)
	}
	if amount <= 0 {
		return nil
	}
	query := fmt.Sprintf(`
    UPDATE balances
    SET %s = %s - $1, updated_at = now()
    WHERE employee_id = $2 AND %s >= $1
  `, col, col, col)
	tag, err := s.q.Exec(ctx, query, amount, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the row vanished or a concurrent debit drained the
		// balance after validation; the caller re-reads and retries.
		return ErrConcurrencyConflict
	}
	return nil
}

func (s *Store) SetBalanceField(ctx context.Context, employeeID string, field BalanceField, value int) error {
	col, ok := balanceColumns[field]
	if !ok {
		return fmt.Errorf("leave: unknown balance field %q", field)
	}
	query := fmt.Sprintf("UPDATE balances SET %s = $1, updated_at = now() WHERE employee_id = $2", col)
	tag, err := s.q.Exec(ctx, query, value, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) InsertMedicalLeave(ctx context.Context, rec *MedicalLeaveRecord) error {
	return s.q.QueryRow(ctx, `
    INSERT INTO medical_leaves (employee_id, issued_by, start_date, end_date, document_ref)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_at
  `, rec.EmployeeID, rec.IssuedBy, rec.StartDate, rec.EndDate, rec.DocumentRef).Scan(&rec.ID, &rec.CreatedAt)
}

func (s *Store) ListMedicalLeaves(ctx context.Context, employeeID string) ([]MedicalLeaveRecord, error) {
	query := `
    SELECT id, employee_id, issued_by, start_date, end_date, document_ref, created_at
    FROM medical_leaves
  `
	var args []any
	if employeeID != "" {
		query += " WHERE employee_id = $1"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MedicalLeaveRecord
	for rows.Next() {
		var rec MedicalLeaveRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.IssuedBy, &rec.StartDate, &rec.EndDate, &rec.DocumentRef, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) RequesterContext(ctx context.Context, employeeID string) (RequesterContext, error) {
	var rc RequesterContext
	err := s.q.QueryRow(ctx, `
    SELECT e.id, e.username, e.hierarchy_level, e.unit, e.unit_head,
           EXISTS (
             SELECT 1 FROM employees h
             WHERE h.unit = e.unit AND h.unit <> '' AND h.unit_head AND h.active
           )
    FROM employees e
    WHERE e.id = $1
  `, employeeID).Scan(&rc.Requester.ID, &rc.Requester.Username, &rc.Requester.Level,
		&rc.Requester.Unit, &rc.Requester.UnitHead, &rc.UnitHasHead)
	if errors.Is(err, pgx.ErrNoRows) {
		return RequesterContext{}, ErrNotFound
	}
	return rc, err
}

func (s *Store) RecordAudit(ctx context.Context, actorID, accion, detalle string) error {
	_, err := s.q.Exec(ctx, `
    INSERT INTO audit_log (actor_id, accion, detalle)
    VALUES ($1,$2,$3)
  `, actorID, accion, detalle)
	return err
}

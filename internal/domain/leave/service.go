package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"intranet/internal/domain/staff"
	"intranet/internal/platform/metrics"
)

// Service is the approval workflow engine. Every transition runs inside one
// store transaction: the status change, its ledger effect, and its audit row
// persist together or not at all.
type Service struct {
	store   StoreAPI
	metrics *metrics.Collector
	now     func() time.Time
}

func NewService(store StoreAPI, collector *metrics.Collector) *Service {
	return &Service{store: store, metrics: collector, now: func() time.Time { return time.Now().UTC() }}
}

// VisibleRequest pairs a request with the actions the actor may take on it.
type VisibleRequest struct {
	LeaveRequest
	Actions []Action `json:"actions,omitempty"`
}

// Submit validates and persists a new request. A director's own submission
// cascades to Aprobado within the same transaction, with the director
// recorded as approver.
func (s *Service) Submit(ctx context.Context, requester staff.Actor, sub Submission) (LeaveRequest, error) {
	balance, err := s.Balance(ctx, requester.ID)
	if err != nil {
		return LeaveRequest{}, err
	}

	req, err := ValidateSubmission(requester.ID, sub, balance)
	if err != nil {
		return LeaveRequest{}, err
	}

	err = s.store.WithTx(ctx, func(tx StoreAPI) error {
		if err := tx.InsertRequest(ctx, &req); err != nil {
			return err
		}
		detalle := fmt.Sprintf("%s solicitó %s por %d día(s), del %s al %s",
			requester.Username, req.Type, req.Days,
			req.StartDate.Format(dateLayout), req.EndDate.Format(dateLayout))
		if err := tx.RecordAudit(ctx, requester.ID, ActionSubmitted, detalle); err != nil {
			return err
		}
		if requester.IsDirector() {
			return s.finalize(ctx, tx, &req, requester)
		}
		return nil
	})
	if err != nil {
		return LeaveRequest{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordSubmission()
		if req.Status == StatusApproved {
			s.metrics.RecordApproval()
		}
	}
	return req, nil
}

// PreApprove moves a Pendiente request to Pre-Aprobado. The actor must be
// the requester's unit head (or the director) and never the requester.
func (s *Service) PreApprove(ctx context.Context, actor staff.Actor, requestID string) (LeaveRequest, error) {
	var out LeaveRequest
	err := s.store.WithTx(ctx, func(tx StoreAPI) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != StatusPending {
			return ErrInvalidTransition
		}
		rc, err := tx.RequesterContext(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !Allowed(actor, req, rc, ActionPreApprove) {
			return ErrUnauthorized
		}

		now := s.now()
		ok, err := tx.TransitionStatus(ctx, req.ID, []Status{StatusPending}, TransitionStamp{
			To: StatusPreApproved, By: actor.ID, At: now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		req.Status = StatusPreApproved
		req.PreApprovedBy = actor.ID
		req.PreApprovedAt = &now

		detalle := fmt.Sprintf("%s pre-aprobó la solicitud de %s (%s, %d día(s))",
			actor.Username, rc.Requester.Username, req.Type, req.Days)
		if err := tx.RecordAudit(ctx, actor.ID, ActionPreApproved, detalle); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return LeaveRequest{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordPreApproval()
	}
	return out, nil
}

// Approve commits the final decision and its ledger effect.
func (s *Service) Approve(ctx context.Context, actor staff.Actor, requestID string) (LeaveRequest, error) {
	var out LeaveRequest
	err := s.store.WithTx(ctx, func(tx StoreAPI) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != StatusPending && req.Status != StatusPreApproved {
			return ErrInvalidTransition
		}
		rc, err := tx.RequesterContext(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !Allowed(actor, req, rc, ActionApprove) {
			return ErrUnauthorized
		}
		if err := s.finalize(ctx, tx, &req, actor); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return LeaveRequest{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordApproval()
	}
	return out, nil
}

// finalize applies the Aprobado transition plus the type-specific side
// effect inside the caller's transaction.
func (s *Service) finalize(ctx context.Context, tx StoreAPI, req *LeaveRequest, approver staff.Actor) error {
	now := s.now()
	ok, err := tx.TransitionStatus(ctx, req.ID, []Status{StatusPending, StatusPreApproved}, TransitionStamp{
		To: StatusApproved, By: approver.ID, At: now,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}

	switch req.Type {
	case TypeVacation:
		err = tx.DebitBalance(ctx, req.EmployeeID, FieldVacationDays, req.Days)
	case TypeAdministrative:
		err = tx.DebitBalance(ctx, req.EmployeeID, FieldAdminDays, req.Days)
	case TypeCompensation:
		err = tx.DebitBalance(ctx, req.EmployeeID, FieldCompensationHours, req.Days*HoursPerDay)
	case TypeMedicalLeave:
		err = tx.InsertMedicalLeave(ctx, &MedicalLeaveRecord{
			EmployeeID:  req.EmployeeID,
			IssuedBy:    approver.ID,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			DocumentRef: req.AttachmentRef,
		})
	}
	if err != nil {
		return err
	}

	req.Status = StatusApproved
	req.ApprovedBy = approver.ID
	req.ApprovedAt = &now

	detalle := fmt.Sprintf("%s aprobó la solicitud %s (%s, %d día(s))",
		approver.Username, req.ID, req.Type, req.Days)
	return tx.RecordAudit(ctx, approver.ID, ActionApproved, detalle)
}

// Reject closes a request from any non-terminal state.
func (s *Service) Reject(ctx context.Context, actor staff.Actor, requestID, comment string) (LeaveRequest, error) {
	var out LeaveRequest
	err := s.store.WithTx(ctx, func(tx StoreAPI) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status.Terminal() {
			return ErrInvalidTransition
		}
		rc, err := tx.RequesterContext(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !Allowed(actor, req, rc, ActionReject) {
			return ErrUnauthorized
		}

		ok, err := tx.TransitionStatus(ctx, req.ID, []Status{StatusPending, StatusPreApproved}, TransitionStamp{
			To: StatusRejected, By: actor.ID, At: s.now(), RejectComment: comment,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		req.Status = StatusRejected
		req.RejectComment = comment

		detalle := fmt.Sprintf("%s rechazó la solicitud %s (%s)", actor.Username, req.ID, req.Type)
		if comment = strings.TrimSpace(comment); comment != "" {
			detalle += ": " + comment
		}
		if err := tx.RecordAudit(ctx, actor.ID, ActionRejected, detalle); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return LeaveRequest{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordRejection()
	}
	return out, nil
}

// VisibleRequests returns the requests the actor may see, most recent first,
// each annotated with the actions available to the actor.
func (s *Service) VisibleRequests(ctx context.Context, actor staff.Actor) ([]VisibleRequest, error) {
	// Base staff only ever see their own history; skip the full scan.
	if !actor.IsFinalApprover() && !actor.UnitHead {
		requests, err := s.store.ListRequestsByEmployee(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		out := make([]VisibleRequest, 0, len(requests))
		for _, req := range requests {
			out = append(out, VisibleRequest{LeaveRequest: req})
		}
		return out, nil
	}

	requests, err := s.store.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	contexts := make(map[string]RequesterContext)
	out := make([]VisibleRequest, 0, len(requests))
	for _, req := range requests {
		rc, ok := contexts[req.EmployeeID]
		if !ok {
			rc, err = s.store.RequesterContext(ctx, req.EmployeeID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, err
			}
			contexts[req.EmployeeID] = rc
		}
		if !VisibleTo(actor, req, rc) {
			continue
		}
		visible := VisibleRequest{LeaveRequest: req}
		if req.EmployeeID != actor.ID || actor.IsDirector() {
			visible.Actions = ActionsFor(actor, req, rc)
		}
		out = append(out, visible)
	}
	return out, nil
}

// Request returns a single request if the actor may see it.
func (s *Service) Request(ctx context.Context, actor staff.Actor, requestID string) (VisibleRequest, error) {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return VisibleRequest{}, err
	}
	rc, err := s.store.RequesterContext(ctx, req.EmployeeID)
	if err != nil {
		return VisibleRequest{}, err
	}
	if !VisibleTo(actor, req, rc) {
		return VisibleRequest{}, ErrUnauthorized
	}
	visible := VisibleRequest{LeaveRequest: req}
	if req.EmployeeID != actor.ID || actor.IsDirector() {
		visible.Actions = ActionsFor(actor, req, rc)
	}
	return visible, nil
}

// Balance returns the employee's ledger row, provisioning one with policy
// defaults if account creation predates the explicit lifecycle rule.
func (s *Service) Balance(ctx context.Context, employeeID string) (Balance, error) {
	balance, err := s.store.GetBalance(ctx, employeeID)
	if errors.Is(err, ErrNotFound) {
		return s.store.ProvisionBalance(ctx, employeeID, s.now().Year())
	}
	return balance, err
}

// AdjustBalance is the administrative override: no bounds check, negative
// values allowed to model unpaid shortfalls. Authorization is the caller's
// responsibility; the adjustment is always audited.
func (s *Service) AdjustBalance(ctx context.Context, actor staff.Actor, employeeID string, field BalanceField, value int) (Balance, error) {
	if !field.Valid() {
		return Balance{}, validationErr(OutOfRange, "campo", "Campo de saldo desconocido: %q.", string(field))
	}

	err := s.store.WithTx(ctx, func(tx StoreAPI) error {
		if _, err := tx.GetBalance(ctx, employeeID); errors.Is(err, ErrNotFound) {
			if _, err := tx.ProvisionBalance(ctx, employeeID, s.now().Year()); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if err := tx.SetBalanceField(ctx, employeeID, field, value); err != nil {
			return err
		}
		detalle := fmt.Sprintf("%s ajustó %s de %s a %d", actor.Username, field, employeeID, value)
		return tx.RecordAudit(ctx, actor.ID, ActionBalanceAdjusted, detalle)
	})
	if err != nil {
		return Balance{}, err
	}
	return s.store.GetBalance(ctx, employeeID)
}

// Provision implements the ledger lifecycle rule for a single employee;
// staff creation calls it so every active employee has a balance row.
func (s *Service) Provision(ctx context.Context, employeeID string, year int) error {
	_, err := s.store.ProvisionBalance(ctx, employeeID, year)
	return err
}

// RollBalances provisions and resets every active employee's balance for the
// given year. Invoked by the yearly job.
func (s *Service) RollBalances(ctx context.Context, year int) (int, error) {
	return s.store.RollBalances(ctx, year)
}

// RecordMedicalLeave registers a medical leave directly, outside the request
// workflow (the sub-direction intake path).
func (s *Service) RecordMedicalLeave(ctx context.Context, actor staff.Actor, employeeID string, start, end time.Time, documentRef string) (MedicalLeaveRecord, error) {
	if end.Before(start) {
		return MedicalLeaveRecord{}, validationErr(InvalidDateOrder, "fecha_fin", "La fecha de término no puede ser anterior a la de inicio.")
	}
	if strings.TrimSpace(documentRef) == "" {
		return MedicalLeaveRecord{}, validationErr(MissingAttachment, "documento", "Debe adjuntar la licencia médica.")
	}

	rec := MedicalLeaveRecord{
		EmployeeID:  employeeID,
		IssuedBy:    actor.ID,
		StartDate:   start,
		EndDate:     end,
		DocumentRef: strings.TrimSpace(documentRef),
	}
	err := s.store.WithTx(ctx, func(tx StoreAPI) error {
		if err := tx.InsertMedicalLeave(ctx, &rec); err != nil {
			return err
		}
		detalle := fmt.Sprintf("%s registró una licencia para %s (%s a %s)",
			actor.Username, employeeID, start.Format(dateLayout), end.Format(dateLayout))
		return tx.RecordAudit(ctx, actor.ID, ActionMedicalRecorded, detalle)
	})
	if err != nil {
		return MedicalLeaveRecord{}, err
	}
	return rec, nil
}

// MedicalLeaves lists records, newest first; empty employeeID lists all.
func (s *Service) MedicalLeaves(ctx context.Context, employeeID string) ([]MedicalLeaveRecord, error) {
	return s.store.ListMedicalLeaves(ctx, employeeID)
}

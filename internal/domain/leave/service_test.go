package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"intranet/internal/domain/staff"
)

type auditRow struct {
	ActorID string
	Accion  string
	Detalle string
}

// fakeStore is the in-memory StoreAPI used by workflow tests. WithTx runs
// the callback against the same store; transitions and debits enforce the
// same compare-and-set semantics as the SQL store.
type fakeStore struct {
	requests map[string]*LeaveRequest
	balances map[string]*Balance
	actors   map[string]RequesterContext
	medical  []MedicalLeaveRecord
	audits   []auditRow
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests: map[string]*LeaveRequest{},
		balances: map[string]*Balance{},
		actors:   map[string]RequesterContext{},
	}
}

func (f *fakeStore) addActor(actor staff.Actor, unitHasHead bool) {
	f.actors[actor.ID] = RequesterContext{Requester: actor, UnitHasHead: unitHasHead}
}

func (f *fakeStore) setBalance(employeeID string, b Balance) {
	b.EmployeeID = employeeID
	f.balances[employeeID] = &b
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx StoreAPI) error) error {
	return fn(f)
}

func (f *fakeStore) InsertRequest(ctx context.Context, req *LeaveRequest) error {
	f.nextID++
	req.ID = fmt.Sprintf("req-%d", f.nextID)
	req.CreatedAt = time.Now()
	stored := *req
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeStore) GetRequest(ctx context.Context, id string) (LeaveRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return LeaveRequest{}, ErrNotFound
	}
	return *req, nil
}

func (f *fakeStore) ListRequests(ctx context.Context) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, req := range f.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (f *fakeStore) ListRequestsByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, req := range f.requests {
		if req.EmployeeID == employeeID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeStore) TransitionStatus(ctx context.Context, id string, from []Status, stamp TransitionStamp) (bool, error) {
	req, ok := f.requests[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, st := range from {
		if req.Status == st {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}

	req.Status = stamp.To
	at := stamp.At
	switch stamp.To {
	case StatusPreApproved:
		req.PreApprovedBy = stamp.By
		req.PreApprovedAt = &at
	case StatusApproved:
		req.ApprovedBy = stamp.By
		req.ApprovedAt = &at
	case StatusRejected:
		req.RejectComment = stamp.RejectComment
	}
	return true, nil
}

func (f *fakeStore) GetBalance(ctx context.Context, employeeID string) (Balance, error) {
	b, ok := f.balances[employeeID]
	if !ok {
		return Balance{}, ErrNotFound
	}
	return *b, nil
}

func (f *fakeStore) ProvisionBalance(ctx context.Context, employeeID string, year int) (Balance, error) {
	if b, ok := f.balances[employeeID]; ok {
		return *b, nil
	}
	b := &Balance{
		EmployeeID:        employeeID,
		VacationDays:      DefaultVacationDays,
		AdminDays:         DefaultAdminDays,
		CompensationHours: DefaultCompensationHours,
		Year:              year,
	}
	f.balances[employeeID] = b
	return *b, nil
}

func (f *fakeStore) RollBalances(ctx context.Context, year int) (int, error) {
	touched := 0
	for _, b := range f.balances {
		if b.Year < year {
			b.VacationDays = DefaultVacationDays
			b.AdminDays = DefaultAdminDays
			b.CompensationHours = DefaultCompensationHours
			b.Year = year
			touched++
		}
	}
	return touched, nil
}

func (f *fakeStore) DebitBalance(ctx context.Context, employeeID string, field BalanceField, amount int) error {
	if amount <= 0 {
		return nil
	}
	b, ok := f.balances[employeeID]
	if !ok || b.Field(field) < amount {
		return ErrConcurrencyConflict
	}
	switch field {
	case FieldVacationDays:
		b.VacationDays -= amount
	case FieldAdminDays:
		b.AdminDays -= amount
	case FieldCompensationHours:
		b.CompensationHours -= amount
	}
	return nil
}

func (f *fakeStore) SetBalanceField(ctx context.Context, employeeID string, field BalanceField, value int) error {
	b, ok := f.balances[employeeID]
	if !ok {
		return ErrNotFound
	}
	switch field {
	case FieldVacationDays:
		b.VacationDays = value
	case FieldAdminDays:
		b.AdminDays = value
	case FieldCompensationHours:
		b.CompensationHours = value
	}
	return nil
}

func (f *fakeStore) InsertMedicalLeave(ctx context.Context, rec *MedicalLeaveRecord) error {
	f.nextID++
	rec.ID = fmt.Sprintf("med-%d", f.nextID)
	rec.CreatedAt = time.Now()
	f.medical = append(f.medical, *rec)
	return nil
}

func (f *fakeStore) ListMedicalLeaves(ctx context.Context, employeeID string) ([]MedicalLeaveRecord, error) {
	if employeeID == "" {
		return f.medical, nil
	}
	var out []MedicalLeaveRecord
	for _, rec := range f.medical {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) RequesterContext(ctx context.Context, employeeID string) (RequesterContext, error) {
	rc, ok := f.actors[employeeID]
	if !ok {
		return RequesterContext{}, ErrNotFound
	}
	return rc, nil
}

func (f *fakeStore) RecordAudit(ctx context.Context, actorID, accion, detalle string) error {
	f.audits = append(f.audits, auditRow{ActorID: actorID, Accion: accion, Detalle: detalle})
	return nil
}

func (f *fakeStore) lastAudit(t *testing.T) auditRow {
	t.Helper()
	if len(f.audits) == 0 {
		t.Fatal("no audit entries recorded")
	}
	return f.audits[len(f.audits)-1]
}

func newWorkflow(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.addActor(worker, true)
	store.addActor(head, true)
	store.addActor(subdir, false)
	store.addActor(director, false)
	store.addActor(outsider, false)
	return NewService(store, nil), store
}

func submitVacation(t *testing.T, svc *Service, store *fakeStore, requester staff.Actor, days int) LeaveRequest {
	t.Helper()
	store.setBalance(requester.ID, Balance{VacationDays: DefaultVacationDays, AdminDays: DefaultAdminDays, Year: 2025})
	end := date("2025-02-03").AddDate(0, 0, days-1)
	req, err := svc.Submit(context.Background(), requester, Submission{
		Type:      TypeVacation,
		StartDate: "2025-02-03",
		EndDate:   end.Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return req
}

func TestSubmitCreatesPendingAndAudits(t *testing.T) {
	svc, store := newWorkflow(t)
	req := submitVacation(t, svc, store, worker, 3)

	if req.Status != StatusPending {
		t.Fatalf("status = %s, want %s", req.Status, StatusPending)
	}
	entry := store.lastAudit(t)
	if entry.Accion != ActionSubmitted || entry.ActorID != worker.ID {
		t.Fatalf("audit = %+v", entry)
	}
	// No ledger effect before approval.
	if b := store.balances[worker.ID]; b.VacationDays != DefaultVacationDays {
		t.Fatalf("vacation days = %d, want untouched %d", b.VacationDays, DefaultVacationDays)
	}
}

func TestDirectorSubmissionAutoApproves(t *testing.T) {
	svc, store := newWorkflow(t)
	req := submitVacation(t, svc, store, director, 4)

	if req.Status != StatusApproved {
		t.Fatalf("status = %s, want %s", req.Status, StatusApproved)
	}
	if req.ApprovedBy != director.ID {
		t.Fatalf("approvedBy = %s, want %s", req.ApprovedBy, director.ID)
	}
	if b := store.balances[director.ID]; b.VacationDays != DefaultVacationDays-4 {
		t.Fatalf("vacation days = %d, want %d", b.VacationDays, DefaultVacationDays-4)
	}
	entry := store.lastAudit(t)
	if entry.Accion != ActionApproved {
		t.Fatalf("last audit = %s, want %s", entry.Accion, ActionApproved)
	}
}

func TestFullApprovalChainDebitsOnce(t *testing.T) {
	svc, store := newWorkflow(t)
	req := submitVacation(t, svc, store, worker, 3)

	pre, err := svc.PreApprove(context.Background(), head, req.ID)
	if err != nil {
		t.Fatalf("pre-approve failed: %v", err)
	}
	if pre.Status != StatusPreApproved || pre.PreApprovedBy != head.ID {
		t.Fatalf("after pre-approve: %+v", pre)
	}
	if entry := store.lastAudit(t); entry.Accion != ActionPreApproved {
		t.Fatalf("audit = %s, want %s", entry.Accion, ActionPreApproved)
	}

	approved, err := svc.Approve(context.Background(), subdir, req.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != StatusApproved || approved.ApprovedBy != subdir.ID {
		t.Fatalf("after approve: %+v", approved)
	}
	if b := store.balances[worker.ID]; b.VacationDays != DefaultVacationDays-3 {
		t.Fatalf("vacation days = %d, want %d", b.VacationDays, DefaultVacationDays-3)
	}
	if entry := store.lastAudit(t); entry.Accion != ActionApproved {
		t.Fatalf("audit = %s, want %s", entry.Accion, ActionApproved)
	}
}

func TestAdminDayChainDebitsAdminBalance(t *testing.T) {
	svc, store := newWorkflow(t)
	store.setBalance(worker.ID, Balance{VacationDays: DefaultVacationDays, AdminDays: 6, Year: 2024})

	req, err := svc.Submit(context.Background(), worker, Submission{
		Type:      TypeAdministrative,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-03",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if req.Status != StatusPending || req.Days != 3 {
		t.Fatalf("submitted = %+v, want Pendiente for 3 days", req)
	}

	if _, err := svc.PreApprove(context.Background(), head, req.ID); err != nil {
		t.Fatalf("pre-approve failed: %v", err)
	}
	approved, err := svc.Approve(context.Background(), subdir, req.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("status = %s, want %s", approved.Status, StatusApproved)
	}

	b := store.balances[worker.ID]
	if b.AdminDays != 3 {
		t.Fatalf("admin days = %d, want 3 after a 3-day debit from 6", b.AdminDays)
	}
	if b.VacationDays != DefaultVacationDays {
		t.Fatalf("vacation days = %d, admin leave must not touch them", b.VacationDays)
	}
	if entry := store.lastAudit(t); entry.Accion != ActionApproved {
		t.Fatalf("audit = %s, want %s", entry.Accion, ActionApproved)
	}
}

func TestSecondDecisionLosesRace(t *testing.T) {
	svc, store := newWorkflow(t)
	req := submitVacation(t, svc, store, outsider, 2)

	if _, err := svc.Approve(context.Background(), subdir, req.ID); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	_, err := svc.Approve(context.Background(), director, req.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second approve err = %v, want ErrInvalidTransition", err)
	}
	_, err = svc.Reject(context.Background(), director, req.ID, "tarde")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reject after approve err = %v, want ErrInvalidTransition", err)
	}

	// The ledger only moved once.
	if b := store.balances[outsider.ID]; b.VacationDays != DefaultVacationDays-2 {
		t.Fatalf("vacation days = %d, want %d", b.VacationDays, DefaultVacationDays-2)
	}
}

func TestUnitHeadCannotFinalApprove(t *testing.T) {
	svc, store := newWorkflow(t)
	req := submitVacation(t, svc, store, worker, 2)

	_, err := svc.Approve(context.Background(), head, req.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	got, _ := store.GetRequest(context.Background(), req.ID)
	if got.Status != StatusPending {
		t.Fatalf("status = %s, unauthorized action must not change state", got.Status)
	}
}

func TestPreApproveOwnRequestUnauthorized(t *testing.T) {
	svc, store := newWorkflow(t)
	req := submitVacation(t, svc, store, head, 2)

	_, err := svc.PreApprove(context.Background(), head, req.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestApproveCompensationDebitsHours(t *testing.T) {
	svc, store := newWorkflow(t)
	store.setBalance(worker.ID, Balance{CompensationHours: 20, Year: 2025})

	req, err := svc.Submit(context.Background(), worker, Submission{
		Type:      TypeCompensation,
		StartDate: "2025-02-03",
		EndDate:   "2025-02-04",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.Approve(context.Background(), director, req.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if b := store.balances[worker.ID]; b.CompensationHours != 20-2*HoursPerDay {
		t.Fatalf("compensation hours = %d, want %d", b.CompensationHours, 20-2*HoursPerDay)
	}
}

func TestApproveMedicalLeaveCreatesRecord(t *testing.T) {
	svc, store := newWorkflow(t)
	store.setBalance(worker.ID, Balance{Year: 2025})

	req, err := svc.Submit(context.Background(), worker, Submission{
		Type:          TypeMedicalLeave,
		StartDate:     "2025-02-03",
		EndDate:       "2025-02-07",
		AttachmentRef: "docs/licencia-123.pdf",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.PreApprove(context.Background(), head, req.ID); err != nil {
		t.Fatalf("pre-approve failed: %v", err)
	}
	if _, err := svc.Approve(context.Background(), subdir, req.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if len(store.medical) != 1 {
		t.Fatalf("medical records = %d, want 1", len(store.medical))
	}
	rec := store.medical[0]
	if rec.EmployeeID != worker.ID || rec.IssuedBy != subdir.ID || rec.DocumentRef != "docs/licencia-123.pdf" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestRejectRecordsComment(t *testing.T) {
	svc, store := newWorkflow(t)
	req := submitVacation(t, svc, store, worker, 2)

	rejected, err := svc.Reject(context.Background(), head, req.ID, "cobertura insuficiente")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != StatusRejected || rejected.RejectComment != "cobertura insuficiente" {
		t.Fatalf("rejected = %+v", rejected)
	}
	if entry := store.lastAudit(t); entry.Accion != ActionRejected {
		t.Fatalf("audit = %s, want %s", entry.Accion, ActionRejected)
	}
	// No debit on rejection.
	if b := store.balances[worker.ID]; b.VacationDays != DefaultVacationDays {
		t.Fatalf("vacation days = %d, want untouched", b.VacationDays)
	}
}

func TestVisibleRequestsBaseStaffSeeOwnOnly(t *testing.T) {
	svc, store := newWorkflow(t)
	submitVacation(t, svc, store, worker, 2)
	submitVacation(t, svc, store, outsider, 2)

	visible, err := svc.VisibleRequests(context.Background(), worker)
	if err != nil {
		t.Fatalf("visible requests failed: %v", err)
	}
	if len(visible) != 1 || visible[0].EmployeeID != worker.ID {
		t.Fatalf("visible = %+v", visible)
	}
	if len(visible[0].Actions) != 0 {
		t.Fatalf("own request carries actions %v", visible[0].Actions)
	}
}

func TestBalanceProvisionsOnFirstRead(t *testing.T) {
	svc, store := newWorkflow(t)

	balance, err := svc.Balance(context.Background(), "emp-new")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance.VacationDays != DefaultVacationDays || balance.AdminDays != DefaultAdminDays {
		t.Fatalf("provisioned balance = %+v", balance)
	}
	if _, ok := store.balances["emp-new"]; !ok {
		t.Fatal("balance row not persisted")
	}
}

func TestAdjustBalanceAllowsNegativeAndAudits(t *testing.T) {
	svc, store := newWorkflow(t)
	store.setBalance(worker.ID, Balance{VacationDays: 5, Year: 2025})

	balance, err := svc.AdjustBalance(context.Background(), director, worker.ID, FieldVacationDays, -2)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if balance.VacationDays != -2 {
		t.Fatalf("vacation days = %d, want -2", balance.VacationDays)
	}
	if entry := store.lastAudit(t); entry.Accion != ActionBalanceAdjusted {
		t.Fatalf("audit = %s, want %s", entry.Accion, ActionBalanceAdjusted)
	}

	_, err = svc.AdjustBalance(context.Background(), director, worker.ID, BalanceField("bonus"), 1)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != OutOfRange {
		t.Fatalf("unknown field err = %v, want OutOfRange validation error", err)
	}
}

func TestRecordMedicalLeaveValidates(t *testing.T) {
	svc, store := newWorkflow(t)

	_, err := svc.RecordMedicalLeave(context.Background(), subdir, worker.ID, date("2025-02-07"), date("2025-02-03"), "doc.pdf")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != InvalidDateOrder {
		t.Fatalf("err = %v, want InvalidDateOrder", err)
	}

	_, err = svc.RecordMedicalLeave(context.Background(), subdir, worker.ID, date("2025-02-03"), date("2025-02-07"), " ")
	if !errors.As(err, &verr) || verr.Kind != MissingAttachment {
		t.Fatalf("err = %v, want MissingAttachment", err)
	}

	rec, err := svc.RecordMedicalLeave(context.Background(), subdir, worker.ID, date("2025-02-03"), date("2025-02-07"), "doc.pdf")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if rec.IssuedBy != subdir.ID {
		t.Fatalf("issuedBy = %s", rec.IssuedBy)
	}
	if entry := store.lastAudit(t); entry.Accion != ActionMedicalRecorded {
		t.Fatalf("audit = %s, want %s", entry.Accion, ActionMedicalRecorded)
	}
}

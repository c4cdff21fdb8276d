package leave

import (
	"context"
	"time"
)

// TransitionStamp describes the columns a status change writes alongside the
// new status.
type TransitionStamp struct {
	To            Status
	By            string
	At            time.Time
	RejectComment string
}

// StoreAPI is the persistence contract of the leave core. The pgx Store
// implements it against Postgres; tests substitute an in-memory fake.
// WithTx hands the callback a store bound to one transaction, so a status
// change, its ledger effect, and its audit row commit atomically.
type StoreAPI interface {
	WithTx(ctx context.Context, fn func(tx StoreAPI) error) error

	InsertRequest(ctx context.Context, req *LeaveRequest) error
	GetRequest(ctx context.Context, id string) (LeaveRequest, error)
	ListRequests(ctx context.Context) ([]LeaveRequest, error)
	ListRequestsByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	// TransitionStatus performs a compare-and-set: the update applies only
	// if the current status is one of from. Returns false on a CAS miss.
	TransitionStatus(ctx context.Context, id string, from []Status, stamp TransitionStamp) (bool, error)

	GetBalance(ctx context.Context, employeeID string) (Balance, error)
	ProvisionBalance(ctx context.Context, employeeID string, year int) (Balance, error)
	// RollBalances resets every active employee's counters to the policy
	// defaults for the given year and provisions missing rows.
	RollBalances(ctx context.Context, year int) (int, error)
	// DebitBalance decrements a counter only while it stays non-negative;
	// a conditional update so concurrent debits cannot overdraw.
	DebitBalance(ctx context.Context, employeeID string, field BalanceField, amount int) error
	SetBalanceField(ctx context.Context, employeeID string, field BalanceField, value int) error

	InsertMedicalLeave(ctx context.Context, rec *MedicalLeaveRecord) error
	ListMedicalLeaves(ctx context.Context, employeeID string) ([]MedicalLeaveRecord, error)

	RequesterContext(ctx context.Context, employeeID string) (RequesterContext, error)
	RecordAudit(ctx context.Context, actorID, accion, detalle string) error
}

package leave

import "time"

type LeaveRequest struct {
	ID            string      `json:"id"`
	EmployeeID    string      `json:"employeeId"`
	Type          RequestType `json:"type"`
	StartDate     time.Time   `json:"startDate"`
	EndDate       time.Time   `json:"endDate"`
	Days          int         `json:"days"`
	Hours         int         `json:"hours,omitempty"`
	AttachmentRef string      `json:"attachmentRef,omitempty"`
	Note          string      `json:"note,omitempty"`
	Status        Status      `json:"status"`

	PreApprovedBy string     `json:"preApprovedBy,omitempty"`
	PreApprovedAt *time.Time `json:"preApprovedAt,omitempty"`
	ApprovedBy    string     `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	RejectComment string     `json:"rejectComment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Balance is the per-employee entitlement ledger row for one year.
type Balance struct {
	EmployeeID        string    `json:"employeeId"`
	VacationDays      int       `json:"vacationDays"`
	AdminDays         int       `json:"adminDays"`
	CompensationHours int       `json:"compensationHours"`
	Year              int       `json:"year"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (b Balance) Field(f BalanceField) int {
	switch f {
	case FieldVacationDays:
		return b.VacationDays
	case FieldAdminDays:
		return b.AdminDays
	case FieldCompensationHours:
		return b.CompensationHours
	}
	return 0
}

// MedicalLeaveRecord is immutable after creation. It is written either
// directly by sub-direction staff or as the side effect of approving a
// medical-leave request.
type MedicalLeaveRecord struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	IssuedBy    string    `json:"issuedBy"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	DocumentRef string    `json:"documentRef"`
	CreatedAt   time.Time `json:"createdAt"`
}

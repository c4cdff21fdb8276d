package leave

import (
	"errors"
	"testing"
	"time"
)

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func validationKind(t *testing.T, err error) ValidationKind {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return verr.Kind
}

func TestCalculateDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2025-03-10", "2025-03-10", 1},
		{"2025-03-10", "2025-03-14", 5},
		{"2025-12-29", "2026-01-02", 5},
	}
	for _, tc := range cases {
		got, err := CalculateDays(date(tc.start), date(tc.end))
		if err != nil {
			t.Fatalf("CalculateDays(%s, %s): %v", tc.start, tc.end, err)
		}
		if got != tc.want {
			t.Fatalf("CalculateDays(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestCalculateDaysInvertedOrder(t *testing.T) {
	_, err := CalculateDays(date("2025-03-14"), date("2025-03-10"))
	if kind := validationKind(t, err); kind != InvalidDateOrder {
		t.Fatalf("kind = %s, want %s", kind, InvalidDateOrder)
	}
}

func TestValidateSubmissionVacation(t *testing.T) {
	balance := Balance{VacationDays: 15, AdminDays: 6}

	req, err := ValidateSubmission("emp-1", Submission{
		Type:      TypeVacation,
		StartDate: "2025-02-03",
		EndDate:   "2025-02-07",
	}, balance)
	if err != nil {
		t.Fatalf("valid vacation rejected: %v", err)
	}
	if req.Status != StatusPending {
		t.Fatalf("status = %s, want %s", req.Status, StatusPending)
	}
	if req.Days != 5 {
		t.Fatalf("days = %d, want 5", req.Days)
	}
	if req.EmployeeID != "emp-1" {
		t.Fatalf("employee = %s", req.EmployeeID)
	}
}

func TestValidateSubmissionInsufficientVacation(t *testing.T) {
	balance := Balance{VacationDays: 3}
	_, err := ValidateSubmission("emp-1", Submission{
		Type:      TypeVacation,
		StartDate: "2025-02-03",
		EndDate:   "2025-02-07",
	}, balance)
	if kind := validationKind(t, err); kind != InsufficientBalance {
		t.Fatalf("kind = %s, want %s", kind, InsufficientBalance)
	}
}

func TestValidateSubmissionInsufficientAdminDays(t *testing.T) {
	balance := Balance{AdminDays: 1}
	_, err := ValidateSubmission("emp-1", Submission{
		Type:      TypeAdministrative,
		StartDate: "2025-02-03",
		EndDate:   "2025-02-04",
	}, balance)
	if kind := validationKind(t, err); kind != InsufficientBalance {
		t.Fatalf("kind = %s, want %s", kind, InsufficientBalance)
	}
}

func TestValidateSubmissionCompensationConvertsDaysToHours(t *testing.T) {
	// Two days ask for 16 compensated hours.
	_, err := ValidateSubmission("emp-1", Submission{
		Type:      TypeCompensation,
		StartDate: "2025-02-03",
		EndDate:   "2025-02-04",
	}, Balance{CompensationHours: 15})
	if kind := validationKind(t, err); kind != InsufficientBalance {
		t.Fatalf("kind = %s, want %s", kind, InsufficientBalance)
	}

	req, err := ValidateSubmission("emp-1", Submission{
		Type:      TypeCompensation,
		StartDate: "2025-02-03",
		EndDate:   "2025-02-04",
	}, Balance{CompensationHours: 16})
	if err != nil {
		t.Fatalf("compensation with exact balance rejected: %v", err)
	}
	if req.Days != 2 {
		t.Fatalf("days = %d, want 2", req.Days)
	}
}

func TestValidateSubmissionUnpaidIgnoresBalance(t *testing.T) {
	req, err := ValidateSubmission("emp-1", Submission{
		Type:      TypeUnpaid,
		StartDate: "2025-02-03",
		EndDate:   "2025-03-03",
	}, Balance{})
	if err != nil {
		t.Fatalf("unpaid leave should not check balance: %v", err)
	}
	if req.Days != 29 {
		t.Fatalf("days = %d, want 29", req.Days)
	}
}

func TestValidateSubmissionMedicalHours(t *testing.T) {
	req, err := ValidateSubmission("emp-1", Submission{
		Type:      TypeMedicalHours,
		StartDate: "2025-02-03",
		EndDate:   "2025-02-10", // ignored, hour permits are single-day
		Hours:     3,
	}, Balance{})
	if err != nil {
		t.Fatalf("medical hours rejected: %v", err)
	}
	if req.Days != 1 {
		t.Fatalf("days = %d, want 1", req.Days)
	}
	if !req.EndDate.Equal(req.StartDate) {
		t.Fatalf("end date %s not forced to start %s", req.EndDate, req.StartDate)
	}
	if req.Hours != 3 {
		t.Fatalf("hours = %d, want 3", req.Hours)
	}

	for _, hours := range []int{0, 5} {
		_, err := ValidateSubmission("emp-1", Submission{
			Type:      TypeMedicalHours,
			StartDate: "2025-02-03",
			Hours:     hours,
		}, Balance{})
		if kind := validationKind(t, err); kind != OutOfRange {
			t.Fatalf("hours=%d: kind = %s, want %s", hours, kind, OutOfRange)
		}
	}
}

func TestValidateSubmissionBereavementCap(t *testing.T) {
	_, err := ValidateSubmission("emp-1", Submission{
		Type:          TypeBereavement,
		StartDate:     "2025-02-03",
		EndDate:       "2025-02-10",
		AttachmentRef: "docs/certificado.pdf",
	}, Balance{})
	if kind := validationKind(t, err); kind != OutOfRange {
		t.Fatalf("kind = %s, want %s", kind, OutOfRange)
	}

	req, err := ValidateSubmission("emp-1", Submission{
		Type:          TypeBereavement,
		StartDate:     "2025-02-03",
		EndDate:       "2025-02-09",
		AttachmentRef: "docs/certificado.pdf",
	}, Balance{})
	if err != nil {
		t.Fatalf("7-day bereavement rejected: %v", err)
	}
	if req.Days != MaxBereavementDays {
		t.Fatalf("days = %d, want %d", req.Days, MaxBereavementDays)
	}
}

func TestValidateSubmissionAttachmentRequired(t *testing.T) {
	for _, typ := range []RequestType{TypeMedicalLeave, TypeBereavement} {
		_, err := ValidateSubmission("emp-1", Submission{
			Type:      typ,
			StartDate: "2025-02-03",
			EndDate:   "2025-02-04",
		}, Balance{})
		if kind := validationKind(t, err); kind != MissingAttachment {
			t.Fatalf("%s: kind = %s, want %s", typ, kind, MissingAttachment)
		}
	}
}

func TestValidateSubmissionUnknownType(t *testing.T) {
	_, err := ValidateSubmission("emp-1", Submission{
		Type:      RequestType("sabatico"),
		StartDate: "2025-02-03",
		EndDate:   "2025-02-04",
	}, Balance{})
	if kind := validationKind(t, err); kind != OutOfRange {
		t.Fatalf("kind = %s, want %s", kind, OutOfRange)
	}
}

func TestValidateSubmissionBadDates(t *testing.T) {
	_, err := ValidateSubmission("emp-1", Submission{
		Type:      TypeVacation,
		StartDate: "03/02/2025",
		EndDate:   "2025-02-04",
	}, Balance{VacationDays: 10})
	if kind := validationKind(t, err); kind != OutOfRange {
		t.Fatalf("kind = %s, want %s", kind, OutOfRange)
	}

	_, err = ValidateSubmission("emp-1", Submission{
		Type:      TypeVacation,
		StartDate: "2025-02-07",
		EndDate:   "2025-02-03",
	}, Balance{VacationDays: 10})
	if kind := validationKind(t, err); kind != InvalidDateOrder {
		t.Fatalf("kind = %s, want %s", kind, InvalidDateOrder)
	}
}

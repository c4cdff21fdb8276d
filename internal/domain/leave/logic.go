package leave

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Submission is the raw form input for a new leave request.
type Submission struct {
	Type          RequestType
	StartDate     string
	EndDate       string
	Hours         int
	AttachmentRef string
	Note          string
}

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, validationErr(InvalidDateOrder, "fecha_fin", "La fecha de término no puede ser anterior a la de inicio.")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// ValidateSubmission applies the per-type structural and balance rules and,
// on success, constructs the request in Pendiente. It performs no
// persistence; the caller owns saving the result.
func ValidateSubmission(requesterID string, sub Submission, balance Balance) (LeaveRequest, error) {
	if !sub.Type.Valid() {
		return LeaveRequest{}, validationErr(OutOfRange, "tipo_permiso", "Tipo de permiso desconocido: %q.", string(sub.Type))
	}

	start, err := time.Parse(dateLayout, strings.TrimSpace(sub.StartDate))
	if err != nil {
		return LeaveRequest{}, validationErr(OutOfRange, "fecha_inicio", "Formato de fecha inválido.")
	}

	var end time.Time
	if sub.Type == TypeMedicalHours {
		// Hour permits are always a single day.
		end = start
	} else {
		end, err = time.Parse(dateLayout, strings.TrimSpace(sub.EndDate))
		if err != nil {
			return LeaveRequest{}, validationErr(OutOfRange, "fecha_fin", "Formato de fecha inválido.")
		}
	}

	days, err := CalculateDays(start, end)
	if err != nil {
		return LeaveRequest{}, err
	}

	hours := 0
	switch sub.Type {
	case TypeMedicalHours:
		if sub.Hours < 1 || sub.Hours > MaxAppointmentHours {
			return LeaveRequest{}, validationErr(OutOfRange, "horas", "Las horas de permiso deben estar entre 1 y %d.", MaxAppointmentHours)
		}
		hours = sub.Hours
		days = 1

	case TypeAdministrative:
		if days > balance.AdminDays {
			return LeaveRequest{}, validationErr(InsufficientBalance, "dias",
				"Saldo insuficiente: solicita %d día(s) administrativos y le quedan %d.", days, balance.AdminDays)
		}

	case TypeVacation:
		if days > balance.VacationDays {
			return LeaveRequest{}, validationErr(InsufficientBalance, "dias",
				"Saldo insuficiente: solicita %d día(s) de vacaciones y le quedan %d.", days, balance.VacationDays)
		}

	case TypeCompensation:
		if days*HoursPerDay > balance.CompensationHours {
			return LeaveRequest{}, validationErr(InsufficientBalance, "dias",
				"Saldo insuficiente: %d día(s) equivalen a %d horas y le quedan %d horas compensatorias.",
				days, days*HoursPerDay, balance.CompensationHours)
		}

	case TypeBereavement:
		if days > MaxBereavementDays {
			return LeaveRequest{}, validationErr(OutOfRange, "dias",
				"El permiso por fallecimiento no puede exceder %d días.", MaxBereavementDays)
		}

	case TypeUnpaid, TypeMedicalLeave:
		// No balance check.
	}

	if sub.Type.RequiresAttachment() && strings.TrimSpace(sub.AttachmentRef) == "" {
		return LeaveRequest{}, validationErr(MissingAttachment, "justificativo",
			"Debe adjuntar un documento justificativo para este tipo de permiso.")
	}

	return LeaveRequest{
		EmployeeID:    requesterID,
		Type:          sub.Type,
		StartDate:     start,
		EndDate:       end,
		Days:          days,
		Hours:         hours,
		AttachmentRef: strings.TrimSpace(sub.AttachmentRef),
		Note:          strings.TrimSpace(sub.Note),
		Status:        StatusPending,
	}, nil
}

package leave

// RequestType is the closed set of leave request kinds. The string values
// keep the source system's Spanish vocabulary, which is also what the
// frontend and the existing data carry.
type RequestType string

const (
	TypeAdministrative RequestType = "administrativo"
	TypeVacation       RequestType = "vacaciones"
	TypeUnpaid         RequestType = "sin_goce"
	TypeMedicalHours   RequestType = "permiso_horas"
	TypeMedicalLeave   RequestType = "licencia"
	TypeBereavement    RequestType = "fallecimiento"
	TypeCompensation   RequestType = "compensacion"
)

func (t RequestType) Valid() bool {
	switch t {
	case TypeAdministrative, TypeVacation, TypeUnpaid, TypeMedicalHours,
		TypeMedicalLeave, TypeBereavement, TypeCompensation:
		return true
	}
	return false
}

// RequiresAttachment reports whether a supporting document is mandatory at
// submission time.
func (t RequestType) RequiresAttachment() bool {
	return t == TypeMedicalLeave || t == TypeBereavement
}

type Status string

const (
	StatusPending     Status = "Pendiente"
	StatusPreApproved Status = "Pre-Aprobado"
	StatusApproved    Status = "Aprobado"
	StatusRejected    Status = "Rechazado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreApproved, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal statuses admit no further transition.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// BalanceField names a ledger counter. Used as a whitelist key, never
// interpolated from user input.
type BalanceField string

const (
	FieldVacationDays      BalanceField = "vacation_days"
	FieldAdminDays         BalanceField = "admin_days"
	FieldCompensationHours BalanceField = "compensation_hours"
)

func (f BalanceField) Valid() bool {
	switch f {
	case FieldVacationDays, FieldAdminDays, FieldCompensationHours:
		return true
	}
	return false
}

// Audit action labels, preserved verbatim from the source system.
const (
	ActionSubmitted       = "Solicitud Enviada"
	ActionPreApproved     = "Solicitud Pre-Aprobada"
	ActionApproved        = "Solicitud Aprobada"
	ActionRejected        = "Solicitud Rechazada"
	ActionBalanceAdjusted = "Ajuste de Saldo"
	ActionMedicalRecorded = "Registro de Licencia"
)

// Policy constants.
const (
	DefaultVacationDays      = 15
	DefaultAdminDays         = 6
	DefaultCompensationHours = 0

	MaxBereavementDays  = 7
	MaxAppointmentHours = 4
	HoursPerDay         = 8
)

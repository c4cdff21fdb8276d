package staff

// Capability names an action class the transport layer gates on. The set an
// actor holds is derived once from (hierarchy level, unit-head flag) instead
// of re-deriving boolean predicates at every call site.
type Capability string

const (
	CapSeeAllRequests      Capability = "leave.requests.all"
	CapFinalApprove        Capability = "leave.approve"
	CapPreApproveUnit      Capability = "leave.pre_approve"
	CapAdjustBalances      Capability = "leave.balances.adjust"
	CapRecordMedicalLeave  Capability = "leave.medical.record"
	CapViewReports         Capability = "reports.read"
	CapReadAudit           Capability = "audit.read"
	CapManageRoles         Capability = "staff.roles.manage"
	CapManageAnnouncements Capability = "announcements.manage"
	CapManageCalendar      Capability = "calendar.manage"
	CapManageDocuments     Capability = "documents.manage"
)

type CapabilitySet map[Capability]struct{}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

func newSet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Capabilities resolves the capability set for an actor. The sub-direction
// tier (level <= 2) holds the management surface; a unit head additionally
// holds unit-scoped pre-approval regardless of level.
func Capabilities(level HierarchyLevel, unitHead bool) CapabilitySet {
	var set CapabilitySet
	switch {
	case level == LevelDirector:
		set = newSet(
			CapSeeAllRequests,
			CapFinalApprove,
			CapPreApproveUnit,
			CapAdjustBalances,
			CapRecordMedicalLeave,
			CapViewReports,
			CapReadAudit,
			CapManageRoles,
			CapManageAnnouncements,
			CapManageCalendar,
			CapManageDocuments,
		)
	case level <= LevelSubdireccion:
		set = newSet(
			CapFinalApprove,
			CapAdjustBalances,
			CapRecordMedicalLeave,
			CapViewReports,
			CapManageAnnouncements,
			CapManageCalendar,
			CapManageDocuments,
		)
	default:
		set = newSet()
	}
	if unitHead {
		set[CapPreApproveUnit] = struct{}{}
	}
	return set
}

func (a Actor) Can(c Capability) bool {
	return Capabilities(a.Level, a.UnitHead).Has(c)
}

func (a Actor) IsDirector() bool {
	return a.Level == LevelDirector
}

// IsFinalApprover reports whether the actor sits in the tier that commits
// ledger effects: director or sub-direction.
func (a Actor) IsFinalApprover() bool {
	return a.Level <= LevelSubdireccion
}

package staff

import "testing"

func TestDirectorHoldsEverything(t *testing.T) {
	caps := Capabilities(LevelDirector, false)
	for _, c := range []Capability{
		CapSeeAllRequests, CapFinalApprove, CapPreApproveUnit, CapAdjustBalances,
		CapRecordMedicalLeave, CapViewReports, CapReadAudit, CapManageRoles,
		CapManageAnnouncements, CapManageCalendar, CapManageDocuments,
	} {
		if !caps.Has(c) {
			t.Fatalf("director missing %s", c)
		}
	}
}

func TestSubdireccionScope(t *testing.T) {
	caps := Capabilities(LevelSubdireccion, false)
	if !caps.Has(CapFinalApprove) || !caps.Has(CapAdjustBalances) || !caps.Has(CapRecordMedicalLeave) {
		t.Fatal("sub-direction missing its approval surface")
	}
	for _, c := range []Capability{CapSeeAllRequests, CapReadAudit, CapManageRoles} {
		if caps.Has(c) {
			t.Fatalf("sub-direction must not hold %s", c)
		}
	}
}

func TestUnitHeadFlagAddsPreApproval(t *testing.T) {
	if Capabilities(LevelProfesional, false).Has(CapPreApproveUnit) {
		t.Fatal("plain professional holds pre-approval")
	}
	if !Capabilities(LevelProfesional, true).Has(CapPreApproveUnit) {
		t.Fatal("unit head lacks pre-approval")
	}
	// The flag stays unit-scoped; it never grants final approval.
	if Capabilities(LevelFuncionario, true).Has(CapFinalApprove) {
		t.Fatal("unit head flag must not grant final approval")
	}
}

func TestBaseStaffHoldNothing(t *testing.T) {
	for _, level := range []HierarchyLevel{LevelProfesional, LevelTecnico, LevelFuncionario} {
		caps := Capabilities(level, false)
		if len(caps) != 0 {
			t.Fatalf("level %s holds %d capabilities, want 0", level, len(caps))
		}
	}
}

func TestFinalApproverBoundary(t *testing.T) {
	if !(Actor{Level: LevelDirector}).IsFinalApprover() {
		t.Fatal("director is a final approver")
	}
	if !(Actor{Level: LevelSubdireccion}).IsFinalApprover() {
		t.Fatal("sub-direction is a final approver")
	}
	if (Actor{Level: LevelProfesional}).IsFinalApprover() {
		t.Fatal("professional must not be a final approver")
	}
	if (Actor{Level: LevelProfesional, UnitHead: true}).IsFinalApprover() {
		t.Fatal("unit head flag must not promote to final approver")
	}
}

func TestHierarchyLevelValid(t *testing.T) {
	for level := LevelDirector; level <= LevelFuncionario; level++ {
		if !level.Valid() {
			t.Fatalf("level %d should be valid", level)
		}
	}
	for _, level := range []HierarchyLevel{0, 6, -1} {
		if level.Valid() {
			t.Fatalf("level %d should be invalid", level)
		}
	}
}

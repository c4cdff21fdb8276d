package leave

import "intranet/internal/domain/staff"

// Action is a decision an actor may take on a request.
type Action string

const (
	ActionPreApprove Action = "pre_approve"
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
)

// RequesterContext carries the requester attributes the resolver needs to
// place a request in the routing tiers.
type RequesterContext struct {
	Requester   staff.Actor
	UnitHasHead bool
}

// VisibleTo reports whether the actor may see the request. Everyone sees
// their own history; beyond that the tiers apply in precedence order:
// director, sub-direction, unit head.
func VisibleTo(actor staff.Actor, req LeaveRequest, rc RequesterContext) bool {
	if req.EmployeeID == actor.ID {
		return true
	}
	switch {
	case actor.IsDirector():
		return true
	case actor.IsFinalApprover():
		return inFinalApproverScope(req, rc)
	case actor.UnitHead:
		return req.Status == StatusPending && rc.Requester.Unit == actor.Unit
	}
	return false
}

// ActionsFor returns the decisions the actor may take on the request. The
// first matching tier wins; own requests carry no actions except for the
// director, whose self-requests auto-approve at submission anyway.
func ActionsFor(actor staff.Actor, req LeaveRequest, rc RequesterContext) []Action {
	if req.Status.Terminal() {
		return nil
	}
	switch {
	case actor.IsDirector():
		actions := make([]Action, 0, 3)
		if req.Status == StatusPending {
			actions = append(actions, ActionPreApprove)
		}
		return append(actions, ActionApprove, ActionReject)

	case actor.IsFinalApprover():
		if inFinalApproverScope(req, rc) {
			return []Action{ActionApprove, ActionReject}
		}

	case actor.UnitHead:
		if req.Status == StatusPending && rc.Requester.Unit == actor.Unit && req.EmployeeID != actor.ID {
			return []Action{ActionPreApprove, ActionReject}
		}
	}
	return nil
}

// Allowed reports whether a single action is available to the actor.
func Allowed(actor staff.Actor, req LeaveRequest, rc RequesterContext, action Action) bool {
	for _, a := range ActionsFor(actor, req, rc) {
		if a == action {
			return true
		}
	}
	return false
}

// inFinalApproverScope holds the sub-direction tier rule: pre-approved
// requests, plus pending requests that have no unit head to pass through
// first (the requester is a head, or their unit has none).
func inFinalApproverScope(req LeaveRequest, rc RequesterContext) bool {
	if req.Status == StatusPreApproved {
		return true
	}
	return req.Status == StatusPending && (rc.Requester.UnitHead || !rc.UnitHasHead)
}

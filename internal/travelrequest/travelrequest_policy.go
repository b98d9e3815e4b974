package travelrequest

import "github.com/google/uuid"

// Actor is the authenticated identity issuing a request.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

func (a Actor) owns(tr *TravelRequest) bool {
	return a.ID == tr.UserID
}

// The policy is a set of pure predicates; the service decides which error to
// surface when one fails.

func CanView(actor Actor, tr *TravelRequest) bool {
	return actor.IsAdmin || actor.owns(tr)
}

func CanModifyContent(actor Actor, tr *TravelRequest) bool {
	return (actor.IsAdmin || actor.owns(tr)) && tr.Status == StatusPending
}

func CanChangeStatus(actor Actor) bool {
	return actor.IsAdmin
}

func CanDelete(actor Actor, tr *TravelRequest) bool {
	return (actor.IsAdmin || actor.owns(tr)) && tr.Status == StatusPending
}

func CanCancel(actor Actor, tr *TravelRequest) bool {
	return (actor.IsAdmin || actor.owns(tr)) && !tr.Status.IsTerminal()
}

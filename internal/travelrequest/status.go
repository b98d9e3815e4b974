package travelrequest

// Status is the lifecycle state of a travel request. Stored as its lowercase
// name, matching the values exposed over the API.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// transitions is the full state machine as data. Approved, rejected and
// cancelled are terminal: no outgoing edges, and nothing re-enters pending.
var transitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {},
	StatusRejected:  {},
	StatusCancelled: {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ParseStatus maps an API status name onto a Status. The boolean reports
// whether the name is part of the vocabulary.
func ParseStatus(name string) (Status, bool) {
	s := Status(name)
	if !s.Valid() {
		return "", false
	}
	return s, true
}

package travelrequest

import "time"

type CreateTravelRequestInput struct {
	Destination   string   `json:"destination" binding:"required,max=255"`
	StartDate     string   `json:"start_date" binding:"required"`
	EndDate       string   `json:"end_date" binding:"required"`
	Reason        string   `json:"reason" binding:"required"`
	EstimatedCost *float64 `json:"estimated_cost"`
}

// UpdateTravelRequestInput carries a partial update: nil means "leave the
// field alone", a present value is validated with the create rules.
type UpdateTravelRequestInput struct {
	Destination   *string  `json:"destination"`
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	Reason        *string  `json:"reason"`
	EstimatedCost *float64 `json:"estimated_cost"`
}

type UpdateStatusInput struct {
	Status          string  `json:"status" binding:"required"`
	RejectionReason *string `json:"rejection_reason"`
}

// ListFilters are the query parameters recognized by list. Date bounds apply
// independently; either may be supplied alone.
type ListFilters struct {
	Status      string
	Destination string
	StartDate   string
	EndDate     string
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TravelRequestResponse struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	Destination     string       `json:"destination"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	Reason          string       `json:"reason"`
	EstimatedCost   *float64     `json:"estimated_cost"`
	Status          string       `json:"status"`
	ApprovedAt      *string      `json:"approved_at"`
	ApprovedBy      *string      `json:"approved_by"`
	RejectionReason *string      `json:"rejection_reason"`
	CreatedAt       string       `json:"created_at"`
	UpdatedAt       string       `json:"updated_at"`
	User            *UserSummary `json:"user,omitempty"`
	Approver        *UserSummary `json:"approver,omitempty"`
}

func mapToResponse(tr TravelRequest) TravelRequestResponse {
	resp := TravelRequestResponse{
		ID:            tr.ID.String(),
		UserID:        tr.UserID.String(),
		Destination:   tr.Destination,
		StartDate:     tr.StartDate.Format("2006-01-02"),
		EndDate:       tr.EndDate.Format("2006-01-02"),
		Reason:        tr.Reason,
		EstimatedCost: tr.EstimatedCost,
		Status:        string(tr.Status),
		CreatedAt:     tr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     tr.UpdatedAt.Format(time.RFC3339),
	}
	if tr.ApprovedAt != nil {
		v := tr.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if tr.ApprovedBy != nil {
		v := tr.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	resp.RejectionReason = tr.RejectionReason

	// Associations are omitted, not null, when the caller did not load them.
	if tr.User != nil {
		resp.User = &UserSummary{
			ID:    tr.User.ID.String(),
			Name:  tr.User.Name,
			Email: tr.User.Email,
		}
	}
	if tr.Approver != nil {
		resp.Approver = &UserSummary{
			ID:    tr.Approver.ID.String(),
			Name:  tr.Approver.Name,
			Email: tr.Approver.Email,
		}
	}
	return resp
}

func mapToListResponse(requests []TravelRequest) []TravelRequestResponse {
	resp := make([]TravelRequestResponse, len(requests))
	for i, tr := range requests {
		resp[i] = mapToResponse(tr)
	}
	return resp
}

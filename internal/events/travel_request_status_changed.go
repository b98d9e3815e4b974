package events

import "time"

const TravelRequestStatusChangedTopic = "travel.request.status.v1"

type TravelRequestStatusChangedEvent struct {
	EventType       string    `json:"event_type"`
	TravelRequestID string    `json:"travel_request_id"`
	UserID          string    `json:"user_id"`
	Transition      string    `json:"transition"`
	Message         string    `json:"message"`
	OccurredAt      time.Time `json:"occurred_at"`
}

package travelrequest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-traveldesk/internal/events"
	"go-traveldesk/internal/messaging/kafka"
	"go-traveldesk/internal/shared/contextutil"

	"github.com/google/uuid"
)

// Transition names carried in notification events.
const (
	TransitionApproved  = "approved"
	TransitionRejected  = "rejected"
	TransitionCancelled = "cancelled"
)

// notifyOn reports whether a transition produces a notification. Cancellation
// is self-service and does not notify the actor who just performed it.
func notifyOn(transition string) bool {
	return transition == TransitionApproved || transition == TransitionRejected
}

func buildNotificationMessage(tr *TravelRequest, transition string) string {
	destination := tr.Destination
	startDate := tr.StartDate.Format("02/01/2006")

	switch transition {
	case TransitionApproved:
		return fmt.Sprintf("Your travel request to %s on %s has been APPROVED!", destination, startDate)
	case TransitionRejected:
		reason := ""
		if tr.RejectionReason != nil {
			reason = *tr.RejectionReason
		}
		return fmt.Sprintf("Your travel request to %s on %s has been REJECTED. Reason: %s", destination, startDate, reason)
	case TransitionCancelled:
		return fmt.Sprintf("Your travel request to %s on %s has been CANCELLED.", destination, startDate)
	default:
		return fmt.Sprintf("Your travel request to %s has been updated.", destination)
	}
}

// buildStatusChangedOutboxEvent wraps the rendered notification into an
// outbox record addressed at the owning user. The caller enqueues it in the
// same transaction as the transition; actual delivery is the queue's problem.
func buildStatusChangedOutboxEvent(ctx context.Context, tr *TravelRequest, transition string) (kafka.OutboxEvent, error) {
	event := events.TravelRequestStatusChangedEvent{
		EventType:       "travel_request." + transition,
		TravelRequestID: tr.ID.String(),
		UserID:          tr.UserID.String(),
		Transition:      transition,
		Message:         buildNotificationMessage(tr, transition),
		OccurredAt:      time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.OutboxEvent{}, err
	}

	return kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "travel_request",
		AggregateID:   tr.ID.String(),
		EventType:     event.EventType,
		Topic:         events.TravelRequestStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}, nil
}

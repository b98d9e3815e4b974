package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-traveldesk/internal/auth"
	"go-traveldesk/internal/events"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsumeStatusNotifications delivers travel request status notifications to
// the owning user. Delivery here is a structured log addressed at the user's
// email; swapping in a mail or push sender only touches this loop.
func ConsumeStatusNotifications(
	ctx context.Context,
	reader *kafkago.Reader,
	userRepo auth.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notifications")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		var event events.TravelRequestStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode status changed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		userID, err := uuid.Parse(event.UserID)
		if err != nil {
			log.Error("invalid user id in status changed event",
				zap.String("travel_request_id", event.TravelRequestID),
				zap.String("user_id", event.UserID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Owner no longer resolvable: skip, never retry forever.
				log.Warn("user not found for travel request notification",
					zap.String("travel_request_id", event.TravelRequestID),
					zap.String("user_id", event.UserID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("load user for notification failed",
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			continue
		}

		log.Info("travel request notification delivered",
			zap.String("travel_request_id", event.TravelRequestID),
			zap.String("user_id", user.ID.String()),
			zap.String("user_email", user.Email),
			zap.String("transition", event.Transition),
			zap.String("message", event.Message),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
			continue
		}
	}
}

package travelrequest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-traveldesk/internal/messaging/kafka"
	trerrors "go-traveldesk/internal/travelrequest/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=travelrequest_service.go -destination=mock/travelrequest_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, actor Actor, filters ListFilters, page, pageSize int, mineOnly bool) ([]TravelRequestResponse, int64, error)
	Get(ctx context.Context, actor Actor, id string) (TravelRequestResponse, error)
	Create(ctx context.Context, requesterID uuid.UUID, in CreateTravelRequestInput) (TravelRequestResponse, error)
	Update(ctx context.Context, actor Actor, id string, in UpdateTravelRequestInput) (TravelRequestResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, in UpdateStatusInput) (TravelRequestResponse, error)
	Cancel(ctx context.Context, actor Actor, id string) (TravelRequestResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("travelrequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("travelrequest.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) List(ctx context.Context, actor Actor, filters ListFilters, page, pageSize int, mineOnly bool) ([]TravelRequestResponse, int64, error) {
	var (
		requests []TravelRequest
		total    int64
		err      error
	)

	if mineOnly || !actor.IsAdmin {
		requests, total, err = s.repo.FindByOwner(ctx, actor.ID.String(), filters, page, pageSize)
	} else {
		requests, total, err = s.repo.FindAll(ctx, filters, page, pageSize)
	}
	if err != nil {
		s.logger.Error("list travel requests failed", zap.Error(err))
		return nil, 0, err
	}

	return mapToListResponse(requests), total, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id string) (TravelRequestResponse, error) {
	tr, err := s.findExisting(ctx, id)
	if err != nil {
		return TravelRequestResponse{}, err
	}

	if !CanView(actor, tr) {
		return TravelRequestResponse{}, trerrors.ErrUnauthorizedAccess
	}

	return mapToResponse(*tr), nil
}

func (s *service) Create(ctx context.Context, requesterID uuid.UUID, in CreateTravelRequestInput) (TravelRequestResponse, error) {
	s.logger.Debug("create travel request",
		zap.String("requester_id", requesterID.String()),
		zap.String("destination", in.Destination),
	)

	startDate, endDate, errs := validateCreate(in, time.Now())
	if len(errs) > 0 {
		s.logger.Warn("create travel request validation failed", zap.Any("fields", errs))
		return TravelRequestResponse{}, apperrorFromFields(errs)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create travel request begin tx failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Status is forced to pending no matter what the caller supplied.
	tr := &TravelRequest{
		ID:            uuid.New(),
		UserID:        requesterID,
		Destination:   in.Destination,
		StartDate:     startDate,
		EndDate:       endDate,
		Reason:        in.Reason,
		EstimatedCost: in.EstimatedCost,
		Status:        StatusPending,
	}

	if err := qtx.Create(ctx, tr); err != nil {
		s.logger.Error("create travel request persist failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create travel request commit failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}

	s.logger.Info("travel request created",
		zap.String("travel_request_id", tr.ID.String()),
		zap.String("requester_id", requesterID.String()),
	)

	return s.refetch(ctx, tr.ID.String())
}

func (s *service) Update(ctx context.Context, actor Actor, id string, in UpdateTravelRequestInput) (TravelRequestResponse, error) {
	tr, err := s.findExisting(ctx, id)
	if err != nil {
		return TravelRequestResponse{}, err
	}

	// Ownership and state gates are distinct outcomes: an unauthorized actor
	// gets forbidden, an authorized one blocked by status gets conflict.
	if !actor.IsAdmin && !actor.owns(tr) {
		return TravelRequestResponse{}, trerrors.ErrUnauthorizedAccess
	}
	if tr.Status != StatusPending {
		return TravelRequestResponse{}, trerrors.ErrNotPending
	}

	fields, errs := validateUpdate(in, tr, time.Now())
	if len(errs) > 0 {
		s.logger.Warn("update travel request validation failed",
			zap.String("travel_request_id", id),
			zap.Any("fields", errs),
		)
		return TravelRequestResponse{}, apperrorFromFields(errs)
	}

	if len(fields) == 0 {
		return mapToResponse(*tr), nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update travel request begin tx failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.Update(ctx, id, fields)
	if err != nil {
		s.logger.Error("update travel request persist failed",
			zap.String("travel_request_id", id),
			zap.Error(err),
		)
		return TravelRequestResponse{}, err
	}
	if !ok {
		return TravelRequestResponse{}, trerrors.ErrTravelRequestNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update travel request commit failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}

	s.logger.Info("travel request updated", zap.String("travel_request_id", id))

	return s.refetch(ctx, id)
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, id string, in UpdateStatusInput) (TravelRequestResponse, error) {
	// Role is checked before existence on purpose: non-admins get a uniform
	// rejection whether or not the id exists.
	if !CanChangeStatus(actor) {
		return TravelRequestResponse{}, trerrors.ErrOnlyAdminCanUpdateStatus
	}

	tr, err := s.findExisting(ctx, id)
	if err != nil {
		return TravelRequestResponse{}, err
	}

	target, valid := ParseStatus(in.Status)
	if !valid || target == StatusPending {
		return TravelRequestResponse{}, apperrorFromFields(fieldErrors{
			"status": "Status must be one of approved, rejected, cancelled",
		})
	}

	// Administrators cannot un-approve by cancelling through this path.
	if target == StatusCancelled && tr.Status == StatusApproved {
		return TravelRequestResponse{}, trerrors.ErrCannotCancelApproved
	}
	if !tr.Status.CanTransitionTo(target) {
		s.logger.Warn("invalid status transition",
			zap.String("travel_request_id", id),
			zap.String("from_status", string(tr.Status)),
			zap.String("to_status", string(target)),
		)
		return TravelRequestResponse{}, trerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	fields := map[string]any{"status": target}
	switch target {
	case StatusApproved:
		fields["approved_at"] = now
		fields["approved_by"] = actor.ID
		tr.ApprovedAt = &now
		approvedBy := actor.ID
		tr.ApprovedBy = &approvedBy
	case StatusRejected:
		if in.RejectionReason != nil && *in.RejectionReason != "" {
			fields["rejection_reason"] = *in.RejectionReason
			tr.RejectionReason = in.RejectionReason
		}
	}
	expected := tr.Status
	tr.Status = target

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update status begin tx failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.UpdateStatusIf(ctx, id, expected, fields)
	if err != nil {
		s.logger.Error("update status persist failed",
			zap.String("travel_request_id", id),
			zap.Error(err),
		)
		return TravelRequestResponse{}, err
	}
	if !ok {
		// A concurrent transition committed first; our precondition is gone.
		s.logger.Warn("update status lost transition race",
			zap.String("travel_request_id", id),
			zap.String("expected_status", string(expected)),
		)
		return TravelRequestResponse{}, trerrors.ErrConcurrentTransition
	}

	if err := s.enqueueNotification(ctx, tx, tr, string(target)); err != nil {
		s.logger.Error("enqueue status notification failed",
			zap.String("travel_request_id", id),
			zap.Error(err),
		)
		return TravelRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update status commit failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}

	s.logger.Info("travel request status updated",
		zap.String("travel_request_id", id),
		zap.String("status", string(target)),
		zap.String("admin_id", actor.ID.String()),
	)

	return s.refetch(ctx, id)
}

func (s *service) Cancel(ctx context.Context, actor Actor, id string) (TravelRequestResponse, error) {
	tr, err := s.findExisting(ctx, id)
	if err != nil {
		return TravelRequestResponse{}, err
	}

	if !actor.IsAdmin && !actor.owns(tr) {
		return TravelRequestResponse{}, trerrors.ErrUnauthorizedAccess
	}
	if tr.Status == StatusApproved {
		return TravelRequestResponse{}, trerrors.ErrCannotCancelApproved
	}
	if tr.Status == StatusCancelled || tr.Status == StatusRejected {
		return TravelRequestResponse{}, trerrors.ErrAlreadyTerminal
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel travel request begin tx failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.UpdateStatusIf(ctx, id, tr.Status, map[string]any{"status": StatusCancelled})
	if err != nil {
		s.logger.Error("cancel travel request persist failed",
			zap.String("travel_request_id", id),
			zap.Error(err),
		)
		return TravelRequestResponse{}, err
	}
	if !ok {
		return TravelRequestResponse{}, trerrors.ErrConcurrentTransition
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel travel request commit failed", zap.Error(err))
		return TravelRequestResponse{}, err
	}

	s.logger.Info("travel request cancelled",
		zap.String("travel_request_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	return s.refetch(ctx, id)
}

func (s *service) Delete(ctx context.Context, actor Actor, id string) error {
	tr, err := s.findExisting(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin && !actor.owns(tr) {
		return trerrors.ErrUnauthorizedAccess
	}
	if tr.Status != StatusPending {
		return trerrors.ErrDeleteNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete travel request begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete travel request persist failed",
			zap.String("travel_request_id", id),
			zap.Error(err),
		)
		return err
	}
	if !ok {
		return trerrors.ErrTravelRequestNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete travel request commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("travel request deleted",
		zap.String("travel_request_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	return nil
}

// findExisting loads the record or translates gorm's not-found into the
// feature sentinel. Soft-deleted records are already invisible here.
func (s *service) findExisting(ctx context.Context, id string) (*TravelRequest, error) {
	tr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trerrors.ErrTravelRequestNotFound
		}
		s.logger.Error("find travel request failed",
			zap.String("travel_request_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return tr, nil
}

// refetch reloads the record after a write so the response reflects the
// stored row including associations and server-side timestamps.
func (s *service) refetch(ctx context.Context, id string) (TravelRequestResponse, error) {
	tr, err := s.findExisting(ctx, id)
	if err != nil {
		return TravelRequestResponse{}, err
	}
	return mapToResponse(*tr), nil
}

// enqueueNotification writes the outbox record inside the transition's
// transaction for approved/rejected outcomes. Without an outbox configured
// the transition still succeeds and no notification is queued.
func (s *service) enqueueNotification(ctx context.Context, tx *sql.Tx, tr *TravelRequest, transition string) error {
	if !notifyOn(transition) {
		return nil
	}
	if s.outbox == nil {
		s.logger.Debug("outbox not configured, skipping notification",
			zap.String("travel_request_id", tr.ID.String()),
			zap.String("transition", transition),
		)
		return nil
	}

	event, err := buildStatusChangedOutboxEvent(ctx, tr, transition)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, event)
}

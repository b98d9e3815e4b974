package travelrequest_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-traveldesk/internal/messaging/kafka"
	"go-traveldesk/internal/shared/apperror"
	"go-traveldesk/internal/travelrequest"
	trerrors "go-traveldesk/internal/travelrequest/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTravelRequestRepository struct {
	withTxFn         func(tx *sql.Tx) travelrequest.Repository
	createFn         func(ctx context.Context, tr *travelrequest.TravelRequest) error
	findByIDFn       func(ctx context.Context, id string) (*travelrequest.TravelRequest, error)
	findByOwnerFn    func(ctx context.Context, ownerID string, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error)
	findAllFn        func(ctx context.Context, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error)
	updateFn         func(ctx context.Context, id string, fields map[string]any) (bool, error)
	updateStatusIfFn func(ctx context.Context, id string, expected travelrequest.Status, fields map[string]any) (bool, error)
	deleteFn         func(ctx context.Context, id string) (bool, error)
}

func (f *fakeTravelRequestRepository) WithTx(tx *sql.Tx) travelrequest.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeTravelRequestRepository) Create(ctx context.Context, tr *travelrequest.TravelRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, tr)
	}
	return nil
}

func (f *fakeTravelRequestRepository) FindByID(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeTravelRequestRepository) FindByOwner(ctx context.Context, ownerID string, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error) {
	if f.findByOwnerFn != nil {
		return f.findByOwnerFn(ctx, ownerID, filters, page, pageSize)
	}
	return nil, 0, nil
}

func (f *fakeTravelRequestRepository) FindAll(ctx context.Context, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filters, page, pageSize)
	}
	return nil, 0, nil
}

func (f *fakeTravelRequestRepository) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, fields)
	}
	return true, nil
}

func (f *fakeTravelRequestRepository) UpdateStatusIf(ctx context.Context, id string, expected travelrequest.Status, fields map[string]any) (bool, error) {
	if f.updateStatusIfFn != nil {
		return f.updateStatusIfFn(ctx, id, expected, fields)
	}
	return true, nil
}

func (f *fakeTravelRequestRepository) Delete(ctx context.Context, id string) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return true, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service travelrequest.Service
	repo    *fakeTravelRequestRepository
	outbox  *fakeOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeTravelRequestRepository{}
	outbox := &fakeOutboxRepository{}
	svc := travelrequest.NewServiceWithOutbox(db, repo, outbox)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pendingRequest(ownerID uuid.UUID) *travelrequest.TravelRequest {
	return &travelrequest.TravelRequest{
		ID:          uuid.New(),
		UserID:      ownerID,
		Destination: "Singapore",
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Reason:      "Client onboarding",
		Status:      travelrequest.StatusPending,
		CreatedAt:   time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func validationDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	details, ok := appErr.Details.(map[string]string)
	assert.True(t, ok)
	return details
}

func TestTravelRequestService_Create(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()

	t.Run("success forces pending status", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := travelrequest.CreateTravelRequestInput{
			Destination: "Tokyo",
			StartDate:   futureDate(10),
			EndDate:     futureDate(14),
			Reason:      "Annual partner summit",
		}

		var createdID string
		deps.repo.createFn = func(ctx context.Context, tr *travelrequest.TravelRequest) error {
			assert.Equal(t, requesterID, tr.UserID)
			assert.Equal(t, "Tokyo", tr.Destination)
			assert.Equal(t, travelrequest.StatusPending, tr.Status)
			createdID = tr.ID.String()
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			assert.Equal(t, createdID, id)
			tr := pendingRequest(requesterID)
			tr.ID = uuid.MustParse(id)
			tr.Destination = "Tokyo"
			return tr, nil
		}

		resp, err := deps.service.Create(ctx, requesterID, req)

		assert.NoError(t, err)
		assert.Equal(t, createdID, resp.ID)
		assert.Equal(t, string(travelrequest.StatusPending), resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative start date in the past", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := travelrequest.CreateTravelRequestInput{
			Destination: "Tokyo",
			StartDate:   "2020-01-01",
			EndDate:     futureDate(5),
			Reason:      "Annual partner summit",
		}

		_, err := deps.service.Create(ctx, requesterID, req)

		assert.Error(t, err)
		details := validationDetails(t, err)
		assert.Contains(t, details, "start_date")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := travelrequest.CreateTravelRequestInput{
			Destination: "Tokyo",
			StartDate:   futureDate(10),
			EndDate:     futureDate(5),
			Reason:      "Annual partner summit",
		}

		_, err := deps.service.Create(ctx, requesterID, req)

		assert.Error(t, err)
		details := validationDetails(t, err)
		assert.Contains(t, details, "end_date")
	})

	t.Run("negative missing fields collected per field", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cost := -100.0
		req := travelrequest.CreateTravelRequestInput{
			EstimatedCost: &cost,
		}

		_, err := deps.service.Create(ctx, requesterID, req)

		assert.Error(t, err)
		details := validationDetails(t, err)
		assert.Contains(t, details, "destination")
		assert.Contains(t, details, "start_date")
		assert.Contains(t, details, "end_date")
		assert.Contains(t, details, "reason")
		assert.Contains(t, details, "estimated_cost")
	})
}

func TestTravelRequestService_Get(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("owner reads own request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			assert.Equal(t, tr.ID.String(), id)
			return tr, nil
		}

		resp, err := deps.service.Get(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, tr.ID.String(), resp.ID)
		assert.Equal(t, ownerID.String(), resp.UserID)
	})

	t.Run("admin reads any request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.Get(ctx, travelrequest.Actor{ID: uuid.New(), IsAdmin: true}, tr.ID.String())

		assert.NoError(t, err)
	})

	t.Run("negative stranger gets forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.Get(ctx, travelrequest.Actor{ID: uuid.New()}, tr.ID.String())

		assert.ErrorIs(t, err, trerrors.ErrUnauthorizedAccess)
	})

	t.Run("negative missing request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Get(ctx, travelrequest.Actor{ID: ownerID}, uuid.New().String())

		assert.ErrorIs(t, err, trerrors.ErrTravelRequestNotFound)
	})
}

func TestTravelRequestService_List(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("non-admin is scoped to own requests", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByOwnerFn = func(ctx context.Context, oid string, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error) {
			assert.Equal(t, ownerID.String(), oid)
			assert.Equal(t, 1, page)
			assert.Equal(t, 15, pageSize)
			return []travelrequest.TravelRequest{*pendingRequest(ownerID)}, 1, nil
		}
		deps.repo.findAllFn = func(ctx context.Context, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error) {
			t.Fatal("non-admin must not reach FindAll")
			return nil, 0, nil
		}

		resp, total, err := deps.service.List(ctx, travelrequest.Actor{ID: ownerID}, travelrequest.ListFilters{}, 1, 15, false)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, resp, 1)
	})

	t.Run("admin sees all requests", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error) {
			assert.Equal(t, "approved", filters.Status)
			return []travelrequest.TravelRequest{*pendingRequest(ownerID), *pendingRequest(uuid.New())}, 2, nil
		}

		resp, total, err := deps.service.List(
			ctx,
			travelrequest.Actor{ID: uuid.New(), IsAdmin: true},
			travelrequest.ListFilters{Status: "approved"},
			1, 15, false,
		)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, resp, 2)
	})

	t.Run("admin with my_requests only sees own", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		adminID := uuid.New()
		deps.repo.findByOwnerFn = func(ctx context.Context, oid string, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error) {
			assert.Equal(t, adminID.String(), oid)
			return nil, 0, nil
		}

		_, _, err := deps.service.List(ctx, travelrequest.Actor{ID: adminID, IsAdmin: true}, travelrequest.ListFilters{}, 1, 15, true)

		assert.NoError(t, err)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByOwnerFn = func(ctx context.Context, oid string, filters travelrequest.ListFilters, page, pageSize int) ([]travelrequest.TravelRequest, int64, error) {
			return nil, 0, errors.New("db error")
		}

		_, _, err := deps.service.List(ctx, travelrequest.Actor{ID: ownerID}, travelrequest.ListFilters{}, 1, 15, false)

		assert.Error(t, err)
	})
}

func TestTravelRequestService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("owner updates pending request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}
		deps.repo.updateFn = func(ctx context.Context, id string, fields map[string]any) (bool, error) {
			assert.Equal(t, tr.ID.String(), id)
			assert.Equal(t, "Osaka", fields["destination"])
			assert.NotContains(t, fields, "status")
			return true, nil
		}

		destination := "Osaka"
		resp, err := deps.service.Update(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String(), travelrequest.UpdateTravelRequestInput{
			Destination: &destination,
		})

		assert.NoError(t, err)
		assert.Equal(t, tr.ID.String(), resp.ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("empty update returns current record without writing", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}
		deps.repo.updateFn = func(ctx context.Context, id string, fields map[string]any) (bool, error) {
			t.Fatal("empty update must not write")
			return false, nil
		}

		resp, err := deps.service.Update(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String(), travelrequest.UpdateTravelRequestInput{})

		assert.NoError(t, err)
		assert.Equal(t, tr.ID.String(), resp.ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative stranger gets forbidden before state check", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		tr.Status = travelrequest.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		destination := "Osaka"
		_, err := deps.service.Update(ctx, travelrequest.Actor{ID: uuid.New()}, tr.ID.String(), travelrequest.UpdateTravelRequestInput{
			Destination: &destination,
		})

		assert.ErrorIs(t, err, trerrors.ErrUnauthorizedAccess)
	})

	t.Run("negative owner blocked on approved request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		tr.Status = travelrequest.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		destination := "Osaka"
		_, err := deps.service.Update(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String(), travelrequest.UpdateTravelRequestInput{
			Destination: &destination,
		})

		assert.ErrorIs(t, err, trerrors.ErrNotPending)
	})

	t.Run("negative invalid partial date", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		start := "2020-01-01"
		_, err := deps.service.Update(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String(), travelrequest.UpdateTravelRequestInput{
			StartDate: &start,
		})

		assert.Error(t, err)
		details := validationDetails(t, err)
		assert.Contains(t, details, "start_date")
	})
}

func TestTravelRequestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	adminID := uuid.New()
	admin := travelrequest.Actor{ID: adminID, IsAdmin: true}

	t.Run("approve stamps approver and queues notification", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}
		deps.repo.updateStatusIfFn = func(ctx context.Context, id string, expected travelrequest.Status, fields map[string]any) (bool, error) {
			assert.Equal(t, travelrequest.StatusPending, expected)
			assert.Equal(t, travelrequest.StatusApproved, fields["status"])
			assert.Contains(t, fields, "approved_at")
			assert.Equal(t, adminID, fields["approved_by"])
			return true, nil
		}

		resp, err := deps.service.UpdateStatus(ctx, admin, tr.ID.String(), travelrequest.UpdateStatusInput{
			Status: "approved",
		})

		assert.NoError(t, err)
		assert.Equal(t, tr.ID.String(), resp.ID)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "travel_request.approved", deps.outbox.created[0].EventType)
		assert.Equal(t, tr.ID.String(), deps.outbox.created[0].AggregateID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject records reason and queues notification", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}
		deps.repo.updateStatusIfFn = func(ctx context.Context, id string, expected travelrequest.Status, fields map[string]any) (bool, error) {
			assert.Equal(t, travelrequest.StatusRejected, fields["status"])
			assert.Equal(t, "Budget exceeded", fields["rejection_reason"])
			assert.NotContains(t, fields, "approved_at")
			return true, nil
		}

		reason := "Budget exceeded"
		_, err := deps.service.UpdateStatus(ctx, admin, tr.ID.String(), travelrequest.UpdateStatusInput{
			Status:          "rejected",
			RejectionReason: &reason,
		})

		assert.NoError(t, err)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "travel_request.rejected", deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("admin cancel of pending queues no notification", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.UpdateStatus(ctx, admin, tr.ID.String(), travelrequest.UpdateStatusInput{
			Status: "cancelled",
		})

		assert.NoError(t, err)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-admin is rejected before lookup", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			t.Fatal("non-admin must be rejected without a lookup")
			return nil, nil
		}

		_, err := deps.service.UpdateStatus(ctx, travelrequest.Actor{ID: ownerID}, uuid.New().String(), travelrequest.UpdateStatusInput{
			Status: "approved",
		})

		assert.ErrorIs(t, err, trerrors.ErrOnlyAdminCanUpdateStatus)
	})

	t.Run("negative unknown status value", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.UpdateStatus(ctx, admin, tr.ID.String(), travelrequest.UpdateStatusInput{
			Status: "archived",
		})

		assert.Error(t, err)
		details := validationDetails(t, err)
		assert.Contains(t, details, "status")
	})

	t.Run("negative pending is not a target", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.UpdateStatus(ctx, admin, tr.ID.String(), travelrequest.UpdateStatusInput{
			Status: "pending",
		})

		assert.Error(t, err)
		details := validationDetails(t, err)
		assert.Contains(t, details, "status")
	})

	t.Run("negative cancelling an approved request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		tr.Status = travelrequest.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.UpdateStatus(ctx, admin, tr.ID.String(), travelrequest.UpdateStatusInput{
			Status: "cancelled",
		})

		assert.ErrorIs(t, err, trerrors.ErrCannotCancelApproved)
	})

	t.Run("negative transition out of terminal state", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		tr.Status = travelrequest.StatusRejected
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.UpdateStatus(ctx, admin, tr.ID.String(), travelrequest.UpdateStatusInput{
			Status: "approved",
		})

		assert.ErrorIs(t, err, trerrors.ErrInvalidStatusTransition)
	})

	t.Run("negative lost transition race", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}
		deps.repo.updateStatusIfFn = func(ctx context.Context, id string, expected travelrequest.Status, fields map[string]any) (bool, error) {
			return false, nil
		}

		_, err := deps.service.UpdateStatus(ctx, admin, tr.ID.String(), travelrequest.UpdateStatusInput{
			Status: "approved",
		})

		assert.ErrorIs(t, err, trerrors.ErrConcurrentTransition)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTravelRequestService_Cancel(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("owner cancels pending request without notification", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}
		deps.repo.updateStatusIfFn = func(ctx context.Context, id string, expected travelrequest.Status, fields map[string]any) (bool, error) {
			assert.Equal(t, travelrequest.StatusPending, expected)
			assert.Equal(t, travelrequest.StatusCancelled, fields["status"])
			return true, nil
		}

		resp, err := deps.service.Cancel(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, tr.ID.String(), resp.ID)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative stranger cannot cancel", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.Cancel(ctx, travelrequest.Actor{ID: uuid.New()}, tr.ID.String())

		assert.ErrorIs(t, err, trerrors.ErrUnauthorizedAccess)
	})

	t.Run("negative approved request cannot be cancelled", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		tr.Status = travelrequest.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.Cancel(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String())

		assert.ErrorIs(t, err, trerrors.ErrCannotCancelApproved)
	})

	t.Run("negative cancelling twice", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		tr.Status = travelrequest.StatusCancelled
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		_, err := deps.service.Cancel(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String())

		assert.ErrorIs(t, err, trerrors.ErrAlreadyTerminal)
	})
}

func TestTravelRequestService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("owner deletes pending request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, id string) (bool, error) {
			assert.Equal(t, tr.ID.String(), id)
			return true, nil
		}

		err := deps.service.Delete(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String())

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative delete of non-pending request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		tr.Status = travelrequest.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		err := deps.service.Delete(ctx, travelrequest.Actor{ID: ownerID}, tr.ID.String())

		assert.ErrorIs(t, err, trerrors.ErrDeleteNotPending)
	})

	t.Run("negative stranger cannot delete", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		tr := pendingRequest(ownerID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*travelrequest.TravelRequest, error) {
			return tr, nil
		}

		err := deps.service.Delete(ctx, travelrequest.Actor{ID: uuid.New()}, tr.ID.String())

		assert.ErrorIs(t, err, trerrors.ErrUnauthorizedAccess)
	})
}

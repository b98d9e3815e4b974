package travelrequest

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=travelrequest_repo.go -destination=mock/travelrequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, tr *TravelRequest) error
	FindByID(ctx context.Context, id string) (*TravelRequest, error)
	FindByOwner(ctx context.Context, ownerID string, filters ListFilters, page, pageSize int) ([]TravelRequest, int64, error)
	FindAll(ctx context.Context, filters ListFilters, page, pageSize int) ([]TravelRequest, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) (bool, error)
	UpdateStatusIf(ctx context.Context, id string, expected Status, fields map[string]any) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, tr *TravelRequest) error {
	return r.db.WithContext(ctx).Create(tr).Error
}

// FindByID loads one record with its user/approver associations. Soft-deleted
// records are invisible here (gorm excludes them by default).
func (r *repository) FindByID(ctx context.Context, id string) (*TravelRequest, error) {
	var tr TravelRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Approver").
		First(&tr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *repository) FindByOwner(ctx context.Context, ownerID string, filters ListFilters, page, pageSize int) ([]TravelRequest, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&TravelRequest{}).
		Where("user_id = ?", ownerID)
	return r.findPage(query, filters, page, pageSize)
}

func (r *repository) FindAll(ctx context.Context, filters ListFilters, page, pageSize int) ([]TravelRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&TravelRequest{})
	return r.findPage(query, filters, page, pageSize)
}

func (r *repository) findPage(query *gorm.DB, filters ListFilters, page, pageSize int) ([]TravelRequest, int64, error) {
	query = applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []TravelRequest
	err := query.
		Preload("User").
		Preload("Approver").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Destination != "" {
		query = query.Where("destination ILIKE ?", "%"+filters.Destination+"%")
	}
	if filters.StartDate != "" {
		query = query.Where("start_date >= ?", filters.StartDate)
	}
	if filters.EndDate != "" {
		query = query.Where("end_date <= ?", filters.EndDate)
	}
	return query
}

func (r *repository) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&TravelRequest{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

// UpdateStatusIf applies fields only while the row still holds the expected
// status. Zero rows affected means a concurrent transition won the race.
func (r *repository) UpdateStatusIf(ctx context.Context, id string, expected Status, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&TravelRequest{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&TravelRequest{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

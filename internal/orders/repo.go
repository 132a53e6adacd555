package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("event_date ASC, code ASC")

	if filters.DateFrom != nil {
		query = query.Where("event_date >= ?", filters.DateFrom.Format("2006-01-02"))
	}
	if filters.DateTo != nil {
		query = query.Where("event_date <= ?", filters.DateTo.Format("2006-01-02"))
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("client_name LIKE ? OR venue LIKE ? OR code LIKE ?", like, like, like)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListOrderCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&models.Order{}).Error
}

func (r *repository) FindStaff(ctx context.Context, staffID uuid.UUID) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Where("id = ?", staffID).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) FindClientByName(ctx context.Context, name string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error) {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *repository) FindAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Where("id = ?", assignmentID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) UpdateAssignment(ctx context.Context, assignmentID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ?", assignmentID).
		Updates(updates).Error
}

func (r *repository) DeleteAssignment(ctx context.Context, assignmentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", assignmentID).
		Delete(&models.Assignment{}).Error
}

func (r *repository) FindOrderIDsWithExpiredRejections(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Distinct("order_id").
		Where("status = ?", enums.AssignmentStatusRejected).
		Where("scheduled_deletion_at IS NOT NULL AND scheduled_deletion_at <= ?", cutoff).
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) DeleteExpiredRejections(ctx context.Context, orderID uuid.UUID, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Where("status = ?", enums.AssignmentStatusRejected).
		Where("scheduled_deletion_at IS NOT NULL AND scheduled_deletion_at <= ?", cutoff).
		Delete(&models.Assignment{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

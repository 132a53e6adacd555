// Package coordinators manages the on-site event coordinator directory.
package coordinators

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
)

// Repository defines persistence operations for coordinators.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCoordinator(ctx context.Context, coordinator *models.Coordinator) (*models.Coordinator, error)
	FindCoordinator(ctx context.Context, coordinatorID uuid.UUID) (*models.Coordinator, error)
	ListCoordinators(ctx context.Context) ([]models.Coordinator, error)
	UpdateCoordinator(ctx context.Context, coordinatorID uuid.UUID, updates map[string]any) error
	DeleteCoordinator(ctx context.Context, coordinatorID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed coordinator repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCoordinator(ctx context.Context, coordinator *models.Coordinator) (*models.Coordinator, error) {
	if err := r.db.WithContext(ctx).Create(coordinator).Error; err != nil {
		return nil, err
	}
	return coordinator, nil
}

func (r *repository) FindCoordinator(ctx context.Context, coordinatorID uuid.UUID) (*models.Coordinator, error) {
	var coordinator models.Coordinator
	if err := r.db.WithContext(ctx).First(&coordinator, "id = ?", coordinatorID).Error; err != nil {
		return nil, err
	}
	return &coordinator, nil
}

func (r *repository) ListCoordinators(ctx context.Context) ([]models.Coordinator, error) {
	var list []models.Coordinator
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) UpdateCoordinator(ctx context.Context, coordinatorID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Coordinator{}).
		Where("id = ?", coordinatorID).
		Updates(updates).Error
}

func (r *repository) DeleteCoordinator(ctx context.Context, coordinatorID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Coordinator{}, "id = ?", coordinatorID).Error
}

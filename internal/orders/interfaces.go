package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their
// assignment rosters.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filters ListFilters) ([]models.Order, error)
	ListOrderCodes(ctx context.Context) ([]string, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error

	FindStaff(ctx context.Context, staffID uuid.UUID) (*models.Staff, error)
	FindClientByName(ctx context.Context, name string) (*models.Client, error)

	CreateAssignment(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error)
	FindAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, assignmentID uuid.UUID, updates map[string]any) error
	DeleteAssignment(ctx context.Context, assignmentID uuid.UUID) error

	FindOrderIDsWithExpiredRejections(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	DeleteExpiredRejections(ctx context.Context, orderID uuid.UUID, cutoff time.Time) (int64, error)
}

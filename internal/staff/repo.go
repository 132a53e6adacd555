package staff

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
)

// Repository defines persistence operations for the staff roster.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateStaff(ctx context.Context, staff *models.Staff) (*models.Staff, error)
	FindStaff(ctx context.Context, staffID uuid.UUID) (*models.Staff, error)
	FindStaffByNumber(ctx context.Context, number string) (*models.Staff, error)
	ListStaff(ctx context.Context) ([]models.Staff, error)
	UpdateStaff(ctx context.Context, staffID uuid.UUID, updates map[string]any) error
	DeleteStaff(ctx context.Context, staffID uuid.UUID) error
	ReplaceAvailability(ctx context.Context, staffID uuid.UUID, entries []models.StaffAvailability) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a staff repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateStaff(ctx context.Context, staff *models.Staff) (*models.Staff, error) {
	if err := r.db.WithContext(ctx).Create(staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *repository) FindStaff(ctx context.Context, staffID uuid.UUID) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Preload("Availability", func(db *gorm.DB) *gorm.DB {
			return db.Order("day ASC")
		}).
		Where("id = ?", staffID).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) FindStaffByNumber(ctx context.Context, number string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var staffList []models.Staff
	err := r.db.WithContext(ctx).
		Order("number ASC").
		Find(&staffList).Error
	if err != nil {
		return nil, err
	}
	return staffList, nil
}

func (r *repository) UpdateStaff(ctx context.Context, staffID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Staff{}).
		Where("id = ?", staffID).
		Updates(updates).Error
}

func (r *repository) DeleteStaff(ctx context.Context, staffID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", staffID).
		Delete(&models.Staff{}).Error
}

func (r *repository) ReplaceAvailability(ctx context.Context, staffID uuid.UUID, entries []models.StaffAvailability) error {
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Delete(&models.StaffAvailability{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].StaffID = staffID
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

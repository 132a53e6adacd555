package staff

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateStaffInput carries the fields for a new roster member.
type CreateStaffInput struct {
	Name   string
	Number string
	Phone  string
	Email  *string
	Status enums.StaffStatus
}

// UpdateStaffInput holds editable staff fields; nil leaves a field alone.
type UpdateStaffInput struct {
	Name   *string
	Phone  *string
	Email  *string
	Status *enums.StaffStatus
}

// AvailabilityEntry is one calendar day on a staff member's availability.
type AvailabilityEntry struct {
	Day       time.Time
	Available bool
	Note      *string
}

// Service defines roster operations.
type Service interface {
	Create(ctx context.Context, input CreateStaffInput) (*models.Staff, error)
	Get(ctx context.Context, staffID uuid.UUID) (*models.Staff, error)
	List(ctx context.Context) ([]models.Staff, error)
	Update(ctx context.Context, staffID uuid.UUID, input UpdateStaffInput) (*models.Staff, error)
	Delete(ctx context.Context, staffID uuid.UUID) error
	SetAvailability(ctx context.Context, staffID uuid.UUID, entries []AvailabilityEntry) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the staff service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("staff repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateStaffInput) (*models.Staff, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff name required")
	}
	if strings.TrimSpace(input.Number) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff number required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff phone required")
	}
	status := input.Status
	if status == "" {
		status = enums.StaffStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid staff status")
	}

	var created *models.Staff
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindStaffByNumber(ctx, input.Number); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "staff number already in use")
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check staff number")
		}

		var err error
		created, err = repo.CreateStaff(ctx, &models.Staff{
			Name:   input.Name,
			Number: input.Number,
			Phone:  input.Phone,
			Email:  input.Email,
			Status: status,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, staffID uuid.UUID) (*models.Staff, error) {
	if staffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	staff, err := s.repo.FindStaff(ctx, staffID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
	}
	return staff, nil
}

func (s *service) List(ctx context.Context) ([]models.Staff, error) {
	staffList, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	return staffList, nil
}

func (s *service) Update(ctx context.Context, staffID uuid.UUID, input UpdateStaffInput) (*models.Staff, error) {
	if staffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff name must not be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		if strings.TrimSpace(*input.Phone) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff phone must not be empty")
		}
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid staff status")
		}
		updates["status"] = *input.Status
	}
	if len(updates) == 0 {
		return s.Get(ctx, staffID)
	}

	var updated *models.Staff
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindStaff(ctx, staffID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
		}
		if err := repo.UpdateStaff(ctx, staffID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update staff")
		}
		var err error
		updated, err = repo.FindStaff(ctx, staffID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload staff")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, staffID uuid.UUID) error {
	if staffID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindStaff(ctx, staffID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
		}
		if err := repo.DeleteStaff(ctx, staffID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete staff")
		}
		return nil
	})
}

func (s *service) SetAvailability(ctx context.Context, staffID uuid.UUID, entries []AvailabilityEntry) error {
	if staffID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	for _, entry := range entries {
		if entry.Day.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, "availability day required")
		}
	}

	rows := make([]models.StaffAvailability, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.StaffAvailability{
			Day:       entry.Day,
			Available: entry.Available,
			Note:      entry.Note,
		})
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindStaff(ctx, staffID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
		}
		if err := repo.ReplaceAvailability(ctx, staffID, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace availability")
		}
		return nil
	})
}

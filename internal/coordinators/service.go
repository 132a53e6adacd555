package coordinators

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateCoordinatorInput carries the fields for a new coordinator.
type CreateCoordinatorInput struct {
	Name  string
	Phone string
}

// UpdateCoordinatorInput holds editable coordinator fields; nil leaves a field alone.
type UpdateCoordinatorInput struct {
	Name  *string
	Phone *string
}

// Service defines coordinator directory operations.
type Service interface {
	Create(ctx context.Context, input CreateCoordinatorInput) (*models.Coordinator, error)
	Get(ctx context.Context, coordinatorID uuid.UUID) (*models.Coordinator, error)
	List(ctx context.Context) ([]models.Coordinator, error)
	Update(ctx context.Context, coordinatorID uuid.UUID, input UpdateCoordinatorInput) (*models.Coordinator, error)
	Delete(ctx context.Context, coordinatorID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the coordinator service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coordinator repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateCoordinatorInput) (*models.Coordinator, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinator name required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinator phone required")
	}
	created, err := s.repo.CreateCoordinator(ctx, &models.Coordinator{
		Name:  input.Name,
		Phone: input.Phone,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coordinator")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, coordinatorID uuid.UUID) (*models.Coordinator, error) {
	if coordinatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinator id required")
	}
	coordinator, err := s.repo.FindCoordinator(ctx, coordinatorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coordinator not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
	}
	return coordinator, nil
}

func (s *service) List(ctx context.Context) ([]models.Coordinator, error) {
	list, err := s.repo.ListCoordinators(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coordinators")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, coordinatorID uuid.UUID, input UpdateCoordinatorInput) (*models.Coordinator, error) {
	if coordinatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinator id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinator name must not be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		if strings.TrimSpace(*input.Phone) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinator phone must not be empty")
		}
		updates["phone"] = *input.Phone
	}
	if len(updates) == 0 {
		return s.Get(ctx, coordinatorID)
	}

	var updated *models.Coordinator
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindCoordinator(ctx, coordinatorID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "coordinator not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
		}
		if err := repo.UpdateCoordinator(ctx, coordinatorID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coordinator")
		}
		var err error
		updated, err = repo.FindCoordinator(ctx, coordinatorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload coordinator")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, coordinatorID uuid.UUID) error {
	if coordinatorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "coordinator id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindCoordinator(ctx, coordinatorID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "coordinator not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
		}
		if err := repo.DeleteCoordinator(ctx, coordinatorID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coordinator")
		}
		return nil
	})
}

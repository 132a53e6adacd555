package clients

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

// CreateClientInput carries the fields for a new client.
type CreateClientInput struct {
	Name        string
	ContactName *string
	Phone       *string
	Email       *string
}

// UpdateClientInput holds editable client fields; nil leaves a field alone.
type UpdateClientInput struct {
	Name        *string
	ContactName *string
	Phone       *string
	Email       *string
}

// Service defines client directory operations.
type Service interface {
	Create(ctx context.Context, input CreateClientInput) (*models.Client, error)
	Get(ctx context.Context, clientID uuid.UUID) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, clientID uuid.UUID, input UpdateClientInput) (*models.Client, error)
	Delete(ctx context.Context, clientID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the client service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateClientInput) (*models.Client, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name required")
	}

	var created *models.Client
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindClientByName(ctx, input.Name); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "client name already in use")
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check client name")
		}

		var err error
		created, err = repo.CreateClient(ctx, &models.Client{
			Name:        input.Name,
			ContactName: input.ContactName,
			Phone:       input.Phone,
			Email:       input.Email,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	client, err := s.repo.FindClient(ctx, clientID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	return client, nil
}

func (s *service) List(ctx context.Context) ([]models.Client, error) {
	list, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, clientID uuid.UUID, input UpdateClientInput) (*models.Client, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name must not be empty")
		}
		updates["name"] = *input.Name
	}
	if input.ContactName != nil {
		updates["contact_name"] = *input.ContactName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if len(updates) == 0 {
		return s.Get(ctx, clientID)
	}

	var updated *models.Client
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindClient(ctx, clientID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
		}
		if err := repo.UpdateClient(ctx, clientID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
		}
		var err error
		updated, err = repo.FindClient(ctx, clientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload client")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, clientID uuid.UUID) error {
	if clientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindClient(ctx, clientID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
		}
		if err := repo.DeleteClient(ctx, clientID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete client")
		}
		return nil
	})
}

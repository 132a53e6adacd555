// Package clients manages the agency's customer directory.
package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
)

// Repository defines persistence operations for clients.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
	FindClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error)
	FindClientByName(ctx context.Context, name string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, clientID uuid.UUID, updates map[string]any) error
	DeleteClient(ctx context.Context, clientID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed client repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (r *repository) FindClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", clientID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) FindClientByName(ctx context.Context, name string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) ListClients(ctx context.Context) ([]models.Client, error) {
	var list []models.Client
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) UpdateClient(ctx context.Context, clientID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(updates).Error
}

func (r *repository) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", clientID).Error
}

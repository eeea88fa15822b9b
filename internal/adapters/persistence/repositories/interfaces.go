package repositories

import (
	"context"

	"giftly-backend/internal/adapters/persistence/models"
)

// OccasionRepository defines occasion master-data access
type OccasionRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Occasion, error)
	GetBySlug(ctx context.Context, slug string) (*models.Occasion, error)
	List(ctx context.Context) ([]*models.Occasion, error)
	Create(ctx context.Context, occasion *models.Occasion) error
}

// CustomerRepository defines customer contact access
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
}

// ReceiverRepository defines receiver contact access
type ReceiverRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Receiver, error)
	Create(ctx context.Context, receiver *models.Receiver) error
}

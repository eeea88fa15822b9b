package repositories

import (
	"context"

	"giftly-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// occasionRepository implements OccasionRepository
type occasionRepository struct {
	db *gorm.DB
}

// NewOccasionRepository creates a new occasion repository
func NewOccasionRepository(db *gorm.DB) OccasionRepository {
	return &occasionRepository{db: db}
}

func (r *occasionRepository) GetByID(ctx context.Context, id uint) (*models.Occasion, error) {
	var occasion models.Occasion
	err := r.db.WithContext(ctx).First(&occasion, id).Error
	return &occasion, err
}

func (r *occasionRepository) GetBySlug(ctx context.Context, slug string) (*models.Occasion, error) {
	var occasion models.Occasion
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&occasion).Error
	return &occasion, err
}

func (r *occasionRepository) List(ctx context.Context) ([]*models.Occasion, error) {
	var occasions []*models.Occasion
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&occasions).Error
	return occasions, err
}

func (r *occasionRepository) Create(ctx context.Context, occasion *models.Occasion) error {
	return r.db.WithContext(ctx).Create(occasion).Error
}

// customerRepository implements CustomerRepository
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	return &customer, err
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	return &customer, err
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// receiverRepository implements ReceiverRepository
type receiverRepository struct {
	db *gorm.DB
}

// NewReceiverRepository creates a new receiver repository
func NewReceiverRepository(db *gorm.DB) ReceiverRepository {
	return &receiverRepository{db: db}
}

func (r *receiverRepository) GetByID(ctx context.Context, id uint) (*models.Receiver, error) {
	var receiver models.Receiver
	err := r.db.WithContext(ctx).First(&receiver, id).Error
	return &receiver, err
}

func (r *receiverRepository) Create(ctx context.Context, receiver *models.Receiver) error {
	return r.db.WithContext(ctx).Create(receiver).Error
}

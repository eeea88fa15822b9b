package repositories

import (
	"context"

	"giftly-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// VoucherRepository handles voucher template data access
type VoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) *VoucherRepository {
	return &VoucherRepository{db: db}
}

// Create creates a new voucher template
func (r *VoucherRepository) Create(ctx context.Context, voucher *models.Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

// GetByID gets a voucher template by ID
func (r *VoucherRepository) GetByID(ctx context.Context, id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).First(&voucher, id).Error
	return &voucher, err
}

// ListByBrand lists a brand's voucher templates
func (r *VoucherRepository) ListByBrand(ctx context.Context, brandID uint) ([]*models.Voucher, error) {
	var vouchers []*models.Voucher
	err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("created_at DESC").
		Find(&vouchers).Error
	return vouchers, err
}

// Update updates a voucher template
func (r *VoucherRepository) Update(ctx context.Context, voucher *models.Voucher) error {
	return r.db.WithContext(ctx).Save(voucher).Error
}

// Deactivate flips the active flag; templates referenced by live orders
// are never hard-deleted
func (r *VoucherRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

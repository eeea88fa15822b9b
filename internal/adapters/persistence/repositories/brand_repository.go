package repositories

import (
	"context"
	"time"

	"giftly-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// BrandRepository handles brand data access
type BrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a new brand repository
func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// Create creates a new brand
func (r *BrandRepository) Create(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

// GetByID gets a brand by ID with banking
func (r *BrandRepository) GetByID(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).
		Preload("Banking").
		First(&brand, id).Error
	return &brand, err
}

// GetBySlug gets a brand by slug
func (r *BrandRepository) GetBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.WithContext(ctx).
		Preload("Banking").
		Where("slug = ?", slug).
		First(&brand).Error
	return &brand, err
}

// List lists brands with pagination
func (r *BrandRepository) List(ctx context.Context, offset, limit int) ([]*models.Brand, int64, error) {
	var brands []*models.Brand
	var total int64

	r.db.WithContext(ctx).Model(&models.Brand{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Banking").
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&brands).Error

	return brands, total, err
}

// Update updates a brand
func (r *BrandRepository) Update(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// Delete soft deletes a brand
func (r *BrandRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Brand{}, id).Error
}

// BrandTermsRepository handles contractual terms data access
type BrandTermsRepository struct {
	db *gorm.DB
}

// NewBrandTermsRepository creates a new brand terms repository
func NewBrandTermsRepository(db *gorm.DB) *BrandTermsRepository {
	return &BrandTermsRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *BrandTermsRepository) WithTx(tx *gorm.DB) *BrandTermsRepository {
	return &BrandTermsRepository{db: tx}
}

// Create creates a new terms record
func (r *BrandTermsRepository) Create(ctx context.Context, terms *models.BrandTerms) error {
	return r.db.WithContext(ctx).Create(terms).Error
}

// ListByBrand lists all terms records for a brand, newest contract first
func (r *BrandTermsRepository) ListByBrand(ctx context.Context, brandID uint) ([]*models.BrandTerms, error) {
	var terms []*models.BrandTerms
	err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("contract_start DESC, id DESC").
		Find(&terms).Error
	return terms, err
}

// ListCovering lists terms records whose contract window contains ts,
// most recently started first. The caller picks the head as active.
func (r *BrandTermsRepository) ListCovering(ctx context.Context, brandID uint, ts time.Time) ([]*models.BrandTerms, error) {
	var terms []*models.BrandTerms
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND contract_start <= ? AND contract_end >= ?", brandID, ts, ts).
		Order("contract_start DESC, id DESC").
		Find(&terms).Error
	return terms, err
}

// BrandBankingRepository handles payout destination data access
type BrandBankingRepository struct {
	db *gorm.DB
}

// NewBrandBankingRepository creates a new brand banking repository
func NewBrandBankingRepository(db *gorm.DB) *BrandBankingRepository {
	return &BrandBankingRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *BrandBankingRepository) WithTx(tx *gorm.DB) *BrandBankingRepository {
	return &BrandBankingRepository{db: tx}
}

// Upsert creates or replaces the banking record for a brand
func (r *BrandBankingRepository) Upsert(ctx context.Context, banking *models.BrandBanking) error {
	var existing models.BrandBanking
	err := r.db.WithContext(ctx).Where("brand_id = ?", banking.BrandID).First(&existing).Error
	if err == nil {
		banking.ID = existing.ID
		banking.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(banking).Error
	}
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(banking).Error
	}
	return err
}

// GetByBrandID gets the banking record for a brand
func (r *BrandBankingRepository) GetByBrandID(ctx context.Context, brandID uint) (*models.BrandBanking, error) {
	var banking models.BrandBanking
	err := r.db.WithContext(ctx).Where("brand_id = ?", brandID).First(&banking).Error
	return &banking, err
}

// ListAll lists every banking record (settlement close pass)
func (r *BrandBankingRepository) ListAll(ctx context.Context) ([]*models.BrandBanking, error) {
	var bankings []*models.BrandBanking
	err := r.db.WithContext(ctx).Find(&bankings).Error
	return bankings, err
}

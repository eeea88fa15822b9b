package repositories

import (
	"context"
	"errors"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/core/domain"

	"gorm.io/gorm"
)

// SettlementRepository handles the settlement ledger. Aggregation is done
// with atomic column increments guarded on the OPEN status, and per-order
// idempotence rides on the (settlement_id, order_id) unique key.
type SettlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *SettlementRepository) WithTx(tx *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: tx}
}

// GetByID gets a settlement row by ID
func (r *SettlementRepository) GetByID(ctx context.Context, id uint) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.WithContext(ctx).First(&settlement, id).Error
	return &settlement, err
}

// OpenOrCreate resolves the ledger row for (brandID, periodStart),
// creating it lazily on the first event of the period. A concurrent
// creator losing the unique-key race re-reads the winner's row.
func (r *SettlementRepository) OpenOrCreate(ctx context.Context, brandID uint, periodStart, periodEnd time.Time) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND period_start = ?", brandID, periodStart).
		First(&settlement).Error
	if err == nil {
		return &settlement, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settlement = models.Settlement{
		BrandID:     brandID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      string(domain.SettlementOpen),
	}
	err = r.db.WithContext(ctx).Create(&settlement).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = r.db.WithContext(ctx).
			Where("brand_id = ? AND period_start = ?", brandID, periodStart).
			First(&settlement).Error
	}
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

// AddEntry records the per-order idempotence marker. Returns false when
// the order was already applied to this settlement.
func (r *SettlementRepository) AddEntry(ctx context.Context, entry *models.SettlementEntry) (bool, error) {
	err := r.db.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Accumulate adds one order's economics to an OPEN row. Returns false
// when the row is no longer open.
func (r *SettlementRepository) Accumulate(ctx context.Context, settlementID uint, payable, faceValue int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Settlement{}).
		Where("id = ? AND status = ?", settlementID, domain.SettlementOpen).
		Updates(map[string]interface{}{
			"total_sold":     gorm.Expr("total_sold + ?", payable),
			"outstanding":    gorm.Expr("outstanding + ?", payable),
			"redeemed_value": gorm.Expr("redeemed_value + ?", faceValue),
			"redeemed_count": gorm.Expr("redeemed_count + 1"),
		})
	return res.RowsAffected > 0, res.Error
}

// Close freezes an OPEN row: status -> PENDING, aggregation stops
func (r *SettlementRepository) Close(ctx context.Context, settlementID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Settlement{}).
		Where("id = ? AND status = ?", settlementID, domain.SettlementOpen).
		Updates(map[string]interface{}{
			"status":         string(domain.SettlementPending),
			"closed_at":      at,
			"total_at_close": gorm.Expr("total_sold"),
		})
	return res.RowsAffected > 0, res.Error
}

// ApplyPayment decrements outstanding and accrues the disbursed amount.
// The guard `outstanding >= amount` makes overpayment a no-op here; the
// caller decides whether to flag the row for review.
func (r *SettlementRepository) ApplyPayment(ctx context.Context, settlementID uint, amount int64, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Settlement{}).
		Where("id = ? AND status = ? AND outstanding >= ?", settlementID, domain.SettlementPending, amount).
		Updates(map[string]interface{}{
			"outstanding":  gorm.Expr("outstanding - ?", amount),
			"amount":       gorm.Expr("amount + ?", amount),
			"last_payment": paidAt,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkPaid closes out a fully-paid PENDING row
func (r *SettlementRepository) MarkPaid(ctx context.Context, settlementID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Settlement{}).
		Where("id = ? AND status = ? AND outstanding = 0", settlementID, domain.SettlementPending).
		Update("status", string(domain.SettlementPaid))
	return res.RowsAffected > 0, res.Error
}

// MarkInReview flags a PENDING row for manual reconciliation
func (r *SettlementRepository) MarkInReview(ctx context.Context, settlementID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Settlement{}).
		Where("id = ? AND status = ?", settlementID, domain.SettlementPending).
		Update("status", string(domain.SettlementInReview)).Error
}

// ListByBrand lists a brand's settlement rows, newest period first
func (r *SettlementRepository) ListByBrand(ctx context.Context, brandID uint, offset, limit int) ([]*models.Settlement, int64, error) {
	var settlements []*models.Settlement
	var total int64

	r.db.WithContext(ctx).Model(&models.Settlement{}).Where("brand_id = ?", brandID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("period_start DESC").
		Offset(offset).
		Limit(limit).
		Find(&settlements).Error

	return settlements, total, err
}

// ListOpenBefore lists a brand's OPEN rows whose period started before
// the cutoff (the close pass sweeps these)
func (r *SettlementRepository) ListOpenBefore(ctx context.Context, brandID uint, cutoff time.Time) ([]*models.Settlement, error) {
	var settlements []*models.Settlement
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND status = ? AND period_start < ?", brandID, domain.SettlementOpen, cutoff).
		Order("period_start ASC").
		Find(&settlements).Error
	return settlements, err
}

package repositories

import (
	"context"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/core/domain"

	"gorm.io/gorm"
)

// OrderRepository handles order data access. Status transitions are
// conditional updates guarded on the current status, so concurrent
// attempts resolve to exactly one winner without row locks.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create creates a new order
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID gets an order by ID with relations
func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Voucher").
		Preload("Occasion").
		Preload("Receiver").
		First(&order, id).Error
	return &order, err
}

// GetByGiftCode gets an order by its gift code
func (r *OrderRepository) GetByGiftCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Voucher").
		Where("gift_code = ?", code).
		First(&order).Error
	return &order, err
}

// List lists orders with optional brand/status filters and pagination
func (r *OrderRepository) List(ctx context.Context, brandID *uint, status *string, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Order{})
	if brandID != nil {
		q = q.Where("brand_id = ?", *brandID)
	}
	if status != nil {
		q = q.Where("redemption_status = ?", *status)
	}
	q.Count(&total)

	err := q.
		Preload("Brand").
		Preload("Voucher").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error

	return orders, total, err
}

// MarkRedeemed transitions ISSUED -> REDEEMED. Returns false when the
// order was not in ISSUED, i.e. a concurrent attempt already won.
func (r *OrderRepository) MarkRedeemed(ctx context.Context, orderID uint, redeemedAmount int64, channel string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND redemption_status = ?", orderID, domain.RedemptionIssued).
		Updates(map[string]interface{}{
			"redemption_status": string(domain.RedemptionRedeemed),
			"redeemed_amount":   redeemedAmount,
			"redeemed_channel":  channel,
			"redeemed_at":       at,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkExpired transitions ISSUED -> EXPIRED (lazy check-on-access)
func (r *OrderRepository) MarkExpired(ctx context.Context, orderID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND redemption_status = ?", orderID, domain.RedemptionIssued).
		Updates(map[string]interface{}{
			"redemption_status": string(domain.RedemptionExpired),
			"updated_at":        at,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkNotRedeemed transitions ISSUED -> NOT_REDEEMED (administrative closure)
func (r *OrderRepository) MarkNotRedeemed(ctx context.Context, orderID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND redemption_status = ?", orderID, domain.RedemptionIssued).
		Update("redemption_status", string(domain.RedemptionNotRedeemed))
	return res.RowsAffected > 0, res.Error
}

// ExpireIssuedBefore bulk-expires all ISSUED orders past their expiry
func (r *OrderRepository) ExpireIssuedBefore(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("redemption_status = ? AND expires_at < ?", domain.RedemptionIssued, now).
		Update("redemption_status", string(domain.RedemptionExpired))
	return res.RowsAffected, res.Error
}

// CountRedeemedOnDay counts a customer's redemptions against one voucher
// template during the calendar day containing at (userPerDay cap)
func (r *OrderRepository) CountRedeemedOnDay(ctx context.Context, customerID, voucherID uint, at time.Time) (int64, error) {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ? AND voucher_id = ? AND redemption_status = ? AND redeemed_at >= ? AND redeemed_at < ?",
			customerID, voucherID, domain.RedemptionRedeemed, dayStart, dayEnd).
		Count(&count).Error
	return count, err
}

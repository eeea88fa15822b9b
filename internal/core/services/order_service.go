package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService handles order purchase and administrative closure
type OrderService struct {
	db                *gorm.DB
	orderRepo         *repositories.OrderRepository
	brandRepo         *repositories.BrandRepository
	voucherRepo       *repositories.VoucherRepository
	termsRepo         *repositories.BrandTermsRepository
	occasionRepo      repositories.OccasionRepository
	customerRepo      repositories.CustomerRepository
	policyService     *PolicyService
	commissionService *CommissionService
	settlementService *SettlementService
}

// NewOrderService creates a new order service
func NewOrderService(
	db *gorm.DB,
	orderRepo *repositories.OrderRepository,
	brandRepo *repositories.BrandRepository,
	voucherRepo *repositories.VoucherRepository,
	termsRepo *repositories.BrandTermsRepository,
	occasionRepo repositories.OccasionRepository,
	customerRepo repositories.CustomerRepository,
	policyService *PolicyService,
	commissionService *CommissionService,
	settlementService *SettlementService,
) *OrderService {
	return &OrderService{
		db:                db,
		orderRepo:         orderRepo,
		brandRepo:         brandRepo,
		voucherRepo:       voucherRepo,
		termsRepo:         termsRepo,
		occasionRepo:      occasionRepo,
		customerRepo:      customerRepo,
		policyService:     policyService,
		commissionService: commissionService,
		settlementService: settlementService,
	}
}

// ReceiverInput represents the gift recipient contact
type ReceiverInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// CreateOrderInput represents create order input
type CreateOrderInput struct {
	BrandID        uint          `json:"brand_id" validate:"required"`
	VoucherID      uint          `json:"voucher_id" validate:"required"`
	OccasionID     uint          `json:"occasion_id" validate:"required"`
	CustomerID     uint          `json:"customer_id" validate:"required"`
	Receiver       ReceiverInput `json:"receiver" validate:"required"`
	Amount         int64         `json:"amount" validate:"required,gt=0"`
	PaymentMethod  string        `json:"payment_method,omitempty"`
	DeliveryMethod string        `json:"delivery_method,omitempty"`
	SendType       string        `json:"send_type,omitempty"`
	ScheduledAt    *time.Time    `json:"scheduled_at"`
}

// Create issues a new voucher instance: validates references and the
// denomination policy, stamps the expiry, and for ON_PURCHASE brands
// recognizes the brand's liability immediately, all in one transaction.
func (s *OrderService) Create(ctx context.Context, input *CreateOrderInput) (*models.Order, error) {
	now := time.Now()

	brand, err := s.brandRepo.GetByID(ctx, input.BrandID)
	if err != nil || !brand.IsActive {
		return nil, domain.ErrBrandNotFound
	}

	voucher, err := s.voucherRepo.GetByID(ctx, input.VoucherID)
	if err != nil || voucher.BrandID != input.BrandID || !voucher.IsActive {
		return nil, domain.ErrVoucherNotFound
	}

	if _, err := s.occasionRepo.GetByID(ctx, input.OccasionID); err != nil {
		return nil, domain.ErrOccasionNotFound
	}
	if _, err := s.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, domain.ErrCustomerNotFound
	}

	amount := domain.Cents(input.Amount)
	if err := s.policyService.ValidateAmount(voucher, amount); err != nil {
		return nil, err
	}

	expiresAt, err := s.policyService.ComputeExpiry(voucher, now)
	if err != nil {
		return nil, err
	}

	// active terms decide purchase-time discount and the settlement
	// trigger; onRedemption brands may sell before terms go live
	termsList, err := s.termsRepo.ListCovering(ctx, input.BrandID, now)
	if err != nil {
		return nil, err
	}
	terms, termsErr := s.commissionService.ActiveTerms(termsList, now)

	totalAmount := input.Amount
	if terms != nil {
		if terms.OrderValue > 0 && input.Amount < terms.OrderValue {
			return nil, domain.ErrInvalidAmount
		}
		totalAmount = int64(s.commissionService.Calculate(terms, amount).DiscountedAmount)
	}

	sendType := input.SendType
	if sendType == "" {
		sendType = string(domain.SendImmediate)
	}

	order := &models.Order{
		OrderNumber:      newOrderNumber(now),
		GiftCode:         newGiftCode(),
		BrandID:          input.BrandID,
		VoucherID:        input.VoucherID,
		OccasionID:       input.OccasionID,
		CustomerID:       input.CustomerID,
		Amount:           input.Amount,
		TotalAmount:      &totalAmount,
		RedemptionStatus: string(domain.RedemptionIssued),
		PaymentMethod:    input.PaymentMethod,
		DeliveryMethod:   input.DeliveryMethod,
		SendType:         sendType,
		ScheduledAt:      input.ScheduledAt,
		IssuedAt:         now,
		ExpiresAt:        expiresAt,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		receiver := &models.Receiver{
			Name:  input.Receiver.Name,
			Email: input.Receiver.Email,
			Phone: input.Receiver.Phone,
		}
		if err := tx.WithContext(ctx).Create(receiver).Error; err != nil {
			return err
		}
		order.ReceiverID = receiver.ID

		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}

		// purchase-time settlement recognition
		if terms != nil && s.commissionService.Trigger(terms) == domain.TriggerOnPurchase {
			breakdown := s.commissionService.Calculate(terms, amount)
			if _, _, err := s.settlementService.Apply(ctx, tx, order, breakdown.BrandPayable, domain.TriggerOnPurchase, now); err != nil {
				return err
			}
		} else if terms == nil && termsErr != nil {
			// no active contract: only a problem when liability must be
			// recognized now, which requires knowing the trigger
			trigger, err := s.latestTrigger(ctx, s.termsRepo.WithTx(tx), input.BrandID)
			if err == nil && trigger == domain.TriggerOnPurchase {
				return domain.ErrNoActiveTerms
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎫 Order %s issued for brand #%d (expires %s)", order.OrderNumber, order.BrandID, order.ExpiresAt.Format("2006-01-02"))
	return order, nil
}

// latestTrigger peeks at the brand's most recent terms record to learn
// its settlement trigger when no contract covers the current instant
func (s *OrderService) latestTrigger(ctx context.Context, termsRepo *repositories.BrandTermsRepository, brandID uint) (domain.SettlementTrigger, error) {
	all, err := termsRepo.ListByBrand(ctx, brandID)
	if err != nil || len(all) == 0 {
		return domain.DefaultSettlementTrigger, err
	}
	return s.commissionService.Trigger(all[0]), nil
}

// Cancel administratively closes an ISSUED order (ISSUED -> NOT_REDEEMED)
func (s *OrderService) Cancel(ctx context.Context, orderID uint) (*models.Order, error) {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	ok, err := s.orderRepo.MarkNotRedeemed(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}

	return s.orderRepo.GetByID(ctx, orderID)
}

// GetByID gets an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetByGiftCode gets an order by gift code
func (s *OrderService) GetByGiftCode(ctx context.Context, code string) (*models.Order, error) {
	order, err := s.orderRepo.GetByGiftCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// List lists orders with optional filters
func (s *OrderService) List(ctx context.Context, brandID *uint, status *string, offset, limit int) ([]*models.Order, int64, error) {
	return s.orderRepo.List(ctx, brandID, status, offset, limit)
}

// newGiftCode generates a unique, human-shareable gift code
func newGiftCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "GFT-" + raw[:4] + "-" + raw[4:8] + "-" + raw[8:12]
}

// newOrderNumber generates a unique order number
func newOrderNumber(now time.Time) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "ORD-" + now.Format("20060102") + "-" + raw[:8]
}

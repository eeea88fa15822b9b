package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/core/domain"

	"gorm.io/gorm"
)

const (
	redemptionMaxAttempts = 3
	redemptionBackoffBase = 100 * time.Millisecond
)

// RedemptionService is the reconciliation orchestrator: the only
// component sequencing writes across Order/Voucher/Settlement state.
// Each call persists its changes as one transaction; on any failure no
// partial state is committed.
type RedemptionService struct {
	db                *gorm.DB
	orderRepo         *repositories.OrderRepository
	termsRepo         *repositories.BrandTermsRepository
	policyService     *PolicyService
	commissionService *CommissionService
	settlementService *SettlementService
}

// NewRedemptionService creates a new redemption service
func NewRedemptionService(
	db *gorm.DB,
	orderRepo *repositories.OrderRepository,
	termsRepo *repositories.BrandTermsRepository,
	policyService *PolicyService,
	commissionService *CommissionService,
	settlementService *SettlementService,
) *RedemptionService {
	return &RedemptionService{
		db:                db,
		orderRepo:         orderRepo,
		termsRepo:         termsRepo,
		policyService:     policyService,
		commissionService: commissionService,
		settlementService: settlementService,
	}
}

// RedeemInput represents a redemption attempt
type RedeemInput struct {
	GiftCode string `json:"gift_code"`
	Channel  string `json:"channel" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
}

// RedeemResult represents the outcome of a successful redemption
type RedeemResult struct {
	OrderNumber      string                      `json:"order_number"`
	RedemptionStatus string                      `json:"redemption_status"`
	RedeemedAmount   int64                       `json:"redeemed_amount"`
	RedeemedAt       time.Time                   `json:"redeemed_at"`
	Breakdown        *domain.CommissionBreakdown `json:"breakdown"`
	SettlementID     *uint                       `json:"settlement_id,omitempty"`
}

// ProcessRedemption validates and applies one redemption attempt:
// policy evaluation, the ISSUED -> REDEEMED transition, commission
// computation and settlement aggregation, atomically. Transient storage
// failures are retried with backoff; business failures never are.
func (s *RedemptionService) ProcessRedemption(ctx context.Context, orderID uint, input *RedeemInput, now time.Time) (*RedeemResult, error) {
	var result *RedeemResult
	err := s.withRetry(ctx, func() error {
		var err error
		result, err = s.processOnce(ctx, orderID, input, now)
		return err
	})
	return result, err
}

// ProcessRedemptionByCode resolves the gift code to its order and redeems it
func (s *RedemptionService) ProcessRedemptionByCode(ctx context.Context, input *RedeemInput, now time.Time) (*RedeemResult, error) {
	order, err := s.orderRepo.GetByGiftCode(ctx, input.GiftCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return s.ProcessRedemption(ctx, order.ID, input, now)
}

func (s *RedemptionService) processOnce(ctx context.Context, orderID uint, input *RedeemInput, now time.Time) (*RedeemResult, error) {
	// lazy expiry runs outside the main transaction so the EXPIRED flip
	// persists even though the redemption itself is rejected
	current, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	if current.Status() == domain.RedemptionIssued && now.After(current.ExpiresAt) {
		if _, err := s.orderRepo.MarkExpired(ctx, current.ID, now); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidTransition
	}

	var result *RedeemResult

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		order, err := orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}

		// terminal states are final; retries must not double-count
		if order.Status().IsTerminal() {
			if order.Status() == domain.RedemptionRedeemed {
				return domain.ErrAlreadyRedeemed
			}
			return domain.ErrInvalidTransition
		}

		voucher := order.Voucher
		if voucher == nil {
			return domain.ErrVoucherNotFound
		}

		// re-check under the transaction; the order may have expired
		// between the pre-check and here
		if now.After(order.ExpiresAt) {
			return domain.ErrInvalidTransition
		}

		if !voucher.AllowsChannel(input.Channel) {
			return domain.ErrChannelNotAllowed
		}

		if voucher.UserPerDay > 0 {
			count, err := orders.CountRedeemedOnDay(ctx, order.CustomerID, order.VoucherID, now)
			if err != nil {
				return err
			}
			if count >= int64(voucher.UserPerDay) {
				return domain.ErrRedemptionCapExceeded
			}
		}

		amount := domain.Cents(input.Amount)
		if !voucher.PartialRedemption && amount != domain.Cents(order.Amount) {
			return domain.ErrInvalidAmount
		}
		if amount <= 0 || amount > domain.Cents(order.Amount) {
			return domain.ErrInvalidAmount
		}

		termsList, err := s.termsRepo.WithTx(tx).ListCovering(ctx, order.BrandID, now)
		if err != nil {
			return err
		}
		terms, err := s.commissionService.ActiveTerms(termsList, now)
		if err != nil {
			return err
		}

		breakdown := s.commissionService.Calculate(terms, amount)

		// conditional update: exactly one concurrent attempt wins
		won, err := orders.MarkRedeemed(ctx, order.ID, int64(amount), input.Channel, now)
		if err != nil {
			return err
		}
		if !won {
			return domain.ErrAlreadyRedeemed
		}

		result = &RedeemResult{
			OrderNumber:      order.OrderNumber,
			RedemptionStatus: string(domain.RedemptionRedeemed),
			RedeemedAmount:   int64(amount),
			RedeemedAt:       now,
			Breakdown:        breakdown,
		}

		// onPurchase brands were settled when the order was created
		if s.commissionService.Trigger(terms) == domain.TriggerOnRedemption {
			settlement, _, err := s.settlementService.Apply(ctx, tx, order, breakdown.BrandPayable, domain.TriggerOnRedemption, now)
			if err != nil {
				return err
			}
			result.SettlementID = &settlement.ID
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎁 Order %s redeemed via %s: payable %d", result.OrderNumber, input.Channel, int64(result.Breakdown.BrandPayable))
	return result, nil
}

// SweepExpirations expires every ISSUED order past its expiry timestamp.
// No settlement side effects: expiry never creates brand liability.
func (s *RedemptionService) SweepExpirations(ctx context.Context, now time.Time) (int64, error) {
	var expired int64
	err := s.withRetry(ctx, func() error {
		var err error
		expired, err = s.orderRepo.ExpireIssuedBefore(ctx, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		log.Printf("⏰ Expired %d overdue orders", expired)
	}
	return expired, nil
}

// withRetry runs fn with bounded exponential backoff. Business-rule
// failures and not-found conditions are terminal for the operation and
// returned as-is; only transient storage errors are retried.
func (s *RedemptionService) withRetry(ctx context.Context, fn func() error) error {
	backoff := redemptionBackoffBase
	var err error

	for attempt := 1; attempt <= redemptionMaxAttempts; attempt++ {
		err = fn()
		if err == nil || domain.IsBusinessError(err) || errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if attempt == redemptionMaxAttempts {
			break
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}

	return fmt.Errorf("%w after %d attempts: %w", domain.ErrOperationFailed, redemptionMaxAttempts, err)
}

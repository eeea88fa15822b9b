package services

import (
	"context"
	"errors"
	"log"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/core/domain"

	"gorm.io/gorm"
)

// SettlementService maintains the per-brand settlement ledger: one open
// row per (brand, periodStart), resolved fresh from storage on every
// event so any number of service instances can run concurrently.
type SettlementService struct {
	db             *gorm.DB
	settlementRepo *repositories.SettlementRepository
	bankingRepo    *repositories.BrandBankingRepository
	notifyService  *NotifyService
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	db *gorm.DB,
	settlementRepo *repositories.SettlementRepository,
	bankingRepo *repositories.BrandBankingRepository,
	notifyService *NotifyService,
) *SettlementService {
	return &SettlementService{
		db:             db,
		settlementRepo: settlementRepo,
		bankingRepo:    bankingRepo,
		notifyService:  notifyService,
	}
}

// cadenceFor resolves a brand's settlement cadence, defaulting when
// banking has not been configured yet
func (s *SettlementService) cadenceFor(ctx context.Context, bankings *repositories.BrandBankingRepository, brandID uint) (domain.SettlementFrequency, int) {
	banking, err := bankings.GetByBrandID(ctx, brandID)
	if err != nil {
		return domain.DefaultSettlementFrequency, 1
	}
	return banking.Frequency(), banking.DayOfMonth
}

// Apply aggregates one order's payable into the brand's current open
// settlement row. Keyed by orderId: replaying the same order is a no-op.
// Runs inside the caller's transaction when tx is non-nil.
func (s *SettlementService) Apply(ctx context.Context, tx *gorm.DB, order *models.Order, payable domain.Cents, trigger domain.SettlementTrigger, at time.Time) (*models.Settlement, bool, error) {
	repo := s.settlementRepo
	bankings := s.bankingRepo
	if tx != nil {
		repo = repo.WithTx(tx)
		bankings = bankings.WithTx(tx)
	}

	freq, dayOfMonth := s.cadenceFor(ctx, bankings, order.BrandID)
	periodStart := domain.PeriodStartFor(freq, dayOfMonth, at)
	periodEnd := domain.PeriodEndFor(freq, dayOfMonth, periodStart)

	settlement, err := repo.OpenOrCreate(ctx, order.BrandID, periodStart, periodEnd)
	if err != nil {
		return nil, false, err
	}

	applied, err := repo.AddEntry(ctx, &models.SettlementEntry{
		SettlementID: settlement.ID,
		OrderID:      order.ID,
		Payable:      int64(payable),
		FaceValue:    order.Amount,
		Trigger:      string(trigger),
	})
	if err != nil {
		return nil, false, err
	}
	if !applied {
		// already aggregated; idempotent replay
		return settlement, false, nil
	}

	ok, err := repo.Accumulate(ctx, settlement.ID, int64(payable), order.Amount)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, domain.ErrSettlementClosed
	}

	return settlement, true, nil
}

// ClosePeriod freezes every open settlement row of the brand whose
// period started before periodEnd and emits each closed record for
// payout. The next period's row opens lazily on its first event.
func (s *SettlementService) ClosePeriod(ctx context.Context, brandID uint, periodEnd time.Time) ([]*models.Settlement, error) {
	open, err := s.settlementRepo.ListOpenBefore(ctx, brandID, periodEnd)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	closed := make([]*models.Settlement, 0, len(open))
	for _, row := range open {
		ok, err := s.settlementRepo.Close(ctx, row.ID, now)
		if err != nil {
			return closed, err
		}
		if !ok {
			// another instance closed it first
			continue
		}

		settlement, err := s.settlementRepo.GetByID(ctx, row.ID)
		if err != nil {
			return closed, err
		}
		closed = append(closed, settlement)

		banking, err := s.bankingRepo.GetByBrandID(ctx, brandID)
		if err != nil {
			banking = nil
		}
		s.notifyService.EmitSettlementClosed(settlement, banking)
		log.Printf("🧾 Settlement #%d closed for brand #%d: outstanding %d", settlement.ID, brandID, settlement.Outstanding)
	}

	return closed, nil
}

// RecordPaymentInput represents record payment input
type RecordPaymentInput struct {
	Amount int64      `json:"amount" validate:"required,gt=0"`
	PaidAt *time.Time `json:"paid_at"`
}

// RecordPayment applies a disbursement to a closed settlement row. A
// payment that would drive Outstanding negative is rejected and the row
// is flagged for manual review instead of being clamped.
func (s *SettlementService) RecordPayment(ctx context.Context, settlementID uint, input *RecordPaymentInput) (*models.Settlement, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	settlement, err := s.settlementRepo.GetByID(ctx, settlementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}

	switch domain.SettlementStatus(settlement.Status) {
	case domain.SettlementOpen:
		return nil, domain.ErrSettlementNotClosed
	case domain.SettlementPaid:
		return nil, domain.ErrSettlementClosed
	case domain.SettlementInReview:
		return nil, domain.ErrOverpayment
	}

	ok, err := s.settlementRepo.ApplyPayment(ctx, settlementID, input.Amount, paidAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		// guard failed: the amount exceeds what is outstanding
		if err := s.settlementRepo.MarkInReview(ctx, settlementID); err != nil {
			return nil, err
		}
		log.Printf("⚠️ Settlement #%d flagged IN_REVIEW: payment %d exceeds outstanding %d", settlementID, input.Amount, settlement.Outstanding)
		return nil, domain.ErrOverpayment
	}

	// fully paid rows close out
	if _, err := s.settlementRepo.MarkPaid(ctx, settlementID); err != nil {
		return nil, err
	}

	return s.settlementRepo.GetByID(ctx, settlementID)
}

// GetByID gets a settlement row
func (s *SettlementService) GetByID(ctx context.Context, id uint) (*models.Settlement, error) {
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}
	return settlement, nil
}

// ListByBrand lists a brand's settlement rows
func (s *SettlementService) ListByBrand(ctx context.Context, brandID uint, offset, limit int) ([]*models.Settlement, int64, error) {
	return s.settlementRepo.ListByBrand(ctx, brandID, offset, limit)
}

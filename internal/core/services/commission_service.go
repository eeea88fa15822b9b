package services

import (
	"math"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/core/domain"
)

// CommissionService computes brand economics for an order under the
// brand's contractual terms. Pure computation in integer cents;
// percentages round half-up exactly once each.
type CommissionService struct{}

// NewCommissionService creates a new commission service
func NewCommissionService() *CommissionService {
	return &CommissionService{}
}

// ActiveTerms picks the terms record governing an order at ts: contract
// window must contain ts, most recently started wins on overlap.
func (s *CommissionService) ActiveTerms(terms []*models.BrandTerms, ts time.Time) (*models.BrandTerms, error) {
	var active *models.BrandTerms
	for _, t := range terms {
		if !t.Covers(ts) {
			continue
		}
		if active == nil ||
			t.ContractStart.After(active.ContractStart) ||
			(t.ContractStart.Equal(active.ContractStart) && t.ID > active.ID) {
			active = t
		}
	}
	if active == nil {
		return nil, domain.ErrNoActiveTerms
	}
	return active, nil
}

// Calculate computes the commission breakdown for a redeemed amount.
// Positive BrandPayable is owed to the brand.
func (s *CommissionService) Calculate(terms *models.BrandTerms, amount domain.Cents) *domain.CommissionBreakdown {
	commissionType := domain.CommissionType(terms.CommissionType)
	if commissionType == "" {
		commissionType = domain.DefaultCommissionType
	}

	var commission domain.Cents
	if commissionType == domain.CommissionPercentage {
		commission = domain.PercentHalfUp(amount, terms.CommissionValue)
	} else {
		// fixed commission is stored in cents
		commission = domain.Cents(math.Round(terms.CommissionValue))
	}
	commission = domain.ClampCents(commission, 0, amount)

	discounted := amount - domain.Cents(terms.Discount)
	if discounted < 0 {
		discounted = 0
	}

	vat := domain.PercentHalfUp(discounted, terms.VatRate)

	var brokerage domain.Cents
	if domain.BrokeragePolicy(terms.BrokeragePolicy) == domain.BrokerageShare {
		brokerage = domain.PercentHalfUp(discounted, terms.BrokerageShare)
	}

	return &domain.CommissionBreakdown{
		Amount:           amount,
		CommissionAmount: commission,
		DiscountedAmount: discounted,
		VatAmount:        vat,
		BrokerageAmount:  brokerage,
		BrandPayable:     discounted - commission - brokerage + vat,
	}
}

// Trigger returns the typed settlement trigger with the default applied
func (s *CommissionService) Trigger(terms *models.BrandTerms) domain.SettlementTrigger {
	if terms.SettlementTrigger == "" {
		return domain.DefaultSettlementTrigger
	}
	return domain.SettlementTrigger(terms.SettlementTrigger)
}

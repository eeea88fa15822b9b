package services

import (
	"errors"
	"testing"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/core/domain"
)

func percentageTerms(percent float64) *models.BrandTerms {
	return &models.BrandTerms{
		ID:              1,
		BrandID:         1,
		CommissionType:  string(domain.CommissionPercentage),
		CommissionValue: percent,
		ContractStart:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ContractEnd:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculatePercentageCommission(t *testing.T) {
	svc := NewCommissionService()
	b := svc.Calculate(percentageTerms(10), 1000)

	if b.CommissionAmount != 100 {
		t.Fatalf("commission = %d, want 100", b.CommissionAmount)
	}
	if b.BrandPayable != 900 {
		t.Fatalf("payable = %d, want 900", b.BrandPayable)
	}
}

func TestCalculateFixedCommission(t *testing.T) {
	svc := NewCommissionService()
	terms := percentageTerms(0)
	terms.CommissionType = string(domain.CommissionFixed)
	terms.CommissionValue = 150 // cents

	b := svc.Calculate(terms, 1000)
	if b.CommissionAmount != 150 {
		t.Fatalf("commission = %d, want 150", b.CommissionAmount)
	}
	if b.BrandPayable != 850 {
		t.Fatalf("payable = %d, want 850", b.BrandPayable)
	}
}

func TestCalculateCommissionClamped(t *testing.T) {
	svc := NewCommissionService()
	terms := percentageTerms(0)
	terms.CommissionType = string(domain.CommissionFixed)
	terms.CommissionValue = 5000 // exceeds the amount

	b := svc.Calculate(terms, 1000)
	if b.CommissionAmount != 1000 {
		t.Fatalf("commission = %d, want clamped to 1000", b.CommissionAmount)
	}
	if b.BrandPayable != 0 {
		t.Fatalf("payable = %d, want 0", b.BrandPayable)
	}
}

func TestCalculateWithVatAndBrokerage(t *testing.T) {
	svc := NewCommissionService()
	terms := percentageTerms(10)
	terms.Discount = 100
	terms.VatRate = 7
	terms.BrokeragePolicy = string(domain.BrokerageShare)
	terms.BrokerageShare = 2

	b := svc.Calculate(terms, 1000)

	if b.DiscountedAmount != 900 {
		t.Fatalf("discounted = %d, want 900", b.DiscountedAmount)
	}
	if b.CommissionAmount != 100 {
		t.Fatalf("commission = %d, want 100", b.CommissionAmount)
	}
	if b.VatAmount != 63 { // 7% of 900
		t.Fatalf("vat = %d, want 63", b.VatAmount)
	}
	if b.BrokerageAmount != 18 { // 2% of 900
		t.Fatalf("brokerage = %d, want 18", b.BrokerageAmount)
	}

	// conservation: every cent is accounted for, no drift
	want := b.DiscountedAmount - b.CommissionAmount - b.BrokerageAmount + b.VatAmount
	if b.BrandPayable != want {
		t.Fatalf("payable = %d, conservation wants %d", b.BrandPayable, want)
	}
}

func TestCalculateBrokerageRetained(t *testing.T) {
	svc := NewCommissionService()
	terms := percentageTerms(10)
	terms.BrokeragePolicy = string(domain.BrokerageRetain)
	terms.BrokerageShare = 5 // set but policy retains

	b := svc.Calculate(terms, 1000)
	if b.BrokerageAmount != 0 {
		t.Fatalf("brokerage = %d, want 0 under RETAIN", b.BrokerageAmount)
	}
}

func TestCalculateDiscountFloorsAtZero(t *testing.T) {
	svc := NewCommissionService()
	terms := percentageTerms(10)
	terms.Discount = 5000

	b := svc.Calculate(terms, 1000)
	if b.DiscountedAmount != 0 {
		t.Fatalf("discounted = %d, want 0", b.DiscountedAmount)
	}
}

func TestActiveTermsNoneCovering(t *testing.T) {
	svc := NewCommissionService()
	terms := percentageTerms(10)

	_, err := svc.ActiveTerms([]*models.BrandTerms{terms}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrNoActiveTerms) {
		t.Fatalf("want ErrNoActiveTerms, got %v", err)
	}

	_, err = svc.ActiveTerms(nil, time.Now())
	if !errors.Is(err, domain.ErrNoActiveTerms) {
		t.Fatalf("empty list: want ErrNoActiveTerms, got %v", err)
	}
}

func TestActiveTermsOverlapPrefersMostRecentStart(t *testing.T) {
	svc := NewCommissionService()

	older := percentageTerms(10)
	older.ID = 1
	older.ContractStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newer := percentageTerms(12)
	newer.ID = 2
	newer.ContractStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	active, err := svc.ActiveTerms([]*models.BrandTerms{older, newer}, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ActiveTerms: %v", err)
	}
	if active.ID != newer.ID {
		t.Fatalf("active = #%d, want the most recently started #%d", active.ID, newer.ID)
	}

	// before the newer window opens, the older one governs
	active, err = svc.ActiveTerms([]*models.BrandTerms{older, newer}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ActiveTerms: %v", err)
	}
	if active.ID != older.ID {
		t.Fatalf("active = #%d, want #%d", active.ID, older.ID)
	}
}

func TestTriggerDefault(t *testing.T) {
	svc := NewCommissionService()

	terms := percentageTerms(10)
	if got := svc.Trigger(terms); got != domain.TriggerOnRedemption {
		t.Fatalf("default trigger = %s, want ON_REDEMPTION", got)
	}

	terms.SettlementTrigger = string(domain.TriggerOnPurchase)
	if got := svc.Trigger(terms); got != domain.TriggerOnPurchase {
		t.Fatalf("trigger = %s, want ON_PURCHASE", got)
	}
}

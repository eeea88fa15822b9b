package services

import (
	"errors"
	"testing"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/core/domain"
)

func staticVoucher() *models.Voucher {
	return &models.Voucher{
		BrandID:            1,
		Name:               "Gift Card",
		DenominationType:   string(domain.DenominationStatic),
		Denominations:      "[1000,2500,5000]",
		ExpiryPolicy:       string(domain.ExpiryFixedDay),
		ExpiryValue:        "30",
		RedemptionChannels: "ONLINE,IN_STORE",
	}
}

func TestValidateAmountStatic(t *testing.T) {
	svc := NewPolicyService()
	voucher := staticVoucher()

	if err := svc.ValidateAmount(voucher, 2500); err != nil {
		t.Fatalf("allowed amount rejected: %v", err)
	}
	if err := svc.ValidateAmount(voucher, 3000); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestValidateAmountRange(t *testing.T) {
	svc := NewPolicyService()
	min, max := int64(500), int64(10000)
	voucher := &models.Voucher{
		DenominationType:   string(domain.DenominationRange),
		MinAmount:          &min,
		MaxAmount:          &max,
		ExpiryPolicy:       string(domain.ExpiryFixedDay),
		ExpiryValue:        "30",
		RedemptionChannels: "ONLINE",
	}

	if err := svc.ValidateAmount(voucher, 500); err != nil {
		t.Fatalf("lower bound rejected: %v", err)
	}
	if err := svc.ValidateAmount(voucher, 10000); err != nil {
		t.Fatalf("upper bound rejected: %v", err)
	}
	if err := svc.ValidateAmount(voucher, 499); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("below range: want ErrInvalidAmount, got %v", err)
	}
	if err := svc.ValidateAmount(voucher, 10001); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("above range: want ErrInvalidAmount, got %v", err)
	}
}

func TestComputeExpiryFixedDayWithGrace(t *testing.T) {
	svc := NewPolicyService()
	voucher := staticVoucher()
	voucher.ExpiryValue = "30"
	voucher.GraceDays = 5

	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expires, err := svc.ComputeExpiry(voucher, issued)
	if err != nil {
		t.Fatalf("ComputeExpiry: %v", err)
	}
	want := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	if !expires.Equal(want) {
		t.Fatalf("expires = %v, want %v", expires, want)
	}
}

func TestComputeExpiryEndOfMonth(t *testing.T) {
	svc := NewPolicyService()
	voucher := staticVoucher()
	voucher.ExpiryPolicy = string(domain.ExpiryEndOfMonth)
	voucher.ExpiryValue = "eom"
	voucher.GraceDays = 0

	issued := time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)
	expires, err := svc.ComputeExpiry(voucher, issued)
	if err != nil {
		t.Fatalf("ComputeExpiry: %v", err)
	}
	want := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	if !expires.Equal(want) {
		t.Fatalf("expires = %v, want %v", expires, want)
	}
}

func TestComputeExpiryAbsoluteDate(t *testing.T) {
	svc := NewPolicyService()
	voucher := staticVoucher()
	voucher.ExpiryPolicy = string(domain.ExpiryAbsoluteDate)
	voucher.ExpiryValue = "2024-06-30"
	voucher.GraceDays = 2

	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expires, err := svc.ComputeExpiry(voucher, issued)
	if err != nil {
		t.Fatalf("ComputeExpiry: %v", err)
	}
	want := time.Date(2024, 7, 2, 23, 59, 59, 0, time.UTC)
	if !expires.Equal(want) {
		t.Fatalf("expires = %v, want %v", expires, want)
	}
}

func TestComputeExpiryBadConfiguration(t *testing.T) {
	svc := NewPolicyService()

	voucher := staticVoucher()
	voucher.ExpiryValue = "not-a-number"
	if _, err := svc.ComputeExpiry(voucher, time.Now()); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}

	voucher = staticVoucher()
	voucher.ExpiryValue = "0"
	if _, err := svc.ComputeExpiry(voucher, time.Now()); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("zero days: want ErrConfiguration, got %v", err)
	}

	voucher = staticVoucher()
	voucher.GraceDays = -1
	if _, err := svc.ComputeExpiry(voucher, time.Now()); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("negative grace: want ErrConfiguration, got %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	svc := NewPolicyService()

	if err := svc.ValidateConfig(staticVoucher()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	voucher := staticVoucher()
	voucher.Denominations = "[]"
	if err := svc.ValidateConfig(voucher); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("empty denominations: want ErrConfiguration, got %v", err)
	}

	voucher = staticVoucher()
	voucher.RedemptionChannels = ""
	if err := svc.ValidateConfig(voucher); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("no channels: want ErrConfiguration, got %v", err)
	}

	voucher = staticVoucher()
	voucher.Denominations = "[0]"
	if err := svc.ValidateConfig(voucher); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("non-positive denomination: want ErrConfiguration, got %v", err)
	}
}

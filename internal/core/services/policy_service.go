package services

import (
	"strconv"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/core/domain"
)

// PolicyService evaluates a voucher template's amount and expiry rules.
// Pure computation: no storage access, fully deterministic.
type PolicyService struct{}

// NewPolicyService creates a new policy service
func NewPolicyService() *PolicyService {
	return &PolicyService{}
}

// ValidateAmount checks a requested face value against the template's
// denomination policy
func (s *PolicyService) ValidateAmount(voucher *models.Voucher, amount domain.Cents) error {
	policy, err := voucher.DenominationPolicy()
	if err != nil {
		return err
	}
	if !policy.Allows(amount) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// ComputeExpiry derives the expiry timestamp for a voucher issued at issuedAt.
// FIXED_DAY counts days from issuance; END_OF_MONTH and ABSOLUTE_DATE are
// calendar dates and expire at the end of the computed day. Grace days
// extend every policy.
func (s *PolicyService) ComputeExpiry(voucher *models.Voucher, issuedAt time.Time) (time.Time, error) {
	grace := voucher.GraceDays
	if grace < 0 {
		return time.Time{}, domain.ErrConfiguration
	}

	switch domain.ExpiryPolicy(voucher.ExpiryPolicy) {
	case domain.ExpiryFixedDay:
		days, err := strconv.Atoi(voucher.ExpiryValue)
		if err != nil || days <= 0 {
			return time.Time{}, domain.ErrConfiguration
		}
		return issuedAt.AddDate(0, 0, days+grace), nil

	case domain.ExpiryEndOfMonth:
		last := domain.LastDayOfMonth(issuedAt).AddDate(0, 0, grace)
		return endOfDay(last), nil

	case domain.ExpiryAbsoluteDate:
		date, err := time.ParseInLocation("2006-01-02", voucher.ExpiryValue, issuedAt.Location())
		if err != nil {
			return time.Time{}, domain.ErrConfiguration
		}
		return endOfDay(date.AddDate(0, 0, grace)), nil
	}

	return time.Time{}, domain.ErrConfiguration
}

// ValidateConfig checks a template at construction time so redemption
// never runs against an unparseable configuration
func (s *PolicyService) ValidateConfig(voucher *models.Voucher) error {
	if _, err := voucher.DenominationPolicy(); err != nil {
		return err
	}
	if len(voucher.ChannelList()) == 0 {
		return domain.ErrConfiguration
	}
	if voucher.UserPerDay < 0 {
		return domain.ErrConfiguration
	}
	_, err := s.ComputeExpiry(voucher, time.Now())
	return err
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

package domain

import "errors"

// Validation errors (caller-correctable, never retried)
var (
	ErrInvalidAmount         = errors.New("amount not allowed by voucher policy")
	ErrConfiguration         = errors.New("invalid voucher configuration")
	ErrInvalidTransition     = errors.New("invalid redemption status transition")
	ErrAlreadyRedeemed       = errors.New("voucher already redeemed")
	ErrChannelNotAllowed     = errors.New("redemption channel not allowed")
	ErrRedemptionCapExceeded = errors.New("daily redemption limit reached")
)

// Business-state errors (block the operation, settlement goes to review)
var (
	ErrNoActiveTerms = errors.New("no active brand terms for timestamp")
	ErrOverpayment   = errors.New("payment exceeds outstanding amount")
)

// ErrOperationFailed wraps the underlying cause after retries are exhausted
var ErrOperationFailed = errors.New("operation failed")

// Lookup errors
var (
	ErrBrandNotFound      = errors.New("brand not found")
	ErrVoucherNotFound    = errors.New("voucher not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOccasionNotFound   = errors.New("occasion not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrBankingNotFound    = errors.New("brand banking not configured")
)

// Settlement lifecycle errors
var (
	ErrSettlementClosed    = errors.New("settlement period already closed")
	ErrSettlementNotClosed = errors.New("settlement period is still open")
	ErrInvalidContract     = errors.New("contract start must not be after contract end")
)

// businessErrors are terminal for an operation: retrying cannot change the outcome.
var businessErrors = []error{
	ErrInvalidAmount,
	ErrConfiguration,
	ErrInvalidTransition,
	ErrAlreadyRedeemed,
	ErrChannelNotAllowed,
	ErrRedemptionCapExceeded,
	ErrNoActiveTerms,
	ErrOverpayment,
	ErrBrandNotFound,
	ErrVoucherNotFound,
	ErrOrderNotFound,
	ErrOccasionNotFound,
	ErrCustomerNotFound,
	ErrSettlementNotFound,
	ErrBankingNotFound,
	ErrSettlementClosed,
	ErrSettlementNotClosed,
	ErrInvalidContract,
}

// IsBusinessError reports whether err is a business-rule failure that must
// never be retried automatically
func IsBusinessError(err error) bool {
	for _, b := range businessErrors {
		if errors.Is(err, b) {
			return true
		}
	}
	return false
}

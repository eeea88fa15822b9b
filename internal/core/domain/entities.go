package domain

// RedemptionStatus represents the lifecycle state of an order's voucher instance
type RedemptionStatus string

const (
	RedemptionIssued      RedemptionStatus = "ISSUED"
	RedemptionRedeemed    RedemptionStatus = "REDEEMED"
	RedemptionNotRedeemed RedemptionStatus = "NOT_REDEEMED"
	RedemptionExpired     RedemptionStatus = "EXPIRED"
)

// IsTerminal reports whether no further transition is allowed
func (s RedemptionStatus) IsTerminal() bool {
	return s == RedemptionRedeemed || s == RedemptionNotRedeemed || s == RedemptionExpired
}

// CommissionType represents how a brand's commission is computed
type CommissionType string

const (
	CommissionFixed      CommissionType = "FIXED"
	CommissionPercentage CommissionType = "PERCENTAGE"
)

// DefaultCommissionType applies when brand terms omit the type
const DefaultCommissionType = CommissionFixed

// SettlementTrigger represents when a brand's liability is recognized
type SettlementTrigger string

const (
	TriggerOnPurchase   SettlementTrigger = "ON_PURCHASE"
	TriggerOnRedemption SettlementTrigger = "ON_REDEMPTION"
)

// DefaultSettlementTrigger applies when brand terms omit the trigger
const DefaultSettlementTrigger = TriggerOnRedemption

// BrokeragePolicy represents the revenue-share arrangement on top of commission
type BrokeragePolicy string

const (
	BrokerageRetain BrokeragePolicy = "RETAIN"
	BrokerageShare  BrokeragePolicy = "SHARE"
)

// DefaultBrokeragePolicy applies when brand terms omit the policy
const DefaultBrokeragePolicy = BrokerageRetain

// ExpiryPolicy represents how a voucher template's expiry date is derived
type ExpiryPolicy string

const (
	ExpiryFixedDay     ExpiryPolicy = "FIXED_DAY"
	ExpiryEndOfMonth   ExpiryPolicy = "END_OF_MONTH"
	ExpiryAbsoluteDate ExpiryPolicy = "ABSOLUTE_DATE"
)

// DenominationType represents how a voucher template constrains amounts
type DenominationType string

const (
	DenominationStatic DenominationType = "STATIC"
	DenominationRange  DenominationType = "RANGE"
)

// SettlementStatus represents the state of a settlement ledger row
type SettlementStatus string

const (
	SettlementOpen     SettlementStatus = "OPEN"
	SettlementPending  SettlementStatus = "PENDING"
	SettlementPaid     SettlementStatus = "PAID"
	SettlementInReview SettlementStatus = "IN_REVIEW"
)

// SettlementFrequency represents a brand's settlement cadence
type SettlementFrequency string

const (
	FrequencyMonthly SettlementFrequency = "MONTHLY"
	FrequencyWeekly  SettlementFrequency = "WEEKLY"
)

// DefaultSettlementFrequency applies when banking omits the cadence
const DefaultSettlementFrequency = FrequencyMonthly

// SendType represents when an order is delivered to the receiver
type SendType string

const (
	SendImmediate SendType = "IMMEDIATE"
	SendScheduled SendType = "SCHEDULED"
)

// DenominationPolicy is the tagged variant behind a voucher's amount rules.
// Parsed and validated once when the template is written, so the evaluator
// never re-parses raw JSON at redemption time.
type DenominationPolicy struct {
	Type    DenominationType
	Amounts []Cents // STATIC: allowed face values
	Min     Cents   // RANGE
	Max     Cents   // RANGE
}

// Allows reports whether the requested face value satisfies the policy
func (p *DenominationPolicy) Allows(amount Cents) bool {
	switch p.Type {
	case DenominationStatic:
		for _, a := range p.Amounts {
			if a == amount {
				return true
			}
		}
		return false
	case DenominationRange:
		return amount >= p.Min && amount <= p.Max
	}
	return false
}

// CommissionBreakdown is the brand economics computed for one order
type CommissionBreakdown struct {
	Amount           Cents `json:"amount"`
	CommissionAmount Cents `json:"commission_amount"`
	DiscountedAmount Cents `json:"discounted_amount"`
	VatAmount        Cents `json:"vat_amount"`
	BrokerageAmount  Cents `json:"brokerage_amount"`
	BrandPayable     Cents `json:"brand_payable"`
}

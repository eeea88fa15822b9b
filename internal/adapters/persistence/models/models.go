package models

import (
	"encoding/json"
	"strings"
	"time"

	"giftly-backend/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Brand aggregate: Brand, BrandTerms, BrandBanking
// ============================================================

// Brand represents brands table, a merchant issuing vouchers
type Brand struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Slug      string         `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Category  string         `gorm:"size:50" json:"category"`
	LogoURL   string         `gorm:"size:255" json:"logo_url"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Terms       []BrandTerms  `gorm:"foreignKey:BrandID" json:"terms,omitempty"`
	Banking     *BrandBanking `gorm:"foreignKey:BrandID" json:"banking,omitempty"`
	Vouchers    []Voucher     `gorm:"foreignKey:BrandID" json:"vouchers,omitempty"`
	Settlements []Settlement  `gorm:"foreignKey:BrandID" json:"settlements,omitempty"`
}

func (Brand) TableName() string {
	return "brands"
}

// BrandTerms represents brand_terms table, one contractual record per window.
// CommissionValue is cents when CommissionType is FIXED, percent when PERCENTAGE.
type BrandTerms struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	BrandID           uint           `gorm:"not null;index" json:"brand_id"`
	CommissionType    string         `gorm:"size:20;not null;default:'FIXED'" json:"commission_type"`
	CommissionValue   float64        `gorm:"type:decimal(12,2);not null" json:"commission_value"`
	Discount          int64          `gorm:"not null;default:0" json:"discount"`
	OrderValue        int64          `gorm:"not null;default:0" json:"order_value"`
	ContractStart     time.Time      `gorm:"not null;index" json:"contract_start"`
	ContractEnd       time.Time      `gorm:"not null" json:"contract_end"`
	GoLiveAt          *time.Time     `json:"go_live_at"`
	Renewal           bool           `gorm:"default:false" json:"renewal"`
	SettlementTrigger string         `gorm:"size:20;not null;default:'ON_REDEMPTION'" json:"settlement_trigger"`
	BrokeragePolicy   string         `gorm:"size:20;not null;default:'RETAIN'" json:"brokerage_policy"`
	BrokerageShare    float64        `gorm:"type:decimal(5,2);default:0" json:"brokerage_share"`
	VatRate           float64        `gorm:"type:decimal(5,2);default:0" json:"vat_rate"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Brand *Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

func (BrandTerms) TableName() string {
	return "brand_terms"
}

// Covers reports whether the contract window contains ts
func (t *BrandTerms) Covers(ts time.Time) bool {
	return !ts.Before(t.ContractStart) && !ts.After(t.ContractEnd)
}

// BrandBanking represents brand_bankings table: payout destination and cadence
type BrandBanking struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	BrandID             uint           `gorm:"uniqueIndex;not null" json:"brand_id"`
	BankName            string         `gorm:"size:100" json:"bank_name"`
	AccountName         string         `gorm:"size:100" json:"account_name"`
	AccountNumber       string         `gorm:"size:50" json:"account_number"`
	IBAN                string         `gorm:"size:50" json:"iban"`
	PayoutMethod        string         `gorm:"size:30;default:'BANK_TRANSFER'" json:"payout_method"`
	SettlementFrequency string         `gorm:"size:20;not null;default:'MONTHLY'" json:"settlement_frequency"`
	DayOfMonth          int            `gorm:"not null;default:1" json:"day_of_month"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Brand *Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

func (BrandBanking) TableName() string {
	return "brand_bankings"
}

// Frequency returns the typed settlement cadence with the default applied
func (b *BrandBanking) Frequency() domain.SettlementFrequency {
	if b == nil || b.SettlementFrequency == "" {
		return domain.DefaultSettlementFrequency
	}
	return domain.SettlementFrequency(b.SettlementFrequency)
}

// ============================================================
// Voucher template
// ============================================================

// Voucher represents vouchers table, the reusable template a brand defines.
// Denominations holds a JSON array of cent amounts for STATIC templates.
type Voucher struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	BrandID            uint           `gorm:"not null;index" json:"brand_id"`
	Name               string         `gorm:"size:120;not null" json:"name"`
	DenominationType   string         `gorm:"size:20;not null" json:"denomination_type"`
	Denominations      string         `gorm:"type:text" json:"denominations,omitempty"`
	MinAmount          *int64         `json:"min_amount"`
	MaxAmount          *int64         `json:"max_amount"`
	ExpiryPolicy       string         `gorm:"size:20;not null" json:"expiry_policy"`
	ExpiryValue        string         `gorm:"size:20;not null" json:"expiry_value"`
	GraceDays          int            `gorm:"not null;default:0" json:"grace_days"`
	RedemptionChannels string         `gorm:"size:255;not null" json:"redemption_channels"`
	PartialRedemption  bool           `gorm:"default:false" json:"partial_redemption"`
	Stackable          bool           `gorm:"default:false" json:"stackable"`
	UserPerDay         int            `gorm:"not null;default:0" json:"user_per_day"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Brand *Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

// DenominationPolicy parses the template's amount rules into the typed variant
func (v *Voucher) DenominationPolicy() (*domain.DenominationPolicy, error) {
	switch domain.DenominationType(v.DenominationType) {
	case domain.DenominationStatic:
		var raw []int64
		if err := json.Unmarshal([]byte(v.Denominations), &raw); err != nil || len(raw) == 0 {
			return nil, domain.ErrConfiguration
		}
		amounts := make([]domain.Cents, 0, len(raw))
		for _, a := range raw {
			if a <= 0 {
				return nil, domain.ErrConfiguration
			}
			amounts = append(amounts, domain.Cents(a))
		}
		return &domain.DenominationPolicy{Type: domain.DenominationStatic, Amounts: amounts}, nil
	case domain.DenominationRange:
		if v.MinAmount == nil || v.MaxAmount == nil || *v.MinAmount <= 0 || *v.MinAmount > *v.MaxAmount {
			return nil, domain.ErrConfiguration
		}
		return &domain.DenominationPolicy{
			Type: domain.DenominationRange,
			Min:  domain.Cents(*v.MinAmount),
			Max:  domain.Cents(*v.MaxAmount),
		}, nil
	}
	return nil, domain.ErrConfiguration
}

// ChannelList returns the allowed redemption channels
func (v *Voucher) ChannelList() []string {
	if v.RedemptionChannels == "" {
		return nil
	}
	parts := strings.Split(v.RedemptionChannels, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AllowsChannel reports whether channel is in the template's channel list
func (v *Voucher) AllowsChannel(channel string) bool {
	for _, c := range v.ChannelList() {
		if strings.EqualFold(c, channel) {
			return true
		}
	}
	return false
}

// ============================================================
// Order (one voucher instance)
// ============================================================

// Order represents orders table, the purchase/redemption event
type Order struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	OrderNumber      string         `gorm:"size:40;uniqueIndex;not null" json:"order_number"`
	GiftCode         string         `gorm:"size:40;uniqueIndex;not null" json:"gift_code"`
	BrandID          uint           `gorm:"not null;index" json:"brand_id"`
	VoucherID        uint           `gorm:"not null;index" json:"voucher_id"`
	OccasionID       uint           `gorm:"not null" json:"occasion_id"`
	CustomerID       uint           `gorm:"not null;index" json:"customer_id"`
	ReceiverID       uint           `gorm:"not null" json:"receiver_id"`
	Amount           int64          `gorm:"not null" json:"amount"`
	TotalAmount      *int64         `json:"total_amount"`
	RedeemedAmount   *int64         `json:"redeemed_amount"`
	RedemptionStatus string         `gorm:"size:20;not null;default:'ISSUED';index" json:"redemption_status"`
	PaymentMethod    string         `gorm:"size:30" json:"payment_method"`
	DeliveryMethod   string         `gorm:"size:30" json:"delivery_method"`
	SendType         string         `gorm:"size:20;not null;default:'IMMEDIATE'" json:"send_type"`
	ScheduledAt      *time.Time     `json:"scheduled_at"`
	IssuedAt         time.Time      `gorm:"not null" json:"issued_at"`
	ExpiresAt        time.Time      `gorm:"not null;index" json:"expires_at"`
	RedeemedAt       *time.Time     `json:"redeemed_at"`
	RedeemedChannel  *string        `gorm:"size:30" json:"redeemed_channel"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Brand    *Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Voucher  *Voucher  `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	Occasion *Occasion `gorm:"foreignKey:OccasionID" json:"occasion,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Receiver *Receiver `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Status returns the typed redemption status
func (o *Order) Status() domain.RedemptionStatus {
	return domain.RedemptionStatus(o.RedemptionStatus)
}

// OrderResponse DTO
type OrderResponse struct {
	ID               uint       `json:"id"`
	OrderNumber      string     `json:"order_number"`
	GiftCode         string     `json:"gift_code"`
	BrandID          uint       `json:"brand_id"`
	BrandName        string     `json:"brand_name,omitempty"`
	VoucherID        uint       `json:"voucher_id"`
	VoucherName      string     `json:"voucher_name,omitempty"`
	OccasionName     string     `json:"occasion_name,omitempty"`
	Amount           int64      `json:"amount"`
	TotalAmount      *int64     `json:"total_amount"`
	RedeemedAmount   *int64     `json:"redeemed_amount"`
	RedemptionStatus string     `json:"redemption_status"`
	PaymentMethod    string     `json:"payment_method"`
	DeliveryMethod   string     `json:"delivery_method"`
	SendType         string     `json:"send_type"`
	IssuedAt         time.Time  `json:"issued_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	RedeemedAt       *time.Time `json:"redeemed_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (o *Order) ToResponse() *OrderResponse {
	resp := &OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		GiftCode:         o.GiftCode,
		BrandID:          o.BrandID,
		VoucherID:        o.VoucherID,
		Amount:           o.Amount,
		TotalAmount:      o.TotalAmount,
		RedeemedAmount:   o.RedeemedAmount,
		RedemptionStatus: o.RedemptionStatus,
		PaymentMethod:    o.PaymentMethod,
		DeliveryMethod:   o.DeliveryMethod,
		SendType:         o.SendType,
		IssuedAt:         o.IssuedAt,
		ExpiresAt:        o.ExpiresAt,
		RedeemedAt:       o.RedeemedAt,
		CreatedAt:        o.CreatedAt,
	}

	if o.Brand != nil {
		resp.BrandName = o.Brand.Name
	}
	if o.Voucher != nil {
		resp.VoucherName = o.Voucher.Name
	}
	if o.Occasion != nil {
		resp.OccasionName = o.Occasion.Name
	}

	return resp
}

// ============================================================
// Settlement ledger
// ============================================================

// Settlement represents settlements table: one running ledger row per
// brand per period. Written only by the settlement service.
type Settlement struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BrandID       uint       `gorm:"not null;uniqueIndex:idx_brand_period" json:"brand_id"`
	PeriodStart   time.Time  `gorm:"not null;uniqueIndex:idx_brand_period" json:"period_start"`
	PeriodEnd     time.Time  `gorm:"not null" json:"period_end"`
	TotalSold     int64      `gorm:"not null;default:0" json:"total_sold"`
	RedeemedValue int64      `gorm:"not null;default:0" json:"redeemed_value"`
	RedeemedCount int64      `gorm:"not null;default:0" json:"redeemed_count"`
	Outstanding   int64      `gorm:"not null;default:0" json:"outstanding"`
	Amount        int64      `gorm:"not null;default:0" json:"amount"`
	TotalAtClose  int64      `gorm:"not null;default:0" json:"total_at_close"`
	LastPayment   *time.Time `json:"last_payment"`
	Status        string     `gorm:"size:20;not null;default:'OPEN';index" json:"status"`
	ClosedAt      *time.Time `json:"closed_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Brand   *Brand            `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Entries []SettlementEntry `gorm:"foreignKey:SettlementID" json:"entries,omitempty"`
}

func (Settlement) TableName() string {
	return "settlements"
}

// SettlementEntry represents settlement_entries table, the per-order
// idempotence marker; the unique key stops double aggregation on replay
type SettlementEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SettlementID uint      `gorm:"not null;uniqueIndex:idx_settlement_order" json:"settlement_id"`
	OrderID      uint      `gorm:"not null;uniqueIndex:idx_settlement_order" json:"order_id"`
	Payable      int64     `gorm:"not null" json:"payable"`
	FaceValue    int64     `gorm:"not null" json:"face_value"`
	Trigger      string    `gorm:"size:20;not null" json:"trigger"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SettlementEntry) TableName() string {
	return "settlement_entries"
}

// ============================================================
// Master & contact tables
// ============================================================

// Occasion represents occasions table (Master)
type Occasion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Slug      string         `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Occasion) TableName() string {
	return "occasions"
}

// Customer represents customers table, the sending user
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"size:100;uniqueIndex" json:"email"`
	Phone     string         `gorm:"size:30" json:"phone"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// Receiver represents receivers table, the gift recipient contact
type Receiver struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"size:100" json:"email"`
	Phone     string         `gorm:"size:30" json:"phone"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Receiver) TableName() string {
	return "receivers"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Master & contacts
		&Occasion{},
		&Customer{},
		&Receiver{},
		// Brand aggregate
		&Brand{},
		&BrandTerms{},
		&BrandBanking{},
		&Voucher{},
		// Orders & settlement ledger
		&Order{},
		&Settlement{},
		&SettlementEntry{},
	)
}

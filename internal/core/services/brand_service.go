package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/core/domain"

	"gorm.io/gorm"
)

// BrandService manages the brand catalog: brands, contractual terms,
// payout banking, and voucher templates
type BrandService struct {
	brandRepo     *repositories.BrandRepository
	termsRepo     *repositories.BrandTermsRepository
	bankingRepo   *repositories.BrandBankingRepository
	voucherRepo   *repositories.VoucherRepository
	policyService *PolicyService
}

// NewBrandService creates a new brand service
func NewBrandService(
	brandRepo *repositories.BrandRepository,
	termsRepo *repositories.BrandTermsRepository,
	bankingRepo *repositories.BrandBankingRepository,
	voucherRepo *repositories.VoucherRepository,
	policyService *PolicyService,
) *BrandService {
	return &BrandService{
		brandRepo:     brandRepo,
		termsRepo:     termsRepo,
		bankingRepo:   bankingRepo,
		voucherRepo:   voucherRepo,
		policyService: policyService,
	}
}

// CreateBrandInput represents create brand input
type CreateBrandInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Slug     string `json:"slug" validate:"required,max=100"`
	Category string `json:"category,omitempty"`
	LogoURL  string `json:"logo_url,omitempty"`
}

// CreateBrand creates a new brand
func (s *BrandService) CreateBrand(ctx context.Context, input *CreateBrandInput) (*models.Brand, error) {
	brand := &models.Brand{
		Name:     input.Name,
		Slug:     strings.ToLower(input.Slug),
		Category: input.Category,
		LogoURL:  input.LogoURL,
		IsActive: true,
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}
	log.Printf("✅ Brand created: %s (#%d)", brand.Name, brand.ID)
	return brand, nil
}

// GetBrand gets a brand by ID
func (s *BrandService) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, err
	}
	return brand, nil
}

// ListBrands lists brands with pagination
func (s *BrandService) ListBrands(ctx context.Context, offset, limit int) ([]*models.Brand, int64, error) {
	return s.brandRepo.List(ctx, offset, limit)
}

// UpdateBrandInput represents update brand input
type UpdateBrandInput struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Category *string `json:"category"`
	LogoURL  *string `json:"logo_url"`
	IsActive *bool   `json:"is_active"`
}

// UpdateBrand updates a brand's mutable fields
func (s *BrandService) UpdateBrand(ctx context.Context, id uint, input *UpdateBrandInput) (*models.Brand, error) {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		brand.Name = *input.Name
	}
	if input.Category != nil {
		brand.Category = *input.Category
	}
	if input.LogoURL != nil {
		brand.LogoURL = *input.LogoURL
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// DeleteBrand soft deletes a brand; its issued orders keep redeeming
func (s *BrandService) DeleteBrand(ctx context.Context, id uint) error {
	if _, err := s.GetBrand(ctx, id); err != nil {
		return err
	}
	return s.brandRepo.Delete(ctx, id)
}

// SetTermsInput represents a new contractual terms window
type SetTermsInput struct {
	CommissionType    string    `json:"commission_type" validate:"omitempty,oneof=FIXED PERCENTAGE"`
	CommissionValue   float64   `json:"commission_value" validate:"gte=0"`
	Discount          int64     `json:"discount" validate:"gte=0"`
	OrderValue        int64     `json:"order_value" validate:"gte=0"`
	ContractStart     time.Time `json:"contract_start" validate:"required"`
	ContractEnd       time.Time `json:"contract_end" validate:"required"`
	Renewal           bool      `json:"renewal"`
	SettlementTrigger string    `json:"settlement_trigger" validate:"omitempty,oneof=ON_PURCHASE ON_REDEMPTION"`
	BrokeragePolicy   string    `json:"brokerage_policy" validate:"omitempty,oneof=RETAIN SHARE"`
	BrokerageShare    float64   `json:"brokerage_share" validate:"gte=0,lte=100"`
	VatRate           float64   `json:"vat_rate" validate:"gte=0,lte=100"`
}

// SetTerms appends a contractual terms window for a brand. Existing
// windows are never mutated; overlap resolution happens at read time.
func (s *BrandService) SetTerms(ctx context.Context, brandID uint, input *SetTermsInput) (*models.BrandTerms, error) {
	if _, err := s.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}
	if input.ContractStart.After(input.ContractEnd) {
		return nil, domain.ErrInvalidContract
	}
	if domain.CommissionType(input.CommissionType) == domain.CommissionPercentage && input.CommissionValue > 100 {
		return nil, domain.ErrInvalidContract
	}

	terms := &models.BrandTerms{
		BrandID:           brandID,
		CommissionType:    defaulted(input.CommissionType, string(domain.DefaultCommissionType)),
		CommissionValue:   input.CommissionValue,
		Discount:          input.Discount,
		OrderValue:        input.OrderValue,
		ContractStart:     input.ContractStart,
		ContractEnd:       input.ContractEnd,
		Renewal:           input.Renewal,
		SettlementTrigger: defaulted(input.SettlementTrigger, string(domain.DefaultSettlementTrigger)),
		BrokeragePolicy:   defaulted(input.BrokeragePolicy, string(domain.DefaultBrokeragePolicy)),
		BrokerageShare:    input.BrokerageShare,
		VatRate:           input.VatRate,
	}
	if err := s.termsRepo.Create(ctx, terms); err != nil {
		return nil, err
	}

	log.Printf("📝 Terms #%d set for brand #%d (%s, trigger %s)", terms.ID, brandID, terms.CommissionType, terms.SettlementTrigger)
	return terms, nil
}

// ListTerms lists a brand's terms records, newest contract first
func (s *BrandService) ListTerms(ctx context.Context, brandID uint) ([]*models.BrandTerms, error) {
	if _, err := s.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}
	return s.termsRepo.ListByBrand(ctx, brandID)
}

// SetBankingInput represents payout destination input
type SetBankingInput struct {
	BankName            string `json:"bank_name,omitempty"`
	AccountName         string `json:"account_name" validate:"required"`
	AccountNumber       string `json:"account_number,omitempty"`
	IBAN                string `json:"iban,omitempty"`
	PayoutMethod        string `json:"payout_method,omitempty"`
	SettlementFrequency string `json:"settlement_frequency" validate:"omitempty,oneof=MONTHLY WEEKLY"`
	DayOfMonth          int    `json:"day_of_month" validate:"omitempty,min=1,max=31"`
}

// SetBanking creates or replaces a brand's payout destination and
// settlement cadence
func (s *BrandService) SetBanking(ctx context.Context, brandID uint, input *SetBankingInput) (*models.BrandBanking, error) {
	if _, err := s.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}

	dayOfMonth := input.DayOfMonth
	if dayOfMonth == 0 {
		dayOfMonth = 1
	}

	banking := &models.BrandBanking{
		BrandID:             brandID,
		BankName:            input.BankName,
		AccountName:         input.AccountName,
		AccountNumber:       input.AccountNumber,
		IBAN:                input.IBAN,
		PayoutMethod:        defaulted(input.PayoutMethod, "BANK_TRANSFER"),
		SettlementFrequency: defaulted(input.SettlementFrequency, string(domain.DefaultSettlementFrequency)),
		DayOfMonth:          dayOfMonth,
	}
	if err := s.bankingRepo.Upsert(ctx, banking); err != nil {
		return nil, err
	}
	return banking, nil
}

// GetBanking gets a brand's payout destination
func (s *BrandService) GetBanking(ctx context.Context, brandID uint) (*models.BrandBanking, error) {
	banking, err := s.bankingRepo.GetByBrandID(ctx, brandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBankingNotFound
		}
		return nil, err
	}
	return banking, nil
}

// CreateVoucherInput represents voucher template input
type CreateVoucherInput struct {
	Name               string   `json:"name" validate:"required,max=120"`
	DenominationType   string   `json:"denomination_type" validate:"required,oneof=STATIC RANGE"`
	Denominations      []int64  `json:"denominations,omitempty"`
	MinAmount          *int64   `json:"min_amount"`
	MaxAmount          *int64   `json:"max_amount"`
	ExpiryPolicy       string   `json:"expiry_policy" validate:"required,oneof=FIXED_DAY END_OF_MONTH ABSOLUTE_DATE"`
	ExpiryValue        string   `json:"expiry_value" validate:"required"`
	GraceDays          int      `json:"grace_days" validate:"gte=0"`
	RedemptionChannels []string `json:"redemption_channels" validate:"required,min=1"`
	PartialRedemption  bool     `json:"partial_redemption"`
	Stackable          bool     `json:"stackable"`
	UserPerDay         int      `json:"user_per_day" validate:"gte=0"`
}

// CreateVoucher creates a voucher template. The template is rejected up
// front if its configuration would be unevaluable at redemption time.
func (s *BrandService) CreateVoucher(ctx context.Context, brandID uint, input *CreateVoucherInput) (*models.Voucher, error) {
	if _, err := s.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}

	var denominations string
	if len(input.Denominations) > 0 {
		raw, err := json.Marshal(input.Denominations)
		if err != nil {
			return nil, domain.ErrConfiguration
		}
		denominations = string(raw)
	}

	voucher := &models.Voucher{
		BrandID:            brandID,
		Name:               input.Name,
		DenominationType:   input.DenominationType,
		Denominations:      denominations,
		MinAmount:          input.MinAmount,
		MaxAmount:          input.MaxAmount,
		ExpiryPolicy:       input.ExpiryPolicy,
		ExpiryValue:        input.ExpiryValue,
		GraceDays:          input.GraceDays,
		RedemptionChannels: strings.Join(input.RedemptionChannels, ","),
		PartialRedemption:  input.PartialRedemption,
		Stackable:          input.Stackable,
		UserPerDay:         input.UserPerDay,
		IsActive:           true,
	}

	if err := s.policyService.ValidateConfig(voucher); err != nil {
		return nil, err
	}

	if err := s.voucherRepo.Create(ctx, voucher); err != nil {
		return nil, err
	}
	log.Printf("🎟️ Voucher template %s (#%d) created for brand #%d", voucher.Name, voucher.ID, brandID)
	return voucher, nil
}

// GetVoucher gets a voucher template by ID
func (s *BrandService) GetVoucher(ctx context.Context, id uint) (*models.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, err
	}
	return voucher, nil
}

// ListVouchers lists a brand's voucher templates
func (s *BrandService) ListVouchers(ctx context.Context, brandID uint) ([]*models.Voucher, error) {
	if _, err := s.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}
	return s.voucherRepo.ListByBrand(ctx, brandID)
}

// DeactivateVoucher disables a template for new orders; issued orders
// keep redeeming against it
func (s *BrandService) DeactivateVoucher(ctx context.Context, id uint) error {
	if _, err := s.GetVoucher(ctx, id); err != nil {
		return err
	}
	return s.voucherRepo.Deactivate(ctx, id)
}

func defaulted(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

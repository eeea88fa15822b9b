package services

import (
	"context"
	"testing"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(
		db,
		repositories.NewOrderRepository(db),
		repositories.NewBrandRepository(db),
		repositories.NewVoucherRepository(db),
		repositories.NewBrandTermsRepository(db),
		repositories.NewOccasionRepository(db),
		repositories.NewCustomerRepository(db),
		NewPolicyService(),
		NewCommissionService(),
		newSettlementService(db),
	)
}

func seedContacts(t *testing.T, db *gorm.DB) (*models.Occasion, *models.Customer) {
	t.Helper()
	occasion := &models.Occasion{Name: "Birthday", Slug: "birthday", IsActive: true}
	require.NoError(t, db.Create(occasion).Error)
	customer := &models.Customer{Name: "Dana", Email: "dana@example.com"}
	require.NoError(t, db.Create(customer).Error)
	return occasion, customer
}

func orderInput(brand *models.Brand, voucher *models.Voucher, occasion *models.Occasion, customer *models.Customer, amount int64) *CreateOrderInput {
	return &CreateOrderInput{
		BrandID:    brand.ID,
		VoucherID:  voucher.ID,
		OccasionID: occasion.ID,
		CustomerID: customer.ID,
		Receiver:   ReceiverInput{Name: "Sam", Email: "sam@example.com"},
		Amount:     amount,
	}
}

func TestCreateOrderIssuesVoucherInstance(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	seedTerms(t, db, brand.ID, domain.TriggerOnRedemption)
	occasion, customer := seedContacts(t, db)

	order, err := svc.Create(ctx, orderInput(brand, voucher, occasion, customer, 1000))
	require.NoError(t, err)
	require.Equal(t, string(domain.RedemptionIssued), order.RedemptionStatus)
	require.NotEmpty(t, order.OrderNumber)
	require.NotEmpty(t, order.GiftCode)
	require.NotZero(t, order.ReceiverID)

	// FIXED_DAY 30 with no grace
	wantExpiry := order.IssuedAt.AddDate(0, 0, 30)
	require.WithinDuration(t, wantExpiry, order.ExpiresAt, time.Second)

	// onRedemption brands accrue nothing at purchase time
	var count int64
	require.NoError(t, db.Model(&models.Settlement{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateOrderOnPurchaseSettlesImmediately(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	seedTerms(t, db, brand.ID, domain.TriggerOnPurchase)
	occasion, customer := seedContacts(t, db)

	order, err := svc.Create(ctx, orderInput(brand, voucher, occasion, customer, 1000))
	require.NoError(t, err)

	var settlement models.Settlement
	require.NoError(t, db.Where("brand_id = ?", brand.ID).First(&settlement).Error)
	require.Equal(t, int64(900), settlement.TotalSold) // 10% commission withheld

	var entry models.SettlementEntry
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&entry).Error)
	require.Equal(t, string(domain.TriggerOnPurchase), entry.Trigger)
}

func TestCreateOrderRejectsDisallowedAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	seedTerms(t, db, brand.ID, domain.TriggerOnRedemption)
	occasion, customer := seedContacts(t, db)

	_, err := svc.Create(ctx, orderInput(brand, voucher, occasion, customer, 777))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCreateOrderEnforcesMinimumOrderValue(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	terms := seedTerms(t, db, brand.ID, domain.TriggerOnRedemption)
	require.NoError(t, db.Model(terms).Update("order_value", 2000).Error)
	occasion, customer := seedContacts(t, db)

	_, err := svc.Create(ctx, orderInput(brand, voucher, occasion, customer, 1000))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	order, err := svc.Create(ctx, orderInput(brand, voucher, occasion, customer, 2500))
	require.NoError(t, err)
	require.Equal(t, int64(2500), order.Amount)
}

func TestCreateOrderNoTermsBlocksOnPurchaseOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	occasion, customer := seedContacts(t, db)

	// expired ON_PURCHASE contract: liability cannot be recognized
	expired := seedTerms(t, db, brand.ID, domain.TriggerOnPurchase)
	require.NoError(t, db.Model(expired).Updates(map[string]interface{}{
		"contract_start": time.Now().AddDate(-1, 0, 0),
		"contract_end":   time.Now().AddDate(0, -1, 0),
	}).Error)

	_, err := svc.Create(ctx, orderInput(brand, voucher, occasion, customer, 1000))
	require.ErrorIs(t, err, domain.ErrNoActiveTerms)
}

func TestCancelOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	order := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))

	cancelled, err := svc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, string(domain.RedemptionNotRedeemed), cancelled.RedemptionStatus)

	// terminal: a second cancel is rejected
	_, err = svc.Cancel(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreateOrderUnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	occasion, customer := seedContacts(t, db)

	input := orderInput(brand, voucher, occasion, customer, 1000)
	input.BrandID = 999
	_, err := svc.Create(ctx, input)
	require.ErrorIs(t, err, domain.ErrBrandNotFound)

	input = orderInput(brand, voucher, occasion, customer, 1000)
	input.VoucherID = 999
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, domain.ErrVoucherNotFound)

	input = orderInput(brand, voucher, occasion, customer, 1000)
	input.CustomerID = 999
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

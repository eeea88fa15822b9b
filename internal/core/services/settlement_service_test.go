package services

import (
	"context"
	"testing"
	"time"

	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSettlementService(db *gorm.DB) *SettlementService {
	return NewSettlementService(
		db,
		repositories.NewSettlementRepository(db),
		repositories.NewBrandBankingRepository(db),
		NewNotifyService(),
	)
}

func TestApplyIsIdempotentPerOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	order := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))

	now := time.Now()
	settlement, applied, err := svc.Apply(ctx, nil, order, 900, domain.TriggerOnRedemption, now)
	require.NoError(t, err)
	require.True(t, applied)

	// replaying the same order must not double-count
	again, applied, err := svc.Apply(ctx, nil, order, 900, domain.TriggerOnRedemption, now)
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, settlement.ID, again.ID)

	fresh, err := svc.GetByID(ctx, settlement.ID)
	require.NoError(t, err)
	require.Equal(t, int64(900), fresh.TotalSold)
	require.Equal(t, int64(900), fresh.Outstanding)
	require.Equal(t, int64(1), fresh.RedeemedCount)
	require.Equal(t, int64(1000), fresh.RedeemedValue)
}

func TestApplyAccumulatesAcrossOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	first := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))
	second := seedOrder(t, db, brand.ID, voucher.ID, 2500, time.Now().AddDate(0, 1, 0))

	now := time.Now()
	settlement, _, err := svc.Apply(ctx, nil, first, 900, domain.TriggerOnRedemption, now)
	require.NoError(t, err)
	other, _, err := svc.Apply(ctx, nil, second, 2250, domain.TriggerOnRedemption, now)
	require.NoError(t, err)

	// same period, same ledger row
	require.Equal(t, settlement.ID, other.ID)

	fresh, err := svc.GetByID(ctx, settlement.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3150), fresh.TotalSold)
	require.Equal(t, int64(2), fresh.RedeemedCount)
}

func TestClosePeriodFreezesTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	order := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))

	_, _, err := svc.Apply(ctx, nil, order, 900, domain.TriggerOnRedemption, time.Now())
	require.NoError(t, err)

	closed, err := svc.ClosePeriod(ctx, brand.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, closed, 1)

	row := closed[0]
	require.Equal(t, string(domain.SettlementPending), row.Status)
	require.Equal(t, row.TotalSold, row.TotalAtClose)
	require.NotNil(t, row.ClosedAt)

	// closing again is a no-op
	closed, err = svc.ClosePeriod(ctx, brand.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, closed)

	// a closed row stops aggregating
	late := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))
	_, _, err = svc.Apply(ctx, nil, late, 900, domain.TriggerOnRedemption, row.PeriodStart.Add(time.Minute))
	require.ErrorIs(t, err, domain.ErrSettlementClosed)
}

func TestRecordPaymentFullSettles(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	order := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))

	_, _, err := svc.Apply(ctx, nil, order, 900, domain.TriggerOnRedemption, time.Now())
	require.NoError(t, err)
	closed, err := svc.ClosePeriod(ctx, brand.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, closed, 1)

	paid, err := svc.RecordPayment(ctx, closed[0].ID, &RecordPaymentInput{Amount: 900})
	require.NoError(t, err)
	require.Equal(t, string(domain.SettlementPaid), paid.Status)
	require.Equal(t, int64(0), paid.Outstanding)
	require.Equal(t, paid.TotalAtClose, paid.Amount+paid.Outstanding)
	require.NotNil(t, paid.LastPayment)
}

func TestRecordPaymentPartialKeepsPending(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	order := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))

	_, _, err := svc.Apply(ctx, nil, order, 900, domain.TriggerOnRedemption, time.Now())
	require.NoError(t, err)
	closed, err := svc.ClosePeriod(ctx, brand.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	row, err := svc.RecordPayment(ctx, closed[0].ID, &RecordPaymentInput{Amount: 400})
	require.NoError(t, err)
	require.Equal(t, string(domain.SettlementPending), row.Status)
	require.Equal(t, int64(500), row.Outstanding)
	require.Equal(t, row.TotalAtClose, row.Amount+row.Outstanding)

	row, err = svc.RecordPayment(ctx, closed[0].ID, &RecordPaymentInput{Amount: 500})
	require.NoError(t, err)
	require.Equal(t, string(domain.SettlementPaid), row.Status)
}

func TestRecordPaymentOverpaymentGoesToReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	order := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))

	_, _, err := svc.Apply(ctx, nil, order, 900, domain.TriggerOnRedemption, time.Now())
	require.NoError(t, err)
	closed, err := svc.ClosePeriod(ctx, brand.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, closed[0].ID, &RecordPaymentInput{Amount: 1200})
	require.ErrorIs(t, err, domain.ErrOverpayment)

	flagged, err := svc.GetByID(ctx, closed[0].ID)
	require.NoError(t, err)
	require.Equal(t, string(domain.SettlementInReview), flagged.Status)
	// the rejected payment must not have touched the balances
	require.Equal(t, int64(900), flagged.Outstanding)
	require.Equal(t, int64(0), flagged.Amount)

	// rows in review accept no further payments
	_, err = svc.RecordPayment(ctx, closed[0].ID, &RecordPaymentInput{Amount: 100})
	require.ErrorIs(t, err, domain.ErrOverpayment)
}

func TestRecordPaymentLifecycleGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettlementService(db)
	ctx := context.Background()

	brand := seedBrand(t, db)
	voucher := seedVoucher(t, db, brand.ID)
	order := seedOrder(t, db, brand.ID, voucher.ID, 1000, time.Now().AddDate(0, 1, 0))

	settlement, _, err := svc.Apply(ctx, nil, order, 900, domain.TriggerOnRedemption, time.Now())
	require.NoError(t, err)

	// open rows cannot be paid
	_, err = svc.RecordPayment(ctx, settlement.ID, &RecordPaymentInput{Amount: 900})
	require.ErrorIs(t, err, domain.ErrSettlementNotClosed)

	_, err = svc.ClosePeriod(ctx, brand.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, settlement.ID, &RecordPaymentInput{Amount: 900})
	require.NoError(t, err)

	// paid rows are final
	_, err = svc.RecordPayment(ctx, settlement.ID, &RecordPaymentInput{Amount: 1})
	require.ErrorIs(t, err, domain.ErrSettlementClosed)

	// unknown rows
	_, err = svc.RecordPayment(ctx, 99999, &RecordPaymentInput{Amount: 1})
	require.ErrorIs(t, err, domain.ErrSettlementNotFound)
}

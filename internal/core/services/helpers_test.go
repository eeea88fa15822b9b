package services

import (
	"fmt"
	"testing"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/core/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int

// setupTestDB opens an isolated in-memory database with the same error
// translation the production MySQL connection uses
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBrand(t *testing.T, db *gorm.DB) *models.Brand {
	t.Helper()
	brand := &models.Brand{
		Name:     "Acme Coffee",
		Slug:     fmt.Sprintf("acme-coffee-%d", testDBSeq),
		IsActive: true,
	}
	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("create brand: %v", err)
	}
	return brand
}

func seedVoucher(t *testing.T, db *gorm.DB, brandID uint) *models.Voucher {
	t.Helper()
	voucher := &models.Voucher{
		BrandID:            brandID,
		Name:               "Coffee Card",
		DenominationType:   string(domain.DenominationStatic),
		Denominations:      "[1000,2500]",
		ExpiryPolicy:       string(domain.ExpiryFixedDay),
		ExpiryValue:        "30",
		RedemptionChannels: "ONLINE,IN_STORE",
		IsActive:           true,
	}
	if err := db.Create(voucher).Error; err != nil {
		t.Fatalf("create voucher: %v", err)
	}
	return voucher
}

func seedTerms(t *testing.T, db *gorm.DB, brandID uint, trigger domain.SettlementTrigger) *models.BrandTerms {
	t.Helper()
	terms := &models.BrandTerms{
		BrandID:           brandID,
		CommissionType:    string(domain.CommissionPercentage),
		CommissionValue:   10,
		ContractStart:     time.Now().AddDate(0, -1, 0),
		ContractEnd:       time.Now().AddDate(1, 0, 0),
		SettlementTrigger: string(trigger),
		BrokeragePolicy:   string(domain.BrokerageRetain),
	}
	if err := db.Create(terms).Error; err != nil {
		t.Fatalf("create terms: %v", err)
	}
	return terms
}

func seedOrder(t *testing.T, db *gorm.DB, brandID, voucherID uint, amount int64, expiresAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:      fmt.Sprintf("ORD-TEST-%d-%d", testDBSeq, time.Now().UnixNano()),
		GiftCode:         fmt.Sprintf("GFT-TEST-%d-%d", testDBSeq, time.Now().UnixNano()),
		BrandID:          brandID,
		VoucherID:        voucherID,
		OccasionID:       1,
		CustomerID:       1,
		ReceiverID:       1,
		Amount:           amount,
		RedemptionStatus: string(domain.RedemptionIssued),
		SendType:         string(domain.SendImmediate),
		IssuedAt:         time.Now(),
		ExpiresAt:        expiresAt,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

package services

import (
	"context"
	"log"
	"time"

	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// CronService schedules the recurring maintenance passes: the nightly
// expiry sweep and the settlement close pass. Both jobs are safe to run
// on every instance; the underlying writes are guarded.
type CronService struct {
	cron              *cron.Cron
	bankingRepo       *repositories.BrandBankingRepository
	redemptionService *RedemptionService
	settlementService *SettlementService
}

// NewCronService creates a new cron service
func NewCronService(
	bankingRepo *repositories.BrandBankingRepository,
	redemptionService *RedemptionService,
	settlementService *SettlementService,
) *CronService {
	return &CronService{
		cron:              cron.New(),
		bankingRepo:       bankingRepo,
		redemptionService: redemptionService,
		settlementService: settlementService,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// nightly: flip overdue ISSUED orders to EXPIRED
	if _, err := s.cron.AddFunc("30 2 * * *", s.runExpirySweep); err != nil {
		return err
	}

	// daily: close settlement periods that have rolled over
	if _, err := s.cron.AddFunc("0 3 * * *", s.runSettlementClose); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("⏰ Cron scheduler started (expiry sweep 02:30, settlement close 03:00)")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron scheduler stopped")
}

func (s *CronService) runExpirySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.redemptionService.SweepExpirations(ctx, time.Now()); err != nil {
		log.Printf("❌ Expiry sweep failed: %v", err)
	}
}

// runSettlementClose closes, per brand, every open settlement row whose
// period ended before the brand's current period started. Brands without
// banking keep accruing on the default cadence until configured.
func (s *CronService) runSettlementClose() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	bankings, err := s.bankingRepo.ListAll(ctx)
	if err != nil {
		log.Printf("❌ Settlement close pass failed to list bankings: %v", err)
		return
	}

	now := time.Now()
	for _, banking := range bankings {
		currentStart := domain.PeriodStartFor(banking.Frequency(), banking.DayOfMonth, now)
		closed, err := s.settlementService.ClosePeriod(ctx, banking.BrandID, currentStart)
		if err != nil {
			log.Printf("❌ Settlement close failed for brand #%d: %v", banking.BrandID, err)
			continue
		}
		if len(closed) > 0 {
			log.Printf("🧾 Closed %d settlement period(s) for brand #%d", len(closed), banking.BrandID)
		}
	}
}

package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"giftly-backend/internal/adapters/persistence/models"
)

// NotifyService emits closed settlement records to the downstream payout
// processor over a webhook. The core only produces the record; moving the
// money is the processor's job.
type NotifyService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// NewNotifyService creates a new notify service
func NewNotifyService() *NotifyService {
	url := os.Getenv("PAYOUT_WEBHOOK_URL")
	return &NotifyService{
		webhookURL: url,
		enabled:    url != "",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled checks if payout emission is enabled
func (s *NotifyService) IsEnabled() bool {
	return s.enabled
}

// settlementClosedEvent is the payload handed to the payout processor
type settlementClosedEvent struct {
	SettlementID uint       `json:"settlement_id"`
	BrandID      uint       `json:"brand_id"`
	PeriodStart  time.Time  `json:"period_start"`
	PeriodEnd    time.Time  `json:"period_end"`
	TotalAtClose int64      `json:"total_at_close"`
	Outstanding  int64      `json:"outstanding"`
	PayoutMethod string     `json:"payout_method,omitempty"`
	AccountName  string     `json:"account_name,omitempty"`
	ClosedAt     *time.Time `json:"closed_at"`
}

// EmitSettlementClosed posts the closed, immutable settlement record
func (s *NotifyService) EmitSettlementClosed(settlement *models.Settlement, banking *models.BrandBanking) {
	event := settlementClosedEvent{
		SettlementID: settlement.ID,
		BrandID:      settlement.BrandID,
		PeriodStart:  settlement.PeriodStart,
		PeriodEnd:    settlement.PeriodEnd,
		TotalAtClose: settlement.TotalAtClose,
		Outstanding:  settlement.Outstanding,
		ClosedAt:     settlement.ClosedAt,
	}
	if banking != nil {
		event.PayoutMethod = banking.PayoutMethod
		event.AccountName = banking.AccountName
	}

	if !s.enabled {
		log.Printf("📤 Settlement #%d closed for brand #%d (payout webhook disabled)", settlement.ID, settlement.BrandID)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Settlement event marshal error: %v", err)
		return
	}

	req, err := http.NewRequest("POST", s.webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("❌ Settlement webhook request error: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("❌ Settlement webhook error: %v", err)
		return
	}
	defer resp.Body.Close()

	log.Printf("📤 Settlement #%d emitted for payout [%d]", settlement.ID, resp.StatusCode)
}

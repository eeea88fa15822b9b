package handlers

import (
	"errors"
	"time"

	"giftly-backend/internal/core/domain"
	"giftly-backend/internal/core/services"
	"giftly-backend/internal/pkg/pagination"
	"giftly-backend/internal/pkg/response"
	"giftly-backend/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// SettlementHandler handles settlement ledger endpoints (service-token only)
type SettlementHandler struct {
	settlementService *services.SettlementService
	redemptionService *services.RedemptionService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlementService *services.SettlementService, redemptionService *services.RedemptionService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
		redemptionService: redemptionService,
	}
}

// Get gets a settlement row
func (h *SettlementHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid settlement id")
	}

	settlement, err := h.settlementService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSettlementNotFound) {
			return response.NotFound(c, "Settlement not found")
		}
		return response.InternalServerError(c, "Failed to get settlement")
	}

	return response.Success(c, "", fiber.Map{
		"settlement": settlement,
	})
}

// ListByBrand lists a brand's settlement rows
func (h *SettlementHandler) ListByBrand(c *fiber.Ctx) error {
	brandID, err := parseIDParam(c, "brandId")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	params := pagination.GetParams(c)
	settlements, total, err := h.settlementService.ListByBrand(c.Context(), brandID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list settlements")
	}

	return c.JSON(pagination.NewResponse(settlements, params, total))
}

// CloseRequest represents a manual period close request
type CloseRequest struct {
	BrandID   uint       `json:"brand_id" validate:"required"`
	PeriodEnd *time.Time `json:"period_end"`
}

// Close manually closes a brand's elapsed settlement periods
func (h *SettlementHandler) Close(c *fiber.Ctx) error {
	var req CloseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	periodEnd := time.Now()
	if req.PeriodEnd != nil {
		periodEnd = *req.PeriodEnd
	}

	closed, err := h.settlementService.ClosePeriod(c.Context(), req.BrandID, periodEnd)
	if err != nil {
		return response.InternalServerError(c, "Failed to close settlement period")
	}

	return response.Success(c, "Settlement periods closed", fiber.Map{
		"closed": closed,
	})
}

// RecordPayment records a disbursement against a closed settlement
func (h *SettlementHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid settlement id")
	}

	var input services.RecordPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	settlement, err := h.settlementService.RecordPayment(c.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSettlementNotFound):
			return response.NotFound(c, "Settlement not found")
		case errors.Is(err, domain.ErrSettlementNotClosed):
			return response.Conflict(c, "Settlement period is still open")
		case errors.Is(err, domain.ErrSettlementClosed):
			return response.Conflict(c, "Settlement already paid")
		case errors.Is(err, domain.ErrOverpayment):
			return response.UnprocessableEntity(c, "Payment exceeds outstanding balance")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Payment amount must be positive")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Success(c, "Payment recorded", fiber.Map{
		"settlement": settlement,
	})
}

// Sweep runs the expiry sweep on demand
func (h *SettlementHandler) Sweep(c *fiber.Ctx) error {
	expired, err := h.redemptionService.SweepExpirations(c.Context(), time.Now())
	if err != nil {
		return response.InternalServerError(c, "Failed to run expiry sweep")
	}

	return response.Success(c, "Expiry sweep completed", fiber.Map{
		"expired": expired,
	})
}

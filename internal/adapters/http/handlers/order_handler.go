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

// OrderHandler handles order and redemption endpoints
type OrderHandler struct {
	orderService      *services.OrderService
	redemptionService *services.RedemptionService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService, redemptionService *services.RedemptionService) *OrderHandler {
	return &OrderHandler{
		orderService:      orderService,
		redemptionService: redemptionService,
	}
}

// Create purchases a voucher instance
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	order, err := h.orderService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBrandNotFound):
			return response.NotFound(c, "Brand not found")
		case errors.Is(err, domain.ErrVoucherNotFound):
			return response.NotFound(c, "Voucher not found")
		case errors.Is(err, domain.ErrOccasionNotFound):
			return response.NotFound(c, "Occasion not found")
		case errors.Is(err, domain.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.UnprocessableEntity(c, "Amount not allowed by voucher")
		case errors.Is(err, domain.ErrConfiguration):
			return response.UnprocessableEntity(c, "Voucher configuration invalid")
		case errors.Is(err, domain.ErrNoActiveTerms):
			return response.UnprocessableEntity(c, "No active brand terms")
		default:
			return response.InternalServerError(c, "Failed to create order")
		}
	}

	return response.Created(c, "Order created successfully", fiber.Map{
		"order": order.ToResponse(),
	})
}

// Redeem applies a redemption attempt against an order
func (h *OrderHandler) Redeem(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	var input services.RedeemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.redemptionService.ProcessRedemption(c.Context(), orderID, &input, time.Now())
	if err != nil {
		return redemptionError(c, err)
	}

	return response.Success(c, "Order redeemed successfully", fiber.Map{
		"redemption": result,
	})
}

// RedeemByCode resolves a gift code and redeems its order
func (h *OrderHandler) RedeemByCode(c *fiber.Ctx) error {
	var input services.RedeemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.GiftCode == "" {
		return response.BadRequest(c, "Gift code is required")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.redemptionService.ProcessRedemptionByCode(c.Context(), &input, time.Now())
	if err != nil {
		return redemptionError(c, err)
	}

	return response.Success(c, "Order redeemed successfully", fiber.Map{
		"redemption": result,
	})
}

// redemptionError maps redemption failures onto HTTP statuses
func redemptionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return response.NotFound(c, "Order not found")
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return response.Conflict(c, "Order already redeemed")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, "Order is not redeemable")
	case errors.Is(err, domain.ErrChannelNotAllowed):
		return response.UnprocessableEntity(c, "Channel not allowed for this voucher")
	case errors.Is(err, domain.ErrRedemptionCapExceeded):
		return response.UnprocessableEntity(c, "Daily redemption cap reached")
	case errors.Is(err, domain.ErrInvalidAmount):
		return response.UnprocessableEntity(c, "Redemption amount not allowed")
	case errors.Is(err, domain.ErrNoActiveTerms):
		return response.UnprocessableEntity(c, "No active brand terms")
	case errors.Is(err, domain.ErrVoucherNotFound):
		return response.NotFound(c, "Voucher not found")
	default:
		return response.InternalServerError(c, "Failed to redeem order")
	}
}

// Cancel administratively closes an issued order
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	order, err := h.orderService.Cancel(c.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return response.NotFound(c, "Order not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Order is not cancellable")
		default:
			return response.InternalServerError(c, "Failed to cancel order")
		}
	}

	return response.Success(c, "Order cancelled", fiber.Map{
		"order": order.ToResponse(),
	})
}

// Get gets an order by ID
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	order, err := h.orderService.GetByID(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to get order")
	}

	return response.Success(c, "", fiber.Map{
		"order": order.ToResponse(),
	})
}

// GetByCode gets an order by gift code
func (h *OrderHandler) GetByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return response.BadRequest(c, "Gift code is required")
	}

	order, err := h.orderService.GetByGiftCode(c.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to get order")
	}

	return response.Success(c, "", fiber.Map{
		"order": order.ToResponse(),
	})
}

// List lists orders with optional brand/status filters
func (h *OrderHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var brandID *uint
	if id := c.QueryInt("brand_id"); id > 0 {
		v := uint(id)
		brandID = &v
	}
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	orders, total, err := h.orderService.List(c.Context(), brandID, status, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list orders")
	}

	out := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ToResponse())
	}

	return c.JSON(pagination.NewResponse(out, params, total))
}

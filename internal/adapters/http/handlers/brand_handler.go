package handlers

import (
	"errors"
	"strconv"

	"giftly-backend/internal/core/domain"
	"giftly-backend/internal/core/services"
	"giftly-backend/internal/pkg/pagination"
	"giftly-backend/internal/pkg/response"
	"giftly-backend/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// BrandHandler handles brand catalog endpoints
type BrandHandler struct {
	brandService *services.BrandService
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(brandService *services.BrandService) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
	}
}

// parseIDParam reads a :param path segment as uint
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// Create creates a new brand
func (h *BrandHandler) Create(c *fiber.Ctx) error {
	var input services.CreateBrandInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	brand, err := h.brandService.CreateBrand(c.Context(), &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create brand")
	}

	return response.Created(c, "Brand created successfully", fiber.Map{
		"brand": brand,
	})
}

// Get gets a brand by ID
func (h *BrandHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	brand, err := h.brandService.GetBrand(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			return response.NotFound(c, "Brand not found")
		}
		return response.InternalServerError(c, "Failed to get brand")
	}

	return response.Success(c, "", fiber.Map{
		"brand": brand,
	})
}

// List lists brands with pagination
func (h *BrandHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	brands, total, err := h.brandService.ListBrands(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list brands")
	}

	return c.JSON(pagination.NewResponse(brands, params, total))
}

// Update updates a brand
func (h *BrandHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	var input services.UpdateBrandInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	brand, err := h.brandService.UpdateBrand(c.Context(), id, &input)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			return response.NotFound(c, "Brand not found")
		}
		return response.InternalServerError(c, "Failed to update brand")
	}

	return response.Success(c, "Brand updated successfully", fiber.Map{
		"brand": brand,
	})
}

// Delete soft deletes a brand
func (h *BrandHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	if err := h.brandService.DeleteBrand(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			return response.NotFound(c, "Brand not found")
		}
		return response.InternalServerError(c, "Failed to delete brand")
	}

	return response.Success(c, "Brand deleted", nil)
}

// SetTerms appends a contractual terms window
func (h *BrandHandler) SetTerms(c *fiber.Ctx) error {
	brandID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	var input services.SetTermsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	terms, err := h.brandService.SetTerms(c.Context(), brandID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBrandNotFound):
			return response.NotFound(c, "Brand not found")
		case errors.Is(err, domain.ErrInvalidContract):
			return response.UnprocessableEntity(c, "Invalid contract window")
		default:
			return response.InternalServerError(c, "Failed to set terms")
		}
	}

	return response.Created(c, "Terms set successfully", fiber.Map{
		"terms": terms,
	})
}

// ListTerms lists a brand's terms records
func (h *BrandHandler) ListTerms(c *fiber.Ctx) error {
	brandID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	terms, err := h.brandService.ListTerms(c.Context(), brandID)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			return response.NotFound(c, "Brand not found")
		}
		return response.InternalServerError(c, "Failed to list terms")
	}

	return response.Success(c, "", fiber.Map{
		"terms": terms,
	})
}

// SetBanking creates or replaces a brand's payout destination
func (h *BrandHandler) SetBanking(c *fiber.Ctx) error {
	brandID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	var input services.SetBankingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	banking, err := h.brandService.SetBanking(c.Context(), brandID, &input)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			return response.NotFound(c, "Brand not found")
		}
		return response.InternalServerError(c, "Failed to set banking")
	}

	return response.Success(c, "Banking set successfully", fiber.Map{
		"banking": banking,
	})
}

// GetBanking gets a brand's payout destination
func (h *BrandHandler) GetBanking(c *fiber.Ctx) error {
	brandID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	banking, err := h.brandService.GetBanking(c.Context(), brandID)
	if err != nil {
		if errors.Is(err, domain.ErrBankingNotFound) {
			return response.NotFound(c, "Banking not configured")
		}
		return response.InternalServerError(c, "Failed to get banking")
	}

	return response.Success(c, "", fiber.Map{
		"banking": banking,
	})
}

// CreateVoucher creates a voucher template
func (h *BrandHandler) CreateVoucher(c *fiber.Ctx) error {
	brandID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	var input services.CreateVoucherInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	voucher, err := h.brandService.CreateVoucher(c.Context(), brandID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBrandNotFound):
			return response.NotFound(c, "Brand not found")
		case errors.Is(err, domain.ErrConfiguration):
			return response.UnprocessableEntity(c, "Invalid voucher configuration")
		default:
			return response.InternalServerError(c, "Failed to create voucher")
		}
	}

	return response.Created(c, "Voucher created successfully", fiber.Map{
		"voucher": voucher,
	})
}

// ListVouchers lists a brand's voucher templates
func (h *BrandHandler) ListVouchers(c *fiber.Ctx) error {
	brandID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid brand id")
	}

	vouchers, err := h.brandService.ListVouchers(c.Context(), brandID)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			return response.NotFound(c, "Brand not found")
		}
		return response.InternalServerError(c, "Failed to list vouchers")
	}

	return response.Success(c, "", fiber.Map{
		"vouchers": vouchers,
	})
}

// GetVoucher gets a voucher template by ID
func (h *BrandHandler) GetVoucher(c *fiber.Ctx) error {
	voucherID, err := parseIDParam(c, "voucherId")
	if err != nil {
		return response.BadRequest(c, "Invalid voucher id")
	}

	voucher, err := h.brandService.GetVoucher(c.Context(), voucherID)
	if err != nil {
		if errors.Is(err, domain.ErrVoucherNotFound) {
			return response.NotFound(c, "Voucher not found")
		}
		return response.InternalServerError(c, "Failed to get voucher")
	}

	return response.Success(c, "", fiber.Map{
		"voucher": voucher,
	})
}

// DeactivateVoucher disables a voucher template for new orders
func (h *BrandHandler) DeactivateVoucher(c *fiber.Ctx) error {
	voucherID, err := parseIDParam(c, "voucherId")
	if err != nil {
		return response.BadRequest(c, "Invalid voucher id")
	}

	if err := h.brandService.DeactivateVoucher(c.Context(), voucherID); err != nil {
		if errors.Is(err, domain.ErrVoucherNotFound) {
			return response.NotFound(c, "Voucher not found")
		}
		return response.InternalServerError(c, "Failed to deactivate voucher")
	}

	return response.Success(c, "Voucher deactivated", nil)
}

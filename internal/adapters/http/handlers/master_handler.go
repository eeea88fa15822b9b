package handlers

import (
	"errors"

	"giftly-backend/internal/adapters/persistence/models"
	"giftly-backend/internal/adapters/persistence/repositories"
	"giftly-backend/internal/pkg/response"
	"giftly-backend/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MasterHandler handles master-data endpoints (occasions, customers)
type MasterHandler struct {
	occasionRepo repositories.OccasionRepository
	customerRepo repositories.CustomerRepository
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(occasionRepo repositories.OccasionRepository, customerRepo repositories.CustomerRepository) *MasterHandler {
	return &MasterHandler{
		occasionRepo: occasionRepo,
		customerRepo: customerRepo,
	}
}

// ListOccasions lists active gifting occasions
func (h *MasterHandler) ListOccasions(c *fiber.Ctx) error {
	occasions, err := h.occasionRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list occasions")
	}

	return response.Success(c, "", fiber.Map{
		"occasions": occasions,
	})
}

// CreateCustomerRequest represents create customer request
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty"`
}

// CreateCustomer registers a sending customer
func (h *MasterHandler) CreateCustomer(c *fiber.Ctx) error {
	var req CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	// reuse the existing record when the email is already registered
	if existing, err := h.customerRepo.GetByEmail(c.Context(), req.Email); err == nil {
		return response.Success(c, "Customer already registered", fiber.Map{
			"customer": existing,
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to create customer")
	}

	customer := &models.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := h.customerRepo.Create(c.Context(), customer); err != nil {
		return response.InternalServerError(c, "Failed to create customer")
	}

	return response.Created(c, "Customer created successfully", fiber.Map{
		"customer": customer,
	})
}

// GetCustomer gets a customer by ID
func (h *MasterHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid customer id")
	}

	customer, err := h.customerRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Customer not found")
		}
		return response.InternalServerError(c, "Failed to get customer")
	}

	return response.Success(c, "", fiber.Map{
		"customer": customer,
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samraify/multicore-crm-new/internal/api/dto"
	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/service"
	apperrors "github.com/samraify/multicore-crm-new/pkg/util"
)

// BusinessesHandler manages tenant provisioning endpoints.
type BusinessesHandler struct {
	service *service.BusinessService
}

// NewBusinessesHandler constructs handler.
func NewBusinessesHandler(businessService *service.BusinessService) *BusinessesHandler {
	return &BusinessesHandler{service: businessService}
}

// CreateBusiness POST /api/businesses.
func (h *BusinessesHandler) CreateBusiness(c *fiber.Ctx) error {
	var req dto.CreateBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	business, err := h.service.CreateBusiness(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": businessResponse(business)})
}

// GetBusiness GET /api/businesses/:id.
func (h *BusinessesHandler) GetBusiness(c *fiber.Ctx) error {
	business, err := h.service.GetBusiness(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": businessResponse(business)})
}

func businessResponse(business *domain.Business) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:        business.ID,
		Name:      business.Name,
		Active:    business.Active,
		CreatedAt: business.CreatedAt,
	}
}

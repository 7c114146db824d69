package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-maintenance/internal/api/dto"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/service"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// InspectionsHandler records and lists vehicle inspections.
type InspectionsHandler struct {
	inspections *service.InspectionService
}

// NewInspectionsHandler constructs handler.
func NewInspectionsHandler(inspectionService *service.InspectionService) *InspectionsHandler {
	return &InspectionsHandler{inspections: inspectionService}
}

// Create POST /inspections.
func (h *InspectionsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateInspectionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	inspection, err := h.inspections.Record(c.UserContext(), actor, service.InspectionInput{
		VehicleID: req.VehicleID,
		Notes:     req.Notes,
		Images: domain.InspectionImages{
			Front: req.Images.Front,
			Back:  req.Images.Back,
			Left:  req.Images.Left,
			Right: req.Images.Right,
		},
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": inspectionResponse(inspection)})
}

// ListByVehicle GET /vehicles/:vehicleId/inspections.
func (h *InspectionsHandler) ListByVehicle(c *fiber.Ctx) error {
	limit := parseIntParam(c.Query("limit"), 50)
	inspections, err := h.inspections.ListByVehicle(c.UserContext(), c.Params("vehicleId"), limit)
	if err != nil {
		return err
	}
	items := make([]dto.InspectionResponse, 0, len(inspections))
	for i := range inspections {
		items = append(items, inspectionResponse(&inspections[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func inspectionResponse(inspection *domain.Inspection) dto.InspectionResponse {
	resp := dto.InspectionResponse{
		ID:        inspection.ID,
		VehicleID: inspection.VehicleID,
		Notes:     inspection.Notes,
		CreatedAt: inspection.CreatedAt,
	}
	resp.Images.Front = inspection.Images.Front
	resp.Images.Back = inspection.Images.Back
	resp.Images.Left = inspection.Images.Left
	resp.Images.Right = inspection.Images.Right
	return resp
}

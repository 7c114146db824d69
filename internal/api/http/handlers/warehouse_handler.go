package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-maintenance/internal/api/dto"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/service"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// WarehouseHandler manages the spare-parts catalog and replenishment report.
type WarehouseHandler struct {
	inventory *service.InventoryService
	analytics *service.AnalyticsService
}

// NewWarehouseHandler constructs handler.
func NewWarehouseHandler(inventoryService *service.InventoryService, analyticsService *service.AnalyticsService) *WarehouseHandler {
	return &WarehouseHandler{inventory: inventoryService, analytics: analyticsService}
}

// ListParts GET /warehouse/parts.
func (h *WarehouseHandler) ListParts(c *fiber.Ctx) error {
	parts, err := h.inventory.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SparePartResponse, 0, len(parts))
	for i := range parts {
		items = append(items, sparePartResponse(&parts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreatePart POST /warehouse/parts.
func (h *WarehouseHandler) CreatePart(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.SparePartRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	part, err := h.inventory.Create(c.UserContext(), actor, sparePartFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": sparePartResponse(part)})
}

// UpdatePart PUT /warehouse/parts/:sapCode.
func (h *WarehouseHandler) UpdatePart(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.SparePartRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.SAPCode = c.Params("sapCode")
	part, err := h.inventory.Update(c.UserContext(), actor, sparePartFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sparePartResponse(part)})
}

// ImportParts POST /warehouse/parts/import replaces the whole catalog.
func (h *WarehouseHandler) ImportParts(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.ImportInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	parts := make([]domain.SparePart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, sparePartFromRequest(p))
	}
	if err := h.inventory.Import(c.UserContext(), actor, parts); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"imported": len(parts)}})
}

// Replenishment GET /warehouse/replenishment?year=&month=.
func (h *WarehouseHandler) Replenishment(c *fiber.Ctx) error {
	now := time.Now()
	year := parseIntParam(c.Query("year"), now.Year())
	monthNum := parseIntParam(c.Query("month"), int(now.Month()))
	if monthNum < 1 || monthNum > 12 {
		return apperrors.NewValidationError("month must be between 1 and 12", map[string]any{"month": monthNum})
	}
	lines, err := h.analytics.Replenishment(c.UserContext(), year, time.Month(monthNum))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": lines, "year": year, "month": monthNum})
}

func sparePartFromRequest(req dto.SparePartRequest) domain.SparePart {
	return domain.SparePart{
		SAPCode:             req.SAPCode,
		MaterialDescription: req.MaterialDescription,
		DescriptionAr:       req.DescriptionAr,
		Location:            req.Location,
		Dept:                req.Dept,
		UOM:                 req.UOM,
		BalanceOnSAP:        req.BalanceOnSAP,
	}
}

func sparePartResponse(part *domain.SparePart) dto.SparePartResponse {
	return dto.SparePartResponse{
		SAPCode:             part.SAPCode,
		MaterialDescription: part.MaterialDescription,
		DescriptionAr:       part.DescriptionAr,
		Location:            part.Location,
		Dept:                part.Dept,
		UOM:                 part.UOM,
		BalanceOnSAP:        part.BalanceOnSAP,
	}
}

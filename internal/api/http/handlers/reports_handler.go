package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/service"
)

// ReportsHandler serves dashboard counts and fleet history.
type ReportsHandler struct {
	analytics *service.AnalyticsService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(analyticsService *service.AnalyticsService) *ReportsHandler {
	return &ReportsHandler{analytics: analyticsService}
}

// Dashboard GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	counts, err := h.analytics.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// History GET /reports/history lists closed tickets, filterable by vehicle,
// section, technician, and creation date range.
func (h *ReportsHandler) History(c *fiber.Ctx) error {
	query := service.HistoryQuery{
		VehicleID:  c.Query("vehicle_id"),
		Section:    domain.TicketSection(strings.ToUpper(c.Query("section"))),
		Technician: c.Query("technician"),
		From:       parseTimeParam(c.Query("from")),
		To:         parseTimeParam(c.Query("to")),
		Limit:      parseIntParam(c.Query("limit"), 100),
	}
	tickets, err := h.analytics.History(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

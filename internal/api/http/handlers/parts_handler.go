package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/service"
)

// PartsHandler covers the spares-admin and warehouse sides of the part
// request sub-flow.
type PartsHandler struct {
	tickets *service.TicketService
	parts   *service.PartsService
}

// NewPartsHandler constructs handler.
func NewPartsHandler(ticketService *service.TicketService, partsService *service.PartsService) *PartsHandler {
	return &PartsHandler{tickets: ticketService, parts: partsService}
}

// SparesQueue GET /spares/queue lists tickets whose part request awaits the
// spares admin.
func (h *PartsHandler) SparesQueue(c *fiber.Ctx) error {
	tickets, err := h.tickets.List(c.UserContext(), service.TicketListInput{
		Statuses: []domain.TicketStatus{domain.TicketStatusAwaitingParts},
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Approve POST /spares/tickets/:id/approve.
func (h *PartsHandler) Approve(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.parts.Approve(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Reject POST /spares/tickets/:id/reject.
func (h *PartsHandler) Reject(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.parts.Reject(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// WarehouseQueue GET /warehouse/queue lists approved and issued requests the
// warehouse still owns.
func (h *PartsHandler) WarehouseQueue(c *fiber.Ctx) error {
	tickets, err := h.tickets.List(c.UserContext(), service.TicketListInput{
		Statuses: []domain.TicketStatus{domain.TicketStatusAwaitingWarehouse},
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Issue POST /warehouse/tickets/:id/issue.
func (h *PartsHandler) Issue(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.parts.Issue(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// RejectByWarehouse POST /warehouse/tickets/:id/reject.
func (h *PartsHandler) RejectByWarehouse(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.parts.RejectByWarehouse(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// CompleteHandover POST /warehouse/tickets/:id/handover.
func (h *PartsHandler) CompleteHandover(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.parts.CompleteHandover(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

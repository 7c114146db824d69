package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-maintenance/internal/api/dto"
	"github.com/spec-kit/fleet-maintenance/internal/auth"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/service"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	parts   *service.PartsService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, partsService *service.PartsService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, parts: partsService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Create(c.UserContext(), actor, service.TicketCreateInput{
		VehicleID:  req.VehicleID,
		Issue:      req.Issue,
		ReportedBy: req.ReportedBy,
		Section:    req.Section,
		Kilometers: req.Kilometers,
		Priority:   req.Priority,
		Location:   req.Location,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AddHistorical POST /tickets/historical.
func (h *TicketsHandler) AddHistorical(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.HistoricalTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.AddHistorical(c.UserContext(), actor, service.HistoricalTicketInput{
		VehicleID:     req.VehicleID,
		Issue:         req.Issue,
		WorkDoneNotes: req.WorkDoneNotes,
		Section:       req.Section,
		Kilometers:    req.Kilometers,
		RepairedAt:    req.RepairedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.tickets.List(c.UserContext(), parseTicketListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignTechnicians POST /tickets/:id/technicians.
func (h *TicketsHandler) AssignTechnicians(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.AssignTechniciansRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.AssignTechnicians(c.UserContext(), actor, c.Params("id"), req.Technicians)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// StartWork POST /tickets/:id/start.
func (h *TicketsHandler) StartWork(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.StartWork(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// FinishWork POST /tickets/:id/finish.
func (h *TicketsHandler) FinishWork(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.FinishWorkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.FinishWork(c.UserContext(), actor, c.Params("id"), req.WorkDoneNotes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Confirm POST /tickets/:id/confirm.
func (h *TicketsHandler) Confirm(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Confirm(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// RequestParts POST /tickets/:id/parts.
func (h *TicketsHandler) RequestParts(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.RequestPartsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.parts.Request(c.UserContext(), actor, c.Params("id"), req.Parts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// MarkNoPartsRequired POST /tickets/:id/parts/none.
func (h *TicketsHandler) MarkNoPartsRequired(c *fiber.Ctx) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.parts.MarkNoPartsRequired(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

func requireUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return user, nil
}

func parseTicketListQuery(c *fiber.Ctx) service.TicketListInput {
	input := service.TicketListInput{}
	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		input.VehicleID = &vehicleID
	}
	if sectionStr := c.Query("section"); sectionStr != "" {
		section := domain.TicketSection(strings.ToUpper(strings.TrimSpace(sectionStr)))
		input.Section = &section
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			input.Statuses = append(input.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			input.Priorities = append(input.Priorities, domain.TicketPriority(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if technician := c.Query("technician"); technician != "" {
		input.Technician = &technician
	}
	if from := parseTimeParam(c.Query("created_from")); from != nil {
		input.CreatedFrom = from
	}
	if to := parseTimeParam(c.Query("created_to")); to != nil {
		input.CreatedTo = to
	}
	page := parseIntParam(c.Query("page"), 1)
	pageSize := parseIntParam(c.Query("page_size"), 50)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input
}

func parseTimeParam(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseIntParam(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:            ticket.ID,
		Serial:        ticket.Serial,
		VehicleID:     ticket.VehicleID,
		Issue:         ticket.Issue,
		ReportedBy:    ticket.ReportedBy,
		Section:       ticket.Section,
		Priority:      ticket.Priority,
		Kilometers:    ticket.Kilometers,
		Location:      ticket.Location,
		AssignedTo:    ticket.AssignedTo,
		WorkDoneNotes: ticket.WorkDoneNotes,
		Status:        ticket.Status(),
		Historical:    ticket.IsHistorical(),
		CreatedAt:     ticket.CreatedAt,
		StartedAt:     ticket.StartedAt,
		ClosedAt:      ticket.ClosedAt,
		ConfirmedAt:   ticket.ConfirmedAt,
	}
	if pr := ticket.PartRequest; pr != nil {
		resp.PartRequest = &dto.PartRequestResponse{
			Serial:               pr.Serial,
			Parts:                pr.Parts,
			Status:               pr.Status,
			RequestedAt:          pr.RequestedAt,
			AdminResolvedAt:      pr.AdminResolvedAt,
			WarehouseResolvedAt:  pr.WarehouseResolvedAt,
			WarehouseCompletedAt: pr.WarehouseCompletedAt,
		}
	}
	return resp
}

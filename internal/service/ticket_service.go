package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fleet-maintenance/internal/auth"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/events"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// TicketService is the ticket lifecycle engine: creation, assignment, the
// start/finish/confirm transitions, and historical imports. The parts
// sub-flow lives in PartsService; both share the same per-ticket locks.
type TicketService struct {
	tickets     repository.TicketRepository
	vehicles    repository.VehicleRepository
	inspections repository.InspectionRepository
	dispatcher  events.Dispatcher
	locks       *TicketLocks
}

// TicketDependencies bundles collaborators for the lifecycle engine.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	VehicleRepo    repository.VehicleRepository
	InspectionRepo repository.InspectionRepository
	Dispatcher     events.Dispatcher
	Locks          *TicketLocks
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	VehicleID  string
	Issue      string
	ReportedBy string
	Section    domain.TicketSection
	Kilometers int
	Priority   domain.TicketPriority
	Location   *string
}

// HistoricalTicketInput describes a backdated maintenance record.
type HistoricalTicketInput struct {
	VehicleID     string
	Issue         string
	WorkDoneNotes string
	Section       domain.TicketSection
	Kilometers    int
	RepairedAt    time.Time
}

// TicketListInput describes listing filters.
type TicketListInput struct {
	VehicleID   *string
	Section     *domain.TicketSection
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Technician  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		vehicles:    deps.VehicleRepo,
		inspections: deps.InspectionRepo,
		dispatcher:  deps.Dispatcher,
		locks:       deps.Locks,
	}
}

// Create opens a new ticket for a vehicle.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpCreateTicket); err != nil {
		return nil, err
	}

	input.Issue = strings.TrimSpace(input.Issue)
	input.ReportedBy = strings.TrimSpace(input.ReportedBy)
	if input.VehicleID == "" || input.Issue == "" || input.ReportedBy == "" {
		return nil, apperrors.NewValidationError("vehicle_id, issue and reported_by are required", nil)
	}
	if !domain.ValidSection(input.Section) {
		return nil, apperrors.NewValidationError("unknown section", map[string]any{"section": input.Section})
	}
	if input.Kilometers < 0 {
		return nil, apperrors.NewValidationError("kilometers must not be negative", map[string]any{"kilometers": input.Kilometers})
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	vehicle, err := s.vehicles.GetByID(ctx, input.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("vehicle", map[string]any{"vehicle_id": input.VehicleID})
		}
		return nil, apperrors.MapError(err)
	}
	if input.Kilometers == 0 {
		input.Kilometers = vehicle.CurrentKilometers
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ID:         uuid.NewString(),
		Serial:     generateTicketSerial(now),
		VehicleID:  input.VehicleID,
		Issue:      input.Issue,
		ReportedBy: input.ReportedBy,
		Section:    input.Section,
		Priority:   input.Priority,
		Kilometers: input.Kilometers,
		Location:   input.Location,
		AssignedTo: []string{},
		CreatedAt:  now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.Kilometers > vehicle.CurrentKilometers {
		vehicle.CurrentKilometers = input.Kilometers
		if err := s.vehicles.Upsert(ctx, vehicle); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if err := s.publish(ctx, actor, ticket, events.EventTicketCreated, events.TicketCreatedPayload{
		Section:  ticket.Section,
		Priority: ticket.Priority,
		Issue:    ticket.Issue,
	}); err != nil {
		return nil, err
	}
	return ticket, nil
}

// AddHistorical inserts a backdated, already-confirmed maintenance record.
// It bypasses the live workflow gates: all lifecycle timestamps collapse to
// the repair date, so the derived status is Closed from the first write.
func (s *TicketService) AddHistorical(ctx context.Context, actor *domain.User, input HistoricalTicketInput) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpAddHistoricalTicket); err != nil {
		return nil, err
	}

	input.Issue = strings.TrimSpace(input.Issue)
	input.WorkDoneNotes = strings.TrimSpace(input.WorkDoneNotes)
	if input.VehicleID == "" || input.Issue == "" || input.WorkDoneNotes == "" {
		return nil, apperrors.NewValidationError("vehicle_id, issue and work_done_notes are required", nil)
	}
	if !domain.ValidSection(input.Section) {
		return nil, apperrors.NewValidationError("unknown section", map[string]any{"section": input.Section})
	}
	if input.Kilometers < 0 {
		return nil, apperrors.NewValidationError("kilometers must not be negative", nil)
	}
	if input.RepairedAt.IsZero() {
		return nil, apperrors.NewValidationError("repaired_at is required", nil)
	}
	if _, err := s.vehicles.GetByID(ctx, input.VehicleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("vehicle", map[string]any{"vehicle_id": input.VehicleID})
		}
		return nil, apperrors.MapError(err)
	}

	repairedAt := input.RepairedAt
	ticket := &domain.Ticket{
		ID:            uuid.NewString(),
		Serial:        generateTicketSerial(repairedAt),
		VehicleID:     input.VehicleID,
		Issue:         domain.HistoricalIssuePrefix + input.Issue,
		ReportedBy:    "Historical Data",
		Section:       input.Section,
		Priority:      domain.TicketPriorityMedium,
		Kilometers:    input.Kilometers,
		AssignedTo:    []string{},
		WorkDoneNotes: input.WorkDoneNotes,
		CreatedAt:     repairedAt,
		StartedAt:     &repairedAt,
		ClosedAt:      &repairedAt,
		ConfirmedAt:   &repairedAt,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	// No event: historical imports feed analytics, not the live workflow.
	return ticket, nil
}

// AssignTechnicians replaces the assignment wholesale; the last writer wins.
func (s *TicketService) AssignTechnicians(ctx context.Context, actor *domain.User, ticketID string, technicians []string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpAssignTechnicians); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	status := ticket.Status()
	if status != domain.TicketStatusOpen && status != domain.TicketStatusInProgress {
		return nil, invalidTransition("technicians can only be assigned while open or in progress", ticket)
	}

	assigned := make([]string, 0, len(technicians))
	for _, tech := range technicians {
		tech = strings.TrimSpace(tech)
		if tech != "" {
			assigned = append(assigned, tech)
		}
	}
	ticket.AssignedTo = assigned
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventTechniciansAssigned, events.TechniciansAssignedPayload{
		Technicians: assigned,
	}); err != nil {
		return nil, err
	}
	return ticket, nil
}

// StartWork moves an open ticket into progress. The freshness gate requires
// an inspection of the vehicle performed after the ticket was created.
func (s *TicketService) StartWork(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpStartWork); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status() != domain.TicketStatusOpen {
		return nil, invalidTransition("work can only start on an open ticket", ticket)
	}

	latest, err := s.inspections.LatestByVehicle(ctx, ticket.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInspectionRequired(ticket.VehicleID)
		}
		return nil, apperrors.MapError(err)
	}
	if latest.CreatedAt.Before(ticket.CreatedAt) {
		return nil, apperrors.NewInspectionRequired(ticket.VehicleID)
	}

	now := time.Now()
	ticket.StartedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventWorkStarted, nil); err != nil {
		return nil, err
	}
	return ticket, nil
}

// FinishWork completes the maintenance work and hands the ticket to
// operations for confirmation.
func (s *TicketService) FinishWork(ctx context.Context, actor *domain.User, ticketID, workDoneNotes string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpFinishWork); err != nil {
		return nil, err
	}
	workDoneNotes = strings.TrimSpace(workDoneNotes)
	if workDoneNotes == "" {
		return nil, apperrors.NewValidationError("work_done_notes is required", nil)
	}

	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status() != domain.TicketStatusInProgress {
		return nil, invalidTransition("work can only finish while in progress", ticket)
	}

	now := time.Now()
	ticket.WorkDoneNotes = workDoneNotes
	ticket.ClosedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventWorkFinished, events.WorkFinishedPayload{
		WorkDoneNotes: workDoneNotes,
	}); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Confirm closes the ticket after operations verified the work. Terminal.
func (s *TicketService) Confirm(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpConfirmTicket); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status() != domain.TicketStatusPendingConfirmation {
		return nil, invalidTransition("only a ticket pending confirmation can be confirmed", ticket)
	}

	now := time.Now()
	ticket.ConfirmedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventTicketConfirmed, nil); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Get fetches one ticket.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getTicket(ctx, ticketID)
}

// List returns tickets matching the filter, newest first.
func (s *TicketService) List(ctx context.Context, input TicketListInput) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		VehicleID:   input.VehicleID,
		Section:     input.Section,
		Statuses:    input.Statuses,
		Priorities:  input.Priorities,
		Technician:  input.Technician,
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
		Limit:       input.Limit,
		Offset:      input.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, actor *domain.User, ticket *domain.Ticket, eventType events.EventType, payload interface{}) error {
	return publishEvent(ctx, s.dispatcher, actor, ticket, eventType, payload)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, actor *domain.User, ticket *domain.Ticket, eventType events.EventType, payload interface{}) error {
	if dispatcher == nil {
		return nil
	}
	event := events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		TicketID:     ticket.ID,
		TicketSerial: ticket.Serial,
		VehicleID:    ticket.VehicleID,
		Timestamp:    time.Now(),
		Payload:      payload,
	}
	if actor != nil {
		event.Actor = events.Actor{UserID: actor.ID, Role: actor.Role}
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func requireCapability(actor *domain.User, op auth.Operation) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !auth.CanPerform(actor.Role, op) {
		return apperrors.NewForbidden("role not allowed to perform this operation")
	}
	return nil
}

func invalidTransition(message string, ticket *domain.Ticket) error {
	return apperrors.NewInvalidTransition(message, map[string]any{
		"ticket_id":      ticket.ID,
		"current_status": ticket.Status(),
	})
}

func generateTicketSerial(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return "TICKET-" + at.Format("20060102") + "-" + suffix
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/auth"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/events"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// PartsService runs the spare-parts reservation sub-flow:
// pending -> admin_approved -> issued -> warehouse_completed, with rejection
// branches at the two approval points. Every transition here also moves the
// parent ticket's derived status.
type PartsService struct {
	tickets    repository.TicketRepository
	spareParts repository.SparePartRepository
	dispatcher events.Dispatcher
	locks      *TicketLocks
}

// PartsDependencies bundles collaborators for the parts sub-flow.
type PartsDependencies struct {
	TicketRepo    repository.TicketRepository
	SparePartRepo repository.SparePartRepository
	Dispatcher    events.Dispatcher
	Locks         *TicketLocks
}

// NewPartsService constructs the service.
func NewPartsService(deps PartsDependencies) *PartsService {
	return &PartsService{
		tickets:    deps.TicketRepo,
		spareParts: deps.SparePartRepo,
		dispatcher: deps.Dispatcher,
		locks:      deps.Locks,
	}
}

// Request submits a new spare-parts request for an in-progress ticket. The
// parts mapping is fixed once submitted; a rejected request is replaced by a
// fresh one rather than edited.
func (s *PartsService) Request(ctx context.Context, actor *domain.User, ticketID string, parts map[string]int) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpRequestParts); err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, apperrors.NewValidationError("a part request needs at least one line item; use no-parts-required instead", nil)
	}
	requested := make(map[string]int, len(parts))
	for code, qty := range parts {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, apperrors.NewValidationError("part codes must not be empty", nil)
		}
		if qty <= 0 {
			return nil, apperrors.NewValidationError("quantities must be positive", map[string]any{"sap_code": code, "quantity": qty})
		}
		requested[code] = qty
	}

	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status() != domain.TicketStatusInProgress {
		return nil, invalidTransition("parts can only be requested while work is in progress", ticket)
	}
	if pr := ticket.PartRequest; pr != nil && pr.Status != domain.PartRequestRejected {
		return nil, invalidTransition("ticket already has a part request", ticket)
	}

	ticket.PartRequest = &domain.PartRequest{
		Serial:      "REQ-" + ticket.Serial,
		Parts:       requested,
		Status:      domain.PartRequestPending,
		RequestedAt: time.Now(),
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventPartsRequested, events.PartsRequestedPayload{
		RequestSerial: ticket.PartRequest.Serial,
		Parts:         requested,
	}); err != nil {
		return nil, err
	}
	return ticket, nil
}

// MarkNoPartsRequired records that the work needs no spare parts. The ticket
// stays in progress.
func (s *PartsService) MarkNoPartsRequired(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpNoPartsRequired); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status() != domain.TicketStatusInProgress {
		return nil, invalidTransition("no-parts-required only applies while work is in progress", ticket)
	}

	ticket.PartRequest = &domain.PartRequest{
		Serial:      "REQ-" + ticket.Serial,
		Parts:       map[string]int{},
		Status:      domain.PartRequestNone,
		RequestedAt: time.Now(),
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Approve lets the spares admin approve a pending request; the ticket moves
// to the warehouse queue.
func (s *PartsService) Approve(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpApproveRequest); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, pr, err := s.getTicketWithRequest(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if pr.Status != domain.PartRequestPending {
		return nil, invalidTransition("only a pending request can be approved", ticket)
	}

	now := time.Now()
	pr.AdminResolvedAt = &now
	pr.Status = domain.PartRequestAdminApproved
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventPartRequestApproved, resolvedPayload(pr)); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Reject lets the spares admin reject a pending request; the ticket returns
// to in-progress and the technician must submit a fresh request.
func (s *PartsService) Reject(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpRejectRequest); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, pr, err := s.getTicketWithRequest(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if pr.Status != domain.PartRequestPending {
		return nil, invalidTransition("only a pending request can be rejected", ticket)
	}

	now := time.Now()
	pr.AdminResolvedAt = &now
	pr.Status = domain.PartRequestRejected
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventPartRequestRejected, resolvedPayload(pr)); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Issue decrements inventory for every line item and marks the request
// issued. The decrement is all-or-nothing: stock is checked at issue time,
// not request time, and a single short line aborts the whole batch.
func (s *PartsService) Issue(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpIssueParts); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, pr, err := s.getTicketWithRequest(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if pr.Status != domain.PartRequestAdminApproved {
		return nil, invalidTransition("only an admin-approved request can be issued", ticket)
	}

	if err := s.spareParts.IssueStock(ctx, pr.Parts); err != nil {
		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, apperrors.NewInsufficientStock(stockErr.SAPCode, stockErr.Requested, stockErr.Available)
		}
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	pr.WarehouseResolvedAt = &now
	pr.Status = domain.PartRequestIssued
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventPartsIssued, resolvedPayload(pr)); err != nil {
		return nil, err
	}
	return ticket, nil
}

// RejectByWarehouse rejects an approved request when the warehouse finds a
// stock discrepancy. Nothing was decremented yet, so inventory is untouched.
func (s *PartsService) RejectByWarehouse(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpRejectPartsByWarehouse); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, pr, err := s.getTicketWithRequest(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if pr.Status != domain.PartRequestAdminApproved {
		return nil, invalidTransition("only an admin-approved request can be rejected by the warehouse", ticket)
	}

	pr.Status = domain.PartRequestRejected
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventPartsRejectedByWarehouse, resolvedPayload(pr)); err != nil {
		return nil, err
	}
	return ticket, nil
}

// CompleteHandover records the physical transfer of issued parts to the
// technician; the ticket resumes in-progress work.
func (s *PartsService) CompleteHandover(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := requireCapability(actor, auth.OpCompleteHandover); err != nil {
		return nil, err
	}
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, pr, err := s.getTicketWithRequest(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if pr.Status != domain.PartRequestIssued {
		return nil, invalidTransition("only issued parts can be handed over", ticket)
	}

	now := time.Now()
	pr.WarehouseCompletedAt = &now
	pr.Status = domain.PartRequestWarehouseCompleted
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.publish(ctx, actor, ticket, events.EventHandoverCompleted, resolvedPayload(pr)); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *PartsService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *PartsService) getTicketWithRequest(ctx context.Context, ticketID string) (*domain.Ticket, *domain.PartRequest, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if ticket.PartRequest == nil {
		return nil, nil, apperrors.NewInvalidTransition("ticket has no part request", map[string]any{
			"ticket_id": ticket.ID,
		})
	}
	return ticket, ticket.PartRequest, nil
}

func (s *PartsService) publish(ctx context.Context, actor *domain.User, ticket *domain.Ticket, eventType events.EventType, payload interface{}) error {
	return publishEvent(ctx, s.dispatcher, actor, ticket, eventType, payload)
}

func resolvedPayload(pr *domain.PartRequest) events.PartRequestResolvedPayload {
	return events.PartRequestResolvedPayload{
		RequestSerial: pr.Serial,
		Status:        pr.Status,
	}
}

// Package memory provides process-local implementations of the repository
// interfaces. The service boots on this store when no POSTGRES_DSN is
// configured; the lifecycle tests run against it directly.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
)

// Store holds every entity map behind one mutex. The workflow is synchronous
// and single-process, so one lock is enough; IssueStock gets its
// check-then-apply atomicity from the same lock.
type Store struct {
	mu            sync.RWMutex
	tickets       map[string]*domain.Ticket
	spareParts    map[string]*domain.SparePart
	vehicles      map[string]*domain.Vehicle
	inspections   []domain.Inspection
	users         map[string]*domain.User
	notifications []domain.Notification
}

// NewStore initializes an empty store.
func NewStore() *Store {
	return &Store{
		tickets:    make(map[string]*domain.Ticket),
		spareParts: make(map[string]*domain.SparePart),
		vehicles:   make(map[string]*domain.Vehicle),
		users:      make(map[string]*domain.User),
	}
}

// Tickets returns the ticket repository view of the store.
func (s *Store) Tickets() repository.TicketRepository { return (*ticketStore)(s) }

// SpareParts returns the inventory repository view of the store.
func (s *Store) SpareParts() repository.SparePartRepository { return (*sparePartStore)(s) }

// Vehicles returns the vehicle repository view of the store.
func (s *Store) Vehicles() repository.VehicleRepository { return (*vehicleStore)(s) }

// Inspections returns the inspection repository view of the store.
func (s *Store) Inspections() repository.InspectionRepository { return (*inspectionStore)(s) }

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return (*userStore)(s) }

// Notifications returns the notification repository view of the store.
func (s *Store) Notifications() repository.NotificationRepository { return (*notificationStore)(s) }

type ticketStore Store

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.AssignedTo = append([]string(nil), t.AssignedTo...)
	if t.Location != nil {
		loc := *t.Location
		clone.Location = &loc
	}
	clone.StartedAt = cloneTime(t.StartedAt)
	clone.ClosedAt = cloneTime(t.ClosedAt)
	clone.ConfirmedAt = cloneTime(t.ConfirmedAt)
	if t.PartRequest != nil {
		pr := *t.PartRequest
		pr.Parts = make(map[string]int, len(t.PartRequest.Parts))
		for code, qty := range t.PartRequest.Parts {
			pr.Parts[code] = qty
		}
		pr.AdminResolvedAt = cloneTime(t.PartRequest.AdminResolvedAt)
		pr.WarehouseResolvedAt = cloneTime(t.PartRequest.WarehouseResolvedAt)
		pr.WarehouseCompletedAt = cloneTime(t.PartRequest.WarehouseCompletedAt)
		clone.PartRequest = &pr
	}
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (s *ticketStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (s *ticketStore) Update(ctx context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[ticket.ID]; !ok {
		return repository.ErrNotFound
	}
	s.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (s *ticketStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTicket(ticket), nil
}

func (s *ticketStore) GetBySerial(ctx context.Context, serial string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ticket := range s.tickets {
		if ticket.Serial == serial {
			return cloneTicket(ticket), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ticketStore) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Ticket
	for _, ticket := range s.tickets {
		if !matchesFilter(ticket, filter) {
			continue
		}
		result = append(result, *cloneTicket(ticket))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func matchesFilter(t *domain.Ticket, filter repository.TicketFilter) bool {
	if filter.VehicleID != nil && t.VehicleID != *filter.VehicleID {
		return false
	}
	if filter.Section != nil && t.Section != *filter.Section {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status()) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, t.Priority) {
		return false
	}
	if filter.Technician != nil {
		found := false
		for _, tech := range t.AssignedTo {
			if tech == *filter.Technician {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.CreatedFrom != nil && t.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && t.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func containsPriority(priorities []domain.TicketPriority, priority domain.TicketPriority) bool {
	for _, p := range priorities {
		if p == priority {
			return true
		}
	}
	return false
}
